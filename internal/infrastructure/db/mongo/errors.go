package mongo

import (
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

// uniqueIndexPrefix names unique indexes uniq_<field> so a duplicate-key
// error can be traced back to the field that collided.
const uniqueIndexPrefix = "uniq_"

var dupIndexPattern = regexp.MustCompile(`index: (\S+)`)

// asDuplicate converts a duplicate-key error into *domain.DuplicateError.
// Other errors are returned unchanged.
func asDuplicate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	m := dupIndexPattern.FindStringSubmatch(err.Error())
	if len(m) < 2 || !strings.HasPrefix(m[1], uniqueIndexPrefix) {
		return &domain.DuplicateError{Field: "unknown"}
	}
	return &domain.DuplicateError{Field: strings.TrimPrefix(m[1], uniqueIndexPrefix)}
}

// objectID parses a hex id. Malformed ids cannot match any document, so
// callers report them with their not-found error.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func optionalObjectID(id string) *primitive.ObjectID {
	if oid, ok := objectID(id); ok {
		return &oid
	}
	return nil
}

func hexOrEmpty(oid *primitive.ObjectID) string {
	if oid == nil {
		return ""
	}
	return oid.Hex()
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
