package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

const collectionProfessionals = "professionals"

var professionalUniqueFields = map[string]bool{"email": true, "dni": true}

type ProfessionalRepository struct {
	col *mongo.Collection
}

func NewProfessionalRepository(db *mongo.Database) *ProfessionalRepository {
	return &ProfessionalRepository{col: db.Collection(collectionProfessionals)}
}

type mongoProfessional struct {
	ID                      primitive.ObjectID  `bson:"_id,omitempty"`
	FirstName               string              `bson:"firstName"`
	LastName                string              `bson:"lastName"`
	Profession              string              `bson:"profession"`
	Specialty               string              `bson:"specialty,omitempty"`
	Email                   string              `bson:"email"`
	DNI                     string              `bson:"dni"`
	ProfessionLicenceNumber string              `bson:"professionLicenceNumber,omitempty"`
	Color                   string              `bson:"color"`
	ImageURL                string              `bson:"imageUrl,omitempty"`
	UserID                  *primitive.ObjectID `bson:"userId,omitempty"`
	Active                  bool                `bson:"active"`
	CreatedAt               time.Time           `bson:"createdAt"`
	UpdatedAt               time.Time           `bson:"updatedAt"`
}

func (mp *mongoProfessional) toDomain() *domain.Professional {
	return &domain.Professional{
		ID:                      mp.ID.Hex(),
		FirstName:               mp.FirstName,
		LastName:                mp.LastName,
		Profession:              mp.Profession,
		Specialty:               mp.Specialty,
		Email:                   mp.Email,
		DNI:                     mp.DNI,
		ProfessionLicenceNumber: mp.ProfessionLicenceNumber,
		Color:                   mp.Color,
		ImageURL:                mp.ImageURL,
		UserID:                  hexOrEmpty(mp.UserID),
		Active:                  mp.Active,
		CreatedAt:               mp.CreatedAt,
		UpdatedAt:               mp.UpdatedAt,
	}
}

func (r *ProfessionalRepository) Create(ctx context.Context, p *domain.Professional) (*domain.Professional, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProfessional{
		FirstName:               p.FirstName,
		LastName:                p.LastName,
		Profession:              p.Profession,
		Specialty:               p.Specialty,
		Email:                   p.Email,
		DNI:                     p.DNI,
		ProfessionLicenceNumber: p.ProfessionLicenceNumber,
		Color:                   p.Color,
		ImageURL:                p.ImageURL,
		UserID:                  optionalObjectID(p.UserID),
		Active:                  p.Active,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert professional: %w", asDuplicate(err))
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ProfessionalRepository) FindByID(ctx context.Context, id string) (*domain.Professional, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProfessionalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProfessional
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("find professional: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfessionalRepository) ListActive(ctx context.Context) ([]*domain.Professional, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoProfessional
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode professionals: %w", err)
	}
	out := make([]*domain.Professional, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ProfessionalRepository) Update(ctx context.Context, p *domain.Professional) (*domain.Professional, error) {
	oid, ok := objectID(p.ID)
	if !ok {
		return nil, domain.ErrProfessionalNotFound
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{
		"firstName":               p.FirstName,
		"lastName":                p.LastName,
		"profession":              p.Profession,
		"specialty":               p.Specialty,
		"email":                   p.Email,
		"dni":                     p.DNI,
		"professionLicenceNumber": p.ProfessionLicenceNumber,
		"imageUrl":                p.ImageURL,
		"updatedAt":               p.UpdatedAt,
	}})
}

func (r *ProfessionalRepository) SetUserID(ctx context.Context, id, userID string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProfessionalNotFound
	}
	uid, ok := objectID(userID)
	if !ok {
		return fmt.Errorf("set professional user: invalid user id %q", userID)
	}
	_, err := r.updateOne(ctx, oid, bson.M{"$set": bson.M{"userId": uid}})
	return err
}

func (r *ProfessionalRepository) SetActive(ctx context.Context, id string, active bool) (*domain.Professional, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProfessionalNotFound
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{"active": active, "updatedAt": time.Now().UTC()}})
}

func (r *ProfessionalRepository) updateOne(ctx context.Context, oid primitive.ObjectID, update bson.M) (*domain.Professional, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProfessional
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrProfessionalNotFound
		}
		return nil, fmt.Errorf("update professional: %w", asDuplicate(err))
	}
	return doc.toDomain(), nil
}

// Delete removes a professional that never got a login account.
func (r *ProfessionalRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProfessionalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete professional: %w", err)
	}
	return nil
}

func (r *ProfessionalRepository) Exists(ctx context.Context, field, value, excludeID string) (bool, error) {
	if !professionalUniqueFields[field] {
		return false, fmt.Errorf("professional exists: unsupported field %q", field)
	}
	filter := bson.M{field: value}
	if oid, ok := objectID(excludeID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("professional exists: %w", err)
	}
	return n > 0, nil
}

func (r *ProfessionalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{{Keys: bson.D{{Key: "active", Value: 1}, {Key: "lastName", Value: 1}}}}
	for field := range professionalUniqueFields {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(uniqueIndexPrefix + field),
		})
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("professionals indexes: %w", err)
	}
	return nil
}
