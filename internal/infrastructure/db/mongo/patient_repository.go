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

const collectionPatients = "patients"

// patientUniqueFields are the fields Exists may be asked about.
var patientUniqueFields = map[string]bool{"email": true, "phone": true, "dni": true}

type PatientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{col: db.Collection(collectionPatients)}
}

type mongoPatient struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty"`
	FirstName        string              `bson:"firstName"`
	LastName         string              `bson:"lastName"`
	Email            string              `bson:"email"`
	Phone            string              `bson:"phone"`
	DNI              string              `bson:"dni"`
	BirthDate        time.Time           `bson:"birthDate"`
	Gender           string              `bson:"gender"`
	Street           string              `bson:"street"`
	City             string              `bson:"city"`
	PostalCode       string              `bson:"postalCode"`
	Nationality      string              `bson:"nationality"`
	EmergencyContact string              `bson:"emergencyContact"`
	ImageURL         string              `bson:"imageUrl,omitempty"`
	UserID           *primitive.ObjectID `bson:"userId,omitempty"`
	Active           bool                `bson:"active"`
	CreatedAt        time.Time           `bson:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt"`
}

func toMongoPatient(p *domain.Patient) mongoPatient {
	doc := mongoPatient{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		Phone:            p.Phone,
		DNI:              p.DNI,
		BirthDate:        p.BirthDate,
		Gender:           p.Gender,
		Street:           p.Street,
		City:             p.City,
		PostalCode:       p.PostalCode,
		Nationality:      p.Nationality,
		EmergencyContact: p.EmergencyContact,
		ImageURL:         p.ImageURL,
		UserID:           optionalObjectID(p.UserID),
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if oid, ok := objectID(p.ID); ok {
		doc.ID = oid
	}
	return doc
}

func (mp *mongoPatient) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:               mp.ID.Hex(),
		FirstName:        mp.FirstName,
		LastName:         mp.LastName,
		Email:            mp.Email,
		Phone:            mp.Phone,
		DNI:              mp.DNI,
		BirthDate:        mp.BirthDate,
		Gender:           mp.Gender,
		Street:           mp.Street,
		City:             mp.City,
		PostalCode:       mp.PostalCode,
		Nationality:      mp.Nationality,
		EmergencyContact: mp.EmergencyContact,
		ImageURL:         mp.ImageURL,
		UserID:           hexOrEmpty(mp.UserID),
		Active:           mp.Active,
		CreatedAt:        mp.CreatedAt,
		UpdatedAt:        mp.UpdatedAt,
	}
}

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoPatient(p)
	doc.ID = primitive.NilObjectID
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert patient: %w", asDuplicate(err))
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPatientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoPatient
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PatientRepository) ListActive(ctx context.Context) ([]*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPatient
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	out := make([]*domain.Patient, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *PatientRepository) Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	oid, ok := objectID(p.ID)
	if !ok {
		return nil, domain.ErrPatientNotFound
	}

	doc := toMongoPatient(p)
	set := bson.M{
		"firstName":        doc.FirstName,
		"lastName":         doc.LastName,
		"email":            doc.Email,
		"phone":            doc.Phone,
		"dni":              doc.DNI,
		"birthDate":        doc.BirthDate,
		"gender":           doc.Gender,
		"street":           doc.Street,
		"city":             doc.City,
		"postalCode":       doc.PostalCode,
		"nationality":      doc.Nationality,
		"emergencyContact": doc.EmergencyContact,
		"imageUrl":         doc.ImageURL,
		"updatedAt":        doc.UpdatedAt,
	}
	return r.updateOne(ctx, oid, bson.M{"$set": set})
}

func (r *PatientRepository) SetUserID(ctx context.Context, id, userID string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrPatientNotFound
	}
	uid, ok := objectID(userID)
	if !ok {
		return fmt.Errorf("set patient user: invalid user id %q", userID)
	}
	_, err := r.updateOne(ctx, oid, bson.M{"$set": bson.M{"userId": uid}})
	return err
}

func (r *PatientRepository) SetActive(ctx context.Context, id string, active bool) (*domain.Patient, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	return r.updateOne(ctx, oid, bson.M{"$set": bson.M{"active": active, "updatedAt": time.Now().UTC()}})
}

func (r *PatientRepository) updateOne(ctx context.Context, oid primitive.ObjectID, update bson.M) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoPatient
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("update patient: %w", asDuplicate(err))
	}
	return doc.toDomain(), nil
}

// Delete removes the document outright. It only undoes a half-finished
// create; regular deletion is SetActive(false).
func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrPatientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) Exists(ctx context.Context, field, value, excludeID string) (bool, error) {
	if !patientUniqueFields[field] {
		return false, fmt.Errorf("patient exists: unsupported field %q", field)
	}
	filter := bson.M{field: value}
	if oid, ok := objectID(excludeID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("patient exists: %w", err)
	}
	return n > 0, nil
}

func (r *PatientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{{Keys: bson.D{{Key: "active", Value: 1}, {Key: "lastName", Value: 1}}}}
	for field := range patientUniqueFields {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(uniqueIndexPrefix + field),
		})
	}
	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("patients indexes: %w", err)
	}
	return nil
}
