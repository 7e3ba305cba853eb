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

const collectionAppointments = "appointments"

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

type mongoAppointmentStatus struct {
	Cancelled bool       `bson:"cancelled"`
	Timestamp *time.Time `bson:"timestamp,omitempty"`
}

type mongoAppointment struct {
	ID                primitive.ObjectID     `bson:"_id,omitempty"`
	ProfessionalID    primitive.ObjectID     `bson:"professionalId"`
	PatientID         primitive.ObjectID     `bson:"patientId"`
	StartDate         time.Time              `bson:"startDate"`
	EndDate           time.Time              `bson:"endDate"`
	Notes             string                 `bson:"notes"`
	ProfessionalNotes string                 `bson:"professionalNotes"`
	Status            mongoAppointmentStatus `bson:"status"`
	CreatedAt         time.Time              `bson:"createdAt"`
	UpdatedAt         time.Time              `bson:"updatedAt"`
}

func (ma *mongoAppointment) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:                ma.ID.Hex(),
		ProfessionalID:    ma.ProfessionalID.Hex(),
		PatientID:         ma.PatientID.Hex(),
		StartDate:         ma.StartDate.UTC(),
		EndDate:           ma.EndDate.UTC(),
		Notes:             ma.Notes,
		ProfessionalNotes: ma.ProfessionalNotes,
		Status:            domain.AppointmentStatus{Cancelled: ma.Status.Cancelled, Timestamp: ma.Status.Timestamp},
		CreatedAt:         ma.CreatedAt,
		UpdatedAt:         ma.UpdatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	proID, ok := objectID(a.ProfessionalID)
	if !ok {
		return nil, domain.ErrProfessionalNotFound
	}
	patID, ok := objectID(a.PatientID)
	if !ok {
		return nil, domain.ErrPatientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAppointment{
		ProfessionalID:    proID,
		PatientID:         patID,
		StartDate:         a.StartDate,
		EndDate:           a.EndDate,
		Notes:             a.Notes,
		ProfessionalNotes: a.ProfessionalNotes,
		Status:            mongoAppointmentStatus{Cancelled: a.Status.Cancelled, Timestamp: a.Status.Timestamp},
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAppointment
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) List(ctx context.Context) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAppointment
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	out := make([]*domain.Appointment, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// FindOverlapping matches live appointments of either party where
// startDate < end and endDate > start.
func (r *AppointmentRepository) FindOverlapping(ctx context.Context, professionalID, patientID string, start, end time.Time) (*domain.Appointment, error) {
	proID, _ := objectID(professionalID)
	patID, _ := objectID(patientID)

	filter := bson.M{
		"status.cancelled": bson.M{"$ne": true},
		"$or": bson.A{
			bson.M{"professionalId": proID},
			bson.M{"patientId": patID},
		},
		"startDate": bson.M{"$lt": end},
		"endDate":   bson.M{"$gt": start},
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAppointment
	opts := options.FindOne().SetSort(bson.D{{Key: "startDate", Value: 1}})
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping: %w", err)
	}
	return doc.toDomain(), nil
}

// Cancel only writes when the appointment is still live, so the first
// cancellation timestamp is kept.
func (r *AppointmentRepository) Cancel(ctx context.Context, id string, at time.Time) (*domain.Appointment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}

	update := bson.M{"$set": bson.M{
		"status":    mongoAppointmentStatus{Cancelled: true, Timestamp: &at},
		"updatedAt": at,
	}}
	filter := bson.M{"_id": oid, "status.cancelled": bson.M{"$ne": true}}

	a, err := r.findOneAndUpdate(ctx, filter, update)
	if err == domain.ErrAppointmentNotFound {
		return r.FindByID(ctx, id)
	}
	return a, err
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) UpdateNotes(ctx context.Context, id string, notes, professionalNotes *string) (*domain.Appointment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if notes != nil {
		set["notes"] = *notes
	}
	if professionalNotes != nil {
		set["professionalNotes"] = *professionalNotes
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

func (r *AppointmentRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAppointment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes backs the overlap query from both parties' side.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "professionalId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}}},
		{Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}}},
		{Keys: bson.D{{Key: "startDate", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("appointments indexes: %w", err)
	}
	return nil
}
