package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/repository"
)

const sessionCollectionName = "sessions"

// sessionDocument keeps the date and time as zero-padded strings so that
// sorting on them is chronological.
type sessionDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	TrainerID   primitive.ObjectID `bson:"trainerId"`
	Title       string             `bson:"title"`
	ClientName  string             `bson:"clientName"`
	SessionType string             `bson:"sessionType"`
	Description string             `bson:"description,omitempty"`
	SessionDate string             `bson:"sessionDate"`
	SessionTime string             `bson:"sessionTime"`
	Duration    int                `bson:"duration"`
	Status      string             `bson:"status,omitempty"` // Absent means scheduled
	CreatedAt   time.Time          `bson:"createdAt"`
}

func newSessionDocument(trainerID primitive.ObjectID, s domain.Session, now time.Time) sessionDocument {
	doc := sessionDocument{
		ID:          primitive.NewObjectID(),
		TrainerID:   trainerID,
		Title:       s.Title,
		ClientName:  s.ClientName,
		SessionType: s.SessionType,
		Description: s.Description,
		SessionDate: s.Date.String(),
		SessionTime: s.Time.String(),
		Duration:    s.DurationMinutes,
		CreatedAt:   now,
	}
	if st := s.StoredStatus(); st != domain.SessionScheduled {
		doc.Status = string(st)
	}
	return doc
}

// toDomain validates the stored shape once, at the store boundary.
func (d sessionDocument) toDomain() (domain.Session, error) {
	date, err := domain.ParseDate(d.SessionDate)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %s: %w", d.ID.Hex(), err)
	}
	tod, err := domain.ParseTimeOfDay(d.SessionTime)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %s: %w", d.ID.Hex(), err)
	}
	status, err := domain.ParseSessionStatus(d.Status)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %s: %w", d.ID.Hex(), err)
	}
	if d.Duration <= 0 {
		return domain.Session{}, fmt.Errorf("session %s: non-positive duration %d", d.ID.Hex(), d.Duration)
	}
	return domain.Session{
		ID:              d.ID.Hex(),
		TrainerID:       d.TrainerID.Hex(),
		Title:           d.Title,
		ClientName:      d.ClientName,
		SessionType:     d.SessionType,
		Description:     d.Description,
		Date:            date,
		Time:            tod,
		DurationMinutes: d.Duration,
		Status:          status,
		CreatedAt:       d.CreatedAt,
	}, nil
}

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// CreateMany inserts all sessions in one ordered batch. If the batch fails
// part way, the documents that made it in are removed again.
func (r *mongoSessionRepository) CreateMany(ctx context.Context, trainerID string, sessions []domain.Session) ([]domain.Session, error) {
	if len(sessions) == 0 {
		return nil, errors.New("at least one session is required")
	}
	tid, err := objectID(trainerID)
	if err != nil {
		return nil, errors.New("valid trainer ID is required")
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(sessions))
	created := make([]domain.Session, len(sessions))
	for i, s := range sessions {
		doc := newSessionDocument(tid, s, now)
		docs[i] = doc
		created[i] = s
		created[i].ID = doc.ID.Hex()
		created[i].TrainerID = trainerID
		created[i].Status = s.StoredStatus()
		created[i].CreatedAt = now
	}

	result, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		if result != nil && len(result.InsertedIDs) > 0 {
			_, delErr := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": result.InsertedIDs}})
			return nil, rollbackError(err, delErr, len(result.InsertedIDs))
		}
		return nil, err
	}
	return created, nil
}

// rollbackError keeps insertErr matchable and reports a failed cleanup next
// to it, since partially inserted sessions are then left behind.
func rollbackError(insertErr, cleanupErr error, inserted int) error {
	if cleanupErr == nil {
		return insertErr
	}
	return errors.Join(insertErr, fmt.Errorf("remove %d partially inserted sessions: %w", inserted, cleanupErr))
}

// ListByTrainer retrieves all sessions of a trainer ordered by date and time.
func (r *mongoSessionRepository) ListByTrainer(ctx context.Context, trainerID string) ([]domain.Session, error) {
	tid, err := objectID(trainerID)
	if err != nil {
		return []domain.Session{}, nil
	}
	filter := bson.M{"trainerId": tid}
	findOptions := options.Find().SetSort(bson.D{{Key: "sessionDate", Value: 1}, {Key: "sessionTime", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []sessionDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, 0, len(docs))
	for _, d := range docs {
		s, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc sessionDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	s, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStatus sets the stored status of a session owned by trainerID,
// provided it is still from.
func (r *mongoSessionRepository) UpdateStatus(ctx context.Context, id, trainerID string, from, to domain.SessionStatus) error {
	owned, err := ownedFilter(id, trainerID)
	if err != nil {
		return err
	}
	filter := bson.M{}
	for k, v := range owned {
		filter[k] = v
	}
	if from == domain.SessionScheduled || from == "" {
		filter["status"] = bson.M{"$exists": false}
	} else {
		filter["status"] = string(from)
	}

	update := bson.M{"$set": bson.M{"status": string(to)}}
	if to == domain.SessionScheduled {
		update = bson.M{"$unset": bson.M{"status": ""}}
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, owned)
		if err != nil {
			return err
		}
		if n > 0 {
			return repository.ErrStatusChanged
		}
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a session owned by trainerID.
func (r *mongoSessionRepository) Delete(ctx context.Context, id, trainerID string) error {
	filter, err := ownedFilter(id, trainerID)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Session not found OR not owned by this trainer.
		return repository.ErrNotFound
	}
	return nil
}

// CountByTrainer counts the sessions a trainer owns.
func (r *mongoSessionRepository) CountByTrainer(ctx context.Context, trainerID string) (int64, error) {
	tid, err := objectID(trainerID)
	if err != nil {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, bson.M{"trainerId": tid})
}

func ownedFilter(id, trainerID string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	tid, err := objectID(trainerID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "trainerId": tid}, nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Trainer listing, sorted chronologically
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "sessionDate", Value: 1}, {Key: "sessionTime", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
