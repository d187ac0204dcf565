package inbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/kstorelabs/notify/pkg/notification"
)

// DefaultCollection is the Mongo collection inbox entries live in.
const DefaultCollection = "inbox_entries"

// MongoStore is the production Store implementation backed by MongoDB.
// Entry IDs are stored as UUID strings so documents stay readable in the
// shell and portable across driver versions.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a Mongo-backed inbox store on the default collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(DefaultCollection)}
}

// entryDoc is the BSON shape of an Entry.
type entryDoc struct {
	ID             string            `bson:"_id"`
	UserID         string            `bson:"user_id"`
	NotificationID string            `bson:"notification_id"`
	Title          string            `bson:"title"`
	Message        string            `bson:"message"`
	Type           notification.Type `bson:"type"`
	Priority       Priority          `bson:"priority"`
	Read           bool              `bson:"read"`
	Archived       bool              `bson:"archived"`
	ReadAt         *time.Time        `bson:"read_at,omitempty"`
	ArchivedAt     *time.Time        `bson:"archived_at,omitempty"`
	ExpiresAt      time.Time         `bson:"expires_at"`
	CreatedAt      time.Time         `bson:"created_at"`
	UpdatedAt      time.Time         `bson:"updated_at"`
}

func toDoc(e *Entry) entryDoc {
	return entryDoc{
		ID:             e.ID.String(),
		UserID:         e.UserID,
		NotificationID: e.NotificationID.String(),
		Title:          e.Title,
		Message:        e.Message,
		Type:           e.Type,
		Priority:       e.Priority,
		Read:           e.Read,
		Archived:       e.Archived,
		ReadAt:         e.ReadAt,
		ArchivedAt:     e.ArchivedAt,
		ExpiresAt:      e.ExpiresAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func fromDoc(d entryDoc) (*Entry, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse inbox entry id %q: %w", d.ID, err)
	}
	notificationID, err := uuid.Parse(d.NotificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification id %q: %w", d.NotificationID, err)
	}

	return &Entry{
		ID:             id,
		UserID:         d.UserID,
		NotificationID: notificationID,
		Title:          d.Title,
		Message:        d.Message,
		Type:           d.Type,
		Priority:       d.Priority,
		Read:           d.Read,
		Archived:       d.Archived,
		ReadAt:         d.ReadAt,
		ArchivedAt:     d.ArchivedAt,
		ExpiresAt:      d.ExpiresAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func (s *MongoStore) Insert(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, toDoc(e)); err != nil {
		return fmt.Errorf("failed to insert inbox entry %s: %w", e.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id uuid.UUID, userID string) (*Entry, error) {
	var doc entryDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String(), "user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get inbox entry %s: %w", id, err)
	}
	return fromDoc(doc)
}

func (s *MongoStore) List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Entry, error) {
	query := bson.M{"user_id": userID}
	if filter.UnreadOnly {
		query["read"] = false
	}
	if filter.ActiveOnly {
		query["archived"] = false
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox entries for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var out []*Entry
	for cursor.Next(ctx) {
		var doc entryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode inbox entry: %w", err)
		}
		e, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inbox entries: %w", err)
	}
	return out, nil
}

func (s *MongoStore) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread entries for user %s: %w", userID, err)
	}
	return count, nil
}

func (s *MongoStore) MarkRead(ctx context.Context, id uuid.UUID, userID string, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "user_id": userID},
		bson.M{"$set": bson.M{"read": true, "read_at": at, "updated_at": at}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark inbox entry %s read: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": at, "updated_at": at}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all entries read for user %s: %w", userID, err)
	}
	return res.ModifiedCount, nil
}

func (s *MongoStore) Archive(ctx context.Context, id uuid.UUID, userID string, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "user_id": userID},
		bson.M{"$set": bson.M{"archived": true, "archived_at": at, "updated_at": at}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to archive inbox entry %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID, userID string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete inbox entry %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired inbox entries: %w", err)
	}
	return res.DeletedCount, nil
}
