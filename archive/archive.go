// Package archive keeps contact submissions that the content store refused,
// so the best-effort persistence step never silently loses a message.
package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sipin/cafesite/models"
)

// InitMongoClient initializes the MongoDB client and returns a reference to it.
func InitMongoClient(uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type Store struct {
	collection *mongo.Collection
	log        *slog.Logger
}

func NewStore(client *mongo.Client, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		collection: client.Database("cafeDB").Collection("contact_submissions"),
		log:        log.With("component", "archive"),
	}
}

// Park records a submission the content store would not take, together with
// the failure that sent it here. Parking is best-effort too: a failure is
// logged and swallowed, it never affects the request.
func (s *Store) Park(ctx context.Context, sub *models.ContactSubmission, cause string) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := bson.M{
		"_id":        uuid.NewString(),
		"submission": sub,
		"cause":      cause,
		"parkedAt":   time.Now().UTC(),
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		s.log.Error("failed to park contact submission", "error", err, "email", sub.Email)
	}
}
