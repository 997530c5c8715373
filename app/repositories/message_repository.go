package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chungtay/app/models"
	"chungtay/pkg/database"
)

// MessageRepository handles the messages collection.
type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{col: database.Collection("messages")}
}

// Create appends a message to a case's chat. Messages are never edited.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	m.CreatedAt = time.Now()

	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListByCase returns all messages for a case ordered by creation time.
func (r *MessageRepository) ListByCase(ctx context.Context, caseID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}

	messages := []models.Message{}
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
