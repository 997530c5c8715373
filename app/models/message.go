package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is an append-only chat entry scoped to a case.
type Message struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseID  primitive.ObjectID `bson:"case_id" json:"case_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Content string             `bson:"content" json:"content"`
	IsAdmin bool               `bson:"is_admin" json:"is_admin"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
