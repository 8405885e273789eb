// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a broadcast message. There is no per-recipient read state.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"` // markdown
	TargetRole string             `bson:"target_role" json:"target_role"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	IsActive   bool               `bson:"is_active" json:"is_active"`
}
