// internal/domain/models/logentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogEntry is one append-only audit record in the logs collection.
// The admin dashboard shows the newest few as recent activity.
type LogEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    string             `bson:"action" json:"action"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Details   map[string]any     `bson:"details,omitempty" json:"details,omitempty"`
}
