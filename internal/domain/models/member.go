// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member status values. Admins toggle between them through the edit form.
const (
	MemberActive   = "active"
	MemberInactive = "inactive"
)

// Member is a gym member profile.
//
// NOTE:
//   - Email joins a member to its UserRole and to the member dashboard.
//     Uniqueness is not enforced; the first match wins.
type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	DateOfBirth string             `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"` // yyyy-mm-dd as entered
	Package     Package            `bson:"package" json:"package"`
	Status      string             `bson:"status" json:"status"` // active | inactive
	Photo       *string            `bson:"photo,omitempty" json:"photo,omitempty"`
	JoinDate    time.Time          `bson:"join_date" json:"join_date"`
}

// IsActive reports whether the member is active.
func (m Member) IsActive() bool { return m.Status == MemberActive }

// ValidMemberStatus reports whether s is active or inactive.
func ValidMemberStatus(s string) bool {
	return s == MemberActive || s == MemberInactive
}
