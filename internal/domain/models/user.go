// internal/domain/models/user.go
package models

import "time"

// UserRole is the per-identity role document stored in the users collection.
// Its ID is the identity provider's id for the account, so there is at most
// one role record per identity.
//
// Name and Phone are only filled for read-only "user" accounts.
type UserRole struct {
	ID        string    `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Role      Role      `bson:"role" json:"role"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Phone     *string   `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
