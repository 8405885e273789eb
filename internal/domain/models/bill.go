// internal/domain/models/bill.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bill status values. A bill only moves pending -> paid.
const (
	BillPending = "pending"
	BillPaid    = "paid"
)

// Bill is a charge against a member. MemberID is not checked against the
// members collection; a bill whose member was deleted renders as "Unknown".
type Bill struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID `bson:"member_id" json:"member_id"`
	Package   Package            `bson:"package" json:"package"`
	Amount    float64            `bson:"amount" json:"amount"`
	DueDate   *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	PaidDate  *time.Time         `bson:"paid_date,omitempty" json:"paid_date,omitempty"`
}

// IsPaid reports whether the bill has been paid.
func (b Bill) IsPaid() bool { return b.Status == BillPaid }
