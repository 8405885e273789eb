// Package billing creates bills and moves them from pending to paid.
package billing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultDueDays is used when the form leaves the due date blank.
const DefaultDueDays = 7

// InputError is a form problem shown to the admin as is.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

var (
	ErrMemberRequired = &InputError{Msg: "Please select a member"}
	ErrUnknownMember  = &InputError{Msg: "Selected member no longer exists"}
	ErrInvalidPackage = &InputError{Msg: "Please choose a package"}
	ErrInvalidAmount  = &InputError{Msg: "Amount must be a positive number"}
	ErrInvalidDueDate = &InputError{Msg: "Due date must be YYYY-MM-DD"}
)

// IsInputError reports whether err is a form validation error.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// Bills is the subset of billstore.Store the service needs.
type Bills interface {
	Create(ctx context.Context, b models.Bill) (models.Bill, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
}

// Members checks that a bill's member exists at creation time.
type Members interface {
	Get(ctx context.Context, id primitive.ObjectID) (models.Member, error)
}

type Service struct {
	bills   Bills
	members Members
	now     func() time.Time
}

func New(bills Bills, members Members) *Service {
	return &Service{bills: bills, members: members, now: time.Now}
}

// WithClock replaces the time source. Tests use it to pin dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Input is the create-bill form as submitted.
type Input struct {
	MemberID string
	Package  string
	Amount   string // blank means the package price
	DueDate  string // yyyy-mm-dd, blank means DefaultDueDays from today
}

// Create validates the form and stores a pending bill.
func (s *Service) Create(ctx context.Context, in Input) (models.Bill, error) {
	memberID, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.MemberID))
	if err != nil {
		return models.Bill{}, ErrMemberRequired
	}
	pkg, ok := models.ParsePackage(in.Package)
	if !ok {
		return models.Bill{}, ErrInvalidPackage
	}

	amount := pkg.Price()
	if raw := strings.TrimSpace(in.Amount); raw != "" {
		amount, err = strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
			return models.Bill{}, ErrInvalidAmount
		}
	}

	now := s.now().UTC()
	due := now.AddDate(0, 0, DefaultDueDays)
	if raw := strings.TrimSpace(in.DueDate); raw != "" {
		due, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return models.Bill{}, ErrInvalidDueDate
		}
	}

	if _, err := s.members.Get(ctx, memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Bill{}, ErrUnknownMember
		}
		return models.Bill{}, fmt.Errorf("load member: %w", err)
	}

	return s.bills.Create(ctx, models.Bill{
		MemberID:  memberID,
		Package:   pkg,
		Amount:    amount,
		DueDate:   &due,
		Status:    models.BillPending,
		CreatedAt: now,
	})
}

// MarkPaid moves a pending bill to paid. Repeating it is a no-op that keeps
// the first paid date; changed reports which case happened.
func (s *Service) MarkPaid(ctx context.Context, id primitive.ObjectID) (changed bool, err error) {
	return s.bills.MarkPaid(ctx, id, s.now())
}
