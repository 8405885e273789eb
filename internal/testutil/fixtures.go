package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data directly in the
// collections, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateRole writes a role record keyed by identityID.
func (f *Fixtures) CreateRole(ctx context.Context, identityID, email string, role models.Role) models.UserRole {
	f.t.Helper()

	ur := models.UserRole{
		ID:        identityID,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, ur); err != nil {
		f.t.Fatalf("failed to create test role: %v", err)
	}
	return ur
}

// CreateMember creates an active Basic member.
func (f *Fixtures) CreateMember(ctx context.Context, name, email string) models.Member {
	f.t.Helper()
	return f.CreateMemberWith(ctx, models.Member{Name: name, Email: email})
}

// CreateMemberWith inserts m, filling ID, package, status and join date when unset.
func (f *Fixtures) CreateMemberWith(ctx context.Context, m models.Member) models.Member {
	f.t.Helper()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.Package == "" {
		m.Package = models.PackageBasic
	}
	if m.Status == "" {
		m.Status = models.MemberActive
	}
	if m.JoinDate.IsZero() {
		m.JoinDate = time.Now().UTC()
	}
	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateBill creates a pending bill for the member at the package price.
func (f *Fixtures) CreateBill(ctx context.Context, memberID primitive.ObjectID, pkg models.Package, createdAt time.Time) models.Bill {
	f.t.Helper()

	due := createdAt.AddDate(0, 0, 7)
	b := models.Bill{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		Package:   pkg,
		Amount:    pkg.Price(),
		DueDate:   &due,
		Status:    models.BillPending,
		CreatedAt: createdAt,
	}
	if _, err := f.db.Collection("bills").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("failed to create test bill: %v", err)
	}
	return b
}

// CreateNotification creates a notification with the given active flag.
func (f *Fixtures) CreateNotification(ctx context.Context, title string, active bool, createdAt time.Time) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Message:    "Message for " + title,
		TargetRole: string(models.RoleMember),
		CreatedAt:  createdAt,
		IsActive:   active,
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
