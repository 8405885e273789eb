// internal/app/store/userroles/userrolestore.go
package userrolestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages role records in the users collection. Documents are keyed
// by the identity provider's id.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the lookup indexes for role listings and email joins.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	})
	return err
}

// Put creates the role record for an identity. The identity id becomes the
// document _id, so a second record for the same identity fails with
// store.ErrExists.
func (s *Store) Put(ctx context.Context, ur models.UserRole) (models.UserRole, error) {
	if strings.TrimSpace(ur.ID) == "" {
		return models.UserRole{}, errors.New("user role requires an identity id")
	}
	if !ur.Role.Valid() {
		return models.UserRole{}, errors.New("user role requires a valid role")
	}
	if ur.CreatedAt.IsZero() {
		ur.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, ur); err != nil {
		if wafflemongo.IsDup(err) {
			return models.UserRole{}, store.ErrExists
		}
		return models.UserRole{}, err
	}
	return ur, nil
}

// Get loads the role record for an identity id.
func (s *Store) Get(ctx context.Context, id string) (models.UserRole, error) {
	var ur models.UserRole
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ur)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserRole{}, store.ErrNotFound
	}
	if err != nil {
		return models.UserRole{}, err
	}
	return ur, nil
}

// ListByRole returns every record with the given role, newest first.
func (s *Store) ListByRole(ctx context.Context, role models.Role) ([]models.UserRole, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserRole
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the role record. The identity itself is not touched.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
