// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// emailCollation makes email lookups case-insensitive.
var emailCollation = &options.Collation{Locale: "en", Strength: 2}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// EnsureIndexes creates the email lookup and join-date listing indexes.
// Email is deliberately not unique.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "join_date", Value: 1}},
			Options: options.Index().SetCollation(emailCollation),
		},
		{Keys: bson.D{{Key: "join_date", Value: -1}}},
	})
	return err
}

// Update is the editable field set of a member. Every field is overwritten.
type Update struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth string
	Package     models.Package
	Status      string
	Photo       *string
}

// Create inserts a member profile. Status defaults to active and JoinDate to now.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	m.ID = primitive.NewObjectID()
	m.Email = strings.TrimSpace(m.Email)
	if m.Status == "" {
		m.Status = models.MemberActive
	}
	if m.JoinDate.IsZero() {
		m.JoinDate = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Member{}, store.ErrNotFound
	}
	if err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// GetByEmail returns the earliest-joined member with the given email,
// ignoring case.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Member, error) {
	var m models.Member
	opts := options.FindOne().
		SetSort(bson.D{{Key: "join_date", Value: 1}, {Key: "_id", Value: 1}}).
		SetCollation(emailCollation)
	err := s.c.FindOne(ctx, bson.M{"email": strings.TrimSpace(email)}, opts).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Member{}, store.ErrNotFound
	}
	if err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// List returns all members, most recently joined first.
func (s *Store) List(ctx context.Context) ([]models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "join_date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable fields. JoinDate is kept. A nil Photo
// clears the stored photo.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) error {
	set := bson.M{
		"name":          u.Name,
		"email":         strings.TrimSpace(u.Email),
		"phone":         u.Phone,
		"date_of_birth": u.DateOfBirth,
		"package":       u.Package,
		"status":        u.Status,
		"photo":         u.Photo,
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete removes the member profile. Bills and the role record are left alone.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
