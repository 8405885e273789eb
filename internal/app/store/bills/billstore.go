// internal/app/store/bills/billstore.go
package billstore

import (
	"context"
	"errors"
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

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("bills")}
}

// EnsureIndexes supports the per-member history and the admin list.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

// Create inserts a bill. Status defaults to pending.
func (s *Store) Create(ctx context.Context, b models.Bill) (models.Bill, error) {
	b.ID = primitive.NewObjectID()
	if b.Status == "" {
		b.Status = models.BillPending
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Bill{}, err
	}
	return b, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Bill, error) {
	var b models.Bill
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Bill{}, store.ErrNotFound
	}
	if err != nil {
		return models.Bill{}, err
	}
	return b, nil
}

// List returns all bills, newest first.
func (s *Store) List(ctx context.Context) ([]models.Bill, error) {
	return s.find(ctx, bson.M{})
}

// ListByMember returns a member's bills, newest first.
func (s *Store) ListByMember(ctx context.Context, memberID primitive.ObjectID) ([]models.Bill, error) {
	return s.find(ctx, bson.M{"member_id": memberID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Bill, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Bill
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkPaid moves a pending bill to paid and stamps PaidDate. The update is
// filtered on status so a second call leaves the first PaidDate in place;
// it then reports changed=false. A missing bill returns store.ErrNotFound.
func (s *Store) MarkPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (changed bool, err error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.BillPending},
		bson.M{"$set": bson.M{"status": models.BillPaid, "paid_date": at.UTC()}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	if _, err := s.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Delete removes a bill.
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
