package billstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	billstore "github.com/dalemusser/fitzone/internal/app/store/bills"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestStore_MarkPaid_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pending bill is updated", func(mt *mtest.T) {
		s := billstore.New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		changed, err := s.MarkPaid(context.Background(), primitive.NewObjectID(), time.Now())
		if err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		if !changed {
			t.Error("expected changed=true")
		}
	})

	mt.Run("already paid bill is left alone", func(mt *mtest.T) {
		s := billstore.New(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(1, "fitzone.bills", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "status", Value: models.BillPaid},
			}),
		)

		changed, err := s.MarkPaid(context.Background(), id, time.Now())
		if err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		if changed {
			t.Error("expected changed=false")
		}
	})

	mt.Run("missing bill", func(mt *mtest.T) {
		s := billstore.New(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "fitzone.bills", mtest.FirstBatch),
		)

		_, err := s.MarkPaid(context.Background(), primitive.NewObjectID(), time.Now())
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_Delete_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("nothing deleted", func(mt *mtest.T) {
		s := billstore.New(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := s.Delete(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
