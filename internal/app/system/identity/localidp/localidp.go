// Package localidp is an identity provider backed by the app's own MongoDB.
// Passwords are stored as bcrypt hashes in the identities collection.
package localidp

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/identity"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

type Provider struct {
	c    *mongo.Collection
	cost int
}

// New returns a provider using db.identities. cost <= 0 uses bcrypt.DefaultCost.
func New(db *mongo.Database, cost int) *Provider {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Provider{c: db.Collection("identities"), cost: cost}
}

// EnsureIndexes makes email unique, which is what turns a second sign-up
// into EMAIL_EXISTS.
func (p *Provider) EnsureIndexes(ctx context.Context) error {
	_, err := p.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (identity.Identity, error) {
	email = identity.NormalizeEmail(email)
	if !identity.ValidEmail(email) {
		return identity.Identity{}, identity.FromCode("INVALID_EMAIL", "")
	}
	if len(password) < identity.MinPasswordLength {
		return identity.Identity{}, identity.FromCode("WEAK_PASSWORD", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return identity.Identity{}, err
	}
	acct := account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := p.c.InsertOne(ctx, acct); err != nil {
		if wafflemongo.IsDup(err) {
			return identity.Identity{}, identity.FromCode("EMAIL_EXISTS", "")
		}
		return identity.Identity{}, err
	}
	return identity.Identity{ID: acct.ID, Email: acct.Email}, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (identity.Identity, error) {
	var acct account
	err := p.c.FindOne(ctx, bson.M{"email": identity.NormalizeEmail(email)}).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return identity.Identity{}, identity.FromCode("INVALID_LOGIN_CREDENTIALS", "")
	}
	if err != nil {
		return identity.Identity{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return identity.Identity{}, identity.FromCode("INVALID_LOGIN_CREDENTIALS", "")
	}
	return identity.Identity{ID: acct.ID, Email: acct.Email}, nil
}

func (p *Provider) Delete(ctx context.Context, id string) error {
	res, err := p.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return identity.FromCode("USER_NOT_FOUND", "")
	}
	return nil
}
