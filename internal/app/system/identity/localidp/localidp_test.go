package localidp_test

import (
	"testing"

	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"github.com/dalemusser/fitzone/internal/app/system/identity/localidp"
	"github.com/dalemusser/fitzone/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newProvider(t *testing.T) *localidp.Provider {
	t.Helper()
	db := testutil.SetupTestDB(t)
	p := localidp.New(db, bcrypt.MinCost)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, p.EnsureIndexes(ctx))
	return p
}

func TestSignUpSignIn(t *testing.T) {
	p := newProvider(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := p.SignUp(ctx, "John@X.com", "John@123")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "john@x.com", created.Email)

	got, err := p.SignIn(ctx, "john@x.com", "John@123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = p.SignIn(ctx, "john@x.com", "wrong-pass")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@x.com", "John@123")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestSignUp_EmailExists(t *testing.T) {
	p := newProvider(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := p.SignUp(ctx, "ann@x.com", "Ann@123")
	require.NoError(t, err)

	_, err = p.SignUp(ctx, " ANN@x.com", "Other@123")
	assert.ErrorIs(t, err, identity.ErrEmailExists)
	assert.Equal(t, "This email is already registered", identity.Message(err))
}

func TestSignUp_Validation(t *testing.T) {
	p := newProvider(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := p.SignUp(ctx, "not-an-email", "Valid@123")
	assert.ErrorIs(t, err, identity.ErrInvalidEmail)

	_, err = p.SignUp(ctx, "al@x.com", "A@123")
	assert.ErrorIs(t, err, identity.ErrWeakPassword)
}

func TestDelete(t *testing.T) {
	p := newProvider(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := p.SignUp(ctx, "gone@x.com", "Gone@123")
	require.NoError(t, err)

	require.NoError(t, p.Delete(ctx, id.ID))
	assert.ErrorIs(t, p.Delete(ctx, id.ID), identity.ErrNotFound)

	_, err = p.SignIn(ctx, "gone@x.com", "Gone@123")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}
