package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/billing"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/dalemusser/fitzone/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T) (*billing.Service, *testutil.MemBills, models.Member) {
	t.Helper()
	members := testutil.NewMemMembers(nil)
	m, err := members.Create(context.Background(), models.Member{Name: "John Smith", Email: "john@x.com", Package: models.PackageStandard})
	require.NoError(t, err)
	bills := testutil.NewMemBills()
	svc := billing.New(bills, members).WithClock(func() time.Time { return fixedNow })
	return svc, bills, m
}

func TestCreate_DefaultsFromPackage(t *testing.T) {
	svc, _, m := setup(t)

	b, err := svc.Create(context.Background(), billing.Input{MemberID: m.ID.Hex(), Package: "Standard"})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, b.Amount)
	assert.Equal(t, models.BillPending, b.Status)
	require.NotNil(t, b.DueDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, billing.DefaultDueDays), *b.DueDate)
	assert.Nil(t, b.PaidDate)
}

func TestCreate_ExplicitAmountAndDueDate(t *testing.T) {
	svc, _, m := setup(t)

	b, err := svc.Create(context.Background(), billing.Input{
		MemberID: m.ID.Hex(), Package: "premium", Amount: "2750.50", DueDate: "2026-06-15",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PackagePremium, b.Package)
	assert.Equal(t, 2750.50, b.Amount)
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), *b.DueDate)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, m := setup(t)
	tests := []struct {
		name string
		in   billing.Input
		want error
	}{
		{"no member", billing.Input{Package: "Basic"}, billing.ErrMemberRequired},
		{"unknown member", billing.Input{MemberID: primitive.NewObjectID().Hex(), Package: "Basic"}, billing.ErrUnknownMember},
		{"bad package", billing.Input{MemberID: m.ID.Hex(), Package: "Gold"}, billing.ErrInvalidPackage},
		{"negative amount", billing.Input{MemberID: m.ID.Hex(), Package: "Basic", Amount: "-5"}, billing.ErrInvalidAmount},
		{"NaN amount", billing.Input{MemberID: m.ID.Hex(), Package: "Basic", Amount: "NaN"}, billing.ErrInvalidAmount},
		{"infinite amount", billing.Input{MemberID: m.ID.Hex(), Package: "Basic", Amount: "Inf"}, billing.ErrInvalidAmount},
		{"signed infinity amount", billing.Input{MemberID: m.ID.Hex(), Package: "Basic", Amount: "+Infinity"}, billing.ErrInvalidAmount},
		{"zero amount", billing.Input{MemberID: m.ID.Hex(), Package: "Basic", Amount: "0"}, billing.ErrInvalidAmount},
		{"text amount", billing.Input{MemberID: m.ID.Hex(), Package: "Basic", Amount: "ten"}, billing.ErrInvalidAmount},
		{"bad due date", billing.Input{MemberID: m.ID.Hex(), Package: "Basic", DueDate: "06/15/2026"}, billing.ErrInvalidDueDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, billing.IsInputError(err))
		})
	}
}

func TestMarkPaid_Idempotent(t *testing.T) {
	svc, bills, m := setup(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, billing.Input{MemberID: m.ID.Hex(), Package: "Standard"})
	require.NoError(t, err)

	changed, err := svc.MarkPaid(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	first, err := bills.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, first.PaidDate)

	later := billing.New(bills, nil).WithClock(func() time.Time { return fixedNow.Add(72 * time.Hour) })
	changed, err = later.MarkPaid(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	again, err := bills.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, again.Status)
	assert.True(t, first.PaidDate.Equal(*again.PaidDate), "paid date must not move")
}
