package fastag

import (
	"context"
	"testing"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/fastag"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFastagRepo struct {
	fastag.FastagRepository
	recharges  []fastag.Recharge
	start, end *time.Time
}

func (m *memFastagRepo) Create(ctx context.Context, r fastag.Recharge) (fastag.Recharge, error) {
	for _, existing := range m.recharges {
		if r.TransactionRef != nil && existing.TransactionRef != nil && *existing.TransactionRef == *r.TransactionRef {
			return fastag.Recharge{}, fastag.ErrDuplicateTransactionRef
		}
	}
	r.ID = "ftg-1"
	m.recharges = append(m.recharges, r)
	return r, nil
}

func (m *memFastagRepo) Balances(ctx context.Context, companyID string, start, end *time.Time) ([]fastag.VehicleBalance, error) {
	m.start, m.end = start, end
	last := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	return []fastag.VehicleBalance{
		{VehicleNumber: "KA01F9999", TotalRecharged: decimal.NewFromInt(500), RechargeCount: 1, LastRechargeDate: &last},
		{VehicleNumber: "MH12AB1234", TotalRecharged: decimal.NewFromInt(1500), RechargeCount: 2, LastRechargeDate: &last},
	}, nil
}

func staffCtx() context.Context {
	return auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID: "usr-staff", CompanyID: "cmp-1", Role: user.RoleStaff,
	})
}

func TestFastagCreate(t *testing.T) {
	repo := &memFastagRepo{}
	svc := NewFastagService(repo)
	ref := "UPI-123"

	resp, err := svc.Create(staffCtx(), fastag.CreateRechargeRequest{
		VehicleNumber: "MH 12 AB 1234", Date: "2024-05-09", Amount: decimal.NewFromInt(1000),
		PaymentMode: "upi", TransactionRef: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, "MH12AB1234", resp.VehicleNumber)
	assert.Equal(t, "upi", resp.PaymentMode)

	_, err = svc.Create(staffCtx(), fastag.CreateRechargeRequest{
		VehicleNumber: "MH12AB1234", Date: "2024-05-10", Amount: decimal.NewFromInt(500),
		PaymentMode: "upi", TransactionRef: &ref,
	})
	assert.ErrorIs(t, err, fastag.ErrDuplicateTransactionRef)

	_, err = svc.Create(staffCtx(), fastag.CreateRechargeRequest{
		VehicleNumber: "MH12AB1234", Date: "2024-05-10", Amount: decimal.NewFromInt(500), PaymentMode: "cheque",
	})
	assert.Error(t, err)
}

func TestFastagBalances(t *testing.T) {
	repo := &memFastagRepo{}
	svc := NewFastagService(repo)
	start, end, vehicle := "2024-05-01", "2024-05-31", "mh12ab1234"

	resp, err := svc.GetBalances(staffCtx(), fastag.RechargeFilter{StartDate: &start, EndDate: &end, VehicleNumber: &vehicle})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "MH12AB1234", resp[0].VehicleNumber)
	assert.Equal(t, "2024-05-09", *resp[0].LastRechargeDate)

	require.NotNil(t, repo.end)
	assert.Equal(t, "2024-06-01", repo.end.Format(time.DateOnly), "end date is inclusive")

	all, err := svc.GetBalances(staffCtx(), fastag.RechargeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Nil(t, repo.start)
}
