package advance

import (
	"context"
	"testing"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAdvanceRepo struct {
	advance.AdvanceRepository
	items map[string]advance.Advance
}

func (m *memAdvanceRepo) Create(ctx context.Context, a advance.Advance) (advance.Advance, error) {
	a.ID = "adv-1"
	a.RecoveredAmount = decimal.Zero
	m.items[a.ID] = a
	return a, nil
}

func (m *memAdvanceRepo) GetByID(ctx context.Context, id, companyID string) (advance.Advance, error) {
	a, ok := m.items[id]
	if !ok || a.CompanyID != companyID {
		return advance.Advance{}, advance.ErrAdvanceNotFound
	}
	return a, nil
}

func (m *memAdvanceRepo) List(ctx context.Context, companyID string, f advance.AdvanceFilter) ([]advance.Advance, int64, error) {
	var out []advance.Advance
	for _, a := range m.items {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (m *memAdvanceRepo) SumAmount(ctx context.Context, companyID string, f advance.AdvanceFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range m.items {
		sum = sum.Add(a.Amount)
	}
	return sum, nil
}

func (m *memAdvanceRepo) AddRecovery(ctx context.Context, id, companyID string, amount decimal.Decimal) (advance.Advance, error) {
	a := m.items[id]
	if a.RecoveredAmount.Add(amount).GreaterThan(a.Amount) {
		return advance.Advance{}, advance.ErrRecoveryExceedsAmount
	}
	a.RecoveredAmount = a.RecoveredAmount.Add(amount)
	m.items[id] = a
	return a, nil
}

func (m *memAdvanceRepo) Delete(ctx context.Context, id, companyID string) error {
	delete(m.items, id)
	return nil
}

type oneDriver struct {
	driver.DriverRepository
}

func (oneDriver) GetByID(ctx context.Context, id, companyID string) (driver.Driver, error) {
	if id != "drv-1" {
		return driver.Driver{}, driver.ErrDriverNotFound
	}
	return driver.Driver{ID: id, CompanyID: companyID, Name: "Ravi"}, nil
}

func adminCtx() context.Context {
	return auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID: "usr-admin", CompanyID: "cmp-1", Role: user.RoleAdmin,
	})
}

func TestAdvanceLifecycle(t *testing.T) {
	repo := &memAdvanceRepo{items: map[string]advance.Advance{}}
	svc := NewAdvanceService(repo, oneDriver{})
	ctx := adminCtx()

	created, err := svc.Create(ctx, advance.CreateAdvanceRequest{DriverID: "drv-1", Amount: decimal.NewFromInt(1000), Date: "2024-05-10"})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", created.Date)
	assert.True(t, created.Outstanding.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, created.DriverName)

	got, err := svc.RecordRecovery(ctx, advance.RecordRecoveryRequest{ID: created.ID, Amount: decimal.NewFromInt(400)})
	require.NoError(t, err)
	assert.True(t, got.Outstanding.Equal(decimal.NewFromInt(600)))

	_, err = svc.RecordRecovery(ctx, advance.RecordRecoveryRequest{ID: created.ID, Amount: decimal.NewFromInt(601)})
	assert.ErrorIs(t, err, advance.ErrRecoveryExceedsAmount)

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, advance.ErrAdvanceHasRecovery)

	list, err := svc.List(ctx, advance.AdvanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.True(t, list.TotalAmount.Equal(decimal.NewFromInt(1000)))
}

func TestAdvanceCreate_Validation(t *testing.T) {
	svc := NewAdvanceService(&memAdvanceRepo{items: map[string]advance.Advance{}}, oneDriver{})
	ctx := adminCtx()

	_, err := svc.Create(ctx, advance.CreateAdvanceRequest{DriverID: "drv-1", Amount: decimal.Zero, Date: "2024-05-10"})
	assert.Error(t, err)

	_, err = svc.Create(ctx, advance.CreateAdvanceRequest{DriverID: "drv-1", Amount: decimal.NewFromInt(5), Date: "10/05/2024"})
	assert.Error(t, err)

	_, err = svc.Create(ctx, advance.CreateAdvanceRequest{DriverID: "drv-9", Amount: decimal.NewFromInt(5), Date: "2024-05-10"})
	assert.ErrorIs(t, err, driver.ErrDriverNotFound)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, advance.ErrAdvanceNotFound)
}

func TestAdvanceDelete_NoRecovery(t *testing.T) {
	repo := &memAdvanceRepo{items: map[string]advance.Advance{
		"adv-9": {ID: "adv-9", CompanyID: "cmp-1", DriverID: "drv-1", Amount: decimal.NewFromInt(50), RecoveredAmount: decimal.Zero, AdvanceDate: time.Now()},
	}}
	svc := NewAdvanceService(repo, oneDriver{})

	require.NoError(t, svc.Delete(adminCtx(), "adv-9"))
	assert.Empty(t, repo.items)
}
