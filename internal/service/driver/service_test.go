package driver

import (
	"context"
	"testing"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memDriverRepo struct {
	driver.DriverRepository
	drivers map[string]driver.Driver
}

func (m *memDriverRepo) Create(ctx context.Context, d driver.Driver) (driver.Driver, error) {
	d.ID = "drv-new"
	m.drivers[d.ID] = d
	return d, nil
}

func (m *memDriverRepo) GetByID(ctx context.Context, id, companyID string) (driver.Driver, error) {
	d, ok := m.drivers[id]
	if !ok || d.CompanyID != companyID {
		return driver.Driver{}, driver.ErrDriverNotFound
	}
	return d, nil
}

func (m *memDriverRepo) ExistsByMobile(ctx context.Context, companyID, mobile string, excludeID *string) (bool, error) {
	for _, d := range m.drivers {
		if d.CompanyID == companyID && d.Mobile == mobile && (excludeID == nil || d.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDriverRepo) Update(ctx context.Context, companyID string, req driver.UpdateDriverRequest) error {
	d := m.drivers[req.ID]
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Mobile != nil {
		d.Mobile = *req.Mobile
	}
	if req.DailyWage != nil {
		d.DailyWage = *req.DailyWage
	}
	m.drivers[req.ID] = d
	return nil
}

func (m *memDriverRepo) SetActive(ctx context.Context, id, companyID string, active bool) error {
	d := m.drivers[id]
	d.IsActive = active
	m.drivers[id] = d
	return nil
}

type memUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	u.ID = "usr-new"
	m.users[u.ID] = u
	return u, nil
}

func (m *memUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	u := m.users[id]
	u.IsActive = active
	m.users[id] = u
	return nil
}

type inlineTx struct{}

func (inlineTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func adminCtx() context.Context {
	return auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID: "usr-admin", CompanyID: "cmp-1", Role: user.RoleAdmin,
	})
}

func strPtr(s string) *string { return &s }

func newTestService() (*DriverServiceImpl, *memDriverRepo, *memUserRepo) {
	drivers := &memDriverRepo{drivers: map[string]driver.Driver{
		"drv-1": {ID: "drv-1", CompanyID: "cmp-1", Name: "Ravi", Mobile: "9876543210", IsActive: true},
	}}
	users := &memUserRepo{users: map[string]user.User{
		"usr-1": {ID: "usr-1", Email: "taken@fleet.test"},
	}}
	return NewDriverService(inlineTx{}, drivers, users).(*DriverServiceImpl), drivers, users
}

func TestCreateDriver_WithLogin(t *testing.T) {
	svc, _, users := newTestService()

	resp, err := svc.Create(adminCtx(), driver.CreateDriverRequest{
		Name: "Suresh", Mobile: "9123456780", VehicleNumber: strPtr("mh-12 ab 1234"),
		DailyWage: decimal.NewFromInt(550), Email: strPtr("suresh@fleet.test"), Password: strPtr("secret123"),
	})
	require.NoError(t, err)
	assert.True(t, resp.HasLogin)
	assert.Equal(t, "MH12AB1234", resp.VehicleNumber)

	login := users.users["usr-new"]
	assert.Equal(t, user.RoleDriver, login.Role)
	require.NotNil(t, login.DriverID)
	assert.Equal(t, resp.ID, *login.DriverID)
	require.NotNil(t, login.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*login.PasswordHash), []byte("secret123")))
}

func TestCreateDriver_Conflicts(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(adminCtx(), driver.CreateDriverRequest{Name: "Dup", Mobile: "9876543210"})
	assert.ErrorIs(t, err, driver.ErrDriverMobileExists)

	_, err = svc.Create(adminCtx(), driver.CreateDriverRequest{
		Name: "Dup", Mobile: "9000000000", Email: strPtr("taken@fleet.test"), Password: strPtr("secret123"),
	})
	assert.ErrorIs(t, err, driver.ErrLoginEmailExists)

	_, err = svc.Create(adminCtx(), driver.CreateDriverRequest{Name: "NoPass", Mobile: "9000000001", Email: strPtr("x@fleet.test")})
	assert.Error(t, err)

	_, err = svc.Create(adminCtx(), driver.CreateDriverRequest{Name: "Neg", Mobile: "9000000002", DailyWage: decimal.NewFromInt(-1)})
	assert.Error(t, err)
}

func TestUpdateAndDeactivate(t *testing.T) {
	svc, drivers, users := newTestService()
	drivers.drivers["drv-2"] = driver.Driver{ID: "drv-2", CompanyID: "cmp-1", Name: "Other", Mobile: "9111111111", UserID: strPtr("usr-1"), IsActive: true}

	wage := decimal.NewFromInt(700)
	resp, err := svc.Update(adminCtx(), driver.UpdateDriverRequest{ID: "drv-1", DailyWage: &wage})
	require.NoError(t, err)
	assert.True(t, resp.DailyWage.Equal(wage))

	_, err = svc.Update(adminCtx(), driver.UpdateDriverRequest{ID: "drv-1", Mobile: strPtr("9111111111")})
	assert.ErrorIs(t, err, driver.ErrDriverMobileExists)

	require.NoError(t, svc.Deactivate(adminCtx(), "drv-2"))
	assert.False(t, drivers.drivers["drv-2"].IsActive)
	assert.False(t, users.users["usr-1"].IsActive)

	assert.ErrorIs(t, svc.Deactivate(adminCtx(), "missing"), driver.ErrDriverNotFound)
}
