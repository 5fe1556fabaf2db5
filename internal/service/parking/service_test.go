package parking

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "cmp-1"

type memParkingRepo struct {
	parking.ParkingRepository
	entries map[string]parking.ParkingEntry
}

func (m *memParkingRepo) Create(ctx context.Context, e parking.ParkingEntry) (parking.ParkingEntry, error) {
	e.ID = fmt.Sprintf("pk-%d", len(m.entries)+1)
	e.CreatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m.entries[e.ID] = e
	return e, nil
}

func (m *memParkingRepo) GetByID(ctx context.Context, id, companyID string) (parking.ParkingEntry, error) {
	e, ok := m.entries[id]
	if !ok || e.CompanyID != companyID {
		return parking.ParkingEntry{}, parking.ErrParkingEntryNotFound
	}
	return e, nil
}

func (m *memParkingRepo) List(ctx context.Context, companyID string, f parking.ParkingFilter) ([]parking.ParkingEntry, int64, error) {
	var out []parking.ParkingEntry
	for _, e := range m.entries {
		if f.DriverID != nil && e.DriverID != *f.DriverID {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (m *memParkingRepo) SumAmount(ctx context.Context, companyID string, f parking.ParkingFilter) (decimal.Decimal, error) {
	entries, _, _ := m.List(ctx, companyID, f)
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

func (m *memParkingRepo) Review(ctx context.Context, companyID, id string, status parking.Status, reviewerID string, reason *string) error {
	e := m.entries[id]
	if e.Status != parking.StatusPending {
		return parking.ErrAlreadyReviewed
	}
	now := time.Now()
	e.Status, e.ReviewedBy, e.ReviewedAt, e.RejectionReason = status, &reviewerID, &now, reason
	m.entries[id] = e
	return nil
}

func (m *memParkingRepo) Delete(ctx context.Context, id, companyID string) error {
	delete(m.entries, id)
	return nil
}

type memDriverRepo struct {
	driver.DriverRepository
}

func (memDriverRepo) GetByID(ctx context.Context, id, companyID string) (driver.Driver, error) {
	if companyID != testCompanyID || (id != "drv-1" && id != "drv-2") {
		return driver.Driver{}, driver.ErrDriverNotFound
	}
	return driver.Driver{ID: id, CompanyID: companyID, Name: "Driver " + id, IsActive: true}, nil
}

type memDutyRepo struct {
	duty.DutyRepository
}

func (memDutyRepo) GetByID(ctx context.Context, id, companyID string) (duty.Duty, error) {
	if id != "duty-1" {
		return duty.Duty{}, duty.ErrDutyNotFound
	}
	return duty.Duty{ID: id, CompanyID: companyID, DriverID: "drv-1"}, nil
}

type fakeFiles struct {
	file.FileService
	deleted []string
}

func (f *fakeFiles) UploadReceipt(ctx context.Context, folder, ownerID string, r io.Reader, filename string) (string, error) {
	return folder + "/" + ownerID + "/receipt.jpg", nil
}

func (f *fakeFiles) DeleteFile(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFiles) URL(path *string) *string {
	if path == nil {
		return nil
	}
	u := "/uploads/" + *path
	return &u
}

func newTestService() (*ParkingServiceImpl, *memParkingRepo, *fakeFiles) {
	repo := &memParkingRepo{entries: map[string]parking.ParkingEntry{}}
	files := &fakeFiles{}
	svc := NewParkingService(repo, memDriverRepo{}, memDutyRepo{}, files).(*ParkingServiceImpl)
	return svc, repo, files
}

func adminCtx() context.Context {
	return auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID: "usr-admin", CompanyID: testCompanyID, Role: user.RoleAdmin,
	})
}

func driverCtx(driverID string) context.Context {
	return auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID: "usr-" + driverID, CompanyID: testCompanyID, Role: user.RoleDriver, DriverID: &driverID,
	})
}

func strPtr(s string) *string { return &s }

func TestCreate_AdminEntryApproved(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Create(adminCtx(), parking.CreateParkingRequest{
		DriverID: "drv-1", Date: "2024-05-03", Amount: decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "Admin", resp.Source)
	assert.Equal(t, "unknown", resp.VehicleNumber)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, "usr-admin", *resp.ReviewedBy)

	_, err = svc.Create(adminCtx(), parking.CreateParkingRequest{DriverID: "ghost", Date: "2024-05-03", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, driver.ErrDriverNotFound)

	_, err = svc.Create(adminCtx(), parking.CreateParkingRequest{DriverID: "drv-2", DutyID: strPtr("duty-1"), Date: "2024-05-03", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, parking.ErrDutyMismatch)
}

func TestClaim_DriverPendingWithReceipt(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Claim(driverCtx("drv-1"), parking.ClaimParkingRequest{
		DutyID: strPtr("duty-1"), Date: "2024-05-03", Amount: decimal.NewFromInt(40),
		FileHeader: &multipart.FileHeader{Filename: "slip.jpg", Size: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Driver", resp.Source)
	require.NotNil(t, resp.ReceiptURL)
	assert.Equal(t, "/uploads/parking/drv-1/receipt.jpg", *resp.ReceiptURL)

	_, err = svc.Claim(adminCtx(), parking.ClaimParkingRequest{Date: "2024-05-03", Amount: decimal.NewFromInt(40)})
	assert.ErrorIs(t, err, user.ErrDriverAccessRequired)

	_, err = svc.Claim(driverCtx("drv-1"), parking.ClaimParkingRequest{Date: "2024-05-03", Amount: decimal.Zero})
	assert.Error(t, err)
}

func TestReview_StateMachine(t *testing.T) {
	svc, _, _ := newTestService()

	claim, err := svc.Claim(driverCtx("drv-1"), parking.ClaimParkingRequest{
		DutyID: strPtr("duty-1"), Date: "2024-05-03", Amount: decimal.NewFromInt(40),
	})
	require.NoError(t, err)

	_, err = svc.Review(adminCtx(), parking.ReviewParkingRequest{ID: claim.ID, Action: parking.ReviewReject})
	assert.Error(t, err, "reject needs a reason")

	_, err = svc.Review(adminCtx(), parking.ReviewParkingRequest{ID: claim.ID, DutyID: strPtr("duty-9"), Action: parking.ReviewApprove})
	assert.ErrorIs(t, err, parking.ErrDutyMismatch)

	approved, err := svc.Review(adminCtx(), parking.ReviewParkingRequest{ID: claim.ID, DutyID: strPtr("duty-1"), Action: parking.ReviewApprove})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	_, err = svc.Review(adminCtx(), parking.ReviewParkingRequest{ID: claim.ID, Action: parking.ReviewReject, RejectionReason: strPtr("dup")})
	assert.ErrorIs(t, err, parking.ErrAlreadyReviewed)

	err = svc.Delete(adminCtx(), claim.ID)
	assert.ErrorIs(t, err, parking.ErrCannotDeleteApproved)
}

func TestListAndMyClaims(t *testing.T) {
	svc, _, files := newTestService()

	_, err := svc.Claim(driverCtx("drv-1"), parking.ClaimParkingRequest{Date: "2024-05-03", Amount: decimal.NewFromInt(40),
		FileHeader: &multipart.FileHeader{Filename: "slip.png", Size: 100}})
	require.NoError(t, err)
	_, err = svc.Create(adminCtx(), parking.CreateParkingRequest{DriverID: "drv-2", Date: "2024-05-03", Amount: decimal.NewFromInt(60)})
	require.NoError(t, err)

	all, err := svc.List(adminCtx(), parking.ParkingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalCount)
	assert.True(t, all.TotalAmount.Equal(decimal.NewFromInt(100)))

	mine, err := svc.GetMyClaims(driverCtx("drv-1"), parking.ParkingFilter{DriverID: strPtr("drv-2")})
	require.NoError(t, err)
	require.Len(t, mine.Entries, 1)
	assert.Equal(t, "drv-1", mine.Entries[0].DriverID)

	// pending claim with a receipt can be deleted, receipt goes with it
	require.NoError(t, svc.Delete(adminCtx(), mine.Entries[0].ID))
	assert.Equal(t, []string{"parking/drv-1/receipt.jpg"}, files.deleted)
}
