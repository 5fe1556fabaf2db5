package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/parking"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type parkingRepositoryImpl struct {
	db *database.DB
}

func NewParkingRepository(db *database.DB) parking.ParkingRepository {
	return &parkingRepositoryImpl{db: db}
}

const parkingSelect = `
	SELECT p.id, p.company_id, p.driver_id, p.duty_id, p.entry_date, p.amount, p.source,
		   p.location, p.remark, p.receipt_url, p.status, p.reviewed_by, p.reviewed_at,
		   p.rejection_reason, p.created_by, p.created_at, p.updated_at,
		   d.name AS driver_name, d.vehicle_number
	FROM parking_entries p
	LEFT JOIN drivers d ON d.id = p.driver_id
`

func scanParking(row pgx.Row) (parking.ParkingEntry, error) {
	var p parking.ParkingEntry
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.DriverID, &p.DutyID, &p.EntryDate, &p.Amount, &p.Source,
		&p.Location, &p.Remark, &p.ReceiptURL, &p.Status, &p.ReviewedBy, &p.ReviewedAt,
		&p.RejectionReason, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		&p.DriverName, &p.VehicleNumber,
	)
	return p, err
}

// Create implements parking.ParkingRepository.
func (r *parkingRepositoryImpl) Create(ctx context.Context, e parking.ParkingEntry) (parking.ParkingEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO parking_entries (
			company_id, driver_id, duty_id, entry_date, amount, source, location, remark,
			receipt_url, status, reviewed_by, reviewed_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		e.CompanyID, e.DriverID, e.DutyID, e.EntryDate, e.Amount, e.Source, e.Location, e.Remark,
		e.ReceiptURL, e.Status, e.ReviewedBy, e.ReviewedAt, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return parking.ParkingEntry{}, fmt.Errorf("failed to create parking entry: %w", err)
	}
	return e, nil
}

// GetByID implements parking.ParkingRepository.
func (r *parkingRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (parking.ParkingEntry, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanParking(q.QueryRow(ctx, parkingSelect+` WHERE p.id = $1 AND p.company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return parking.ParkingEntry{}, parking.ErrParkingEntryNotFound
		}
		return parking.ParkingEntry{}, fmt.Errorf("failed to get parking entry: %w", err)
	}
	return e, nil
}

func parkingWhere(companyID string, filter parking.ParkingFilter) (string, []interface{}, int) {
	baseWhere := "p.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.DriverID != nil && *filter.DriverID != "" {
		baseWhere += fmt.Sprintf(" AND p.driver_id = $%d", argIdx)
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.DutyID != nil && *filter.DutyID != "" {
		baseWhere += fmt.Sprintf(" AND p.duty_id = $%d", argIdx)
		args = append(args, *filter.DutyID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Source != nil && *filter.Source != "" {
		baseWhere += fmt.Sprintf(" AND p.source = $%d", argIdx)
		args = append(args, *filter.Source)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND p.entry_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND p.entry_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	return baseWhere, args, argIdx
}

// List implements parking.ParkingRepository.
func (r *parkingRepositoryImpl) List(ctx context.Context, companyID string, filter parking.ParkingFilter) ([]parking.ParkingEntry, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := parkingWhere(companyID, filter)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM parking_entries p WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count parking entries: %w", err)
	}

	page, limit := pagination.Normalize(filter.Page, filter.Limit)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.entry_date DESC, p.created_at DESC LIMIT $%d OFFSET $%d`,
		parkingSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	entries, err := r.query(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// SumAmount implements parking.ParkingRepository.
func (r *parkingRepositoryImpl) SumAmount(ctx context.Context, companyID string, filter parking.ParkingFilter) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, _ := parkingWhere(companyID, filter)

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, `SELECT COALESCE(SUM(p.amount), 0) FROM parking_entries p WHERE `+baseWhere, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum parking entries: %w", err)
	}
	return sum, nil
}

// ListByPeriod implements parking.ParkingRepository.
func (r *parkingRepositoryImpl) ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]parking.ParkingEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := parkingSelect + `
		WHERE p.company_id = $1 AND p.entry_date >= $2 AND p.entry_date < $3
		  AND ($4::uuid IS NULL OR p.driver_id = $4::uuid)
		ORDER BY p.driver_id, p.entry_date`
	return r.query(ctx, q, query, companyID, start, end, driverID)
}

func (r *parkingRepositoryImpl) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]parking.ParkingEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parking entries: %w", err)
	}
	defer rows.Close()

	var entries []parking.ParkingEntry
	for rows.Next() {
		e, err := scanParking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parking entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Review implements parking.ParkingRepository.
func (r *parkingRepositoryImpl) Review(ctx context.Context, companyID string, id string, status parking.Status, reviewerID string, reason *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE parking_entries
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(), rejection_reason = $3, updated_at = NOW()
		WHERE id = $4 AND company_id = $5 AND status = 'pending'
	`
	tag, err := q.Exec(ctx, query, status, reviewerID, reason, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to review parking entry: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// nothing updated: either missing or no longer pending
	if _, err := r.GetByID(ctx, id, companyID); err != nil {
		return err
	}
	return parking.ErrAlreadyReviewed
}

// Delete implements parking.ParkingRepository.
func (r *parkingRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM parking_entries WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete parking entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return parking.ErrParkingEntryNotFound
	}
	return nil
}
