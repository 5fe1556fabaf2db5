package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/fuel"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type fuelRepositoryImpl struct {
	db *database.DB
}

func NewFuelRepository(db *database.DB) fuel.FuelRepository {
	return &fuelRepositoryImpl{db: db}
}

const fuelSelect = `
	SELECT f.id, f.company_id, f.vehicle_number, f.driver_id, f.entry_date, f.litres, f.amount,
		   f.odometer, f.fuel_station, f.receipt_url, f.remark, f.created_by, f.created_at, f.updated_at,
		   d.name AS driver_name
	FROM fuel_entries f
	LEFT JOIN drivers d ON d.id = f.driver_id
`

func scanFuel(row pgx.Row) (fuel.FuelEntry, error) {
	var f fuel.FuelEntry
	err := row.Scan(
		&f.ID, &f.CompanyID, &f.VehicleNumber, &f.DriverID, &f.EntryDate, &f.Litres, &f.Amount,
		&f.Odometer, &f.FuelStation, &f.ReceiptURL, &f.Remark, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
		&f.DriverName,
	)
	return f, err
}

// Create implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) Create(ctx context.Context, e fuel.FuelEntry) (fuel.FuelEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO fuel_entries (
			company_id, vehicle_number, driver_id, entry_date, litres, amount,
			odometer, fuel_station, receipt_url, remark, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		e.CompanyID, e.VehicleNumber, e.DriverID, e.EntryDate, e.Litres, e.Amount,
		e.Odometer, e.FuelStation, e.ReceiptURL, e.Remark, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fuel.FuelEntry{}, fmt.Errorf("failed to create fuel entry: %w", err)
	}
	return e, nil
}

// GetByID implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (fuel.FuelEntry, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanFuel(q.QueryRow(ctx, fuelSelect+` WHERE f.id = $1 AND f.company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fuel.FuelEntry{}, fuel.ErrFuelEntryNotFound
		}
		return fuel.FuelEntry{}, fmt.Errorf("failed to get fuel entry: %w", err)
	}
	return e, nil
}

// List implements fuel.FuelRepository. Totals cover every match, not just the page.
func (r *fuelRepositoryImpl) List(ctx context.Context, companyID string, filter fuel.FuelFilter) ([]fuel.FuelEntry, fuel.Totals, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "f.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.VehicleNumber != nil && *filter.VehicleNumber != "" {
		baseWhere += fmt.Sprintf(" AND f.vehicle_number = $%d", argIdx)
		args = append(args, *filter.VehicleNumber)
		argIdx++
	}
	if filter.DriverID != nil && *filter.DriverID != "" {
		baseWhere += fmt.Sprintf(" AND f.driver_id = $%d", argIdx)
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND f.entry_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND f.entry_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var totals fuel.Totals
	totalsQuery := `SELECT COUNT(*), COALESCE(SUM(f.litres), 0), COALESCE(SUM(f.amount), 0) FROM fuel_entries f WHERE ` + baseWhere
	if err := q.QueryRow(ctx, totalsQuery, args...).Scan(&totals.Count, &totals.Litres, &totals.Amount); err != nil {
		return nil, fuel.Totals{}, fmt.Errorf("failed to total fuel entries: %w", err)
	}

	page, limit := pagination.Normalize(filter.Page, filter.Limit)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY f.entry_date DESC, f.created_at DESC LIMIT $%d OFFSET $%d`,
		fuelSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fuel.Totals{}, fmt.Errorf("failed to query fuel entries: %w", err)
	}
	defer rows.Close()

	var entries []fuel.FuelEntry
	for rows.Next() {
		e, err := scanFuel(rows)
		if err != nil {
			return nil, fuel.Totals{}, fmt.Errorf("failed to scan fuel entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, totals, rows.Err()
}

// Delete implements fuel.FuelRepository.
func (r *fuelRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM fuel_entries WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete fuel entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fuel.ErrFuelEntryNotFound
	}
	return nil
}
