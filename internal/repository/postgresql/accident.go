package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/accident"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type accidentRepositoryImpl struct {
	db *database.DB
}

func NewAccidentRepository(db *database.DB) accident.AccidentRepository {
	return &accidentRepositoryImpl{db: db}
}

const accidentSelect = `
	SELECT a.id, a.company_id, a.vehicle_number, a.driver_id, a.incident_date, a.location,
		   a.description, a.damage_cost, a.third_party_involved, a.photo_url, a.created_by,
		   a.created_at, a.updated_at, d.name AS driver_name
	FROM accident_logs a
	LEFT JOIN drivers d ON d.id = a.driver_id
`

func scanAccident(row pgx.Row) (accident.AccidentLog, error) {
	var a accident.AccidentLog
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.VehicleNumber, &a.DriverID, &a.IncidentDate, &a.Location,
		&a.Description, &a.DamageCost, &a.ThirdPartyInvolved, &a.PhotoURL, &a.CreatedBy,
		&a.CreatedAt, &a.UpdatedAt, &a.DriverName,
	)
	return a, err
}

// Create implements accident.AccidentRepository.
func (r *accidentRepositoryImpl) Create(ctx context.Context, a accident.AccidentLog) (accident.AccidentLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO accident_logs (
			company_id, vehicle_number, driver_id, incident_date, location,
			description, damage_cost, third_party_involved, photo_url, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		a.CompanyID, a.VehicleNumber, a.DriverID, a.IncidentDate, a.Location,
		a.Description, a.DamageCost, a.ThirdPartyInvolved, a.PhotoURL, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return accident.AccidentLog{}, fmt.Errorf("failed to create accident log: %w", err)
	}
	return a, nil
}

// GetByID implements accident.AccidentRepository.
func (r *accidentRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (accident.AccidentLog, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAccident(q.QueryRow(ctx, accidentSelect+` WHERE a.id = $1 AND a.company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accident.AccidentLog{}, accident.ErrAccidentLogNotFound
		}
		return accident.AccidentLog{}, fmt.Errorf("failed to get accident log: %w", err)
	}
	return a, nil
}

// List implements accident.AccidentRepository, newest incident first.
func (r *accidentRepositoryImpl) List(ctx context.Context, companyID string, filter accident.AccidentFilter) ([]accident.AccidentLog, accident.Totals, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.VehicleNumber != nil && *filter.VehicleNumber != "" {
		baseWhere += fmt.Sprintf(" AND a.vehicle_number = $%d", argIdx)
		args = append(args, *filter.VehicleNumber)
		argIdx++
	}
	if filter.DriverID != nil && *filter.DriverID != "" {
		baseWhere += fmt.Sprintf(" AND a.driver_id = $%d", argIdx)
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.incident_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.incident_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var totals accident.Totals
	totalsQuery := `SELECT COUNT(*), COALESCE(SUM(a.damage_cost), 0) FROM accident_logs a WHERE ` + baseWhere
	if err := q.QueryRow(ctx, totalsQuery, args...).Scan(&totals.Count, &totals.DamageCost); err != nil {
		return nil, accident.Totals{}, fmt.Errorf("failed to total accident logs: %w", err)
	}

	page, limit := pagination.Normalize(filter.Page, filter.Limit)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.incident_date DESC, a.created_at DESC LIMIT $%d OFFSET $%d`,
		accidentSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, accident.Totals{}, fmt.Errorf("failed to query accident logs: %w", err)
	}
	defer rows.Close()

	var logs []accident.AccidentLog
	for rows.Next() {
		a, err := scanAccident(rows)
		if err != nil {
			return nil, accident.Totals{}, fmt.Errorf("failed to scan accident log: %w", err)
		}
		logs = append(logs, a)
	}
	return logs, totals, rows.Err()
}

// Delete implements accident.AccidentRepository.
func (r *accidentRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM accident_logs WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete accident log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return accident.ErrAccidentLogNotFound
	}
	return nil
}
