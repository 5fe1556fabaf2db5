package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/duty"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type dutyRepositoryImpl struct {
	db *database.DB
}

func NewDutyRepository(db *database.DB) duty.DutyRepository {
	return &dutyRepositoryImpl{db: db}
}

const dutySelect = `
	SELECT du.id, du.company_id, du.driver_id, du.duty_date, du.type,
		   du.punch_in, du.punch_out, du.punch_in_photo_url, du.punch_out_photo_url,
		   du.start_odometer, du.end_odometer, du.outside_trip_occurred, du.outside_trip_types,
		   du.remarks, du.status, du.created_at, du.updated_at,
		   d.name AS driver_name, d.vehicle_number
	FROM duties du
	LEFT JOIN drivers d ON d.id = du.driver_id
`

func scanDuty(row pgx.Row) (duty.Duty, error) {
	var d duty.Duty
	var tripTypes []string
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.DriverID, &d.DutyDate, &d.Type,
		&d.PunchIn, &d.PunchOut, &d.PunchInPhotoURL, &d.PunchOutPhotoURL,
		&d.StartOdometer, &d.EndOdometer, &d.OutsideTripOccurred, &tripTypes,
		&d.Remarks, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.DriverName, &d.VehicleNumber,
	)
	if err != nil {
		return duty.Duty{}, err
	}
	for _, t := range tripTypes {
		d.OutsideTripTypes = append(d.OutsideTripTypes, duty.TripType(t))
	}
	return d, nil
}

func tripTypeStrings(types []duty.TripType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

// Create implements duty.DutyRepository. The partial unique index on open
// duties turns a concurrent second punch-in into ErrAlreadyPunchedIn.
func (r *dutyRepositoryImpl) Create(ctx context.Context, d duty.Duty) (duty.Duty, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO duties (
			company_id, driver_id, duty_date, type, punch_in, punch_out,
			punch_in_photo_url, punch_out_photo_url, start_odometer, end_odometer,
			outside_trip_occurred, outside_trip_types, remarks, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		d.CompanyID, d.DriverID, d.DutyDate, d.Type, d.PunchIn, d.PunchOut,
		d.PunchInPhotoURL, d.PunchOutPhotoURL, d.StartOdometer, d.EndOdometer,
		d.OutsideTripOccurred, tripTypeStrings(d.OutsideTripTypes), d.Remarks, d.Status,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return duty.Duty{}, duty.ErrAlreadyPunchedIn
		}
		return duty.Duty{}, fmt.Errorf("failed to create duty: %w", err)
	}
	return d, nil
}

// GetByID implements duty.DutyRepository.
func (r *dutyRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (duty.Duty, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDuty(q.QueryRow(ctx, dutySelect+` WHERE du.id = $1 AND du.company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return duty.Duty{}, duty.ErrDutyNotFound
		}
		return duty.Duty{}, fmt.Errorf("failed to get duty: %w", err)
	}
	return d, nil
}

// GetOpenByDriver implements duty.DutyRepository.
func (r *dutyRepositoryImpl) GetOpenByDriver(ctx context.Context, driverID string, companyID string) (duty.Duty, error) {
	q := GetQuerier(ctx, r.db)

	query := dutySelect + ` WHERE du.driver_id = $1 AND du.company_id = $2 AND du.status = 'open'
		ORDER BY du.punch_in DESC LIMIT 1`
	d, err := scanDuty(q.QueryRow(ctx, query, driverID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return duty.Duty{}, duty.ErrDutyNotFound
		}
		return duty.Duty{}, fmt.Errorf("failed to get open duty: %w", err)
	}
	return d, nil
}

// Update implements duty.DutyRepository.
func (r *dutyRepositoryImpl) Update(ctx context.Context, d duty.Duty) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE duties SET
			duty_date = $1, type = $2, punch_in = $3, punch_out = $4,
			punch_in_photo_url = $5, punch_out_photo_url = $6,
			start_odometer = $7, end_odometer = $8,
			outside_trip_occurred = $9, outside_trip_types = $10,
			remarks = $11, status = $12, updated_at = NOW()
		WHERE id = $13 AND company_id = $14
	`
	tag, err := q.Exec(ctx, query,
		d.DutyDate, d.Type, d.PunchIn, d.PunchOut,
		d.PunchInPhotoURL, d.PunchOutPhotoURL,
		d.StartOdometer, d.EndOdometer,
		d.OutsideTripOccurred, tripTypeStrings(d.OutsideTripTypes),
		d.Remarks, d.Status, d.ID, d.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update duty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return duty.ErrDutyNotFound
	}
	return nil
}

// List implements duty.DutyRepository.
func (r *dutyRepositoryImpl) List(ctx context.Context, companyID string, filter duty.DutyFilter) ([]duty.Duty, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "du.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.DriverID != nil && *filter.DriverID != "" {
		baseWhere += fmt.Sprintf(" AND du.driver_id = $%d", argIdx)
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND du.duty_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND du.duty_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND du.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND du.type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM duties du WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count duties: %w", err)
	}

	page, limit := pagination.Normalize(filter.Page, filter.Limit)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY du.duty_date DESC, du.punch_in DESC NULLS LAST LIMIT $%d OFFSET $%d`,
		dutySelect, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	duties, err := r.query(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return duties, total, nil
}

// ListByPeriod implements duty.DutyRepository.
func (r *dutyRepositoryImpl) ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]duty.Duty, error) {
	q := GetQuerier(ctx, r.db)

	query := dutySelect + `
		WHERE du.company_id = $1 AND du.duty_date >= $2 AND du.duty_date < $3
		  AND ($4::uuid IS NULL OR du.driver_id = $4::uuid)
		ORDER BY du.driver_id, du.duty_date`
	return r.query(ctx, q, query, companyID, start, end, driverID)
}

func (r *dutyRepositoryImpl) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]duty.Duty, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query duties: %w", err)
	}
	defer rows.Close()

	var duties []duty.Duty
	for rows.Next() {
		d, err := scanDuty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan duty: %w", err)
		}
		duties = append(duties, d)
	}
	return duties, rows.Err()
}

// CloseStale implements duty.DutyRepository. It runs across companies.
func (r *dutyRepositoryImpl) CloseStale(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE duties
		SET status = 'auto_closed', updated_at = NOW()
		WHERE status = 'open' AND punch_in < $1
	`
	tag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to close stale duties: %w", err)
	}
	return tag.RowsAffected(), nil
}
