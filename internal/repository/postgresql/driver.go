package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/driver"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type driverRepositoryImpl struct {
	db *database.DB
}

func NewDriverRepository(db *database.DB) driver.DriverRepository {
	return &driverRepositoryImpl{db: db}
}

const driverSelect = `
	SELECT d.id, d.company_id, u.id, d.name, d.mobile, d.vehicle_number, d.daily_wage,
		   d.is_freelancer, d.is_active, d.created_at, d.updated_at
	FROM drivers d
	LEFT JOIN users u ON u.driver_id = d.id
`

func scanDriver(row pgx.Row) (driver.Driver, error) {
	var d driver.Driver
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.UserID, &d.Name, &d.Mobile, &d.VehicleNumber, &d.DailyWage,
		&d.IsFreelancer, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isInvalidText reports a value the column type rejects, such as a malformed UUID.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// Create implements driver.DriverRepository.
func (r *driverRepositoryImpl) Create(ctx context.Context, d driver.Driver) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO drivers (company_id, name, mobile, vehicle_number, daily_wage, is_freelancer, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		d.CompanyID, d.Name, d.Mobile, d.VehicleNumber, d.DailyWage, d.IsFreelancer, d.IsActive,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return driver.Driver{}, driver.ErrDriverMobileExists
		}
		return driver.Driver{}, fmt.Errorf("failed to create driver: %w", err)
	}
	return d, nil
}

// GetByID implements driver.DriverRepository.
func (r *driverRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDriver(q.QueryRow(ctx, driverSelect+` WHERE d.id = $1 AND d.company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		return driver.Driver{}, fmt.Errorf("failed to get driver: %w", err)
	}
	return d, nil
}

// GetByUserID implements driver.DriverRepository.
func (r *driverRepositoryImpl) GetByUserID(ctx context.Context, userID string) (driver.Driver, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDriver(q.QueryRow(ctx, driverSelect+` WHERE u.id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return driver.Driver{}, driver.ErrDriverNotFound
		}
		return driver.Driver{}, fmt.Errorf("failed to get driver by user: %w", err)
	}
	return d, nil
}

// List implements driver.DriverRepository.
func (r *driverRepositoryImpl) List(ctx context.Context, companyID string, filter driver.DriverFilter) ([]driver.Driver, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "d.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (d.name ILIKE $%d OR d.mobile ILIKE $%d OR d.vehicle_number ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.IsFreelancer != nil {
		baseWhere += fmt.Sprintf(" AND d.is_freelancer = $%d", argIdx)
		args = append(args, *filter.IsFreelancer)
		argIdx++
	}
	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND d.is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM drivers d WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count drivers: %w", err)
	}

	page, limit := pagination.Normalize(filter.Page, filter.Limit)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY d.name ASC, d.id ASC LIMIT $%d OFFSET $%d`, driverSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	drivers, err := r.query(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return drivers, total, nil
}

// ListAll implements driver.DriverRepository.
func (r *driverRepositoryImpl) ListAll(ctx context.Context, companyID string) ([]driver.Driver, error) {
	q := GetQuerier(ctx, r.db)
	return r.query(ctx, q, driverSelect+` WHERE d.company_id = $1 ORDER BY d.name ASC, d.id ASC`, companyID)
}

func (r *driverRepositoryImpl) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]driver.Driver, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query drivers: %w", err)
	}
	defer rows.Close()

	var drivers []driver.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// Update implements driver.DriverRepository.
func (r *driverRepositoryImpl) Update(ctx context.Context, companyID string, req driver.UpdateDriverRequest) error {
	q := GetQuerier(ctx, r.db)

	var sets []string
	var args []interface{}
	argIdx := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Mobile != nil {
		add("mobile", *req.Mobile)
	}
	if req.VehicleNumber != nil {
		add("vehicle_number", *req.VehicleNumber)
	}
	if req.DailyWage != nil {
		add("daily_wage", *req.DailyWage)
	}
	if req.IsFreelancer != nil {
		add("is_freelancer", *req.IsFreelancer)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE drivers SET %s, updated_at = NOW() WHERE id = $%d AND company_id = $%d`,
		strings.Join(sets, ", "), argIdx, argIdx+1)
	args = append(args, req.ID, companyID)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return driver.ErrDriverMobileExists
		}
		return fmt.Errorf("failed to update driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return driver.ErrDriverNotFound
	}
	return nil
}

// SetActive implements driver.DriverRepository.
func (r *driverRepositoryImpl) SetActive(ctx context.Context, id string, companyID string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE drivers SET is_active = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3`, active, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update driver status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return driver.ErrDriverNotFound
	}
	return nil
}

// ExistsByMobile implements driver.DriverRepository.
func (r *driverRepositoryImpl) ExistsByMobile(ctx context.Context, companyID string, mobile string, excludeID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM drivers WHERE company_id = $1 AND mobile = $2 AND ($3::uuid IS NULL OR id <> $3::uuid))`
	var exists bool
	if err := q.QueryRow(ctx, query, companyID, mobile, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check driver mobile: %w", err)
	}
	return exists, nil
}
