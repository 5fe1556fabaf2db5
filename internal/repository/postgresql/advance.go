package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/advance"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type advanceRepositoryImpl struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) advance.AdvanceRepository {
	return &advanceRepositoryImpl{db: db}
}

const advanceSelect = `
	SELECT a.id, a.company_id, a.driver_id, a.amount, a.advance_date, a.remark,
		   a.recovered_amount, a.created_by, a.created_at, a.updated_at,
		   d.name AS driver_name
	FROM advances a
	LEFT JOIN drivers d ON d.id = a.driver_id
`

func scanAdvance(row pgx.Row) (advance.Advance, error) {
	var a advance.Advance
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.DriverID, &a.Amount, &a.AdvanceDate, &a.Remark,
		&a.RecoveredAmount, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
		&a.DriverName,
	)
	return a, err
}

// Create implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) Create(ctx context.Context, a advance.Advance) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advances (company_id, driver_id, amount, advance_date, remark, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, recovered_amount, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		a.CompanyID, a.DriverID, a.Amount, a.AdvanceDate, a.Remark, a.CreatedBy,
	).Scan(&a.ID, &a.RecoveredAmount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return advance.Advance{}, fmt.Errorf("failed to create advance: %w", err)
	}
	return a, nil
}

// GetByID implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAdvance(q.QueryRow(ctx, advanceSelect+` WHERE a.id = $1 AND a.company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return advance.Advance{}, advance.ErrAdvanceNotFound
		}
		return advance.Advance{}, fmt.Errorf("failed to get advance: %w", err)
	}
	return a, nil
}

func advanceWhere(companyID string, filter advance.AdvanceFilter) (string, []interface{}, int) {
	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.DriverID != nil && *filter.DriverID != "" {
		baseWhere += fmt.Sprintf(" AND a.driver_id = $%d", argIdx)
		args = append(args, *filter.DriverID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.advance_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.advance_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	return baseWhere, args, argIdx
}

// List implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) List(ctx context.Context, companyID string, filter advance.AdvanceFilter) ([]advance.Advance, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := advanceWhere(companyID, filter)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM advances a WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count advances: %w", err)
	}

	page, limit := pagination.Normalize(filter.Page, filter.Limit)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.advance_date DESC, a.created_at DESC LIMIT $%d OFFSET $%d`,
		advanceSelect, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	advances, err := r.query(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return advances, total, nil
}

// SumAmount implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) SumAmount(ctx context.Context, companyID string, filter advance.AdvanceFilter) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, _ := advanceWhere(companyID, filter)

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, `SELECT COALESCE(SUM(a.amount), 0) FROM advances a WHERE `+baseWhere, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum advances: %w", err)
	}
	return sum, nil
}

// ListByPeriod implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) ListByPeriod(ctx context.Context, companyID string, driverID *string, start, end time.Time) ([]advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := advanceSelect + `
		WHERE a.company_id = $1 AND a.advance_date >= $2 AND a.advance_date < $3
		  AND ($4::uuid IS NULL OR a.driver_id = $4::uuid)
		ORDER BY a.driver_id, a.advance_date`
	return r.query(ctx, q, query, companyID, start, end, driverID)
}

func (r *advanceRepositoryImpl) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]advance.Advance, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query advances: %w", err)
	}
	defer rows.Close()

	var advances []advance.Advance
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance: %w", err)
		}
		advances = append(advances, a)
	}
	return advances, rows.Err()
}

// AddRecovery implements advance.AdvanceRepository. The guard in the WHERE
// clause keeps concurrent recoveries from overshooting the amount.
func (r *advanceRepositoryImpl) AddRecovery(ctx context.Context, id string, companyID string, amount decimal.Decimal) (advance.Advance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE advances
		SET recovered_amount = recovered_amount + $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND recovered_amount + $1 <= amount
	`
	tag, err := q.Exec(ctx, query, amount, id, companyID)
	if err != nil {
		return advance.Advance{}, fmt.Errorf("failed to record recovery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id, companyID); err != nil {
			return advance.Advance{}, err
		}
		return advance.Advance{}, advance.ErrRecoveryExceedsAmount
	}
	return r.GetByID(ctx, id, companyID)
}

// Delete implements advance.AdvanceRepository.
func (r *advanceRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM advances WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete advance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return advance.ErrAdvanceNotFound
	}
	return nil
}
