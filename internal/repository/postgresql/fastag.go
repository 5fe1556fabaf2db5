package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/fastag"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/database"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type fastagRepositoryImpl struct {
	db *database.DB
}

func NewFastagRepository(db *database.DB) fastag.FastagRepository {
	return &fastagRepositoryImpl{db: db}
}

const rechargeColumns = `id, company_id, vehicle_number, recharge_date, amount, payment_mode, transaction_ref, remark, created_by, created_at`

func scanRecharge(row pgx.Row) (fastag.Recharge, error) {
	var rc fastag.Recharge
	err := row.Scan(
		&rc.ID, &rc.CompanyID, &rc.VehicleNumber, &rc.RechargeDate, &rc.Amount,
		&rc.PaymentMode, &rc.TransactionRef, &rc.Remark, &rc.CreatedBy, &rc.CreatedAt,
	)
	return rc, err
}

// Create implements fastag.FastagRepository.
func (r *fastagRepositoryImpl) Create(ctx context.Context, rc fastag.Recharge) (fastag.Recharge, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO fastag_recharges (company_id, vehicle_number, recharge_date, amount, payment_mode, transaction_ref, remark, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + rechargeColumns
	created, err := scanRecharge(q.QueryRow(ctx, query,
		rc.CompanyID, rc.VehicleNumber, rc.RechargeDate, rc.Amount, rc.PaymentMode, rc.TransactionRef, rc.Remark, rc.CreatedBy,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return fastag.Recharge{}, fastag.ErrDuplicateTransactionRef
		}
		return fastag.Recharge{}, fmt.Errorf("failed to create fastag recharge: %w", err)
	}
	return created, nil
}

// GetByID implements fastag.FastagRepository.
func (r *fastagRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (fastag.Recharge, error) {
	q := GetQuerier(ctx, r.db)

	rc, err := scanRecharge(q.QueryRow(ctx, `SELECT `+rechargeColumns+` FROM fastag_recharges WHERE id = $1 AND company_id = $2`, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fastag.Recharge{}, fastag.ErrRechargeNotFound
		}
		return fastag.Recharge{}, fmt.Errorf("failed to get fastag recharge: %w", err)
	}
	return rc, nil
}

// List implements fastag.FastagRepository.
func (r *fastagRepositoryImpl) List(ctx context.Context, companyID string, filter fastag.RechargeFilter) ([]fastag.Recharge, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.VehicleNumber != nil && *filter.VehicleNumber != "" {
		baseWhere += fmt.Sprintf(" AND vehicle_number = $%d", argIdx)
		args = append(args, *filter.VehicleNumber)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND recharge_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND recharge_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM fastag_recharges WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fastag recharges: %w", err)
	}

	page, limit := pagination.Normalize(filter.Page, filter.Limit)
	query := fmt.Sprintf(`SELECT %s FROM fastag_recharges WHERE %s ORDER BY recharge_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		rechargeColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, pagination.Offset(page, limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query fastag recharges: %w", err)
	}
	defer rows.Close()

	var recharges []fastag.Recharge
	for rows.Next() {
		rc, err := scanRecharge(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan fastag recharge: %w", err)
		}
		recharges = append(recharges, rc)
	}
	return recharges, total, rows.Err()
}

// Delete implements fastag.FastagRepository.
func (r *fastagRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM fastag_recharges WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete fastag recharge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fastag.ErrRechargeNotFound
	}
	return nil
}

// Balances implements fastag.FastagRepository. end is exclusive.
func (r *fastagRepositoryImpl) Balances(ctx context.Context, companyID string, start, end *time.Time) ([]fastag.VehicleBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT vehicle_number, SUM(amount), COUNT(*), MAX(recharge_date)
		FROM fastag_recharges
		WHERE company_id = $1
		  AND ($2::date IS NULL OR recharge_date >= $2::date)
		  AND ($3::date IS NULL OR recharge_date < $3::date)
		GROUP BY vehicle_number
		ORDER BY vehicle_number
	`
	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query fastag balances: %w", err)
	}
	defer rows.Close()

	var balances []fastag.VehicleBalance
	for rows.Next() {
		var b fastag.VehicleBalance
		if err := rows.Scan(&b.VehicleNumber, &b.TotalRecharged, &b.RechargeCount, &b.LastRechargeDate); err != nil {
			return nil, fmt.Errorf("failed to scan fastag balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
