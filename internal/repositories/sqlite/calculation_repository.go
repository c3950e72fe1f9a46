package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carvoy/importcost-api/internal/domain"
	"github.com/carvoy/importcost-api/internal/repositories"
)

// CalculationRepository persists calculation results. The full result is
// stored as a JSON blob next to the queryable columns.
type CalculationRepository struct {
	db *sql.DB
}

// NewCalculationRepository wraps the database handle.
func NewCalculationRepository(db *sql.DB) *CalculationRepository {
	return &CalculationRepository{db: db}
}

// Insert stores one calculation record.
func (r *CalculationRepository) Insert(ctx context.Context, record repositories.CalculationRecord) error {
	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal calculation result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO calculations (id, user_id, vendor_id, total, currency, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.VendorID, record.Total, record.Currency,
		string(payload), record.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// List returns records matching the filter, newest first.
func (r *CalculationRepository) List(ctx context.Context, filter repositories.CalculationListFilter) ([]repositories.CalculationRecord, error) {
	query := `
		SELECT id, user_id, vendor_id, total, currency, result_json, created_at
		FROM calculations WHERE 1=1`
	var args []any
	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.VendorID != "" {
		query += " AND vendor_id = ?"
		args = append(args, filter.VendorID)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var records []repositories.CalculationRecord
	for rows.Next() {
		record, err := scanCalculation(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return records, nil
}

// Get fetches one record by ID.
func (r *CalculationRepository) Get(ctx context.Context, calculationID string) (repositories.CalculationRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, vendor_id, total, currency, result_json, created_at
		FROM calculations WHERE id = ?`, calculationID)

	record, err := scanCalculation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repositories.CalculationRecord{}, repositories.ErrCalculationNotFound
		}
		return repositories.CalculationRecord{}, err
	}
	return record, nil
}

func scanCalculation(scan func(...any) error) (repositories.CalculationRecord, error) {
	var record repositories.CalculationRecord
	var payload, createdAt string
	if err := scan(&record.ID, &record.UserID, &record.VendorID, &record.Total, &record.Currency, &payload, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repositories.CalculationRecord{}, err
		}
		return repositories.CalculationRecord{}, fmt.Errorf("scan calculation: %w", err)
	}

	var result domain.CalculationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return repositories.CalculationRecord{}, fmt.Errorf("unmarshal calculation %s: %w", record.ID, err)
	}
	record.Result = result

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return repositories.CalculationRecord{}, fmt.Errorf("parse calculation timestamp %q: %w", createdAt, err)
	}
	record.CreatedAt = ts

	return record, nil
}
