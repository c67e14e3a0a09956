package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/pdfrules"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pdfrules.ExtractionService = (*ExtractionService)(nil)

// ExtractionService implements pdfrules.ExtractionService using SQLite.
type ExtractionService struct {
	db *DB
}

// NewExtractionService creates a new ExtractionService.
func NewExtractionService(db *DB) *ExtractionService {
	return &ExtractionService{db: db}
}

const extractionColumns = `id, customer_id, customer_name, method, model_used, input_tokens, output_tokens,
	total_tokens, created_by, updated_by, created_at, updated_at`

const itemColumns = `id, extraction_id, file_name, file_path, content_hash, result,
	created_by, updated_by, created_at, updated_at`

// CreateExtraction creates a new extraction batch.
func (s *ExtractionService) CreateExtraction(ctx context.Context, e *pdfrules.Extraction) error {
	if e.Method == "" {
		e.Method = pdfrules.MethodRegex
	}
	if err := e.Validate(); err != nil {
		return err
	}

	e.ID = uuid.New().String()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extractions (`+extractionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.CustomerID, e.CustomerName, string(e.Method), e.ModelUsed, e.InputTokens, e.OutputTokens,
		e.TotalTokens, e.CreatedBy, e.UpdatedBy, formatTime(e.CreatedAt), formatTime(e.UpdatedAt))

	return err
}

// FindExtractionByID retrieves an extraction by ID.
func (s *ExtractionService) FindExtractionByID(ctx context.Context, id string) (*pdfrules.Extraction, error) {
	e, err := scanExtraction(s.db.QueryRowContext(ctx, `
		SELECT `+extractionColumns+`
		FROM extractions
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, pdfrules.Errorf(pdfrules.ENOTFOUND, "extraction not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FindExtractions retrieves extractions matching the filter, newest first.
func (s *ExtractionService) FindExtractions(ctx context.Context, filter pdfrules.ExtractionFilter) ([]*pdfrules.Extraction, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + extractionColumns + " FROM extractions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.CustomerName != nil {
		query.WriteString(" AND customer_name = ?")
		args = append(args, *filter.CustomerName)
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extractions []*pdfrules.Extraction
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		extractions = append(extractions, e)
	}

	return extractions, rows.Err()
}

// DeleteExtraction permanently removes an extraction and its items.
func (s *ExtractionService) DeleteExtraction(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM extractions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pdfrules.Errorf(pdfrules.ENOTFOUND, "extraction not found")
	}

	return nil
}

// CreateItem adds a document to an extraction batch.
func (s *ExtractionService) CreateItem(ctx context.Context, item *pdfrules.ExtractionItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if _, err := s.FindExtractionByID(ctx, item.ExtractionID); err != nil {
		return err
	}

	item.DeriveFileName()
	item.ID = uuid.New().String()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	result, err := encodeResult(item.Result)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO extraction_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.ExtractionID, item.FileName, item.FilePath, item.ContentHash, result,
		item.CreatedBy, item.UpdatedBy, formatTime(item.CreatedAt), formatTime(item.UpdatedAt))

	return err
}

// FindItemByID retrieves an item by ID.
func (s *ExtractionService) FindItemByID(ctx context.Context, id string) (*pdfrules.ExtractionItem, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM extraction_items
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, pdfrules.Errorf(pdfrules.ENOTFOUND, "extraction item not found")
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// FindItems retrieves items matching the filter in upload order.
func (s *ExtractionService) FindItems(ctx context.Context, filter pdfrules.ItemFilter) ([]*pdfrules.ExtractionItem, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + itemColumns + " FROM extraction_items WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.ExtractionID != nil {
		query.WriteString(" AND extraction_id = ?")
		args = append(args, *filter.ExtractionID)
	}

	query.WriteString(" ORDER BY seq ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*pdfrules.ExtractionItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// SetItemResult stores the extraction result on an item.
func (s *ExtractionService) SetItemResult(ctx context.Context, id string, r *pdfrules.Result) error {
	data, err := encodeResult(r)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE extraction_items
		SET result = ?, updated_at = ?
		WHERE id = ?
	`, data, formatTime(time.Now()), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pdfrules.Errorf(pdfrules.ENOTFOUND, "extraction item not found")
	}

	return nil
}

func encodeResult(r *pdfrules.Result) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode result: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanExtraction(row scanner) (*pdfrules.Extraction, error) {
	var e pdfrules.Extraction
	var method, createdAt, updatedAt string

	if err := row.Scan(&e.ID, &e.CustomerID, &e.CustomerName, &method, &e.ModelUsed, &e.InputTokens,
		&e.OutputTokens, &e.TotalTokens, &e.CreatedBy, &e.UpdatedBy, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.Method = pdfrules.Method(method)

	var err error
	if e.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanItem(row scanner) (*pdfrules.ExtractionItem, error) {
	var item pdfrules.ExtractionItem
	var result sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&item.ID, &item.ExtractionID, &item.FileName, &item.FilePath, &item.ContentHash,
		&result, &item.CreatedBy, &item.UpdatedBy, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if result.Valid {
		item.Result = &pdfrules.Result{}
		if err := json.Unmarshal([]byte(result.String), item.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
	}

	var err error
	if item.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &item, nil
}
