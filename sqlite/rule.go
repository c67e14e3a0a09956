package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/pdfrules"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pdfrules.RuleService = (*RuleService)(nil)

// RuleService implements pdfrules.RuleService using SQLite.
type RuleService struct {
	db *DB
}

// NewRuleService creates a new RuleService.
func NewRuleService(db *DB) *RuleService {
	return &RuleService{db: db}
}

const ruleColumns = `id, customer_id, customer_name, field_name, pattern, pattern_v2, pattern_v3,
	capture_group, is_item_field, created_at, updated_at`

// CreateRule creates a new rule.
func (s *RuleService) CreateRule(ctx context.Context, rule *pdfrules.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	rule.ID = uuid.New().String()
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rules (`+ruleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rule.ID, rule.CustomerID, rule.CustomerName, rule.FieldName, rule.Pattern, rule.PatternV2, rule.PatternV3,
		rule.CaptureGroup, rule.IsItemField, formatTime(rule.CreatedAt), formatTime(rule.UpdatedAt))

	return err
}

// FindRuleByID retrieves a rule by ID.
func (s *RuleService) FindRuleByID(ctx context.Context, id string) (*pdfrules.Rule, error) {
	rule, err := scanRule(s.db.QueryRowContext(ctx, `
		SELECT `+ruleColumns+`
		FROM rules
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, pdfrules.Errorf(pdfrules.ENOTFOUND, "rule not found")
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// FindRules retrieves rules matching the filter in insertion order.
func (s *RuleService) FindRules(ctx context.Context, filter pdfrules.RuleFilter) ([]*pdfrules.Rule, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + ruleColumns + " FROM rules WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.CustomerName != nil {
		query.WriteString(" AND customer_name = ?")
		args = append(args, *filter.CustomerName)
	}
	if filter.IsItemField != nil {
		query.WriteString(" AND is_item_field = ?")
		args = append(args, *filter.IsItemField)
	}

	query.WriteString(" ORDER BY seq ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []*pdfrules.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// UpdateRule updates an existing rule.
func (s *RuleService) UpdateRule(ctx context.Context, id string, upd pdfrules.RuleUpdate) (*pdfrules.Rule, error) {
	rule, err := s.FindRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.CustomerID != nil {
		rule.CustomerID = *upd.CustomerID
	}
	if upd.CustomerName != nil {
		rule.CustomerName = *upd.CustomerName
	}
	if upd.FieldName != nil {
		rule.FieldName = *upd.FieldName
	}
	if upd.Pattern != nil {
		rule.Pattern = *upd.Pattern
	}
	if upd.PatternV2 != nil {
		rule.PatternV2 = *upd.PatternV2
	}
	if upd.PatternV3 != nil {
		rule.PatternV3 = *upd.PatternV3
	}
	if upd.CaptureGroup != nil {
		rule.CaptureGroup = *upd.CaptureGroup
	}
	if upd.IsItemField != nil {
		rule.IsItemField = *upd.IsItemField
	}

	if err := rule.Validate(); err != nil {
		return nil, err
	}

	rule.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE rules
		SET customer_id = ?, customer_name = ?, field_name = ?, pattern = ?, pattern_v2 = ?, pattern_v3 = ?,
			capture_group = ?, is_item_field = ?, updated_at = ?
		WHERE id = ?
	`, rule.CustomerID, rule.CustomerName, rule.FieldName, rule.Pattern, rule.PatternV2, rule.PatternV3,
		rule.CaptureGroup, rule.IsItemField, formatTime(rule.UpdatedAt), id)
	if err != nil {
		return nil, err
	}

	return rule, nil
}

// DuplicateRule copies a rule under a new ID.
func (s *RuleService) DuplicateRule(ctx context.Context, id string) (*pdfrules.Rule, error) {
	rule, err := s.FindRuleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dup := *rule
	if err := s.CreateRule(ctx, &dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

// DeleteRule permanently removes a rule.
func (s *RuleService) DeleteRule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pdfrules.Errorf(pdfrules.ENOTFOUND, "rule not found")
	}

	return nil
}

func scanRule(row scanner) (*pdfrules.Rule, error) {
	var rule pdfrules.Rule
	var createdAt, updatedAt string

	if err := row.Scan(&rule.ID, &rule.CustomerID, &rule.CustomerName, &rule.FieldName, &rule.Pattern,
		&rule.PatternV2, &rule.PatternV3, &rule.CaptureGroup, &rule.IsItemField, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if rule.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if rule.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &rule, nil
}
