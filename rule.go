package pdfrules

import (
	"context"
	"time"
)

// DefaultCaptureGroup is the capture group assigned by the CLI when a rule
// is added without an explicit group. A Rule built in code has no default:
// its zero CaptureGroup selects the full match.
const DefaultCaptureGroup = 1

// Rule is a single field-extraction rule owned by a customer.
type Rule struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	FieldName    string `json:"fieldName"`

	// Pattern is the regular expression applied to the document text.
	Pattern string `json:"pattern"`

	// PatternV2 and PatternV3 are stored alternates. They are not used
	// for matching.
	PatternV2 string `json:"patternV2,omitempty"`
	PatternV3 string `json:"patternV3,omitempty"`

	// CaptureGroup selects the sub-match whose text becomes the value.
	// Zero selects the full match.
	CaptureGroup int `json:"captureGroup"`

	// IsItemField marks rules that repeat once per line item.
	IsItemField bool `json:"isItemField"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the rule contains invalid fields.
func (r *Rule) Validate() error {
	if r.CustomerName == "" {
		return Errorf(EINVALID, "rule customer name required")
	}
	if r.FieldName == "" {
		return Errorf(EINVALID, "rule field name required")
	}
	if r.Pattern == "" {
		return Errorf(EINVALID, "rule pattern required")
	}
	if r.CaptureGroup < 0 {
		return Errorf(EINVALID, "rule capture group must not be negative")
	}
	return nil
}

// Kind returns "item" for item rules and "header" otherwise.
func (r *Rule) Kind() string {
	if r.IsItemField {
		return "item"
	}
	return "header"
}

// RuleService represents a service for managing extraction rules.
type RuleService interface {
	// CreateRule creates a new rule at the end of the customer's rule order.
	CreateRule(ctx context.Context, rule *Rule) error

	// FindRuleByID retrieves a rule by ID.
	// Returns ENOTFOUND if rule does not exist.
	FindRuleByID(ctx context.Context, id string) (*Rule, error)

	// FindRules retrieves rules matching the filter in insertion order.
	FindRules(ctx context.Context, filter RuleFilter) ([]*Rule, error)

	// UpdateRule updates an existing rule. The rule keeps its position.
	// Returns ENOTFOUND if rule does not exist.
	UpdateRule(ctx context.Context, id string, upd RuleUpdate) (*Rule, error)

	// DuplicateRule copies a rule under a new ID at the end of the order.
	// Returns ENOTFOUND if rule does not exist.
	DuplicateRule(ctx context.Context, id string) (*Rule, error)

	// DeleteRule permanently removes a rule.
	// Returns ENOTFOUND if rule does not exist.
	DeleteRule(ctx context.Context, id string) error
}

// RuleFilter represents a filter for FindRules.
type RuleFilter struct {
	ID           *string `json:"id"`
	CustomerName *string `json:"customerName"`
	IsItemField  *bool   `json:"isItemField"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RuleUpdate represents fields that can be updated on a rule.
type RuleUpdate struct {
	CustomerID   *string `json:"customerId"`
	CustomerName *string `json:"customerName"`
	FieldName    *string `json:"fieldName"`
	Pattern      *string `json:"pattern"`
	PatternV2    *string `json:"patternV2"`
	PatternV3    *string `json:"patternV3"`
	CaptureGroup *int    `json:"captureGroup"`
	IsItemField  *bool   `json:"isItemField"`
}

// SplitRules partitions rules into header rules and item rules,
// preserving their relative order.
func SplitRules(rules []*Rule) (header, items []*Rule) {
	header = []*Rule{}
	items = []*Rule{}
	for _, r := range rules {
		if r.IsItemField {
			items = append(items, r)
		} else {
			header = append(header, r)
		}
	}
	return header, items
}
