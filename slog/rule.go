package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pdfrules"
)

// Ensure LoggingRuleService implements pdfrules.RuleService.
var _ pdfrules.RuleService = (*LoggingRuleService)(nil)

// LoggingRuleService wraps a RuleService and logs rule changes.
type LoggingRuleService struct {
	next   pdfrules.RuleService
	logger *slog.Logger
}

// NewLoggingRuleService creates a new LoggingRuleService.
func NewLoggingRuleService(next pdfrules.RuleService, logger *slog.Logger) *LoggingRuleService {
	return &LoggingRuleService{next: next, logger: logger}
}

func (s *LoggingRuleService) CreateRule(ctx context.Context, rule *pdfrules.Rule) (err error) {
	defer func() {
		s.logger.Info("rule created",
			"id", rule.ID,
			"customer", rule.CustomerName,
			"field", rule.FieldName,
			"kind", rule.Kind(),
			"err", err,
		)
	}()
	return s.next.CreateRule(ctx, rule)
}

func (s *LoggingRuleService) FindRuleByID(ctx context.Context, id string) (*pdfrules.Rule, error) {
	return s.next.FindRuleByID(ctx, id)
}

func (s *LoggingRuleService) FindRules(ctx context.Context, filter pdfrules.RuleFilter) (rules []*pdfrules.Rule, err error) {
	start := time.Now()
	defer func() {
		attrs := []any{"count", len(rules), "duration", time.Since(start), "err", err}
		if filter.CustomerName != nil {
			attrs = append(attrs, "customer", *filter.CustomerName)
		}
		s.logger.Debug("rules loaded", attrs...)
	}()
	return s.next.FindRules(ctx, filter)
}

func (s *LoggingRuleService) UpdateRule(ctx context.Context, id string, upd pdfrules.RuleUpdate) (rule *pdfrules.Rule, err error) {
	defer func() {
		s.logger.Info("rule updated", "id", id, "err", err)
	}()
	return s.next.UpdateRule(ctx, id, upd)
}

func (s *LoggingRuleService) DuplicateRule(ctx context.Context, id string) (rule *pdfrules.Rule, err error) {
	defer func() {
		attrs := []any{"source", id, "err", err}
		if rule != nil {
			attrs = append(attrs, "id", rule.ID)
		}
		s.logger.Info("rule duplicated", attrs...)
	}()
	return s.next.DuplicateRule(ctx, id)
}

func (s *LoggingRuleService) DeleteRule(ctx context.Context, id string) (err error) {
	defer func() {
		s.logger.Info("rule deleted", "id", id, "err", err)
	}()
	return s.next.DeleteRule(ctx, id)
}
