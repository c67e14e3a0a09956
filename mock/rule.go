package mock

import (
	"context"

	"github.com/fwojciec/pdfrules"
)

var _ pdfrules.RuleService = (*RuleService)(nil)

// RuleService is a mock implementation of pdfrules.RuleService.
type RuleService struct {
	CreateRuleFn    func(ctx context.Context, rule *pdfrules.Rule) error
	FindRuleByIDFn  func(ctx context.Context, id string) (*pdfrules.Rule, error)
	FindRulesFn     func(ctx context.Context, filter pdfrules.RuleFilter) ([]*pdfrules.Rule, error)
	UpdateRuleFn    func(ctx context.Context, id string, upd pdfrules.RuleUpdate) (*pdfrules.Rule, error)
	DuplicateRuleFn func(ctx context.Context, id string) (*pdfrules.Rule, error)
	DeleteRuleFn    func(ctx context.Context, id string) error
}

func (s *RuleService) CreateRule(ctx context.Context, rule *pdfrules.Rule) error {
	return s.CreateRuleFn(ctx, rule)
}

func (s *RuleService) FindRuleByID(ctx context.Context, id string) (*pdfrules.Rule, error) {
	return s.FindRuleByIDFn(ctx, id)
}

func (s *RuleService) FindRules(ctx context.Context, filter pdfrules.RuleFilter) ([]*pdfrules.Rule, error) {
	return s.FindRulesFn(ctx, filter)
}

func (s *RuleService) UpdateRule(ctx context.Context, id string, upd pdfrules.RuleUpdate) (*pdfrules.Rule, error) {
	return s.UpdateRuleFn(ctx, id, upd)
}

func (s *RuleService) DuplicateRule(ctx context.Context, id string) (*pdfrules.Rule, error) {
	return s.DuplicateRuleFn(ctx, id)
}

func (s *RuleService) DeleteRule(ctx context.Context, id string) error {
	return s.DeleteRuleFn(ctx, id)
}
