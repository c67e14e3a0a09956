package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/pdfrules"
	"github.com/fwojciec/pdfrules/mock"
	pdfslog "github.com/fwojciec/pdfrules/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRuleService_CreateRule(t *testing.T) {
	t.Parallel()

	t.Run("logs created rule", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RuleService{
			CreateRuleFn: func(ctx context.Context, rule *pdfrules.Rule) error {
				rule.ID = "rule-1"
				return nil
			},
		}

		svc := pdfslog.NewLoggingRuleService(inner, logger)
		err := svc.CreateRule(context.Background(), &pdfrules.Rule{CustomerName: "Food Hall", FieldName: "qty", IsItemField: true})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "rule created")
		assert.Contains(t, output, "id=rule-1")
		assert.Contains(t, output, "kind=item")
	})
}

func TestLoggingRuleService_DeleteRule(t *testing.T) {
	t.Parallel()

	t.Run("logs error from inner service", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RuleService{
			DeleteRuleFn: func(ctx context.Context, id string) error {
				return pdfrules.Errorf(pdfrules.ENOTFOUND, "rule not found")
			},
		}

		svc := pdfslog.NewLoggingRuleService(inner, logger)
		err := svc.DeleteRule(context.Background(), "missing")

		assert.Equal(t, pdfrules.ENOTFOUND, pdfrules.ErrorCode(err))
		assert.Contains(t, buf.String(), "id=missing")
	})
}

func TestLoggingRuleService_FindRules(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.RuleService{
			FindRulesFn: func(ctx context.Context, filter pdfrules.RuleFilter) ([]*pdfrules.Rule, error) {
				return []*pdfrules.Rule{{ID: "a"}, {ID: "b"}}, nil
			},
		}

		svc := pdfslog.NewLoggingRuleService(inner, logger)
		customer := "Food Hall"
		rules, err := svc.FindRules(context.Background(), pdfrules.RuleFilter{CustomerName: &customer})

		require.NoError(t, err)
		assert.Len(t, rules, 2)
		assert.Contains(t, buf.String(), "count=2")
		assert.Contains(t, buf.String(), `customer="Food Hall"`)
		assert.Contains(t, buf.String(), "duration=")
	})
}
