package main

import (
	"fmt"

	"github.com/fwojciec/pdfrules"
)

// Run executes the rule add command.
func (c *RuleAddCmd) Run(deps *Dependencies) error {
	rule := &pdfrules.Rule{
		CustomerID:   c.CustomerID,
		CustomerName: c.Customer,
		FieldName:    c.Field,
		Pattern:      c.Pattern,
		PatternV2:    c.PatternV2,
		PatternV3:    c.PatternV3,
		CaptureGroup: c.Group,
		IsItemField:  c.Item,
	}
	if err := deps.Rules.CreateRule(deps.Ctx, rule); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added %s rule %q for %q (ID: %s)\n", rule.Kind(), rule.FieldName, rule.CustomerName, rule.ID)
	return nil
}

// Run executes the rule list command.
func (c *RuleListCmd) Run(deps *Dependencies) error {
	var filter pdfrules.RuleFilter
	if c.Customer != "" {
		filter.CustomerName = &c.Customer
	}

	rules, err := deps.Rules.FindRules(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}

	if len(rules) == 0 {
		fmt.Fprintln(deps.Stdout, "No rules found. Use 'pdfrules rule add' to create one.")
		return nil
	}

	for _, r := range rules {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-6s  %s  group=%d  %s\n",
			r.ID, r.CustomerName, r.Kind(), r.FieldName, r.CaptureGroup, r.Pattern)
	}
	return nil
}

// Run executes the rule duplicate command.
func (c *RuleDuplicateCmd) Run(deps *Dependencies) error {
	rule, err := deps.Rules.DuplicateRule(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Duplicated rule %s as %s\n", c.ID, rule.ID)
	return nil
}

// Run executes the rule delete command.
func (c *RuleDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Rules.DeleteRule(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted rule %s\n", c.ID)
	return nil
}
