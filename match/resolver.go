package match

import (
	"fmt"

	"github.com/fwojciec/pdfrules"
)

// Resolver applies header and item rule sets to document text.
type Resolver struct {
	Matcher *Matcher
}

// NewResolver returns a Resolver backed by a fresh Matcher.
func NewResolver() *Resolver {
	return &Resolver{Matcher: NewMatcher()}
}

// Resolve applies both rule sets to text and merges the output into a Result.
func (r *Resolver) Resolve(header, items []*pdfrules.Rule, text string) (*pdfrules.Result, []pdfrules.Diagnostic) {
	fields, headerDiags := r.ResolveHeader(header, text)
	records, itemDiags := r.ResolveItems(items, text)
	return &pdfrules.Result{Header: fields, Items: records}, append(headerDiags, itemDiags...)
}

// ResolveHeader evaluates each header rule in order against text. Every
// rule produces a key; fields whose rule fails or does not match are nil.
func (r *Resolver) ResolveHeader(rules []*pdfrules.Rule, text string) (*pdfrules.Fields, []pdfrules.Diagnostic) {
	fields := pdfrules.NewFields()
	var diags []pdfrules.Diagnostic

	if len(rules) == 0 {
		return fields, append(diags, pdfrules.Diagnostic{
			Kind:    "header",
			Code:    pdfrules.ENORULES,
			Message: "no header rules configured",
		})
	}

	for _, rule := range rules {
		value, err := r.Matcher.MatchSingle(rule.Pattern, text, rule.CaptureGroup)
		fields.Set(rule.FieldName, value)

		switch {
		case err != nil:
			diags = append(diags, diagnostic(rule, err))
		case value == nil:
			diags = append(diags, pdfrules.Diagnostic{
				Field:   rule.FieldName,
				Kind:    rule.Kind(),
				Code:    pdfrules.ENOMATCH,
				Message: fmt.Sprintf("no match for pattern %q", rule.Pattern),
			})
		}
	}
	return fields, diags
}

// ResolveItems evaluates each item rule in order against text. The k-th
// match of every rule lands in the k-th record; the list grows to the
// longest match count and shorter fields leave their key out of the tail
// records.
func (r *Resolver) ResolveItems(rules []*pdfrules.Rule, text string) ([]*pdfrules.Fields, []pdfrules.Diagnostic) {
	records := []*pdfrules.Fields{}
	var diags []pdfrules.Diagnostic

	if len(rules) == 0 {
		return records, append(diags, pdfrules.Diagnostic{
			Kind:    "item",
			Code:    pdfrules.ENORULES,
			Message: "no item rules configured",
		})
	}

	for _, rule := range rules {
		values, err := r.Matcher.MatchAll(rule.Pattern, text, rule.CaptureGroup)
		if err != nil {
			diags = append(diags, diagnostic(rule, err))
		}
		if pdfrules.ErrorCode(err) == pdfrules.EPATTERN {
			continue
		}
		if len(values) == 0 {
			diags = append(diags, pdfrules.Diagnostic{
				Field:   rule.FieldName,
				Kind:    rule.Kind(),
				Code:    pdfrules.ENOMATCH,
				Message: fmt.Sprintf("no items found for pattern %q", rule.Pattern),
			})
			continue
		}

		for i, v := range values {
			for len(records) <= i {
				records = append(records, pdfrules.NewFields())
			}
			records[i].Set(rule.FieldName, v)
		}
	}
	return records, diags
}

func diagnostic(rule *pdfrules.Rule, err error) pdfrules.Diagnostic {
	return pdfrules.Diagnostic{
		Field:   rule.FieldName,
		Kind:    rule.Kind(),
		Code:    pdfrules.ErrorCode(err),
		Message: pdfrules.ErrorMessage(err),
	}
}
