// Package pdfrules extracts structured data from PDF documents using
// per-customer regular-expression rules. Header rules yield one value per
// document; item rules yield one value per matching line item.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, pdf/, slog/).
package pdfrules
