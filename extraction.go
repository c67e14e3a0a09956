package pdfrules

import (
	"context"
	"path/filepath"
	"time"
)

// Method selects how an extraction batch is processed.
type Method string

// Method constants for Extraction.
const (
	MethodRegex Method = "regex"
	MethodAI    Method = "ai"
)

// Valid reports whether m is a known extraction method.
func (m Method) Valid() bool {
	return m == MethodRegex || m == MethodAI
}

// Extraction is a batch of documents uploaded together for one customer.
type Extraction struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	Method       Method `json:"method"`

	// Model usage accounting for AI extraction.
	ModelUsed    string `json:"modelUsed"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
	TotalTokens  int    `json:"totalTokens"`

	CreatedBy string    `json:"createdBy"`
	UpdatedBy string    `json:"updatedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the extraction contains invalid fields.
func (e *Extraction) Validate() error {
	if e.CustomerName == "" {
		return Errorf(EINVALID, "extraction customer name required")
	}
	if !e.Method.Valid() {
		return Errorf(EINVALID, "unknown extraction method %q", e.Method)
	}
	return nil
}

// ExtractionItem is one uploaded document within an extraction batch.
type ExtractionItem struct {
	ID           string `json:"id"`
	ExtractionID string `json:"extractionId"`
	FileName     string `json:"fileName"`
	FilePath     string `json:"filePath"`
	ContentHash  string `json:"contentHash"`

	// Result is nil until the item has been processed.
	Result *Result `json:"result"`

	CreatedBy string    `json:"createdBy"`
	UpdatedBy string    `json:"updatedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the item contains invalid fields.
func (i *ExtractionItem) Validate() error {
	if i.ExtractionID == "" {
		return Errorf(EINVALID, "item extraction ID required")
	}
	if i.FilePath == "" {
		return Errorf(EINVALID, "item file path required")
	}
	return nil
}

// DeriveFileName sets FileName from the base name of FilePath when empty.
func (i *ExtractionItem) DeriveFileName() {
	if i.FileName == "" && i.FilePath != "" {
		i.FileName = filepath.Base(i.FilePath)
	}
}

// ExtractionService represents a service for managing extraction batches
// and their items.
type ExtractionService interface {
	// CreateExtraction creates a new extraction batch.
	CreateExtraction(ctx context.Context, extraction *Extraction) error

	// FindExtractionByID retrieves an extraction by ID.
	// Returns ENOTFOUND if extraction does not exist.
	FindExtractionByID(ctx context.Context, id string) (*Extraction, error)

	// FindExtractions retrieves extractions matching the filter.
	FindExtractions(ctx context.Context, filter ExtractionFilter) ([]*Extraction, error)

	// DeleteExtraction permanently removes an extraction and all its items.
	// Returns ENOTFOUND if extraction does not exist.
	DeleteExtraction(ctx context.Context, id string) error

	// CreateItem adds a document to an extraction batch.
	// Returns ENOTFOUND if the extraction does not exist.
	CreateItem(ctx context.Context, item *ExtractionItem) error

	// FindItemByID retrieves an item by ID.
	// Returns ENOTFOUND if item does not exist.
	FindItemByID(ctx context.Context, id string) (*ExtractionItem, error)

	// FindItems retrieves items matching the filter in upload order.
	FindItems(ctx context.Context, filter ItemFilter) ([]*ExtractionItem, error)

	// SetItemResult stores the extraction result on an item. It is a plain
	// update and never counts as item creation.
	// Returns ENOTFOUND if item does not exist.
	SetItemResult(ctx context.Context, id string, result *Result) error
}

// ExtractionFilter represents a filter for FindExtractions.
type ExtractionFilter struct {
	ID           *string `json:"id"`
	CustomerName *string `json:"customerName"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ItemFilter represents a filter for FindItems.
type ItemFilter struct {
	ID           *string `json:"id"`
	ExtractionID *string `json:"extractionId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ItemCreated is raised once when a document is added to an extraction batch.
type ItemCreated struct {
	ItemID       string
	ExtractionID string
}

// ItemCreatedHandler reacts to newly created extraction items.
type ItemCreatedHandler func(ctx context.Context, event ItemCreated) error
