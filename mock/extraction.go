package mock

import (
	"context"

	"github.com/fwojciec/pdfrules"
)

var _ pdfrules.ExtractionService = (*ExtractionService)(nil)

// ExtractionService is a mock implementation of pdfrules.ExtractionService.
type ExtractionService struct {
	CreateExtractionFn   func(ctx context.Context, extraction *pdfrules.Extraction) error
	FindExtractionByIDFn func(ctx context.Context, id string) (*pdfrules.Extraction, error)
	FindExtractionsFn    func(ctx context.Context, filter pdfrules.ExtractionFilter) ([]*pdfrules.Extraction, error)
	DeleteExtractionFn   func(ctx context.Context, id string) error
	CreateItemFn         func(ctx context.Context, item *pdfrules.ExtractionItem) error
	FindItemByIDFn       func(ctx context.Context, id string) (*pdfrules.ExtractionItem, error)
	FindItemsFn          func(ctx context.Context, filter pdfrules.ItemFilter) ([]*pdfrules.ExtractionItem, error)
	SetItemResultFn      func(ctx context.Context, id string, result *pdfrules.Result) error
}

func (s *ExtractionService) CreateExtraction(ctx context.Context, extraction *pdfrules.Extraction) error {
	return s.CreateExtractionFn(ctx, extraction)
}

func (s *ExtractionService) FindExtractionByID(ctx context.Context, id string) (*pdfrules.Extraction, error) {
	return s.FindExtractionByIDFn(ctx, id)
}

func (s *ExtractionService) FindExtractions(ctx context.Context, filter pdfrules.ExtractionFilter) ([]*pdfrules.Extraction, error) {
	return s.FindExtractionsFn(ctx, filter)
}

func (s *ExtractionService) DeleteExtraction(ctx context.Context, id string) error {
	return s.DeleteExtractionFn(ctx, id)
}

func (s *ExtractionService) CreateItem(ctx context.Context, item *pdfrules.ExtractionItem) error {
	return s.CreateItemFn(ctx, item)
}

func (s *ExtractionService) FindItemByID(ctx context.Context, id string) (*pdfrules.ExtractionItem, error) {
	return s.FindItemByIDFn(ctx, id)
}

func (s *ExtractionService) FindItems(ctx context.Context, filter pdfrules.ItemFilter) ([]*pdfrules.ExtractionItem, error) {
	return s.FindItemsFn(ctx, filter)
}

func (s *ExtractionService) SetItemResult(ctx context.Context, id string, result *pdfrules.Result) error {
	return s.SetItemResultFn(ctx, id, result)
}
