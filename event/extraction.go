package event

import (
	"context"

	"github.com/fwojciec/pdfrules"
)

// Ensure PublishingExtractionService implements pdfrules.ExtractionService.
var _ pdfrules.ExtractionService = (*PublishingExtractionService)(nil)

// Publisher publishes ItemCreated events.
type Publisher interface {
	Publish(ctx context.Context, e pdfrules.ItemCreated) error
}

// PublishingExtractionService wraps an ExtractionService and publishes
// ItemCreated after each successful CreateItem. No other method publishes.
type PublishingExtractionService struct {
	next      pdfrules.ExtractionService
	publisher Publisher
}

// NewPublishingExtractionService creates a new PublishingExtractionService.
func NewPublishingExtractionService(next pdfrules.ExtractionService, publisher Publisher) *PublishingExtractionService {
	return &PublishingExtractionService{next: next, publisher: publisher}
}

// CreateItem stores the item and then publishes ItemCreated. The item is
// kept even if a handler fails; the handler error is returned.
func (s *PublishingExtractionService) CreateItem(ctx context.Context, item *pdfrules.ExtractionItem) error {
	if err := s.next.CreateItem(ctx, item); err != nil {
		return err
	}
	return s.publisher.Publish(ctx, pdfrules.ItemCreated{
		ItemID:       item.ID,
		ExtractionID: item.ExtractionID,
	})
}

func (s *PublishingExtractionService) CreateExtraction(ctx context.Context, extraction *pdfrules.Extraction) error {
	return s.next.CreateExtraction(ctx, extraction)
}

func (s *PublishingExtractionService) FindExtractionByID(ctx context.Context, id string) (*pdfrules.Extraction, error) {
	return s.next.FindExtractionByID(ctx, id)
}

func (s *PublishingExtractionService) FindExtractions(ctx context.Context, filter pdfrules.ExtractionFilter) ([]*pdfrules.Extraction, error) {
	return s.next.FindExtractions(ctx, filter)
}

func (s *PublishingExtractionService) DeleteExtraction(ctx context.Context, id string) error {
	return s.next.DeleteExtraction(ctx, id)
}

func (s *PublishingExtractionService) FindItemByID(ctx context.Context, id string) (*pdfrules.ExtractionItem, error) {
	return s.next.FindItemByID(ctx, id)
}

func (s *PublishingExtractionService) FindItems(ctx context.Context, filter pdfrules.ItemFilter) ([]*pdfrules.ExtractionItem, error) {
	return s.next.FindItems(ctx, filter)
}

// SetItemResult delegates without publishing.
func (s *PublishingExtractionService) SetItemResult(ctx context.Context, id string, result *pdfrules.Result) error {
	return s.next.SetItemResult(ctx, id, result)
}
