// Package event dispatches domain events in-process.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fwojciec/pdfrules"
)

// Bus delivers ItemCreated events to subscribed handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers []pdfrules.ItemCreatedHandler
	logger   *slog.Logger
}

// NewBus creates a Bus. A nil logger discards log output.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{logger: logger}
}

// Subscribe registers a handler for ItemCreated events.
func (b *Bus) Subscribe(h pdfrules.ItemCreatedHandler) error {
	if h == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)

	b.logger.Debug("event handler subscribed", "subscribers", len(b.handlers))
	return nil
}

// Publish runs every subscribed handler in subscription order and waits
// for all of them. A failing handler does not stop the others; their
// errors are joined.
func (b *Bus) Publish(ctx context.Context, e pdfrules.ItemCreated) error {
	b.mu.RLock()
	handlers := append([]pdfrules.ItemCreatedHandler(nil), b.handlers...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no subscribers for event", "item", e.ItemID)
		return nil
	}

	b.logger.Debug("publishing item created",
		"item", e.ItemID,
		"extraction", e.ExtractionID,
		"subscribers", len(handlers),
	)

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			b.logger.Error("event handler failed", "item", e.ItemID, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
