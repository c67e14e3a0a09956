package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/pdfrules"
	"github.com/fwojciec/pdfrules/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_Publish(t *testing.T) {
	t.Parallel()

	t.Run("delivers to every handler in order", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus(nil)
		var calls []string
		require.NoError(t, bus.Subscribe(func(ctx context.Context, e pdfrules.ItemCreated) error {
			calls = append(calls, "first:"+e.ItemID)
			return nil
		}))
		require.NoError(t, bus.Subscribe(func(ctx context.Context, e pdfrules.ItemCreated) error {
			calls = append(calls, "second:"+e.ItemID)
			return nil
		}))

		err := bus.Publish(context.Background(), pdfrules.ItemCreated{ItemID: "a", ExtractionID: "x"})

		require.NoError(t, err)
		assert.Equal(t, []string{"first:a", "second:a"}, calls)
	})

	t.Run("joins handler errors and keeps going", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus(nil)
		errBoom := errors.New("boom")
		secondCalled := false
		require.NoError(t, bus.Subscribe(func(ctx context.Context, e pdfrules.ItemCreated) error {
			return errBoom
		}))
		require.NoError(t, bus.Subscribe(func(ctx context.Context, e pdfrules.ItemCreated) error {
			secondCalled = true
			return nil
		}))

		err := bus.Publish(context.Background(), pdfrules.ItemCreated{ItemID: "a"})

		require.ErrorIs(t, err, errBoom)
		assert.True(t, secondCalled)
	})

	t.Run("no subscribers is not an error", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus(nil)

		assert.NoError(t, bus.Publish(context.Background(), pdfrules.ItemCreated{ItemID: "a"}))
	})
}

func TestBus_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("rejects nil handler", func(t *testing.T) {
		t.Parallel()

		bus := event.NewBus(nil)

		assert.Error(t, bus.Subscribe(nil))
	})
}
