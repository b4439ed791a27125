package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arcade/testing/suite"
)

func TestClient_PublishOutcome(t *testing.T) {
	t.Run("Subscriber receives the published event", func(t *testing.T) {
		ctx, st := suite.New(t)

		client := New(st.Storage, "")
		require.Equal(t, DefaultChannel, client.Channel())

		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Given: a subscriber on the outcome channel
		events, err := client.Subscribe(subCtx)
		require.NoError(t, err)

		event := &entity.OutcomeEvent{
			SessionID: "abc",
			Outcome:   entity.OWins,
			Message:   entity.OWins.Message(),
			Mode:      entity.SinglePlayer,
			Board: entity.Board{
				{entity.O, entity.O, entity.O},
				{entity.X, entity.X, entity.Empty},
			},
			Scores: entity.ScoreBoard{OWins: 1},
			At:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}

		// When: an outcome is published
		err = client.PublishOutcome(ctx, event)
		require.NoError(t, err)

		// Then: the subscriber gets the same event
		select {
		case received := <-events:
			require.NotNil(t, received)
			assert.Equal(t, event, received)
		case <-time.After(5 * time.Second):
			t.Fatal("outcome event was not delivered")
		}
	})

	t.Run("Publishing without subscribers stores nothing", func(t *testing.T) {
		ctx, st := suite.New(t)

		client := New(st.Storage, "custom:channel")

		// When: publishing with nobody listening
		err := client.PublishOutcome(ctx, &entity.OutcomeEvent{Outcome: entity.Tie})

		// Then: no error and no key was written
		require.NoError(t, err)
		keys, err := st.Storage.Keys(ctx, "*").Result()
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("Subscription ends with its context", func(t *testing.T) {
		ctx, st := suite.New(t)

		client := New(st.Storage, "")

		subCtx, cancel := context.WithCancel(ctx)
		events, err := client.Subscribe(subCtx)
		require.NoError(t, err)

		// When: the context is cancelled
		cancel()

		// Then: the events channel is closed
		select {
		case _, ok := <-events:
			assert.False(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("events channel was not closed")
		}
	})
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// When: connecting to a port nobody listens on
	_, err := Connect(ctx, "127.0.0.1:1")

	// Then: the ping fails
	require.Error(t, err)
}
