package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/wsquared-be/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_RecentAndPurge(t *testing.T) {
	db, err := database.New(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))

	s := NewEventService(db)
	clock := time.Unix(1000, 0)
	s.now = func() time.Time { return clock }

	require.NoError(t, s.CreateEvent(ctx, "c1", EventRegister, "info", "first"))
	clock = clock.Add(time.Second)
	require.NoError(t, s.CreateEvent(ctx, "c1", EventLogin, "info", "second"))
	clock = clock.Add(time.Second)
	require.NoError(t, s.CreateEvent(ctx, "c2", EventLogin, "info", "other client"))

	events, err := s.GetRecentEvents(ctx, "c1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "second", events[0].Message)
	assert.Equal(t, "first", events[1].Message)
	assert.True(t, events[0].CreatedAt.Equal(time.Unix(1001, 0)))

	events, err = s.GetRecentEvents(ctx, "c1", 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	removed, err := s.PurgeBefore(ctx, time.Unix(1001, 500))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	events, err = s.GetRecentEvents(ctx, "c2", 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestMessage_UnknownErrorIsGeneric(t *testing.T) {
	assert.Equal(t, "Something went wrong. Please try again.", Message(assert.AnError))
}
