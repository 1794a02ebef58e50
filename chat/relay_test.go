package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRelay(t *testing.T, limit, buffer int) *Relay {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewRelay(zerolog.Nop(), NewHistory(limit), 16, buffer)

	go r.Run(ctx)

	t.Cleanup(func() {
		cancel()
		<-r.done
	})

	return r
}

func next(t *testing.T, s *Subscriber) Event {
	t.Helper()

	select {
	case evt, ok := <-s.Events():
		require.True(t, ok, "subscriber channel closed")
		return evt
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for event")
	}

	return Event{}
}

func TestRelay_SubscriberGetsSnapshotFirst(t *testing.T) {
	r := startRelay(t, 0, 8)
	ctx := context.Background()

	_, err := r.Publish(Message{Author: "alice", Text: "before"})
	require.NoError(t, err)

	s, err := r.Subscribe(ctx)
	require.NoError(t, err)

	evt := next(t, s)
	assert.Equal(t, EventSnapshot, evt.Type)
	assert.Equal(t, Topic, evt.Topic)

	// The message may still have been queued when the snapshot was taken,
	// in which case it arrives twice; either way it is in the snapshot.
	require.Len(t, evt.Messages, 1)
	assert.Equal(t, "before", evt.Messages[0].Text)
}

func TestRelay_PublishReachesEverySubscriber(t *testing.T) {
	r := startRelay(t, 0, 8)
	ctx := context.Background()

	a, err := r.Subscribe(ctx)
	require.NoError(t, err)
	b, err := r.Subscribe(ctx)
	require.NoError(t, err)

	next(t, a)
	next(t, b)

	stored, err := r.Publish(Message{Author: "", Text: "hello", Timestamp: 42})
	require.NoError(t, err)

	for _, s := range []*Subscriber{a, b} {
		evt := next(t, s)
		assert.Equal(t, EventNewMessage, evt.Type)
		require.NotNil(t, evt.Chat)
		assert.Equal(t, stored, *evt.Chat)
		assert.Equal(t, "", evt.Chat.Author)
	}
}

func TestRelay_UnsubscribedGetsNothing(t *testing.T) {
	r := startRelay(t, 0, 8)
	ctx := context.Background()

	s, err := r.Subscribe(ctx)
	require.NoError(t, err)
	next(t, s)

	r.Unsubscribe(s)

	_, err = r.Publish(Message{Text: "missed"})
	require.NoError(t, err)

	_, ok := <-s.Events()
	assert.False(t, ok)

	assert.Len(t, r.Snapshot(), 1)
}

func TestRelay_FailedAppendIsNotBroadcast(t *testing.T) {
	r := startRelay(t, 1, 8)
	ctx := context.Background()

	s, err := r.Subscribe(ctx)
	require.NoError(t, err)
	next(t, s)

	_, err = r.Publish(Message{Text: "fits"})
	require.NoError(t, err)
	next(t, s)

	_, err = r.Publish(Message{Text: "overflow"})
	require.ErrorIs(t, err, ErrHistoryFull)

	select {
	case evt := <-s.Events():
		t.Fatalf("unexpected event %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRelay_SlowSubscriberIsDropped(t *testing.T) {
	r := startRelay(t, 0, 1)
	ctx := context.Background()

	s, err := r.Subscribe(ctx)
	require.NoError(t, err)

	// The snapshot fills the buffer, so the first live message overflows it.
	_, err = r.Publish(Message{Text: "overflow"})
	require.NoError(t, err)

	drained := 0
	for evt := range s.Events() {
		assert.Equal(t, EventSnapshot, evt.Type)
		drained++
	}
	assert.Equal(t, 1, drained)
}

func TestRelay_EveryStoredMessageIsBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRelay(zerolog.Nop(), NewHistory(0), 1, 512)

	go r.Run(ctx)

	t.Cleanup(func() {
		cancel()
		<-r.done
	})

	s, err := r.Subscribe(ctx)
	require.NoError(t, err)
	next(t, s)

	const total = 200

	for i := 0; i < total; i++ {
		_, err := r.Publish(Message{Text: fmt.Sprint(i)})
		require.NoError(t, err)
	}

	for i := 0; i < total; i++ {
		evt := next(t, s)
		require.NotNil(t, evt.Chat)
		assert.Equal(t, uint64(i), evt.Chat.Position)
	}

	assert.Len(t, r.Snapshot(), total)
}

func TestRelay_LiveOrderMatchesHistory(t *testing.T) {
	r := startRelay(t, 0, 512)
	ctx := context.Background()

	s, err := r.Subscribe(ctx)
	require.NoError(t, err)
	next(t, s)

	const writers, each = 4, 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				_, err := r.Publish(Message{Author: fmt.Sprintf("w%d", w), Text: fmt.Sprint(i)})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	var live []Message
	for n := 0; n < writers*each; n++ {
		evt := next(t, s)
		require.NotNil(t, evt.Chat)
		live = append(live, *evt.Chat)
	}

	assert.Equal(t, r.Snapshot(), live)
}

func TestRelay_ClosedRelayRejects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRelay(zerolog.Nop(), NewHistory(0), 1, 1)

	go r.Run(ctx)
	cancel()
	<-r.done

	_, err := r.Publish(Message{Text: "late"})
	require.ErrorIs(t, err, ErrRelayClosed)

	_, err = r.Subscribe(context.Background())
	require.ErrorIs(t, err, ErrRelayClosed)
}
