package match

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"teebot/pkg/econparse"
)

type recordingSink struct {
	mu         sync.Mutex
	said       []string
	broadcasts []string
}

func (r *recordingSink) Say(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.said = append(r.said, text)

	return nil
}

func (r *recordingSink) Broadcast(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcasts = append(r.broadcasts, text)

	return nil
}

func (r *recordingSink) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.said...), append([]string(nil), r.broadcasts...)
}

type stubNarrator struct {
	reply string
	err   error
}

func (n *stubNarrator) Narrate(_ context.Context, _ string, _ []string) (string, error) {
	return n.reply, n.err
}

func newTestSummarizer(narrator Narrator, sink Responder, start time.Time, now *time.Time) *Summarizer {
	s := NewSummarizer(narrator, sink)
	s.settleDelay = time.Millisecond * 5
	s.now = func() time.Time { return *now }
	s.current = New(start)

	return s
}

func roundStart() econparse.Results {
	return econparse.Results{MsgType: econparse.RoundStart, Values: map[string]any{}}
}

func TestSummarizerDebouncesWarmupRestarts(t *testing.T) {
	var (
		sink  recordingSink
		base  = time.Date(2023, 1, 20, 21, 0, 0, 0, time.UTC)
		clock = base.Add(time.Second * 5)
	)

	s := newTestSummarizer(&stubNarrator{reply: "summary"}, &sink, base, &clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Start(ctx)

	s.EventChan() <- killEvent("0:Kirby", "1:nameless tee")
	s.EventChan() <- roundStart() // 5s in, warm-up noise

	time.Sleep(time.Millisecond * 50)

	said, broadcasts := sink.snapshot()
	require.Empty(t, said)
	require.Empty(t, broadcasts)

	cancel()
	time.Sleep(time.Millisecond * 10)

	// The ledger survived the warm-up restart.
	kirby, found := s.current.Player("Kirby")
	require.True(t, found)
	require.Equal(t, 1, kirby.Kills)
}

func TestSummarizerReportsAndResets(t *testing.T) {
	var (
		sink  recordingSink
		base  = time.Date(2023, 1, 20, 21, 0, 0, 0, time.UTC)
		clock = base.Add(time.Second * 15)
	)

	s := newTestSummarizer(&stubNarrator{reply: "what a round"}, &sink, base, &clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Start(ctx)

	s.EventChan() <- killEvent("0:Kirby", "1:nameless tee")
	s.EventChan() <- roundStart() // 15s in, genuine new round

	require.Eventually(t, func() bool {
		said, _ := sink.snapshot()

		return len(said) > 0 && said[len(said)-1] == "what a round"
	}, time.Second*2, time.Millisecond*5)

	said, broadcasts := sink.snapshot()
	require.Contains(t, said[0], "Iron Man: Kirby")
	require.Equal(t, "what a round", said[len(said)-1])
	require.Empty(t, broadcasts)

	cancel()
	time.Sleep(time.Millisecond * 10)

	// The live record was replaced, the finished round's players are gone.
	require.Equal(t, 0, s.current.PlayerCount())
	require.Equal(t, clock, s.current.StartTime)
}

func TestSummarizerFallbackOnNarrationFailure(t *testing.T) {
	var (
		sink  recordingSink
		base  = time.Date(2023, 1, 20, 21, 0, 0, 0, time.UTC)
		clock = base.Add(time.Second * 30)
	)

	s := newTestSummarizer(&stubNarrator{err: errors.New("model offline")}, &sink, base, &clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Start(ctx)

	s.EventChan() <- grabEvent("Kirby")
	s.EventChan() <- roundStart()

	require.Eventually(t, func() bool {
		_, broadcasts := sink.snapshot()

		return len(broadcasts) == 1
	}, time.Second*2, time.Millisecond*5)

	_, broadcasts := sink.snapshot()
	require.True(t, strings.HasPrefix(broadcasts[0], "Last match stats: "))
	require.Contains(t, broadcasts[0], `"Kirby"`)
}

func TestSummarizerNoNarratorStillDelivers(t *testing.T) {
	var (
		sink  recordingSink
		base  = time.Date(2023, 1, 20, 21, 0, 0, 0, time.UTC)
		clock = base.Add(time.Second * 30)
	)

	s := newTestSummarizer(nil, &sink, base, &clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Start(ctx)

	s.EventChan() <- roundStart()

	require.Eventually(t, func() bool {
		_, broadcasts := sink.snapshot()

		return len(broadcasts) == 1
	}, time.Second*2, time.Millisecond*5)
}
