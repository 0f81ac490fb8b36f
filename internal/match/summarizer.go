package match

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"teebot/pkg/econparse"
	"teebot/pkg/log"
)

// Narrator turns a serialized match snapshot and its award lines into a short
// natural-language summary.
type Narrator interface {
	Narrate(ctx context.Context, statsJSON string, awards []string) (string, error)
}

// Responder delivers text back into the game.
type Responder interface {
	Say(text string) error
	Broadcast(text string) error
}

const (
	// Round start signals inside this window of the previous accepted one are
	// warm-up restarts and must not reset the ledger.
	warmupDebounce = time.Second * 10
	// Trailing events for the finished round can still arrive shortly after
	// the start signal, so finalization waits for them to settle.
	settleDelay     = time.Second * 3
	narrateTimeout  = time.Second * 30
	defaultChanSize = 64
)

// Summarizer owns the live match record and drives the round lifecycle:
// debounce round starts, finalize and report the finished match, swap in a
// fresh ledger.
type Summarizer struct {
	events   chan econparse.Results
	narrator Narrator
	sink     Responder

	current *Match

	now            func() time.Time
	warmupDebounce time.Duration
	settleDelay    time.Duration
}

func NewSummarizer(narrator Narrator, sink Responder) *Summarizer {
	s := &Summarizer{
		events:         make(chan econparse.Results, defaultChanSize),
		narrator:       narrator,
		sink:           sink,
		now:            time.Now,
		warmupDebounce: warmupDebounce,
		settleDelay:    settleDelay,
	}
	s.current = New(s.now())

	return s
}

// EventChan is the ingestion channel to register with the event broadcaster.
func (s *Summarizer) EventChan() chan econparse.Results {
	return s.events
}

// Start runs the lifecycle loop. The live match record is touched only from
// this goroutine, finalized snapshots are handed off and never mutated again.
func (s *Summarizer) Start(ctx context.Context) {
	var settle <-chan time.Time

	for {
		select {
		case result := <-s.events:
			if result.MsgType == econparse.RoundStart {
				if s.now().Sub(s.current.StartTime) < s.warmupDebounce {
					// Warm-up restart, no reset and no report.
					continue
				}

				if settle == nil {
					settle = time.After(s.settleDelay)
				}

				continue
			}

			if errApply := s.current.Apply(result); errApply != nil && !errors.Is(errApply, ErrIgnored) {
				slog.Error("Failed to apply event", log.ErrAttr(errApply))
			}
		case <-settle:
			settle = nil

			// The swap happens before the narration call is entered so that
			// events of the next round can never reach the snapshot.
			snapshot := s.current
			s.current = New(s.now())

			go s.report(ctx, snapshot)
		case <-ctx.Done():
			return
		}
	}
}

// report derives the highlights and delivers the match summary. Narration is
// best-effort, on any failure the raw serialized snapshot still reaches the
// game so a match is never silently dropped.
func (s *Summarizer) report(ctx context.Context, snapshot *Match) {
	awards := Awards(snapshot)

	stats, errMarshal := json.Marshal(snapshot)
	if errMarshal != nil {
		slog.Error("Failed to serialize match snapshot", log.ErrAttr(errMarshal))

		return
	}

	for _, line := range awards {
		if errSay := s.sink.Say(line); errSay != nil {
			slog.Error("Failed to announce award", log.ErrAttr(errSay))
		}
	}

	summary, errNarrate := s.narrate(ctx, string(stats), awards)
	if errNarrate != nil {
		slog.Warn("Narration unavailable, falling back to raw stats", log.ErrAttr(errNarrate))

		if errBroadcast := s.sink.Broadcast("Last match stats: " + string(stats)); errBroadcast != nil {
			slog.Error("Failed to broadcast fallback stats", log.ErrAttr(errBroadcast))
		}

		return
	}

	if errSay := s.sink.Say(summary); errSay != nil {
		slog.Error("Failed to send match summary", log.ErrAttr(errSay))
	}
}

func (s *Summarizer) narrate(ctx context.Context, statsJSON string, awards []string) (string, error) {
	if s.narrator == nil {
		return "", errors.New("no narrator configured")
	}

	narrateCtx, cancel := context.WithTimeout(ctx, narrateTimeout)
	defer cancel()

	return s.narrator.Narrate(narrateCtx, statsJSON, awards)
}
