// Package match tracks per-player statistics over the lifetime of a single
// round and derives the end-of-round highlights from them.
package match

import (
	"encoding/json"
	"errors"
	"time"

	"teebot/pkg/econparse"
)

var ErrIgnored = errors.New("ignored message")

// killPrefixLen is the width of the "N:" client id prefix that kill event
// identities arrive with. Only the kill message carries names in this
// composite form, see econparse.KillEvt.
const killPrefixLen = 2

// StripClientPrefix removes the fixed-width client id prefix from a kill
// event identity. It must run before any ledger lookup or killer/victim
// comparison, otherwise self-kills are misattributed.
func StripClientPrefix(name string) string {
	if len(name) < killPrefixLen {
		return name
	}

	return name[killPrefixLen:]
}

// PlayerStats is the set of counters kept per player name. All counters only
// ever increase while a match is live.
type PlayerStats struct {
	Kills         int `json:"kills"`
	Deaths        int `json:"deaths"`
	Suicides      int `json:"suicides"`
	KatanaPickups int `json:"katana_pickups"`
	FlagCaptures  int `json:"flag_captures"`
	FlagGrabs     int `json:"flag_grabs"`
}

// Match accumulates the stats of one in-progress round. A player entry exists
// only once an event referencing them has been applied. Entries are never
// removed, even at zero score.
type Match struct {
	StartTime time.Time

	players map[string]*PlayerStats
	// Highlight tie-breaks go to the first encountered player, so iteration
	// must follow insertion order rather than Go's randomized map order.
	order []string
}

func New(startTime time.Time) *Match {
	return &Match{
		StartTime: startTime,
		players:   map[string]*PlayerStats{},
	}
}

func (m *Match) PlayerCount() int {
	return len(m.players)
}

// Player returns a copy of the named player's stats.
func (m *Match) Player(name string) (PlayerStats, bool) {
	stats, found := m.players[name]
	if !found {
		return PlayerStats{}, false
	}

	return *stats, true
}

// getOrCreatePlayer is the only path that mutates ledger membership. Creation
// is lazy and idempotent, an existing entry is returned untouched.
func (m *Match) getOrCreatePlayer(name string) *PlayerStats {
	if stats, found := m.players[name]; found {
		return stats
	}

	stats := &PlayerStats{}
	m.players[name] = stats
	m.order = append(m.order, name)

	return stats
}

func (m *Match) eachPlayer(visit func(name string, stats *PlayerStats)) {
	for _, name := range m.order {
		visit(name, m.players[name])
	}
}

// Apply folds a parsed console event into the ledger. Event kinds that carry
// no stats return ErrIgnored.
func (m *Match) Apply(result econparse.Results) error {
	switch result.MsgType {
	case econparse.FlagGrab:
		var evt econparse.FlagGrabEvt
		if errUnmarshal := econparse.Unmarshal(result.Values, &evt); errUnmarshal != nil {
			return errUnmarshal
		}

		m.getOrCreatePlayer(evt.Player).FlagGrabs++
	case econparse.FlagCapture:
		var evt econparse.FlagCaptureEvt
		if errUnmarshal := econparse.Unmarshal(result.Values, &evt); errUnmarshal != nil {
			return errUnmarshal
		}

		m.getOrCreatePlayer(evt.Player).FlagCaptures++
	case econparse.Kill:
		var evt econparse.KillEvt
		if errUnmarshal := econparse.Unmarshal(result.Values, &evt); errUnmarshal != nil {
			return errUnmarshal
		}

		killer := StripClientPrefix(evt.Killer)
		victim := StripClientPrefix(evt.Victim)

		killerStats := m.getOrCreatePlayer(killer)
		victimStats := m.getOrCreatePlayer(victim)

		victimStats.Deaths++
		if killer == victim {
			killerStats.Suicides++
		} else {
			killerStats.Kills++
		}
	case econparse.Pickup:
		var evt econparse.PickupEvt
		if errUnmarshal := econparse.Unmarshal(result.Values, &evt); errUnmarshal != nil {
			return errUnmarshal
		}

		if evt.Item != econparse.ItemKatana {
			return ErrIgnored
		}

		m.getOrCreatePlayer(evt.Player).KatanaPickups++
	default:
		return ErrIgnored
	}

	return nil
}

// MarshalJSON serializes the finalized ledger for the narration prompt and
// the fallback broadcast.
func (m *Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StartTime time.Time               `json:"start_time"`
		Players   map[string]*PlayerStats `json:"players"`
	}{
		StartTime: m.StartTime,
		Players:   m.players,
	})
}
