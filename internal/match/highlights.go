package match

import (
	"fmt"
)

// Result is the outcome of a single highlight scan. Valid distinguishes "no
// winner" from a genuine zero value, a player with 0 grabs and 0 captures is
// a real candidate but an uninteresting one.
type Result struct {
	Player string
	Value  float64
	Valid  bool
}

// kdRatio treats a player who never died as having one implied life, so their
// ratio equals their kill count. No kills means a flat zero regardless of
// deaths.
func kdRatio(stats *PlayerStats) float64 {
	if stats.Kills == 0 {
		return 0
	}

	deaths := stats.Deaths
	if deaths == 0 {
		deaths = 1
	}

	return float64(stats.Kills) / float64(deaths)
}

// TopKills finds the player with the most kills. Nobody wins an empty or
// kill-free round. Ties keep the earlier player, the comparison is strictly
// greater throughout the battery.
func TopKills(m *Match) Result {
	var best Result

	m.eachPlayer(func(name string, stats *PlayerStats) {
		if float64(stats.Kills) > best.Value {
			best = Result{Player: name, Value: float64(stats.Kills), Valid: true}
		}
	})

	return best
}

func TopKDRatio(m *Match) Result {
	var best Result

	m.eachPlayer(func(name string, stats *PlayerStats) {
		if ratio := kdRatio(stats); ratio > best.Value {
			best = Result{Player: name, Value: ratio, Valid: true}
		}
	})

	return best
}

// WorstKDRatio always reports a winner when any player exists. The award
// policy applies its own below-1.0 threshold on top.
func WorstKDRatio(m *Match) Result {
	var worst Result

	m.eachPlayer(func(name string, stats *PlayerStats) {
		if ratio := kdRatio(stats); !worst.Valid || ratio < worst.Value {
			worst = Result{Player: name, Value: ratio, Valid: true}
		}
	})

	return worst
}

func TopFlagCaptures(m *Match) Result {
	var best Result

	m.eachPlayer(func(name string, stats *PlayerStats) {
		if float64(stats.FlagCaptures) > best.Value {
			best = Result{Player: name, Value: float64(stats.FlagCaptures), Valid: true}
		}
	})

	return best
}

// MostGrabsWithoutCapture considers only players who never capped. The first
// such player leads even at zero grabs, the award policy requires a non-zero
// value before surfacing it.
func MostGrabsWithoutCapture(m *Match) Result {
	var best Result

	m.eachPlayer(func(name string, stats *PlayerStats) {
		if stats.FlagCaptures > 0 {
			return
		}

		if !best.Valid || float64(stats.FlagGrabs) > best.Value {
			best = Result{Player: name, Value: float64(stats.FlagGrabs), Valid: true}
		}
	})

	return best
}

func MostKatanaPickups(m *Match) Result {
	var best Result

	m.eachPlayer(func(name string, stats *PlayerStats) {
		if float64(stats.KatanaPickups) > best.Value {
			best = Result{Player: name, Value: float64(stats.KatanaPickups), Valid: true}
		}
	})

	return best
}

// ninjaThreshold is the minimum katana pickups before the Ninja award is
// worth announcing.
const ninjaThreshold = 3

// Awards runs the full highlight battery over a finalized match and composes
// the award lines in their fixed order. Guards that fail contribute nothing,
// so the list length varies between zero and five.
func Awards(m *Match) []string {
	var lines []string

	topKills := TopKills(m)
	topKD := TopKDRatio(m)

	switch {
	case topKills.Valid && topKD.Valid && topKills.Player == topKD.Player:
		lines = append(lines, fmt.Sprintf("Iron Man: %s (%.2f KD, %d kills)",
			topKills.Player, topKD.Value, int(topKills.Value)))
	case topKills.Valid:
		lines = append(lines, fmt.Sprintf("Top Kills: %s (%d kills)",
			topKills.Player, int(topKills.Value)))
	}

	if topCaps := TopFlagCaptures(m); topCaps.Valid {
		lines = append(lines, fmt.Sprintf("Conqueror: %s (%d captures)",
			topCaps.Player, int(topCaps.Value)))
	}

	if worst := WorstKDRatio(m); worst.Valid && worst.Value < 1.0 {
		lines = append(lines, fmt.Sprintf("Kamikaze: %s (%.2f KD)",
			worst.Player, worst.Value))
	}

	if grabs := MostGrabsWithoutCapture(m); grabs.Valid && grabs.Value > 0 {
		lines = append(lines, fmt.Sprintf("Tumputtaja: %s (%d grabs, no captures)",
			grabs.Player, int(grabs.Value)))
	}

	if katana := MostKatanaPickups(m); katana.Valid && katana.Value >= ninjaThreshold {
		lines = append(lines, fmt.Sprintf("Ninja: %s (%d katana pickups)",
			katana.Player, int(katana.Value)))
	}

	return lines
}
