package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"teebot/pkg/econparse"
)

func grabEvent(player string) econparse.Results {
	return econparse.Results{MsgType: econparse.FlagGrab, Values: map[string]any{"player": player}}
}

func captureEvent(player string) econparse.Results {
	return econparse.Results{MsgType: econparse.FlagCapture, Values: map[string]any{"player": player}}
}

func killEvent(killer string, victim string) econparse.Results {
	return econparse.Results{MsgType: econparse.Kill, Values: map[string]any{
		"killer": killer, "victim": victim, "weapon": "5", "special": "0",
	}}
}

func pickupEvent(player string, item string) econparse.Results {
	return econparse.Results{MsgType: econparse.Pickup, Values: map[string]any{
		"player": player, "item": item,
	}}
}

func TestApplyFlagEvents(t *testing.T) {
	m := New(time.Now())

	require.NoError(t, m.Apply(grabEvent("Kirby")))
	require.NoError(t, m.Apply(grabEvent("Kirby")))
	require.NoError(t, m.Apply(grabEvent("Kirby")))
	require.NoError(t, m.Apply(captureEvent("nameless tee")))

	kirby, found := m.Player("Kirby")
	require.True(t, found)
	require.Equal(t, 3, kirby.FlagGrabs)
	require.Equal(t, 0, kirby.FlagCaptures)

	nameless, found := m.Player("nameless tee")
	require.True(t, found)
	require.Equal(t, 1, nameless.FlagCaptures)

	require.Equal(t, 2, m.PlayerCount())
}

func TestApplyKill(t *testing.T) {
	m := New(time.Now())

	require.NoError(t, m.Apply(killEvent("0:Kirby", "1:nameless tee")))

	kirby, _ := m.Player("Kirby")
	require.Equal(t, 1, kirby.Kills)
	require.Equal(t, 0, kirby.Deaths)

	nameless, _ := m.Player("nameless tee")
	require.Equal(t, 0, nameless.Kills)
	require.Equal(t, 1, nameless.Deaths)
	require.Equal(t, 0, nameless.Suicides)
}

func TestApplyKillSuicide(t *testing.T) {
	m := New(time.Now())

	// The raw identities differ only by client id prefix. Normalization must
	// run before the killer/victim comparison for this to count as a suicide.
	require.NoError(t, m.Apply(killEvent("0:Kirby", "0:Kirby")))

	kirby, _ := m.Player("Kirby")
	require.Equal(t, 0, kirby.Kills)
	require.Equal(t, 1, kirby.Deaths)
	require.Equal(t, 1, kirby.Suicides)
	require.Equal(t, 1, m.PlayerCount())
}

func TestApplyPickupFiltersKatana(t *testing.T) {
	m := New(time.Now())

	require.ErrorIs(t, m.Apply(pickupEvent("Kirby", "2")), ErrIgnored)
	require.Equal(t, 0, m.PlayerCount())

	require.NoError(t, m.Apply(pickupEvent("Kirby", "5")))
	require.NoError(t, m.Apply(pickupEvent("Kirby", "5")))

	kirby, _ := m.Player("Kirby")
	require.Equal(t, 2, kirby.KatanaPickups)
}

func TestApplyPreservesExistingCounters(t *testing.T) {
	m := New(time.Now())

	require.NoError(t, m.Apply(grabEvent("Kirby")))
	require.NoError(t, m.Apply(killEvent("0:Kirby", "1:nameless tee")))
	require.NoError(t, m.Apply(grabEvent("Kirby")))

	kirby, _ := m.Player("Kirby")
	require.Equal(t, 2, kirby.FlagGrabs)
	require.Equal(t, 1, kirby.Kills)
}

func TestApplyIgnoresUnrelatedEvents(t *testing.T) {
	m := New(time.Now())

	require.ErrorIs(t, m.Apply(econparse.Results{MsgType: econparse.Chat}), ErrIgnored)
	require.ErrorIs(t, m.Apply(econparse.Results{MsgType: econparse.TeamJoin}), ErrIgnored)
	require.Equal(t, 0, m.PlayerCount())
}

func TestStripClientPrefix(t *testing.T) {
	require.Equal(t, "Kirby", StripClientPrefix("0:Kirby"))
	require.Equal(t, "", StripClientPrefix("0:"))
	require.Equal(t, "x", StripClientPrefix("x"))
}

func TestMarshalJSON(t *testing.T) {
	m := New(time.Date(2023, 1, 20, 21, 0, 0, 0, time.UTC))
	require.NoError(t, m.Apply(grabEvent("Kirby")))

	body, errMarshal := m.MarshalJSON()
	require.NoError(t, errMarshal)
	require.Contains(t, string(body), `"players"`)
	require.Contains(t, string(body), `"Kirby"`)
	require.Contains(t, string(body), `"flag_grabs":1`)
}
