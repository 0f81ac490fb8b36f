package routing_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"teebot/internal/errs"
	"teebot/internal/routing"
	"teebot/pkg/econparse"
)

type fakeRoster struct {
	channels map[string]string // name -> id
	members  map[string]string // name -> id

	moves    []string // "memberID->channelID"
	allMoves []string // channelID
}

func (f *fakeRoster) FindChannelByName(name string) (string, error) {
	id, found := f.channels[name]
	if !found {
		return "", errs.ErrChannelNotFound
	}

	return id, nil
}

func (f *fakeRoster) FindMemberByName(name string) (string, error) {
	id, found := f.members[name]
	if !found {
		return "", errs.ErrMemberNotFound
	}

	return id, nil
}

func (f *fakeRoster) MoveMember(memberID string, channelID string) error {
	f.moves = append(f.moves, memberID+"->"+channelID)

	return nil
}

func (f *fakeRoster) MoveAllMembers(channelID string) error {
	f.allMoves = append(f.allMoves, channelID)

	return nil
}

type fakeSink struct {
	said       []string
	broadcasts []string
}

func (f *fakeSink) Say(text string) error {
	f.said = append(f.said, text)

	return nil
}

func (f *fakeSink) Broadcast(text string) error {
	f.broadcasts = append(f.broadcasts, text)

	return nil
}

func newRoster() *fakeRoster {
	return &fakeRoster{
		channels: map[string]string{
			routing.ChannelGeneral: "c-general",
			routing.ChannelRed:     "c-red",
			routing.ChannelBlue:    "c-blue",
		},
		members: map[string]string{"Kirby": "m-kirby"},
	}
}

func TestFridaymodeCommands(t *testing.T) {
	roster := newRoster()
	sink := &fakeSink{}
	router := routing.New(roster, sink)

	require.True(t, router.Fridaymode())

	router.HandleChat("!fridaymode disable")
	require.False(t, router.Fridaymode())
	require.Equal(t, []string{"fridaymode disabled"}, sink.broadcasts)

	router.HandleChat("!fridaymode")
	require.Equal(t, []string{"fridaymode: false (!fridaymode <enable|disable>)"}, sink.said)

	router.HandleChat("!fridaymode enable")
	require.True(t, router.Fridaymode())
	// Enabling moves everyone to general exactly once per invocation.
	require.Equal(t, []string{"c-general"}, roster.allMoves)
	require.Equal(t, []string{"fridaymode disabled", "fridaymode enabled"}, sink.broadcasts)
}

func TestUnknownCommandIsSilent(t *testing.T) {
	roster := newRoster()
	sink := &fakeSink{}
	router := routing.New(roster, sink)

	router.HandleChat("!rtv")
	router.HandleChat("not a command")
	router.HandleChat("!fridaymode pizza")

	require.Empty(t, sink.said)
	require.Empty(t, sink.broadcasts)
}

func TestTeamJoinRouting(t *testing.T) {
	roster := newRoster()
	sink := &fakeSink{}
	router := routing.New(roster, sink)

	// Fridaymode on: joins do not trigger moves.
	router.HandleTeamJoin("Kirby", econparse.TeamRed)
	require.Empty(t, roster.moves)

	router.HandleChat("!fridaymode disable")

	router.HandleTeamJoin("Kirby", econparse.TeamRed)
	require.Equal(t, []string{"m-kirby->c-red"}, roster.moves)

	router.HandleTeamJoin("Kirby", econparse.TeamSpectators)
	require.Equal(t, []string{"m-kirby->c-red", "m-kirby->c-general"}, roster.moves)
}

func TestTeamJoinResolutionFailuresAreSilent(t *testing.T) {
	roster := newRoster()
	sink := &fakeSink{}
	router := routing.New(roster, sink)
	router.HandleChat("!fridaymode disable")

	// Unknown team id.
	router.HandleTeamJoin("Kirby", econparse.Team(7))
	// Player without a matching guild member.
	router.HandleTeamJoin("stranger", econparse.TeamBlue)

	require.Empty(t, roster.moves)
	require.Len(t, sink.broadcasts, 1) // only the disable ack
}
