// Package routing maps chat commands and in-game team changes to voice
// channel assignment intents.
package routing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"teebot/pkg/econparse"
	"teebot/pkg/log"
)

const commandPrefix = "!"

// Voice channel names matched against the guild's channel list.
const (
	ChannelGeneral = "general"
	ChannelRed     = "RED"
	ChannelBlue    = "BLUE"
)

var teamChannels = map[econparse.Team]string{
	econparse.TeamRed:        ChannelRed,
	econparse.TeamBlue:       ChannelBlue,
	econparse.TeamSpectators: ChannelGeneral,
}

// ChannelRoster is the guild collaborator used to resolve and move members.
// Lookups are best-effort, absence is an expected outcome.
type ChannelRoster interface {
	FindChannelByName(name string) (string, error)
	FindMemberByName(name string) (string, error)
	MoveMember(memberID string, channelID string) error
	MoveAllMembers(channelID string) error
}

// Responder delivers command feedback into the game.
type Responder interface {
	Say(text string) error
	Broadcast(text string) error
}

// Router holds the fridaymode toggle and applies the team to channel policy.
// While fridaymode is on, team joins do not move anyone.
type Router struct {
	events chan econparse.Results
	roster ChannelRoster
	sink   Responder

	mu         sync.Mutex
	fridaymode bool
}

func New(roster ChannelRoster, sink Responder) *Router {
	return &Router{
		events:     make(chan econparse.Results, 64),
		roster:     roster,
		sink:       sink,
		fridaymode: true,
	}
}

// EventChan is the ingestion channel to register with the event broadcaster.
func (r *Router) EventChan() chan econparse.Results {
	return r.events
}

func (r *Router) Start(ctx context.Context) {
	for {
		select {
		case result := <-r.events:
			switch result.MsgType {
			case econparse.Chat:
				var evt econparse.ChatEvt
				if errUnmarshal := econparse.Unmarshal(result.Values, &evt); errUnmarshal != nil {
					slog.Error("Failed to decode chat event", log.ErrAttr(errUnmarshal))

					continue
				}

				r.HandleChat(evt.Msg)
			case econparse.TeamJoin:
				var evt econparse.TeamJoinEvt
				if errUnmarshal := econparse.Unmarshal(result.Values, &evt); errUnmarshal != nil {
					slog.Error("Failed to decode team join event", log.ErrAttr(errUnmarshal))

					continue
				}

				r.HandleTeamJoin(evt.Player, evt.Team)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (r *Router) Fridaymode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.fridaymode
}

func (r *Router) setFridaymode(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fridaymode = enabled
}

// HandleChat runs a chat line through the command table. Anything that is not
// a recognized command is a silent no-op, players get no error feedback.
func (r *Router) HandleChat(msg string) {
	if !strings.HasPrefix(msg, commandPrefix) {
		return
	}

	switch strings.TrimPrefix(msg, commandPrefix) {
	case "fridaymode":
		r.respond(r.sink.Say(fmt.Sprintf("fridaymode: %t (!fridaymode <enable|disable>)", r.Fridaymode())))
	case "fridaymode enable":
		r.setFridaymode(true)
		r.moveAllToGeneral()
		r.respond(r.sink.Broadcast("fridaymode enabled"))
	case "fridaymode disable":
		r.setFridaymode(false)
		r.respond(r.sink.Broadcast("fridaymode disabled"))
	}
}

func (r *Router) respond(errSend error) {
	if errSend != nil {
		slog.Error("Failed to send command response", log.ErrAttr(errSend))
	}
}

// HandleTeamJoin moves the joining player into their team's voice channel.
// Every resolution failure is a silent no-op so the event loop is never
// blocked by a missing channel or an unmatched player name.
func (r *Router) HandleTeamJoin(player string, team econparse.Team) {
	if r.Fridaymode() {
		return
	}

	channelName, known := teamChannels[team]
	if !known {
		slog.Debug("No channel mapping for team", slog.Int("team", int(team)))

		return
	}

	channelID, errChannel := r.roster.FindChannelByName(channelName)
	if errChannel != nil {
		slog.Debug("Voice channel not found", slog.String("channel", channelName), log.ErrAttr(errChannel))

		return
	}

	memberID, errMember := r.roster.FindMemberByName(player)
	if errMember != nil {
		slog.Debug("No member matching player name", slog.String("player", player), log.ErrAttr(errMember))

		return
	}

	if errMove := r.roster.MoveMember(memberID, channelID); errMove != nil {
		slog.Warn("Failed to move member", slog.String("player", player), log.ErrAttr(errMove))
	}
}

func (r *Router) moveAllToGeneral() {
	channelID, errChannel := r.roster.FindChannelByName(ChannelGeneral)
	if errChannel != nil {
		slog.Warn("General channel not found", log.ErrAttr(errChannel))

		return
	}

	if errMove := r.roster.MoveAllMembers(channelID); errMove != nil {
		slog.Warn("Failed to move members to general", log.ErrAttr(errMove))
	}
}
