// Package app assembles the econ client, event fanout, match summarizer,
// chat router and discord bot into a running service.
package app

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"teebot/internal/config"
	"teebot/internal/discord"
	"teebot/internal/errs"
	"teebot/internal/match"
	"teebot/internal/narrator"
	"teebot/internal/routing"
	"teebot/pkg/broadcaster"
	"teebot/pkg/econ"
	"teebot/pkg/econparse"
)

// BuildVersion is replaced at compile time via ldflags.
var BuildVersion = "master" //nolint:gochecknoglobals

type App struct {
	conf       config.Config
	econ       *econ.Client
	events     *broadcaster.Broadcaster[econparse.EventType, econparse.Results]
	summarizer *match.Summarizer
	router     *routing.Router
	bot        *discord.Bot
}

func New(conf config.Config) (*App, error) {
	application := &App{
		conf:   conf,
		events: broadcaster.New[econparse.EventType, econparse.Results](),
	}

	application.econ = econ.New(conf.Econ.Host, conf.Econ.Port, conf.Econ.Password, application.onEconLine)

	var voice match.Narrator
	if conf.AI.Enabled {
		voice = narrator.New(conf.AI.APIKey, conf.AI.Model, conf.AI.MaxTokens)
	} else {
		slog.Info("AI narration disabled, falling back to raw stats broadcasts")
	}

	var roster routing.ChannelRoster = offlineRoster{}

	if conf.Discord.Enabled {
		bot, errBot := discord.New(conf.Discord.Token, conf.Discord.GuildID)
		if errBot != nil {
			return nil, errBot
		}

		application.bot = bot
		roster = bot
	} else {
		slog.Info("Discord disabled, voice routing becomes a no-op")
	}

	application.summarizer = match.NewSummarizer(voice, application.econ)
	application.router = routing.New(roster, application.econ)

	if errConsume := application.events.Consume(application.summarizer.EventChan(),
		econparse.RoundStart, econparse.FlagGrab, econparse.FlagCapture,
		econparse.Kill, econparse.Pickup); errConsume != nil {
		return nil, errConsume
	}

	if errConsume := application.events.Consume(application.router.EventChan(),
		econparse.Chat, econparse.TeamJoin); errConsume != nil {
		return nil, errConsume
	}

	return application, nil
}

// Start runs all components until the context is cancelled or the discord
// session fails to open.
func (a *App) Start(ctx context.Context) error {
	slog.Info("Starting teebot", slog.String("version", BuildVersion),
		slog.String("econ_addr", a.conf.Econ.Addr()))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		a.econ.Start(groupCtx)

		return nil
	})

	group.Go(func() error {
		a.summarizer.Start(groupCtx)

		return nil
	})

	group.Go(func() error {
		a.router.Start(groupCtx)

		return nil
	})

	if a.bot != nil {
		group.Go(func() error {
			return a.bot.Start(groupCtx)
		})
	}

	return group.Wait()
}

// onEconLine parses every console line and fans out the recognized events.
func (a *App) onEconLine(line string) {
	result := econparse.Parse(line)

	switch result.MsgType {
	case econparse.IgnoredMsg:
		return
	case econparse.UnknownMsg:
		slog.Debug("Unhandled econ message", slog.String("line", line))

		return
	default:
		a.events.Emit(result.MsgType, result)
	}
}

// offlineRoster stands in for the discord bot when it is disabled. Every
// lookup fails, which the router treats as a silent no-op.
type offlineRoster struct{}

func (offlineRoster) FindChannelByName(string) (string, error) { return "", errs.ErrGuildUnavailable }
func (offlineRoster) FindMemberByName(string) (string, error)  { return "", errs.ErrGuildUnavailable }
func (offlineRoster) MoveMember(string, string) error          { return errs.ErrGuildUnavailable }
func (offlineRoster) MoveAllMembers(string) error              { return errs.ErrGuildUnavailable }
