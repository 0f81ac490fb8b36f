// Package discord wraps the guild-facing bot session. It resolves voice
// channels and members by name and performs the actual channel moves.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"teebot/internal/errs"
	"teebot/pkg/log"
)

const memberPageSize = 1000

type Bot struct {
	session *discordgo.Session
	guildID string
}

func New(token string, guildID string) (*Bot, error) {
	session, errSession := discordgo.New("Bot " + token)
	if errSession != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", errSession)
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	session.AddHandler(onConnect)
	session.AddHandler(onDisconnect)

	return &Bot{session: session, guildID: guildID}, nil
}

func onConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	slog.Info("Connected to discord gateway")
}

func onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	slog.Info("Disconnected from discord gateway")
}

// Start opens the gateway connection and blocks until the context ends.
func (b *Bot) Start(ctx context.Context) error {
	if errOpen := b.session.Open(); errOpen != nil {
		return fmt.Errorf("failed to open discord connection: %w", errOpen)
	}

	<-ctx.Done()

	if errClose := b.session.Close(); errClose != nil {
		slog.Error("Failed to cleanly shutdown discord", log.ErrAttr(errClose))
	}

	return nil
}

// FindChannelByName returns the id of the first voice channel whose name
// contains the given name.
func (b *Bot) FindChannelByName(name string) (string, error) {
	channels, errChannels := b.session.GuildChannels(b.guildID)
	if errChannels != nil {
		return "", fmt.Errorf("failed to fetch guild channels: %w", errChannels)
	}

	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildVoice && strings.Contains(channel.Name, name) {
			return channel.ID, nil
		}
	}

	return "", errs.ErrChannelNotFound
}

// FindMemberByName resolves a guild member by in-game player name. The match
// is case-insensitive across nickname, global display name and username, and
// bots never match.
func (b *Bot) FindMemberByName(name string) (string, error) {
	members, errMembers := b.members()
	if errMembers != nil {
		return "", errMembers
	}

	for _, member := range members {
		if matchesName(member, name) {
			return member.User.ID, nil
		}
	}

	return "", errs.ErrMemberNotFound
}

func (b *Bot) MoveMember(memberID string, channelID string) error {
	if errMove := b.session.GuildMemberMove(b.guildID, memberID, &channelID); errMove != nil {
		return fmt.Errorf("failed to move member: %w", errMove)
	}

	slog.Info("Moved member to channel",
		slog.String("member_id", memberID), slog.String("channel_id", channelID))

	return nil
}

// MoveAllMembers moves every non-bot member into the given channel. Members
// without an active voice state fail the move, those errors are expected and
// only logged.
func (b *Bot) MoveAllMembers(channelID string) error {
	members, errMembers := b.members()
	if errMembers != nil {
		return errMembers
	}

	for _, member := range members {
		if errMove := b.session.GuildMemberMove(b.guildID, member.User.ID, &channelID); errMove != nil {
			slog.Debug("Skipping member move", slog.String("member_id", member.User.ID), log.ErrAttr(errMove))
		}
	}

	return nil
}

func (b *Bot) members() ([]*discordgo.Member, error) {
	members, errMembers := b.session.GuildMembers(b.guildID, "", memberPageSize)
	if errMembers != nil {
		return nil, fmt.Errorf("failed to fetch guild members: %w", errMembers)
	}

	var humans []*discordgo.Member
	for _, member := range members {
		if member.User == nil || member.User.Bot {
			continue
		}

		humans = append(humans, member)
	}

	return humans, nil
}

func matchesName(member *discordgo.Member, name string) bool {
	if name == "" {
		return false
	}

	return strings.EqualFold(member.Nick, name) ||
		strings.EqualFold(member.User.GlobalName, name) ||
		strings.EqualFold(member.User.Username, name)
}
