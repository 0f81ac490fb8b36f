// Package narrator turns end-of-match stats into a short colour commentary
// using the Anthropic messages API.
package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"teebot/internal/errs"
)

const systemPrompt = `You are the resident commentator on a Teeworlds CTF server. You will
receive the awards and a JSON stats document for the match that just ended.

Stats fields per player:
- kills: enemy kills
- deaths: times killed
- suicides: self-inflicted deaths (included in deaths)
- katana_pickups: times the ninja katana was picked up
- flag_grabs: enemy flag pickups
- flag_captures: flags carried home

Write a short, punchy recap of the match in at most three sentences. Call
out the most remarkable individual performances by player name. Be witty but
never cruel. Plain text only, no markdown, no quotation marks.`

type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func New(apiKey string, model string, maxTokens int) *Client {
	return &Client{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

func (c *Client) Narrate(ctx context.Context, statsJSON string, awards []string) (string, error) {
	userMsg := fmt.Sprintf("AWARDS:\n%s\n\nSTATS:\n%s", strings.Join(awards, "\n"), statsJSON)

	message, errMessage := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})
	if errMessage != nil {
		return "", errors.Join(errMessage, errs.ErrNarration)
	}

	var builder strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}

	summary := flatten(builder.String())
	if summary == "" {
		return "", errs.ErrEmptyNarration
	}

	return summary, nil
}

// flatten squeezes the completion onto a single quote-free line so it
// survives the in-game chat delivery.
func flatten(text string) string {
	cleaned := strings.NewReplacer("\r", " ", "\n", " ", `"`, "").Replace(text)

	return strings.Join(strings.Fields(cleaned), " ")
}
