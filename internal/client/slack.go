package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"inquiry-intake-service/internal/config"
)

// SlackClient wraps the Slack Web API calls the service needs: posting
// threaded replies, resolving the inquirer's name and building message links.
type SlackClient struct {
	api    *slack.Client
	logger *zap.Logger
}

func NewSlackClient(cfg config.SlackConfig, logger *zap.Logger) *SlackClient {
	return &SlackClient{
		api:    slack.New(cfg.BotToken),
		logger: logger,
	}
}

// PostReply posts text into the thread of the mention. Fire-and-forget from
// the pipeline's perspective; the caller logs failures and does not retry.
func (c *SlackClient) PostReply(ctx context.Context, channelID, threadTS, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	return err
}

// InquirerName resolves a user ID to a human name, preferring the display
// name, then the real name, then the account name. On API failure the user ID
// itself is used so the request can still proceed.
func (c *SlackClient) InquirerName(ctx context.Context, userID string) string {
	if userID == "" {
		c.logger.Warn("mention event carried no user id")
		return "不明"
	}

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		c.logger.Warn("users.info failed, falling back to user id",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return userID
	}

	switch {
	case user.Profile.DisplayName != "":
		return user.Profile.DisplayName
	case user.RealName != "":
		return user.RealName
	case user.Name != "":
		return user.Name
	}
	return userID
}

// MessagePermalink returns a link back to the mention message. It asks the
// Slack API for the workspace permalink and falls back to the app.slack.com
// form (openable inside the Slack app) when the lookup fails.
func (c *SlackClient) MessagePermalink(ctx context.Context, teamID, channelID, ts string) string {
	link, err := c.api.GetPermalinkContext(ctx, &slack.PermalinkParameters{
		Channel: channelID,
		Ts:      ts,
	})
	if err == nil && link != "" {
		return link
	}

	c.logger.Warn("permalink lookup failed, using app.slack.com fallback",
		zap.String("channel", channelID),
		zap.Error(err),
	)
	return fmt.Sprintf("https://app.slack.com/client/%s/%s/p%s",
		teamID, channelID, strings.ReplaceAll(ts, ".", ""))
}
