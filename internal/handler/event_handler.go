package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"inquiry-intake-service/internal/service/inquiry"
	"inquiry-intake-service/pkg/dedup"
	"inquiry-intake-service/pkg/logger"
	"inquiry-intake-service/pkg/metrics"
)

// maxInquiryRunes is the accepted length of a cleaned mention text.
const maxInquiryRunes = 1000

// botMentionPattern matches the leading bot mention markup, e.g. "<@U123ABC> ".
var botMentionPattern = regexp.MustCompile(`<@[A-Z0-9]+>\s*`)

// Pipeline runs one mention end to end.
type Pipeline interface {
	Process(ctx context.Context, req inquiry.Request) error
}

// SlackGateway is the slice of the Slack API the handler itself needs.
type SlackGateway interface {
	inquiry.ReplySink
	InquirerName(ctx context.Context, userID string) string
	MessagePermalink(ctx context.Context, teamID, channelID, ts string) string
}

// EventHandler receives Slack Events API callbacks.
type EventHandler struct {
	pipeline      Pipeline
	slack         SlackGateway
	deduper       *dedup.Deduper // nil when no redis is configured
	signingSecret string
	logger        *zap.Logger
}

func NewEventHandler(pipeline Pipeline, slack SlackGateway, deduper *dedup.Deduper, signingSecret string, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		pipeline:      pipeline,
		slack:         slack,
		deduper:       deduper,
		signingSecret: signingSecret,
		logger:        logger,
	}
}

// HandleEvents handles POST /slack/events.
func (h *EventHandler) HandleEvents(c *gin.Context) {
	log := logger.WithTrace(c.Request.Context(), h.logger)

	// Slack retries a delivery it considers failed; the first delivery is
	// already being processed, so acknowledge and skip.
	if c.GetHeader("X-Slack-Retry-Num") != "" {
		log.Info("slack retry delivery detected, skipping")
		metrics.IncrementInquiryRequests("skipped")
		c.Status(http.StatusOK)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warn("failed to read request body", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid request")
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Warn("failed to parse event payload", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid request")
		return
	}

	// URL verification has to be answered before signature verification so
	// Slack can complete the endpoint handshake.
	if event.Type == slackevents.URLVerification {
		challenge := ""
		if v, ok := event.Data.(*slackevents.EventsAPIURLVerificationEvent); ok {
			challenge = v.Challenge
		}
		if challenge == "" {
			log.Warn("url_verification request without challenge")
			c.String(http.StatusBadRequest, "Missing challenge")
			return
		}
		log.Info("url verification request received")
		c.String(http.StatusOK, challenge)
		return
	}

	if h.signingSecret != "" {
		if err := verifySignature(h.signingSecret, c.Request.Header, body); err != nil {
			log.Warn("signature verification failed", zap.Error(err))
			c.String(http.StatusUnauthorized, "Invalid signature")
			return
		}
	}

	if event.Type != slackevents.CallbackEvent {
		log.Info("unsupported event type", zap.String("type", event.Type))
		c.String(http.StatusOK, "OK")
		return
	}

	// A redelivery without the retry header is still possible; the dedup
	// guard catches it by event ID when redis is available.
	if cb, ok := event.Data.(*slackevents.EventsAPICallbackEvent); ok && h.deduper != nil && cb.EventID != "" {
		if !h.deduper.AcquireOnce(c.Request.Context(), cb.EventID) {
			log.Info("duplicate event delivery, skipping", zap.String("event_id", cb.EventID))
			metrics.IncrementInquiryRequests("skipped")
			c.String(http.StatusOK, "OK")
			return
		}
	}

	if mention, ok := event.InnerEvent.Data.(*slackevents.AppMentionEvent); ok {
		h.handleMention(c.Request.Context(), event.TeamID, mention)
	}

	c.String(http.StatusOK, "OK")
}

// handleMention runs the pipeline synchronously for one app_mention event.
// Pipeline errors are already logged and reported to the requester; the
// endpoint acknowledges the event regardless.
func (h *EventHandler) handleMention(ctx context.Context, teamID string, mention *slackevents.AppMentionEvent) {
	log := logger.WithTrace(ctx, h.logger)

	text := strings.TrimSpace(botMentionPattern.ReplaceAllString(mention.Text, ""))
	log.Info("mention received",
		zap.String("channel", mention.Channel),
		zap.String("user", mention.User),
		zap.Int("text_len", utf8.RuneCountInString(text)),
	)

	if n := utf8.RuneCountInString(text); n > maxInquiryRunes {
		log.Warn("inquiry text over the length limit", zap.Int("runes", n))
		metrics.IncrementInquiryRequests("rejected")
		msg := fmt.Sprintf("お問合せの内容が長すぎます（%d文字）。1000文字以内で再度入力してください。", n)
		if err := h.slack.PostReply(ctx, mention.Channel, mention.TimeStamp, msg); err != nil {
			log.Error("failed to post length-limit reply", zap.Error(err))
		}
		return
	}

	inquirer := h.slack.InquirerName(ctx, mention.User)

	sourceLink := ""
	if mention.Channel != "" && mention.TimeStamp != "" {
		sourceLink = h.slack.MessagePermalink(ctx, teamID, mention.Channel, mention.TimeStamp)
	}

	// Errors are terminal for this request only; the requester has already
	// been told to retry later.
	_ = h.pipeline.Process(ctx, inquiry.Request{
		ChannelID:  mention.Channel,
		ThreadTS:   mention.TimeStamp,
		Text:       text,
		Inquirer:   inquirer,
		SourceLink: sourceLink,
	})
}

func verifySignature(secret string, header http.Header, body []byte) error {
	verifier, err := slack.NewSecretsVerifier(header, secret)
	if err != nil {
		return err
	}
	if _, err := verifier.Write(body); err != nil {
		return err
	}
	return verifier.Ensure()
}
