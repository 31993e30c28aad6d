package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inquiry-intake-service/internal/service/inquiry"
)

type fakePipeline struct {
	requests []inquiry.Request
	err      error
}

func (f *fakePipeline) Process(ctx context.Context, req inquiry.Request) error {
	f.requests = append(f.requests, req)
	return f.err
}

type fakeGateway struct {
	replies []string
	name    string
	link    string
}

func (f *fakeGateway) PostReply(ctx context.Context, channelID, threadTS, text string) error {
	f.replies = append(f.replies, text)
	return nil
}

func (f *fakeGateway) InquirerName(ctx context.Context, userID string) string {
	return f.name
}

func (f *fakeGateway) MessagePermalink(ctx context.Context, teamID, channelID, ts string) string {
	return f.link
}

func newTestRouter(pipeline *fakePipeline, gateway *fakeGateway, signingSecret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEventHandler(pipeline, gateway, nil, signingSecret, zap.NewNop())
	router := gin.New()
	router.POST("/slack/events", h.HandleEvents)
	return router
}

func postEvent(router *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func mentionBody(text string) string {
	return fmt.Sprintf(`{
		"type": "event_callback",
		"team_id": "T123",
		"event_id": "Ev123",
		"event": {
			"type": "app_mention",
			"user": "U456",
			"text": %q,
			"ts": "111.222",
			"channel": "C789"
		}
	}`, text)
}

func TestRetryDeliverySkipped(t *testing.T) {
	pipeline := &fakePipeline{}
	router := newTestRouter(pipeline, &fakeGateway{}, "")

	rec := postEvent(router, mentionBody("<@U999> 依頼です"), map[string]string{
		"X-Slack-Retry-Num": "1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pipeline.requests)
}

func TestURLVerificationChallenge(t *testing.T) {
	router := newTestRouter(&fakePipeline{}, &fakeGateway{}, "ignored-secret")

	rec := postEvent(router, `{"type":"url_verification","challenge":"abc123"}`, nil)

	// The handshake is answered even though the request is not signed.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", rec.Body.String())
}

func TestURLVerificationMissingChallenge(t *testing.T) {
	router := newTestRouter(&fakePipeline{}, &fakeGateway{}, "")

	rec := postEvent(router, `{"type":"url_verification"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMalformedPayload(t *testing.T) {
	router := newTestRouter(&fakePipeline{}, &fakeGateway{}, "")

	rec := postEvent(router, "not json at all", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignatureRequired(t *testing.T) {
	pipeline := &fakePipeline{}
	router := newTestRouter(pipeline, &fakeGateway{}, "secret123")

	rec := postEvent(router, mentionBody("<@U999> 依頼です"), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, pipeline.requests)
}

func TestValidSignatureAccepted(t *testing.T) {
	pipeline := &fakePipeline{}
	gateway := &fakeGateway{name: "山田 花子"}
	secret := "secret123"
	router := newTestRouter(pipeline, gateway, secret)

	body := mentionBody("<@U999> 依頼です")
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", ts, body)
	signature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	rec := postEvent(router, body, map[string]string{
		"X-Slack-Request-Timestamp": ts,
		"X-Slack-Signature":         signature,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pipeline.requests, 1)
}

func TestMentionRunsPipeline(t *testing.T) {
	pipeline := &fakePipeline{}
	gateway := &fakeGateway{
		name: "山田 花子",
		link: "https://example.slack.com/archives/C789/p111222",
	}
	router := newTestRouter(pipeline, gateway, "")

	rec := postEvent(router, mentionBody("<@U999> 佐藤さんのアカウント発行をお願いします"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pipeline.requests, 1)

	req := pipeline.requests[0]
	assert.Equal(t, "C789", req.ChannelID)
	assert.Equal(t, "111.222", req.ThreadTS)
	assert.Equal(t, "佐藤さんのアカウント発行をお願いします", req.Text) // mention markup stripped
	assert.Equal(t, "山田 花子", req.Inquirer)
	assert.Equal(t, gateway.link, req.SourceLink)
}

func TestOverLongMentionRejected(t *testing.T) {
	pipeline := &fakePipeline{}
	gateway := &fakeGateway{name: "山田 花子"}
	router := newTestRouter(pipeline, gateway, "")

	long := strings.Repeat("あ", 1001)
	rec := postEvent(router, mentionBody("<@U999> "+long), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pipeline.requests)
	require.Len(t, gateway.replies, 1)
	assert.Contains(t, gateway.replies[0], "お問合せの内容が長すぎます（1001文字）")
}

func TestPipelineErrorStillAcknowledged(t *testing.T) {
	pipeline := &fakePipeline{err: fmt.Errorf("sheets api unavailable")}
	router := newTestRouter(pipeline, &fakeGateway{name: "山田 花子"}, "")

	rec := postEvent(router, mentionBody("<@U999> 依頼です"), nil)

	// Slack only needs the acknowledgment; the requester was already notified.
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pipeline.requests, 1)
}

func TestNonMentionCallbackIgnored(t *testing.T) {
	pipeline := &fakePipeline{}
	router := newTestRouter(pipeline, &fakeGateway{}, "")

	body := `{
		"type": "event_callback",
		"team_id": "T123",
		"event_id": "Ev124",
		"event": {"type": "reaction_added", "user": "U456"}
	}`
	rec := postEvent(router, body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pipeline.requests)
}
