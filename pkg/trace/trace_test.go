package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), "trace-abc")
	assert.Equal(t, "trace-abc", FromContext(ctx))
}

func TestFromContextEmpty(t *testing.T) {
	assert.Equal(t, "", FromContext(context.Background()))
}

func TestGenerateTraceID(t *testing.T) {
	a := GenerateTraceID()
	b := GenerateTraceID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
