package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_UsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", "info", &buf)

	l := WithRequestID("req-1")
	ctx := NewContext(context.Background(), &l)
	Transition(ctx, "orders/O1", "pending", "processing", "admin-1")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"record":"orders/O1"`)
	assert.Contains(t, out, `"to":"processing"`)
}

func TestRejected_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", "error", &buf)
	defer InitWithWriter("production", "info", &bytes.Buffer{})

	Rejected(context.Background(), "accept", "orders/O1", errors.New("nope"))
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "warn", parseLevel("warning").String())
	assert.Equal(t, "info", parseLevel("loud").String())
}
