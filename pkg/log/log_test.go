package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))

	_, other := WithCorrelationID(context.Background())
	assert.NotEqual(t, id, other)
}

func TestKeepField(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	assert.True(t, keepField("owner"))
	assert.True(t, keepField("user_id"))
	assert.False(t, keepField("query"))

	t.Setenv("APP_ENV", "production")
	assert.True(t, keepField("query"))
}

func TestForContext(t *testing.T) {
	SetupTestLogger()

	ctx, id := WithCorrelationID(context.Background())
	l, ok := ForContext(ctx).(*logger)

	assert.True(t, ok)
	assert.Equal(t, id, l.entry.Data[correlationIDField])
}
