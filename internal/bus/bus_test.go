package bus

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Bus = (*NullBus)(nil)
	_ Bus = (*RedisBus)(nil)
)

func TestNewBusWithoutRedisIsNull(t *testing.T) {
	b := NewBus("", nil)
	_, ok := b.(*NullBus)
	assert.True(t, ok)

	b = NewBus("not a url", log.New(io.Discard, "", 0))
	_, ok = b.(*NullBus)
	assert.True(t, ok)
}

func TestNullBus(t *testing.T) {
	nb := NewNullBus(log.New(io.Discard, "", 0))
	ctx := context.Background()

	require.NoError(t, nb.PublishShare(ctx, NewShareMessage("1", "https://example.org/1", "email")))
	require.NoError(t, nb.PublishQuery(ctx, NewQueryMessage(0, "bridge", 2)))
	require.NoError(t, nb.HealthCheck(ctx))

	stats, err := nb.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "null", stats["type"])

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	err = nb.ReadSharesStream(ctx, "g", "c", func(context.Context, ShareMessage) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoError(t, nb.Close())
}

func TestShareFieldsRoundTrip(t *testing.T) {
	msg := NewShareMessage("42", "https://example.org/42", "facebook")
	assert.NotEmpty(t, msg.ShareID)

	raw := msg.fields()
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			fields[k] = v
		case int64:
			fields[k] = time.Unix(v, 0).UTC().Format(time.RFC3339)
		}
	}
	assert.Equal(t, msg, shareFromFields(fields))
}

func TestQueryFields(t *testing.T) {
	f := NewQueryMessage(1, "dam", 3).fields()
	assert.Equal(t, "dam", f["query"])
	assert.Equal(t, "3", f["matches"])
	assert.Equal(t, "1", f["instance"])
}

func TestParseTimestamp(t *testing.T) {
	ts, err := parseTimestamp("1700000000")
	require.NoError(t, err)
	assert.EqualValues(t, 1700000000, ts)

	ts, err = parseTimestamp("1700000000123")
	require.NoError(t, err)
	assert.EqualValues(t, 1700000000, ts)

	ts, err = parseTimestamp("2023-11-14T22:13:20Z")
	require.NoError(t, err)
	assert.EqualValues(t, 1700000000, ts)

	_, err = parseTimestamp("yesterday")
	assert.Error(t, err)
}
