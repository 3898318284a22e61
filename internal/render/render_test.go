package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingalban/aws-butler/internal/logs"
)

func TestDuration(t *testing.T) {
	assert.Equal(t, "0:00:00", Duration(0))
	assert.Equal(t, "0:01:05", Duration(65*time.Second))
	assert.Equal(t, "26:03:04", Duration(26*time.Hour+3*time.Minute+4*time.Second))
}

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "-", Timestamp(time.Time{}))
	assert.Equal(t, "2024-05-01 13:37:00",
		Timestamp(time.Date(2024, 5, 1, 13, 37, 0, 0, time.UTC)))
}

func TestEventLine(t *testing.T) {
	event := logs.Event{
		Timestamp: time.Date(2024, 5, 1, 13, 37, 0, 0, time.UTC),
		Message:   "\x1b[31mpanic\x1b[0m in handler",
	}

	t.Run("no color strips producer ANSI", func(t *testing.T) {
		line := EventLine(event, false)
		assert.Equal(t, "2024-05-01 13:37:00: panic in handler", line)
	})

	t.Run("color keeps the message intact", func(t *testing.T) {
		line := EventLine(event, true)
		assert.Contains(t, line, event.Message)
		assert.Equal(t, "2024-05-01 13:37:00: panic in handler", ansi.Strip(line))
	})
}

func TestStreamTable(t *testing.T) {
	out := StreamTable([]logs.Stream{{
		Name:         "web-1",
		CreatedAt:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		FirstEventAt: time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC),
		LastEventAt:  time.Date(2024, 5, 1, 2, 30, 0, 0, time.UTC),
	}})

	plain := ansi.Strip(out)
	assert.Contains(t, plain, "NAME")
	assert.Contains(t, plain, "web-1")
	assert.Contains(t, plain, "1:30:00")
}

func TestStreamJSON(t *testing.T) {
	var b strings.Builder
	err := StreamJSON(&b, []logs.Stream{{Name: "web-1"}})
	require.NoError(t, err)
	assert.Contains(t, b.String(), `"name": "web-1"`)
	assert.Contains(t, b.String(), `"first_event": "-"`, "zero times render as dashes")
}
