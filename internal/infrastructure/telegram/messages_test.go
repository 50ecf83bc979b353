package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/language"
)

func TestTextsFor(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		want   messageText
	}{
		{name: "english", locale: "en", want: messageCatalog[language.English]},
		{name: "spanish", locale: "es", want: messageCatalog[language.Spanish]},
		{name: "regional spanish falls back to base", locale: "es-MX", want: messageCatalog[language.Spanish]},
		{name: "unknown locale falls back to english", locale: "zh", want: messageCatalog[language.English]},
		{name: "empty locale falls back to english", locale: "", want: messageCatalog[language.English]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textsFor(tt.locale))
		})
	}
}

func TestFormatReminderMessage(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	at := time.Date(2025, 3, 15, 15, 0, 0, 0, time.UTC)

	t.Run("renders in the user's timezone", func(t *testing.T) {
		body := FormatReminderMessage("Did you stretch?", "", "en", at, loc)
		assert.Contains(t, body, "Did you stretch?")
		// 15:00 UTC is 12:00 in Buenos Aires.
		assert.Contains(t, body, "12:00")
	})

	t.Run("question html is escaped", func(t *testing.T) {
		body := FormatReminderMessage("<script>alert(1)</script>", "", "en", at, time.UTC)
		assert.NotContains(t, body, "<script>")
		assert.Contains(t, body, "&lt;script&gt;")
	})

	t.Run("notes appended when present", func(t *testing.T) {
		withNotes := FormatReminderMessage("q", "left knee only", "en", at, time.UTC)
		assert.Contains(t, withNotes, "left knee only")

		without := FormatReminderMessage("q", "", "en", at, time.UTC)
		assert.NotContains(t, without, "\n\n")
	})
}

func TestReminderKeyboard(t *testing.T) {
	rows := ReminderKeyboard(42, "en")
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 3)

	assert.Equal(t, "complete:42", rows[0][0].CallbackData)
	assert.Equal(t, "dismiss:42", rows[0][1].CallbackData)
	assert.Equal(t, "snooze:42:10", rows[0][2].CallbackData)

	t.Run("labels follow the locale", func(t *testing.T) {
		es := ReminderKeyboard(42, "es")
		assert.Equal(t, "✅ Hecho", es[0][0].Text)
		assert.True(t, strings.HasPrefix(es[0][2].Text, "💤"))
	})
}

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantAction string
		wantID     uint
		wantArg    int
		wantOK     bool
	}{
		{name: "complete", data: "complete:7", wantAction: "complete", wantID: 7, wantOK: true},
		{name: "snooze with minutes", data: "snooze:7:10", wantAction: "snooze", wantID: 7, wantArg: 10, wantOK: true},
		{name: "missing id", data: "complete"},
		{name: "zero id", data: "complete:0"},
		{name: "non-numeric id", data: "complete:abc"},
		{name: "empty", data: ""},
		{name: "non-numeric arg is ignored", data: "snooze:7:soon", wantAction: "snooze", wantID: 7, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, id, arg, ok := parseCallbackData(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}
