package telegram

import (
	"fmt"
	"html"
	"time"

	"golang.org/x/text/language"
)

// callback data layout: "<action>:<reminder_id>[:<arg>]"
const (
	callbackActionComplete = "complete"
	callbackActionDismiss  = "dismiss"
	callbackActionSnooze   = "snooze"

	defaultSnoozeMinutes = 10
)

type messageText struct {
	reminderTitle string
	complete      string
	dismiss       string
	snooze        string
	done          string
	dismissed     string
	snoozed       string
	bindOK        string
	bindUsage     string
	bindUnknown   string
	noteSaved     string
	noteUsage     string
	actionFailed  string
	help          string
}

var messageCatalog = map[language.Tag]messageText{
	language.English: {
		reminderTitle: "🔔 <b>%s</b>",
		complete:      "✅ Done",
		dismiss:       "✖ Dismiss",
		snooze:        "💤 Snooze %dm",
		done:          "Marked as done.",
		dismissed:     "Dismissed.",
		snoozed:       "Snoozed for %d minutes.",
		bindOK:        "This chat is now linked to %s. Reminders will arrive here.",
		bindUsage:     "Usage: /bind your@email.example",
		bindUnknown:   "No account found for that email address.",
		noteSaved:     "Note saved.",
		noteUsage:     "Usage: /note &lt;reminder id&gt; &lt;text&gt;",
		actionFailed:  "That action is no longer possible.",
		help:          "Commands:\n/bind &lt;email&gt; — link this chat to your account\n/note &lt;reminder id&gt; &lt;text&gt; — attach a note to a reminder\n/help — show this message",
	},
	language.Spanish: {
		reminderTitle: "🔔 <b>%s</b>",
		complete:      "✅ Hecho",
		dismiss:       "✖ Descartar",
		snooze:        "💤 Posponer %dm",
		done:          "Marcado como hecho.",
		dismissed:     "Descartado.",
		snoozed:       "Pospuesto %d minutos.",
		bindOK:        "Este chat quedó vinculado a %s. Los recordatorios llegarán aquí.",
		bindUsage:     "Uso: /bind tu@correo.ejemplo",
		bindUnknown:   "No hay ninguna cuenta con ese correo.",
		noteSaved:     "Nota guardada.",
		noteUsage:     "Uso: /note &lt;id del recordatorio&gt; &lt;texto&gt;",
		actionFailed:  "Esa acción ya no es posible.",
		help:          "Comandos:\n/bind &lt;correo&gt; — vincular este chat a tu cuenta\n/note &lt;id del recordatorio&gt; &lt;texto&gt; — añadir una nota\n/help — mostrar este mensaje",
	},
}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Spanish,
})

func textsFor(locale string) messageText {
	tag, _ := language.MatchStrings(localeMatcher, locale)
	if texts, ok := messageCatalog[tag]; ok {
		return texts
	}
	// The matcher can return a regional variant of a supported base.
	base, _ := tag.Base()
	for candidate, texts := range messageCatalog {
		if b, _ := candidate.Base(); b == base {
			return texts
		}
	}
	return messageCatalog[language.English]
}

// FormatReminderMessage builds the HTML body of a due-reminder message in the
// user's locale and timezone.
func FormatReminderMessage(question, notes, locale string, scheduledTime time.Time, loc *time.Location) string {
	texts := textsFor(locale)

	body := fmt.Sprintf(texts.reminderTitle, html.EscapeString(question))
	body += fmt.Sprintf("\n%s", scheduledTime.In(loc).Format("Mon, 02 Jan 15:04"))
	if notes != "" {
		body += fmt.Sprintf("\n\n%s", html.EscapeString(notes))
	}
	return body
}

// ReminderKeyboard builds the inline action row for a due reminder.
func ReminderKeyboard(reminderID uint, locale string) [][]InlineKeyboardButton {
	texts := textsFor(locale)
	return [][]InlineKeyboardButton{
		{
			{Text: texts.complete, CallbackData: fmt.Sprintf("%s:%d", callbackActionComplete, reminderID)},
			{Text: texts.dismiss, CallbackData: fmt.Sprintf("%s:%d", callbackActionDismiss, reminderID)},
			{Text: fmt.Sprintf(texts.snooze, defaultSnoozeMinutes), CallbackData: fmt.Sprintf("%s:%d:%d", callbackActionSnooze, reminderID, defaultSnoozeMinutes)},
		},
	}
}
