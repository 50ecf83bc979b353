package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/recurra-io/recurra/internal/application/reminder/services"
	reminvo "github.com/recurra-io/recurra/internal/domain/reminder/valueobjects"
	"github.com/recurra-io/recurra/internal/domain/shared/events"
	"github.com/recurra-io/recurra/internal/domain/user"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
)

// ReminderUpdateHandler routes chat commands and inline-button presses into
// the reminder engine.
type ReminderUpdateHandler struct {
	userRepo   user.Repository
	engine     *services.Engine
	botService *BotService
	publisher  events.Publisher
	logger     logger.Interface
}

func NewReminderUpdateHandler(
	userRepo user.Repository,
	engine *services.Engine,
	botService *BotService,
	publisher events.Publisher,
	log logger.Interface,
) *ReminderUpdateHandler {
	if log == nil {
		log = logger.NewLogger()
	}
	return &ReminderUpdateHandler{
		userRepo:   userRepo,
		engine:     engine,
		botService: botService,
		publisher:  publisher,
		logger:     log.Named("telegram-handler"),
	}
}

func (h *ReminderUpdateHandler) HandleUpdate(ctx context.Context, update *Update) error {
	switch {
	case update.CallbackQuery != nil:
		return h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return h.handleMessage(ctx, update.Message)
	}
	return nil
}

func (h *ReminderUpdateHandler) handleMessage(ctx context.Context, msg *Message) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "/bind"):
		return h.handleBind(ctx, msg.Chat.ID, text)
	case strings.HasPrefix(text, "/note"):
		return h.handleNote(ctx, msg.Chat.ID, text)
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		return h.botService.SendMessage(msg.Chat.ID, textsFor(h.localeForChat(ctx, msg.Chat.ID)).help)
	}
	return nil
}

// handleBind links the chat to the account owning the given email address.
func (h *ReminderUpdateHandler) handleBind(ctx context.Context, chatID int64, text string) error {
	texts := textsFor(h.localeForChat(ctx, chatID))

	fields := strings.Fields(text)
	if len(fields) != 2 {
		return h.botService.SendMessage(chatID, texts.bindUsage)
	}
	email := strings.ToLower(fields[1])

	u, err := h.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return h.botService.SendMessage(chatID, texts.bindUnknown)
		}
		return err
	}

	if err := u.BindTelegramChat(chatID); err != nil {
		return err
	}
	if err := h.userRepo.Update(ctx, u); err != nil {
		return err
	}

	if h.publisher != nil {
		h.publisher.Publish(events.Event{
			Kind:       events.KindTelegramConnected,
			UserID:     u.ID(),
			OccurredAt: time.Now().UTC(),
		})
	}

	h.logger.Infow("telegram chat bound", "user_id", u.ID(), "chat_id", chatID)
	return h.botService.SendMessage(chatID, fmt.Sprintf(textsFor(u.Locale()).bindOK, email))
}

// handleNote attaches free text to a reminder: "/note <reminder id> <text>".
func (h *ReminderUpdateHandler) handleNote(ctx context.Context, chatID int64, text string) error {
	u, err := h.userRepo.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return h.botService.SendMessage(chatID, textsFor("en").bindUsage)
		}
		return err
	}
	texts := textsFor(u.Locale())

	fields := strings.SplitN(text, " ", 3)
	if len(fields) != 3 {
		return h.botService.SendMessage(chatID, texts.noteUsage)
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil || id == 0 {
		return h.botService.SendMessage(chatID, texts.noteUsage)
	}

	if _, err := h.engine.UpdateNote(ctx, uint(id), u.ID(), strings.TrimSpace(fields[2])); err != nil {
		if apperrors.IsNotFoundError(err) {
			return h.botService.SendMessage(chatID, texts.actionFailed)
		}
		return err
	}
	return h.botService.SendMessage(chatID, texts.noteSaved)
}

func (h *ReminderUpdateHandler) handleCallback(ctx context.Context, cb *CallbackQuery) error {
	if cb.Message == nil {
		return h.botService.AnswerCallbackQuery(cb.ID, "")
	}
	chatID := cb.Message.Chat.ID

	u, err := h.userRepo.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return h.botService.AnswerCallbackQuery(cb.ID, "")
		}
		return err
	}
	texts := textsFor(u.Locale())

	action, reminderID, arg, ok := parseCallbackData(cb.Data)
	if !ok {
		return h.botService.AnswerCallbackQuery(cb.ID, "")
	}

	switch action {
	case callbackActionComplete:
		_, err = h.engine.Answer(ctx, reminderID, u.ID(), reminvo.AnswerCompleted, nil)
		if err == nil {
			err = h.acknowledge(cb, texts.done)
		}
	case callbackActionDismiss:
		_, err = h.engine.Answer(ctx, reminderID, u.ID(), reminvo.AnswerDismissed, nil)
		if err == nil {
			err = h.acknowledge(cb, texts.dismissed)
		}
	case callbackActionSnooze:
		minutes := arg
		if minutes < 1 {
			minutes = defaultSnoozeMinutes
		}
		_, err = h.engine.Snooze(ctx, reminderID, u.ID(), minutes)
		if err == nil {
			err = h.acknowledge(cb, fmt.Sprintf(texts.snoozed, minutes))
		}
	default:
		return h.botService.AnswerCallbackQuery(cb.ID, "")
	}

	if err != nil {
		// Stale buttons are expected: the reminder may already be answered
		// from another surface.
		if apperrors.IsInvalidTransitionError(err) || apperrors.IsNotFoundError(err) {
			return h.botService.AnswerCallbackQuery(cb.ID, texts.actionFailed)
		}
		return err
	}
	return nil
}

// acknowledge answers the callback and strips the keyboard by rewriting the
// message with a status suffix.
func (h *ReminderUpdateHandler) acknowledge(cb *CallbackQuery, status string) error {
	if err := h.botService.AnswerCallbackQuery(cb.ID, status); err != nil {
		return err
	}
	return h.botService.EditMessageText(cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("%s\n\n<i>%s</i>", html.EscapeString(cb.Message.Text), status))
}

func (h *ReminderUpdateHandler) localeForChat(ctx context.Context, chatID int64) string {
	u, err := h.userRepo.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return "en"
	}
	return u.Locale()
}

/// parseCallbackData splits "action:reminderID[:arg]".
func parseCallbackData(data string) (action string, reminderID uint, arg int, ok bool) {
	parts := strings.Split(data, ":")
	if len(parts) < 2 {
		return "", 0, 0, false
	}

	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return "", 0, 0, false
	}

	if len(parts) >= 3 {
		if v, err := strconv.Atoi(parts[2]); err == nil {
			arg = v
		}
	}
	return parts[0], uint(id), arg, true
}
