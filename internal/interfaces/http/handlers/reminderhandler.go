package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reminderUsecases "github.com/recurra-io/recurra/internal/application/reminder/usecases"
	"github.com/recurra-io/recurra/internal/interfaces/dto"
	"github.com/recurra-io/recurra/internal/shared/logger"
	"github.com/recurra-io/recurra/internal/shared/utils"
)

type ReminderHandler struct {
	listUseCase   *reminderUsecases.ListRemindersUseCase
	answerUseCase *reminderUsecases.AnswerReminderUseCase
	snoozeUseCase *reminderUsecases.SnoozeReminderUseCase
	deleteUseCase *reminderUsecases.DeleteReminderUseCase
	logger        logger.Interface
}

func NewReminderHandler(
	listUseCase *reminderUsecases.ListRemindersUseCase,
	answerUseCase *reminderUsecases.AnswerReminderUseCase,
	snoozeUseCase *reminderUsecases.SnoozeReminderUseCase,
	deleteUseCase *reminderUsecases.DeleteReminderUseCase,
	logger logger.Interface,
) *ReminderHandler {
	return &ReminderHandler{
		listUseCase:   listUseCase,
		answerUseCase: answerUseCase,
		snoozeUseCase: snoozeUseCase,
		deleteUseCase: deleteUseCase,
		logger:        logger,
	}
}

func (h *ReminderHandler) List(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	activeOnly := c.Query("active") == "true"

	result, err := h.listUseCase.Execute(c.Request.Context(), userID, activeOnly)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ReminderHandler) Answer(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AnswerReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.answerUseCase.Execute(c.Request.Context(), reminderUsecases.AnswerReminderCommand{
		ReminderID: id,
		UserID:     userID,
		Value:      req.Value,
		Note:       req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ReminderHandler) Snooze(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.SnoozeReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.snoozeUseCase.Execute(c.Request.Context(), reminderUsecases.SnoozeReminderCommand{
		ReminderID: id,
		UserID:     userID,
		Minutes:    req.Minutes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *ReminderHandler) Delete(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id, userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
