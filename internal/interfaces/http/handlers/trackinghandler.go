// Package handlers contains the gin HTTP handlers.
package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	trackingUsecases "github.com/recurra-io/recurra/internal/application/tracking/usecases"
	trackingvo "github.com/recurra-io/recurra/internal/domain/tracking/valueobjects"
	"github.com/recurra-io/recurra/internal/interfaces/dto"
	apperrors "github.com/recurra-io/recurra/internal/shared/errors"
	"github.com/recurra-io/recurra/internal/shared/logger"
	"github.com/recurra-io/recurra/internal/shared/utils"
)

type TrackingHandler struct {
	createUseCase      *trackingUsecases.CreateTrackingUseCase
	updateUseCase      *trackingUsecases.UpdateTrackingUseCase
	changeStateUseCase *trackingUsecases.ChangeTrackingStateUseCase
	deleteUseCase      *trackingUsecases.DeleteTrackingUseCase
	getUseCase         *trackingUsecases.GetTrackingUseCase
	listUseCase        *trackingUsecases.ListTrackingsUseCase
	logger             logger.Interface
}

func NewTrackingHandler(
	createUseCase *trackingUsecases.CreateTrackingUseCase,
	updateUseCase *trackingUsecases.UpdateTrackingUseCase,
	changeStateUseCase *trackingUsecases.ChangeTrackingStateUseCase,
	deleteUseCase *trackingUsecases.DeleteTrackingUseCase,
	getUseCase *trackingUsecases.GetTrackingUseCase,
	listUseCase *trackingUsecases.ListTrackingsUseCase,
	logger logger.Interface,
) *TrackingHandler {
	return &TrackingHandler{
		createUseCase:      createUseCase,
		updateUseCase:      updateUseCase,
		changeStateUseCase: changeStateUseCase,
		deleteUseCase:      deleteUseCase,
		getUseCase:         getUseCase,
		listUseCase:        listUseCase,
		logger:             logger,
	}
}

func (h *TrackingHandler) Create(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CreateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	days, err := parseDaysDocument(req.Days)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	schedules := make([]trackingvo.Schedule, 0, len(req.Schedules))
	for _, s := range req.Schedules {
		schedules = append(schedules, trackingvo.Schedule{Hour: s.Hour, Minute: s.Minute})
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), trackingUsecases.CreateTrackingCommand{
		UserID:    userID,
		Question:  req.Question,
		Notes:     req.Notes,
		Icon:      req.Icon,
		Days:      days,
		Schedules: schedules,
		OneShotAt: req.OneTimeDate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "tracking created")
}

func (h *TrackingHandler) List(c *gin.Context) {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *TrackingHandler) Get(c *gin.Context) {
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

	result, err := h.getUseCase.Execute(c.Request.Context(), id, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *TrackingHandler) Update(c *gin.Context) {
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

	var req dto.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := trackingUsecases.UpdateTrackingCommand{
		ID:       id,
		UserID:   userID,
		Question: req.Question,
		Notes:    req.Notes,
		Icon:     req.Icon,
	}

	// A present "days" key always replaces the pattern; explicit null clears
	// it to a one-shot.
	if req.Days != nil {
		cmd.DaysSet = true
		days, err := parseDaysDocument(req.Days)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		cmd.Days = days
	}

	if req.Schedules != nil {
		schedules := make([]trackingvo.Schedule, 0, len(req.Schedules))
		for _, s := range req.Schedules {
			schedules = append(schedules, trackingvo.Schedule{Hour: s.Hour, Minute: s.Minute})
		}
		cmd.Schedules = schedules
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *TrackingHandler) ChangeState(c *gin.Context) {
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

	var req dto.ChangeTrackingStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	state, err := trackingvo.NewTrackingState(req.State)
	if err != nil {
		utils.ErrorResponseWithError(c, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.changeStateUseCase.Execute(c.Request.Context(), trackingUsecases.ChangeTrackingStateCommand{
		ID:     id,
		UserID: userID,
		Target: state,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *TrackingHandler) Delete(c *gin.Context) {
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

// parseDaysDocument converts the request's raw days document into a pattern.
// Absent and explicit-null documents both yield nil.
func parseDaysDocument(raw []byte) (*trackingvo.DaysPattern, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	pattern, err := trackingvo.ParseDaysPattern(raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid days pattern", err.Error())
	}
	return pattern, nil
}
