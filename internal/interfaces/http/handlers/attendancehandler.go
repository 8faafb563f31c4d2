package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/application/attendance/usecases"
	"github.com/davomat-inc/davomat/internal/domain/attendance"
	"github.com/davomat-inc/davomat/internal/shared/biztime"
	"github.com/davomat-inc/davomat/internal/shared/errors"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

type AttendanceHandler struct {
	openSessionUseCase openSessionUseCase
	markUseCase        markAttendanceUseCase
	bulkMarkUseCase    bulkMarkUseCase
	finalizeUseCase    finalizeSessionUseCase
	monthlyGridUseCase monthlyGridUseCase
	logger             logger.Interface
}

func NewAttendanceHandler(
	openSessionUC openSessionUseCase,
	markUC markAttendanceUseCase,
	bulkMarkUC bulkMarkUseCase,
	finalizeUC finalizeSessionUseCase,
	monthlyGridUC monthlyGridUseCase,
	logger logger.Interface,
) *AttendanceHandler {
	return &AttendanceHandler{
		openSessionUseCase: openSessionUC,
		markUseCase:        markUC,
		bulkMarkUseCase:    bulkMarkUC,
		finalizeUseCase:    finalizeUC,
		monthlyGridUseCase: monthlyGridUC,
		logger:             logger,
	}
}

type OpenSessionRequest struct {
	GroupID string  `json:"groupId" binding:"required,ulid"`
	Date    *string `json:"date"`
	Note    *string `json:"note"`
}

type MarkRequest struct {
	SessionID string  `json:"sessionId" binding:"required,ulid"`
	StudentID string  `json:"studentId" binding:"required,ulid"`
	Status    string  `json:"status" binding:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Comment   *string `json:"comment"`
}

type BulkMarkItemRequest struct {
	StudentID string  `json:"studentId" binding:"required,ulid"`
	Status    string  `json:"status" binding:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Comment   *string `json:"comment"`
}

type BulkMarkRequest struct {
	SessionID string                `json:"sessionId" binding:"required,ulid"`
	Items     []BulkMarkItemRequest `json:"items" binding:"required,min=1,max=500,dive"`
}

type FinalizeRequest struct {
	SessionID string  `json:"sessionId" binding:"required,ulid"`
	Note      *string `json:"note"`
}

type MonthlyGridRequest struct {
	GroupID string `form:"groupId" binding:"required,ulid"`
	Month   string `form:"month" binding:"required,month"`
}

// OpenSession handles POST /api/attendance/sessions/open
// @Summary Open an attendance session
// @Description Opens the session of a group for a date; an existing session is returned with 200
// @Tags Attendance
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body OpenSessionRequest true "Group and date"
// @Success 200 {object} utils.APIResponse{data=SessionResponse}
// @Success 201 {object} utils.APIResponse{data=SessionResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/attendance/sessions/open [post]
func (h *AttendanceHandler) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	var date *time.Time
	if req.Date != nil {
		d, err := biztime.ParseDate(*req.Date)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("date must be in YYYY-MM-DD format"))
			return
		}
		date = &d
	}

	result, err := h.openSessionUseCase.Execute(c.Request.Context(), usecases.OpenSessionCommand{
		ActorID: currentUserID(c),
		GroupID: req.GroupID,
		Date:    date,
		Note:    req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Created {
		utils.CreatedResponse(c, toSessionResponse(result), "attendance session opened")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", toSessionResponse(result))
}

// Mark handles POST /api/attendance/mark
// @Summary Mark one student
// @Tags Attendance
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body MarkRequest true "Mark"
// @Success 200 {object} utils.APIResponse{data=usecases.MarkResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req MarkRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.markUseCase.Execute(c.Request.Context(), usecases.MarkCommand{
		ActorID:   currentUserID(c),
		SessionID: req.SessionID,
		StudentID: req.StudentID,
		Status:    attendance.Status(req.Status),
		Comment:   req.Comment,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// BulkMark handles POST /api/attendance/bulk
// @Summary Mark several students
// @Description Students not actively enrolled in the group are skipped
// @Tags Attendance
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body BulkMarkRequest true "Marks"
// @Success 200 {object} utils.APIResponse{data=usecases.BulkMarkResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/attendance/bulk [post]
func (h *AttendanceHandler) BulkMark(c *gin.Context) {
	var req BulkMarkRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]usecases.BulkMarkItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecases.BulkMarkItem{
			StudentID: it.StudentID,
			Status:    attendance.Status(it.Status),
			Comment:   it.Comment,
		})
	}

	result, err := h.bulkMarkUseCase.Execute(c.Request.Context(), usecases.BulkMarkCommand{
		ActorID:   currentUserID(c),
		SessionID: req.SessionID,
		Items:     items,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Finalize handles POST /api/attendance/finalize
// @Summary Finalize a session
// @Description Marks unmarked active students ABSENT and locks the session
// @Tags Attendance
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body FinalizeRequest true "Session and note"
// @Success 200 {object} utils.APIResponse{data=usecases.FinalizeResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/attendance/finalize [post]
func (h *AttendanceHandler) Finalize(c *gin.Context) {
	var req FinalizeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.finalizeUseCase.Execute(c.Request.Context(), usecases.FinalizeCommand{
		ActorID:   currentUserID(c),
		SessionID: req.SessionID,
		Note:      req.Note,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// MonthlyGrid handles GET /api/attendance/monthly?groupId=&month=
// @Summary Monthly attendance grid
// @Tags Attendance
// @Produce json
// @Security Bearer
// @Param groupId query string true "Group ID"
// @Param month query string true "Month (YYYY-MM)"
// @Success 200 {object} utils.APIResponse{data=usecases.MonthlyGridResult}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/attendance/monthly [get]
func (h *AttendanceHandler) MonthlyGrid(c *gin.Context) {
	var req MonthlyGridRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.monthlyGridUseCase.Execute(c.Request.Context(), usecases.MonthlyGridQuery{
		GroupID: req.GroupID,
		Month:   req.Month,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
