package handlers

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davomat-inc/davomat/internal/application/enrollment/dto"
	"github.com/davomat-inc/davomat/internal/application/enrollment/usecases"
	"github.com/davomat-inc/davomat/internal/domain/enrollment"
	"github.com/davomat-inc/davomat/internal/shared/logger"
	"github.com/davomat-inc/davomat/internal/shared/utils"
)

type EnrollmentHandler struct {
	createUseCase       createEnrollmentUseCase
	updateStatusUseCase updateEnrollmentStatusUseCase
	deleteUseCase       deleteEnrollmentUseCase
	getUseCase          getEnrollmentUseCase
	listUseCase         listEnrollmentsUseCase
	logger              logger.Interface
}

func NewEnrollmentHandler(
	createUC createEnrollmentUseCase,
	updateStatusUC updateEnrollmentStatusUseCase,
	deleteUC deleteEnrollmentUseCase,
	getUC getEnrollmentUseCase,
	listUC listEnrollmentsUseCase,
	logger logger.Interface,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		createUseCase:       createUC,
		updateStatusUseCase: updateStatusUC,
		deleteUseCase:       deleteUC,
		getUseCase:          getUC,
		listUseCase:         listUC,
		logger:              logger,
	}
}

type CreateEnrollmentRequest struct {
	StudentID string `json:"studentId" binding:"required,ulid"`
	GroupID   string `json:"groupId" binding:"required,ulid"`
}

type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DROPPED COMPLETED"`
}

type DeleteEnrollmentRequest struct {
	Reason string `json:"reason" binding:"max=200"`
}

type ListEnrollmentsRequest struct {
	StudentID string `form:"studentId"`
	GroupID   string `form:"groupId"`
	Status    string `form:"status" binding:"omitempty,oneof=ACTIVE DROPPED COMPLETED"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
}

// ListEnrollmentsResponse is one page of enrollments.
type ListEnrollmentsResponse struct {
	Items []*dto.EnrollmentDTO `json:"items"`
	Meta  PageMeta             `json:"meta"`
}

type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Create handles POST /api/enrollments
// @Summary Enroll a student
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateEnrollmentRequest true "Student and group"
// @Success 201 {object} utils.APIResponse{data=dto.EnrollmentDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req CreateEnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), usecases.CreateEnrollmentCommand{
		ActorID:   currentUserID(c),
		StudentID: req.StudentID,
		GroupID:   req.GroupID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "student enrolled")
}

// List handles GET /api/enrollments
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Security Bearer
// @Param groupId query string false "Group ID"
// @Param studentId query string false "Student ID"
// @Param status query string false "Status" Enums(ACTIVE, DROPPED, COMPLETED)
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.APIResponse{data=ListEnrollmentsResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /api/enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var req ListEnrollmentsRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), usecases.ListEnrollmentsQuery{
		StudentID: req.StudentID,
		GroupID:   req.GroupID,
		Status:    req.Status,
		Page:      req.Page,
		PageSize:  req.Limit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ListEnrollmentsResponse{
		Items: result.Enrollments,
		Meta:  PageMeta{Page: result.Page, Limit: result.PageSize, Total: result.Total},
	})
}

// Get handles GET /api/enrollments/:id
// @Summary Get an enrollment
// @Tags Enrollments
// @Produce json
// @Security Bearer
// @Param id path string true "Enrollment ID"
// @Success 200 {object} utils.APIResponse{data=dto.EnrollmentDTO}
// @Failure 404 {object} utils.APIResponse
// @Router /api/enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	result, err := h.getUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateStatus handles PATCH /api/enrollments/:id/status
// @Summary Change enrollment status
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Enrollment ID"
// @Param request body UpdateEnrollmentStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse{data=dto.EnrollmentDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/enrollments/{id}/status [patch]
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	var req UpdateEnrollmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.updateStatusUseCase.Execute(c.Request.Context(), usecases.UpdateEnrollmentStatusCommand{
		ActorID:      currentUserID(c),
		EnrollmentID: c.Param("id"),
		Status:       enrollment.Status(req.Status),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Delete handles DELETE /api/enrollments/:id. The body with a reason is
// optional.
// @Summary Delete an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Enrollment ID"
// @Param request body DeleteEnrollmentRequest false "Reason"
// @Success 200 {object} utils.APIResponse{data=okResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /api/enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	var req DeleteEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !stderrors.Is(err, io.EOF) {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	err := h.deleteUseCase.Execute(c.Request.Context(), usecases.DeleteEnrollmentCommand{
		ActorID:      currentUserID(c),
		EnrollmentID: c.Param("id"),
		Reason:       req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "enrollment deleted", okResponse{OK: true})
}
