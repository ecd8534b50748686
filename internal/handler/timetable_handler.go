package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/response"
)

const (
	maxTimeSlots  = 512
	maxClassrooms = 256
)

type timetablePreviewResponse struct {
	Mode     string                         `json:"mode"`
	Proposal *dto.GenerateTimetableResponse `json:"proposal"`
}

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Proposal(ctx context.Context, proposalID string) (*dto.GenerateTimetableResponse, error)
	Enqueue(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerationJobResponse, error)
	Job(ctx context.Context, jobID string) (*dto.GenerationJobResponse, error)
	Save(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error)
	List(ctx context.Context, query dto.TimetableQuery) ([]models.StoredTimetable, *models.Pagination, error)
	Get(ctx context.Context, id string) (*dto.TimetableDetail, error)
	Entries(ctx context.Context, id string) ([]models.StoredTimetableEntry, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateTimetableStatusRequest) (*models.StoredTimetable, error)
	Delete(ctx context.Context, id string) error
	ExportCSV(ctx context.Context, id string) ([]byte, string, error)
}

// TimetableHandler exposes timetable generation and review endpoints.
type TimetableHandler struct {
	service timetableGenerator
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableGenerator) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Register mounts the timetable routes on the group.
func (h *TimetableHandler) Register(group *gin.RouterGroup) {
	timetables := group.Group("/timetables")
	timetables.POST("/generate", h.Generate)
	timetables.GET("/proposals/:id", h.Proposal)
	timetables.POST("/jobs", h.Enqueue)
	timetables.GET("/jobs/:id", h.Job)
	timetables.POST("", h.Save)
	timetables.GET("", h.List)
	timetables.GET("/:id", h.Get)
	timetables.GET("/:id/entries", h.Entries)
	timetables.GET("/:id/export", h.Export)
	timetables.PATCH("/:id/status", h.UpdateStatus)
	timetables.DELETE("/:id", h.Delete)
}

// Generate godoc
// @Summary Generate ranked timetable candidates
// @Description Runs the optimizer synchronously. Candidates stay available under the returned proposal id until it expires.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Scheduling universe"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetablePreviewResponse{Mode: "preview", Proposal: result}, nil)
}

// Proposal godoc
// @Summary Get a generated proposal
// @Tags Timetables
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/proposals/{id} [get]
func (h *TimetableHandler) Proposal(c *gin.Context) {
	result, err := h.service.Proposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, timetablePreviewResponse{Mode: "preview", Proposal: result}, nil)
}

// Enqueue godoc
// @Summary Queue an asynchronous timetable generation
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Scheduling universe"
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /timetables/jobs [post]
func (h *TimetableHandler) Enqueue(c *gin.Context) {
	req, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	job, err := h.service.Enqueue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Job godoc
// @Summary Get asynchronous generation status
// @Tags Timetables
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/jobs/{id} [get]
func (h *TimetableHandler) Job(c *gin.Context) {
	job, err := h.service.Job(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Save godoc
// @Summary Save a proposal candidate as a draft timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.SaveTimetableRequest true "Save timetable payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	result, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List stored timetables
// @Tags Timetables
// @Produce json
// @Param status query string false "Status filter"
// @Param name query string false "Name filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a stored timetable with its entries
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Entries godoc
// @Summary List entries of a stored timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Router /timetables/{id}/entries [get]
func (h *TimetableHandler) Entries(c *gin.Context) {
	entries, err := h.service.Entries(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Export godoc
// @Summary Download a stored timetable as CSV
// @Tags Timetables
// @Produce text/csv
// @Param id path string true "Timetable ID"
// @Success 200 {file} file
// @Router /timetables/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	body, filename, err := h.service.ExportCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "text/csv", body)
}

// UpdateStatus godoc
// @Summary Move a stored timetable through review
// @Tags Timetables
// @Accept json
// @Produce json
// @Param id path string true "Timetable ID"
// @Param payload body dto.UpdateTimetableStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/{id}/status [patch]
func (h *TimetableHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateTimetableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete godoc
// @Summary Delete a draft timetable
// @Tags Timetables
// @Param id path string true "Timetable ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func bindGenerateRequest(c *gin.Context) (dto.GenerateTimetableRequest, bool) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return req, false
	}
	if len(req.TimeSlots) > maxTimeSlots {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "timeSlots exceeds supported limit"))
		return req, false
	}
	if len(req.Classrooms) > maxClassrooms {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classrooms exceeds supported limit"))
		return req, false
	}
	return req, true
}
