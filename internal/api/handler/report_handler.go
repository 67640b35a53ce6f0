package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wastewise/wastewise/internal/api/metrics"
	"github.com/wastewise/wastewise/internal/core/domain"
	"github.com/wastewise/wastewise/internal/core/ports"
)

// ReportHandler handles HTTP requests for report operations.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create handles POST /reports/create.
//
// @Summary      Create a new waste report with image upload
// @Tags         Reports
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image        formData  file    true   "Photo of the waste issue"
// @Param        location     formData  string  true   "Location label"
// @Param        description  formData  string  true   "Description (10-1000 characters)"
// @Param        latitude     formData  number  false  "Latitude"
// @Param        longitude    formData  number  false  "Longitude"
// @Success      201          {object}  reportResponse
// @Failure      400          {object}  errorResponse
// @Failure      422          {object}  errorResponse
// @Router       /reports/create [post]
func (h *ReportHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var form createReportForm
	if err := c.Bind(&form); err != nil {
		return err
	}
	if form.Latitude, err = optionalFloat(c.FormValue("latitude")); err != nil {
		return &ValidationError{Messages: []string{"latitude must be a number"}}
	}
	if form.Longitude, err = optionalFloat(c.FormValue("longitude")); err != nil {
		return &ValidationError{Messages: []string{"longitude must be a number"}}
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return &ValidationError{Messages: []string{"image is required"}}
	}
	if ct := file.Header.Get(echo.HeaderContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		return domain.ErrInvalidImage
	}
	if file.Size > domain.MaxImageBytes {
		return domain.ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, domain.MaxImageBytes+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	report, err := h.service.Create(c.Request().Context(), user, ports.CreateReportInput{
		ImageName:   file.Filename,
		Image:       data,
		Location:    form.Location,
		Description: form.Description,
		Latitude:    form.Latitude,
		Longitude:   form.Longitude,
	})
	if err != nil {
		return err
	}

	metrics.ReportsCreatedTotal.WithLabelValues(strconv.FormatBool(report.HasCoordinates())).Inc()
	return c.JSON(http.StatusCreated, toReportResponse(report))
}

// ListByUser handles GET /reports/user/:user_id.
//
// @Summary      Get all reports for a specific user
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {array}   reportResponse
// @Failure      403      {object}  errorResponse
// @Router       /reports/user/{user_id} [get]
func (h *ReportHandler) ListByUser(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	reports, err := h.service.ListForUser(c.Request().Context(), user, c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponses(reports))
}

// ListAll handles GET /reports/all.
//
// @Summary      Get all reports (admin only)
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   reportResponse
// @Failure      403  {object}  errorResponse
// @Router       /reports/all [get]
func (h *ReportHandler) ListAll(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	reports, err := h.service.ListAll(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReportResponses(reports))
}

// Update handles PUT /reports/update/:report_id.
//
// @Summary      Update report status or admin comment (admin only)
// @Tags         Reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        report_id  path      string               true  "Report ID"
// @Param        body       body      updateReportRequest  true  "Fields to change"
// @Success      200        {object}  reportResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /reports/update/{report_id} [put]
func (h *ReportHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req updateReportRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	report, err := h.service.Update(c.Request().Context(), user, c.Param("report_id"), toReportFields(req))
	if err != nil {
		return err
	}

	metrics.ReportStatusUpdatesTotal.WithLabelValues(string(report.Status)).Inc()
	return c.JSON(http.StatusOK, toReportResponse(report))
}

// Stats handles GET /reports/stats.
//
// @Summary      Get report statistics
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Router       /reports/stats [get]
func (h *ReportHandler) Stats(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsResponse(stats))
}

func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
