package api

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"MarketBrief/internal/domain/models"
	domrepo "MarketBrief/internal/domain/repository"
	xhttp "MarketBrief/pkg/http"
	xlogger "MarketBrief/pkg/logger"
)

const ReportCreatedMessage = "Reporte diario generado y publicado."

// ReportGenerator runs one report generation.
type ReportGenerator interface {
	Generate(ctx context.Context, date string) (*models.GenerateResult, error)
}

// ReportEchoHandler exposes the daily report trigger.
type ReportEchoHandler struct {
	logger *xlogger.Logger
	gen    ReportGenerator
}

func NewReportEchoHandler(logger *xlogger.Logger, gen ReportGenerator) *ReportEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ReportEchoHandler{logger: logger, gen: gen}
}

func (h *ReportEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/functions/v1/generate-daily-report", h.Generate)
	e.POST("/api/reports/daily", h.Generate)
}

// Generate handles POST with an optional {"report_date": "YYYY-MM-DD"} body.
// Bodies not declared as JSON are ignored and today's report is generated.
func (h *ReportEchoHandler) Generate(c echo.Context) error {
	req := &models.GenerateRequest{}
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
			return xhttp.BadRequestResponse(c, verr)
		}
	}

	res, err := h.gen.Generate(c.Request().Context(), req.ReportDate)
	if err != nil {
		var perr *domrepo.PersistenceError
		if errors.As(err, &perr) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(perr.Message).WithError(err))
		}
		h.logger.Error("generate report failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	return xhttp.SuccessResponse(c, xhttp.ReportResponse{
		Success:  true,
		ReportID: res.ReportID,
		Message:  ReportCreatedMessage,
	})
}
