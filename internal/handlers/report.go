// internal/handlers/report.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/jaddid/marketplace-backend/internal/i18n"
	"github.com/jaddid/marketplace-backend/internal/services"
	"github.com/jaddid/marketplace-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// POST /reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateReportRequest
	if !bindAndValidate(c, &req) {
		return
	}

	report, err := h.reportService.CreateReport(userID, &req)
	if err != nil {
		handleServiceError(c, err, "report")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportCreated),
		"report":  report,
	})
}

// GET /reports/mine
func (h *ReportHandler) GetMyReports(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	reports, total, err := h.reportService.MyReports(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(reports, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/reports
func (h *ReportHandler) GetReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	reports, total, err := h.reportService.ListReports(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(reports, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/reports/:id
func (h *ReportHandler) ResolveReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	reportID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ResolveReportRequest
	if !bindAndValidate(c, &req) {
		return
	}

	report, err := h.reportService.ResolveReport(reportID, adminID, &req)
	if err != nil {
		handleServiceError(c, err, "report")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportResolved),
		"report":  report,
	})
}
