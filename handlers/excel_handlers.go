package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/payrecon-backend/services"
)

// ExcelHandler handles report export HTTP requests
type ExcelHandler struct {
	excel *services.ExcelService
}

// NewExcelHandler creates a new Excel handler
func NewExcelHandler(excel *services.ExcelService) *ExcelHandler {
	return &ExcelHandler{excel: excel}
}

// ExportReconciliationReport handles GET /reports/reconciliation/export
func (h *ExcelHandler) ExportReconciliationReport(c *gin.Context) {
	excelFile, filename, err := h.excel.ExportReconciliationReport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export report: " + err.Error()})
		return
	}

	// Set headers for file download
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	// Write Excel file to response
	if err := excelFile.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file: " + err.Error()})
		return
	}
}
