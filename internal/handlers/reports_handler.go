package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fieldops/internal/export"
	"fieldops/internal/pdf"
	"fieldops/internal/services"
)

// ReportsHandler отдаёт выгрузки для руководства: CSV по срезам данных
// и PDF-сводку план/факт.
type ReportsHandler struct {
	sales      *services.SalesService
	attendance *services.AttendanceService
	leaves     *services.LeaveService
	generator  pdf.Generator
}

func NewReportsHandler(sales *services.SalesService, attendance *services.AttendanceService, leaves *services.LeaveService, generator pdf.Generator) *ReportsHandler {
	return &ReportsHandler{sales: sales, attendance: attendance, leaves: leaves, generator: generator}
}

func (h *ReportsHandler) SalesCSV(c *gin.Context) {
	f := salesFilterFromQuery(c)
	f.Limit = 10000
	f.Offset = 0
	sales, err := h.sales.FilterSales(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	header, rows := export.SalesRows(sales)
	writeCSVAttachment(c, "sales", header, rows)
}

func (h *ReportsHandler) AttendanceCSV(c *gin.Context) {
	f := attendanceFilterFromQuery(c)
	f.Limit = 10000
	f.Offset = 0
	logins, err := h.attendance.ListLogins(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	header, rows := export.AttendanceRows(logins)
	writeCSVAttachment(c, "attendance", header, rows)
}

func (h *ReportsHandler) LeaveCSV(c *gin.Context) {
	requests, err := h.leaves.List(0, c.Query("status"), 10000, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	header, rows := export.LeaveRows(requests)
	writeCSVAttachment(c, "leave_requests", header, rows)
}

func (h *ReportsHandler) PerformanceCSV(c *gin.Context) {
	perf, err := h.sales.Performance(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	header, rows := export.PerformanceRows(perf)
	writeCSVAttachment(c, "performance", header, rows)
}

// PerformancePDF собирает PDF-сводку и отдаёт файл на скачивание.
func (h *ReportsHandler) PerformancePDF(c *gin.Context) {
	period := c.Query("period")
	if period == "" {
		period = time.Now().Format("2006-01")
	}
	perf, err := h.sales.Performance(period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	path, err := h.generator.GeneratePerformanceReport(period, perf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.FileAttachment(path, fmt.Sprintf("performance_%s.pdf", period))
}

func writeCSVAttachment(c *gin.Context, name string, header []string, rows [][]string) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCSV(c.Writer, header, rows); err != nil {
		// заголовки уже ушли, остаётся только оборвать ответ
		c.Abort()
	}
}
