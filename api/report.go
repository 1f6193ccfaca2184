package api

import (
	"bytes"
	"fmt"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/report"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// build 解析区间参数并生成报表，出错时已写响应
func (h *ReportHandler) build(c *gin.Context) (report.Report, bool) {
	start, end, err := dateRange(c)
	if err != nil {
		respondError(c, err, "")
		return report.Report{}, false
	}
	r, err := h.reports.Build(c.Request.Context(), middleware.GetCurrentUserID(c), start, end)
	if err != nil {
		respondError(c, err, "failed to build report")
		return report.Report{}, false
	}
	return r, true
}

func reportFilename(r report.Report, ext string) string {
	return fmt.Sprintf("report_%s_%s.%s", r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout), ext)
}

// Get 区间报表
// @Summary 区间报表
// @Description 区间内的收入、支出、净额与明细，未指定区间时取当月
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param start query string false "开始日期 (2024-01-01)"
// @Param end query string false "结束日期 (2024-01-31)"
// @Success 200 {object} Response{data=report.Report} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/reports [get]
func (h *ReportHandler) Get(c *gin.Context) {
	r, ok := h.build(c)
	if !ok {
		return
	}
	Success(c, gin.H{
		"start":        r.Start.Format(models.DateLayout),
		"end":          r.End.Format(models.DateLayout),
		"currency":     r.Currency,
		"totals":       r.Totals,
		"transactions": r.Transactions,
	})
}

// Excel 下载 xlsx 报表
// @Summary 下载 xlsx 报表
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start query string false "开始日期 (2024-01-01)"
// @Param end query string false "结束日期 (2024-01-31)"
// @Success 200 {file} file "xlsx 文件"
// @Router /api/v1/reports/excel [get]
func (h *ReportHandler) Excel(c *gin.Context) {
	r, ok := h.build(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteExcel(&buf, report.SheetReport, r.Transactions); err != nil {
		respondError(c, err, "failed to generate excel report")
		return
	}
	Attachment(c, reportFilename(r, "xlsx"), xlsxContentType, buf.Bytes())
}

// CSV 下载 csv 报表
// @Summary 下载 csv 报表
// @Tags 报表
// @Produce text/csv
// @Security BearerAuth
// @Param start query string false "开始日期 (2024-01-01)"
// @Param end query string false "结束日期 (2024-01-31)"
// @Success 200 {file} file "csv 文件"
// @Router /api/v1/reports/csv [get]
func (h *ReportHandler) CSV(c *gin.Context) {
	r, ok := h.build(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, r.Transactions); err != nil {
		respondError(c, err, "failed to generate csv report")
		return
	}
	Attachment(c, reportFilename(r, "csv"), "text/csv; charset=utf-8", buf.Bytes())
}

// PDF 下载 pdf 报表
// @Summary 下载 pdf 报表
// @Tags 报表
// @Produce application/pdf
// @Security BearerAuth
// @Param start query string false "开始日期 (2024-01-01)"
// @Param end query string false "结束日期 (2024-01-31)"
// @Success 200 {file} file "pdf 文件"
// @Router /api/v1/reports/pdf [get]
func (h *ReportHandler) PDF(c *gin.Context) {
	r, ok := h.build(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, r); err != nil {
		respondError(c, err, "failed to generate pdf report")
		return
	}
	Attachment(c, reportFilename(r, "pdf"), "application/pdf", buf.Bytes())
}

// Email 发送 pdf 报表到邮箱
// @Summary 邮件发送报表
// @Description 生成 pdf 报表并发送到当前账号的邮箱
// @Tags 报表
// @Produce json
// @Security BearerAuth
// @Param start query string false "开始日期 (2024-01-01)"
// @Param end query string false "结束日期 (2024-01-31)"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "账号未设置邮箱"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /api/v1/reports/email [post]
func (h *ReportHandler) Email(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		respondError(c, err, "")
		return
	}
	to, err := h.reports.Email(c.Request.Context(), middleware.GetCurrentUserID(c), start, end)
	if err != nil {
		respondError(c, err, "failed to send report")
		return
	}
	SuccessWithMessage(c, "Report sent to "+to, gin.H{"to": to})
}
