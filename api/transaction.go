package api

import (
	"bytes"
	"errors"
	"strconv"

	"fintrack/importer"
	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ExportFilename 全量导出文件名
const ExportFilename = "finance_data.xlsx"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportSize 上传文件大小上限
const maxImportSize = 10 << 20

// TransactionHandler 交易处理器
type TransactionHandler struct {
	transactions *service.TransactionService
}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// ListTransactionsRequest 列表请求
type ListTransactionsRequest struct {
	Page     int `form:"page" example:"1"`
	PageSize int `form:"page_size" example:"10"`
}

// ImportRequest JSON 行导入
type ImportRequest struct {
	Rows []importer.Row `json:"rows"`
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 按日期倒序分页返回，可按日期区间过滤
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param start query string false "开始日期 (2024-01-01)"
// @Param end query string false "结束日期 (2024-12-31)"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	start, end, err := dateRange(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	in := service.ListTransactionsInput{From: start, To: end, Page: req.Page, PageSize: req.PageSize}
	in.Normalize()
	txs, total, err := h.transactions.List(c.Request.Context(), middleware.GetCurrentUserID(c), in)
	if err != nil {
		respondError(c, err, "failed to list transactions")
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     in.Page,
		PageSize: in.PageSize,
		List:     txs,
	})
}

// Create 新增交易
// @Summary 新增交易
// @Description 日期默认今天，金额须大于 0，类型与类别必填
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateTransactionInput true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req service.CreateTransactionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	tx, err := h.transactions.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req)
	if err != nil {
		respondError(c, err, "failed to save transaction")
		return
	}
	SuccessWithMessage(c, "Transaction saved", tx)
}

// Delete 删除交易
// @Summary 删除交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	if err := h.transactions.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), uint(id)); err != nil {
		respondError(c, err, "failed to delete transaction")
		return
	}
	SuccessWithMessage(c, "Transaction deleted", nil)
}

// Export 导出全部交易
// @Summary 导出全部交易
// @Description 导出为 xlsx，列为 Date, Type, Category, Amount, Note
// @Tags 交易
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "xlsx 文件"
// @Router /api/v1/transactions/export [get]
func (h *TransactionHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.transactions.Export(c.Request.Context(), middleware.GetCurrentUserID(c), &buf); err != nil {
		respondError(c, err, "failed to export transactions")
		return
	}
	Attachment(c, ExportFilename, xlsxContentType, buf.Bytes())
}

// Import 批量导入
// @Summary 批量导入交易
// @Description 上传 xlsx/csv 文件（字段名 file），或提交 JSON {"rows": [...]}；无法识别的行跳过
// @Tags 交易
// @Accept multipart/form-data
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param file formData file false "xlsx 或 csv 文件"
// @Success 200 {object} Response{data=service.ImportSummary} "导入成功"
// @Failure 400 {object} Response "文件无效或没有可识别的行"
// @Router /api/v1/transactions/import [post]
func (h *TransactionHandler) Import(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	var (
		summary service.ImportSummary
		err     error
	)

	if c.ContentType() == "application/json" {
		var req ImportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "invalid request: "+err.Error())
			return
		}
		summary, err = h.transactions.Import(c.Request.Context(), userID, req.Rows)
	} else {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			BadRequest(c, "please upload a file")
			return
		}
		if fh.Size > maxImportSize {
			BadRequest(c, "file is too large")
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			BadRequest(c, "failed to read uploaded file")
			return
		}
		defer f.Close()
		summary, err = h.transactions.ImportFile(c.Request.Context(), userID, f, fh.Filename)
	}

	if errors.Is(err, service.ErrNoMatchingRows) {
		// 返回跳过的行数，方便用户核对表格
		BadRequestWithData(c, err.Error(), summary)
		return
	}
	if err != nil {
		respondError(c, err, "failed to import transactions")
		return
	}
	SuccessWithMessage(c, "Imported "+strconv.Itoa(summary.Inserted)+" transactions", summary)
}
