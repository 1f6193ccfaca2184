package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"fintrack/importer"
	"fintrack/models"
	"fintrack/observability"
	"fintrack/report"
	"fintrack/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxNoteLength   = 255
	defaultPageSize = 10
	maxPageSize     = 100
)

// CreateTransactionInput 表单录入
type CreateTransactionInput struct {
	Date       string          `json:"date" example:"2024-03-01"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string" example:"12.50"`
	TypeID     uint            `json:"type_id" example:"2"`
	CategoryID uint            `json:"category_id" example:"5"`
	Note       string          `json:"note" example:"lunch"`
}

// ListTransactionsInput 列表查询
type ListTransactionsInput struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// Normalize 分页参数默认值
func (in *ListTransactionsInput) Normalize() {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PageSize <= 0 {
		in.PageSize = defaultPageSize
	}
	if in.PageSize > maxPageSize {
		in.PageSize = maxPageSize
	}
}

// ImportSummary 导入结果
type ImportSummary struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// TransactionService 交易
type TransactionService struct {
	store   store.Store
	metrics *observability.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewTransactionService 创建交易服务，metrics 可为空
func NewTransactionService(st store.Store, metrics *observability.Metrics, log *zap.Logger) *TransactionService {
	return &TransactionService{store: st, metrics: metrics, log: log, now: time.Now}
}

// SetClock 替换时钟，仅测试使用
func (s *TransactionService) SetClock(now func() time.Time) {
	s.now = now
}

// List 分页列表与总数
func (s *TransactionService) List(ctx context.Context, userID uint, in ListTransactionsInput) ([]models.Transaction, int64, error) {
	in.Normalize()
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return nil, 0, invalid("start", "start date must not be after end date")
	}
	f := store.TransactionFilter{
		UserID: userID,
		From:   in.From,
		To:     in.To,
		Offset: (in.Page - 1) * in.PageSize,
		Limit:  in.PageSize,
	}
	total, err := s.store.CountTransactions(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txs, total, nil
}

// Create 校验全部字段后写入
func (s *TransactionService) Create(ctx context.Context, userID uint, in CreateTransactionInput) (*models.Transaction, error) {
	if in.TypeID == 0 {
		return nil, invalid("type_id", "type is required")
	}
	if in.CategoryID == 0 {
		return nil, invalid("category_id", "category is required")
	}
	if !in.Amount.IsPositive() {
		return nil, invalid("amount", "amount must be greater than 0")
	}
	date, err := s.parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	note := strings.TrimSpace(in.Note)
	if utf8.RuneCountInString(note) > maxNoteLength {
		return nil, invalid("note", fmt.Sprintf("note must be at most %d characters", maxNoteLength))
	}

	typ, err := s.visibleCategory(ctx, userID, in.TypeID, models.TaxonomyType, "type_id")
	if err != nil {
		return nil, err
	}
	cat, err := s.visibleCategory(ctx, userID, in.CategoryID, models.TaxonomySource, "category_id")
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		UserID:     userID,
		Date:       date,
		Amount:     in.Amount.Round(2),
		Note:       note,
		TypeID:     typ.ID,
		CategoryID: cat.ID,
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	tx.Type = typ
	tx.Category = cat
	return tx, nil
}

func (s *TransactionService) parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		y, m, d := s.now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.ParseInLocation(models.DateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, invalid("date", "date must use the format YYYY-MM-DD")
	}
	return date, nil
}

func (s *TransactionService) visibleCategory(ctx context.Context, userID, id uint, taxonomy models.Taxonomy, field string) (*models.Category, error) {
	cat, err := s.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid(field, "unknown category")
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if !cat.VisibleTo(userID) {
		return nil, invalid(field, "unknown category")
	}
	if cat.Taxonomy != taxonomy {
		return nil, invalid(field, fmt.Sprintf("category %q is not a %s category", cat.Name, taxonomy))
	}
	return cat, nil
}

// Delete 只能删除自己的交易
func (s *TransactionService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// Export 全部交易写为 xlsx
func (s *TransactionService) Export(ctx context.Context, userID uint, w io.Writer) error {
	txs, err := s.store.ListTransactions(ctx, store.TransactionFilter{UserID: userID})
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	return report.WriteExcel(w, report.SheetTransactions, txs)
}

// ImportFile 读取上传的 xlsx 或 csv 后导入
func (s *TransactionService) ImportFile(ctx context.Context, userID uint, r io.Reader, filename string) (ImportSummary, error) {
	rows, err := importer.Read(r, filename)
	if err != nil {
		return ImportSummary{}, &ValidationError{Field: "file", Message: err.Error()}
	}
	return s.Import(ctx, userID, rows)
}

// Import 解析行并一次性写入全部可识别的行
func (s *TransactionService) Import(ctx context.Context, userID uint, rows []importer.Row) (ImportSummary, error) {
	cats, err := s.store.ListCategories(ctx, userID, "")
	if err != nil {
		return ImportSummary{}, fmt.Errorf("list categories: %w", err)
	}

	res := importer.Resolve(rows, importer.NewLookup(cats), userID)
	summary := ImportSummary{Inserted: len(res.Accepted), Skipped: res.Skipped}
	if len(res.Accepted) == 0 {
		s.record(0, res.Skipped)
		return ImportSummary{Skipped: res.Skipped}, ErrNoMatchingRows
	}

	if err := s.store.CreateTransactions(ctx, res.Accepted); err != nil {
		return ImportSummary{}, fmt.Errorf("import transactions: %w", err)
	}
	s.record(summary.Inserted, summary.Skipped)

	s.log.Info("transactions imported",
		zap.Uint("user_id", userID),
		zap.Int("inserted", summary.Inserted),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (s *TransactionService) record(inserted, skipped int) {
	if s.metrics != nil {
		s.metrics.AddImportRows(inserted, skipped)
	}
}
