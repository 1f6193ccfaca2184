package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/report"
	"fintrack/store"

	"go.uber.org/zap"
)

// ReportMailer 发送报表邮件
type ReportMailer interface {
	SendReport(to, username string, r report.Report, pdf []byte) error
}

// ReportService 区间报表
type ReportService struct {
	store    store.Store
	profiles *ProfileService
	mailer   ReportMailer
	log      *zap.Logger
	now      func() time.Time
}

// NewReportService 创建报表服务
func NewReportService(st store.Store, profiles *ProfileService, mailer ReportMailer, log *zap.Logger) *ReportService {
	return &ReportService{store: st, profiles: profiles, mailer: mailer, log: log, now: time.Now}
}

// SetClock 替换时钟，仅测试使用
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// Build 未指定起止日期时取当月
func (s *ReportService) Build(ctx context.Context, userID uint, start, end *time.Time) (report.Report, error) {
	monthStart, monthEnd := report.MonthRange(s.now())
	from, to := monthStart, monthEnd
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	if from.After(to) {
		return report.Report{}, invalid("start", "start date must not be after end date")
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return report.Report{}, err
	}
	txs, err := s.store.ListTransactions(ctx, store.TransactionFilter{UserID: userID, From: &from, To: &to})
	if err != nil {
		return report.Report{}, fmt.Errorf("list report transactions: %w", err)
	}
	return report.New(from, to, p.Currency, txs), nil
}

// Email 生成 PDF 并发送到用户邮箱
func (s *ReportService) Email(ctx context.Context, userID uint, start, end *time.Time) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	to := strings.TrimSpace(user.Email)
	if to == "" {
		return "", invalid("email", "no email address on this account")
	}

	r, err := s.Build(ctx, userID, start, end)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := report.WritePDF(&buf, r); err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}
	if err := s.mailer.SendReport(to, user.Username, r, buf.Bytes()); err != nil {
		return "", err
	}

	s.log.Info("report emailed", zap.Uint("user_id", userID), zap.String("period", r.Period()))
	return to, nil
}
