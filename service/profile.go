package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"fintrack/models"
	"fintrack/session"
	"fintrack/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxCurrencyLength = 5

// SaveProfileInput 保存设置
type SaveProfileInput struct {
	Currency       string          `json:"currency" example:"£"`
	InitialBalance decimal.Decimal `json:"initial_balance" swaggertype:"string" example:"1500.00"`
}

// ProfileService 用户设置
type ProfileService struct {
	store           store.ProfileStore
	sessions        *session.Registry
	defaultCurrency string
	log             *zap.Logger
	now             func() time.Time
}

// NewProfileService 创建设置服务，sessions 可为空
func NewProfileService(st store.ProfileStore, sessions *session.Registry, defaultCurrency string, log *zap.Logger) *ProfileService {
	return &ProfileService{
		store:           st,
		sessions:        sessions,
		defaultCurrency: defaultCurrency,
		log:             log,
		now:             time.Now,
	}
}

// SetClock 替换时钟，仅测试使用
func (s *ProfileService) SetClock(now func() time.Time) {
	s.now = now
}

// Get 没有记录时返回默认设置
func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &models.Profile{UserID: userID, Currency: s.defaultCurrency, InitialBalance: decimal.Zero}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Save 保存币种与余额快照，快照时间为当前时间
func (s *ProfileService) Save(ctx context.Context, userID uint, in SaveProfileInput) (*models.Profile, error) {
	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		return nil, invalid("currency", "currency is required")
	}
	if utf8.RuneCountInString(currency) > maxCurrencyLength {
		return nil, invalid("currency", fmt.Sprintf("currency must be at most %d characters", maxCurrencyLength))
	}

	now := s.now()
	p := &models.Profile{
		UserID:           userID,
		Currency:         currency,
		InitialBalance:   in.InitialBalance.Round(2),
		BalanceUpdatedAt: &now,
		UpdatedAt:        now,
	}
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if s.sessions != nil {
		s.sessions.UpdateCurrency(userID, currency)
	}
	s.log.Info("profile saved", zap.Uint("user_id", userID), zap.String("currency", currency))
	return p, nil
}
