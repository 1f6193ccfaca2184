package service

import (
	"fintrack/config"
	"fintrack/observability"
	"fintrack/session"
	"fintrack/store"

	"go.uber.org/zap"
)

// Services 一个存储后端上的全部业务服务
type Services struct {
	Sessions     *session.Registry
	Auth         *AuthService
	Categories   *CategoryService
	Transactions *TransactionService
	Profiles     *ProfileService
	Dashboard    *DashboardService
	Reports      *ReportService
}

// NewServices 组装服务并订阅会话事件；metrics 可为空
func NewServices(st store.Store, cfg *config.Config, metrics *observability.Metrics, log *zap.Logger) *Services {
	currency := cfg.Profile.DefaultCurrency

	// 会话加载只读设置，不回写会话表
	reader := NewProfileService(st, nil, currency, log)
	reg := session.NewRegistry(SessionLoader(st, reader))
	reg.Subscribe(AuthEventRecorder(log, metrics))

	profiles := NewProfileService(st, reg, currency, log)
	return &Services{
		Sessions:     reg,
		Auth:         NewAuthService(st, reg, log),
		Categories:   NewCategoryService(st, log),
		Transactions: NewTransactionService(st, metrics, log),
		Profiles:     profiles,
		Dashboard:    NewDashboardService(st, profiles),
		Reports:      NewReportService(st, profiles, NewEmailService(&cfg.Email), log),
	}
}
