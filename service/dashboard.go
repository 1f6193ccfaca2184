package service

import (
	"context"
	"fmt"
	"time"

	"fintrack/ledger"
	"fintrack/models"
	"fintrack/store"

	"golang.org/x/sync/errgroup"
)

// DashboardService 仪表盘
type DashboardService struct {
	store    store.Store
	profiles *ProfileService
	now      func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(st store.Store, profiles *ProfileService) *DashboardService {
	return &DashboardService{store: st, profiles: profiles, now: time.Now}
}

// SetClock 替换时钟，仅测试使用
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}

// Get 并发读取设置、来源类别、近 12 个月交易和快照之后录入的交易，再统一汇总
func (s *DashboardService) Get(ctx context.Context, userID uint) (ledger.Dashboard, error) {
	now := s.now()
	in := ledger.DashboardInput{Now: now}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.profiles.Get(gctx, userID)
		if err != nil {
			return err
		}
		in.Profile = *p
		if p.BalanceUpdatedAt == nil {
			return nil
		}
		txs, err := s.store.ListTransactions(gctx, store.TransactionFilter{
			UserID:       userID,
			CreatedAfter: p.BalanceUpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("list transactions since snapshot: %w", err)
		}
		in.SinceSnapshot = txs
		return nil
	})

	g.Go(func() error {
		cats, err := s.store.ListCategories(gctx, userID, models.TaxonomySource)
		if err != nil {
			return fmt.Errorf("list source categories: %w", err)
		}
		in.Sources = cats
		return nil
	})

	g.Go(func() error {
		from := ledger.WindowStart(now)
		txs, err := s.store.ListTransactions(gctx, store.TransactionFilter{UserID: userID, From: &from})
		if err != nil {
			return fmt.Errorf("list window transactions: %w", err)
		}
		in.Window = txs
		return nil
	})

	if err := g.Wait(); err != nil {
		return ledger.Dashboard{}, err
	}
	return ledger.BuildDashboard(in), nil
}
