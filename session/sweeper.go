package session

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSpec 每分钟清理一次
const DefaultSweepSpec = "@every 1m"

// StartSweeper 启动定时清理，调用方负责 Stop
func StartSweeper(r *Registry, spec string, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := r.Sweep(); n > 0 {
			log.Info("清理过期会话", zap.Int("count", n), zap.Int("active", r.Active()))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
