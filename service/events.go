package service

import (
	"fintrack/observability"
	"fintrack/session"

	"go.uber.org/zap"
)

// AuthEventRecorder 订阅会话事件：写日志并计数
func AuthEventRecorder(log *zap.Logger, metrics *observability.Metrics) func(session.Notification) {
	return func(n session.Notification) {
		log.Info("auth state changed",
			zap.String("event", string(n.Event)),
			zap.Uint("user_id", n.Session.UserID),
			zap.Time("at", n.At),
		)
		if metrics != nil {
			metrics.IncrAuthEvent(string(n.Event))
		}
	}
}
