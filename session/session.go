// Package session 维护登录会话对应的应用上下文（当前用户、币种），并广播登录状态变化。
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Event 登录状态事件
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventInitialSession Event = "INITIAL_SESSION"
	EventSignedOut      Event = "SIGNED_OUT"
	EventUserUpdated    Event = "USER_UPDATED"
	EventSessionExpired Event = "SESSION_EXPIRED"
)

var (
	// ErrRevoked 令牌已退出登录
	ErrRevoked = errors.New("session has been signed out")
	// ErrExpired 会话已过期
	ErrExpired = errors.New("session expired")
)

// AppContext 请求处理所需的用户上下文
type AppContext struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
}

// Session 一个令牌对应一个会话
type Session struct {
	ID        string    `json:"-"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
	AppContext
}

// Notification 推送给订阅者的事件
type Notification struct {
	Event   Event
	Session Session
	At      time.Time
}

// Loader 会话开始时加载用户上下文
type Loader func(ctx context.Context, userID uint) (AppContext, error)

// Registry 会话表，并发安全
type Registry struct {
	mu          sync.Mutex
	load        Loader
	now         func() time.Time
	sessions    map[string]*Session
	revoked     map[string]time.Time // 令牌ID -> 令牌过期时间
	subscribers map[int]func(Notification)
	nextSub     int
}

// NewRegistry 创建会话表
func NewRegistry(load Loader) *Registry {
	return &Registry{
		load:        load,
		now:         time.Now,
		sessions:    make(map[string]*Session),
		revoked:     make(map[string]time.Time),
		subscribers: make(map[int]func(Notification)),
	}
}

// SetClock 替换时钟，仅测试使用
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Start 登录成功后建立会话
func (r *Registry) Start(ctx context.Context, id string, userID uint, expiresAt time.Time) (Session, error) {
	return r.open(ctx, id, userID, expiresAt, EventSignedIn)
}

// Resolve 取出令牌对应的会话；服务重启后令牌仍有效时重新加载上下文
func (r *Registry) Resolve(ctx context.Context, id string, userID uint, expiresAt time.Time) (Session, error) {
	r.mu.Lock()
	if _, ok := r.revoked[id]; ok {
		r.mu.Unlock()
		return Session{}, ErrRevoked
	}
	if s, ok := r.sessions[id]; ok {
		out := *s
		now := r.now()
		r.mu.Unlock()
		if !out.ExpiresAt.After(now) {
			return Session{}, ErrExpired
		}
		return out, nil
	}
	r.mu.Unlock()
	return r.open(ctx, id, userID, expiresAt, EventInitialSession)
}

func (r *Registry) open(ctx context.Context, id string, userID uint, expiresAt time.Time, event Event) (Session, error) {
	appCtx, err := r.load(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	appCtx.UserID = userID

	r.mu.Lock()
	if _, ok := r.revoked[id]; ok {
		r.mu.Unlock()
		return Session{}, ErrRevoked
	}
	s := &Session{ID: id, StartedAt: r.now(), ExpiresAt: expiresAt, AppContext: appCtx}
	r.sessions[id] = s
	out := *s
	subs := r.snapshotSubscribers()
	at := r.now()
	r.mu.Unlock()

	notify(subs, Notification{Event: event, Session: out, At: at})
	return out, nil
}

// Lookup 只读查询
func (r *Registry) Lookup(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// End 退出登录，令牌在过期前不可再用
func (r *Registry) End(id string, expiresAt time.Time) (Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.revoked[id] = expiresAt
	var out Session
	if ok {
		out = *s
	}
	subs := r.snapshotSubscribers()
	at := r.now()
	r.mu.Unlock()

	if ok {
		notify(subs, Notification{Event: EventSignedOut, Session: out, At: at})
	}
	return out, ok
}

// UpdateCurrency 设置变更后同步到该用户的所有会话
func (r *Registry) UpdateCurrency(userID uint, currency string) {
	r.update(userID, func(s *Session) { s.Currency = currency })
}

// UserUpdated 用户信息（如密码）变更
func (r *Registry) UserUpdated(userID uint) {
	r.update(userID, func(*Session) {})
}

func (r *Registry) update(userID uint, fn func(*Session)) {
	r.mu.Lock()
	var changed []Session
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		fn(s)
		changed = append(changed, *s)
	}
	subs := r.snapshotSubscribers()
	at := r.now()
	r.mu.Unlock()

	for _, s := range changed {
		notify(subs, Notification{Event: EventUserUpdated, Session: s, At: at})
	}
}

// Sweep 清理过期会话与过期的退出记录，返回清理的会话数
func (r *Registry) Sweep() int {
	r.mu.Lock()
	now := r.now()
	var expired []Session
	for id, s := range r.sessions {
		if !s.ExpiresAt.After(now) {
			expired = append(expired, *s)
			delete(r.sessions, id)
		}
	}
	for id, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, id)
		}
	}
	subs := r.snapshotSubscribers()
	r.mu.Unlock()

	for _, s := range expired {
		notify(subs, Notification{Event: EventSessionExpired, Session: s, At: now})
	}
	return len(expired)
}

// Active 当前会话数
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Subscribe 订阅登录状态变化，返回取消订阅函数
// 回调在触发事件的 goroutine 中同步执行，不持有锁
func (r *Registry) Subscribe(fn func(Notification)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subscribers[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subscribers, id)
	}
}

func (r *Registry) snapshotSubscribers() []func(Notification) {
	subs := make([]func(Notification), 0, len(r.subscribers))
	for _, fn := range r.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Notification), n Notification) {
	for _, fn := range subs {
		fn(n)
	}
}
