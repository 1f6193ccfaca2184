package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/models"
	"fintrack/session"
	"fintrack/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// RegisterInput 注册
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// ChangePasswordInput 修改密码
type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// AuthService 注册、登录与密码
type AuthService struct {
	store    store.UserStore
	sessions *session.Registry
	log      *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(st store.UserStore, sessions *session.Registry, log *zap.Logger) *AuthService {
	return &AuthService{store: st, sessions: sessions, log: log}
}

// Register 创建账号，用户名重复时返回冲突
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, invalid("username", "username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username: username,
		Password: string(hashed),
		Email:    strings.TrimSpace(in.Email),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &ConflictError{Message: "username already exists"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate 按用户名或邮箱校验密码
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.store.FindUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword 校验原密码后更新
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	if len(in.NewPassword) < minPasswordLength {
		return invalid("new_password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if in.NewPassword != in.ConfirmPassword {
		return invalid("confirm_password", "passwords do not match")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)); err != nil {
		return invalid("old_password", "current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if s.sessions != nil {
		s.sessions.UserUpdated(userID)
	}
	s.log.Info("password changed", zap.Uint("user_id", userID))
	return nil
}

// SessionLoader 会话开始时读取用户名、邮箱与币种
func SessionLoader(users store.UserStore, profiles *ProfileService) session.Loader {
	return func(ctx context.Context, userID uint) (session.AppContext, error) {
		user, err := users.GetUser(ctx, userID)
		if err != nil {
			return session.AppContext{}, fmt.Errorf("load session user: %w", err)
		}
		p, err := profiles.Get(ctx, userID)
		if err != nil {
			return session.AppContext{}, fmt.Errorf("load session profile: %w", err)
		}
		return session.AppContext{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			Currency: p.Currency,
		}, nil
	}
}
