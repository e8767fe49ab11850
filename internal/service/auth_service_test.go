package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
	"github.com/maliky/tuth-sub000/pkg/jwt"
)

func setupTestAuthService() (AuthService, *repository.Repository) {
	repo := newMockRepository()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:              "test-secret",
			AccessTokenTTL:         15 * time.Minute,
			RefreshTokenTTLDefault: 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, repo
}

// seedAuthUser 预置带 bcrypt 口令的用户
func seedAuthUser(t *testing.T, repo *repository.Repository, username, password string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成口令散列失败: %v", err)
	}
	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     active,
	}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo := setupTestAuthService()
	seedAuthUser(t, repo, "jdoe", "secret123", true)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "jdoe", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("应返回 Token 对")
	}
	if result.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望有效期 900 秒，实际=%d", result.ExpiresIn)
	}
	if result.User.Username != "jdoe" {
		t.Errorf("期望用户 jdoe，实际=%s", result.User.Username)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo := setupTestAuthService()
	seedAuthUser(t, repo, "jdoe", "secret123", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "jdoe", Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _ := setupTestAuthService()

	// 用户不存在与密码错误同响应，不泄露账号存在性
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "ghost", Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_Disabled(t *testing.T) {
	svc, repo := setupTestAuthService()
	seedAuthUser(t, repo, "jdoe", "secret123", false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "jdoe", Password: "secret123",
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, repo := setupTestAuthService()
	user := seedAuthUser(t, repo, "jdoe", "secret123", true)

	cfg := &config.AuthConfig{
		JWTSecret:              "test-secret",
		AccessTokenTTL:         15 * time.Minute,
		RefreshTokenTTLDefault: 24 * time.Hour,
	}
	access, err := jwt.NewManager(cfg).GenerateAccessToken(user.UserID, "", "")
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: access})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("access 令牌不能用于刷新，实际: %v", err)
	}
}

func TestAuthService_Refresh_Garbage(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "not-a-token"})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, repo := setupTestAuthService()
	user := seedAuthUser(t, repo, "jdoe", "secret123", true)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newsecret",
	}); !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newsecret",
	}); err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新口令可登录，旧口令失效
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "newsecret"}); err != nil {
		t.Errorf("新口令应可登录: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧口令应失效，实际: %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, repo := setupTestAuthService()
	user := seedAuthUser(t, repo, "jdoe", "secret123", true)

	me, err := svc.Me(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("Me 应成功: %v", err)
	}
	if me.Username != "jdoe" {
		t.Errorf("期望 jdoe，实际=%s", me.Username)
	}

	if _, err := svc.Me(context.Background(), "usr-ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
