package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
	"github.com/maliky/tuth-sub000/pkg/jwt"
	"github.com/maliky/tuth-sub000/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserDisabled       = errors.New("账号已停用")
	ErrRefreshInvalid     = errors.New("刷新令牌无效")
	ErrOldPasswordWrong   = errors.New("原密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, tokenString string) error
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	cache  *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		cache:  cache,
		logger: logger,
	}
}

// ────────────────────── 登录 / 刷新 / 登出 ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	role, collegeID, err := s.primaryRole(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, role, collegeID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, role, collegeID)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	groups, err := s.repo.User.GroupNames(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user, groups),
	}, nil
}

// Refresh 用刷新令牌换新 Token 对；旧刷新令牌进黑名单
func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrRefreshInvalid
	}

	blacklisted, err := s.cache.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("查询黑名单失败", zap.Error(err))
		return nil, err
	}
	if blacklisted {
		return nil, ErrRefreshInvalid
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	if err := s.cache.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("刷新令牌拉黑失败", zap.Error(err))
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, claims.Role, claims.CollegeID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, claims.Role, claims.CollegeID)
	if err != nil {
		return nil, err
	}

	groups, err := s.repo.User.GroupNames(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user, groups),
	}, nil
}

// Logout 当前令牌按剩余有效期加入黑名单
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtMgr.ParseToken(tokenString)
	if err != nil {
		return nil // 已失效的令牌无需处理
	}
	return s.cache.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// ────────────────────── 用户信息 ──────────────────────

func (s *authService) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	groups, err := s.repo.User.GroupNames(ctx, userID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.Permission.ActiveRoleAssignments(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	resp := &dto.MeResponse{
		UserResponse: toUserResponse(user, groups),
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
	for i := range assignments {
		resp.Roles = append(resp.Roles, *toRoleAssignmentResponse(&assignments[i]))
	}
	return resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.repo.User.Update(ctx, user)
}

// ── 内部辅助方法 ──

// primaryRole 取当前生效的首个角色指派作为令牌主角色
func (s *authService) primaryRole(ctx context.Context, userID string) (role, collegeID string, err error) {
	assignments, err := s.repo.Permission.ActiveRoleAssignments(ctx, userID, time.Now())
	if err != nil {
		return "", "", err
	}
	if len(assignments) == 0 {
		return "", "", nil
	}
	first := assignments[0]
	if first.CollegeID != nil {
		collegeID = *first.CollegeID
	}
	return first.Role, collegeID, nil
}

func toUserResponse(user *model.User, groups []string) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.UserID,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		IsStaff:     user.IsStaff,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
		Groups:      groups,
	}
}
