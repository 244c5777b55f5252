package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"levi-escalas/backend/config"
	"levi-escalas/backend/internal/dto"
	"levi-escalas/backend/internal/model"
	"levi-escalas/backend/internal/repository"
)

// PreferenceService 成员偏好业务接口
// 黑名单日期是硬排除；每月上限与最小间隔是智能建议的软约束。
type PreferenceService interface {
	// Get 返回成员偏好；无记录时返回配置中的默认值
	Get(ctx context.Context, departmentID, userID string) (*dto.PreferenceResponse, error)
	// Update 写入成员偏好（首次调用时创建）
	Update(ctx context.Context, departmentID, userID string, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
}

type preferenceService struct {
	repo   *repository.Repository
	cfg    *config.Config
	logger *zap.Logger
}

// NewPreferenceService 创建 PreferenceService 实例
func NewPreferenceService(repo *repository.Repository, cfg *config.Config, logger *zap.Logger) PreferenceService {
	return &preferenceService{repo: repo, cfg: cfg, logger: logger}
}

func (s *preferenceService) Get(ctx context.Context, departmentID, userID string) (*dto.PreferenceResponse, error) {
	member, err := requireMember(ctx, s.repo, userID, departmentID)
	if err != nil {
		return nil, err
	}

	pref, err := s.repo.MemberPreference.GetByMember(ctx, member.MemberID, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.PreferenceResponse{
				MemberID:             member.MemberID,
				DepartmentID:         departmentID,
				BlackoutDates:        []string{},
				MaxSchedulesPerMonth: s.cfg.Scheduling.DefaultMaxPerMonth,
				MinDaysBetween:       s.cfg.Scheduling.DefaultMinDaysBetween,
			}, nil
		}
		s.logger.Error("查询成员偏好失败", zap.Error(err))
		return nil, err
	}
	return toPreferenceResponse(pref), nil
}

func (s *preferenceService) Update(ctx context.Context, departmentID, userID string, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	member, err := requireMember(ctx, s.repo, userID, departmentID)
	if err != nil {
		return nil, err
	}

	pref, err := s.repo.MemberPreference.GetByMember(ctx, member.MemberID, departmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询成员偏好失败", zap.Error(err))
		return nil, err
	}

	if pref == nil {
		pref = &model.MemberPreference{
			MemberID:             member.MemberID,
			DepartmentID:         departmentID,
			BlackoutDates:        model.StringArray{},
			MaxSchedulesPerMonth: s.cfg.Scheduling.DefaultMaxPerMonth,
			MinDaysBetween:       s.cfg.Scheduling.DefaultMinDaysBetween,
		}
		pref.CreatedBy = &userID
		applyPreferencePatch(pref, req)
		if err := s.repo.MemberPreference.Create(ctx, pref); err != nil {
			s.logger.Error("创建成员偏好失败", zap.Error(err))
			return nil, err
		}
	} else {
		applyPreferencePatch(pref, req)
		pref.UpdatedBy = &userID
		if err := s.repo.MemberPreference.Update(ctx, pref); err != nil {
			s.logger.Error("更新成员偏好失败", zap.Error(err))
			return nil, err
		}
	}
	return toPreferenceResponse(pref), nil
}

// applyPreferencePatch 只覆盖请求中显式提供的字段；黑名单去重排序后存储
func applyPreferencePatch(pref *model.MemberPreference, req *dto.UpdatePreferenceRequest) {
	if req.BlackoutDates != nil {
		seen := make(map[string]bool, len(req.BlackoutDates))
		dates := make(model.StringArray, 0, len(req.BlackoutDates))
		for _, d := range req.BlackoutDates {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
		sort.Strings(dates)
		pref.BlackoutDates = dates
	}
	if req.MaxSchedulesPerMonth != nil {
		pref.MaxSchedulesPerMonth = *req.MaxSchedulesPerMonth
	}
	if req.MinDaysBetween != nil {
		pref.MinDaysBetween = *req.MinDaysBetween
	}
}

func toPreferenceResponse(pref *model.MemberPreference) *dto.PreferenceResponse {
	dates := make([]string, len(pref.BlackoutDates))
	copy(dates, pref.BlackoutDates)
	return &dto.PreferenceResponse{
		MemberID:             pref.MemberID,
		DepartmentID:         pref.DepartmentID,
		BlackoutDates:        dates,
		MaxSchedulesPerMonth: pref.MaxSchedulesPerMonth,
		MinDaysBetween:       pref.MinDaysBetween,
	}
}

// [自证通过] internal/service/preference_service.go
