package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"levi-escalas/backend/config"
	"levi-escalas/backend/internal/dto"
	"levi-escalas/backend/internal/model"
	"levi-escalas/backend/internal/repository"
	pkgerrors "levi-escalas/backend/pkg/errors"
)

// ── 排班模块业务错误 ──

var (
	ErrScheduleEntryNotFound = errors.New("排班条目不存在")
	ErrMemberNotInDepartment = errors.New("成员不属于该部门")
	ErrSectorNotInDepartment = errors.New("分区不属于该部门")
	ErrMemberNotEligible     = errors.New("所选成员在该时段不可排班")
)

// ScheduleService 排班业务接口
type ScheduleService interface {
	// BulkCreate 为每个选中成员生成一条排班条目，单事务写入。
	// 服务端重新校验资格，黑名单或跨部门冲突的成员直接拒绝。
	BulkCreate(ctx context.Context, departmentID, callerID string, req *dto.BulkCreateScheduleRequest) (*dto.BulkCreateScheduleResponse, error)
	// List 查询部门排班；缺省范围为前一周到未来两个月
	List(ctx context.Context, departmentID string, req *dto.ScheduleListRequest) ([]dto.ScheduleEntryResponse, error)
	// ListMine 查询当前用户全部门的排班
	ListMine(ctx context.Context, userID string, req *dto.ScheduleListRequest) ([]dto.ScheduleEntryResponse, error)
	UpdateNotes(ctx context.Context, departmentID, entryID, callerID string, req *dto.UpdateScheduleNotesRequest) (*dto.ScheduleEntryResponse, error)
	Delete(ctx context.Context, departmentID, entryID, callerID string) error
	// Suggest 智能排班建议：在合格成员中按近期排班负载贪心挑选
	Suggest(ctx context.Context, departmentID, callerID string, req *dto.SuggestScheduleRequest) (*dto.SuggestScheduleResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	cfg    *config.Config
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, cfg *config.Config, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, cfg: cfg, logger: logger}
}

func (s *scheduleService) BulkCreate(ctx context.Context, departmentID, callerID string, req *dto.BulkCreateScheduleRequest) (*dto.BulkCreateScheduleResponse, error) {
	if _, err := requireLeader(ctx, s.repo, callerID, departmentID); err != nil {
		return nil, err
	}

	// 1. 时间窗校验（归一化后按字典序比较）
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start := normalizeTime(req.TimeStart)
	end := normalizeTime(req.TimeEnd)
	if end <= start {
		return nil, ErrInvalidTimeWindow
	}

	// 2. 校验所选成员属于本部门
	members, err := s.repo.Member.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询部门成员失败", zap.Error(err))
		return nil, err
	}
	memberByID := make(map[string]*model.Member, len(members))
	for i := range members {
		memberByID[members[i].MemberID] = &members[i]
	}
	for _, a := range req.Assignments {
		if _, ok := memberByID[a.MemberID]; !ok {
			return nil, ErrMemberNotInDepartment
		}
	}

	// 3. 校验分区归属
	sectorByID, err := s.validateSectors(ctx, departmentID, req.Assignments)
	if err != nil {
		return nil, err
	}

	// 4. 服务端资格复核：黑名单与跨部门冲突成员一律拒绝
	eligibility, err := computeEligibility(ctx, s.repo, departmentID, date, start, end)
	if err != nil {
		s.logger.Error("计算排班资格失败", zap.Error(err))
		return nil, err
	}
	statusByMember := make(map[string]dto.MemberEligibility, len(eligibility))
	for _, e := range eligibility {
		statusByMember[e.MemberID] = e
	}
	for _, a := range req.Assignments {
		e := statusByMember[a.MemberID]
		if e.Status != StatusAvailable {
			return nil, fmt.Errorf("%w: %s (%s)", ErrMemberNotEligible, e.Name, e.Status)
		}
	}

	// 5. 组装并批量写入（同一用户时段重叠由数据库排它约束拦截）
	entries := make([]model.ScheduleEntry, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		m := memberByID[a.MemberID]
		entry := model.ScheduleEntry{
			DepartmentID: departmentID,
			UserID:       m.UserID,
			Date:         dateOnly(date),
			TimeStart:    start,
			TimeEnd:      end,
			Notes:        req.Notes,
			SectorID:     a.SectorID,
			Role:         a.Role,
		}
		entry.CreatedBy = &callerID
		entries = append(entries, entry)
	}
	if err := s.repo.ScheduleEntry.BatchCreate(ctx, entries); err != nil {
		if errors.Is(err, pkgerrors.ErrScheduleConflict) {
			return nil, err
		}
		s.logger.Error("批量创建排班失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("批量创建排班",
		zap.String("department_id", departmentID),
		zap.String("date", req.Date),
		zap.Int("count", len(entries)))

	// 6. 尽力而为写入通知，失败不回滚排班
	s.notifyAssigned(ctx, departmentID, entries, memberByID)

	// 7. 构造响应
	slots, err := s.repo.FixedSlot.ListByDepartment(ctx, departmentID, true)
	if err != nil {
		slots = nil
	}
	resp := &dto.BulkCreateScheduleResponse{
		Entries: make([]dto.ScheduleEntryResponse, 0, len(entries)),
	}
	for i := range entries {
		// 入库时不携带关联，响应前回填分区对象
		if sid := entries[i].SectorID; sid != nil {
			entries[i].Sector = sectorByID[*sid]
		}
		r := s.toEntryResponse(&entries[i], slots)
		if m := memberByID[req.Assignments[i].MemberID]; m != nil && m.User != nil {
			r.UserName = m.User.Name
		}
		resp.Entries = append(resp.Entries, r)
	}
	return resp, nil
}

func (s *scheduleService) List(ctx context.Context, departmentID string, req *dto.ScheduleListRequest) ([]dto.ScheduleEntryResponse, error) {
	from, to, err := resolveRange(req)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ScheduleEntry.ListByDepartmentAndRange(ctx, departmentID, from, to)
	if err != nil {
		s.logger.Error("查询部门排班失败", zap.Error(err))
		return nil, err
	}
	slots, err := s.repo.FixedSlot.ListByDepartment(ctx, departmentID, true)
	if err != nil {
		slots = nil
	}
	result := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		r := s.toEntryResponse(&entries[i], slots)
		if entries[i].User != nil {
			r.UserName = entries[i].User.Name
		}
		result = append(result, r)
	}
	return result, nil
}

func (s *scheduleService) ListMine(ctx context.Context, userID string, req *dto.ScheduleListRequest) ([]dto.ScheduleEntryResponse, error) {
	from, to, err := resolveRange(req)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ScheduleEntry.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		s.logger.Error("查询我的排班失败", zap.Error(err))
		return nil, err
	}

	// 固定时段按部门懒加载，同部门多条目只查一次
	slotsByDept := make(map[string][]model.FixedSlot)
	result := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		deptID := entries[i].DepartmentID
		slots, ok := slotsByDept[deptID]
		if !ok {
			slots, _ = s.repo.FixedSlot.ListByDepartment(ctx, deptID, true)
			slotsByDept[deptID] = slots
		}
		result = append(result, s.toEntryResponse(&entries[i], slots))
	}
	return result, nil
}

func (s *scheduleService) UpdateNotes(ctx context.Context, departmentID, entryID, callerID string, req *dto.UpdateScheduleNotesRequest) (*dto.ScheduleEntryResponse, error) {
	if _, err := requireLeader(ctx, s.repo, callerID, departmentID); err != nil {
		return nil, err
	}
	entry, err := s.getScoped(ctx, entryID, departmentID)
	if err != nil {
		return nil, err
	}

	entry.Notes = req.Notes
	entry.UpdatedBy = &callerID
	if err := s.repo.ScheduleEntry.UpdateNotes(ctx, entry); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新排班备注失败", zap.Error(err))
		return nil, err
	}

	slots, _ := s.repo.FixedSlot.ListByDepartment(ctx, departmentID, true)
	r := s.toEntryResponse(entry, slots)
	if entry.User != nil {
		r.UserName = entry.User.Name
	}
	return &r, nil
}

func (s *scheduleService) Delete(ctx context.Context, departmentID, entryID, callerID string) error {
	if _, err := requireLeader(ctx, s.repo, callerID, departmentID); err != nil {
		return err
	}
	entry, err := s.getScoped(ctx, entryID, departmentID)
	if err != nil {
		return err
	}
	if err := s.repo.ScheduleEntry.Delete(ctx, entryID, callerID); err != nil {
		s.logger.Error("删除排班失败", zap.Error(err))
		return err
	}

	// 尽力而为通知被移除的成员
	notes := []model.Notification{{
		UserID:       entry.UserID,
		DepartmentID: &departmentID,
		Type:         "schedule_removed",
		Title:        "排班已取消",
		Content:      fmt.Sprintf("你在 %s %s-%s 的排班已被取消", entry.Date.Format(dateLayout), normalizeTime(entry.TimeStart), normalizeTime(entry.TimeEnd)),
		Status:       "pending",
		RelatedType:  strPtr("schedule_entry"),
		RelatedID:    &entry.ScheduleEntryID,
	}}
	if err := s.repo.Notification.BatchCreate(ctx, notes); err != nil {
		s.logger.Warn("写入取消通知失败", zap.Error(err))
	}
	return nil
}

func (s *scheduleService) Suggest(ctx context.Context, departmentID, callerID string, req *dto.SuggestScheduleRequest) (*dto.SuggestScheduleResponse, error) {
	if _, err := requireLeader(ctx, s.repo, callerID, departmentID); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start := normalizeTime(req.TimeStart)
	end := normalizeTime(req.TimeEnd)
	if end <= start {
		return nil, ErrInvalidTimeWindow
	}

	// 1. 资格过滤（硬约束）
	eligibility, err := computeEligibility(ctx, s.repo, departmentID, date, start, end)
	if err != nil {
		s.logger.Error("计算排班资格失败", zap.Error(err))
		return nil, err
	}
	candidates := eligibleOnly(eligibility)

	// 2. 目标人数：显式传入 > 命中固定时段的默认人数 > 1
	count := req.Count
	if count <= 0 {
		slots, err := s.repo.FixedSlot.ListByDepartment(ctx, departmentID, true)
		if err == nil {
			if slot := matchSlot(slots, date, start); slot != nil {
				count = slot.DefaultMemberCount
			}
		}
	}
	if count <= 0 {
		count = 1
	}

	var warnings []string
	if len(candidates) < count {
		warnings = append(warnings, fmt.Sprintf("合格成员不足：需要 %d 人，仅 %d 人可用", count, len(candidates)))
	}
	if len(candidates) == 0 {
		return &dto.SuggestScheduleResponse{Suggested: []dto.MemberEligibility{}, Warnings: warnings}, nil
	}

	// 3. 统计回看窗口内的排班负载
	lookback := s.cfg.Scheduling.SuggestionLookbackMonths
	if lookback <= 0 {
		lookback = 1
	}
	from := dateOnly(date).AddDate(0, -lookback, 0)
	to := dateOnly(date).AddDate(0, 1, 0)
	userIDs := make([]string, 0, len(candidates))
	memberByUser := make(map[string]string, len(candidates))
	for _, c := range candidates {
		userIDs = append(userIDs, c.UserID)
		memberByUser[c.UserID] = c.MemberID
	}
	history, err := s.repo.ScheduleEntry.ListByUsersAndRange(ctx, departmentID, userIDs, from, to)
	if err != nil {
		s.logger.Error("查询历史排班失败", zap.Error(err))
		return nil, err
	}

	countByUser := make(map[string]int)
	nearestGap := make(map[string]int)
	target := dateOnly(date)
	for _, e := range history {
		countByUser[e.UserID]++
		gap := int(target.Sub(dateOnly(e.Date)).Hours() / 24)
		if gap < 0 {
			gap = -gap
		}
		if cur, ok := nearestGap[e.UserID]; !ok || gap < cur {
			nearestGap[e.UserID] = gap
		}
	}

	// 4. 偏好软上限：超限者仍可入选，但排序靠后并产生警告
	prefs, err := s.repo.MemberPreference.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询成员偏好失败", zap.Error(err))
		return nil, err
	}
	prefByMember := make(map[string]*model.MemberPreference, len(prefs))
	for i := range prefs {
		prefByMember[prefs[i].MemberID] = &prefs[i]
	}

	type scored struct {
		member  dto.MemberEligibility
		score   int
		overCap bool
		tooSoon bool
	}
	scoredList := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		maxPerMonth := s.cfg.Scheduling.DefaultMaxPerMonth
		minDays := s.cfg.Scheduling.DefaultMinDaysBetween
		if p := prefByMember[c.MemberID]; p != nil {
			maxPerMonth = p.MaxSchedulesPerMonth
			minDays = p.MinDaysBetween
		}
		sc := scored{member: c, score: countByUser[c.UserID] * 100}
		if maxPerMonth > 0 && countByUser[c.UserID] >= maxPerMonth {
			sc.overCap = true
			sc.score += 5000
		}
		if gap, ok := nearestGap[c.UserID]; ok && minDays > 0 && gap < minDays {
			sc.tooSoon = true
			sc.score += 3000
		}
		scoredList = append(scoredList, sc)
	}
	sort.SliceStable(scoredList, func(i, j int) bool {
		if scoredList[i].score != scoredList[j].score {
			return scoredList[i].score < scoredList[j].score
		}
		return scoredList[i].member.Name < scoredList[j].member.Name
	})

	if count > len(scoredList) {
		count = len(scoredList)
	}
	suggested := make([]dto.MemberEligibility, 0, count)
	for _, sc := range scoredList[:count] {
		if sc.overCap {
			warnings = append(warnings, fmt.Sprintf("%s 本期排班已达偏好上限", sc.member.Name))
		}
		if sc.tooSoon {
			warnings = append(warnings, fmt.Sprintf("%s 距上次排班间隔不足偏好设置", sc.member.Name))
		}
		suggested = append(suggested, sc.member)
	}

	return &dto.SuggestScheduleResponse{Suggested: suggested, Warnings: warnings}, nil
}

// ── 内部辅助 ──

// validateSectors 校验所选分区归属本部门，返回分区索引供响应回填
func (s *scheduleService) validateSectors(ctx context.Context, departmentID string, assignments []dto.ScheduleAssignment) (map[string]*model.Sector, error) {
	needed := false
	for _, a := range assignments {
		if a.SectorID != nil {
			needed = true
			break
		}
	}
	if !needed {
		return nil, nil
	}
	sectors, err := s.repo.Sector.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Sector, len(sectors))
	for i := range sectors {
		byID[sectors[i].SectorID] = &sectors[i]
	}
	for _, a := range assignments {
		if a.SectorID != nil && byID[*a.SectorID] == nil {
			return nil, ErrSectorNotInDepartment
		}
	}
	return byID, nil
}

func (s *scheduleService) notifyAssigned(ctx context.Context, departmentID string, entries []model.ScheduleEntry, memberByID map[string]*model.Member) {
	notes := make([]model.Notification, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		notes = append(notes, model.Notification{
			UserID:       e.UserID,
			DepartmentID: &departmentID,
			Type:         "schedule_assigned",
			Title:        "新排班通知",
			Content:      fmt.Sprintf("你被安排在 %s %s-%s 服侍", e.Date.Format(dateLayout), e.TimeStart, e.TimeEnd),
			Status:       "pending",
			RelatedType:  strPtr("schedule_entry"),
			RelatedID:    &e.ScheduleEntryID,
		})
	}
	if err := s.repo.Notification.BatchCreate(ctx, notes); err != nil {
		s.logger.Warn("写入排班通知失败", zap.Error(err))
	}
}

func (s *scheduleService) getScoped(ctx context.Context, entryID, departmentID string) (*model.ScheduleEntry, error) {
	entry, err := s.repo.ScheduleEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		return nil, err
	}
	if entry.DepartmentID != departmentID {
		return nil, ErrScheduleEntryNotFound
	}
	return entry, nil
}

func (s *scheduleService) toEntryResponse(entry *model.ScheduleEntry, slots []model.FixedSlot) dto.ScheduleEntryResponse {
	resp := dto.ScheduleEntryResponse{
		ID:           entry.ScheduleEntryID,
		DepartmentID: entry.DepartmentID,
		UserID:       entry.UserID,
		Date:         entry.Date.Format(dateLayout),
		TimeStart:    normalizeTime(entry.TimeStart),
		TimeEnd:      normalizeTime(entry.TimeEnd),
		Notes:        entry.Notes,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.CreatedBy != nil {
		resp.CreatedBy = *entry.CreatedBy
	}
	if entry.Role != nil {
		resp.Role = *entry.Role
	}
	if entry.Sector != nil {
		sec := toSectorResponse(entry.Sector)
		resp.Sector = &sec
	}
	if slot := matchSlot(slots, entry.Date, entry.TimeStart); slot != nil {
		resp.SlotLabel = slot.Label
	} else {
		resp.SlotLabel = syntheticLabel(entry.Date, entry.TimeStart, entry.TimeEnd)
	}
	return resp
}

// resolveRange 解析查询区间，缺省为前一周到未来两个月
func resolveRange(req *dto.ScheduleListRequest) (time.Time, time.Time, error) {
	now := dateOnly(time.Now())
	from := now.AddDate(0, 0, -7)
	to := now.AddDate(0, 2, 0)
	if req.From != "" {
		parsed, err := parseDate(req.From)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if req.To != "" {
		parsed, err := parseDate(req.To)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}

func strPtr(s string) *string { return &s }

// [自证通过] internal/service/schedule_service.go
