package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"levi-escalas/backend/internal/dto"
	"levi-escalas/backend/internal/model"
)

func setupAvailabilityService() (AvailabilityService, *testRepos) {
	repos := newTestRepos()
	svc := NewAvailabilityService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// seedDomingoSlot Louvor 部门的周日固定时段
func seedDomingoSlot(repos *testRepos) {
	repos.fixedSlot.slots["slot-domingo"] = &model.FixedSlot{
		FixedSlotID: "slot-domingo", DepartmentID: "dept-louvor", Label: "Culto Domingo",
		DayOfWeek: 0, TimeStart: "09:00", TimeEnd: "12:00", DefaultMemberCount: 3, IsActive: true,
	}
}

func futureDate(t *testing.T) (time.Time, string) {
	t.Helper()
	d := dateOnly(time.Now()).AddDate(0, 1, 0)
	return d, d.Format(dateLayout)
}

// ── 月历 ──

func TestListMonthDefaultsUnavailable(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)

	resp, err := svc.ListMonth(context.Background(), "dept-louvor", "u-davi", &dto.CalendarListRequest{Month: "2026-09"})
	if err != nil {
		t.Fatalf("查询月历失败: %v", err)
	}
	if len(resp.Days) != 30 {
		t.Fatalf("九月应有 30 天，实际 %d", len(resp.Days))
	}
	for _, d := range resp.Days {
		if d.Available {
			t.Errorf("无记录的日期应默认不可用: %s", d.Date)
		}
	}
}

func TestToggleDateCreateAndRemove(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	_, dateStr := futureDate(t)

	// 标记可用 → 创建记录
	if err := svc.ToggleDate(context.Background(), "dept-louvor", "u-davi", &dto.ToggleDateRequest{Date: dateStr, Available: true}); err != nil {
		t.Fatalf("标记可用失败: %v", err)
	}
	if len(repos.availabilityDate.records) != 1 {
		t.Fatalf("期望 1 条记录，实际 %d", len(repos.availabilityDate.records))
	}

	// 取消标记 → 删除记录而非写 false
	if err := svc.ToggleDate(context.Background(), "dept-louvor", "u-davi", &dto.ToggleDateRequest{Date: dateStr, Available: false}); err != nil {
		t.Fatalf("取消标记失败: %v", err)
	}
	if len(repos.availabilityDate.records) != 0 {
		t.Errorf("取消后记录应被删除，实际剩余 %d", len(repos.availabilityDate.records))
	}
}

func TestToggleDateUnmarkAbsentIsNoop(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	_, dateStr := futureDate(t)

	// 无记录时取消标记：幂等，无写入
	if err := svc.ToggleDate(context.Background(), "dept-louvor", "u-davi", &dto.ToggleDateRequest{Date: dateStr, Available: false}); err != nil {
		t.Fatalf("幂等取消不应报错: %v", err)
	}
	if len(repos.availabilityDate.records) != 0 {
		t.Error("不应产生任何记录")
	}
}

func TestToggleDateRejectsPast(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)

	yesterday := dateOnly(time.Now()).AddDate(0, 0, -1).Format(dateLayout)
	err := svc.ToggleDate(context.Background(), "dept-louvor", "u-davi", &dto.ToggleDateRequest{Date: yesterday, Available: true})
	if !errors.Is(err, ErrPastDate) {
		t.Errorf("过去日期应被拒绝，实际 %v", err)
	}
	if len(repos.availabilityDate.records) != 0 {
		t.Error("拒绝后不应有写入")
	}
}

func TestToggleDateTodayAllowed(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)

	today := dateOnly(time.Now()).Format(dateLayout)
	if err := svc.ToggleDate(context.Background(), "dept-louvor", "u-davi", &dto.ToggleDateRequest{Date: today, Available: true}); err != nil {
		t.Errorf("今天应允许操作: %v", err)
	}
}

func TestToggleDateRequiresMembership(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	_, dateStr := futureDate(t)

	// Davi 不是 Mídia 的成员
	err := svc.ToggleDate(context.Background(), "dept-midia", "u-davi", &dto.ToggleDateRequest{Date: dateStr, Available: true})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("非成员应被拒绝，实际 %v", err)
	}
}

func TestListMonthMarksPastLocked(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)

	month := time.Now().UTC().Format(monthLayout)
	resp, err := svc.ListMonth(context.Background(), "dept-louvor", "u-davi", &dto.CalendarListRequest{Month: month})
	if err != nil {
		t.Fatalf("查询月历失败: %v", err)
	}
	today := dateOnly(time.Now()).Format(dateLayout)
	for _, d := range resp.Days {
		if d.Date < today && !d.Locked {
			t.Errorf("过去日期应锁定: %s", d.Date)
		}
		if d.Date >= today && d.Locked {
			t.Errorf("今天及未来不应锁定: %s", d.Date)
		}
	}
}

// ── 周时段申报 ──

func TestListSlotsDefaultsUnavailable(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	seedDomingoSlot(repos)

	resp, err := svc.ListSlots(context.Background(), "dept-louvor", "u-davi", &dto.SlotAvailabilityListRequest{})
	if err != nil {
		t.Fatalf("查询时段申报失败: %v", err)
	}
	if len(resp.Slots) != 1 {
		t.Fatalf("期望 1 个固定时段，实际 %d", len(resp.Slots))
	}
	if resp.Slots[0].Available {
		t.Error("无申报记录应默认不可用")
	}
	if resp.Period.PeriodStart == "" || resp.Period.Label == "" {
		t.Error("响应应携带周期信息")
	}
}

func TestToggleSlotCreateUpdateDelete(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	seedDomingoSlot(repos)
	day := 0

	req := &dto.ToggleSlotRequest{DayOfWeek: &day, TimeStart: "09:00", TimeEnd: "12:00", Available: true}
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", req); err != nil {
		t.Fatalf("申报失败: %v", err)
	}
	if len(repos.slotAvailability.records) != 1 {
		t.Fatalf("期望 1 条申报，实际 %d", len(repos.slotAvailability.records))
	}

	// 再次标记可用：原记录原位更新，不产生第二条
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", req); err != nil {
		t.Fatalf("重复申报应走更新: %v", err)
	}
	if len(repos.slotAvailability.records) != 1 {
		t.Errorf("更新不应新增记录，实际 %d", len(repos.slotAvailability.records))
	}

	// 取消申报 → 删除
	req.Available = false
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", req); err != nil {
		t.Fatalf("取消申报失败: %v", err)
	}
	if len(repos.slotAvailability.records) != 0 {
		t.Errorf("取消后记录应被删除，实际 %d", len(repos.slotAvailability.records))
	}
}

func TestToggleSlotNormalizesSeconds(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	seedDomingoSlot(repos)
	day := 0

	// 带秒时间与 HH:mm 应命中同一条记录
	withSeconds := &dto.ToggleSlotRequest{DayOfWeek: &day, TimeStart: "09:00:00", TimeEnd: "12:00:00", Available: true}
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", withSeconds); err != nil {
		t.Fatalf("带秒申报失败: %v", err)
	}
	plain := &dto.ToggleSlotRequest{DayOfWeek: &day, TimeStart: "09:00", TimeEnd: "12:00", Available: true}
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", plain); err != nil {
		t.Fatalf("HH:mm 申报失败: %v", err)
	}
	if len(repos.slotAvailability.records) != 1 {
		t.Errorf("秒差异不应产生重复记录，实际 %d 条", len(repos.slotAvailability.records))
	}
}

func TestToggleSlotDuplicateRecoverable(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	seedDomingoSlot(repos)
	day := 0

	// 先正常申报一条
	req := &dto.ToggleSlotRequest{DayOfWeek: &day, TimeStart: "09:00", TimeEnd: "12:00", Available: true}
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", req); err != nil {
		t.Fatalf("申报失败: %v", err)
	}

	// 模拟读写竞态：查询未命中但唯一索引已有记录，撞键应映射为可恢复错误
	repos.slotAvailability.missOnGet = true
	err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", req)
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Errorf("撞唯一索引应返回 ErrDuplicateDeclaration，实际 %v", err)
	}
}

func TestToggleSlotPeriodIsolation(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	seedDomingoSlot(repos)
	day := 0

	// 当前周期申报
	cur := &dto.ToggleSlotRequest{DayOfWeek: &day, TimeStart: "09:00", TimeEnd: "12:00", Available: true, Period: "current"}
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", cur); err != nil {
		t.Fatalf("当前周期申报失败: %v", err)
	}

	// 下一周期独立申报，两条记录并存
	next := &dto.ToggleSlotRequest{DayOfWeek: &day, TimeStart: "09:00", TimeEnd: "12:00", Available: true, Period: "next"}
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", next); err != nil {
		t.Fatalf("下一周期申报失败: %v", err)
	}
	if len(repos.slotAvailability.records) != 2 {
		t.Fatalf("两个周期应各有一条记录，实际 %d", len(repos.slotAvailability.records))
	}

	// 下一周期的查询不受当前周期影响
	listNext, err := svc.ListSlots(context.Background(), "dept-louvor", "u-davi", &dto.SlotAvailabilityListRequest{Period: "next"})
	if err != nil {
		t.Fatalf("查询下一周期失败: %v", err)
	}
	if !listNext.Slots[0].Available {
		t.Error("下一周期的申报应生效")
	}

	// 取消当前周期不影响下一周期
	cur.Available = false
	if err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", cur); err != nil {
		t.Fatalf("取消当前周期失败: %v", err)
	}
	listNext, _ = svc.ListSlots(context.Background(), "dept-louvor", "u-davi", &dto.SlotAvailabilityListRequest{Period: "next"})
	if !listNext.Slots[0].Available {
		t.Error("取消当前周期不应影响下一周期")
	}
}

func TestToggleSlotRejectsUnknownWindow(t *testing.T) {
	svc, repos := setupAvailabilityService()
	seedWorshipTeam(repos)
	seedDomingoSlot(repos)
	day := 3

	req := &dto.ToggleSlotRequest{DayOfWeek: &day, TimeStart: "14:00", TimeEnd: "16:00", Available: true}
	err := svc.ToggleSlot(context.Background(), "dept-louvor", "u-davi", req)
	if !errors.Is(err, ErrSlotWindowMismatch) {
		t.Errorf("未知时段应被拒绝，实际 %v", err)
	}
}
