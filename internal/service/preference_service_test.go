package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"levi-escalas/backend/internal/dto"
)

func setupPreferenceService() (PreferenceService, *testRepos) {
	repos := newTestRepos()
	svc := NewPreferenceService(repos.toRepository(), testConfig(), zap.NewNop())
	return svc, repos
}

func TestGetPreferenceDefaults(t *testing.T) {
	svc, repos := setupPreferenceService()
	seedWorshipTeam(repos)

	// Davi 无偏好记录，返回配置默认值
	resp, err := svc.Get(context.Background(), "dept-louvor", "u-davi")
	if err != nil {
		t.Fatalf("查询偏好失败: %v", err)
	}
	if resp.MaxSchedulesPerMonth != 4 || resp.MinDaysBetween != 7 {
		t.Errorf("应返回配置默认值，实际 max=%d min=%d", resp.MaxSchedulesPerMonth, resp.MinDaysBetween)
	}
	if resp.BlackoutDates == nil || len(resp.BlackoutDates) != 0 {
		t.Error("黑名单应为空列表而非 nil")
	}
	// 查询不落库
	if len(repos.memberPreference.prefs) != 1 { // 仅种子中 Carla 的记录
		t.Errorf("Get 不应创建记录，实际 %d 条", len(repos.memberPreference.prefs))
	}
}

func TestUpdatePreferenceCreatesOnFirstWrite(t *testing.T) {
	svc, repos := setupPreferenceService()
	seedWorshipTeam(repos)

	maxPerMonth := 2
	resp, err := svc.Update(context.Background(), "dept-louvor", "u-davi", &dto.UpdatePreferenceRequest{
		BlackoutDates:        []string{"2026-09-20", "2026-09-06", "2026-09-20"},
		MaxSchedulesPerMonth: &maxPerMonth,
	})
	if err != nil {
		t.Fatalf("更新偏好失败: %v", err)
	}

	// 去重并排序
	want := []string{"2026-09-06", "2026-09-20"}
	if len(resp.BlackoutDates) != len(want) {
		t.Fatalf("黑名单应去重，期望 %d 条，实际 %d", len(want), len(resp.BlackoutDates))
	}
	for i, d := range want {
		if resp.BlackoutDates[i] != d {
			t.Errorf("黑名单应排序，位置 %d 期望 %s，实际 %s", i, d, resp.BlackoutDates[i])
		}
	}
	if resp.MaxSchedulesPerMonth != 2 {
		t.Errorf("上限期望 2，实际 %d", resp.MaxSchedulesPerMonth)
	}
	// 未提供的字段保持默认
	if resp.MinDaysBetween != 7 {
		t.Errorf("未提供字段应保持默认 7，实际 %d", resp.MinDaysBetween)
	}
	if len(repos.memberPreference.prefs) != 2 {
		t.Errorf("应新建 1 条偏好记录，实际共 %d 条", len(repos.memberPreference.prefs))
	}
}

func TestUpdatePreferencePartialPatch(t *testing.T) {
	svc, repos := setupPreferenceService()
	seedWorshipTeam(repos)

	// Carla 已有记录（黑名单 2026-09-06）；只改最小间隔
	minDays := 14
	resp, err := svc.Update(context.Background(), "dept-louvor", "u-carla", &dto.UpdatePreferenceRequest{
		MinDaysBetween: &minDays,
	})
	if err != nil {
		t.Fatalf("更新偏好失败: %v", err)
	}
	if resp.MinDaysBetween != 14 {
		t.Errorf("最小间隔期望 14，实际 %d", resp.MinDaysBetween)
	}
	if len(resp.BlackoutDates) != 1 || resp.BlackoutDates[0] != "2026-09-06" {
		t.Errorf("未提供的黑名单不应被覆盖: %v", resp.BlackoutDates)
	}
}

func TestUpdatePreferenceClearBlackouts(t *testing.T) {
	svc, repos := setupPreferenceService()
	seedWorshipTeam(repos)

	// 空数组显式清空黑名单
	resp, err := svc.Update(context.Background(), "dept-louvor", "u-carla", &dto.UpdatePreferenceRequest{
		BlackoutDates: []string{},
	})
	if err != nil {
		t.Fatalf("清空黑名单失败: %v", err)
	}
	if len(resp.BlackoutDates) != 0 {
		t.Errorf("黑名单应被清空: %v", resp.BlackoutDates)
	}
}
