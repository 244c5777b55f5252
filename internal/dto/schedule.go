package dto

// ── 排班模块 DTO ──

// ScheduleAssignment 批量创建中单个成员的配置
type ScheduleAssignment struct {
	MemberID string  `json:"member_id" binding:"required,uuid"`
	SectorID *string `json:"sector_id" binding:"omitempty,uuid"`
	Role     *string `json:"role"      binding:"omitempty,oneof=on_duty participant"`
}

// BulkCreateScheduleRequest 批量创建排班请求
// 一次提交为每个选中成员生成一条排班条目，共享日期/时段/备注
type BulkCreateScheduleRequest struct {
	Date        string               `json:"date"        binding:"required,datetime=2006-01-02"`
	TimeStart   string               `json:"time_start"  binding:"required"`
	TimeEnd     string               `json:"time_end"    binding:"required"`
	Notes       string               `json:"notes"       binding:"omitempty,max=500"`
	Assignments []ScheduleAssignment `json:"assignments" binding:"required,min=1,dive"`
}

// ScheduleListRequest 排班列表查询参数
type ScheduleListRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}

// UpdateScheduleNotesRequest 更新排班备注请求
type UpdateScheduleNotesRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// SuggestScheduleRequest 智能排班建议请求
type SuggestScheduleRequest struct {
	Date      string `json:"date"       binding:"required,datetime=2006-01-02"`
	TimeStart string `json:"time_start" binding:"required"`
	TimeEnd   string `json:"time_end"   binding:"required"`
	Count     int    `json:"count"      binding:"omitempty,min=1,max=50"` // 默认取时段的 default_member_count
}

// ── 响应 ──

// ScheduleEntryResponse 排班条目响应
type ScheduleEntryResponse struct {
	ID           string           `json:"id"`
	DepartmentID string           `json:"department_id"`
	UserID       string           `json:"user_id"`
	UserName     string           `json:"user_name,omitempty"`
	Date         string           `json:"date"`
	TimeStart    string           `json:"time_start"`
	TimeEnd      string           `json:"time_end"`
	Notes        string           `json:"notes,omitempty"`
	Sector       *SectorResponse  `json:"sector,omitempty"`
	Role         string           `json:"role,omitempty"`
	SlotLabel    string           `json:"slot_label,omitempty"` // 命中的固定时段标签；未命中为合成时段
	CreatedBy    string           `json:"created_by,omitempty"`
	CreatedAt    string           `json:"created_at"`
}

// BulkCreateScheduleResponse 批量创建排班响应
type BulkCreateScheduleResponse struct {
	Entries []ScheduleEntryResponse `json:"entries"`
}

// MemberEligibility 单个成员的资格结果
// status: available | blocked_blackout | blocked_conflict
type MemberEligibility struct {
	MemberID           string `json:"member_id"`
	UserID             string `json:"user_id"`
	Name               string `json:"name"`
	AvatarURL          string `json:"avatar_url,omitempty"`
	Status             string `json:"status"`
	ConflictDepartment string `json:"conflict_department,omitempty"` // 仅 blocked_conflict 时填充
}

// EligibilityResponse 资格检查响应
type EligibilityResponse struct {
	Date      string              `json:"date"`
	TimeStart string              `json:"time_start"`
	TimeEnd   string              `json:"time_end"`
	Members   []MemberEligibility `json:"members"`
}

// SuggestScheduleResponse 智能排班建议响应
type SuggestScheduleResponse struct {
	Suggested []MemberEligibility `json:"suggested"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// [自证通过] internal/dto/schedule.go
