package dto

// ── 固定时段模块 DTO ──

// CreateFixedSlotRequest 创建固定时段请求
type CreateFixedSlotRequest struct {
	Label              string `json:"label"                binding:"required,min=1,max=50"`
	DayOfWeek          *int   `json:"day_of_week"          binding:"required,min=0,max=6"`
	TimeStart          string `json:"time_start"           binding:"required"`
	TimeEnd            string `json:"time_end"             binding:"required"`
	DefaultMemberCount int    `json:"default_member_count" binding:"omitempty,min=1,max=50"`
}

// UpdateFixedSlotRequest 更新固定时段请求
type UpdateFixedSlotRequest struct {
	Label              *string `json:"label"                binding:"omitempty,min=1,max=50"`
	DayOfWeek          *int    `json:"day_of_week"          binding:"omitempty,min=0,max=6"`
	TimeStart          *string `json:"time_start"`
	TimeEnd            *string `json:"time_end"`
	DefaultMemberCount *int    `json:"default_member_count" binding:"omitempty,min=1,max=50"`
	IsActive           *bool   `json:"is_active"`
}

// FixedSlotResponse 固定时段响应
type FixedSlotResponse struct {
	ID                 string `json:"id"`
	DepartmentID       string `json:"department_id"`
	Label              string `json:"label"`
	DayOfWeek          int    `json:"day_of_week"`
	TimeStart          string `json:"time_start"` // 规范化 HH:mm
	TimeEnd            string `json:"time_end"`
	DefaultMemberCount int    `json:"default_member_count"`
	IsActive           bool   `json:"is_active"`
}

// SlotsForDateResponse 指定日期的可用时段响应
// 无固定时段命中时 custom_mode=true，并附默认自定义时间
type SlotsForDateResponse struct {
	Date             string              `json:"date"`
	Slots            []FixedSlotResponse `json:"slots"`
	CustomMode       bool                `json:"custom_mode"`
	DefaultTimeStart string              `json:"default_time_start"`
	DefaultTimeEnd   string              `json:"default_time_end"`
}

// [自证通过] internal/dto/slot.go
