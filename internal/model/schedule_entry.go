package model

import "time"

// ScheduleEntry 排班条目表 — 对应 schedule_entries
// 一名志愿者在一个日期的一个时段上的一次指派
type ScheduleEntry struct {
	ScheduleEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_entry_id"`
	DepartmentID    string    `gorm:"type:uuid;not null"                             json:"department_id"`
	UserID          string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Date            time.Time `gorm:"type:date;not null"                             json:"date"`
	TimeStart       string    `gorm:"type:time;not null"                             json:"time_start"`
	TimeEnd         string    `gorm:"type:time;not null"                             json:"time_end"`
	Notes           string    `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	SectorID        *string   `gorm:"type:uuid"                                      json:"sector_id,omitempty"`
	Role            *string   `gorm:"type:varchar(20)"                               json:"role,omitempty"` // on_duty | participant
	VersionedModel

	// 关联
	User       *User       `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Sector     *Sector     `gorm:"foreignKey:SectorID;references:SectorID"         json:"sector,omitempty"`
}

// TableName 指定表名
func (ScheduleEntry) TableName() string { return "schedule_entries" }

// [自证通过] internal/model/schedule_entry.go
