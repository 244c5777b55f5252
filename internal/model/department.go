package model

import "time"

// Department 部门表 — 对应 departments
type Department struct {
	DepartmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"department_id"`
	ChurchID     string    `gorm:"type:uuid;not null"                             json:"church_id"`
	Name         string    `gorm:"type:varchar(50);not null"                      json:"name"`
	Description  string    `gorm:"type:text"                                      json:"description,omitempty"`
	PeriodWeeks  int       `gorm:"type:smallint;not null;default:6"               json:"period_weeks"`  // 可用性申报周期长度（周）
	PeriodAnchor time.Time `gorm:"type:date;not null"                             json:"period_anchor"` // 周期对齐锚点日期
	IsActive     bool      `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Church *Church `gorm:"foreignKey:ChurchID;references:ChurchID" json:"church,omitempty"`
}

// TableName 指定表名
func (Department) TableName() string { return "departments" }

// [自证通过] internal/model/department.go
