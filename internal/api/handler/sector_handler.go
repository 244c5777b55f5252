package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"levi-escalas/backend/internal/dto"
	"levi-escalas/backend/internal/service"
	"levi-escalas/backend/pkg/response"
)

// SectorHandler 分区模块 HTTP 处理器
type SectorHandler struct {
	sectorSvc service.SectorService
}

// NewSectorHandler 创建 SectorHandler
func NewSectorHandler(sectorSvc service.SectorService) *SectorHandler {
	return &SectorHandler{sectorSvc: sectorSvc}
}

// CreateSector 创建分区
// POST /api/v1/departments/:id/sectors
func (h *SectorHandler) CreateSector(c *gin.Context) {
	departmentID := c.Param("id")
	if departmentID == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sectorSvc.Create(c.Request.Context(), departmentID, callerID, &req)
	if err != nil {
		h.handleSectorError(c, err)
		return
	}

	response.Created(c, result)
}

// ListSectors 获取部门分区列表
// GET /api/v1/departments/:id/sectors
func (h *SectorHandler) ListSectors(c *gin.Context) {
	departmentID := c.Param("id")
	if departmentID == "" {
		response.BadRequest(c, 10001, "部门ID不能为空")
		return
	}

	list, err := h.sectorSvc.List(c.Request.Context(), departmentID)
	if err != nil {
		h.handleSectorError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// UpdateSector 更新分区
// PUT /api/v1/departments/:id/sectors/:sectorId
func (h *SectorHandler) UpdateSector(c *gin.Context) {
	departmentID := c.Param("id")
	sectorID := c.Param("sectorId")
	if departmentID == "" || sectorID == "" {
		response.BadRequest(c, 10001, "部门ID和分区ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.sectorSvc.Update(c.Request.Context(), departmentID, sectorID, callerID, &req)
	if err != nil {
		h.handleSectorError(c, err)
		return
	}

	response.OK(c, result)
}

// DeleteSector 删除分区
// DELETE /api/v1/departments/:id/sectors/:sectorId
func (h *SectorHandler) DeleteSector(c *gin.Context) {
	departmentID := c.Param("id")
	sectorID := c.Param("sectorId")
	if departmentID == "" || sectorID == "" {
		response.BadRequest(c, 10001, "部门ID和分区ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.sectorSvc.Delete(c.Request.Context(), departmentID, sectorID, callerID); err != nil {
		h.handleSectorError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSectorError 将分区模块业务错误映射为 HTTP 响应
func (h *SectorHandler) handleSectorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectorNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		response.Forbidden(c, 10003, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/sector_handler.go
