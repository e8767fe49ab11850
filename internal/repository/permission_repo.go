package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// PermissionRepository 角色/权限数据访问接口
type PermissionRepository interface {
	GetOrCreateGroup(ctx context.Context, name string) (*model.Group, error)
	GetGroupByName(ctx context.Context, name string) (*model.Group, error)
	ClearGroupPermissions(ctx context.Context) error
	GetOrCreatePermission(ctx context.Context, codename, modelName, action string) (*model.Permission, error)
	AttachPermission(ctx context.Context, groupID, permissionID string) error
	GroupPermissionCodenames(ctx context.Context, groupID string) ([]string, error)
	CreateObjectPermission(ctx context.Context, p *model.ObjectPermission) error
	HasObjectPermission(ctx context.Context, userID, action, modelName, objectID string) (bool, error)
	CreateRoleAssignment(ctx context.Context, a *model.RoleAssignment) error
	ListRoleAssignments(ctx context.Context, userID string) ([]model.RoleAssignment, error)
	ActiveRoleAssignments(ctx context.Context, userID string, on time.Time) ([]model.RoleAssignment, error)
	DeleteRoleAssignment(ctx context.Context, id string) error
}

type permissionRepo struct {
	db *gorm.DB
}

// NewPermissionRepo 创建 PermissionRepository 实例
func NewPermissionRepo(db *gorm.DB) PermissionRepository {
	return &permissionRepo{db: db}
}

func (r *permissionRepo) GetOrCreateGroup(ctx context.Context, name string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where(model.Group{Name: name}).
		FirstOrCreate(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *permissionRepo) GetGroupByName(ctx context.Context, name string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ClearGroupPermissions 清空组与权限的关联，重建权限矩阵前调用
func (r *permissionRepo) ClearGroupPermissions(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("DELETE FROM group_permissions").Error
}

func (r *permissionRepo) GetOrCreatePermission(ctx context.Context, codename, modelName, action string) (*model.Permission, error) {
	var perm model.Permission
	err := r.db.WithContext(ctx).
		Where(model.Permission{Codename: codename}).
		Attrs(model.Permission{Model: modelName, Action: action}).
		FirstOrCreate(&perm).Error
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepo) AttachPermission(ctx context.Context, groupID, permissionID string) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO group_permissions (group_id, permission_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		groupID, permissionID,
	).Error
}

func (r *permissionRepo) GroupPermissionCodenames(ctx context.Context, groupID string) ([]string, error) {
	var codenames []string
	err := r.db.WithContext(ctx).
		Table("permissions").
		Joins("JOIN group_permissions ON group_permissions.permission_id = permissions.permission_id").
		Where("group_permissions.group_id = ?", groupID).
		Pluck("permissions.codename", &codenames).Error
	return codenames, err
}

func (r *permissionRepo) CreateObjectPermission(ctx context.Context, p *model.ObjectPermission) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *permissionRepo) HasObjectPermission(ctx context.Context, userID, action, modelName, objectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ObjectPermission{}).
		Where("user_id = ? AND action = ? AND model = ? AND object_id = ?",
			userID, action, modelName, objectID).
		Count(&count).Error
	return count > 0, err
}

func (r *permissionRepo) CreateRoleAssignment(ctx context.Context, a *model.RoleAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *permissionRepo) ListRoleAssignments(ctx context.Context, userID string) ([]model.RoleAssignment, error) {
	var assignments []model.RoleAssignment
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *permissionRepo) ActiveRoleAssignments(ctx context.Context, userID string, on time.Time) ([]model.RoleAssignment, error) {
	var assignments []model.RoleAssignment
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("user_id = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			userID, on, on).
		Find(&assignments).Error
	return assignments, err
}

func (r *permissionRepo) DeleteRoleAssignment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("role_assignment_id = ?", id).
		Delete(&model.RoleAssignment{}).Error
}
