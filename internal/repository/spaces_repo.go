package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// SpaceRepository 楼宇数据访问接口
type SpaceRepository interface {
	Create(ctx context.Context, space *model.Space) error
	GetByID(ctx context.Context, id string) (*model.Space, error)
	GetByCode(ctx context.Context, code string) (*model.Space, error)
	GetOrCreateByCode(ctx context.Context, code, fullName string) (*model.Space, error)
	List(ctx context.Context) ([]model.Space, error)
	Update(ctx context.Context, space *model.Space) error
	Delete(ctx context.Context, id string) error
}

type spaceRepo struct {
	db *gorm.DB
}

// NewSpaceRepo 创建 SpaceRepository 实例
func NewSpaceRepo(db *gorm.DB) SpaceRepository {
	return &spaceRepo{db: db}
}

func (r *spaceRepo) Create(ctx context.Context, space *model.Space) error {
	return r.db.WithContext(ctx).Create(space).Error
}

func (r *spaceRepo) GetByID(ctx context.Context, id string) (*model.Space, error) {
	var space model.Space
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("space_id = ?", id).
		First(&space).Error
	if err != nil {
		return nil, err
	}
	return &space, nil
}

func (r *spaceRepo) GetByCode(ctx context.Context, code string) (*model.Space, error) {
	var space model.Space
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&space).Error
	if err != nil {
		return nil, err
	}
	return &space, nil
}

func (r *spaceRepo) GetOrCreateByCode(ctx context.Context, code, fullName string) (*model.Space, error) {
	var space model.Space
	err := r.db.WithContext(ctx).
		Where(model.Space{Code: code}).
		Attrs(model.Space{FullName: fullName}).
		FirstOrCreate(&space).Error
	if err != nil {
		return nil, err
	}
	return &space, nil
}

func (r *spaceRepo) List(ctx context.Context) ([]model.Space, error) {
	var spaces []model.Space
	err := r.db.WithContext(ctx).
		Order("code").
		Find(&spaces).Error
	return spaces, err
}

func (r *spaceRepo) Update(ctx context.Context, space *model.Space) error {
	return r.db.WithContext(ctx).Save(space).Error
}

func (r *spaceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("space_id = ?", id).
		Delete(&model.Space{}).Error
}

// RoomRepository 教室数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByCode(ctx context.Context, spaceID, code string) (*model.Room, error)
	GetOrCreate(ctx context.Context, spaceID, code string) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	ListBySpace(ctx context.Context, spaceID string) ([]model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id string) error
	// CountTBARooms 统计 TBA 楼宇下的教室数，用于生成 TBA0001 递增代码
	CountTBARooms(ctx context.Context) (int64, error)
}

type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Preload("Space").
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByCode(ctx context.Context, spaceID, code string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Preload("Space").
		Where("space_id = ? AND code = ?", spaceID, code).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetOrCreate(ctx context.Context, spaceID, code string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where(model.Room{SpaceID: spaceID, Code: code}).
		FirstOrCreate(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Preload("Space").
		Order("code").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) ListBySpace(ctx context.Context, spaceID string) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("code").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("room_id = ?", id).
		Delete(&model.Room{}).Error
}

func (r *roomRepo) CountTBARooms(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Room{}).
		Joins("JOIN spaces ON spaces.space_id = rooms.space_id").
		Where("spaces.code = ?", model.TBASpaceCode).
		Count(&count).Error
	return count, err
}
