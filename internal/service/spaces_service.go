package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 空间模块业务错误 ──

var (
	ErrSpaceNotFound = errors.New("楼宇不存在")
	ErrSpaceExists   = errors.New("楼宇代码已存在")
	ErrRoomNotFound  = errors.New("教室不存在")
	ErrRoomExists    = errors.New("该楼宇下教室代码已存在")
)

// SpacesService 楼宇与教室业务接口
type SpacesService interface {
	CreateSpace(ctx context.Context, req *dto.CreateSpaceRequest, callerID string) (*dto.SpaceResponse, error)
	ListSpaces(ctx context.Context) ([]dto.SpaceResponse, error)

	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	GetRoom(ctx context.Context, id string) (*dto.RoomResponse, error)
	ListRooms(ctx context.Context, spaceID string) ([]dto.RoomResponse, error)

	// NextTBARoom 生成占位教室 TBA0001、TBA0002……挂在 TBA 楼宇下
	NextTBARoom(ctx context.Context) (*dto.RoomResponse, error)
	// EnsureTBA 保证 TBA 楼宇与默认 TBA 教室存在，返回默认教室
	EnsureTBA(ctx context.Context) (*dto.RoomResponse, error)
}

type spacesService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSpacesService 创建 SpacesService 实例
func NewSpacesService(repo *repository.Repository, logger *zap.Logger) SpacesService {
	return &spacesService{repo: repo, logger: logger}
}

// ────────────────────── 楼宇 ──────────────────────

func (s *spacesService) CreateSpace(ctx context.Context, req *dto.CreateSpaceRequest, callerID string) (*dto.SpaceResponse, error) {
	if _, err := s.repo.Space.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrSpaceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	space := &model.Space{Code: req.Code, FullName: req.FullName}
	space.CreatedBy = &callerID
	space.UpdatedBy = &callerID

	if err := s.repo.Space.Create(ctx, space); err != nil {
		s.logger.Error("创建楼宇失败", zap.Error(err))
		return nil, err
	}
	return toSpaceResponse(space), nil
}

func (s *spacesService) ListSpaces(ctx context.Context) ([]dto.SpaceResponse, error) {
	spaces, err := s.repo.Space.List(ctx)
	if err != nil {
		s.logger.Error("列出楼宇失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SpaceResponse, 0, len(spaces))
	for i := range spaces {
		result = append(result, *toSpaceResponse(&spaces[i]))
	}
	return result, nil
}

// ────────────────────── 教室 ──────────────────────

func (s *spacesService) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	space, err := s.repo.Space.GetByID(ctx, req.SpaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Room.GetByCode(ctx, space.SpaceID, req.Code); err == nil {
		return nil, ErrRoomExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room := &model.Room{
		SpaceID:      space.SpaceID,
		Code:         req.Code,
		Capacity:     req.Capacity,
		ExamCapacity: req.ExamCapacity,
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}
	room.Space = space
	return toRoomResponse(room), nil
}

func (s *spacesService) GetRoom(ctx context.Context, id string) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return toRoomResponse(room), nil
}

func (s *spacesService) ListRooms(ctx context.Context, spaceID string) ([]dto.RoomResponse, error) {
	var (
		rooms []model.Room
		err   error
	)
	if spaceID != "" {
		rooms, err = s.repo.Room.ListBySpace(ctx, spaceID)
	} else {
		rooms, err = s.repo.Room.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *toRoomResponse(&rooms[i]))
	}
	return result, nil
}

// ────────────────────── TBA 占位 ──────────────────────

func (s *spacesService) NextTBARoom(ctx context.Context) (*dto.RoomResponse, error) {
	space, err := s.repo.Space.GetOrCreateByCode(ctx, model.TBASpaceCode, "To Be Announced")
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Room.CountTBARooms(ctx)
	if err != nil {
		return nil, err
	}

	code := fmt.Sprintf("%s%04d", model.TBARoomCode, count+1)
	room, err := s.repo.Room.GetOrCreate(ctx, space.SpaceID, code)
	if err != nil {
		s.logger.Error("生成 TBA 教室失败", zap.Error(err))
		return nil, err
	}
	room.Space = space
	return toRoomResponse(room), nil
}

func (s *spacesService) EnsureTBA(ctx context.Context) (*dto.RoomResponse, error) {
	space, err := s.repo.Space.GetOrCreateByCode(ctx, model.TBASpaceCode, "To Be Announced")
	if err != nil {
		return nil, err
	}
	room, err := s.repo.Room.GetOrCreate(ctx, space.SpaceID, model.TBARoomCode)
	if err != nil {
		return nil, err
	}
	room.Space = space
	return toRoomResponse(room), nil
}

// ── 内部辅助方法 ──

func toSpaceResponse(space *model.Space) *dto.SpaceResponse {
	resp := &dto.SpaceResponse{
		ID:       space.SpaceID,
		Code:     space.Code,
		FullName: space.FullName,
	}
	for i := range space.Rooms {
		resp.Rooms = append(resp.Rooms, *toRoomResponse(&space.Rooms[i]))
	}
	return resp
}

func toRoomResponse(room *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:           room.RoomID,
		Code:         room.Code,
		FullCode:     room.FullCode(),
		Capacity:     room.Capacity,
		ExamCapacity: room.ExamCapacity,
		SpaceID:      room.SpaceID,
	}
}
