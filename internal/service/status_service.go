package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 状态历史业务错误 ──

var (
	ErrStatusKindUnknown = errors.New("未知的内容种类")
	ErrStatusNotAllowed  = errors.New("该内容种类不允许此状态")
)

// StatusService 状态历史业务接口
// Append 在调用方事务内追加一条记录，CurrentStatus 读取最近状态
type StatusService interface {
	Append(ctx context.Context, repo *repository.Repository, kind, objectID, status, authorID, note string) error
	CurrentStatus(ctx context.Context, kind, objectID string) (string, error)
	History(ctx context.Context, kind, objectID string) ([]dto.StatusHistoryResponse, error)
}

type statusService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStatusService 创建 StatusService 实例
func NewStatusService(repo *repository.Repository, logger *zap.Logger) StatusService {
	return &statusService{repo: repo, logger: logger}
}

func (s *statusService) Append(ctx context.Context, repo *repository.Repository, kind, objectID, status, authorID, note string) error {
	ok := false
	for _, k := range model.ContentKinds() {
		if k == kind {
			ok = true
			break
		}
	}
	if !ok {
		return ErrStatusKindUnknown
	}
	if !model.StatusAllowed(kind, status) {
		return ErrStatusNotAllowed
	}

	entry := &model.StatusHistory{
		ContentKind: kind,
		ObjectID:    objectID,
		Status:      status,
		Note:        note,
		CreatedAt:   time.Now(),
	}
	if authorID != "" {
		entry.AuthorID = &authorID
	}
	return repo.StatusHistory.Create(ctx, entry)
}

func (s *statusService) CurrentStatus(ctx context.Context, kind, objectID string) (string, error) {
	entry, err := s.repo.StatusHistory.Latest(ctx, kind, objectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		s.logger.Error("查询最近状态失败", zap.String("kind", kind), zap.Error(err))
		return "", err
	}
	return entry.Status, nil
}

func (s *statusService) History(ctx context.Context, kind, objectID string) ([]dto.StatusHistoryResponse, error) {
	entries, err := s.repo.StatusHistory.List(ctx, kind, objectID)
	if err != nil {
		s.logger.Error("查询状态历史失败", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}

	result := make([]dto.StatusHistoryResponse, 0, len(entries))
	for _, e := range entries {
		resp := dto.StatusHistoryResponse{
			ID:        e.StatusHistoryID,
			Status:    e.Status,
			Note:      e.Note,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.Author != nil {
			resp.Author = e.Author.Username
		}
		result = append(result, resp)
	}
	return result, nil
}
