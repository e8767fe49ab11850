package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// DocumentRepository 文档数据访问接口
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id string) (*model.Document, error)
	ListByOwner(ctx context.Context, ownerKind, ownerID string) ([]model.Document, error)
	ListByStatus(ctx context.Context, statusCode string, offset, limit int) ([]model.Document, int64, error)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id, deletedBy string) error
}

type documentRepo struct {
	db *gorm.DB
}

// NewDocumentRepo 创建 DocumentRepository 实例
func NewDocumentRepo(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.WithContext(ctx).
		Where("document_id = ?", id).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ListByOwner(ctx context.Context, ownerKind, ownerID string) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_id = ?", ownerKind, ownerID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepo) ListByStatus(ctx context.Context, statusCode string, offset, limit int) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Document{})
	if statusCode != "" {
		db = db.Where("status_code = ?", statusCode)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *documentRepo) Delete(ctx context.Context, id, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("document_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// TranscriptRepository 成绩单申请数据访问接口
type TranscriptRepository interface {
	Create(ctx context.Context, req *model.TranscriptRequest) error
	GetByID(ctx context.Context, id string) (*model.TranscriptRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.TranscriptRequest, error)
	ListByStatus(ctx context.Context, statusCode string) ([]model.TranscriptRequest, error)
	Update(ctx context.Context, req *model.TranscriptRequest) error
}

type transcriptRepo struct {
	db *gorm.DB
}

// NewTranscriptRepo 创建 TranscriptRepository 实例
func NewTranscriptRepo(db *gorm.DB) TranscriptRepository {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) Create(ctx context.Context, req *model.TranscriptRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *transcriptRepo) GetByID(ctx context.Context, id string) (*model.TranscriptRequest, error) {
	var req model.TranscriptRequest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("transcript_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *transcriptRepo) ListByStudent(ctx context.Context, studentID string) ([]model.TranscriptRequest, error) {
	var reqs []model.TranscriptRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("requested_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *transcriptRepo) ListByStatus(ctx context.Context, statusCode string) ([]model.TranscriptRequest, error) {
	var reqs []model.TranscriptRequest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("status_code = ?", statusCode).
		Order("requested_at").
		Find(&reqs).Error
	return reqs, err
}

func (r *transcriptRepo) Update(ctx context.Context, req *model.TranscriptRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
