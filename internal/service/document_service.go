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

// ── 文档模块业务错误 ──

var (
	ErrDocumentNotFound   = errors.New("文档不存在")
	ErrDocumentOwnerIll   = errors.New("未知的文档归属者种类")
	ErrDocumentStatusIll  = errors.New("非法的文档审核状态")
	ErrTranscriptNotFound = errors.New("成绩单申请不存在")
	ErrTranscriptStatus   = errors.New("非法的成绩单申请状态")
)

// DocumentService 文档与成绩单申请业务接口
// 文档记元数据与落盘路径，审核动作写状态历史；删除为软删
type DocumentService interface {
	CreateDocument(ctx context.Context, req *dto.CreateDocumentRequest, callerID string) (*dto.DocumentResponse, error)
	GetDocument(ctx context.Context, id string) (*dto.DocumentResponse, error)
	ListOwnerDocuments(ctx context.Context, ownerKind, ownerID string) ([]dto.DocumentResponse, error)
	ListByStatus(ctx context.Context, statusCode string, page *dto.PaginationRequest) (*dto.PagedResponse[dto.DocumentResponse], error)
	ReviewDocument(ctx context.Context, id string, req *dto.ReviewDocumentRequest, reviewerStaffID, callerID string) (*dto.DocumentResponse, error)
	DeleteDocument(ctx context.Context, id, callerID string) error

	CreateTranscriptRequest(ctx context.Context, req *dto.CreateTranscriptRequestRequest, callerID string) (*dto.TranscriptRequestResponse, error)
	GetTranscriptRequest(ctx context.Context, id string) (*dto.TranscriptRequestResponse, error)
	ListStudentTranscriptRequests(ctx context.Context, studentID string) ([]dto.TranscriptRequestResponse, error)
	SetTranscriptStatus(ctx context.Context, id string, req *dto.SetTranscriptStatusRequest, handlerStaffID, callerID string) (*dto.TranscriptRequestResponse, error)
}

type documentService struct {
	repo   *repository.Repository
	status StatusService
	logger *zap.Logger
}

// NewDocumentService 创建 DocumentService 实例
func NewDocumentService(repo *repository.Repository, status StatusService, logger *zap.Logger) DocumentService {
	return &documentService{repo: repo, status: status, logger: logger}
}

// ────────────────────── 文档 ──────────────────────

func (s *documentService) CreateDocument(ctx context.Context, req *dto.CreateDocumentRequest, callerID string) (*dto.DocumentResponse, error) {
	if err := s.checkOwner(ctx, req.OwnerKind, req.OwnerID); err != nil {
		return nil, err
	}

	doc := &model.Document{
		OwnerKind:   req.OwnerKind,
		OwnerID:     req.OwnerID,
		TypeCode:    req.Type,
		StatusCode:  model.DocumentPending,
		Title:       req.Title,
		FilePath:    req.FilePath,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}
	doc.CreatedBy = &callerID
	doc.UpdatedBy = &callerID

	err := s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Document.Create(ctx, doc); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindDocument,
			doc.DocumentID, model.DocumentPending, callerID, "")
	})
	if err != nil {
		s.logger.Error("登记文档失败", zap.Error(err))
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

func (s *documentService) ListOwnerDocuments(ctx context.Context, ownerKind, ownerID string) ([]dto.DocumentResponse, error) {
	docs, err := s.repo.Document.ListByOwner(ctx, ownerKind, ownerID)
	if err != nil {
		s.logger.Error("列出文档失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		result = append(result, *toDocumentResponse(&docs[i]))
	}
	return result, nil
}

func (s *documentService) ListByStatus(ctx context.Context, statusCode string, page *dto.PaginationRequest) (*dto.PagedResponse[dto.DocumentResponse], error) {
	docs, total, err := s.repo.Document.ListByStatus(ctx, statusCode, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("按状态列出文档失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		items = append(items, *toDocumentResponse(&docs[i]))
	}
	return dto.NewPagedResponse(items, total, page.GetPage(), page.GetPageSize()), nil
}

// ReviewDocument 审核文档并在同一事务写状态历史
func (s *documentService) ReviewDocument(ctx context.Context, id string, req *dto.ReviewDocumentRequest, reviewerStaffID, callerID string) (*dto.DocumentResponse, error) {
	if !model.StatusAllowed(model.ContentKindDocument, req.Status) {
		return nil, ErrDocumentStatusIll
	}

	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	doc.StatusCode = req.Status
	doc.ReviewNote = req.Note
	if reviewerStaffID != "" {
		doc.ReviewedByID = &reviewerStaffID
	}
	doc.UpdatedBy = &callerID

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Document.Update(ctx, doc); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindDocument,
			doc.DocumentID, req.Status, callerID, req.Note)
	})
	if err != nil {
		s.logger.Error("审核文档失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

func (s *documentService) DeleteDocument(ctx context.Context, id, callerID string) error {
	if _, err := s.repo.Document.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	return s.repo.Document.Delete(ctx, id, callerID)
}

// ────────────────────── 成绩单申请 ──────────────────────

func (s *documentService) CreateTranscriptRequest(ctx context.Context, req *dto.CreateTranscriptRequestRequest, callerID string) (*dto.TranscriptRequestResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	tr := &model.TranscriptRequest{
		StudentID:          student.StudentID,
		StatusCode:         model.TranscriptPending,
		DeliveryMethod:     req.DeliveryMethod,
		DestinationName:    req.DestinationName,
		DestinationEmail:   req.DestinationEmail,
		DestinationAddress: req.DestinationAddress,
		Purpose:            req.Purpose,
		RequestedAt:        time.Now(),
	}
	tr.CreatedBy = &callerID
	tr.UpdatedBy = &callerID

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Transcript.Create(ctx, tr); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindTranscript,
			tr.TranscriptRequestID, model.TranscriptPending, callerID, "")
	})
	if err != nil {
		s.logger.Error("提交成绩单申请失败", zap.Error(err))
		return nil, err
	}
	tr.Student = student
	return toTranscriptRequestResponse(tr), nil
}

func (s *documentService) GetTranscriptRequest(ctx context.Context, id string) (*dto.TranscriptRequestResponse, error) {
	tr, err := s.repo.Transcript.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}
	return toTranscriptRequestResponse(tr), nil
}

func (s *documentService) ListStudentTranscriptRequests(ctx context.Context, studentID string) ([]dto.TranscriptRequestResponse, error) {
	requests, err := s.repo.Transcript.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出成绩单申请失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TranscriptRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *toTranscriptRequestResponse(&requests[i]))
	}
	return result, nil
}

// SetTranscriptStatus 推进申请状态；completed 时盖处理时间
func (s *documentService) SetTranscriptStatus(ctx context.Context, id string, req *dto.SetTranscriptStatusRequest, handlerStaffID, callerID string) (*dto.TranscriptRequestResponse, error) {
	if !model.StatusAllowed(model.ContentKindTranscript, req.Status) {
		return nil, ErrTranscriptStatus
	}

	tr, err := s.repo.Transcript.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTranscriptNotFound
		}
		return nil, err
	}

	tr.StatusCode = req.Status
	if handlerStaffID != "" {
		tr.HandledByID = &handlerStaffID
	}
	if req.Status == model.TranscriptCompleted && tr.ProcessedAt == nil {
		now := time.Now()
		tr.ProcessedAt = &now
	}
	tr.UpdatedBy = &callerID

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Transcript.Update(ctx, tr); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindTranscript,
			tr.TranscriptRequestID, req.Status, callerID, req.Note)
	})
	if err != nil {
		s.logger.Error("推进成绩单申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTranscriptRequestResponse(tr), nil
}

// ── 内部辅助方法 ──

// checkOwner 校验归属档案确实存在
func (s *documentService) checkOwner(ctx context.Context, kind, id string) error {
	var err error
	switch kind {
	case model.DocumentOwnerStudent:
		_, err = s.repo.Student.GetByID(ctx, id)
	case model.DocumentOwnerStaff:
		_, err = s.repo.Staff.GetByID(ctx, id)
	case model.DocumentOwnerDonor:
		_, err = s.repo.Donor.GetByID(ctx, id)
	default:
		return ErrDocumentOwnerIll
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentOwnerIll
		}
		return err
	}
	return nil
}

func toDocumentResponse(doc *model.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:        doc.DocumentID,
		OwnerKind: doc.OwnerKind,
		OwnerID:   doc.OwnerID,
		Type:      doc.TypeCode,
		Status:    doc.StatusCode,
		Title:     doc.Title,
		FilePath:  doc.FilePath,
		SizeBytes: doc.SizeBytes,
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
	}
}

func toTranscriptRequestResponse(tr *model.TranscriptRequest) *dto.TranscriptRequestResponse {
	resp := &dto.TranscriptRequestResponse{
		ID:                 tr.TranscriptRequestID,
		StudentID:          tr.StudentID,
		Status:             tr.StatusCode,
		DeliveryMethod:     tr.DeliveryMethod,
		DestinationName:    tr.DestinationName,
		DestinationEmail:   tr.DestinationEmail,
		DestinationAddress: tr.DestinationAddress,
		Purpose:            tr.Purpose,
		RequestedAt:        tr.RequestedAt.Format(time.RFC3339),
	}
	if tr.ProcessedAt != nil {
		resp.ProcessedAt = tr.ProcessedAt.Format(time.RFC3339)
	}
	if tr.Student != nil {
		resp.StudentNo = tr.Student.StudentNo
	}
	return resp
}
