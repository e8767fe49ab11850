package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 成绩模块业务错误 ──

var (
	ErrGradeNotFound      = errors.New("成绩不存在")
	ErrGradeExists        = errors.New("该学生此班次已有成绩")
	ErrGradeValueNotFound = errors.New("成绩等级不存在")
	ErrGradeNotRegistered = errors.New("学生未注册该班次，不能录成绩")
)

// GradeService 成绩与成绩单业务接口
type GradeService interface {
	CreateGrade(ctx context.Context, req *dto.CreateGradeRequest, gradedByID, callerID string) (*dto.GradeResponse, error)
	UpdateGrade(ctx context.Context, id string, req *dto.UpdateGradeRequest, callerID string) (*dto.GradeResponse, error)
	ListSectionGrades(ctx context.Context, sectionID string) ([]dto.GradeResponse, error)
	ListStudentGrades(ctx context.Context, studentID string) ([]dto.GradeResponse, error)

	ListGradeValues(ctx context.Context) ([]dto.GradeValueResponse, error)

	// Transcript 学生完整成绩单：逐班次成绩、学分加权 GPA、累计学分
	Transcript(ctx context.Context, studentID string) (*dto.TranscriptResponse, error)
}

type gradeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGradeService 创建 GradeService 实例
func NewGradeService(repo *repository.Repository, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, logger: logger}
}

// ────────────────────── 成绩 ──────────────────────

func (s *gradeService) CreateGrade(ctx context.Context, req *dto.CreateGradeRequest, gradedByID, callerID string) (*dto.GradeResponse, error) {
	if _, err := s.repo.Registration.GetByStudentAndSection(ctx, req.StudentID, req.SectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotRegistered
		}
		return nil, err
	}
	if _, err := s.repo.Grade.GetByStudentAndSection(ctx, req.StudentID, req.SectionID); err == nil {
		return nil, ErrGradeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	value, err := s.repo.Grade.GetValueByCode(ctx, req.GradeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeValueNotFound
		}
		return nil, err
	}

	grade := &model.Grade{
		StudentID:    req.StudentID,
		SectionID:    req.SectionID,
		GradeValueID: value.GradeValueID,
		Comment:      req.Comment,
	}
	if gradedByID != "" {
		grade.GradedByID = &gradedByID
	}
	grade.CreatedBy = &callerID
	grade.UpdatedBy = &callerID

	if err := s.repo.Grade.Create(ctx, grade); err != nil {
		s.logger.Error("录入成绩失败", zap.Error(err))
		return nil, err
	}
	grade.GradeValue = value
	return toGradeResponse(grade), nil
}

// UpdateGrade 修订成绩值，创建时间保持原样
func (s *gradeService) UpdateGrade(ctx context.Context, id string, req *dto.UpdateGradeRequest, callerID string) (*dto.GradeResponse, error) {
	grade, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}

	value, err := s.repo.Grade.GetValueByCode(ctx, req.GradeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeValueNotFound
		}
		return nil, err
	}

	grade.GradeValueID = value.GradeValueID
	grade.GradeValue = value
	if req.Comment != "" {
		grade.Comment = req.Comment
	}
	grade.UpdatedBy = &callerID

	if err := s.repo.Grade.Update(ctx, grade); err != nil {
		s.logger.Error("修订成绩失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toGradeResponse(grade), nil
}

func (s *gradeService) ListSectionGrades(ctx context.Context, sectionID string) ([]dto.GradeResponse, error) {
	grades, err := s.repo.Grade.ListBySection(ctx, sectionID)
	if err != nil {
		s.logger.Error("列出班次成绩失败", zap.Error(err))
		return nil, err
	}
	return toGradeResponses(grades), nil
}

func (s *gradeService) ListStudentGrades(ctx context.Context, studentID string) ([]dto.GradeResponse, error) {
	grades, err := s.repo.Grade.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出学生成绩失败", zap.Error(err))
		return nil, err
	}
	return toGradeResponses(grades), nil
}

func (s *gradeService) ListGradeValues(ctx context.Context) ([]dto.GradeValueResponse, error) {
	values, err := s.repo.Grade.ListValues(ctx)
	if err != nil {
		s.logger.Error("列出成绩等级失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.GradeValueResponse, 0, len(values))
	for _, v := range values {
		result = append(result, dto.GradeValueResponse{
			ID:      v.GradeValueID,
			Code:    v.Code,
			Numeric: v.Numeric.StringFixed(2),
		})
	}
	return result, nil
}

// ────────────────────── 成绩单 ──────────────────────

// Transcript GPA = Σ(绩点×学分) / Σ学分；累计学分只计通过课程
func (s *gradeService) Transcript(ctx context.Context, studentID string) (*dto.TranscriptResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	grades, err := s.repo.Grade.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TranscriptResponse{
		StudentNo: student.StudentNo,
		LongName:  student.LongName(),
		Lines:     make([]dto.TranscriptLine, 0, len(grades)),
	}
	if student.Curriculum != nil {
		resp.Curriculum = student.Curriculum.Title
	}

	weighted := decimal.Zero
	attempted := 0
	for i := range grades {
		grade := &grades[i]
		if grade.GradeValue == nil || grade.Section == nil || grade.Section.Course == nil {
			continue
		}
		credits := grade.Section.Course.CreditHours

		line := dto.TranscriptLine{
			CourseCode:  grade.Section.Course.ShortCode(),
			CourseTitle: grade.Section.Course.Title,
			CreditHours: credits,
			GradeCode:   grade.GradeValue.Code,
			Numeric:     grade.GradeValue.Numeric.StringFixed(2),
		}
		if grade.Section.Semester != nil {
			line.SemesterCode = grade.Section.Semester.Code()
		}
		resp.Lines = append(resp.Lines, line)

		weighted = weighted.Add(grade.GradeValue.Numeric.Mul(decimal.NewFromInt(int64(credits))))
		attempted += credits
		if grade.GradeValue.IsPassing() {
			resp.TotalCredits += credits
		}
	}

	if attempted > 0 {
		resp.GPA = weighted.Div(decimal.NewFromInt(int64(attempted))).StringFixed(2)
	} else {
		resp.GPA = "0.00"
	}
	return resp, nil
}

// ── 内部辅助方法 ──

func toGradeResponses(grades []model.Grade) []dto.GradeResponse {
	result := make([]dto.GradeResponse, 0, len(grades))
	for i := range grades {
		result = append(result, *toGradeResponse(&grades[i]))
	}
	return result
}

func toGradeResponse(grade *model.Grade) *dto.GradeResponse {
	resp := &dto.GradeResponse{
		ID:        grade.GradeID,
		StudentID: grade.StudentID,
		SectionID: grade.SectionID,
		Comment:   grade.Comment,
		CreatedAt: grade.CreatedAt.Format(time.RFC3339),
	}
	if grade.GradeValue != nil {
		resp.GradeCode = grade.GradeValue.Code
		resp.Numeric = grade.GradeValue.Numeric.StringFixed(2)
		resp.IsPassing = grade.GradeValue.IsPassing()
	}
	if grade.Student != nil {
		resp.StudentNo = grade.Student.StudentNo
	}
	if grade.Section != nil {
		resp.SectionCode = grade.Section.LongCode()
	}
	return resp
}
