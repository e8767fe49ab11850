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
	"github.com/maliky/tuth-sub000/pkg/redis"
)

// ── 学年/学期模块业务错误 ──

var (
	ErrAcademicYearNotFound   = errors.New("学年不存在")
	ErrAcademicYearStartMonth = errors.New("学年须在 7 月至 10 月之间开始")
	ErrAcademicYearExists     = errors.New("该起始年度的学年已存在")
	ErrSemesterNotFound       = errors.New("学期不存在")
	ErrSemesterDateInvalid    = errors.New("结束日期必须晚于开始日期")
	ErrSubperiodOutOfRange    = errors.New("子周期必须完整落在父周期之内")
	ErrSubperiodOverlap       = errors.New("子周期与同级周期重叠")
	ErrSemesterStatusInvalid  = errors.New("非法的学期状态")
	ErrTermNotFound           = errors.New("学段不存在")
)

// currentSemesterTTL 当前学期缓存时长；状态变更时主动失效，过期只是兜底
const currentSemesterTTL = 12 * time.Hour

// validateSubperiod 子周期校验：先后顺序、父区间包含（含两端）、与兄弟区间半开重叠
func validateSubperiod(start, end, parentStart, parentEnd time.Time, siblings [][2]time.Time) error {
	if !end.After(start) {
		return ErrSemesterDateInvalid
	}
	if start.Before(parentStart) || end.After(parentEnd) {
		return ErrSubperiodOutOfRange
	}
	for _, sib := range siblings {
		if start.Before(sib[1]) && end.After(sib[0]) {
			return ErrSubperiodOverlap
		}
	}
	return nil
}

// CalendarService 学年/学期/学段业务接口
type CalendarService interface {
	CreateAcademicYear(ctx context.Context, req *dto.CreateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error)
	GetAcademicYear(ctx context.Context, id string) (*dto.AcademicYearResponse, error)
	ListAcademicYears(ctx context.Context) ([]dto.AcademicYearResponse, error)

	CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error)
	GetSemester(ctx context.Context, id string) (*dto.SemesterResponse, error)
	GetCurrentSemester(ctx context.Context) (*dto.SemesterResponse, error)
	ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error)
	SetSemesterStatus(ctx context.Context, id string, req *dto.SetSemesterStatusRequest, callerID string) (*dto.SemesterResponse, error)
	IsRegistrationOpen(ctx context.Context, semesterID string) (bool, error)

	CreateTerm(ctx context.Context, req *dto.CreateTermRequest, callerID string) (*dto.TermResponse, error)
	ListTerms(ctx context.Context, semesterID string) ([]dto.TermResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	status StatusService
	cache  *redis.Client
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, status StatusService, cache *redis.Client, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, status: status, cache: cache, logger: logger}
}

// ────────────────────── 学年 ──────────────────────

func (s *calendarService) CreateAcademicYear(ctx context.Context, req *dto.CreateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	if start.Month() < time.July || start.Month() > time.October {
		return nil, ErrAcademicYearStartMonth
	}

	code := model.AcademicYearCode(start)
	if _, err := s.repo.AcademicYear.GetByCode(ctx, code); err == nil {
		return nil, ErrAcademicYearExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询学年失败", zap.Error(err))
		return nil, err
	}

	year := &model.AcademicYear{
		Code:      code,
		StartDate: start,
		EndDate:   model.AcademicYearEnd(start),
	}
	year.CreatedBy = &callerID
	year.UpdatedBy = &callerID

	if err := s.repo.AcademicYear.Create(ctx, year); err != nil {
		s.logger.Error("创建学年失败", zap.Error(err))
		return nil, err
	}

	return s.toAcademicYearResponse(year), nil
}

func (s *calendarService) GetAcademicYear(ctx context.Context, id string) (*dto.AcademicYearResponse, error) {
	year, err := s.repo.AcademicYear.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toAcademicYearResponse(year), nil
}

func (s *calendarService) ListAcademicYears(ctx context.Context) ([]dto.AcademicYearResponse, error) {
	years, err := s.repo.AcademicYear.List(ctx)
	if err != nil {
		s.logger.Error("列出学年失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AcademicYearResponse, 0, len(years))
	for i := range years {
		result = append(result, *s.toAcademicYearResponse(&years[i]))
	}
	return result, nil
}

// ────────────────────── 学期 ──────────────────────

func (s *calendarService) CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest, callerID string) (*dto.SemesterResponse, error) {
	year, err := s.repo.AcademicYear.GetByID(ctx, req.AcademicYearID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		return nil, err
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}

	siblings := make([][2]time.Time, 0, len(year.Semesters))
	for _, sib := range year.Semesters {
		siblings = append(siblings, [2]time.Time{sib.StartDate, sib.EndDate})
	}
	if err := validateSubperiod(start, end, year.StartDate, year.EndDate, siblings); err != nil {
		return nil, err
	}

	semester := &model.Semester{
		AcademicYearID: year.AcademicYearID,
		Number:         req.Number,
		StatusCode:     model.SemesterStatusPlanning,
		StartDate:      start,
		EndDate:        end,
	}
	semester.CreatedBy = &callerID
	semester.UpdatedBy = &callerID

	if err := s.repo.Semester.Create(ctx, semester); err != nil {
		s.logger.Error("创建学期失败", zap.Error(err))
		return nil, err
	}
	semester.AcademicYear = year

	return s.toSemesterResponse(semester), nil
}

func (s *calendarService) GetSemester(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toSemesterResponse(semester), nil
}

// GetCurrentSemester 当前学期：优先 redis 缓存，miss 时查库并回填
func (s *calendarService) GetCurrentSemester(ctx context.Context) (*dto.SemesterResponse, error) {
	if s.cache != nil {
		if id, err := s.cache.GetCachedCurrentSemester(ctx); err == nil && id != "" {
			if semester, err := s.repo.Semester.GetByID(ctx, id); err == nil {
				return s.toSemesterResponse(semester), nil
			}
		}
	}

	semester, err := s.repo.Semester.GetCurrent(ctx, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询当前学期失败", zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheCurrentSemester(ctx, semester.SemesterID, currentSemesterTTL); err != nil {
			s.logger.Warn("缓存当前学期失败", zap.Error(err))
		}
	}

	return s.toSemesterResponse(semester), nil
}

func (s *calendarService) ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("列出学期失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *s.toSemesterResponse(&semesters[i]))
	}
	return result, nil
}

// SetSemesterStatus 推进学期状态并写入状态历史；当前学期缓存随之失效
func (s *calendarService) SetSemesterStatus(ctx context.Context, id string, req *dto.SetSemesterStatusRequest, callerID string) (*dto.SemesterResponse, error) {
	if !model.StatusAllowed(model.ContentKindSemester, req.Status) {
		return nil, ErrSemesterStatusInvalid
	}

	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		semester.StatusCode = req.Status
		semester.UpdatedBy = &callerID
		if err := txRepo.Semester.Update(ctx, semester); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindSemester, semester.SemesterID, req.Status, callerID, "")
	})
	if err != nil {
		s.logger.Error("推进学期状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCurrentSemester(ctx); err != nil {
			s.logger.Warn("失效学期缓存失败", zap.Error(err))
		}
	}

	return s.toSemesterResponse(semester), nil
}

func (s *calendarService) IsRegistrationOpen(ctx context.Context, semesterID string) (bool, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrSemesterNotFound
		}
		return false, err
	}
	return semester.IsRegistrationOpen(), nil
}

// ────────────────────── 学段 ──────────────────────

func (s *calendarService) CreateTerm(ctx context.Context, req *dto.CreateTermRequest, callerID string) (*dto.TermResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, ErrSemesterDateInvalid
	}

	siblings := make([][2]time.Time, 0, len(semester.Terms))
	for _, sib := range semester.Terms {
		siblings = append(siblings, [2]time.Time{sib.StartDate, sib.EndDate})
	}
	if err := validateSubperiod(start, end, semester.StartDate, semester.EndDate, siblings); err != nil {
		return nil, err
	}

	term := &model.Term{
		SemesterID: semester.SemesterID,
		Number:     req.Number,
		StartDate:  start,
		EndDate:    end,
	}
	term.CreatedBy = &callerID
	term.UpdatedBy = &callerID

	if err := s.repo.Term.Create(ctx, term); err != nil {
		s.logger.Error("创建学段失败", zap.Error(err))
		return nil, err
	}
	term.Semester = semester

	return s.toTermResponse(term), nil
}

func (s *calendarService) ListTerms(ctx context.Context, semesterID string) ([]dto.TermResponse, error) {
	terms, err := s.repo.Term.ListBySemester(ctx, semesterID)
	if err != nil {
		s.logger.Error("列出学段失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TermResponse, 0, len(terms))
	for i := range terms {
		result = append(result, *s.toTermResponse(&terms[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *calendarService) toAcademicYearResponse(year *model.AcademicYear) *dto.AcademicYearResponse {
	resp := &dto.AcademicYearResponse{
		ID:        year.AcademicYearID,
		Code:      year.Code,
		LongCode:  year.LongCode(),
		StartDate: year.StartDate.Format("2006-01-02"),
		EndDate:   year.EndDate.Format("2006-01-02"),
	}
	for i := range year.Semesters {
		year.Semesters[i].AcademicYear = year
		resp.Semesters = append(resp.Semesters, *s.toSemesterResponse(&year.Semesters[i]))
	}
	return resp
}

func (s *calendarService) toSemesterResponse(semester *model.Semester) *dto.SemesterResponse {
	resp := &dto.SemesterResponse{
		ID:             semester.SemesterID,
		Code:           semester.Code(),
		AcademicYearID: semester.AcademicYearID,
		Number:         semester.Number,
		Status:         semester.StatusCode,
		StartDate:      semester.StartDate.Format("2006-01-02"),
		EndDate:        semester.EndDate.Format("2006-01-02"),
	}
	if semester.AcademicYear != nil {
		resp.AcademicYearCode = semester.AcademicYear.Code
	}
	return resp
}

func (s *calendarService) toTermResponse(term *model.Term) *dto.TermResponse {
	return &dto.TermResponse{
		ID:         term.TermID,
		Code:       term.Code(),
		SemesterID: term.SemesterID,
		Number:     term.Number,
		StartDate:  term.StartDate.Format("2006-01-02"),
		EndDate:    term.EndDate.Format("2006-01-02"),
	}
}
