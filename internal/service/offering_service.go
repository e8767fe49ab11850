package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 开课模块业务错误 ──

var (
	ErrSectionNotFound  = errors.New("班次不存在")
	ErrSessionNotFound  = errors.New("上课时段不存在")
	ErrSeatsBelowTaken  = errors.New("座位上限不能低于已占座位数")
	ErrSessionTimeIll   = errors.New("时段起止时间非法")
	ErrRoomConflict     = errors.New("该教室在此时段已被占用")
	ErrSessionDuplicate = errors.New("该班次已有相同时段")
)

// OfferingService 开课班次与上课时段业务接口
type OfferingService interface {
	CreateSection(ctx context.Context, req *dto.CreateSectionRequest, callerID string) (*dto.SectionResponse, error)
	GetSection(ctx context.Context, id string) (*dto.SectionResponse, error)
	ListSections(ctx context.Context, semesterID string, page *dto.PaginationRequest) (*dto.PagedResponse[dto.SectionResponse], error)
	UpdateSection(ctx context.Context, id string, req *dto.UpdateSectionRequest, callerID string) (*dto.SectionResponse, error)

	AddSession(ctx context.Context, sectionID string, req *dto.CreateSessionRequest, callerID string) (*dto.SessionResponse, error)
	RemoveSession(ctx context.Context, sessionID string) error

	Roster(ctx context.Context, sectionID string) ([]dto.RosterEntry, error)
}

type offeringService struct {
	repo   *repository.Repository
	spaces SpacesService
	logger *zap.Logger
}

// NewOfferingService 创建 OfferingService 实例
func NewOfferingService(repo *repository.Repository, spaces SpacesService, logger *zap.Logger) OfferingService {
	return &offeringService{repo: repo, spaces: spaces, logger: logger}
}

// ────────────────────── 班次 ──────────────────────

// CreateSection 建班次；班次号在 (course, semester) 内加锁自增
func (s *offeringService) CreateSection(ctx context.Context, req *dto.CreateSectionRequest, callerID string) (*dto.SectionResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	semester, err := s.repo.Semester.GetByID(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}

	maxSeats := req.MaxSeats
	if maxSeats == 0 {
		maxSeats = model.SectionDefaultSeats
	}
	if maxSeats < model.SectionMinSeats {
		maxSeats = model.SectionMinSeats
	}

	var section *model.Section
	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		number, err := txRepo.Section.NextNumber(ctx, course.CourseID, semester.SemesterID)
		if err != nil {
			return err
		}

		section = &model.Section{
			CourseID:   course.CourseID,
			SemesterID: semester.SemesterID,
			Number:     number,
			MaxSeats:   maxSeats,
		}
		if req.PrimaryFacultyID != "" {
			section.PrimaryFacultyID = &req.PrimaryFacultyID
		}
		section.CreatedBy = &callerID
		section.UpdatedBy = &callerID
		return txRepo.Section.Create(ctx, section)
	})
	if err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}
	section.Course = course
	section.Semester = semester
	return toSectionResponse(section), nil
}

func (s *offeringService) GetSection(ctx context.Context, id string) (*dto.SectionResponse, error) {
	section, err := s.repo.Section.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return toSectionResponse(section), nil
}

func (s *offeringService) ListSections(ctx context.Context, semesterID string, page *dto.PaginationRequest) (*dto.PagedResponse[dto.SectionResponse], error) {
	sections, total, err := s.repo.Section.List(ctx, semesterID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("列出班次失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.SectionResponse, 0, len(sections))
	for i := range sections {
		items = append(items, *toSectionResponse(&sections[i]))
	}
	return dto.NewPagedResponse(items, total, page.GetPage(), page.GetPageSize()), nil
}

func (s *offeringService) UpdateSection(ctx context.Context, id string, req *dto.UpdateSectionRequest, callerID string) (*dto.SectionResponse, error) {
	section, err := s.repo.Section.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	if req.MaxSeats != nil {
		if *req.MaxSeats < section.SeatsTaken {
			return nil, ErrSeatsBelowTaken
		}
		section.MaxSeats = *req.MaxSeats
	}
	if req.PrimaryFacultyID != nil {
		section.PrimaryFacultyID = req.PrimaryFacultyID
	}
	section.UpdatedBy = &callerID

	if err := s.repo.Section.Update(ctx, section); err != nil {
		s.logger.Error("更新班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSectionResponse(section), nil
}

// ────────────────────── 上课时段 ──────────────────────

// AddSession 给班次加时段：同教室同星期按左闭右开区间查冲突，TBA 不参与
func (s *offeringService) AddSession(ctx context.Context, sectionID string, req *dto.CreateSessionRequest, callerID string) (*dto.SessionResponse, error) {
	section, err := s.repo.Section.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	weekday := req.Weekday
	start, end := req.StartTime, req.EndTime
	if weekday != model.WeekdayTBA {
		if start == "" || end == "" || start >= end {
			return nil, ErrSessionTimeIll
		}
	} else {
		start, end = "", ""
	}

	var room *model.Room
	if req.RoomID != "" {
		room, err = s.repo.Room.GetByID(ctx, req.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
	} else {
		tba, err := s.spaces.EnsureTBA(ctx)
		if err != nil {
			return nil, err
		}
		room, err = s.repo.Room.GetByID(ctx, tba.ID)
		if err != nil {
			return nil, err
		}
	}

	// 教室占用冲突：实际教室 + 实际时段才检查
	if !room.IsTBA() && weekday != model.WeekdayTBA {
		occupied, err := s.repo.Session.ListByRoomAndWeekday(ctx, room.RoomID, weekday, section.SemesterID)
		if err != nil {
			return nil, err
		}
		for _, other := range occupied {
			if other.Schedule == nil || other.Schedule.IsTBA() {
				continue
			}
			if start < other.Schedule.EndTime && end > other.Schedule.StartTime {
				return nil, ErrRoomConflict
			}
		}
	}

	var session *model.Session
	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		schedule, err := txRepo.Schedule.GetOrCreate(ctx, weekday, start, end)
		if err != nil {
			return err
		}

		existing, err := txRepo.Session.ListBySection(ctx, section.SectionID)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if other.RoomID == room.RoomID && other.ScheduleID == schedule.ScheduleID {
				return ErrSessionDuplicate
			}
		}

		session = &model.Session{
			SectionID:  section.SectionID,
			RoomID:     room.RoomID,
			ScheduleID: schedule.ScheduleID,
		}
		if req.TermID != "" {
			session.TermID = &req.TermID
		}
		session.CreatedBy = &callerID
		session.UpdatedBy = &callerID
		if err := txRepo.Session.Create(ctx, session); err != nil {
			return err
		}
		session.Schedule = schedule
		session.Room = room
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionDuplicate) {
			s.logger.Error("添加时段失败", zap.Error(err))
		}
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *offeringService) RemoveSession(ctx context.Context, sessionID string) error {
	if _, err := s.repo.Session.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return s.repo.Session.Delete(ctx, sessionID)
}

// ────────────────────── 名单 ──────────────────────

// Roster 班次正式名单（registration 完成态）
func (s *offeringService) Roster(ctx context.Context, sectionID string) ([]dto.RosterEntry, error) {
	if _, err := s.repo.Section.GetByID(ctx, sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	registrations, err := s.repo.Registration.Roster(ctx, sectionID)
	if err != nil {
		s.logger.Error("读取班次名单失败", zap.String("section_id", sectionID), zap.Error(err))
		return nil, err
	}

	roster := make([]dto.RosterEntry, 0, len(registrations))
	for _, reg := range registrations {
		entry := dto.RosterEntry{Status: reg.StatusCode}
		if reg.Student != nil {
			entry.StudentNo = reg.Student.StudentNo
			entry.LongName = reg.Student.LongName()
			if reg.Student.User != nil {
				entry.Email = reg.Student.User.Email
			}
		}
		roster = append(roster, entry)
	}
	return roster, nil
}

// ── 内部辅助方法 ──

func toSectionResponse(section *model.Section) *dto.SectionResponse {
	resp := &dto.SectionResponse{
		ID:         section.SectionID,
		ShortCode:  section.ShortCode(),
		LongCode:   section.LongCode(),
		Number:     section.Number,
		CourseID:   section.CourseID,
		SemesterID: section.SemesterID,
		MaxSeats:   section.MaxSeats,
		SeatsTaken: section.SeatsTaken,
		SeatsLeft:  section.SeatsLeft(),
	}
	if section.Course != nil {
		resp.CourseCode = section.Course.ShortCode()
		resp.CourseTitle = section.Course.Title
		resp.CreditHours = section.Course.CreditHours
	}
	if section.PrimaryFaculty != nil {
		resp.Faculty = section.PrimaryFaculty.LongName()
	}
	for i := range section.Sessions {
		resp.Sessions = append(resp.Sessions, *toSessionResponse(&section.Sessions[i]))
	}
	return resp
}

func toSessionResponse(session *model.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{ID: session.SessionID}
	if session.Schedule != nil {
		resp.Weekday = session.Schedule.Weekday
		resp.DayName = session.Schedule.WeekdayName()
		resp.StartTime = session.Schedule.StartTime
		resp.EndTime = session.Schedule.EndTime
	}
	if session.Room != nil {
		resp.Room = session.Room.FullCode()
	}
	if session.TermID != nil {
		resp.TermID = *session.TermID
	}
	return resp
}
