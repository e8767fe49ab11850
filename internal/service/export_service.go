package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportSectionNotFound  = errors.New("班次不存在")
	ErrExportStudentNotFound  = errors.New("学生不存在")
	ErrExportSemesterNotFound = errors.New("学期不存在")
)

// ExportService 导出业务接口
type ExportService interface {
	// RosterXLSX 班次已完成注册名单，返回 xlsx 字节流与建议文件名
	RosterXLSX(ctx context.Context, sectionID string) ([]byte, string, error)
	// TimetableICS 学生某学期的周课表，按学期跨度展开为 iCalendar 周重复事件
	TimetableICS(ctx context.Context, studentID, semesterID string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── 名单导出 ──────────────────────

func (s *exportService) RosterXLSX(ctx context.Context, sectionID string) ([]byte, string, error) {
	section, err := s.repo.Section.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportSectionNotFound
		}
		return nil, "", err
	}
	registrations, err := s.repo.Registration.Roster(ctx, sectionID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"student_id", "student_name", "email", "status", "registered_at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for rowIdx, reg := range registrations {
		values := []any{
			studentNo(reg.Student),
			studentName(reg.Student),
			studentEmail(reg.Student),
			reg.StatusCode,
			reg.RegisteredAt.Format(time.RFC3339),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("生成名单文件失败: %w", err)
	}
	filename := fmt.Sprintf("roster_%s.xlsx", section.ShortCode())
	s.logger.Info("名单导出完成",
		zap.String("section_id", sectionID),
		zap.Int("students", len(registrations)))
	return buf.Bytes(), filename, nil
}

// ────────────────────── 课表导出 ──────────────────────

func (s *exportService) TimetableICS(ctx context.Context, studentID, semesterID string) ([]byte, string, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportStudentNotFound
		}
		return nil, "", err
	}
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportSemesterNotFound
		}
		return nil, "", err
	}
	registrations, err := s.repo.Registration.ListByStudentAndSemester(ctx, studentID, semesterID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Tubman University//Registry//EN")
	cal.SetName(fmt.Sprintf("%s %s", student.StudentNo, semester.Code()))

	events := 0
	for _, reg := range registrations {
		if reg.StatusCode != model.RegistrationCompleted {
			continue
		}
		sessions, err := s.repo.Session.ListBySection(ctx, reg.SectionID)
		if err != nil {
			return nil, "", err
		}
		for _, session := range sessions {
			if session.Schedule == nil || session.Schedule.Weekday == model.WeekdayTBA {
				continue
			}
			start, end, ok := sessionWindow(semester, session.Schedule)
			if !ok {
				continue
			}
			event := cal.AddEvent(fmt.Sprintf("%s@tubman.edu", session.SessionID))
			event.SetCreatedTime(time.Now())
			event.SetDtStampTime(time.Now())
			event.SetStartAt(start)
			event.SetEndAt(end)
			if reg.Section != nil && reg.Section.Course != nil {
				event.SetSummary(reg.Section.Course.Title)
			}
			if session.Room != nil {
				event.SetLocation(session.Room.FullCode())
			}
			event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;UNTIL=%s",
				semester.EndDate.UTC().Format("20060102T150405Z")))
			events++
		}
	}

	filename := fmt.Sprintf("timetable_%s_%s.ics", student.StudentNo, semester.Code())
	s.logger.Info("课表导出完成",
		zap.String("student_id", studentID),
		zap.String("semester", semester.Code()),
		zap.Int("events", events))
	return []byte(cal.Serialize()), filename, nil
}

// ── 内部辅助方法 ──

// sessionWindow 学期内该星期的首次上课时间窗口
func sessionWindow(semester *model.Semester, schedule *model.Schedule) (time.Time, time.Time, bool) {
	startClock, err := time.Parse("15:04", schedule.StartTime)
	if err != nil {
		if startClock, err = time.Parse("15:04:05", schedule.StartTime); err != nil {
			return time.Time{}, time.Time{}, false
		}
	}
	endClock, err := time.Parse("15:04", schedule.EndTime)
	if err != nil {
		if endClock, err = time.Parse("15:04:05", schedule.EndTime); err != nil {
			return time.Time{}, time.Time{}, false
		}
	}

	// 学期编码 0=TBA,1=Mon…6=Sat 对应 time.Weekday 的 Mon…Sat
	target := time.Weekday(schedule.Weekday)
	day := semester.StartDate
	for day.Weekday() != target {
		day = day.AddDate(0, 0, 1)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(),
		startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)
	end := time.Date(day.Year(), day.Month(), day.Day(),
		endClock.Hour(), endClock.Minute(), 0, 0, time.UTC)
	return start, end, true
}

func studentNo(student *model.Student) string {
	if student == nil {
		return ""
	}
	return student.StudentNo
}

func studentName(student *model.Student) string {
	if student == nil {
		return ""
	}
	return student.LongName()
}

func studentEmail(student *model.Student) string {
	if student == nil || student.User == nil {
		return ""
	}
	return student.User.Email
}
