package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 导入模块业务错误 ──

var (
	ErrImportNoData      = errors.New("文件无数据行（第一行为表头）")
	ErrImportBadHeader   = errors.New("表头缺少必需列")
	ErrImportFileKind    = errors.New("不支持的文件类型")
	errImportDryRunAbort = errors.New("干跑完成，回滚")
)

// ImporterService 批量导入业务接口
// 每个文件一个事务：任一行失败整文件回滚；干跑同路执行最后回滚
type ImporterService interface {
	// ImportResources 扫描目录下的 CSV，按阶段导入课程/教室/学生等基础数据
	ImportResources(ctx context.Context, dir string, dryRun bool) (*dto.ImportSummary, error)
	// ImportWorkbook 导入排课工作簿：每个工作表一个学期的班次与时段
	ImportWorkbook(ctx context.Context, path string, dryRun bool) (*dto.ImportSummary, error)
	// ImportSchedule 导入单个排课 CSV
	ImportSchedule(ctx context.Context, path string, dryRun bool) (*dto.ImportSummary, error)
	// ImportLegacyRegistrations 导入历史注册/成绩 CSV
	ImportLegacyRegistrations(ctx context.Context, path string, dryRun bool) (*dto.ImportSummary, error)
}

type importerService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewImporterService 创建 ImporterService 实例
func NewImporterService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ImporterService {
	return &importerService{cfg: cfg, repo: repo, logger: logger}
}

// table 统一的表格载体：CSV 与 XLSX 都折算成表头 + 行
type table struct {
	header map[string]int
	rows   [][]string
}

// cell 按列名取值，列缺失或行短于表头时返回空串
func (t *table) cell(row []string, column string) string {
	idx, ok := t.header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (t *table) has(columns ...string) bool {
	for _, c := range columns {
		if _, ok := t.header[c]; !ok {
			return false
		}
	}
	return true
}

// ────────────────────── 入口 ──────────────────────

func (s *importerService) ImportResources(ctx context.Context, dir string, dryRun bool) (*dto.ImportSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	summary := &dto.ImportSummary{File: dir, DryRun: dryRun}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		phase, err := s.importFile(ctx, path, dryRun)
		if err != nil {
			return summary, fmt.Errorf("导入 %s 失败: %w", entry.Name(), err)
		}
		summary.Phases = append(summary.Phases, *phase)
		s.logPhase(phase)
	}
	return summary, nil
}

func (s *importerService) ImportSchedule(ctx context.Context, path string, dryRun bool) (*dto.ImportSummary, error) {
	summary := &dto.ImportSummary{File: path, DryRun: dryRun}
	phase, err := s.importFile(ctx, path, dryRun)
	if err != nil {
		return summary, err
	}
	summary.Phases = append(summary.Phases, *phase)
	s.logPhase(phase)
	return summary, nil
}

func (s *importerService) ImportWorkbook(ctx context.Context, path string, dryRun bool) (*dto.ImportSummary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法解析工作簿: %w", err)
	}
	defer f.Close()

	summary := &dto.ImportSummary{File: path, DryRun: dryRun}
	for _, sheet := range f.GetSheetList() {
		excelRows, err := f.GetRows(sheet)
		if err != nil {
			return summary, fmt.Errorf("读取工作表 %s 失败: %w", sheet, err)
		}
		tbl, err := tableFromRows(excelRows)
		if err != nil {
			if errors.Is(err, ErrImportNoData) {
				continue // 空表跳过
			}
			return summary, err
		}

		phase := &dto.ImportPhaseSummary{Phase: sheet}
		if err := s.runPhase(ctx, dryRun, func(txRepo *repository.Repository) error {
			return s.ingestSections(ctx, txRepo, tbl, phase)
		}); err != nil {
			return summary, fmt.Errorf("工作表 %s 导入失败: %w", sheet, err)
		}
		summary.Phases = append(summary.Phases, *phase)
		s.logPhase(phase)
	}
	return summary, nil
}

func (s *importerService) ImportLegacyRegistrations(ctx context.Context, path string, dryRun bool) (*dto.ImportSummary, error) {
	if path == "" {
		path = s.cfg.Registry.LegacyRegistrationCSV
	}
	tbl, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	phase := &dto.ImportPhaseSummary{Phase: "legacy_registrations"}
	if err := s.runPhase(ctx, dryRun, func(txRepo *repository.Repository) error {
		return s.ingestLegacyRegistrations(ctx, txRepo, tbl, phase)
	}); err != nil {
		return nil, err
	}
	s.logPhase(phase)
	return &dto.ImportSummary{
		File:   path,
		DryRun: dryRun,
		Phases: []dto.ImportPhaseSummary{*phase},
	}, nil
}

// ────────────────────── 单文件调度 ──────────────────────

// importFile 按表头识别文件种类并走对应阶段
func (s *importerService) importFile(ctx context.Context, path string, dryRun bool) (*dto.ImportPhaseSummary, error) {
	tbl, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	phase := &dto.ImportPhaseSummary{Phase: filepath.Base(path)}
	var ingest func(txRepo *repository.Repository) error
	switch {
	case tbl.has("course_dept", "course_no"):
		ingest = func(txRepo *repository.Repository) error { return s.ingestCourses(ctx, txRepo, tbl, phase) }
	case tbl.has("weekday", "location"):
		ingest = func(txRepo *repository.Repository) error { return s.ingestSections(ctx, txRepo, tbl, phase) }
	case tbl.has("student_id", "student_name"):
		ingest = func(txRepo *repository.Repository) error { return s.ingestStudents(ctx, txRepo, tbl, phase) }
	case tbl.has("location"):
		ingest = func(txRepo *repository.Repository) error { return s.ingestRooms(ctx, txRepo, tbl, phase) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrImportFileKind, filepath.Base(path))
	}

	if err := s.runPhase(ctx, dryRun, ingest); err != nil {
		return nil, err
	}
	return phase, nil
}

// runPhase 一个阶段一个事务；干跑以哨兵错误触发回滚
func (s *importerService) runPhase(ctx context.Context, dryRun bool, fn func(txRepo *repository.Repository) error) error {
	err := s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := fn(txRepo); err != nil {
			return err
		}
		if dryRun {
			return errImportDryRunAbort
		}
		return nil
	})
	if errors.Is(err, errImportDryRunAbort) {
		return nil
	}
	return err
}

// ────────────────────── 各阶段 ──────────────────────

func (s *importerService) ingestCourses(ctx context.Context, txRepo *repository.Repository, tbl *table, phase *dto.ImportPhaseSummary) error {
	resolver := NewResolver(txRepo, s.cfg.Registry.DefaultCollege)
	for _, row := range tbl.rows {
		phase.Rows++
		token := MakeCourseCode(tbl.cell(row, "course_dept"), tbl.cell(row, "course_no"), tbl.cell(row, "college_code"))
		credits, _ := strconv.Atoi(tbl.cell(row, "credit_hours"))

		if _, err := resolver.Course(ctx, token, tbl.cell(row, "college_code"),
			tbl.cell(row, "course_title"), credits); err != nil {
			phase.Errors++
			return err
		}
		phase.Created++
	}
	return nil
}

func (s *importerService) ingestRooms(ctx context.Context, txRepo *repository.Repository, tbl *table, phase *dto.ImportPhaseSummary) error {
	resolver := NewResolver(txRepo, s.cfg.Registry.DefaultCollege)
	for _, row := range tbl.rows {
		phase.Rows++
		if _, err := resolver.Room(ctx, tbl.cell(row, "location")); err != nil {
			phase.Errors++
			return err
		}
		phase.Created++
	}
	return nil
}

// ingestSections 班次 + 时段：逐行解析学期、课程、教员、教室与周课时
func (s *importerService) ingestSections(ctx context.Context, txRepo *repository.Repository, tbl *table, phase *dto.ImportPhaseSummary) error {
	resolver := NewResolver(txRepo, s.cfg.Registry.DefaultCollege)
	for _, row := range tbl.rows {
		phase.Rows++
		if err := s.ingestSectionRow(ctx, txRepo, resolver, tbl, row, phase); err != nil {
			phase.Errors++
			return err
		}
	}
	return nil
}

func (s *importerService) ingestSectionRow(ctx context.Context, txRepo *repository.Repository, resolver *Resolver, tbl *table, row []string, phase *dto.ImportPhaseSummary) error {
	var semester *model.Semester
	var err error
	if code := tbl.cell(row, "semester_code"); code != "" {
		semester, err = resolver.Semester(ctx, code)
	} else {
		number, convErr := strconv.Atoi(tbl.cell(row, "semester_no"))
		if convErr != nil {
			return fmt.Errorf("%w: semester_no", ErrSemTokenInvalid)
		}
		semester, err = resolver.SemesterByNumber(ctx, tbl.cell(row, "academic_year"), number)
	}
	if err != nil {
		return err
	}

	courseToken := tbl.cell(row, "course_name")
	if courseToken == "" {
		courseToken = MakeCourseCode(tbl.cell(row, "course_dept"), tbl.cell(row, "course_no"), tbl.cell(row, "college_code"))
	}
	course, err := resolver.Course(ctx, courseToken, tbl.cell(row, "college_code"), "", 0)
	if err != nil {
		return err
	}

	number, _ := strconv.Atoi(tbl.cell(row, "section_no"))
	section, err := txRepo.Section.GetByNumber(ctx, course.CourseID, semester.SemesterID, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if number == 0 {
			number, err = txRepo.Section.NextNumber(ctx, course.CourseID, semester.SemesterID)
			if err != nil {
				return err
			}
		}
		section = &model.Section{
			CourseID:   course.CourseID,
			SemesterID: semester.SemesterID,
			Number:     number,
			MaxSeats:   model.SectionDefaultSeats,
		}
		if facultyName := tbl.cell(row, "faculty"); facultyName != "" {
			faculty, err := resolver.Faculty(ctx, facultyName, &course.CollegeID)
			if err != nil {
				return err
			}
			section.PrimaryFacultyID = &faculty.FacultyID
		}
		if err := txRepo.Section.Create(ctx, section); err != nil {
			return err
		}
		phase.Created++
	} else if err != nil {
		return err
	} else {
		phase.Skipped++
	}

	// 行内带周课时信息时补时段
	if weekdayToken := tbl.cell(row, "weekday"); weekdayToken != "" {
		weekday, err := resolver.Weekday(weekdayToken)
		if err != nil {
			return err
		}
		room, err := resolver.Room(ctx, tbl.cell(row, "location"))
		if err != nil {
			return err
		}
		if room == nil {
			return nil // 裸楼宇记号只建楼宇
		}
		schedule, err := txRepo.Schedule.GetOrCreate(ctx, weekday,
			tbl.cell(row, "start_time"), tbl.cell(row, "end_time"))
		if err != nil {
			return err
		}
		session := &model.Session{
			SectionID:  section.SectionID,
			RoomID:     room.RoomID,
			ScheduleID: schedule.ScheduleID,
		}
		if err := txRepo.Session.Create(ctx, session); err != nil {
			return err
		}
	}
	return nil
}

func (s *importerService) ingestStudents(ctx context.Context, txRepo *repository.Repository, tbl *table, phase *dto.ImportPhaseSummary) error {
	resolver := NewResolver(txRepo, s.cfg.Registry.DefaultCollege)
	for _, row := range tbl.rows {
		phase.Rows++

		var curriculumID string
		if major := tbl.cell(row, "major"); major != "" {
			curricula, err := txRepo.Curriculum.List(ctx)
			if err != nil {
				phase.Errors++
				return err
			}
			for i := range curricula {
				if strings.EqualFold(curricula[i].Title, major) {
					curriculumID = curricula[i].CurriculumID
					break
				}
			}
		}
		if curriculumID == "" {
			phase.Skipped++
			s.logger.Warn("学生行缺少可识别的培养方案，跳过",
				zap.String("student_id", tbl.cell(row, "student_id")))
			continue
		}

		var currentSemesterID *string
		if code := tbl.cell(row, "current_enrolled_sem"); code != "" {
			semester, err := resolver.Semester(ctx, code)
			if err != nil {
				phase.Errors++
				return err
			}
			currentSemesterID = &semester.SemesterID
		}

		if _, err := resolver.Student(ctx, tbl.cell(row, "student_id"),
			tbl.cell(row, "student_name"), curriculumID, currentSemesterID); err != nil {
			phase.Errors++
			return err
		}
		phase.Created++
	}
	return nil
}

// ingestLegacyRegistrations 历史注册 + 可选成绩；未知学生/班次整文件失败
func (s *importerService) ingestLegacyRegistrations(ctx context.Context, txRepo *repository.Repository, tbl *table, phase *dto.ImportPhaseSummary) error {
	resolver := NewResolver(txRepo, s.cfg.Registry.DefaultCollege)
	for _, row := range tbl.rows {
		phase.Rows++

		student, err := txRepo.Student.GetByStudentNo(ctx, tbl.cell(row, "student_id"))
		if err != nil {
			phase.Errors++
			return fmt.Errorf("未知学生 %s: %w", tbl.cell(row, "student_id"), err)
		}

		number, convErr := strconv.Atoi(tbl.cell(row, "semester_no"))
		if convErr != nil {
			phase.Errors++
			return fmt.Errorf("%w: semester_no", ErrSemTokenInvalid)
		}
		semester, err := resolver.SemesterByNumber(ctx, tbl.cell(row, "academic_year"), number)
		if err != nil {
			phase.Errors++
			return err
		}

		courseToken := MakeCourseCode(tbl.cell(row, "course_code"), tbl.cell(row, "course_no"), "")
		course, err := resolver.Course(ctx, courseToken, "", "", 0)
		if err != nil {
			phase.Errors++
			return err
		}

		sectionNo, _ := strconv.Atoi(tbl.cell(row, "section_no"))
		if sectionNo == 0 {
			sectionNo = 1
		}
		section, err := txRepo.Section.GetByNumber(ctx, course.CourseID, semester.SemesterID, sectionNo)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			section = &model.Section{
				CourseID:   course.CourseID,
				SemesterID: semester.SemesterID,
				Number:     sectionNo,
				MaxSeats:   model.SectionDefaultSeats,
			}
			if err := txRepo.Section.Create(ctx, section); err != nil {
				phase.Errors++
				return err
			}
		} else if err != nil {
			phase.Errors++
			return err
		}

		// 历史拼写在导入边界归一，不进核心枚举
		statusCode := normalizeLegacyStatus(tbl.cell(row, "status"))
		if _, err := txRepo.Registration.GetByStudentAndSection(ctx, student.StudentID, section.SectionID); err == nil {
			phase.Skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			phase.Errors++
			return err
		}

		registration := &model.Registration{
			StudentID:    student.StudentID,
			SectionID:    section.SectionID,
			StatusCode:   statusCode,
			RegisteredAt: time.Now(),
		}
		if err := txRepo.Registration.Create(ctx, registration); err != nil {
			phase.Errors++
			return err
		}
		phase.Created++

		// 成绩列存在时顺带录入
		if gradeCode := tbl.cell(row, "grade_code"); gradeCode != "" {
			numeric := decimal.Zero
			if points := tbl.cell(row, "points"); points != "" {
				if parsed, err := decimal.NewFromString(points); err == nil {
					numeric = parsed
				}
			}
			value, err := txRepo.Grade.GetOrCreateValue(ctx, &model.GradeValue{Code: gradeCode, Numeric: numeric})
			if err != nil {
				phase.Errors++
				return err
			}
			grade := &model.Grade{
				StudentID:    student.StudentID,
				SectionID:    section.SectionID,
				GradeValueID: value.GradeValueID,
			}
			if err := txRepo.Grade.Create(ctx, grade); err != nil {
				phase.Errors++
				return err
			}
		}
	}
	return nil
}

// ── 内部辅助方法 ──

// normalizeLegacyStatus 历史注册状态拼写映射到当前枚举，未知归为 pending_payment
func normalizeLegacyStatus(raw string) string {
	code := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_"))
	switch code {
	case "complete", "completed", "done":
		return model.RegistrationCompleted
	case "approved", "approve":
		return model.RegistrationApproved
	case "cleared", "financially_cleared":
		return model.RegistrationFinanciallyCleared
	default:
		if model.StatusAllowed(model.ContentKindRegistration, code) {
			return code
		}
		return model.RegistrationPendingPayment
	}
}

func readCSV(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	if strings.HasSuffix(path, ".tsv") {
		reader.Comma = '\t'
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return tableFromRows(rows)
}

func tableFromRows(rows [][]string) (*table, error) {
	if len(rows) < 2 {
		return nil, ErrImportNoData
	}
	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if len(header) == 0 {
		return nil, ErrImportBadHeader
	}
	return &table{header: header, rows: rows[1:]}, nil
}

func (s *importerService) logPhase(phase *dto.ImportPhaseSummary) {
	s.logger.Info("导入阶段完成",
		zap.String("phase", phase.Phase),
		zap.Int("rows", phase.Rows),
		zap.Int("created", phase.Created),
		zap.Int("skipped", phase.Skipped),
		zap.Int("errors", phase.Errors))
}
