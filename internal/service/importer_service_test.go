package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

func setupTestImporterService() (ImporterService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewImporterService(testRegistryConfig(), repo, zap.NewNop())
	return svc, repo
}

func writeImportFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入导入文件失败: %v", err)
	}
	return path
}

// ── 基础数据导入 ──

func TestImportResources_Courses(t *testing.T) {
	svc, repo := setupTestImporterService()
	ctx := context.Background()
	dir := t.TempDir()

	writeImportFile(t, dir, "courses.csv",
		"course_dept,course_no,course_title,credit_hours,college_code\n"+
			"ENGL,101,College English I,3,\n"+
			"MGT,301,Principles of Management,3,COBA\n")
	// 非 CSV 文件应被跳过
	writeImportFile(t, dir, "notes.txt", "ignore me")

	summary, err := svc.ImportResources(ctx, dir, false)
	if err != nil {
		t.Fatalf("ImportResources 应成功: %v", err)
	}
	if len(summary.Phases) != 1 {
		t.Fatalf("应只有一个阶段, 实际 %d", len(summary.Phases))
	}
	phase := summary.Phases[0]
	if phase.Rows != 2 || phase.Created != 2 || phase.Errors != 0 {
		t.Errorf("阶段摘要不符: %+v", phase)
	}

	// 无学院后缀的课程落到默认学院
	college, err := repo.College.GetByCode(ctx, model.DefaultCollegeCode)
	if err != nil {
		t.Fatalf("默认学院应已创建: %v", err)
	}
	dept, err := repo.Department.GetOrCreate(ctx, college.CollegeID, "ENGL", "ENGL")
	if err != nil {
		t.Fatalf("查询系失败: %v", err)
	}
	course, err := repo.Course.GetByDeptAndNumber(ctx, dept.DepartmentID, "101")
	if err != nil {
		t.Fatalf("课程应已创建: %v", err)
	}
	if course.Title != "College English I" || course.CreditHours != 3 {
		t.Errorf("课程字段不符: %+v", course)
	}
	if _, err := repo.College.GetByCode(ctx, "COBA"); err != nil {
		t.Errorf("带后缀的课程应建出 COBA: %v", err)
	}
}

func TestImportResources_UnknownHeader(t *testing.T) {
	svc, _ := setupTestImporterService()
	dir := t.TempDir()
	writeImportFile(t, dir, "mystery.csv", "foo,bar\n1,2\n")

	_, err := svc.ImportResources(context.Background(), dir, false)
	if !errors.Is(err, ErrImportFileKind) {
		t.Errorf("未知表头应返回 ErrImportFileKind, 实际 %v", err)
	}
}

func TestImportResources_Rooms(t *testing.T) {
	svc, repo := setupTestImporterService()
	ctx := context.Background()
	dir := t.TempDir()
	writeImportFile(t, dir, "rooms.csv", "location\nMAIN-101\nMAIN-102\n")

	summary, err := svc.ImportResources(ctx, dir, false)
	if err != nil {
		t.Fatalf("ImportResources 应成功: %v", err)
	}
	if summary.Phases[0].Created != 2 {
		t.Errorf("应建两间教室: %+v", summary.Phases[0])
	}
	space, err := repo.Space.GetOrCreateByCode(ctx, "MAIN", "MAIN")
	if err != nil {
		t.Fatalf("楼宇应已创建: %v", err)
	}
	if _, err := repo.Room.GetOrCreate(ctx, space.SpaceID, "101"); err != nil {
		t.Errorf("教室应已创建: %v", err)
	}
}

// ── 排课导入 ──

func TestImportSchedule(t *testing.T) {
	svc, repo := setupTestImporterService()
	ctx := context.Background()
	dir := t.TempDir()

	path := writeImportFile(t, dir, "schedule.csv",
		"academic_year,semester_no,course_dept,course_no,section_no,faculty,weekday,location,start_time,end_time\n"+
			"25-26,1,ENGL,101,1,John Doe,Tuesday,MAIN-101,08:00,09:30\n")

	summary, err := svc.ImportSchedule(ctx, path, false)
	if err != nil {
		t.Fatalf("ImportSchedule 应成功: %v", err)
	}
	if summary.Phases[0].Created != 1 {
		t.Fatalf("应建一个班次: %+v", summary.Phases[0])
	}

	year, err := repo.AcademicYear.GetByCode(ctx, "25-26")
	if err != nil {
		t.Fatalf("学年应已创建: %v", err)
	}
	semester, err := repo.Semester.GetByYearAndNumber(ctx, year.AcademicYearID, 1)
	if err != nil {
		t.Fatalf("学期应已创建: %v", err)
	}
	college, _ := repo.College.GetByCode(ctx, model.DefaultCollegeCode)
	dept, _ := repo.Department.GetOrCreate(ctx, college.CollegeID, "ENGL", "ENGL")
	course, err := repo.Course.GetByDeptAndNumber(ctx, dept.DepartmentID, "101")
	if err != nil {
		t.Fatalf("课程应已创建: %v", err)
	}
	section, err := repo.Section.GetByNumber(ctx, course.CourseID, semester.SemesterID, 1)
	if err != nil {
		t.Fatalf("班次应已创建: %v", err)
	}
	if section.PrimaryFacultyID == nil {
		t.Error("班次应绑定教员")
	}
	sessions, err := repo.Session.ListBySection(ctx, section.SectionID)
	if err != nil || len(sessions) != 1 {
		t.Errorf("应建一个上课时段, 实际 %d, err=%v", len(sessions), err)
	}

	// 同一行再导一遍：班次已存在计入跳过
	summary, err = svc.ImportSchedule(ctx, path, false)
	if err != nil {
		t.Fatalf("重复导入应成功: %v", err)
	}
	if summary.Phases[0].Skipped != 1 {
		t.Errorf("重复班次应计入跳过: %+v", summary.Phases[0])
	}
}

func TestImportSchedule_DryRun(t *testing.T) {
	svc, _ := setupTestImporterService()
	dir := t.TempDir()

	path := writeImportFile(t, dir, "schedule.csv",
		"academic_year,semester_no,course_dept,course_no,section_no,faculty,weekday,location,start_time,end_time\n"+
			"25-26,1,ENGL,101,1,,Monday,MAIN-101,10:00,11:30\n")

	summary, err := svc.ImportSchedule(context.Background(), path, true)
	if err != nil {
		t.Fatalf("干跑应成功: %v", err)
	}
	if !summary.DryRun || summary.Phases[0].Created != 1 {
		t.Errorf("干跑摘要不符: %+v", summary)
	}
}

func TestImportWorkbook(t *testing.T) {
	svc, _ := setupTestImporterService()
	dir := t.TempDir()
	path := filepath.Join(dir, "timetable.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"academic_year", "semester_no", "course_dept", "course_no", "section_no", "weekday", "location", "start_time", "end_time"},
		{"25-26", "1", "MATH", "107", "1", "Wednesday", "SCI-201", "14:00", "15:30"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			f.SetCellValue(sheet, cell, v)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("写入工作簿失败: %v", err)
	}
	f.Close()

	summary, err := svc.ImportWorkbook(context.Background(), path, false)
	if err != nil {
		t.Fatalf("ImportWorkbook 应成功: %v", err)
	}
	if len(summary.Phases) != 1 || summary.Phases[0].Phase != sheet {
		t.Fatalf("应按工作表出阶段: %+v", summary.Phases)
	}
	if summary.Phases[0].Created != 1 {
		t.Errorf("应建一个班次: %+v", summary.Phases[0])
	}
}

// ── 历史注册导入 ──

func TestImportLegacyRegistrations(t *testing.T) {
	svc, repo := setupTestImporterService()
	ctx := context.Background()
	dir := t.TempDir()

	student := &model.Student{StudentNo: "TU-STD0001", UserID: "usr-stu"}
	if err := repo.Student.Create(ctx, student); err != nil {
		t.Fatalf("预置学生失败: %v", err)
	}

	path := writeImportFile(t, dir, "legacy.csv",
		"student_id,academic_year,semester_no,course_code,course_no,section_no,status,grade_code,points\n"+
			"TU-STD0001,23-24,1,ENGL,101,1,Complete,A,4\n")

	summary, err := svc.ImportLegacyRegistrations(ctx, path, false)
	if err != nil {
		t.Fatalf("ImportLegacyRegistrations 应成功: %v", err)
	}
	if summary.Phases[0].Created != 1 {
		t.Fatalf("应建一条注册: %+v", summary.Phases[0])
	}

	grades, err := repo.Grade.ListByStudent(ctx, student.StudentID)
	if err != nil || len(grades) != 1 {
		t.Errorf("成绩列存在时应顺带录入, 实际 %d, err=%v", len(grades), err)
	}

	// 重复导入：已有注册计入跳过
	summary, err = svc.ImportLegacyRegistrations(ctx, path, false)
	if err != nil {
		t.Fatalf("重复导入应成功: %v", err)
	}
	if summary.Phases[0].Skipped != 1 || summary.Phases[0].Created != 0 {
		t.Errorf("重复注册应计入跳过: %+v", summary.Phases[0])
	}
}

func TestImportLegacyRegistrations_UnknownStudent(t *testing.T) {
	svc, _ := setupTestImporterService()
	dir := t.TempDir()

	path := writeImportFile(t, dir, "legacy.csv",
		"student_id,academic_year,semester_no,course_code,course_no,section_no,status\n"+
			"TU-STD9999,23-24,1,ENGL,101,1,Complete\n")

	_, err := svc.ImportLegacyRegistrations(context.Background(), path, false)
	if err == nil {
		t.Fatal("未知学生应整文件失败")
	}
}

func TestNormalizeLegacyStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Complete", model.RegistrationCompleted},
		{"done", model.RegistrationCompleted},
		{"Approved", model.RegistrationApproved},
		{"financially cleared", model.RegistrationFinanciallyCleared},
		{"pending_payment", model.RegistrationPendingPayment},
		{"whatever", model.RegistrationPendingPayment},
	}
	for _, tt := range tests {
		if got := normalizeLegacyStatus(tt.raw); got != tt.want {
			t.Errorf("normalizeLegacyStatus(%q) 期望 %s, 实际 %s", tt.raw, tt.want, got)
		}
	}
}
