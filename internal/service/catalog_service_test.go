package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

func setupTestCatalogService() (CatalogService, *repository.Repository) {
	repo := newMockRepository()
	logger := zap.NewNop()
	status := NewStatusService(repo, logger)
	svc := NewCatalogService(testRegistryConfig(), repo, status, logger)
	return svc, repo
}

// seedCollege 预置一个学院
func seedCollege(t *testing.T, repo *repository.Repository, code string) *model.College {
	t.Helper()
	college := &model.College{Code: code, FullName: CollegeLongName(code)}
	if err := repo.College.Create(context.Background(), college); err != nil {
		t.Fatalf("预置学院失败: %v", err)
	}
	return college
}

// seedCourse 预置系所与课程
func seedCourse(t *testing.T, repo *repository.Repository, college *model.College, deptName, number string) *model.Course {
	t.Helper()
	ctx := context.Background()
	dept, err := repo.Department.GetOrCreate(ctx, college.CollegeID, deptName, deptName)
	if err != nil {
		t.Fatalf("预置系所失败: %v", err)
	}
	course := &model.Course{
		CollegeID:    college.CollegeID,
		DepartmentID: dept.DepartmentID,
		Number:       number,
		Title:        deptName + " " + number,
		CreditHours:  3,
		Department:   dept,
	}
	if err := repo.Course.Create(ctx, course); err != nil {
		t.Fatalf("预置课程失败: %v", err)
	}
	return course
}

// seedCurriculum 预置一个培养方案
func seedCurriculum(t *testing.T, repo *repository.Repository, college *model.College, title string) *model.Curriculum {
	t.Helper()
	curriculum := &model.Curriculum{CollegeID: college.CollegeID, Title: title, TotalCredits: 120}
	if err := repo.Curriculum.Create(context.Background(), curriculum); err != nil {
		t.Fatalf("预置培养方案失败: %v", err)
	}
	return curriculum
}

// ── 学院 / 系所 ──

func TestCatalogService_CreateCollege_KnownCodeFillsName(t *testing.T) {
	svc, _ := setupTestCatalogService()

	result, err := svc.CreateCollege(context.Background(), &dto.CreateCollegeRequest{Code: "COBA"}, "admin-001")
	if err != nil {
		t.Fatalf("CreateCollege 应成功: %v", err)
	}
	if result.FullName != "College of Business Administration" {
		t.Errorf("已知代码应补全长名，实际=%s", result.FullName)
	}
}

func TestCatalogService_CreateCollege_Duplicate(t *testing.T) {
	svc, repo := setupTestCatalogService()
	seedCollege(t, repo, "COAS")

	_, err := svc.CreateCollege(context.Background(), &dto.CreateCollegeRequest{Code: "COAS", FullName: "x"}, "admin-001")
	if !errors.Is(err, ErrCollegeExists) {
		t.Errorf("期望 ErrCollegeExists，实际: %v", err)
	}
}

// ── 课程 ──

func TestCatalogService_CreateCourse_FromCode(t *testing.T) {
	svc, _ := setupTestCatalogService()

	result, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{
		Code:  "ENGL101",
		Title: "College English I",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateCourse 应成功: %v", err)
	}
	if result.ShortCode != "ENGL101" {
		t.Errorf("期望 ShortCode=ENGL101，实际=%s", result.ShortCode)
	}
	if result.CreditHours != 3 {
		t.Errorf("缺省学分应为 3，实际=%d", result.CreditHours)
	}
	if result.Level != 1 || result.LevelName != model.LevelFreshman {
		t.Errorf("期望一年级课程，实际 level=%d name=%s", result.Level, result.LevelName)
	}
}

func TestCatalogService_CreateCourse_Duplicate(t *testing.T) {
	svc, repo := setupTestCatalogService()
	college := seedCollege(t, repo, model.DefaultCollegeCode)
	seedCourse(t, repo, college, "ENGL", "101")

	_, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{
		Code:  "ENGL101",
		Title: "College English I",
	}, "admin-001")
	if !errors.Is(err, ErrCourseExists) {
		t.Errorf("期望 ErrCourseExists，实际: %v", err)
	}
}

// ── 先修关系 ──

func TestCatalogService_AddPrerequisite_Self(t *testing.T) {
	svc, repo := setupTestCatalogService()
	college := seedCollege(t, repo, "COAS")
	c1 := seedCourse(t, repo, college, "ENGL", "101")
	curriculum := seedCurriculum(t, repo, college, "BA English")

	_, err := svc.AddPrerequisite(context.Background(), c1.CourseID,
		&dto.AddPrerequisiteRequest{CurriculumID: curriculum.CurriculumID, RequiredCourseID: c1.CourseID}, "admin-001")
	if !errors.Is(err, ErrPrereqSelf) {
		t.Errorf("期望 ErrPrereqSelf，实际: %v", err)
	}
}

func TestCatalogService_AddPrerequisite_Cycle(t *testing.T) {
	svc, repo := setupTestCatalogService()
	ctx := context.Background()
	college := seedCollege(t, repo, "COAS")
	c1 := seedCourse(t, repo, college, "ENGL", "101")
	c2 := seedCourse(t, repo, college, "ENGL", "102")
	c3 := seedCourse(t, repo, college, "ENGL", "201")
	curriculum := seedCurriculum(t, repo, college, "BA English")

	// 101 <- 102 <- 201 链条合法
	if _, err := svc.AddPrerequisite(ctx, c2.CourseID,
		&dto.AddPrerequisiteRequest{CurriculumID: curriculum.CurriculumID, RequiredCourseID: c1.CourseID}, "admin-001"); err != nil {
		t.Fatalf("建立 102->101 应成功: %v", err)
	}
	if _, err := svc.AddPrerequisite(ctx, c3.CourseID,
		&dto.AddPrerequisiteRequest{CurriculumID: curriculum.CurriculumID, RequiredCourseID: c2.CourseID}, "admin-001"); err != nil {
		t.Fatalf("建立 201->102 应成功: %v", err)
	}

	// 101 -> 201 闭环被拒绝
	_, err := svc.AddPrerequisite(ctx, c1.CourseID,
		&dto.AddPrerequisiteRequest{CurriculumID: curriculum.CurriculumID, RequiredCourseID: c3.CourseID}, "admin-001")
	if !errors.Is(err, ErrPrereqCycle) {
		t.Errorf("期望 ErrPrereqCycle，实际: %v", err)
	}

	// 环检测按方案独立：另一方案里反向边合法
	other := seedCurriculum(t, repo, college, "BSc English Education")
	if _, err := svc.AddPrerequisite(ctx, c1.CourseID,
		&dto.AddPrerequisiteRequest{CurriculumID: other.CurriculumID, RequiredCourseID: c2.CourseID}, "admin-001"); err != nil {
		t.Errorf("不同方案的反向边应成功: %v", err)
	}
}

// ── 培养方案 ──

func TestCatalogService_SetCurriculumStatus_ApproveTogglesActive(t *testing.T) {
	svc, repo := setupTestCatalogService()
	ctx := context.Background()
	college := seedCollege(t, repo, "COAS")

	created, err := svc.CreateCurriculum(ctx, &dto.CreateCurriculumRequest{
		CollegeID: college.CollegeID,
		Title:     "BSc Computer Science",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateCurriculum 应成功: %v", err)
	}
	if created.IsActive {
		t.Error("新建方案不应处于活跃状态")
	}
	if created.TotalCredits != 120 {
		t.Errorf("缺省总学分应为 120，实际=%d", created.TotalCredits)
	}

	approved, err := svc.SetCurriculumStatus(ctx, created.ID,
		&dto.SetCurriculumStatusRequest{Status: model.CurriculumApproved}, "admin-001")
	if err != nil {
		t.Fatalf("SetCurriculumStatus 应成功: %v", err)
	}
	if !approved.IsActive {
		t.Error("审批通过后方案应活跃")
	}

	// 打回后失活
	revised, err := svc.SetCurriculumStatus(ctx, created.ID,
		&dto.SetCurriculumStatusRequest{Status: model.CurriculumNeedsRevision, Note: "学分不足"}, "admin-001")
	if err != nil {
		t.Fatalf("打回应成功: %v", err)
	}
	if revised.IsActive {
		t.Error("打回后方案应失活")
	}
}

func TestCatalogService_SetCurriculumStatus_TitleTaken(t *testing.T) {
	svc, repo := setupTestCatalogService()
	ctx := context.Background()
	college := seedCollege(t, repo, "COAS")

	first, err := svc.CreateCurriculum(ctx, &dto.CreateCurriculumRequest{
		CollegeID: college.CollegeID, Title: "BSc Biology",
	}, "admin-001")
	if err != nil {
		t.Fatalf("预置方案失败: %v", err)
	}
	if _, err := svc.SetCurriculumStatus(ctx, first.ID,
		&dto.SetCurriculumStatusRequest{Status: model.CurriculumApproved}, "admin-001"); err != nil {
		t.Fatalf("审批首个方案失败: %v", err)
	}

	second, err := svc.CreateCurriculum(ctx, &dto.CreateCurriculumRequest{
		CollegeID: college.CollegeID, Title: "BSc Biology",
	}, "admin-001")
	if err != nil {
		t.Fatalf("预置同名方案失败: %v", err)
	}
	_, err = svc.SetCurriculumStatus(ctx, second.ID,
		&dto.SetCurriculumStatusRequest{Status: model.CurriculumApproved}, "admin-001")
	if !errors.Is(err, ErrCurriculumTitleTaken) {
		t.Errorf("期望 ErrCurriculumTitleTaken，实际: %v", err)
	}
}

func TestCatalogService_AddCurriculumCourse_NoDigit(t *testing.T) {
	svc, repo := setupTestCatalogService()
	ctx := context.Background()
	college := seedCollege(t, repo, "COAS")
	course := seedCourse(t, repo, college, "ENGL", "X01")

	created, err := svc.CreateCurriculum(ctx, &dto.CreateCurriculumRequest{
		CollegeID: college.CollegeID, Title: "BA English",
	}, "admin-001")
	if err != nil {
		t.Fatalf("预置方案失败: %v", err)
	}

	_, err = svc.AddCurriculumCourse(ctx, created.ID,
		&dto.AddCurriculumCourseRequest{CourseID: course.CourseID}, "admin-001")
	if !errors.Is(err, ErrCurriculumYearNoDigit) {
		t.Errorf("期望 ErrCurriculumYearNoDigit，实际: %v", err)
	}
}

// ── 专业方向 ──

func TestCatalogService_Concentrations(t *testing.T) {
	svc, repo := setupTestCatalogService()
	ctx := context.Background()
	college := seedCollege(t, repo, "COAS")
	curriculum := seedCurriculum(t, repo, college, "BSc Biology")

	if _, err := svc.AddConcentration(ctx, curriculum.CurriculumID,
		&dto.AddConcentrationRequest{Name: "Zoology"}, "admin-001"); err != nil {
		t.Fatalf("新建专业方向应成功: %v", err)
	}
	if _, err := svc.AddConcentration(ctx, curriculum.CurriculumID,
		&dto.AddConcentrationRequest{Name: "Botany"}, "admin-001"); err != nil {
		t.Fatalf("新建专业方向应成功: %v", err)
	}

	// 同方案下重名（忽略大小写）被拒绝
	_, err := svc.AddConcentration(ctx, curriculum.CurriculumID,
		&dto.AddConcentrationRequest{Name: "zoology"}, "admin-001")
	if !errors.Is(err, ErrConcentrationExists) {
		t.Errorf("期望 ErrConcentrationExists，实际: %v", err)
	}

	// 另一方案里同名不受影响
	other := seedCurriculum(t, repo, college, "BSc Chemistry")
	if _, err := svc.AddConcentration(ctx, other.CurriculumID,
		&dto.AddConcentrationRequest{Name: "Zoology"}, "admin-001"); err != nil {
		t.Errorf("他方案同名方向应成功: %v", err)
	}

	list, err := svc.ListConcentrations(ctx, curriculum.CurriculumID)
	if err != nil {
		t.Fatalf("ListConcentrations 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("期望 2 个方向，实际=%d", len(list))
	}

	if _, err := svc.ListConcentrations(ctx, "cur-missing"); !errors.Is(err, ErrCurriculumNotFound) {
		t.Errorf("期望 ErrCurriculumNotFound，实际: %v", err)
	}
}

// ── 选课可达性 ──

func TestCatalogService_AllowedCourses_PrereqGate(t *testing.T) {
	svc, repo := setupTestCatalogService()
	ctx := context.Background()
	college := seedCollege(t, repo, "COAS")
	c101 := seedCourse(t, repo, college, "ENGL", "101")
	c102 := seedCourse(t, repo, college, "ENGL", "102")

	curriculum, err := svc.CreateCurriculum(ctx, &dto.CreateCurriculumRequest{
		CollegeID: college.CollegeID, Title: "BA English",
	}, "admin-001")
	if err != nil {
		t.Fatalf("预置方案失败: %v", err)
	}
	for _, c := range []*model.Course{c101, c102} {
		if _, err := svc.AddCurriculumCourse(ctx, curriculum.ID,
			&dto.AddCurriculumCourseRequest{CourseID: c.CourseID}, "admin-001"); err != nil {
			t.Fatalf("添加方案课程失败: %v", err)
		}
	}
	if _, err := svc.AddPrerequisite(ctx, c102.CourseID,
		&dto.AddPrerequisiteRequest{CurriculumID: curriculum.ID, RequiredCourseID: c101.CourseID}, "admin-001"); err != nil {
		t.Fatalf("建立先修关系失败: %v", err)
	}

	student := &model.Student{StudentNo: "TU-STD0001", UserID: "usr-stu", CurriculumID: curriculum.ID}
	if err := repo.Student.Create(ctx, student); err != nil {
		t.Fatalf("预置学生失败: %v", err)
	}

	// 未通过任何课程时只放行 101
	allowed, err := svc.AllowedCourses(ctx, student.StudentID)
	if err != nil {
		t.Fatalf("AllowedCourses 应成功: %v", err)
	}
	if len(allowed) != 1 || allowed[0].ShortCode != "ENGL101" {
		t.Fatalf("期望仅放行 ENGL101，实际=%v", allowed)
	}

	// 通过 101 后 102 解锁且 101 不再出现
	gradeA := &model.GradeValue{Code: "A", Numeric: decimal.NewFromInt(4)}
	if err := repo.Grade.CreateValue(ctx, gradeA); err != nil {
		t.Fatalf("预置成绩值失败: %v", err)
	}
	section := &model.Section{CourseID: c101.CourseID, Number: 1}
	if err := repo.Section.Create(ctx, section); err != nil {
		t.Fatalf("预置班次失败: %v", err)
	}
	grade := &model.Grade{
		StudentID:    student.StudentID,
		SectionID:    section.SectionID,
		GradeValueID: gradeA.GradeValueID,
		GradeValue:   gradeA,
		Section:      section,
	}
	if err := repo.Grade.Create(ctx, grade); err != nil {
		t.Fatalf("预置成绩失败: %v", err)
	}

	allowed, err = svc.AllowedCourses(ctx, student.StudentID)
	if err != nil {
		t.Fatalf("AllowedCourses 应成功: %v", err)
	}
	if len(allowed) != 1 || allowed[0].ShortCode != "ENGL102" {
		t.Fatalf("通过 101 后期望仅放行 ENGL102，实际=%v", allowed)
	}
}

func TestCatalogService_AllowedCourses_PrereqScopedToCurriculum(t *testing.T) {
	svc, repo := setupTestCatalogService()
	ctx := context.Background()
	college := seedCollege(t, repo, "COAS")
	c101 := seedCourse(t, repo, college, "ENGL", "101")
	c102 := seedCourse(t, repo, college, "ENGL", "102")

	// 两个方案收录同样的课程，先修边只建在第一个方案里
	gated, err := svc.CreateCurriculum(ctx, &dto.CreateCurriculumRequest{
		CollegeID: college.CollegeID, Title: "BA English",
	}, "admin-001")
	if err != nil {
		t.Fatalf("预置方案失败: %v", err)
	}
	open, err := svc.CreateCurriculum(ctx, &dto.CreateCurriculumRequest{
		CollegeID: college.CollegeID, Title: "BA Journalism",
	}, "admin-001")
	if err != nil {
		t.Fatalf("预置方案失败: %v", err)
	}
	for _, cur := range []string{gated.ID, open.ID} {
		for _, c := range []*model.Course{c101, c102} {
			if _, err := svc.AddCurriculumCourse(ctx, cur,
				&dto.AddCurriculumCourseRequest{CourseID: c.CourseID}, "admin-001"); err != nil {
				t.Fatalf("添加方案课程失败: %v", err)
			}
		}
	}
	if _, err := svc.AddPrerequisite(ctx, c102.CourseID,
		&dto.AddPrerequisiteRequest{CurriculumID: gated.ID, RequiredCourseID: c101.CourseID}, "admin-001"); err != nil {
		t.Fatalf("建立先修关系失败: %v", err)
	}

	student := &model.Student{StudentNo: "TU-STD0002", UserID: "usr-stu2", CurriculumID: open.ID}
	if err := repo.Student.Create(ctx, student); err != nil {
		t.Fatalf("预置学生失败: %v", err)
	}

	// 先修边属于另一方案，本方案学生不受其约束
	allowed, err := svc.AllowedCourses(ctx, student.StudentID)
	if err != nil {
		t.Fatalf("AllowedCourses 应成功: %v", err)
	}
	if len(allowed) != 2 {
		t.Fatalf("他方案的先修边不应串扰，期望放行 2 门，实际=%v", allowed)
	}
}
