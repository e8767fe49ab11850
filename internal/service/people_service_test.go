package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

func setupTestPeopleService() (PeopleService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewPeopleService(repo, zap.NewNop())
	return svc, repo
}

func TestPeopleService_CreateStudent_GeneratesUserAndNo(t *testing.T) {
	svc, repo := setupTestPeopleService()
	ctx := context.Background()

	first, err := svc.CreateStudent(ctx, &dto.CreateStudentRequest{
		FullName: "John Kollie Doe",
		PersonPayload: dto.PersonPayload{
			Email: "jdoe@tubmanu.edu.lr",
		},
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateStudent 应成功: %v", err)
	}
	if first.StudentNo != "TU-STD0001" {
		t.Errorf("期望学号 TU-STD0001，实际=%s", first.StudentNo)
	}
	if first.Username != "jdoe" {
		t.Errorf("期望用户名 jdoe，实际=%s", first.Username)
	}
	if first.LongName != "John Kollie Doe" {
		t.Errorf("期望全名 John Kollie Doe，实际=%s", first.LongName)
	}

	// 同名学生用户名追加计数后缀，学号顺延
	second, err := svc.CreateStudent(ctx, &dto.CreateStudentRequest{
		FullName: "Jane Doe",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateStudent 应成功: %v", err)
	}
	if second.StudentNo != "TU-STD0002" {
		t.Errorf("期望学号 TU-STD0002，实际=%s", second.StudentNo)
	}
	if second.Username != "jdoe2" {
		t.Errorf("期望用户名 jdoe2，实际=%s", second.Username)
	}

	// 建档同时加入 student 权限组
	user, err := repo.User.GetByUsername(ctx, "jdoe")
	if err != nil {
		t.Fatalf("读取用户失败: %v", err)
	}
	groups, err := repo.User.GroupNames(ctx, user.UserID)
	if err != nil {
		t.Fatalf("读取权限组失败: %v", err)
	}
	if len(groups) != 1 {
		t.Errorf("新学生应属一个权限组，实际=%v", groups)
	}
}

func TestPeopleService_CreateStudent_NameMissing(t *testing.T) {
	svc, _ := setupTestPeopleService()

	_, err := svc.CreateStudent(context.Background(), &dto.CreateStudentRequest{}, "admin-001")
	if !errors.Is(err, ErrPersonNameMissing) {
		t.Errorf("期望 ErrPersonNameMissing，实际: %v", err)
	}
}

func TestPeopleService_CreateStudent_PrefixSuffixParsed(t *testing.T) {
	svc, repo := setupTestPeopleService()
	ctx := context.Background()

	created, err := svc.CreateStudent(ctx, &dto.CreateStudentRequest{
		FullName: "Dr. Mary T. Broh PhD",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateStudent 应成功: %v", err)
	}

	student, err := repo.Student.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("读取学生失败: %v", err)
	}
	if student.NamePrefix != "Dr" || student.NameSuffix != "PhD" {
		t.Errorf("前后缀未解析，实际 %q/%q", student.NamePrefix, student.NameSuffix)
	}
	if student.MiddleName != "T." {
		t.Errorf("中间名未解析，实际=%q", student.MiddleName)
	}
}

func TestPeopleService_CreateStaff_EmploymentDate(t *testing.T) {
	svc, _ := setupTestPeopleService()

	result, err := svc.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		FullName:       "Samuel Togba",
		Position:       "Registrar",
		EmploymentDate: "2020-03-01",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateStaff 应成功: %v", err)
	}
	if result.StaffNo != "TU-STF0001" {
		t.Errorf("期望工号 TU-STF0001，实际=%s", result.StaffNo)
	}
	if result.EmploymentDate != "2020-03-01" {
		t.Errorf("入职日期未落盘，实际=%s", result.EmploymentDate)
	}

	_, err = svc.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		FullName:       "Bad Date",
		EmploymentDate: "03/01/2020",
	}, "admin-001")
	if !errors.Is(err, ErrDateInvalid) {
		t.Errorf("期望 ErrDateInvalid，实际: %v", err)
	}
}

func TestPeopleService_CreateFaculty_InlineStaff(t *testing.T) {
	svc, repo := setupTestPeopleService()
	ctx := context.Background()

	result, err := svc.CreateFaculty(ctx, &dto.CreateFacultyRequest{
		FullName:     "Prof. Amos Sawyer",
		AcademicRank: "Associate Professor",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateFaculty 应成功: %v", err)
	}
	if result.StaffNo != "TU-STF0001" {
		t.Errorf("内联职员应获得工号，实际=%s", result.StaffNo)
	}

	// 教员必为 staff 用户
	staff, err := repo.Staff.GetByID(ctx, result.StaffID)
	if err != nil {
		t.Fatalf("读取职员失败: %v", err)
	}
	if staff.User == nil || !staff.User.IsStaff {
		t.Error("教员对应用户应标记 IsStaff")
	}
}

func TestPeopleService_CreateFaculty_ExistingStaff(t *testing.T) {
	svc, _ := setupTestPeopleService()
	ctx := context.Background()

	staff, err := svc.CreateStaff(ctx, &dto.CreateStaffRequest{FullName: "Joseph Boakai"}, "admin-001")
	if err != nil {
		t.Fatalf("预置职员失败: %v", err)
	}

	result, err := svc.CreateFaculty(ctx, &dto.CreateFacultyRequest{
		StaffID:      staff.ID,
		AcademicRank: "Lecturer",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateFaculty 应成功: %v", err)
	}
	if result.StaffID != staff.ID {
		t.Errorf("教员应挂到既有职员，实际=%s", result.StaffID)
	}

	_, err = svc.CreateFaculty(ctx, &dto.CreateFacultyRequest{StaffID: "stf-missing"}, "admin-001")
	if !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("期望 ErrStaffNotFound，实际: %v", err)
	}
}

func TestPeopleService_CreateDonor_Success(t *testing.T) {
	svc, _ := setupTestPeopleService()

	result, err := svc.CreateDonor(context.Background(), &dto.CreateDonorRequest{
		FullName:     "William Tubman",
		Organization: "Tubman Foundation",
	}, "admin-001")
	if err != nil {
		t.Fatalf("CreateDonor 应成功: %v", err)
	}
	if result.DonorNo != "TU-DNR0001" {
		t.Errorf("期望编号 TU-DNR0001，实际=%s", result.DonorNo)
	}
	if result.Organization != "Tubman Foundation" {
		t.Errorf("机构未落盘，实际=%s", result.Organization)
	}
}

func TestPeopleService_UpdateStudent_Payload(t *testing.T) {
	svc, repo := setupTestPeopleService()
	ctx := context.Background()

	created, err := svc.CreateStudent(ctx, &dto.CreateStudentRequest{FullName: "Moses Zinnah"}, "admin-001")
	if err != nil {
		t.Fatalf("预置学生失败: %v", err)
	}

	sem := &model.Semester{Number: 1, StatusCode: model.SemesterStatusPlanning}
	if err := repo.Semester.Create(ctx, sem); err != nil {
		t.Fatalf("预置学期失败: %v", err)
	}

	updated, err := svc.UpdateStudent(ctx, created.ID, &dto.UpdateStudentRequest{
		CurrentSemesterID: &sem.SemesterID,
		PersonPayload:     dto.PersonPayload{PhoneNumber: "+231770000001"},
	}, "admin-001")
	if err != nil {
		t.Fatalf("UpdateStudent 应成功: %v", err)
	}
	if updated.CurrentSemesterID != sem.SemesterID {
		t.Errorf("当前学期未更新，实际=%s", updated.CurrentSemesterID)
	}
	student, _ := repo.Student.GetByID(ctx, created.ID)
	if student.PhoneNumber != "+231770000001" {
		t.Errorf("电话未更新，实际=%s", student.PhoneNumber)
	}
}
