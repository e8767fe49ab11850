package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maliky/tuth-sub000/internal/model"
)

func TestResolver_Semester(t *testing.T) {
	repo := newMockRepository()
	resolver := NewResolver(repo, model.DefaultCollegeCode)
	ctx := context.Background()

	semester, err := resolver.Semester(ctx, "25-26_Sem2")
	if err != nil {
		t.Fatalf("解析学期记号应成功: %v", err)
	}
	if semester.Number != 2 || semester.AcademicYear == nil || semester.AcademicYear.Code != "25-26" {
		t.Errorf("学期不符: %+v", semester)
	}
	// 学年四等分：第二学期从四分之一处起
	quarter := semester.AcademicYear.EndDate.Sub(semester.AcademicYear.StartDate) / 4
	wantStart := semester.AcademicYear.StartDate.Add(quarter)
	if !semester.StartDate.Equal(wantStart) {
		t.Errorf("学期起始日不符, 期望 %v, 实际 %v", wantStart, semester.StartDate)
	}

	// 同记号再解析应命中缓存返回同一实体
	again, err := resolver.Semester(ctx, "25-26_Sem2")
	if err != nil || again != semester {
		t.Errorf("重复解析应返回缓存实体, err=%v", err)
	}
}

func TestResolver_TokenErrors(t *testing.T) {
	repo := newMockRepository()
	resolver := NewResolver(repo, model.DefaultCollegeCode)
	ctx := context.Background()

	if _, err := resolver.AcademicYear(ctx, "2025-26"); !errors.Is(err, ErrYearCodeInvalid) {
		t.Errorf("非法学年代码应返回 ErrYearCodeInvalid, 实际 %v", err)
	}
	if _, err := resolver.Semester(ctx, "25-26_SemX"); !errors.Is(err, ErrSemTokenInvalid) {
		t.Errorf("非法学期记号应返回 ErrSemTokenInvalid, 实际 %v", err)
	}
	if _, err := resolver.Room(ctx, "  "); !errors.Is(err, ErrRoomTokenInvalid) {
		t.Errorf("空教室记号应返回 ErrRoomTokenInvalid, 实际 %v", err)
	}
	if _, err := resolver.Faculty(ctx, "", nil); !errors.Is(err, ErrFacultyNameEmpty) {
		t.Errorf("空教员姓名应返回 ErrFacultyNameEmpty, 实际 %v", err)
	}
}

func TestResolver_Weekday(t *testing.T) {
	resolver := NewResolver(newMockRepository(), model.DefaultCollegeCode)

	tests := []struct {
		token string
		want  int
	}{
		{"3", 3},
		{"monday", model.WeekdayMonday},
		{"SATURDAY", model.WeekdaySaturday},
		{"0", model.WeekdayTBA},
	}
	for _, tt := range tests {
		got, err := resolver.Weekday(tt.token)
		if err != nil || got != tt.want {
			t.Errorf("Weekday(%q) 期望 %d, 实际 %d, err=%v", tt.token, tt.want, got, err)
		}
	}

	for _, bad := range []string{"7", "-1", "Funday", "", "   "} {
		if _, err := resolver.Weekday(bad); !errors.Is(err, ErrWeekdayInvalid) {
			t.Errorf("Weekday(%q) 应返回 ErrWeekdayInvalid, 实际 %v", bad, err)
		}
	}
}

func TestResolver_Room(t *testing.T) {
	repo := newMockRepository()
	resolver := NewResolver(repo, model.DefaultCollegeCode)
	ctx := context.Background()

	room, err := resolver.Room(ctx, "main-101")
	if err != nil {
		t.Fatalf("解析教室应成功: %v", err)
	}
	if room.FullCode() != "MAIN-101" {
		t.Errorf("教室记号应统一大写, 实际 %s", room.FullCode())
	}

	// 裸楼宇记号只建楼宇
	bare, err := resolver.Room(ctx, "ANNEX")
	if err != nil {
		t.Fatalf("裸楼宇记号应成功: %v", err)
	}
	if bare != nil {
		t.Errorf("裸楼宇记号不应返回教室, 实际 %+v", bare)
	}
	if _, err := repo.Space.GetOrCreateByCode(ctx, "ANNEX", "ANNEX"); err != nil {
		t.Errorf("楼宇应已创建: %v", err)
	}
}

func TestResolver_Student_MatchesByNo(t *testing.T) {
	repo := newMockRepository()
	resolver := NewResolver(repo, model.DefaultCollegeCode)
	ctx := context.Background()

	existing := &model.Student{StudentNo: "TU-STD0007", UserID: "usr-stu"}
	if err := repo.Student.Create(ctx, existing); err != nil {
		t.Fatalf("预置学生失败: %v", err)
	}

	student, err := resolver.Student(ctx, "TU-STD0007", "Someone Else", "curr-001", nil)
	if err != nil {
		t.Fatalf("解析学生应成功: %v", err)
	}
	if student.StudentID != existing.StudentID {
		t.Error("学号命中时应返回既有学生")
	}

	// 无学号的新生走建号
	fresh, err := resolver.Student(ctx, "", "Mary Weah", "curr-001", nil)
	if err != nil {
		t.Fatalf("新建学生应成功: %v", err)
	}
	if fresh.StudentNo == "" || fresh.User == nil {
		t.Errorf("新生应带学号与账号: %+v", fresh)
	}
}
