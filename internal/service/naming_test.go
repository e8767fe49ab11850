package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maliky/tuth-sub000/internal/model"
)

func TestExpandCourseCode(t *testing.T) {
	cases := []struct {
		code    string
		dept    string
		number  string
		college string
	}{
		{"ENGL101", "ENGL", "101", "COAS"},
		{"engl101", "ENGL", "101", "COAS"},
		{"ENGL_101", "ENGL", "101", "COAS"},
		{"ENGL-101", "ENGL", "101", "COAS"},
		{"MGT301-COBA", "MGT", "301", "COBA"},
		{"MATH107 - COET", "MATH", "107", "COET"},
	}
	for _, c := range cases {
		parts, err := ExpandCourseCode(c.code, "", "COAS")
		if err != nil {
			t.Errorf("解析 %q 应成功: %v", c.code, err)
			continue
		}
		if parts.Dept != c.dept || parts.Number != c.number || parts.College != c.college {
			t.Errorf("%q 期望 %s/%s/%s，实际 %s/%s/%s",
				c.code, c.dept, c.number, c.college, parts.Dept, parts.Number, parts.College)
		}
	}
}

func TestExpandCourseCode_RowCollegeHint(t *testing.T) {
	// 代码内后缀优先于行级提示
	parts, err := ExpandCourseCode("MGT301-COBA", "coet", "COAS")
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if parts.College != "COBA" {
		t.Errorf("代码后缀应优先，实际=%s", parts.College)
	}

	parts, err = ExpandCourseCode("MGT301", "coet", "COAS")
	if err != nil {
		t.Fatalf("解析应成功: %v", err)
	}
	if parts.College != "COET" {
		t.Errorf("无后缀时应取行提示，实际=%s", parts.College)
	}
}

func TestExpandCourseCode_Invalid(t *testing.T) {
	if _, err := ExpandCourseCode("ENGL/101", "", "COAS"); !errors.Is(err, ErrCourseCodeSlash) {
		t.Errorf("含斜杠应拒绝，实际: %v", err)
	}
	for _, bad := range []string{"E101", "ENGL", "ENGL1010", "101ENGL", ""} {
		if _, err := ExpandCourseCode(bad, "", "COAS"); !errors.Is(err, ErrCourseCodeInvalid) {
			t.Errorf("%q 应判非法，实际: %v", bad, err)
		}
	}
}

func TestMakeCourseCode(t *testing.T) {
	if got := MakeCourseCode("engl", "101", ""); got != "ENGL101" {
		t.Errorf("期望 ENGL101，实际=%s", got)
	}
	if got := MakeCourseCode("engl", "101", "coba"); got != "ENGL101-COBA" {
		t.Errorf("期望 ENGL101-COBA，实际=%s", got)
	}
	if got := MakeCourseCode("ENGL", "101", "  "); got != "ENGL101" {
		t.Errorf("空白学院不应附后缀，实际=%s", got)
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		full string
		want NameParts
	}{
		{"John Doe", NameParts{First: "John", Last: "Doe"}},
		{"Doe, John", NameParts{First: "John", Last: "Doe"}},
		{"Dr. John K. Doe Jr.", NameParts{Prefix: "Dr", First: "John", Middle: "K.", Last: "Doe", Suffix: "Jr"}},
		{"Mary Tete Weah", NameParts{First: "Mary", Middle: "Tete", Last: "Weah"}},
		{"Broh", NameParts{Last: "Broh"}},
		{"Prof. Sawyer", NameParts{Prefix: "Prof", Last: "Sawyer"}},
	}
	for _, c := range cases {
		got := SplitName(c.full)
		if got != c.want {
			t.Errorf("SplitName(%q) = %+v，期望 %+v", c.full, got, c.want)
		}
	}
}

func TestMkUsername_CollisionSuffix(t *testing.T) {
	repo := newMockRepository()
	ctx := context.Background()

	first, err := MkUsername(ctx, repo.User, "John", "Doe")
	if err != nil {
		t.Fatalf("MkUsername 应成功: %v", err)
	}
	if first != "jdoe" {
		t.Errorf("期望 jdoe，实际=%s", first)
	}
	// 注册基名后冲突计数从 2 起
	if err := repo.User.Create(ctx, &model.User{Username: "jdoe", IsActive: true}); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}
	next, err := MkUsername(ctx, repo.User, "Jane", "Doe")
	if err != nil {
		t.Fatalf("MkUsername 应成功: %v", err)
	}
	if next != "jdoe2" {
		t.Errorf("期望 jdoe2，实际=%s", next)
	}
}

func TestMkUsername_Truncates(t *testing.T) {
	repo := newMockRepository()

	got, err := MkUsername(context.Background(), repo.User, "Christopher", "Vandergrifften")
	if err != nil {
		t.Fatalf("MkUsername 应成功: %v", err)
	}
	if len(got) > usernameMaxLen {
		t.Errorf("用户名应截到 %d 位，实际 %q(%d)", usernameMaxLen, got, len(got))
	}
}

func TestMkPassword_Deterministic(t *testing.T) {
	a, b := MkPassword("jdoe"), MkPassword("jdoe")
	if a != b {
		t.Error("同用户名应派生相同初始密码")
	}
	if len(a) != 12 {
		t.Errorf("初始密码应为 12 位，实际=%d", len(a))
	}
	if MkPassword("jdoe") == MkPassword("jdoe2") {
		t.Error("不同用户名不应撞出相同密码")
	}
}
