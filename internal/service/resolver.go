package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 导入解析错误 ──

var (
	ErrYearCodeInvalid   = errors.New("学年代码非法，应为 YY-YY")
	ErrSemTokenInvalid   = errors.New("学期记号非法")
	ErrWeekdayInvalid    = errors.New("星期记号非法")
	ErrRoomTokenInvalid  = errors.New("教室记号非法")
	ErrCourseAmbiguous   = errors.New("课程记号匹配多个学院下的课程")
	ErrFacultyNameEmpty  = errors.New("教员姓名为空")
)

var yearCodeRe = regexp.MustCompile(`^(\d{2})-(\d{2})$`)
var semCodeRe = regexp.MustCompile(`^(\d{2}-\d{2})_Sem(\d)$`)

// Resolver 导入用幂等解析器：把文本记号解析为库内实体，缺失则创建
// 解析结果缓存在实例内，一个实例只服务一趟导入，干跑与实跑各用各的
type Resolver struct {
	repo           *repository.Repository
	defaultCollege string

	years     map[string]*model.AcademicYear
	semesters map[string]*model.Semester
	courses   map[string]*model.Course
	rooms     map[string]*model.Room
	faculties map[string]*model.Faculty
}

// NewResolver 创建一趟导入专用的解析器；repo 通常为事务绑定的聚合
func NewResolver(repo *repository.Repository, defaultCollege string) *Resolver {
	return &Resolver{
		repo:           repo,
		defaultCollege: defaultCollege,
		years:          map[string]*model.AcademicYear{},
		semesters:      map[string]*model.Semester{},
		courses:        map[string]*model.Course{},
		rooms:          map[string]*model.Room{},
		faculties:      map[string]*model.Faculty{},
	}
}

// ────────────────────── 学年 / 学期 ──────────────────────

// AcademicYear "YY-YY" ⇒ 既有或新建学年，起始日取 20YY 年 9 月 1 日
func (r *Resolver) AcademicYear(ctx context.Context, code string) (*model.AcademicYear, error) {
	code = strings.TrimSpace(code)
	if cached, ok := r.years[code]; ok {
		return cached, nil
	}
	m := yearCodeRe.FindStringSubmatch(code)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrYearCodeInvalid, code)
	}

	year, err := r.repo.AcademicYear.GetByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		yy, _ := strconv.Atoi(m[1])
		start := time.Date(2000+yy, time.September, 1, 0, 0, 0, 0, time.UTC)
		year = &model.AcademicYear{
			Code:      model.AcademicYearCode(start),
			StartDate: start,
			EndDate:   model.AcademicYearEnd(start),
		}
		err = r.repo.AcademicYear.Create(ctx, year)
	}
	if err != nil {
		return nil, err
	}
	r.years[code] = year
	return year, nil
}

// Semester "YY-YY_SemN" ⇒ 既有或新建学期，年份不存在时一并创建
func (r *Resolver) Semester(ctx context.Context, code string) (*model.Semester, error) {
	code = strings.TrimSpace(code)
	m := semCodeRe.FindStringSubmatch(code)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrSemTokenInvalid, code)
	}
	number, _ := strconv.Atoi(m[2])
	return r.SemesterByNumber(ctx, m[1], number)
}

// SemesterByNumber 学年代码 + 学期号 ⇒ 学期，按学年四等分切出默认日期
func (r *Resolver) SemesterByNumber(ctx context.Context, yearCode string, number int) (*model.Semester, error) {
	key := fmt.Sprintf("%s_Sem%d", yearCode, number)
	if cached, ok := r.semesters[key]; ok {
		return cached, nil
	}

	year, err := r.AcademicYear(ctx, yearCode)
	if err != nil {
		return nil, err
	}

	semester, err := r.repo.Semester.GetByYearAndNumber(ctx, year.AcademicYearID, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		span := year.EndDate.Sub(year.StartDate) / 4
		start := year.StartDate.Add(span * time.Duration(number-1))
		end := start.Add(span)
		if number == 4 {
			end = year.EndDate
		}
		semester = &model.Semester{
			AcademicYearID: year.AcademicYearID,
			Number:         number,
			StatusCode:     model.SemesterStatusPlanning,
			StartDate:      start,
			EndDate:        end,
		}
		err = r.repo.Semester.Create(ctx, semester)
	}
	if err != nil {
		return nil, err
	}
	semester.AcademicYear = year
	r.semesters[key] = semester
	return semester, nil
}

// ────────────────────── 课程 ──────────────────────

// Course "DEPT[_-]NUM[-COLLEGE]" ⇒ 学院内唯一课程，缺失则创建
func (r *Resolver) Course(ctx context.Context, token, collegeHint, title string, creditHours int) (*model.Course, error) {
	token = strings.TrimSpace(token)
	key := token + "|" + collegeHint
	if cached, ok := r.courses[key]; ok {
		return cached, nil
	}

	parts, err := ExpandCourseCode(token, collegeHint, r.defaultCollege)
	if err != nil {
		return nil, err
	}

	college, err := r.repo.College.GetOrCreateByCode(ctx, parts.College, CollegeLongName(parts.College))
	if err != nil {
		return nil, err
	}
	dept, err := r.repo.Department.GetOrCreate(ctx, college.CollegeID, parts.Dept, parts.Dept)
	if err != nil {
		return nil, err
	}

	course, err := r.repo.Course.GetByDeptAndNumber(ctx, dept.DepartmentID, parts.Number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if creditHours == 0 {
			creditHours = 3
		}
		if title == "" {
			title = MakeCourseCode(parts.Dept, parts.Number, "")
		}
		course = &model.Course{
			CollegeID:    college.CollegeID,
			DepartmentID: dept.DepartmentID,
			Number:       parts.Number,
			Title:        title,
			CreditHours:  creditHours,
		}
		err = r.repo.Course.Create(ctx, course)
	}
	if err != nil {
		return nil, err
	}
	course.Department = dept
	r.courses[key] = course
	return course, nil
}

// ────────────────────── 教室 / 星期 ──────────────────────

// Room "SPACE-ROOM" ⇒ 楼宇 + 教室；裸 "SPACE" 只建楼宇，返回 nil 教室
func (r *Resolver) Room(ctx context.Context, token string) (*model.Room, error) {
	token = strings.TrimSpace(strings.ToUpper(token))
	if token == "" {
		return nil, ErrRoomTokenInvalid
	}
	if cached, ok := r.rooms[token]; ok {
		return cached, nil
	}

	spaceCode, roomCode, hasRoom := strings.Cut(token, "-")
	space, err := r.repo.Space.GetOrCreateByCode(ctx, spaceCode, spaceCode)
	if err != nil {
		return nil, err
	}
	if !hasRoom {
		return nil, nil
	}

	room, err := r.repo.Room.GetOrCreate(ctx, space.SpaceID, roomCode)
	if err != nil {
		return nil, err
	}
	room.Space = space
	r.rooms[token] = room
	return room, nil
}

// Weekday 0-6 数字或不区分大小写的英文名 ⇒ 星期编码（0 = TBA）
func (r *Resolver) Weekday(token string) (int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, fmt.Errorf("%w: %q", ErrWeekdayInvalid, token)
	}
	if n, err := strconv.Atoi(token); err == nil {
		if n < model.WeekdayTBA || n > model.WeekdaySaturday {
			return 0, fmt.Errorf("%w: %q", ErrWeekdayInvalid, token)
		}
		return n, nil
	}
	normalized := strings.ToUpper(token[:1]) + strings.ToLower(token[1:])
	if n := model.ParseWeekday(normalized); n >= 0 {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrWeekdayInvalid, token)
}

// ────────────────────── 人员 ──────────────────────

// Faculty 教员姓名 ⇒ 拆名建号直到教员档案，逐级 get-or-create
func (r *Resolver) Faculty(ctx context.Context, fullName string, collegeID *string) (*model.Faculty, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrFacultyNameEmpty
	}
	if cached, ok := r.faculties[fullName]; ok {
		return cached, nil
	}

	name := SplitName(fullName)
	username := baseUsername(name.First, name.Last)

	user, err := r.repo.User.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		username, err = MkUsername(ctx, r.repo.User, name.First, name.Last)
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(MkPassword(username)), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user = &model.User{
			Username:     username,
			FirstName:    name.First,
			LastName:     name.Last,
			PasswordHash: string(hash),
			IsStaff:      true,
			IsActive:     true,
		}
		if err := r.repo.User.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	staff, err := r.repo.Staff.GetByUserID(ctx, user.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq, err := r.repo.Staff.NextSeq(ctx)
		if err != nil {
			return nil, err
		}
		staff = &model.Staff{
			StaffNo: model.FormatPersonNo(model.StaffNoPrefix, seq),
			UserID:  user.UserID,
		}
		staff.NamePrefix = name.Prefix
		staff.MiddleName = name.Middle
		staff.NameSuffix = name.Suffix
		if err := r.repo.Staff.Create(ctx, staff); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	staff.User = user

	faculty, err := r.repo.Faculty.GetByStaffID(ctx, staff.StaffID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		faculty = &model.Faculty{StaffID: staff.StaffID, CollegeID: collegeID}
		if err := r.repo.Faculty.Create(ctx, faculty); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if faculty.CollegeID == nil && collegeID != nil {
		faculty.CollegeID = collegeID
		if err := r.repo.Faculty.Update(ctx, faculty); err != nil {
			return nil, err
		}
	}
	faculty.Staff = staff
	r.faculties[fullName] = faculty
	return faculty, nil
}

// Student 学号 + 姓名行 ⇒ 学生档案；学号作为既有行的匹配键
func (r *Resolver) Student(ctx context.Context, studentNo, fullName string, curriculumID string, currentSemesterID *string) (*model.Student, error) {
	studentNo = strings.TrimSpace(studentNo)
	if studentNo != "" {
		student, err := r.repo.Student.GetByStudentNo(ctx, studentNo)
		if err == nil {
			return student, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	name := SplitName(fullName)
	username, err := MkUsername(ctx, r.repo.User, name.First, name.Last)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(MkPassword(username)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     username,
		FirstName:    name.First,
		LastName:     name.Last,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := r.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	if studentNo == "" {
		seq, err := r.repo.Student.NextSeq(ctx)
		if err != nil {
			return nil, err
		}
		studentNo = model.FormatPersonNo(model.StudentNoPrefix, seq)
	}

	student := &model.Student{
		StudentNo:         studentNo,
		UserID:            user.UserID,
		CurriculumID:      curriculumID,
		CurrentSemesterID: currentSemesterID,
	}
	student.NamePrefix = name.Prefix
	student.MiddleName = name.Middle
	student.NameSuffix = name.Suffix
	if err := r.repo.Student.Create(ctx, student); err != nil {
		return nil, err
	}
	student.User = user
	return student, nil
}
