package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// 单元测试共用的内存 Repository 实现，行为对齐 gorm 实现的约定：
// 找不到记录时返回 gorm.ErrRecordNotFound

var mockSeq int

func mockID(prefix string) string {
	mockSeq++
	return fmt.Sprintf("%s-%03d", prefix, mockSeq)
}

func newMockRepository() *repository.Repository {
	sections := newMockSectionRepo()
	return &repository.Repository{
		User:          newMockUserRepo(),
		Permission:    newMockPermissionRepo(),
		AcademicYear:  newMockAcademicYearRepo(),
		Semester:      newMockSemesterRepo(),
		Term:          newMockTermRepo(),
		College:       newMockCollegeRepo(),
		Department:    newMockDepartmentRepo(),
		Course:        newMockCourseRepo(),
		Curriculum:    newMockCurriculumRepo(),
		Space:         newMockSpaceRepo(),
		Room:          newMockRoomRepo(),
		Student:       newMockStudentRepo(),
		Staff:         newMockStaffRepo(),
		Faculty:       newMockFacultyRepo(),
		Donor:         newMockDonorRepo(),
		Schedule:      newMockScheduleRepo(),
		Section:       sections,
		Session:       newMockSessionRepo(sections),
		Reservation:   newMockReservationRepo(),
		Registration:  newMockRegistrationRepo(),
		Grade:         newMockGradeRepo(),
		Finance:       newMockFinanceRepo(),
		StatusHistory: newMockStatusHistoryRepo(),
		Document:      newMockDocumentRepo(),
		Transcript:    newMockTranscriptRepo(),
		Lookup:        newMockLookupRepo(),
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users       map[string]*model.User
	memberships map[string][]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:       make(map[string]*model.User),
		memberships: make(map[string][]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = mockID("usr")
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockUserRepo) CountUsernamePrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if strings.HasPrefix(u.Username, prefix) {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) AddToGroup(_ context.Context, userID, groupID string) error {
	m.memberships[userID] = append(m.memberships[userID], groupID)
	return nil
}

func (m *mockUserRepo) GroupNames(_ context.Context, userID string) ([]string, error) {
	return m.memberships[userID], nil
}

// ── Mock PermissionRepository ──

type mockPermissionRepo struct {
	groups      map[string]*model.Group
	perms       map[string]*model.Permission
	groupPerms  map[string][]string // groupID -> codenames
	objectPerms []*model.ObjectPermission
	assignments map[string]*model.RoleAssignment
}

func newMockPermissionRepo() *mockPermissionRepo {
	return &mockPermissionRepo{
		groups:      make(map[string]*model.Group),
		perms:       make(map[string]*model.Permission),
		groupPerms:  make(map[string][]string),
		assignments: make(map[string]*model.RoleAssignment),
	}
}

func (m *mockPermissionRepo) GetOrCreateGroup(_ context.Context, name string) (*model.Group, error) {
	for _, g := range m.groups {
		if g.Name == name {
			return g, nil
		}
	}
	g := &model.Group{GroupID: mockID("grp"), Name: name}
	m.groups[g.GroupID] = g
	return g, nil
}

func (m *mockPermissionRepo) GetGroupByName(_ context.Context, name string) (*model.Group, error) {
	for _, g := range m.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPermissionRepo) ClearGroupPermissions(_ context.Context) error {
	m.groupPerms = make(map[string][]string)
	return nil
}

func (m *mockPermissionRepo) GetOrCreatePermission(_ context.Context, codename, modelName, action string) (*model.Permission, error) {
	if p, ok := m.perms[codename]; ok {
		return p, nil
	}
	p := &model.Permission{PermissionID: mockID("perm"), Codename: codename, Model: modelName, Action: action}
	m.perms[codename] = p
	return p, nil
}

func (m *mockPermissionRepo) AttachPermission(_ context.Context, groupID, permissionID string) error {
	for _, p := range m.perms {
		if p.PermissionID == permissionID {
			m.groupPerms[groupID] = append(m.groupPerms[groupID], p.Codename)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockPermissionRepo) GroupPermissionCodenames(_ context.Context, groupID string) ([]string, error) {
	return m.groupPerms[groupID], nil
}

func (m *mockPermissionRepo) CreateObjectPermission(_ context.Context, p *model.ObjectPermission) error {
	if p.ObjectPermissionID == "" {
		p.ObjectPermissionID = mockID("oper")
	}
	m.objectPerms = append(m.objectPerms, p)
	return nil
}

func (m *mockPermissionRepo) HasObjectPermission(_ context.Context, userID, action, modelName, objectID string) (bool, error) {
	for _, p := range m.objectPerms {
		if p.UserID == userID && p.Action == action && p.Model == modelName && p.ObjectID == objectID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPermissionRepo) CreateRoleAssignment(_ context.Context, a *model.RoleAssignment) error {
	if a.RoleAssignmentID == "" {
		a.RoleAssignmentID = mockID("ra")
	}
	m.assignments[a.RoleAssignmentID] = a
	return nil
}

func (m *mockPermissionRepo) ListRoleAssignments(_ context.Context, userID string) ([]model.RoleAssignment, error) {
	var result []model.RoleAssignment
	for _, a := range m.assignments {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockPermissionRepo) ActiveRoleAssignments(_ context.Context, userID string, on time.Time) ([]model.RoleAssignment, error) {
	var result []model.RoleAssignment
	for _, a := range m.assignments {
		if a.UserID != userID || on.Before(a.StartDate) {
			continue
		}
		if a.EndDate != nil && on.After(*a.EndDate) {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockPermissionRepo) DeleteRoleAssignment(_ context.Context, id string) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

// ── Mock AcademicYearRepository ──

type mockAcademicYearRepo struct {
	years map[string]*model.AcademicYear
}

func newMockAcademicYearRepo() *mockAcademicYearRepo {
	return &mockAcademicYearRepo{years: make(map[string]*model.AcademicYear)}
}

func (m *mockAcademicYearRepo) Create(_ context.Context, year *model.AcademicYear) error {
	if year.AcademicYearID == "" {
		year.AcademicYearID = mockID("ay")
	}
	m.years[year.AcademicYearID] = year
	return nil
}

func (m *mockAcademicYearRepo) GetByID(_ context.Context, id string) (*model.AcademicYear, error) {
	if y, ok := m.years[id]; ok {
		return y, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) GetByCode(_ context.Context, code string) (*model.AcademicYear, error) {
	for _, y := range m.years {
		if y.Code == code {
			return y, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) List(_ context.Context) ([]model.AcademicYear, error) {
	var result []model.AcademicYear
	for _, y := range m.years {
		result = append(result, *y)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockAcademicYearRepo) Update(_ context.Context, year *model.AcademicYear) error {
	m.years[year.AcademicYearID] = year
	return nil
}

func (m *mockAcademicYearRepo) Delete(_ context.Context, id string) error {
	delete(m.years, id)
	return nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.Semester) error {
	if semester.SemesterID == "" {
		semester.SemesterID = mockID("sem")
	}
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetByYearAndNumber(_ context.Context, academicYearID string, number int) (*model.Semester, error) {
	for _, s := range m.semesters {
		if s.AcademicYearID == academicYearID && s.Number == number {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) GetCurrent(_ context.Context, today time.Time) (*model.Semester, error) {
	var latest *model.Semester
	for _, s := range m.semesters {
		if s.Contains(today) {
			return s, nil
		}
		if !s.StartDate.After(today) && (latest == nil || s.StartDate.After(latest.StartDate)) {
			latest = s
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockSemesterRepo) ListByYear(_ context.Context, academicYearID string) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		if s.AcademicYearID == academicYearID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.Semester) error {
	m.semesters[semester.SemesterID] = semester
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id string) error {
	delete(m.semesters, id)
	return nil
}

// ── Mock TermRepository ──

type mockTermRepo struct {
	terms map[string]*model.Term
}

func newMockTermRepo() *mockTermRepo {
	return &mockTermRepo{terms: make(map[string]*model.Term)}
}

func (m *mockTermRepo) Create(_ context.Context, term *model.Term) error {
	if term.TermID == "" {
		term.TermID = mockID("term")
	}
	m.terms[term.TermID] = term
	return nil
}

func (m *mockTermRepo) GetByID(_ context.Context, id string) (*model.Term, error) {
	if t, ok := m.terms[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermRepo) ListBySemester(_ context.Context, semesterID string) ([]model.Term, error) {
	var result []model.Term
	for _, t := range m.terms {
		if t.SemesterID == semesterID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (m *mockTermRepo) Update(_ context.Context, term *model.Term) error {
	m.terms[term.TermID] = term
	return nil
}

func (m *mockTermRepo) Delete(_ context.Context, id string) error {
	delete(m.terms, id)
	return nil
}

// ── Mock CollegeRepository ──

type mockCollegeRepo struct {
	colleges map[string]*model.College
}

func newMockCollegeRepo() *mockCollegeRepo {
	return &mockCollegeRepo{colleges: make(map[string]*model.College)}
}

func (m *mockCollegeRepo) Create(_ context.Context, college *model.College) error {
	if college.CollegeID == "" {
		college.CollegeID = mockID("col")
	}
	m.colleges[college.CollegeID] = college
	return nil
}

func (m *mockCollegeRepo) GetByID(_ context.Context, id string) (*model.College, error) {
	if c, ok := m.colleges[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) GetByCode(_ context.Context, code string) (*model.College, error) {
	for _, c := range m.colleges {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCollegeRepo) GetOrCreateByCode(ctx context.Context, code, fullName string) (*model.College, error) {
	if c, err := m.GetByCode(ctx, code); err == nil {
		return c, nil
	}
	c := &model.College{CollegeID: mockID("col"), Code: code, FullName: fullName}
	m.colleges[c.CollegeID] = c
	return c, nil
}

func (m *mockCollegeRepo) List(_ context.Context) ([]model.College, error) {
	var result []model.College
	for _, c := range m.colleges {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockCollegeRepo) Update(_ context.Context, college *model.College) error {
	m.colleges[college.CollegeID] = college
	return nil
}

func (m *mockCollegeRepo) Delete(_ context.Context, id string) error {
	delete(m.colleges, id)
	return nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[string]*model.Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = mockID("dept")
	}
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetByShortName(_ context.Context, collegeID, shortName string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.CollegeID == collegeID && d.ShortName == shortName {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) FindByShortName(_ context.Context, shortName string) (*model.Department, error) {
	for _, d := range m.departments {
		if d.ShortName == shortName {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) GetOrCreate(ctx context.Context, collegeID, shortName, fullName string) (*model.Department, error) {
	if d, err := m.GetByShortName(ctx, collegeID, shortName); err == nil {
		return d, nil
	}
	d := &model.Department{DepartmentID: mockID("dept"), CollegeID: collegeID, ShortName: shortName, FullName: fullName}
	m.departments[d.DepartmentID] = d
	return d, nil
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShortName < result[j].ShortName })
	return result, nil
}

func (m *mockDepartmentRepo) ListByCollege(_ context.Context, collegeID string) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		if d.CollegeID == collegeID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDepartmentRepo) Update(_ context.Context, dept *model.Department) error {
	m.departments[dept.DepartmentID] = dept
	return nil
}

func (m *mockDepartmentRepo) Delete(_ context.Context, id string) error {
	delete(m.departments, id)
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
	prereqs map[string]*model.Prerequisite
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{
		courses: make(map[string]*model.Course),
		prereqs: make(map[string]*model.Prerequisite),
	}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = mockID("crs")
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByDeptAndNumber(_ context.Context, departmentID, number string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.DepartmentID == departmentID && c.Number == number {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetOrCreate(ctx context.Context, course *model.Course) (*model.Course, error) {
	if c, err := m.GetByDeptAndNumber(ctx, course.DepartmentID, course.Number); err == nil {
		return c, nil
	}
	if err := m.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (m *mockCourseRepo) List(_ context.Context, offset, limit int) ([]model.Course, int64, error) {
	var all []model.Course
	for _, c := range m.courses {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockCourseRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.DepartmentID == departmentID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) CreatePrerequisite(_ context.Context, p *model.Prerequisite) error {
	if p.PrerequisiteID == "" {
		p.PrerequisiteID = mockID("pre")
	}
	m.prereqs[p.PrerequisiteID] = p
	return nil
}

func (m *mockCourseRepo) DeletePrerequisite(_ context.Context, id string) error {
	if _, ok := m.prereqs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.prereqs, id)
	return nil
}

func (m *mockCourseRepo) ListPrerequisites(_ context.Context, curriculumID, courseID string) ([]model.Prerequisite, error) {
	var result []model.Prerequisite
	for _, p := range m.prereqs {
		if p.CourseID != courseID {
			continue
		}
		if curriculumID != "" && p.CurriculumID != curriculumID {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockCourseRepo) PrerequisitePairs(_ context.Context, curriculumID string) ([]model.Prerequisite, error) {
	var result []model.Prerequisite
	for _, p := range m.prereqs {
		if p.CurriculumID == curriculumID {
			result = append(result, *p)
		}
	}
	return result, nil
}

// ── Mock CurriculumRepository ──

type mockCurriculumRepo struct {
	curricula      map[string]*model.Curriculum
	entries        map[string]*model.CurriculumCourse
	concentrations map[string]*model.Concentration
}

func newMockCurriculumRepo() *mockCurriculumRepo {
	return &mockCurriculumRepo{
		curricula:      make(map[string]*model.Curriculum),
		entries:        make(map[string]*model.CurriculumCourse),
		concentrations: make(map[string]*model.Concentration),
	}
}

func (m *mockCurriculumRepo) Create(_ context.Context, c *model.Curriculum) error {
	if c.CurriculumID == "" {
		c.CurriculumID = mockID("cur")
	}
	m.curricula[c.CurriculumID] = c
	return nil
}

func (m *mockCurriculumRepo) GetByID(_ context.Context, id string) (*model.Curriculum, error) {
	if c, ok := m.curricula[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCurriculumRepo) List(_ context.Context) ([]model.Curriculum, error) {
	var result []model.Curriculum
	for _, c := range m.curricula {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (m *mockCurriculumRepo) ListByCollege(_ context.Context, collegeID string) ([]model.Curriculum, error) {
	var result []model.Curriculum
	for _, c := range m.curricula {
		if c.CollegeID == collegeID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCurriculumRepo) ActiveTitleExists(_ context.Context, collegeID, title, excludeID string) (bool, error) {
	for _, c := range m.curricula {
		if c.CollegeID == collegeID && c.Title == title && c.IsActive && c.CurriculumID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCurriculumRepo) Update(_ context.Context, c *model.Curriculum) error {
	m.curricula[c.CurriculumID] = c
	return nil
}

func (m *mockCurriculumRepo) SetActive(_ context.Context, id string, active bool) error {
	c, ok := m.curricula[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsActive = active
	return nil
}

func (m *mockCurriculumRepo) Delete(_ context.Context, id string) error {
	delete(m.curricula, id)
	return nil
}

func (m *mockCurriculumRepo) AddCourse(_ context.Context, cc *model.CurriculumCourse) error {
	if cc.CurriculumCourseID == "" {
		cc.CurriculumCourseID = mockID("cc")
	}
	m.entries[cc.CurriculumCourseID] = cc
	return nil
}

func (m *mockCurriculumRepo) GetCourseEntry(_ context.Context, id string) (*model.CurriculumCourse, error) {
	if cc, ok := m.entries[id]; ok {
		return cc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCurriculumRepo) ListCourses(_ context.Context, curriculumID string) ([]model.CurriculumCourse, error) {
	var result []model.CurriculumCourse
	for _, cc := range m.entries {
		if cc.CurriculumID == curriculumID {
			result = append(result, *cc)
		}
	}
	return result, nil
}

func (m *mockCurriculumRepo) RemoveCourse(_ context.Context, id string) error {
	if _, ok := m.entries[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *mockCurriculumRepo) CreateConcentration(_ context.Context, c *model.Concentration) error {
	if c.ConcentrationID == "" {
		c.ConcentrationID = mockID("conc")
	}
	m.concentrations[c.ConcentrationID] = c
	return nil
}

func (m *mockCurriculumRepo) ListConcentrations(_ context.Context, curriculumID string) ([]model.Concentration, error) {
	var result []model.Concentration
	for _, c := range m.concentrations {
		if c.CurriculumID == curriculumID {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock SpaceRepository ──

type mockSpaceRepo struct {
	spaces map[string]*model.Space
}

func newMockSpaceRepo() *mockSpaceRepo {
	return &mockSpaceRepo{spaces: make(map[string]*model.Space)}
}

func (m *mockSpaceRepo) Create(_ context.Context, space *model.Space) error {
	if space.SpaceID == "" {
		space.SpaceID = mockID("spc")
	}
	m.spaces[space.SpaceID] = space
	return nil
}

func (m *mockSpaceRepo) GetByID(_ context.Context, id string) (*model.Space, error) {
	if s, ok := m.spaces[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSpaceRepo) GetByCode(_ context.Context, code string) (*model.Space, error) {
	for _, s := range m.spaces {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSpaceRepo) GetOrCreateByCode(ctx context.Context, code, fullName string) (*model.Space, error) {
	if s, err := m.GetByCode(ctx, code); err == nil {
		return s, nil
	}
	s := &model.Space{SpaceID: mockID("spc"), Code: code, FullName: fullName}
	m.spaces[s.SpaceID] = s
	return s, nil
}

func (m *mockSpaceRepo) List(_ context.Context) ([]model.Space, error) {
	var result []model.Space
	for _, s := range m.spaces {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockSpaceRepo) Update(_ context.Context, space *model.Space) error {
	m.spaces[space.SpaceID] = space
	return nil
}

func (m *mockSpaceRepo) Delete(_ context.Context, id string) error {
	delete(m.spaces, id)
	return nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	if room.RoomID == "" {
		room.RoomID = mockID("room")
	}
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByCode(_ context.Context, spaceID, code string) (*model.Room, error) {
	for _, r := range m.rooms {
		if r.SpaceID == spaceID && r.Code == code {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetOrCreate(ctx context.Context, spaceID, code string) (*model.Room, error) {
	if r, err := m.GetByCode(ctx, spaceID, code); err == nil {
		return r, nil
	}
	r := &model.Room{RoomID: mockID("room"), SpaceID: spaceID, Code: code}
	m.rooms[r.RoomID] = r
	return r, nil
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockRoomRepo) ListBySpace(_ context.Context, spaceID string) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if r.SpaceID == spaceID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoomRepo) Update(_ context.Context, room *model.Room) error {
	m.rooms[room.RoomID] = room
	return nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string) error {
	delete(m.rooms, id)
	return nil
}

func (m *mockRoomRepo) CountTBARooms(_ context.Context) (int64, error) {
	var n int64
	for _, r := range m.rooms {
		if strings.HasPrefix(r.Code, model.TBARoomCode) {
			n++
		}
	}
	return n, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	seq      int64
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		student.StudentID = mockID("stu")
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUserID(_ context.Context, userID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByStudentNo(_ context.Context, no string) (*model.Student, error) {
	for _, s := range m.students {
		if s.StudentNo == no {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) List(_ context.Context, offset, limit int) ([]model.Student, int64, error) {
	var all []model.Student
	for _, s := range m.students {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StudentNo < all[j].StudentNo })
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) NextSeq(_ context.Context) (int64, error) {
	m.seq++
	return m.seq, nil
}

// ── Mock StaffRepository ──

type mockStaffRepo struct {
	staffs map[string]*model.Staff
	seq    int64
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{staffs: make(map[string]*model.Staff)}
}

func (m *mockStaffRepo) Create(_ context.Context, staff *model.Staff) error {
	if staff.StaffID == "" {
		staff.StaffID = mockID("stf")
	}
	m.staffs[staff.StaffID] = staff
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id string) (*model.Staff, error) {
	if s, ok := m.staffs[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) GetByUserID(_ context.Context, userID string) (*model.Staff, error) {
	for _, s := range m.staffs {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStaffRepo) List(_ context.Context, offset, limit int) ([]model.Staff, int64, error) {
	var all []model.Staff
	for _, s := range m.staffs {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StaffNo < all[j].StaffNo })
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockStaffRepo) Update(_ context.Context, staff *model.Staff) error {
	m.staffs[staff.StaffID] = staff
	return nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id string) error {
	delete(m.staffs, id)
	return nil
}

func (m *mockStaffRepo) NextSeq(_ context.Context) (int64, error) {
	m.seq++
	return m.seq, nil
}

// ── Mock FacultyRepository ──

type mockFacultyRepo struct {
	faculties map[string]*model.Faculty
}

func newMockFacultyRepo() *mockFacultyRepo {
	return &mockFacultyRepo{faculties: make(map[string]*model.Faculty)}
}

func (m *mockFacultyRepo) Create(_ context.Context, faculty *model.Faculty) error {
	if faculty.FacultyID == "" {
		faculty.FacultyID = mockID("fac")
	}
	m.faculties[faculty.FacultyID] = faculty
	return nil
}

func (m *mockFacultyRepo) GetByID(_ context.Context, id string) (*model.Faculty, error) {
	if f, ok := m.faculties[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacultyRepo) GetByStaffID(_ context.Context, staffID string) (*model.Faculty, error) {
	for _, f := range m.faculties {
		if f.StaffID == staffID {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacultyRepo) GetByUserID(_ context.Context, userID string) (*model.Faculty, error) {
	for _, f := range m.faculties {
		if f.Staff != nil && f.Staff.UserID == userID {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFacultyRepo) List(_ context.Context, offset, limit int) ([]model.Faculty, int64, error) {
	var all []model.Faculty
	for _, f := range m.faculties {
		all = append(all, *f)
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockFacultyRepo) ListByCollege(_ context.Context, collegeID string) ([]model.Faculty, error) {
	var result []model.Faculty
	for _, f := range m.faculties {
		if f.CollegeID != nil && *f.CollegeID == collegeID {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (m *mockFacultyRepo) Update(_ context.Context, faculty *model.Faculty) error {
	m.faculties[faculty.FacultyID] = faculty
	return nil
}

func (m *mockFacultyRepo) Delete(_ context.Context, id string) error {
	delete(m.faculties, id)
	return nil
}

// ── Mock DonorRepository ──

type mockDonorRepo struct {
	donors map[string]*model.Donor
	seq    int64
}

func newMockDonorRepo() *mockDonorRepo {
	return &mockDonorRepo{donors: make(map[string]*model.Donor)}
}

func (m *mockDonorRepo) Create(_ context.Context, donor *model.Donor) error {
	if donor.DonorID == "" {
		donor.DonorID = mockID("dnr")
	}
	m.donors[donor.DonorID] = donor
	return nil
}

func (m *mockDonorRepo) GetByID(_ context.Context, id string) (*model.Donor, error) {
	if d, ok := m.donors[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDonorRepo) GetByUserID(_ context.Context, userID string) (*model.Donor, error) {
	for _, d := range m.donors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDonorRepo) List(_ context.Context, offset, limit int) ([]model.Donor, int64, error) {
	var all []model.Donor
	for _, d := range m.donors {
		all = append(all, *d)
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockDonorRepo) Update(_ context.Context, donor *model.Donor) error {
	m.donors[donor.DonorID] = donor
	return nil
}

func (m *mockDonorRepo) Delete(_ context.Context, id string) error {
	delete(m.donors, id)
	return nil
}

func (m *mockDonorRepo) NextSeq(_ context.Context) (int64, error) {
	m.seq++
	return m.seq, nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.Schedule
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.Schedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.Schedule) error {
	if schedule.ScheduleID == "" {
		schedule.ScheduleID = mockID("sch")
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.Schedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetOrCreate(ctx context.Context, weekday int, start, end string) (*model.Schedule, error) {
	for _, s := range m.schedules {
		if s.Weekday == weekday && s.StartTime == start && s.EndTime == end {
			return s, nil
		}
	}
	s := &model.Schedule{ScheduleID: mockID("sch"), Weekday: weekday, StartTime: start, EndTime: end}
	m.schedules[s.ScheduleID] = s
	return s, nil
}

func (m *mockScheduleRepo) List(_ context.Context) ([]model.Schedule, error) {
	var result []model.Schedule
	for _, s := range m.schedules {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock SectionRepository ──

type mockSectionRepo struct {
	sections map[string]*model.Section
	fees     map[string]*model.SectionFee
}

func newMockSectionRepo() *mockSectionRepo {
	return &mockSectionRepo{
		sections: make(map[string]*model.Section),
		fees:     make(map[string]*model.SectionFee),
	}
}

func (m *mockSectionRepo) Create(_ context.Context, section *model.Section) error {
	if section.SectionID == "" {
		section.SectionID = mockID("sec")
	}
	m.sections[section.SectionID] = section
	return nil
}

func (m *mockSectionRepo) GetByID(_ context.Context, id string) (*model.Section, error) {
	if s, ok := m.sections[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) GetByNumber(_ context.Context, courseID, semesterID string, number int) (*model.Section, error) {
	for _, s := range m.sections {
		if s.CourseID == courseID && s.SemesterID == semesterID && s.Number == number {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) List(_ context.Context, semesterID string, offset, limit int) ([]model.Section, int64, error) {
	var all []model.Section
	for _, s := range m.sections {
		if semesterID == "" || s.SemesterID == semesterID {
			all = append(all, *s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockSectionRepo) ListByCourse(_ context.Context, courseID, semesterID string) ([]model.Section, error) {
	var result []model.Section
	for _, s := range m.sections {
		if s.CourseID == courseID && (semesterID == "" || s.SemesterID == semesterID) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSectionRepo) ListBySemester(_ context.Context, semesterID string) ([]model.Section, error) {
	var result []model.Section
	for _, s := range m.sections {
		if s.SemesterID == semesterID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSectionRepo) Update(_ context.Context, section *model.Section) error {
	m.sections[section.SectionID] = section
	return nil
}

func (m *mockSectionRepo) Delete(_ context.Context, id string) error {
	delete(m.sections, id)
	return nil
}

func (m *mockSectionRepo) NextNumber(_ context.Context, courseID, semesterID string) (int, error) {
	max := 0
	for _, s := range m.sections {
		if s.CourseID == courseID && s.SemesterID == semesterID && s.Number > max {
			max = s.Number
		}
	}
	return max + 1, nil
}

func (m *mockSectionRepo) IncrementSeats(_ context.Context, sectionID string) (bool, error) {
	s, ok := m.sections[sectionID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if s.SeatsTaken >= s.MaxSeats {
		return false, nil
	}
	s.SeatsTaken++
	return true, nil
}

func (m *mockSectionRepo) DecrementSeats(_ context.Context, sectionID string) error {
	s, ok := m.sections[sectionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s.SeatsTaken > 0 {
		s.SeatsTaken--
	}
	return nil
}

func (m *mockSectionRepo) ListFees(_ context.Context, sectionID string) ([]model.SectionFee, error) {
	var result []model.SectionFee
	for _, f := range m.fees {
		if f.SectionID == sectionID {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (m *mockSectionRepo) CreateFee(_ context.Context, fee *model.SectionFee) error {
	if fee.SectionFeeID == "" {
		fee.SectionFeeID = mockID("fee")
	}
	m.fees[fee.SectionFeeID] = fee
	return nil
}

func (m *mockSectionRepo) DeleteFee(_ context.Context, feeID string) error {
	if _, ok := m.fees[feeID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.fees, feeID)
	return nil
}

// ── Mock SessionRepository ──

type mockSessionRepo struct {
	sessions map[string]*model.Session
	sections *mockSectionRepo
}

func newMockSessionRepo(sections *mockSectionRepo) *mockSessionRepo {
	return &mockSessionRepo{
		sessions: make(map[string]*model.Session),
		sections: sections,
	}
}

// semesterOf 经 SectionID 回查班次所属学期，模拟真实实现的 sections 连接
func (m *mockSessionRepo) semesterOf(s *model.Session) string {
	if s.Section != nil {
		return s.Section.SemesterID
	}
	if section, ok := m.sections.sections[s.SectionID]; ok {
		return section.SemesterID
	}
	return ""
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.Session) error {
	if session.SessionID == "" {
		session.SessionID = mockID("ses")
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) ListBySection(_ context.Context, sectionID string) ([]model.Session, error) {
	var result []model.Session
	for _, s := range m.sessions {
		if s.SectionID == sectionID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSessionRepo) ListByRoomAndWeekday(_ context.Context, roomID string, weekday int, semesterID string) ([]model.Session, error) {
	var result []model.Session
	for _, s := range m.sessions {
		if s.RoomID != roomID || s.Schedule == nil || s.Schedule.Weekday != weekday {
			continue
		}
		if semesterID != "" && m.semesterOf(s) != semesterID {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.sessions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.sessions, id)
	return nil
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	reservations map[string]*model.Reservation
	// statusErrs 按 ID 注入 UpdateStatusIf 的行级错误
	statusErrs map[string]error
}

func newMockReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{
		reservations: make(map[string]*model.Reservation),
		statusErrs:   make(map[string]error),
	}
}

func (m *mockReservationRepo) Create(_ context.Context, reservation *model.Reservation) error {
	if reservation.ReservationID == "" {
		reservation.ReservationID = mockID("rsv")
	}
	m.reservations[reservation.ReservationID] = reservation
	return nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	if r, ok := m.reservations[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) GetByStudentAndSection(_ context.Context, studentID, sectionID string) (*model.Reservation, error) {
	for _, r := range m.reservations {
		if r.StudentID == studentID && r.SectionID == sectionID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) ListBySection(_ context.Context, sectionID string) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.SectionID == sectionID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) Update(_ context.Context, reservation *model.Reservation) error {
	m.reservations[reservation.ReservationID] = reservation
	return nil
}

func (m *mockReservationRepo) UpdateStatusIf(_ context.Context, id, from, to string) (bool, error) {
	if err, ok := m.statusErrs[id]; ok {
		return false, err
	}
	r, ok := m.reservations[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (m *mockReservationRepo) ActiveCreditHours(_ context.Context, studentID, semesterID string) (int, error) {
	total := 0
	for _, r := range m.reservations {
		if r.StudentID != studentID || r.Status == model.ReservationCancelled {
			continue
		}
		if semesterID != "" && (r.Section == nil || r.Section.SemesterID != semesterID) {
			continue
		}
		total += r.CreditHours
	}
	return total, nil
}

func (m *mockReservationRepo) ListExpiredRequested(_ context.Context, now time.Time) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if r.Status == model.ReservationRequested && now.After(r.ValidationDeadline) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReservationRepo) Delete(_ context.Context, id string) error {
	delete(m.reservations, id)
	return nil
}

// ── Mock RegistrationRepository ──

type mockRegistrationRepo struct {
	registrations map[string]*model.Registration
}

func newMockRegistrationRepo() *mockRegistrationRepo {
	return &mockRegistrationRepo{registrations: make(map[string]*model.Registration)}
}

func (m *mockRegistrationRepo) Create(_ context.Context, registration *model.Registration) error {
	if registration.RegistrationID == "" {
		registration.RegistrationID = mockID("reg")
	}
	m.registrations[registration.RegistrationID] = registration
	return nil
}

func (m *mockRegistrationRepo) GetByID(_ context.Context, id string) (*model.Registration, error) {
	if r, ok := m.registrations[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) GetByStudentAndSection(_ context.Context, studentID, sectionID string) (*model.Registration, error) {
	for _, r := range m.registrations {
		if r.StudentID == studentID && r.SectionID == sectionID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Registration, error) {
	var result []model.Registration
	for _, r := range m.registrations {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) ListByStudentAndSemester(_ context.Context, studentID, semesterID string) ([]model.Registration, error) {
	var result []model.Registration
	for _, r := range m.registrations {
		if r.StudentID == studentID && r.Section != nil && r.Section.SemesterID == semesterID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) Roster(_ context.Context, sectionID string) ([]model.Registration, error) {
	var result []model.Registration
	for _, r := range m.registrations {
		if r.SectionID == sectionID && r.StatusCode == model.RegistrationCompleted {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) Update(_ context.Context, registration *model.Registration) error {
	m.registrations[registration.RegistrationID] = registration
	return nil
}

func (m *mockRegistrationRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.registrations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.registrations, id)
	return nil
}

// ── Mock GradeRepository ──

type mockGradeRepo struct {
	values map[string]*model.GradeValue
	grades map[string]*model.Grade
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{
		values: make(map[string]*model.GradeValue),
		grades: make(map[string]*model.Grade),
	}
}

func (m *mockGradeRepo) CreateValue(_ context.Context, value *model.GradeValue) error {
	if value.GradeValueID == "" {
		value.GradeValueID = mockID("gv")
	}
	m.values[value.GradeValueID] = value
	return nil
}

func (m *mockGradeRepo) GetValueByCode(_ context.Context, code string) (*model.GradeValue, error) {
	for _, v := range m.values {
		if v.Code == code {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) GetOrCreateValue(ctx context.Context, value *model.GradeValue) (*model.GradeValue, error) {
	if v, err := m.GetValueByCode(ctx, value.Code); err == nil {
		return v, nil
	}
	if err := m.CreateValue(ctx, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (m *mockGradeRepo) ListValues(_ context.Context) ([]model.GradeValue, error) {
	var result []model.GradeValue
	for _, v := range m.values {
		result = append(result, *v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockGradeRepo) Create(_ context.Context, grade *model.Grade) error {
	if grade.GradeID == "" {
		grade.GradeID = mockID("grd")
	}
	m.grades[grade.GradeID] = grade
	return nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.Grade, error) {
	if g, ok := m.grades[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) GetByStudentAndSection(_ context.Context, studentID, sectionID string) (*model.Grade, error) {
	for _, g := range m.grades {
		if g.StudentID == studentID && g.SectionID == sectionID {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradeRepo) ListByStudent(_ context.Context, studentID string) ([]model.Grade, error) {
	var result []model.Grade
	for _, g := range m.grades {
		if g.StudentID == studentID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGradeRepo) ListBySection(_ context.Context, sectionID string) ([]model.Grade, error) {
	var result []model.Grade
	for _, g := range m.grades {
		if g.SectionID == sectionID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGradeRepo) ListPassedCourseIDs(_ context.Context, studentID string) ([]string, error) {
	var result []string
	for _, g := range m.grades {
		if g.StudentID != studentID || g.GradeValue == nil || !g.GradeValue.IsPassing() {
			continue
		}
		if g.Section != nil {
			result = append(result, g.Section.CourseID)
		}
	}
	return result, nil
}

func (m *mockGradeRepo) Update(_ context.Context, grade *model.Grade) error {
	m.grades[grade.GradeID] = grade
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	delete(m.grades, id)
	return nil
}

// ── Mock FinanceRepository ──

type mockFinanceRepo struct {
	invoices     map[string]*model.Invoice
	payments     map[string]*model.Payment
	records      map[string]*model.FinancialRecord
	scholarships map[string]*model.Scholarship
}

func newMockFinanceRepo() *mockFinanceRepo {
	return &mockFinanceRepo{
		invoices:     make(map[string]*model.Invoice),
		payments:     make(map[string]*model.Payment),
		records:      make(map[string]*model.FinancialRecord),
		scholarships: make(map[string]*model.Scholarship),
	}
}

func (m *mockFinanceRepo) CreateInvoice(_ context.Context, invoice *model.Invoice) error {
	if invoice.InvoiceID == "" {
		invoice.InvoiceID = mockID("inv")
	}
	m.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (m *mockFinanceRepo) GetInvoice(_ context.Context, id string) (*model.Invoice, error) {
	if inv, ok := m.invoices[id]; ok {
		return inv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFinanceRepo) GetInvoiceByKey(_ context.Context, studentID, curriculumCourseID, semesterID string) (*model.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.StudentID == studentID && inv.CurriculumCourseID == curriculumCourseID && inv.SemesterID == semesterID {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFinanceRepo) ListInvoices(_ context.Context, studentID, semesterID string) ([]model.Invoice, error) {
	var result []model.Invoice
	for _, inv := range m.invoices {
		if inv.StudentID == studentID && (semesterID == "" || inv.SemesterID == semesterID) {
			result = append(result, *inv)
		}
	}
	return result, nil
}

func (m *mockFinanceRepo) UpdateInvoice(_ context.Context, invoice *model.Invoice) error {
	m.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (m *mockFinanceRepo) DeleteInvoice(_ context.Context, id string) error {
	delete(m.invoices, id)
	return nil
}

func (m *mockFinanceRepo) SumInvoices(_ context.Context, studentID, semesterID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, inv := range m.invoices {
		if inv.StudentID == studentID && inv.SemesterID == semesterID {
			total = total.Add(inv.AmountDue)
		}
	}
	return total, nil
}

func (m *mockFinanceRepo) CreatePayment(_ context.Context, payment *model.Payment) error {
	if payment.PaymentID == "" {
		payment.PaymentID = mockID("pay")
	}
	m.payments[payment.PaymentID] = payment
	return nil
}

func (m *mockFinanceRepo) GetPayment(_ context.Context, id string) (*model.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFinanceRepo) ListPayments(_ context.Context, invoiceID string) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range m.payments {
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockFinanceRepo) SumPayments(_ context.Context, studentID, semesterID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range m.payments {
		if p.InvoiceID == nil {
			continue
		}
		inv, ok := m.invoices[*p.InvoiceID]
		if !ok {
			continue
		}
		if inv.StudentID == studentID && inv.SemesterID == semesterID {
			total = total.Add(p.AmountPaid)
		}
	}
	return total, nil
}

func (m *mockFinanceRepo) GetRecord(_ context.Context, studentID, semesterID string) (*model.FinancialRecord, error) {
	if r, ok := m.records[studentID+"|"+semesterID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFinanceRepo) GetOrCreateRecord(ctx context.Context, studentID, semesterID string) (*model.FinancialRecord, error) {
	if r, err := m.GetRecord(ctx, studentID, semesterID); err == nil {
		return r, nil
	}
	r := &model.FinancialRecord{
		FinancialRecordID: mockID("fr"),
		StudentID:         studentID,
		SemesterID:        semesterID,
		ClearanceCode:     model.ClearancePending,
	}
	m.records[studentID+"|"+semesterID] = r
	return r, nil
}

func (m *mockFinanceRepo) UpdateRecord(_ context.Context, record *model.FinancialRecord) error {
	m.records[record.StudentID+"|"+record.SemesterID] = record
	return nil
}

func (m *mockFinanceRepo) ListRecordsBySemester(_ context.Context, semesterID string) ([]model.FinancialRecord, error) {
	var result []model.FinancialRecord
	for _, r := range m.records {
		if r.SemesterID == semesterID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockFinanceRepo) CreateScholarship(_ context.Context, scholarship *model.Scholarship) error {
	if scholarship.ScholarshipID == "" {
		scholarship.ScholarshipID = mockID("schl")
	}
	m.scholarships[scholarship.ScholarshipID] = scholarship
	return nil
}

func (m *mockFinanceRepo) GetScholarship(_ context.Context, id string) (*model.Scholarship, error) {
	if s, ok := m.scholarships[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFinanceRepo) ListScholarships(_ context.Context, studentID string) ([]model.Scholarship, error) {
	var result []model.Scholarship
	for _, s := range m.scholarships {
		if s.StudentID == studentID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockFinanceRepo) ActiveScholarships(_ context.Context, studentID string, on time.Time) ([]model.Scholarship, error) {
	var result []model.Scholarship
	for _, s := range m.scholarships {
		if s.StudentID == studentID && s.ActiveOn(on) {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockFinanceRepo) UpdateScholarship(_ context.Context, scholarship *model.Scholarship) error {
	m.scholarships[scholarship.ScholarshipID] = scholarship
	return nil
}

func (m *mockFinanceRepo) DeleteScholarship(_ context.Context, id string) error {
	delete(m.scholarships, id)
	return nil
}

// ── Mock StatusHistoryRepository ──

type mockStatusHistoryRepo struct {
	entries []*model.StatusHistory
}

func newMockStatusHistoryRepo() *mockStatusHistoryRepo {
	return &mockStatusHistoryRepo{}
}

func (m *mockStatusHistoryRepo) Create(_ context.Context, entry *model.StatusHistory) error {
	if entry.StatusHistoryID == "" {
		entry.StatusHistoryID = mockID("sh")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockStatusHistoryRepo) Latest(_ context.Context, kind, objectID string) (*model.StatusHistory, error) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ContentKind == kind && m.entries[i].ObjectID == objectID {
			return m.entries[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStatusHistoryRepo) List(_ context.Context, kind, objectID string) ([]model.StatusHistory, error) {
	var result []model.StatusHistory
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ContentKind == kind && m.entries[i].ObjectID == objectID {
			result = append(result, *m.entries[i])
		}
	}
	return result, nil
}

// ── Mock DocumentRepository ──

type mockDocumentRepo struct {
	documents map[string]*model.Document
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{documents: make(map[string]*model.Document)}
}

func (m *mockDocumentRepo) Create(_ context.Context, doc *model.Document) error {
	if doc.DocumentID == "" {
		doc.DocumentID = mockID("doc")
	}
	m.documents[doc.DocumentID] = doc
	return nil
}

func (m *mockDocumentRepo) GetByID(_ context.Context, id string) (*model.Document, error) {
	if d, ok := m.documents[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDocumentRepo) ListByOwner(_ context.Context, ownerKind, ownerID string) ([]model.Document, error) {
	var result []model.Document
	for _, d := range m.documents {
		if d.OwnerKind == ownerKind && d.OwnerID == ownerID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockDocumentRepo) ListByStatus(_ context.Context, statusCode string, offset, limit int) ([]model.Document, int64, error) {
	var all []model.Document
	for _, d := range m.documents {
		if d.StatusCode == statusCode {
			all = append(all, *d)
		}
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockDocumentRepo) Update(_ context.Context, doc *model.Document) error {
	m.documents[doc.DocumentID] = doc
	return nil
}

func (m *mockDocumentRepo) Delete(_ context.Context, id, _ string) error {
	if _, ok := m.documents[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.documents, id)
	return nil
}

// ── Mock TranscriptRepository ──

type mockTranscriptRepo struct {
	requests map[string]*model.TranscriptRequest
}

func newMockTranscriptRepo() *mockTranscriptRepo {
	return &mockTranscriptRepo{requests: make(map[string]*model.TranscriptRequest)}
}

func (m *mockTranscriptRepo) Create(_ context.Context, req *model.TranscriptRequest) error {
	if req.TranscriptRequestID == "" {
		req.TranscriptRequestID = mockID("tr")
	}
	m.requests[req.TranscriptRequestID] = req
	return nil
}

func (m *mockTranscriptRepo) GetByID(_ context.Context, id string) (*model.TranscriptRequest, error) {
	if r, ok := m.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTranscriptRepo) ListByStudent(_ context.Context, studentID string) ([]model.TranscriptRequest, error) {
	var result []model.TranscriptRequest
	for _, r := range m.requests {
		if r.StudentID == studentID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTranscriptRepo) ListByStatus(_ context.Context, statusCode string) ([]model.TranscriptRequest, error) {
	var result []model.TranscriptRequest
	for _, r := range m.requests {
		if r.StatusCode == statusCode {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockTranscriptRepo) Update(_ context.Context, req *model.TranscriptRequest) error {
	m.requests[req.TranscriptRequestID] = req
	return nil
}

// ── Mock LookupRepository ──

type mockLookupRepo struct {
	tables map[string]map[string]bool
}

func newMockLookupRepo() *mockLookupRepo {
	return &mockLookupRepo{tables: make(map[string]map[string]bool)}
}

func (m *mockLookupRepo) Seed(_ context.Context, table string, codes []string) error {
	if m.tables[table] == nil {
		m.tables[table] = make(map[string]bool)
	}
	for _, c := range codes {
		m.tables[table][c] = true
	}
	return nil
}

func (m *mockLookupRepo) Exists(_ context.Context, table, code string) (bool, error) {
	return m.tables[table][code], nil
}

func (m *mockLookupRepo) Codes(_ context.Context, table string) ([]string, error) {
	var result []string
	for c := range m.tables[table] {
		result = append(result, c)
	}
	sort.Strings(result)
	return result, nil
}

// page 对切片做 offset/limit 截取
func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
