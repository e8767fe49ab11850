package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 目录模块业务错误 ──

var (
	ErrCollegeNotFound        = errors.New("学院不存在")
	ErrCollegeExists          = errors.New("学院代码已存在")
	ErrDepartmentNotFound     = errors.New("系所不存在")
	ErrCourseNotFound         = errors.New("课程不存在")
	ErrCourseExists           = errors.New("同系所下课程号已存在")
	ErrPrereqSelf             = errors.New("课程不能以自身为先修")
	ErrPrereqCycle            = errors.New("Circular prerequisite detected.")
	ErrCurriculumNotFound     = errors.New("培养方案不存在")
	ErrCurriculumTitleTaken   = errors.New("同学院下已有同名活跃方案")
	ErrCurriculumYearNoDigit  = errors.New("课程号首位无数字，无法推导建议年级")
	ErrCurriculumStatusIll    = errors.New("非法的方案审批状态")
	ErrConcentrationExists    = errors.New("方案下已有同名专业方向")
	ErrStudentNotFound        = errors.New("学生不存在")
)

// 已知学院代码的默认长名，建档时省去手填
var defaultCollegeNames = map[string]string{
	"COAS": "College of Arts and Sciences",
	"COBA": "College of Business Administration",
	"COED": "College of Education",
	"COET": "College of Engineering and Technology",
	"COHS": "College of Health Sciences",
	"COAF": "College of Agriculture and Forestry",
}

// CollegeLongName 已知代码返回标准长名，未知代码回传代码本身
func CollegeLongName(code string) string {
	if name, ok := defaultCollegeNames[code]; ok {
		return name
	}
	return code
}

// CatalogService 学院/系所/课程/培养方案业务接口
type CatalogService interface {
	CreateCollege(ctx context.Context, req *dto.CreateCollegeRequest, callerID string) (*dto.CollegeResponse, error)
	ListColleges(ctx context.Context) ([]dto.CollegeResponse, error)

	CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	ListDepartments(ctx context.Context, collegeID string) ([]dto.DepartmentResponse, error)

	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, page *dto.PaginationRequest) (*dto.PagedResponse[dto.CourseResponse], error)
	UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)

	AddPrerequisite(ctx context.Context, courseID string, req *dto.AddPrerequisiteRequest, callerID string) (*dto.PrerequisiteResponse, error)
	ListPrerequisites(ctx context.Context, curriculumID, courseID string) ([]dto.PrerequisiteResponse, error)

	CreateCurriculum(ctx context.Context, req *dto.CreateCurriculumRequest, callerID string) (*dto.CurriculumResponse, error)
	GetCurriculum(ctx context.Context, id string) (*dto.CurriculumResponse, error)
	ListCurricula(ctx context.Context) ([]dto.CurriculumResponse, error)
	SetCurriculumStatus(ctx context.Context, id string, req *dto.SetCurriculumStatusRequest, callerID string) (*dto.CurriculumResponse, error)
	AddCurriculumCourse(ctx context.Context, curriculumID string, req *dto.AddCurriculumCourseRequest, callerID string) (*dto.CurriculumCourseResponse, error)
	AddConcentration(ctx context.Context, curriculumID string, req *dto.AddConcentrationRequest, callerID string) (*dto.ConcentrationResponse, error)
	ListConcentrations(ctx context.Context, curriculumID string) ([]dto.ConcentrationResponse, error)

	// PassedCourses 学生已通过课程 ID 集合
	PassedCourses(ctx context.Context, studentID string) ([]string, error)
	// AllowedCourses 方案内未通过且先修满足的课程
	AllowedCourses(ctx context.Context, studentID string) ([]dto.AllowedCourseResponse, error)
}

type catalogService struct {
	cfg    *config.Config
	repo   *repository.Repository
	status StatusService
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(cfg *config.Config, repo *repository.Repository, status StatusService, logger *zap.Logger) CatalogService {
	return &catalogService{cfg: cfg, repo: repo, status: status, logger: logger}
}

// ────────────────────── 学院 / 系所 ──────────────────────

func (s *catalogService) CreateCollege(ctx context.Context, req *dto.CreateCollegeRequest, callerID string) (*dto.CollegeResponse, error) {
	if _, err := s.repo.College.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrCollegeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fullName := req.FullName
	if fullName == "" {
		fullName = CollegeLongName(req.Code)
	}

	college := &model.College{Code: req.Code, FullName: fullName}
	college.CreatedBy = &callerID
	college.UpdatedBy = &callerID

	if err := s.repo.College.Create(ctx, college); err != nil {
		s.logger.Error("创建学院失败", zap.Error(err))
		return nil, err
	}
	return toCollegeResponse(college), nil
}

func (s *catalogService) ListColleges(ctx context.Context) ([]dto.CollegeResponse, error) {
	colleges, err := s.repo.College.List(ctx)
	if err != nil {
		s.logger.Error("列出学院失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CollegeResponse, 0, len(colleges))
	for i := range colleges {
		result = append(result, *toCollegeResponse(&colleges[i]))
	}
	return result, nil
}

func (s *catalogService) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	college, err := s.repo.College.GetByID(ctx, req.CollegeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}

	dept := &model.Department{
		CollegeID: college.CollegeID,
		ShortName: req.ShortName,
		FullName:  req.FullName,
	}
	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("创建系所失败", zap.Error(err))
		return nil, err
	}
	dept.College = college
	return toDepartmentResponse(dept), nil
}

func (s *catalogService) ListDepartments(ctx context.Context, collegeID string) ([]dto.DepartmentResponse, error) {
	var (
		depts []model.Department
		err   error
	)
	if collegeID != "" {
		depts, err = s.repo.Department.ListByCollege(ctx, collegeID)
	} else {
		depts, err = s.repo.Department.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出系所失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, *toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

// ────────────────────── 课程 ──────────────────────

func (s *catalogService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	deptName := req.Department
	number := req.Number
	collegeCode := ""

	if req.Code != "" {
		parts, err := ExpandCourseCode(req.Code, "", s.cfg.Registry.DefaultCollege)
		if err != nil {
			return nil, err
		}
		deptName, number, collegeCode = parts.Dept, parts.Number, parts.College
	}
	if deptName == "" || number == "" {
		return nil, ErrCourseCodeInvalid
	}

	var college *model.College
	var err error
	if req.CollegeID != "" {
		college, err = s.repo.College.GetByID(ctx, req.CollegeID)
	} else {
		if collegeCode == "" {
			collegeCode = s.cfg.Registry.DefaultCollege
		}
		college, err = s.repo.College.GetOrCreateByCode(ctx, collegeCode, CollegeLongName(collegeCode))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}

	dept, err := s.repo.Department.GetOrCreate(ctx, college.CollegeID, deptName, deptName)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Course.GetByDeptAndNumber(ctx, dept.DepartmentID, number); err == nil {
		return nil, ErrCourseExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	credits := req.CreditHours
	if credits == 0 {
		credits = 3
	}

	course := &model.Course{
		CollegeID:    college.CollegeID,
		DepartmentID: dept.DepartmentID,
		Number:       number,
		Title:        req.Title,
		CreditHours:  credits,
		Description:  req.Description,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}
	course.Department = dept
	return toCourseResponse(course), nil
}

func (s *catalogService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return toCourseResponse(course), nil
}

func (s *catalogService) ListCourses(ctx context.Context, page *dto.PaginationRequest) (*dto.PagedResponse[dto.CourseResponse], error) {
	courses, total, err := s.repo.Course.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		items = append(items, *toCourseResponse(&courses[i]))
	}
	return dto.NewPagedResponse(items, total, page.GetPage(), page.GetPageSize()), nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.CreditHours != nil {
		course.CreditHours = *req.CreditHours
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── 先修关系 ──────────────────────

// AddPrerequisite 在培养方案内建立先修关系：拒绝自指、互指与任何成环路径
func (s *catalogService) AddPrerequisite(ctx context.Context, courseID string, req *dto.AddPrerequisiteRequest, callerID string) (*dto.PrerequisiteResponse, error) {
	if courseID == req.RequiredCourseID {
		return nil, ErrPrereqSelf
	}

	if _, err := s.repo.Curriculum.GetByID(ctx, req.CurriculumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurriculumNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	required, err := s.repo.Course.GetByID(ctx, req.RequiredCourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	// 先修图按方案独立，环检测只看本方案内的边
	pairs, err := s.repo.Course.PrerequisitePairs(ctx, req.CurriculumID)
	if err != nil {
		return nil, err
	}

	// 已有边 required -> ... -> course 时再加 course -> required 会成环，互指是其最短情形
	edges := make(map[string][]string, len(pairs))
	for _, p := range pairs {
		edges[p.CourseID] = append(edges[p.CourseID], p.RequiredCourseID)
	}
	if reaches(edges, req.RequiredCourseID, courseID) {
		return nil, ErrPrereqCycle
	}

	prereq := &model.Prerequisite{
		CurriculumID:     req.CurriculumID,
		CourseID:         courseID,
		RequiredCourseID: req.RequiredCourseID,
	}
	prereq.CreatedBy = &callerID
	prereq.UpdatedBy = &callerID

	if err := s.repo.Course.CreatePrerequisite(ctx, prereq); err != nil {
		s.logger.Error("创建先修关系失败", zap.Error(err))
		return nil, err
	}

	return &dto.PrerequisiteResponse{
		ID:                 prereq.PrerequisiteID,
		CurriculumID:       req.CurriculumID,
		CourseID:           courseID,
		RequiredCourseID:   req.RequiredCourseID,
		RequiredCourseCode: required.ShortCode(),
	}, nil
}

func (s *catalogService) ListPrerequisites(ctx context.Context, curriculumID, courseID string) ([]dto.PrerequisiteResponse, error) {
	prereqs, err := s.repo.Course.ListPrerequisites(ctx, curriculumID, courseID)
	if err != nil {
		s.logger.Error("列出先修关系失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PrerequisiteResponse, 0, len(prereqs))
	for _, p := range prereqs {
		resp := dto.PrerequisiteResponse{
			ID:               p.PrerequisiteID,
			CurriculumID:     p.CurriculumID,
			CourseID:         p.CourseID,
			RequiredCourseID: p.RequiredCourseID,
		}
		if p.RequiredCourse != nil {
			resp.RequiredCourseCode = p.RequiredCourse.ShortCode()
		}
		result = append(result, resp)
	}
	return result, nil
}

// reaches 先修图上 from 是否可达 to（深度优先）
func reaches(edges map[string][]string, from, to string) bool {
	seen := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, edges[cur]...)
	}
	return false
}

// ────────────────────── 培养方案 ──────────────────────

func (s *catalogService) CreateCurriculum(ctx context.Context, req *dto.CreateCurriculumRequest, callerID string) (*dto.CurriculumResponse, error) {
	if _, err := s.repo.College.GetByID(ctx, req.CollegeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}

	total := req.TotalCredits
	if total == 0 {
		total = 120
	}

	curriculum := &model.Curriculum{
		CollegeID:    req.CollegeID,
		Title:        req.Title,
		DegreeName:   req.DegreeName,
		TotalCredits: total,
	}
	curriculum.CreatedBy = &callerID
	curriculum.UpdatedBy = &callerID

	err := s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Curriculum.Create(ctx, curriculum); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindCurriculum,
			curriculum.CurriculumID, model.CurriculumPending, callerID, "")
	})
	if err != nil {
		s.logger.Error("创建培养方案失败", zap.Error(err))
		return nil, err
	}
	return toCurriculumResponse(curriculum), nil
}

func (s *catalogService) GetCurriculum(ctx context.Context, id string) (*dto.CurriculumResponse, error) {
	curriculum, err := s.repo.Curriculum.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurriculumNotFound
		}
		return nil, err
	}
	return toCurriculumResponse(curriculum), nil
}

func (s *catalogService) ListCurricula(ctx context.Context) ([]dto.CurriculumResponse, error) {
	curricula, err := s.repo.Curriculum.List(ctx)
	if err != nil {
		s.logger.Error("列出培养方案失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.CurriculumResponse, 0, len(curricula))
	for i := range curricula {
		result = append(result, *toCurriculumResponse(&curricula[i]))
	}
	return result, nil
}

// SetCurriculumStatus 审批转移；approved 时校验同名唯一并同步 is_active
func (s *catalogService) SetCurriculumStatus(ctx context.Context, id string, req *dto.SetCurriculumStatusRequest, callerID string) (*dto.CurriculumResponse, error) {
	if !model.StatusAllowed(model.ContentKindCurriculum, req.Status) {
		return nil, ErrCurriculumStatusIll
	}

	curriculum, err := s.repo.Curriculum.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurriculumNotFound
		}
		return nil, err
	}

	active := req.Status == model.CurriculumApproved
	if active {
		taken, err := s.repo.Curriculum.ActiveTitleExists(ctx, curriculum.CollegeID, curriculum.Title, curriculum.CurriculumID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrCurriculumTitleTaken
		}
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := s.status.Append(ctx, txRepo, model.ContentKindCurriculum,
			curriculum.CurriculumID, req.Status, callerID, req.Note); err != nil {
			return err
		}
		// 幂等同步派生标志，不重复触发审批
		if curriculum.IsActive != active {
			if err := txRepo.Curriculum.SetActive(ctx, curriculum.CurriculumID, active); err != nil {
				return err
			}
			curriculum.IsActive = active
		}
		return nil
	})
	if err != nil {
		s.logger.Error("推进方案状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCurriculumResponse(curriculum), nil
}

func (s *catalogService) AddCurriculumCourse(ctx context.Context, curriculumID string, req *dto.AddCurriculumCourseRequest, callerID string) (*dto.CurriculumCourseResponse, error) {
	if _, err := s.repo.Curriculum.GetByID(ctx, curriculumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurriculumNotFound
		}
		return nil, err
	}
	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.Level() == 0 {
		return nil, ErrCurriculumYearNoDigit
	}

	suggested := req.SuggestedSemester
	if suggested == 0 {
		suggested = 1
	}
	required := true
	if req.IsRequired != nil {
		required = *req.IsRequired
	}

	cc := &model.CurriculumCourse{
		CurriculumID:      curriculumID,
		CourseID:          course.CourseID,
		SuggestedSemester: suggested,
		CreditOverride:    req.CreditOverride,
		IsRequired:        required,
	}
	cc.CreatedBy = &callerID
	cc.UpdatedBy = &callerID

	if err := s.repo.Curriculum.AddCourse(ctx, cc); err != nil {
		s.logger.Error("添加方案课程失败", zap.Error(err))
		return nil, err
	}
	cc.Course = course
	return toCurriculumCourseResponse(cc), nil
}

func (s *catalogService) AddConcentration(ctx context.Context, curriculumID string, req *dto.AddConcentrationRequest, callerID string) (*dto.ConcentrationResponse, error) {
	if _, err := s.repo.Curriculum.GetByID(ctx, curriculumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurriculumNotFound
		}
		return nil, err
	}

	existing, err := s.repo.Curriculum.ListConcentrations(ctx, curriculumID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if strings.EqualFold(existing[i].Name, req.Name) {
			return nil, ErrConcentrationExists
		}
	}

	concentration := &model.Concentration{CurriculumID: curriculumID, Name: req.Name}
	concentration.CreatedBy = &callerID
	concentration.UpdatedBy = &callerID

	if err := s.repo.Curriculum.CreateConcentration(ctx, concentration); err != nil {
		s.logger.Error("创建专业方向失败", zap.Error(err))
		return nil, err
	}
	return toConcentrationResponse(concentration), nil
}

func (s *catalogService) ListConcentrations(ctx context.Context, curriculumID string) ([]dto.ConcentrationResponse, error) {
	if _, err := s.repo.Curriculum.GetByID(ctx, curriculumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCurriculumNotFound
		}
		return nil, err
	}

	concentrations, err := s.repo.Curriculum.ListConcentrations(ctx, curriculumID)
	if err != nil {
		s.logger.Error("列出专业方向失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ConcentrationResponse, 0, len(concentrations))
	for i := range concentrations {
		result = append(result, *toConcentrationResponse(&concentrations[i]))
	}
	return result, nil
}

// ────────────────────── 选课可达性 ──────────────────────

func (s *catalogService) PassedCourses(ctx context.Context, studentID string) ([]string, error) {
	return s.repo.Grade.ListPassedCourseIDs(ctx, studentID)
}

func (s *catalogService) AllowedCourses(ctx context.Context, studentID string) ([]dto.AllowedCourseResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	entries, err := s.repo.Curriculum.ListCourses(ctx, student.CurriculumID)
	if err != nil {
		return nil, err
	}

	passed, err := s.repo.Grade.ListPassedCourseIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}
	passedSet := make(map[string]bool, len(passed))
	for _, id := range passed {
		passedSet[id] = true
	}

	result := make([]dto.AllowedCourseResponse, 0, len(entries))
	for _, entry := range entries {
		if passedSet[entry.CourseID] || entry.Course == nil {
			continue
		}
		prereqs, err := s.repo.Course.ListPrerequisites(ctx, student.CurriculumID, entry.CourseID)
		if err != nil {
			return nil, err
		}
		ok := true
		for _, p := range prereqs {
			if !passedSet[p.RequiredCourseID] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		result = append(result, dto.AllowedCourseResponse{
			CourseID:    entry.CourseID,
			ShortCode:   entry.Course.ShortCode(),
			Title:       entry.Course.Title,
			CreditHours: entry.EffectiveCreditHours(),
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

func toCollegeResponse(college *model.College) *dto.CollegeResponse {
	return &dto.CollegeResponse{
		ID:       college.CollegeID,
		Code:     college.Code,
		FullName: college.FullName,
	}
}

func toDepartmentResponse(dept *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		ID:        dept.DepartmentID,
		Code:      dept.Code(),
		ShortName: dept.ShortName,
		FullName:  dept.FullName,
		CollegeID: dept.CollegeID,
	}
}

func toCourseResponse(course *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:          course.CourseID,
		ShortCode:   course.ShortCode(),
		Number:      course.Number,
		Title:       course.Title,
		CreditHours: course.CreditHours,
		Level:       course.Level(),
		LevelName:   course.LevelName(),
		Description: course.Description,
	}
	if course.Department != nil {
		resp.Department = course.Department.ShortName
	}
	return resp
}

func toCurriculumResponse(c *model.Curriculum) *dto.CurriculumResponse {
	resp := &dto.CurriculumResponse{
		ID:           c.CurriculumID,
		CollegeID:    c.CollegeID,
		Title:        c.Title,
		DegreeName:   c.DegreeName,
		TotalCredits: c.TotalCredits,
		IsActive:     c.IsActive,
	}
	for i := range c.Courses {
		resp.Courses = append(resp.Courses, *toCurriculumCourseResponse(&c.Courses[i]))
	}
	return resp
}

func toCurriculumCourseResponse(cc *model.CurriculumCourse) *dto.CurriculumCourseResponse {
	resp := &dto.CurriculumCourseResponse{
		ID:                cc.CurriculumCourseID,
		CourseID:          cc.CourseID,
		SuggestedSemester: cc.SuggestedSemester,
		CreditHours:       cc.EffectiveCreditHours(),
		YearLevel:         cc.YearLevel(),
		IsRequired:        cc.IsRequired,
	}
	if cc.Course != nil {
		resp.CourseCode = cc.Course.ShortCode()
		resp.CourseTitle = cc.Course.Title
	}
	return resp
}

func toConcentrationResponse(c *model.Concentration) *dto.ConcentrationResponse {
	return &dto.ConcentrationResponse{
		ID:           c.ConcentrationID,
		CurriculumID: c.CurriculumID,
		Name:         c.Name,
	}
}
