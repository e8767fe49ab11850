package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// CollegeRepository 学院数据访问接口
type CollegeRepository interface {
	Create(ctx context.Context, college *model.College) error
	GetByID(ctx context.Context, id string) (*model.College, error)
	GetByCode(ctx context.Context, code string) (*model.College, error)
	GetOrCreateByCode(ctx context.Context, code, fullName string) (*model.College, error)
	List(ctx context.Context) ([]model.College, error)
	Update(ctx context.Context, college *model.College) error
	Delete(ctx context.Context, id string) error
}

type collegeRepo struct {
	db *gorm.DB
}

// NewCollegeRepo 创建 CollegeRepository 实例
func NewCollegeRepo(db *gorm.DB) CollegeRepository {
	return &collegeRepo{db: db}
}

func (r *collegeRepo) Create(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

func (r *collegeRepo) GetByID(ctx context.Context, id string) (*model.College, error) {
	var college model.College
	err := r.db.WithContext(ctx).
		Preload("Departments").
		Where("college_id = ?", id).
		First(&college).Error
	if err != nil {
		return nil, err
	}
	return &college, nil
}

func (r *collegeRepo) GetByCode(ctx context.Context, code string) (*model.College, error) {
	var college model.College
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&college).Error
	if err != nil {
		return nil, err
	}
	return &college, nil
}

func (r *collegeRepo) GetOrCreateByCode(ctx context.Context, code, fullName string) (*model.College, error) {
	var college model.College
	err := r.db.WithContext(ctx).
		Where(model.College{Code: code}).
		Attrs(model.College{FullName: fullName}).
		FirstOrCreate(&college).Error
	if err != nil {
		return nil, err
	}
	return &college, nil
}

func (r *collegeRepo) List(ctx context.Context) ([]model.College, error) {
	var colleges []model.College
	err := r.db.WithContext(ctx).
		Order("code").
		Find(&colleges).Error
	return colleges, err
}

func (r *collegeRepo) Update(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Save(college).Error
}

func (r *collegeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("college_id = ?", id).
		Delete(&model.College{}).Error
}

// DepartmentRepository 系所数据访问接口
type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	GetByID(ctx context.Context, id string) (*model.Department, error)
	GetByShortName(ctx context.Context, collegeID, shortName string) (*model.Department, error)
	// FindByShortName 不限定学院按简称查找，导入解析用
	FindByShortName(ctx context.Context, shortName string) (*model.Department, error)
	GetOrCreate(ctx context.Context, collegeID, shortName, fullName string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	ListByCollege(ctx context.Context, collegeID string) ([]model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	Delete(ctx context.Context, id string) error
}

type departmentRepo struct {
	db *gorm.DB
}

// NewDepartmentRepo 创建 DepartmentRepository 实例
func NewDepartmentRepo(db *gorm.DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

func (r *departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *departmentRepo) GetByID(ctx context.Context, id string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("department_id = ?", id).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetByShortName(ctx context.Context, collegeID, shortName string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("college_id = ? AND short_name = ?", collegeID, shortName).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) FindByShortName(ctx context.Context, shortName string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Preload("College").
		Where("short_name = ?", shortName).
		First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) GetOrCreate(ctx context.Context, collegeID, shortName, fullName string) (*model.Department, error) {
	var dept model.Department
	err := r.db.WithContext(ctx).
		Where(model.Department{CollegeID: collegeID, ShortName: shortName}).
		Attrs(model.Department{FullName: fullName}).
		FirstOrCreate(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Preload("College").
		Order("short_name").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) ListByCollege(ctx context.Context, collegeID string) ([]model.Department, error) {
	var depts []model.Department
	err := r.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		Order("short_name").
		Find(&depts).Error
	return depts, err
}

func (r *departmentRepo) Update(ctx context.Context, dept *model.Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *departmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("department_id = ?", id).
		Delete(&model.Department{}).Error
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByDeptAndNumber(ctx context.Context, departmentID, number string) (*model.Course, error)
	GetOrCreate(ctx context.Context, course *model.Course) (*model.Course, error)
	List(ctx context.Context, offset, limit int) ([]model.Course, int64, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error

	CreatePrerequisite(ctx context.Context, p *model.Prerequisite) error
	DeletePrerequisite(ctx context.Context, id string) error
	// ListPrerequisites 列出课程在某培养方案内的先修边；curriculumID 为空时不限方案
	ListPrerequisites(ctx context.Context, curriculumID, courseID string) ([]model.Prerequisite, error)
	// PrerequisitePairs 返回方案内全部 (course_id, required_course_id) 对，环检测用
	PrerequisitePairs(ctx context.Context, curriculumID string) ([]model.Prerequisite, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("College").
		Preload("Department").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByDeptAndNumber(ctx context.Context, departmentID, number string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("department_id = ? AND number = ?", departmentID, number).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetOrCreate(ctx context.Context, course *model.Course) (*model.Course, error) {
	var existing model.Course
	err := r.db.WithContext(ctx).
		Where(model.Course{DepartmentID: course.DepartmentID, Number: course.Number}).
		Attrs(*course).
		FirstOrCreate(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *courseRepo) List(ctx context.Context, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Course{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Department").
		Offset(offset).Limit(limit).
		Order("number").
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepo) ListByDepartment(ctx context.Context, departmentID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("number").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}

func (r *courseRepo) CreatePrerequisite(ctx context.Context, p *model.Prerequisite) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *courseRepo) DeletePrerequisite(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("prerequisite_id = ?", id).
		Delete(&model.Prerequisite{}).Error
}

func (r *courseRepo) ListPrerequisites(ctx context.Context, curriculumID, courseID string) ([]model.Prerequisite, error) {
	var prereqs []model.Prerequisite
	db := r.db.WithContext(ctx).
		Preload("RequiredCourse").
		Preload("RequiredCourse.Department").
		Where("course_id = ?", courseID)
	if curriculumID != "" {
		db = db.Where("curriculum_id = ?", curriculumID)
	}
	err := db.Find(&prereqs).Error
	return prereqs, err
}

func (r *courseRepo) PrerequisitePairs(ctx context.Context, curriculumID string) ([]model.Prerequisite, error) {
	var prereqs []model.Prerequisite
	err := r.db.WithContext(ctx).
		Where("curriculum_id = ?", curriculumID).
		Find(&prereqs).Error
	return prereqs, err
}

// CurriculumRepository 培养方案数据访问接口
type CurriculumRepository interface {
	Create(ctx context.Context, c *model.Curriculum) error
	GetByID(ctx context.Context, id string) (*model.Curriculum, error)
	List(ctx context.Context) ([]model.Curriculum, error)
	ListByCollege(ctx context.Context, collegeID string) ([]model.Curriculum, error)
	// ActiveTitleExists 同一学院内是否已有同名活跃方案
	ActiveTitleExists(ctx context.Context, collegeID, title, excludeID string) (bool, error)
	Update(ctx context.Context, c *model.Curriculum) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error

	AddCourse(ctx context.Context, cc *model.CurriculumCourse) error
	GetCourseEntry(ctx context.Context, id string) (*model.CurriculumCourse, error)
	ListCourses(ctx context.Context, curriculumID string) ([]model.CurriculumCourse, error)
	RemoveCourse(ctx context.Context, id string) error

	CreateConcentration(ctx context.Context, c *model.Concentration) error
	ListConcentrations(ctx context.Context, curriculumID string) ([]model.Concentration, error)
}

type curriculumRepo struct {
	db *gorm.DB
}

// NewCurriculumRepo 创建 CurriculumRepository 实例
func NewCurriculumRepo(db *gorm.DB) CurriculumRepository {
	return &curriculumRepo{db: db}
}

func (r *curriculumRepo) Create(ctx context.Context, c *model.Curriculum) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *curriculumRepo) GetByID(ctx context.Context, id string) (*model.Curriculum, error) {
	var c model.Curriculum
	err := r.db.WithContext(ctx).
		Preload("College").
		Preload("Courses").
		Preload("Courses.Course").
		Preload("Courses.Course.Department").
		Where("curriculum_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *curriculumRepo) List(ctx context.Context) ([]model.Curriculum, error) {
	var curricula []model.Curriculum
	err := r.db.WithContext(ctx).
		Preload("College").
		Order("title").
		Find(&curricula).Error
	return curricula, err
}

func (r *curriculumRepo) ListByCollege(ctx context.Context, collegeID string) ([]model.Curriculum, error) {
	var curricula []model.Curriculum
	err := r.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		Order("title").
		Find(&curricula).Error
	return curricula, err
}

func (r *curriculumRepo) ActiveTitleExists(ctx context.Context, collegeID, title, excludeID string) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&model.Curriculum{}).
		Where("college_id = ? AND title = ? AND is_active = ?", collegeID, title, true)
	if excludeID != "" {
		db = db.Where("curriculum_id <> ?", excludeID)
	}
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *curriculumRepo) Update(ctx context.Context, c *model.Curriculum) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *curriculumRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Curriculum{}).
		Where("curriculum_id = ?", id).
		Update("is_active", active).Error
}

func (r *curriculumRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("curriculum_id = ?", id).
		Delete(&model.Curriculum{}).Error
}

func (r *curriculumRepo) AddCourse(ctx context.Context, cc *model.CurriculumCourse) error {
	return r.db.WithContext(ctx).Create(cc).Error
}

func (r *curriculumRepo) GetCourseEntry(ctx context.Context, id string) (*model.CurriculumCourse, error) {
	var cc model.CurriculumCourse
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Department").
		Where("curriculum_course_id = ?", id).
		First(&cc).Error
	if err != nil {
		return nil, err
	}
	return &cc, nil
}

func (r *curriculumRepo) ListCourses(ctx context.Context, curriculumID string) ([]model.CurriculumCourse, error) {
	var entries []model.CurriculumCourse
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Department").
		Where("curriculum_id = ?", curriculumID).
		Order("suggested_semester").
		Find(&entries).Error
	return entries, err
}

func (r *curriculumRepo) RemoveCourse(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("curriculum_course_id = ?", id).
		Delete(&model.CurriculumCourse{}).Error
}

func (r *curriculumRepo) CreateConcentration(ctx context.Context, c *model.Concentration) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *curriculumRepo) ListConcentrations(ctx context.Context, curriculumID string) ([]model.Concentration, error) {
	var concentrations []model.Concentration
	err := r.db.WithContext(ctx).
		Where("curriculum_id = ?", curriculumID).
		Order("name").
		Find(&concentrations).Error
	return concentrations, err
}
