package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// GradeRepository 成绩数据访问接口
type GradeRepository interface {
	CreateValue(ctx context.Context, value *model.GradeValue) error
	GetValueByCode(ctx context.Context, code string) (*model.GradeValue, error)
	GetOrCreateValue(ctx context.Context, value *model.GradeValue) (*model.GradeValue, error)
	ListValues(ctx context.Context) ([]model.GradeValue, error)

	Create(ctx context.Context, grade *model.Grade) error
	GetByID(ctx context.Context, id string) (*model.Grade, error)
	GetByStudentAndSection(ctx context.Context, studentID, sectionID string) (*model.Grade, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Grade, error)
	ListBySection(ctx context.Context, sectionID string) ([]model.Grade, error)
	// ListPassedCourseIDs 学生已通过课程的 ID 集合
	ListPassedCourseIDs(ctx context.Context, studentID string) ([]string, error)
	Update(ctx context.Context, grade *model.Grade) error
	Delete(ctx context.Context, id string) error
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo 创建 GradeRepository 实例
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) CreateValue(ctx context.Context, value *model.GradeValue) error {
	return r.db.WithContext(ctx).Create(value).Error
}

func (r *gradeRepo) GetValueByCode(ctx context.Context, code string) (*model.GradeValue, error) {
	var value model.GradeValue
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&value).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *gradeRepo) GetOrCreateValue(ctx context.Context, value *model.GradeValue) (*model.GradeValue, error) {
	var existing model.GradeValue
	err := r.db.WithContext(ctx).
		Where(model.GradeValue{Code: value.Code}).
		Attrs(*value).
		FirstOrCreate(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *gradeRepo) ListValues(ctx context.Context) ([]model.GradeValue, error) {
	var values []model.GradeValue
	err := r.db.WithContext(ctx).
		Order("numeric DESC").
		Find(&values).Error
	return values, err
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepo) GetByID(ctx context.Context, id string) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("Section").
		Preload("Section.Course").
		Preload("Section.Course.Department").
		Preload("GradeValue").
		Where("grade_id = ?", id).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) GetByStudentAndSection(ctx context.Context, studentID, sectionID string) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Preload("GradeValue").
		Where("student_id = ? AND section_id = ?", studentID, sectionID).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Preload("Section.Course.Department").
		Preload("Section.Semester").
		Preload("Section.Semester.AcademicYear").
		Preload("GradeValue").
		Where("student_id = ?", studentID).
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) ListBySection(ctx context.Context, sectionID string) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("GradeValue").
		Where("section_id = ?", sectionID).
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) ListPassedCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	var courseIDs []string
	err := r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Joins("JOIN grade_values ON grade_values.grade_value_id = grades.grade_value_id").
		Joins("JOIN sections ON sections.section_id = grades.section_id").
		Where("grades.student_id = ? AND grade_values.numeric >= 1", studentID).
		Distinct().
		Pluck("sections.course_id", &courseIDs).Error
	return courseIDs, err
}

func (r *gradeRepo) Update(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *gradeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		Delete(&model.Grade{}).Error
}
