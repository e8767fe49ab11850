package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// AcademicYearRepository 学年数据访问接口
type AcademicYearRepository interface {
	Create(ctx context.Context, year *model.AcademicYear) error
	GetByID(ctx context.Context, id string) (*model.AcademicYear, error)
	GetByCode(ctx context.Context, code string) (*model.AcademicYear, error)
	List(ctx context.Context) ([]model.AcademicYear, error)
	Update(ctx context.Context, year *model.AcademicYear) error
	Delete(ctx context.Context, id string) error
}

type academicYearRepo struct {
	db *gorm.DB
}

// NewAcademicYearRepo 创建 AcademicYearRepository 实例
func NewAcademicYearRepo(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepo{db: db}
}

func (r *academicYearRepo) Create(ctx context.Context, year *model.AcademicYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

func (r *academicYearRepo) GetByID(ctx context.Context, id string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Preload("Semesters").
		Where("academic_year_id = ?", id).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) GetByCode(ctx context.Context, code string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) List(ctx context.Context) ([]model.AcademicYear, error) {
	var years []model.AcademicYear
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&years).Error
	return years, err
}

func (r *academicYearRepo) Update(ctx context.Context, year *model.AcademicYear) error {
	return r.db.WithContext(ctx).Save(year).Error
}

func (r *academicYearRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("academic_year_id = ?", id).
		Delete(&model.AcademicYear{}).Error
}

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.Semester) error
	GetByID(ctx context.Context, id string) (*model.Semester, error)
	GetByYearAndNumber(ctx context.Context, academicYearID string, number int) (*model.Semester, error)
	// GetCurrent 返回覆盖今日的学期，没有则返回最近开始的一个
	GetCurrent(ctx context.Context, today time.Time) (*model.Semester, error)
	List(ctx context.Context) ([]model.Semester, error)
	ListByYear(ctx context.Context, academicYearID string) ([]model.Semester, error)
	Update(ctx context.Context, semester *model.Semester) error
	Delete(ctx context.Context, id string) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Preload("AcademicYear").
		Preload("Terms").
		Where("semester_id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) GetByYearAndNumber(ctx context.Context, academicYearID string, number int) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Preload("AcademicYear").
		Where("academic_year_id = ? AND number = ?", academicYearID, number).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) GetCurrent(ctx context.Context, today time.Time) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Preload("AcademicYear").
		Where("start_date <= ? AND end_date >= ?", today, today).
		First(&semester).Error
	if err == nil {
		return &semester, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	err = r.db.WithContext(ctx).
		Preload("AcademicYear").
		Order("start_date DESC").
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) List(ctx context.Context) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Preload("AcademicYear").
		Order("start_date DESC").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) ListByYear(ctx context.Context, academicYearID string) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Where("academic_year_id = ?", academicYearID).
		Order("number").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) Update(ctx context.Context, semester *model.Semester) error {
	return r.db.WithContext(ctx).Save(semester).Error
}

func (r *semesterRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("semester_id = ?", id).
		Delete(&model.Semester{}).Error
}

// TermRepository 学段数据访问接口
type TermRepository interface {
	Create(ctx context.Context, term *model.Term) error
	GetByID(ctx context.Context, id string) (*model.Term, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.Term, error)
	Update(ctx context.Context, term *model.Term) error
	Delete(ctx context.Context, id string) error
}

type termRepo struct {
	db *gorm.DB
}

// NewTermRepo 创建 TermRepository 实例
func NewTermRepo(db *gorm.DB) TermRepository {
	return &termRepo{db: db}
}

func (r *termRepo) Create(ctx context.Context, term *model.Term) error {
	return r.db.WithContext(ctx).Create(term).Error
}

func (r *termRepo) GetByID(ctx context.Context, id string) (*model.Term, error) {
	var term model.Term
	err := r.db.WithContext(ctx).
		Preload("Semester").
		Preload("Semester.AcademicYear").
		Where("term_id = ?", id).
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *termRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.Term, error) {
	var terms []model.Term
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", semesterID).
		Order("number").
		Find(&terms).Error
	return terms, err
}

func (r *termRepo) Update(ctx context.Context, term *model.Term) error {
	return r.db.WithContext(ctx).Save(term).Error
}

func (r *termRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("term_id = ?", id).
		Delete(&model.Term{}).Error
}
