package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// nextSeq 取 Postgres 序列的下一个值，人员编号派生用
func nextSeq(ctx context.Context, db *gorm.DB, sequence string) (int64, error) {
	var seq int64
	err := db.WithContext(ctx).
		Raw("SELECT nextval(?)", sequence).
		Scan(&seq).Error
	return seq, err
}

// StudentRepository 学生档案数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByUserID(ctx context.Context, userID string) (*model.Student, error)
	GetByStudentNo(ctx context.Context, no string) (*model.Student, error)
	List(ctx context.Context, offset, limit int) ([]model.Student, int64, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id string) error
	NextSeq(ctx context.Context) (int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Curriculum").
		Preload("CurrentSemester").
		Where("student_id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByUserID(ctx context.Context, userID string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Curriculum").
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) GetByStudentNo(ctx context.Context, no string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("student_no = ?", no).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, offset, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Student{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("student_no").
		Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ?", id).
		Delete(&model.Student{}).Error
}

func (r *studentRepo) NextSeq(ctx context.Context) (int64, error) {
	return nextSeq(ctx, r.db, "student_no_seq")
}

// StaffRepository 职员档案数据访问接口
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	GetByUserID(ctx context.Context, userID string) (*model.Staff, error)
	List(ctx context.Context, offset, limit int) ([]model.Staff, int64, error)
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id string) error
	NextSeq(ctx context.Context) (int64, error)
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Department").
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) GetByUserID(ctx context.Context, userID string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) List(ctx context.Context, offset, limit int) ([]model.Staff, int64, error) {
	var staffs []model.Staff
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Staff{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("staff_no").
		Find(&staffs).Error; err != nil {
		return nil, 0, err
	}

	return staffs, total, nil
}

func (r *staffRepo) Update(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		Delete(&model.Staff{}).Error
}

func (r *staffRepo) NextSeq(ctx context.Context) (int64, error) {
	return nextSeq(ctx, r.db, "staff_no_seq")
}

// FacultyRepository 教员数据访问接口
type FacultyRepository interface {
	Create(ctx context.Context, faculty *model.Faculty) error
	GetByID(ctx context.Context, id string) (*model.Faculty, error)
	GetByStaffID(ctx context.Context, staffID string) (*model.Faculty, error)
	GetByUserID(ctx context.Context, userID string) (*model.Faculty, error)
	List(ctx context.Context, offset, limit int) ([]model.Faculty, int64, error)
	ListByCollege(ctx context.Context, collegeID string) ([]model.Faculty, error)
	Update(ctx context.Context, faculty *model.Faculty) error
	Delete(ctx context.Context, id string) error
}

type facultyRepo struct {
	db *gorm.DB
}

// NewFacultyRepo 创建 FacultyRepository 实例
func NewFacultyRepo(db *gorm.DB) FacultyRepository {
	return &facultyRepo{db: db}
}

func (r *facultyRepo) Create(ctx context.Context, faculty *model.Faculty) error {
	return r.db.WithContext(ctx).Create(faculty).Error
}

func (r *facultyRepo) GetByID(ctx context.Context, id string) (*model.Faculty, error) {
	var faculty model.Faculty
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Staff.User").
		Preload("College").
		Where("faculty_id = ?", id).
		First(&faculty).Error
	if err != nil {
		return nil, err
	}
	return &faculty, nil
}

func (r *facultyRepo) GetByStaffID(ctx context.Context, staffID string) (*model.Faculty, error) {
	var faculty model.Faculty
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Staff.User").
		Where("staff_id = ?", staffID).
		First(&faculty).Error
	if err != nil {
		return nil, err
	}
	return &faculty, nil
}

func (r *facultyRepo) GetByUserID(ctx context.Context, userID string) (*model.Faculty, error) {
	var faculty model.Faculty
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Staff.User").
		Joins("JOIN staffs ON staffs.staff_id = faculties.staff_id").
		Where("staffs.user_id = ?", userID).
		First(&faculty).Error
	if err != nil {
		return nil, err
	}
	return &faculty, nil
}

func (r *facultyRepo) List(ctx context.Context, offset, limit int) ([]model.Faculty, int64, error) {
	var faculties []model.Faculty
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Faculty{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Staff").
		Preload("Staff.User").
		Preload("College").
		Offset(offset).Limit(limit).
		Find(&faculties).Error; err != nil {
		return nil, 0, err
	}

	return faculties, total, nil
}

func (r *facultyRepo) ListByCollege(ctx context.Context, collegeID string) ([]model.Faculty, error) {
	var faculties []model.Faculty
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Staff.User").
		Where("college_id = ?", collegeID).
		Find(&faculties).Error
	return faculties, err
}

func (r *facultyRepo) Update(ctx context.Context, faculty *model.Faculty) error {
	return r.db.WithContext(ctx).Save(faculty).Error
}

func (r *facultyRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("faculty_id = ?", id).
		Delete(&model.Faculty{}).Error
}

// DonorRepository 捐赠人档案数据访问接口
type DonorRepository interface {
	Create(ctx context.Context, donor *model.Donor) error
	GetByID(ctx context.Context, id string) (*model.Donor, error)
	GetByUserID(ctx context.Context, userID string) (*model.Donor, error)
	List(ctx context.Context, offset, limit int) ([]model.Donor, int64, error)
	Update(ctx context.Context, donor *model.Donor) error
	Delete(ctx context.Context, id string) error
	NextSeq(ctx context.Context) (int64, error)
}

type donorRepo struct {
	db *gorm.DB
}

// NewDonorRepo 创建 DonorRepository 实例
func NewDonorRepo(db *gorm.DB) DonorRepository {
	return &donorRepo{db: db}
}

func (r *donorRepo) Create(ctx context.Context, donor *model.Donor) error {
	return r.db.WithContext(ctx).Create(donor).Error
}

func (r *donorRepo) GetByID(ctx context.Context, id string) (*model.Donor, error) {
	var donor model.Donor
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("donor_id = ?", id).
		First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepo) GetByUserID(ctx context.Context, userID string) (*model.Donor, error) {
	var donor model.Donor
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&donor).Error
	if err != nil {
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepo) List(ctx context.Context, offset, limit int) ([]model.Donor, int64, error) {
	var donors []model.Donor
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Donor{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("donor_no").
		Find(&donors).Error; err != nil {
		return nil, 0, err
	}

	return donors, total, nil
}

func (r *donorRepo) Update(ctx context.Context, donor *model.Donor) error {
	return r.db.WithContext(ctx).Save(donor).Error
}

func (r *donorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("donor_id = ?", id).
		Delete(&model.Donor{}).Error
}

func (r *donorRepo) NextSeq(ctx context.Context) (int64, error) {
	return nextSeq(ctx, r.db, "donor_no_seq")
}
