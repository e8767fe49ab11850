package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// ReservationRepository 选课预约数据访问接口
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetByStudentAndSection(ctx context.Context, studentID, sectionID string) (*model.Reservation, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Reservation, error)
	ListBySection(ctx context.Context, sectionID string) ([]model.Reservation, error)
	Update(ctx context.Context, reservation *model.Reservation) error
	// UpdateStatusIf 仅当现状态等于 from 时改写为 to，返回是否命中
	UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error)
	// ActiveCreditHours 学生当前 requested/validated/paid 预约的学分合计
	ActiveCreditHours(ctx context.Context, studentID, semesterID string) (int, error)
	// ListExpiredRequested 过了确认期限仍处于 requested 的预约
	ListExpiredRequested(ctx context.Context, now time.Time) ([]model.Reservation, error)
	Delete(ctx context.Context, id string) error
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("Section").
		Preload("Section.Course").
		Preload("Section.Course.Department").
		Where("reservation_id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepo) GetByStudentAndSection(ctx context.Context, studentID, sectionID string) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND section_id = ?", studentID, sectionID).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Preload("Section.Course.Department").
		Where("student_id = ?", studentID).
		Order("requested_at DESC").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) ListBySection(ctx context.Context, sectionID string) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("section_id = ?", sectionID).
		Order("requested_at").
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) Update(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

func (r *reservationRepo) UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reservation_id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reservationRepo) ActiveCreditHours(ctx context.Context, studentID, semesterID string) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Joins("JOIN sections ON sections.section_id = reservations.section_id").
		Where("reservations.student_id = ? AND sections.semester_id = ? AND reservations.status IN ?",
			studentID, semesterID,
			[]string{model.ReservationRequested, model.ReservationValidated, model.ReservationPaid}).
		Select("SUM(reservations.credit_hours)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *reservationRepo) ListExpiredRequested(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND validation_deadline < ?", model.ReservationRequested, now).
		Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("reservation_id = ?", id).
		Delete(&model.Reservation{}).Error
}

// RegistrationRepository 正式注册数据访问接口
type RegistrationRepository interface {
	Create(ctx context.Context, registration *model.Registration) error
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	GetByStudentAndSection(ctx context.Context, studentID, sectionID string) (*model.Registration, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Registration, error)
	ListByStudentAndSemester(ctx context.Context, studentID, semesterID string) ([]model.Registration, error)
	// Roster 班次的已完成注册名单
	Roster(ctx context.Context, sectionID string) ([]model.Registration, error)
	Update(ctx context.Context, registration *model.Registration) error
	Delete(ctx context.Context, id string) error
}

type registrationRepo struct {
	db *gorm.DB
}

// NewRegistrationRepo 创建 RegistrationRepository 实例
func NewRegistrationRepo(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) Create(ctx context.Context, registration *model.Registration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *registrationRepo) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	var registration model.Registration
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("Section").
		Preload("Section.Course").
		Preload("Section.Course.Department").
		Preload("Section.Semester").
		Where("registration_id = ?", id).
		First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepo) GetByStudentAndSection(ctx context.Context, studentID, sectionID string) (*model.Registration, error) {
	var registration model.Registration
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND section_id = ?", studentID, sectionID).
		First(&registration).Error
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.Registration, error) {
	var registrations []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Preload("Section.Course.Department").
		Preload("Section.Semester").
		Preload("Section.Semester.AcademicYear").
		Where("student_id = ?", studentID).
		Order("registered_at").
		Find(&registrations).Error
	return registrations, err
}

func (r *registrationRepo) ListByStudentAndSemester(ctx context.Context, studentID, semesterID string) ([]model.Registration, error) {
	var registrations []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Preload("Section.Course.Department").
		Joins("JOIN sections ON sections.section_id = registrations.section_id").
		Where("registrations.student_id = ? AND sections.semester_id = ?", studentID, semesterID).
		Find(&registrations).Error
	return registrations, err
}

func (r *registrationRepo) Roster(ctx context.Context, sectionID string) ([]model.Registration, error) {
	var registrations []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("section_id = ? AND status_code = ?", sectionID, model.RegistrationCompleted).
		Find(&registrations).Error
	return registrations, err
}

func (r *registrationRepo) Update(ctx context.Context, registration *model.Registration) error {
	return r.db.WithContext(ctx).Save(registration).Error
}

func (r *registrationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("registration_id = ?", id).
		Delete(&model.Registration{}).Error
}
