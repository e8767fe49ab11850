package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maliky/tuth-sub000/internal/model"
)

// ScheduleRepository 周课时模板数据访问接口
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id string) (*model.Schedule, error)
	GetOrCreate(ctx context.Context, weekday int, start, end string) (*model.Schedule, error)
	List(ctx context.Context) ([]model.Schedule, error)
	Delete(ctx context.Context, id string) error
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, schedule *model.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) GetOrCreate(ctx context.Context, weekday int, start, end string) (*model.Schedule, error) {
	var schedule model.Schedule
	err := r.db.WithContext(ctx).
		Where("weekday = ? AND start_time = ? AND end_time = ?", weekday, start, end).
		FirstOrCreate(&schedule, model.Schedule{Weekday: weekday, StartTime: start, EndTime: end}).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) List(ctx context.Context) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.WithContext(ctx).
		Order("weekday, start_time").
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		Delete(&model.Schedule{}).Error
}

// SectionRepository 开课班次数据访问接口
type SectionRepository interface {
	Create(ctx context.Context, section *model.Section) error
	GetByID(ctx context.Context, id string) (*model.Section, error)
	GetByNumber(ctx context.Context, courseID, semesterID string, number int) (*model.Section, error)
	List(ctx context.Context, semesterID string, offset, limit int) ([]model.Section, int64, error)
	ListByCourse(ctx context.Context, courseID, semesterID string) ([]model.Section, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.Section, error)
	Update(ctx context.Context, section *model.Section) error
	Delete(ctx context.Context, id string) error
	// NextNumber 行锁下取 (course, semester) 内下一个班次号
	NextNumber(ctx context.Context, courseID, semesterID string) (int, error)
	// IncrementSeats 条件占座：仍有空位才加一，返回是否成功
	IncrementSeats(ctx context.Context, sectionID string) (bool, error)
	DecrementSeats(ctx context.Context, sectionID string) error
	ListFees(ctx context.Context, sectionID string) ([]model.SectionFee, error)
	CreateFee(ctx context.Context, fee *model.SectionFee) error
	DeleteFee(ctx context.Context, feeID string) error
}

type sectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo 创建 SectionRepository 实例
func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) Create(ctx context.Context, section *model.Section) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *sectionRepo) GetByID(ctx context.Context, id string) (*model.Section, error) {
	var section model.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Department").
		Preload("Semester").
		Preload("Semester.AcademicYear").
		Preload("PrimaryFaculty").
		Preload("PrimaryFaculty.Staff").
		Preload("PrimaryFaculty.Staff.User").
		Preload("Sessions").
		Preload("Sessions.Schedule").
		Preload("Sessions.Room").
		Preload("Sessions.Room.Space").
		Preload("Fees").
		Where("section_id = ?", id).
		First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepo) GetByNumber(ctx context.Context, courseID, semesterID string, number int) (*model.Section, error) {
	var section model.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Department").
		Where("course_id = ? AND semester_id = ? AND number = ?", courseID, semesterID, number).
		First(&section).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepo) List(ctx context.Context, semesterID string, offset, limit int) ([]model.Section, int64, error) {
	var sections []model.Section
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Section{})
	if semesterID != "" {
		db = db.Where("semester_id = ?", semesterID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Course").
		Preload("Course.Department").
		Preload("Semester").
		Preload("Semester.AcademicYear").
		Offset(offset).Limit(limit).
		Order("number").
		Find(&sections).Error; err != nil {
		return nil, 0, err
	}

	return sections, total, nil
}

func (r *sectionRepo) ListByCourse(ctx context.Context, courseID, semesterID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND semester_id = ?", courseID, semesterID).
		Order("number").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Department").
		Preload("Sessions").
		Preload("Sessions.Schedule").
		Preload("Sessions.Room").
		Preload("Sessions.Room.Space").
		Where("semester_id = ?", semesterID).
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepo) Update(ctx context.Context, section *model.Section) error {
	return r.db.WithContext(ctx).Save(section).Error
}

func (r *sectionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("section_id = ?", id).
		Delete(&model.Section{}).Error
}

func (r *sectionRepo) NextNumber(ctx context.Context, courseID, semesterID string) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.Section{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ? AND semester_id = ?", courseID, semesterID).
		Select("MAX(number)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *sectionRepo) IncrementSeats(ctx context.Context, sectionID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Section{}).
		Where("section_id = ? AND seats_taken < max_seats", sectionID).
		Update("seats_taken", gorm.Expr("seats_taken + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sectionRepo) DecrementSeats(ctx context.Context, sectionID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Section{}).
		Where("section_id = ? AND seats_taken > 0", sectionID).
		Update("seats_taken", gorm.Expr("seats_taken - 1")).Error
}

func (r *sectionRepo) ListFees(ctx context.Context, sectionID string) ([]model.SectionFee, error) {
	var fees []model.SectionFee
	err := r.db.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Find(&fees).Error
	return fees, err
}

func (r *sectionRepo) CreateFee(ctx context.Context, fee *model.SectionFee) error {
	return r.db.WithContext(ctx).Create(fee).Error
}

func (r *sectionRepo) DeleteFee(ctx context.Context, feeID string) error {
	return r.db.WithContext(ctx).
		Where("section_fee_id = ?", feeID).
		Delete(&model.SectionFee{}).Error
}

// SessionRepository 上课时段数据访问接口
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	ListBySection(ctx context.Context, sectionID string) ([]model.Session, error)
	// ListByRoomAndWeekday 同教室同星期的时段，冲突检查用
	ListByRoomAndWeekday(ctx context.Context, roomID string, weekday int, semesterID string) ([]model.Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Preload("Section").
		Preload("Schedule").
		Preload("Room").
		Preload("Room.Space").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ListBySection(ctx context.Context, sectionID string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Preload("Schedule").
		Preload("Room").
		Preload("Room.Space").
		Where("section_id = ?", sectionID).
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) ListByRoomAndWeekday(ctx context.Context, roomID string, weekday int, semesterID string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Preload("Schedule").
		Joins("JOIN schedules ON schedules.schedule_id = sessions.schedule_id").
		Joins("JOIN sections ON sections.section_id = sessions.section_id").
		Where("sessions.room_id = ? AND schedules.weekday = ? AND sections.semester_id = ?",
			roomID, weekday, semesterID).
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&model.Session{}).Error
}
