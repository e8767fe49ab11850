package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User           UserRepository
	Permission     PermissionRepository
	AcademicYear   AcademicYearRepository
	Semester       SemesterRepository
	Term           TermRepository
	College        CollegeRepository
	Department     DepartmentRepository
	Course         CourseRepository
	Curriculum     CurriculumRepository
	Space          SpaceRepository
	Room           RoomRepository
	Student        StudentRepository
	Staff          StaffRepository
	Faculty        FacultyRepository
	Donor          DonorRepository
	Schedule       ScheduleRepository
	Section        SectionRepository
	Session        SessionRepository
	Reservation    ReservationRepository
	Registration   RegistrationRepository
	Grade          GradeRepository
	Finance        FinanceRepository
	StatusHistory  StatusHistoryRepository
	Document       DocumentRepository
	Transcript     TranscriptRepository
	Lookup         LookupRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		User:          NewUserRepo(db),
		Permission:    NewPermissionRepo(db),
		AcademicYear:  NewAcademicYearRepo(db),
		Semester:      NewSemesterRepo(db),
		Term:          NewTermRepo(db),
		College:       NewCollegeRepo(db),
		Department:    NewDepartmentRepo(db),
		Course:        NewCourseRepo(db),
		Curriculum:    NewCurriculumRepo(db),
		Space:         NewSpaceRepo(db),
		Room:          NewRoomRepo(db),
		Student:       NewStudentRepo(db),
		Staff:         NewStaffRepo(db),
		Faculty:       NewFacultyRepo(db),
		Donor:         NewDonorRepo(db),
		Schedule:      NewScheduleRepo(db),
		Section:       NewSectionRepo(db),
		Session:       NewSessionRepo(db),
		Reservation:   NewReservationRepo(db),
		Registration:  NewRegistrationRepo(db),
		Grade:         NewGradeRepo(db),
		Finance:       NewFinanceRepo(db),
		StatusHistory: NewStatusHistoryRepo(db),
		Document:      NewDocumentRepo(db),
		Transcript:    NewTranscriptRepo(db),
		Lookup:        NewLookupRepo(db),
	}
}

// WithTx 返回绑定到事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个事务内执行 fn，fn 返回错误则回滚
// 未绑定连接时直接执行 fn，单元测试以内存实现注入
func (r *Repository) Transaction(fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// DB 暴露底层连接，仅供迁移与管理命令使用
func (r *Repository) DB() *gorm.DB { return r.db }
