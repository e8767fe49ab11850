package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 人员模块业务错误 ──

var (
	ErrPersonNameMissing = errors.New("缺少姓名，无法建档")
	ErrStaffNotFound     = errors.New("职员不存在")
	ErrFacultyNotFound   = errors.New("教员不存在")
	ErrDonorNotFound     = errors.New("捐赠人不存在")
	ErrDateInvalid       = errors.New("日期格式非法，应为 YYYY-MM-DD")
)

// PeopleService 学生/职员/教员/捐赠人档案业务接口
// 建档同时创建 User（用户名、初始密码、默认权限组），档案与用户一比一
type PeopleService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error)
	GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error)
	ListStudents(ctx context.Context, page *dto.PaginationRequest) (*dto.PagedResponse[dto.StudentResponse], error)
	UpdateStudent(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID string) (*dto.StudentResponse, error)

	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest, callerID string) (*dto.StaffResponse, error)
	GetStaff(ctx context.Context, id string) (*dto.StaffResponse, error)
	ListStaff(ctx context.Context, page *dto.PaginationRequest) (*dto.PagedResponse[dto.StaffResponse], error)

	CreateFaculty(ctx context.Context, req *dto.CreateFacultyRequest, callerID string) (*dto.FacultyResponse, error)
	GetFaculty(ctx context.Context, id string) (*dto.FacultyResponse, error)
	ListFaculty(ctx context.Context, page *dto.PaginationRequest) (*dto.PagedResponse[dto.FacultyResponse], error)

	CreateDonor(ctx context.Context, req *dto.CreateDonorRequest, callerID string) (*dto.DonorResponse, error)
	GetDonor(ctx context.Context, id string) (*dto.DonorResponse, error)
}

type peopleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPeopleService 创建 PeopleService 实例
func NewPeopleService(repo *repository.Repository, logger *zap.Logger) PeopleService {
	return &peopleService{repo: repo, logger: logger}
}

// ────────────────────── 学生 ──────────────────────

func (s *peopleService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*dto.StudentResponse, error) {
	name, core, err := resolveName(req.FullName, &req.PersonPayload)
	if err != nil {
		return nil, err
	}

	var student *model.Student
	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		user, err := s.createUser(ctx, txRepo, name, req.Email, false, model.RoleStudent, callerID)
		if err != nil {
			return err
		}

		seq, err := txRepo.Student.NextSeq(ctx)
		if err != nil {
			return err
		}

		student = &model.Student{
			StudentNo:    model.FormatPersonNo(model.StudentNoPrefix, seq),
			UserID:       user.UserID,
			CurriculumID: req.CurriculumID,
			PersonCore:   core,
		}
		student.CreatedBy = &callerID
		student.UpdatedBy = &callerID
		if err := txRepo.Student.Create(ctx, student); err != nil {
			return err
		}
		student.User = user
		return nil
	})
	if err != nil {
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *peopleService) GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return toStudentResponse(student), nil
}

func (s *peopleService) ListStudents(ctx context.Context, page *dto.PaginationRequest) (*dto.PagedResponse[dto.StudentResponse], error) {
	students, total, err := s.repo.Student.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		items = append(items, *toStudentResponse(&students[i]))
	}
	return dto.NewPagedResponse(items, total, page.GetPage(), page.GetPageSize()), nil
}

func (s *peopleService) UpdateStudent(ctx context.Context, id string, req *dto.UpdateStudentRequest, callerID string) (*dto.StudentResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	if req.CurriculumID != nil {
		student.CurriculumID = *req.CurriculumID
	}
	if req.CurrentSemesterID != nil {
		student.CurrentSemesterID = req.CurrentSemesterID
	}
	if err := applyPayload(&student.PersonCore, &req.PersonPayload); err != nil {
		return nil, err
	}
	student.UpdatedBy = &callerID

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if student.User != nil && (req.Email != "" || req.FirstName != "" || req.LastName != "") {
			if req.Email != "" {
				student.User.Email = req.Email
			}
			if req.FirstName != "" {
				student.User.FirstName = req.FirstName
			}
			if req.LastName != "" {
				student.User.LastName = req.LastName
			}
			if err := txRepo.User.Update(ctx, student.User); err != nil {
				return err
			}
		}
		return txRepo.Student.Update(ctx, student)
	})
	if err != nil {
		s.logger.Error("更新学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(student), nil
}

// ────────────────────── 职员 ──────────────────────

func (s *peopleService) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest, callerID string) (*dto.StaffResponse, error) {
	name, core, err := resolveName(req.FullName, &req.PersonPayload)
	if err != nil {
		return nil, err
	}

	var employment *time.Time
	if req.EmploymentDate != "" {
		d, err := time.Parse("2006-01-02", req.EmploymentDate)
		if err != nil {
			return nil, ErrDateInvalid
		}
		employment = &d
	}

	var staff *model.Staff
	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		user, err := s.createUser(ctx, txRepo, name, req.Email, true, "", callerID)
		if err != nil {
			return err
		}

		seq, err := txRepo.Staff.NextSeq(ctx)
		if err != nil {
			return err
		}

		staff = &model.Staff{
			StaffNo:        model.FormatPersonNo(model.StaffNoPrefix, seq),
			UserID:         user.UserID,
			EmploymentDate: employment,
			Division:       req.Division,
			Position:       req.Position,
			PersonCore:     core,
		}
		if req.DepartmentID != "" {
			staff.DepartmentID = &req.DepartmentID
		}
		staff.CreatedBy = &callerID
		staff.UpdatedBy = &callerID
		if err := txRepo.Staff.Create(ctx, staff); err != nil {
			return err
		}
		staff.User = user
		return nil
	})
	if err != nil {
		s.logger.Error("创建职员失败", zap.Error(err))
		return nil, err
	}
	return toStaffResponse(staff), nil
}

func (s *peopleService) GetStaff(ctx context.Context, id string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return toStaffResponse(staff), nil
}

func (s *peopleService) ListStaff(ctx context.Context, page *dto.PaginationRequest) (*dto.PagedResponse[dto.StaffResponse], error) {
	staffs, total, err := s.repo.Staff.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("列出职员失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.StaffResponse, 0, len(staffs))
	for i := range staffs {
		items = append(items, *toStaffResponse(&staffs[i]))
	}
	return dto.NewPagedResponse(items, total, page.GetPage(), page.GetPageSize()), nil
}

// ────────────────────── 教员 ──────────────────────

// CreateFaculty 在既有职员上建教员档案；StaffID 为空时内联建职员与用户
func (s *peopleService) CreateFaculty(ctx context.Context, req *dto.CreateFacultyRequest, callerID string) (*dto.FacultyResponse, error) {
	var faculty *model.Faculty

	err := s.repo.Transaction(func(txRepo *repository.Repository) error {
		var staff *model.Staff
		var err error

		if req.StaffID != "" {
			staff, err = txRepo.Staff.GetByID(ctx, req.StaffID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrStaffNotFound
				}
				return err
			}
		} else {
			name, core, err := resolveName(req.FullName, &req.PersonPayload)
			if err != nil {
				return err
			}
			user, err := s.createUser(ctx, txRepo, name, req.Email, true, model.RoleFaculty, callerID)
			if err != nil {
				return err
			}
			seq, err := txRepo.Staff.NextSeq(ctx)
			if err != nil {
				return err
			}
			staff = &model.Staff{
				StaffNo:    model.FormatPersonNo(model.StaffNoPrefix, seq),
				UserID:     user.UserID,
				PersonCore: core,
			}
			staff.CreatedBy = &callerID
			staff.UpdatedBy = &callerID
			if err := txRepo.Staff.Create(ctx, staff); err != nil {
				return err
			}
			staff.User = user
		}

		faculty = &model.Faculty{
			StaffID:      staff.StaffID,
			AcademicRank: req.AcademicRank,
			ProfileURL:   req.ProfileURL,
			OrcidURL:     req.OrcidURL,
		}
		if req.CollegeID != "" {
			faculty.CollegeID = &req.CollegeID
		}
		faculty.CreatedBy = &callerID
		faculty.UpdatedBy = &callerID
		if err := txRepo.Faculty.Create(ctx, faculty); err != nil {
			return err
		}
		faculty.Staff = staff

		// 教员必为 staff 用户
		if staff.User != nil && !staff.User.IsStaff {
			staff.User.IsStaff = true
			if err := txRepo.User.Update(ctx, staff.User); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("创建教员失败", zap.Error(err))
		return nil, err
	}
	return toFacultyResponse(faculty), nil
}

func (s *peopleService) GetFaculty(ctx context.Context, id string) (*dto.FacultyResponse, error) {
	faculty, err := s.repo.Faculty.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, err
	}
	return toFacultyResponse(faculty), nil
}

func (s *peopleService) ListFaculty(ctx context.Context, page *dto.PaginationRequest) (*dto.PagedResponse[dto.FacultyResponse], error) {
	faculties, total, err := s.repo.Faculty.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("列出教员失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.FacultyResponse, 0, len(faculties))
	for i := range faculties {
		items = append(items, *toFacultyResponse(&faculties[i]))
	}
	return dto.NewPagedResponse(items, total, page.GetPage(), page.GetPageSize()), nil
}

// ────────────────────── 捐赠人 ──────────────────────

func (s *peopleService) CreateDonor(ctx context.Context, req *dto.CreateDonorRequest, callerID string) (*dto.DonorResponse, error) {
	name, core, err := resolveName(req.FullName, &req.PersonPayload)
	if err != nil {
		return nil, err
	}

	var donor *model.Donor
	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		user, err := s.createUser(ctx, txRepo, name, req.Email, false, "", callerID)
		if err != nil {
			return err
		}

		seq, err := txRepo.Donor.NextSeq(ctx)
		if err != nil {
			return err
		}

		donor = &model.Donor{
			DonorNo:      model.FormatPersonNo(model.DonorNoPrefix, seq),
			UserID:       user.UserID,
			Organization: req.Organization,
			PersonCore:   core,
		}
		donor.CreatedBy = &callerID
		donor.UpdatedBy = &callerID
		if err := txRepo.Donor.Create(ctx, donor); err != nil {
			return err
		}
		donor.User = user
		return nil
	})
	if err != nil {
		s.logger.Error("创建捐赠人失败", zap.Error(err))
		return nil, err
	}
	return toDonorResponse(donor), nil
}

func (s *peopleService) GetDonor(ctx context.Context, id string) (*dto.DonorResponse, error) {
	donor, err := s.repo.Donor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	return toDonorResponse(donor), nil
}

// ── 内部辅助方法 ──

// createUser 建用户：拆名生成用户名、派生初始密码；role 非空时加入同名权限组
func (s *peopleService) createUser(ctx context.Context, txRepo *repository.Repository, name NameParts, email string, isStaff bool, role, callerID string) (*model.User, error) {
	username, err := MkUsername(ctx, txRepo.User, name.First, name.Last)
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
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      isStaff,
		IsActive:     true,
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID
	if err := txRepo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	if role != "" {
		group, err := txRepo.Permission.GetOrCreateGroup(ctx, role)
		if err != nil {
			return nil, err
		}
		if err := txRepo.User.AddToGroup(ctx, user.UserID, group.GroupID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// resolveName 整名优先拆解，否则取拆分字段；拆出的前后缀写入档案
func resolveName(fullName string, payload *dto.PersonPayload) (NameParts, model.PersonCore, error) {
	var name NameParts
	if fullName != "" {
		name = SplitName(fullName)
	} else {
		name = NameParts{First: payload.FirstName, Last: payload.LastName}
	}
	if name.First == "" && name.Last == "" {
		return name, model.PersonCore{}, ErrPersonNameMissing
	}

	core := model.PersonCore{
		NamePrefix:      firstNonEmpty(name.Prefix, payload.NamePrefix),
		MiddleName:      firstNonEmpty(name.Middle, payload.MiddleName),
		NameSuffix:      firstNonEmpty(name.Suffix, payload.NameSuffix),
		PhoneNumber:     payload.PhoneNumber,
		PhysicalAddress: payload.PhysicalAddress,
		Bio:             payload.Bio,
	}
	if payload.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", payload.DateOfBirth)
		if err != nil {
			return name, core, ErrDateInvalid
		}
		core.DateOfBirth = &dob
	}
	return name, core, nil
}

// applyPayload 更新档案共有字段，空值跳过
func applyPayload(core *model.PersonCore, payload *dto.PersonPayload) error {
	if payload.NamePrefix != "" {
		core.NamePrefix = payload.NamePrefix
	}
	if payload.MiddleName != "" {
		core.MiddleName = payload.MiddleName
	}
	if payload.NameSuffix != "" {
		core.NameSuffix = payload.NameSuffix
	}
	if payload.PhoneNumber != "" {
		core.PhoneNumber = payload.PhoneNumber
	}
	if payload.PhysicalAddress != "" {
		core.PhysicalAddress = payload.PhysicalAddress
	}
	if payload.Bio != "" {
		core.Bio = payload.Bio
	}
	if payload.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", payload.DateOfBirth)
		if err != nil {
			return ErrDateInvalid
		}
		core.DateOfBirth = &dob
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func toStudentResponse(student *model.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		ID:           student.StudentID,
		StudentNo:    student.StudentNo,
		LongName:     student.LongName(),
		Age:          student.Age(),
		CurriculumID: student.CurriculumID,
	}
	if student.User != nil {
		resp.Username = student.User.Username
		resp.Email = student.User.Email
	}
	if student.Curriculum != nil {
		resp.CurriculumTitle = student.Curriculum.Title
	}
	if student.CurrentSemesterID != nil {
		resp.CurrentSemesterID = *student.CurrentSemesterID
	}
	if student.FirstEnrollmentDate != nil {
		resp.FirstEnrollmentDate = student.FirstEnrollmentDate.Format("2006-01-02")
	}
	return resp
}

func toStaffResponse(staff *model.Staff) *dto.StaffResponse {
	resp := &dto.StaffResponse{
		ID:       staff.StaffID,
		StaffNo:  staff.StaffNo,
		LongName: staff.LongName(),
		Division: staff.Division,
		Position: staff.Position,
	}
	if staff.User != nil {
		resp.Username = staff.User.Username
		resp.Email = staff.User.Email
	}
	if staff.DepartmentID != nil {
		resp.DepartmentID = *staff.DepartmentID
	}
	if staff.EmploymentDate != nil {
		resp.EmploymentDate = staff.EmploymentDate.Format("2006-01-02")
	}
	return resp
}

func toFacultyResponse(faculty *model.Faculty) *dto.FacultyResponse {
	resp := &dto.FacultyResponse{
		ID:           faculty.FacultyID,
		StaffID:      faculty.StaffID,
		LongName:     faculty.LongName(),
		AcademicRank: faculty.AcademicRank,
		ProfileURL:   faculty.ProfileURL,
		OrcidURL:     faculty.OrcidURL,
	}
	if faculty.CollegeID != nil {
		resp.CollegeID = *faculty.CollegeID
	}
	if faculty.Staff != nil {
		resp.StaffNo = faculty.Staff.StaffNo
		if faculty.Staff.User != nil {
			resp.Username = faculty.Staff.User.Username
		}
	}
	return resp
}

func toDonorResponse(donor *model.Donor) *dto.DonorResponse {
	resp := &dto.DonorResponse{
		ID:           donor.DonorID,
		DonorNo:      donor.DonorNo,
		LongName:     donor.LongName(),
		Organization: donor.Organization,
	}
	if donor.User != nil {
		resp.Username = donor.User.Username
	}
	return resp
}
