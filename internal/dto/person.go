package dto

// ── 人员档案 DTO ──

// PersonPayload 人员档案共有字段，创建/更新时与用户字段一并提交
type PersonPayload struct {
	FirstName       string `json:"first_name"       binding:"omitempty,max=60"`
	LastName        string `json:"last_name"        binding:"omitempty,max=60"`
	Email           string `json:"email"            binding:"omitempty,email"`
	NamePrefix      string `json:"name_prefix"      binding:"omitempty,max=10"`
	MiddleName      string `json:"middle_name"      binding:"omitempty,max=60"`
	NameSuffix      string `json:"name_suffix"      binding:"omitempty,max=10"`
	DateOfBirth     string `json:"date_of_birth"    binding:"omitempty"`
	PhoneNumber     string `json:"phone_number"     binding:"omitempty,max=15"`
	PhysicalAddress string `json:"physical_address" binding:"omitempty,max=255"`
	Bio             string `json:"bio"`
}

// CreateStudentRequest 创建学生请求；FullName 给出时按拆名规则解析
type CreateStudentRequest struct {
	FullName     string `json:"full_name" binding:"omitempty,max=150"`
	CurriculumID string `json:"curriculum_id" binding:"omitempty,uuid"`
	PersonPayload
}

// UpdateStudentRequest 更新学生请求
type UpdateStudentRequest struct {
	CurriculumID      *string `json:"curriculum_id"       binding:"omitempty,uuid"`
	CurrentSemesterID *string `json:"current_semester_id" binding:"omitempty,uuid"`
	PersonPayload
}

// StudentResponse 学生档案响应
type StudentResponse struct {
	ID                  string `json:"id"`
	StudentNo           string `json:"student_no"`
	Username            string `json:"username"`
	LongName            string `json:"long_name"`
	Email               string `json:"email,omitempty"`
	Age                 *int   `json:"age,omitempty"`
	CurriculumID        string `json:"curriculum_id"`
	CurriculumTitle     string `json:"curriculum_title,omitempty"`
	CurrentSemesterID   string `json:"current_semester_id,omitempty"`
	FirstEnrollmentDate string `json:"first_enrollment_date,omitempty"`
}

// CreateStaffRequest 创建职员请求
type CreateStaffRequest struct {
	FullName       string `json:"full_name"       binding:"omitempty,max=150"`
	Division       string `json:"division"        binding:"omitempty,max=60"`
	DepartmentID   string `json:"department_id"   binding:"omitempty,uuid"`
	Position       string `json:"position"        binding:"omitempty,max=60"`
	EmploymentDate string `json:"employment_date" binding:"omitempty"`
	PersonPayload
}

// StaffResponse 职员档案响应
type StaffResponse struct {
	ID             string `json:"id"`
	StaffNo        string `json:"staff_no"`
	Username       string `json:"username"`
	LongName       string `json:"long_name"`
	Email          string `json:"email,omitempty"`
	Division       string `json:"division,omitempty"`
	Position       string `json:"position,omitempty"`
	DepartmentID   string `json:"department_id,omitempty"`
	EmploymentDate string `json:"employment_date,omitempty"`
}

// CreateFacultyRequest 创建教员请求；档案建立在职员之上
type CreateFacultyRequest struct {
	StaffID      string `json:"staff_id"      binding:"omitempty,uuid"`
	CollegeID    string `json:"college_id"    binding:"omitempty,uuid"`
	AcademicRank string `json:"academic_rank" binding:"omitempty,max=40"`
	ProfileURL   string `json:"profile_url"   binding:"omitempty,url"`
	OrcidURL     string `json:"orcid_url"     binding:"omitempty,url"`
	// StaffID 为空时内联建立职员与用户
	FullName string `json:"full_name" binding:"omitempty,max=150"`
	PersonPayload
}

// FacultyResponse 教员响应
type FacultyResponse struct {
	ID           string `json:"id"`
	StaffID      string `json:"staff_id"`
	StaffNo      string `json:"staff_no,omitempty"`
	Username     string `json:"username,omitempty"`
	LongName     string `json:"long_name"`
	CollegeID    string `json:"college_id,omitempty"`
	AcademicRank string `json:"academic_rank,omitempty"`
	ProfileURL   string `json:"profile_url,omitempty"`
	OrcidURL     string `json:"orcid_url,omitempty"`
}

// CreateDonorRequest 创建捐赠人请求
type CreateDonorRequest struct {
	FullName     string `json:"full_name"    binding:"omitempty,max=150"`
	Organization string `json:"organization" binding:"omitempty,max=120"`
	PersonPayload
}

// DonorResponse 捐赠人响应
type DonorResponse struct {
	ID           string `json:"id"`
	DonorNo      string `json:"donor_no"`
	Username     string `json:"username"`
	LongName     string `json:"long_name"`
	Organization string `json:"organization,omitempty"`
}
