package dto

// ── 学院/系所/课程/培养方案 DTO ──

// CreateCollegeRequest 创建学院请求
type CreateCollegeRequest struct {
	Code     string `json:"code"      binding:"required,min=2,max=4"`
	FullName string `json:"full_name" binding:"required,max=120"`
}

// CollegeResponse 学院响应
type CollegeResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	FullName string `json:"full_name"`
}

// CreateDepartmentRequest 创建系所请求
type CreateDepartmentRequest struct {
	CollegeID string `json:"college_id" binding:"required,uuid"`
	ShortName string `json:"short_name" binding:"required,min=2,max=4"`
	FullName  string `json:"full_name"  binding:"required,max=120"`
}

// DepartmentResponse 系所响应
type DepartmentResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"` // 形如 COAS-ENGL
	ShortName string `json:"short_name"`
	FullName  string `json:"full_name"`
	CollegeID string `json:"college_id"`
}

// CreateCourseRequest 创建课程请求；课程代码可整体给出也可拆分
type CreateCourseRequest struct {
	Code        string `json:"code"         binding:"omitempty,max=12"` // "ENGL101" 或 "ENGL101-COAS"
	CollegeID   string `json:"college_id"   binding:"omitempty,uuid"`
	Department  string `json:"department"   binding:"omitempty,min=2,max=4"`
	Number      string `json:"number"       binding:"omitempty,len=3"`
	Title       string `json:"title"        binding:"required,max=150"`
	CreditHours int    `json:"credit_hours" binding:"omitempty,min=1,max=6"`
	Description string `json:"description"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Title       *string `json:"title"        binding:"omitempty,max=150"`
	CreditHours *int    `json:"credit_hours" binding:"omitempty,min=1,max=6"`
	Description *string `json:"description"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	ID          string `json:"id"`
	ShortCode   string `json:"short_code"`
	Number      string `json:"number"`
	Title       string `json:"title"`
	CreditHours int    `json:"credit_hours"`
	Level       int    `json:"level"`
	LevelName   string `json:"level_name"`
	Department  string `json:"department,omitempty"`
	Description string `json:"description,omitempty"`
}

// AddPrerequisiteRequest 添加先修关系请求；先修边隶属具体培养方案
type AddPrerequisiteRequest struct {
	CurriculumID     string `json:"curriculum_id"      binding:"required,uuid"`
	RequiredCourseID string `json:"required_course_id" binding:"required,uuid"`
}

// PrerequisiteResponse 先修关系响应
type PrerequisiteResponse struct {
	ID                 string `json:"id"`
	CurriculumID       string `json:"curriculum_id"`
	CourseID           string `json:"course_id"`
	RequiredCourseID   string `json:"required_course_id"`
	RequiredCourseCode string `json:"required_course_code,omitempty"`
}

// CreateCurriculumRequest 创建培养方案请求
type CreateCurriculumRequest struct {
	CollegeID    string `json:"college_id"    binding:"required,uuid"`
	Title        string `json:"title"         binding:"required,max=120"`
	DegreeName   string `json:"degree_name"   binding:"omitempty,max=120"`
	TotalCredits int    `json:"total_credits" binding:"omitempty,min=1"`
}

// SetCurriculumStatusRequest 推进培养方案审批状态
type SetCurriculumStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved needs_revision"`
	Note   string `json:"note"   binding:"omitempty,max=255"`
}

// CurriculumResponse 培养方案响应
type CurriculumResponse struct {
	ID           string                     `json:"id"`
	CollegeID    string                     `json:"college_id"`
	Title        string                     `json:"title"`
	DegreeName   string                     `json:"degree_name,omitempty"`
	TotalCredits int                        `json:"total_credits"`
	IsActive     bool                       `json:"is_active"`
	Courses      []CurriculumCourseResponse `json:"courses,omitempty"`
}

// AddCurriculumCourseRequest 向培养方案添加课程
type AddCurriculumCourseRequest struct {
	CourseID          string `json:"course_id"          binding:"required,uuid"`
	SuggestedSemester int    `json:"suggested_semester" binding:"omitempty,min=1,max=10"`
	CreditOverride    *int   `json:"credit_override"    binding:"omitempty,min=0,max=6"`
	IsRequired        *bool  `json:"is_required"`
}

// CurriculumCourseResponse 培养方案课程条目响应
type CurriculumCourseResponse struct {
	ID                string `json:"id"`
	CourseID          string `json:"course_id"`
	CourseCode        string `json:"course_code,omitempty"`
	CourseTitle       string `json:"course_title,omitempty"`
	SuggestedSemester int    `json:"suggested_semester"`
	CreditHours       int    `json:"credit_hours"`
	YearLevel         int    `json:"year_level"`
	IsRequired        bool   `json:"is_required"`
}

// AddConcentrationRequest 在培养方案下新建专业方向
type AddConcentrationRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

// ConcentrationResponse 专业方向响应
type ConcentrationResponse struct {
	ID           string `json:"id"`
	CurriculumID string `json:"curriculum_id"`
	Name         string `json:"name"`
}

// AllowedCourseResponse 学生可选课程响应
type AllowedCourseResponse struct {
	CourseID    string `json:"course_id"`
	ShortCode   string `json:"short_code"`
	Title       string `json:"title"`
	CreditHours int    `json:"credit_hours"`
}
