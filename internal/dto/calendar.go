package dto

// ── 学年/学期/学段 DTO ──

// CreateAcademicYearRequest 创建学年请求；代码与结束日由起始日派生
type CreateAcademicYearRequest struct {
	StartDate string `json:"start_date" binding:"required"` // "2025-08-15"
}

// AcademicYearResponse 学年响应
type AcademicYearResponse struct {
	ID        string             `json:"id"`
	Code      string             `json:"code"`
	LongCode  string             `json:"long_code"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Semesters []SemesterResponse `json:"semesters,omitempty"`
}

// CreateSemesterRequest 创建学期请求
type CreateSemesterRequest struct {
	AcademicYearID string `json:"academic_year_id" binding:"required,uuid"`
	Number         int    `json:"number"           binding:"required,min=1,max=4"`
	StartDate      string `json:"start_date"       binding:"required"`
	EndDate        string `json:"end_date"         binding:"required"`
}

// UpdateSemesterRequest 更新学期请求
type UpdateSemesterRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// SetSemesterStatusRequest 推进学期状态
type SetSemesterStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=planning registration locked"`
}

// SemesterResponse 学期响应
type SemesterResponse struct {
	ID               string `json:"id"`
	Code             string `json:"code"`
	AcademicYearID   string `json:"academic_year_id"`
	AcademicYearCode string `json:"academic_year_code,omitempty"`
	Number           int    `json:"number"`
	Status           string `json:"status"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
}

// CreateTermRequest 创建学段请求
type CreateTermRequest struct {
	SemesterID string `json:"semester_id" binding:"required,uuid"`
	Number     int    `json:"number"      binding:"required,min=1,max=2"`
	StartDate  string `json:"start_date"  binding:"required"`
	EndDate    string `json:"end_date"    binding:"required"`
}

// TermResponse 学段响应
type TermResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	SemesterID string `json:"semester_id"`
	Number     int    `json:"number"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}
