package dto

// ── 成绩 DTO ──

// CreateGradeRequest 录入成绩请求
type CreateGradeRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	SectionID string `json:"section_id" binding:"required,uuid"`
	GradeCode string `json:"grade_code" binding:"required,max=3"`
	Comment   string `json:"comment"    binding:"omitempty,max=255"`
}

// UpdateGradeRequest 修订成绩请求
type UpdateGradeRequest struct {
	GradeCode string `json:"grade_code" binding:"required,max=3"`
	Comment   string `json:"comment"    binding:"omitempty,max=255"`
}

// GradeResponse 成绩响应
type GradeResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentNo   string `json:"student_no,omitempty"`
	SectionID   string `json:"section_id"`
	SectionCode string `json:"section_code,omitempty"`
	GradeCode   string `json:"grade_code"`
	Numeric     string `json:"numeric"`
	IsPassing   bool   `json:"is_passing"`
	Comment     string `json:"comment,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// GradeValueResponse 成绩等级响应
type GradeValueResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Numeric string `json:"numeric"`
}

// TranscriptLine 成绩单行
type TranscriptLine struct {
	SemesterCode string `json:"semester_code"`
	CourseCode   string `json:"course_code"`
	CourseTitle  string `json:"course_title"`
	CreditHours  int    `json:"credit_hours"`
	GradeCode    string `json:"grade_code"`
	Numeric      string `json:"numeric"`
}

// TranscriptResponse 学生成绩单
type TranscriptResponse struct {
	StudentNo    string           `json:"student_no"`
	LongName     string           `json:"long_name"`
	Curriculum   string           `json:"curriculum,omitempty"`
	Lines        []TranscriptLine `json:"lines"`
	GPA          string           `json:"gpa"`
	TotalCredits int              `json:"total_credits"`
}
