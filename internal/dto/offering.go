package dto

// ── 开课班次/时段 DTO ──

// CreateSectionRequest 创建班次请求；班次号自动分配
type CreateSectionRequest struct {
	CourseID         string `json:"course_id"          binding:"required,uuid"`
	SemesterID       string `json:"semester_id"        binding:"required,uuid"`
	PrimaryFacultyID string `json:"primary_faculty_id" binding:"omitempty,uuid"`
	MaxSeats         int    `json:"max_seats"          binding:"omitempty,min=3"`
}

// UpdateSectionRequest 更新班次请求
type UpdateSectionRequest struct {
	PrimaryFacultyID *string `json:"primary_faculty_id" binding:"omitempty,uuid"`
	MaxSeats         *int    `json:"max_seats"          binding:"omitempty,min=3"`
}

// SectionResponse 班次响应
type SectionResponse struct {
	ID          string            `json:"id"`
	ShortCode   string            `json:"short_code"`
	LongCode    string            `json:"long_code"`
	Number      int               `json:"number"`
	CourseID    string            `json:"course_id"`
	CourseCode  string            `json:"course_code,omitempty"`
	CourseTitle string            `json:"course_title,omitempty"`
	CreditHours int               `json:"credit_hours"`
	SemesterID  string            `json:"semester_id"`
	Faculty     string            `json:"faculty,omitempty"`
	MaxSeats    int               `json:"max_seats"`
	SeatsTaken  int               `json:"seats_taken"`
	SeatsLeft   int               `json:"seats_left"`
	Sessions    []SessionResponse `json:"sessions,omitempty"`
}

// CreateSessionRequest 添加上课时段请求
type CreateSessionRequest struct {
	Weekday   int    `json:"weekday"    binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"omitempty"` // "HH:MM"
	EndTime   string `json:"end_time"   binding:"omitempty"`
	RoomID    string `json:"room_id"    binding:"omitempty,uuid"`
	TermID    string `json:"term_id"    binding:"omitempty,uuid"`
}

// SessionResponse 时段响应
type SessionResponse struct {
	ID        string `json:"id"`
	Weekday   int    `json:"weekday"`
	DayName   string `json:"day_name"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	Room      string `json:"room,omitempty"`
	TermID    string `json:"term_id,omitempty"`
}

// RosterEntry 班次名单条目
type RosterEntry struct {
	StudentNo string `json:"student_no"`
	LongName  string `json:"long_name"`
	Email     string `json:"email,omitempty"`
	Status    string `json:"status"`
}
