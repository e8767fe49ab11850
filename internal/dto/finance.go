package dto

// ── 财务 DTO ──

// CreateInvoiceRequest 开立账单请求
type CreateInvoiceRequest struct {
	StudentID          string `json:"student_id"           binding:"required,uuid"`
	CurriculumCourseID string `json:"curriculum_course_id" binding:"required,uuid"`
	SemesterID         string `json:"semester_id"          binding:"required,uuid"`
	ScholarshipID      string `json:"scholarship_id"       binding:"omitempty,uuid"`
}

// InvoiceResponse 账单响应
type InvoiceResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	CourseCode  string `json:"course_code,omitempty"`
	SemesterID  string `json:"semester_id"`
	AmountDue   string `json:"amount_due"`
	AmountPaid  string `json:"amount_paid"`
	Balance     string `json:"balance"`
	Scholarship string `json:"scholarship,omitempty"`
	IssuedAt    string `json:"issued_at"`
}

// CreatePaymentRequest 缴费请求
type CreatePaymentRequest struct {
	InvoiceID  string `json:"invoice_id" binding:"required,uuid"`
	Amount     string `json:"amount"     binding:"required"`
	Method     string `json:"method"     binding:"required,oneof=cash crypto_ada mobile_money wire"`
	Reference  string `json:"reference"  binding:"omitempty,max=120"`
}

// PaymentResponse 缴费响应
type PaymentResponse struct {
	ID            string `json:"id"`
	InvoiceID     string `json:"invoice_id,omitempty"`
	ReservationID string `json:"reservation_id,omitempty"`
	Amount        string `json:"amount"`
	Method        string `json:"method"`
	Reference     string `json:"reference,omitempty"`
	PaidAt        string `json:"paid_at"`
}

// FinancialRecordResponse 学期财务汇总响应
type FinancialRecordResponse struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	StudentNo  string `json:"student_no,omitempty"`
	SemesterID string `json:"semester_id"`
	TotalDue   string `json:"total_due"`
	TotalPaid  string `json:"total_paid"`
	Balance    string `json:"balance"`
	Clearance  string `json:"clearance"`
	Note       string `json:"note,omitempty"`
}

// SetClearanceRequest 人工改写清算状态
type SetClearanceRequest struct {
	Clearance string `json:"clearance" binding:"required,oneof=pending cleared blocked"`
	Note      string `json:"note"      binding:"omitempty,max=255"`
}

// CreateScholarshipRequest 设立奖学金请求
type CreateScholarshipRequest struct {
	StudentID  string `json:"student_id" binding:"required,uuid"`
	DonorID    string `json:"donor_id"   binding:"omitempty,uuid"`
	Name       string `json:"name"       binding:"required,max=120"`
	Amount     string `json:"amount"     binding:"required"`
	Conditions string `json:"conditions" binding:"omitempty,max=255"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date"   binding:"omitempty"`
}

// ScholarshipResponse 奖学金响应
type ScholarshipResponse struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Donor     string `json:"donor,omitempty"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

// CreateSectionFeeRequest 设置班次附加费请求
type CreateSectionFeeRequest struct {
	FeeType     string `json:"fee_type"    binding:"required,oneof=tuition research other lab credit_hour_fee"`
	Amount      string `json:"amount"      binding:"required"`
	Description string `json:"description" binding:"omitempty,max=120"`
}

// SectionFeeResponse 班次附加费响应
type SectionFeeResponse struct {
	ID          string `json:"id"`
	SectionID   string `json:"section_id"`
	FeeType     string `json:"fee_type"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

// EnrollmentFeeResponse 选课费用试算响应
type EnrollmentFeeResponse struct {
	SectionCode string               `json:"section_code"`
	CreditHours int                  `json:"credit_hours"`
	Tuition     string               `json:"tuition"`
	Fees        []SectionFeeResponse `json:"fees,omitempty"`
	Total       string               `json:"total"`
}
