package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SectionFee 班次附加费表 — 对应 section_fees
type SectionFee struct {
	SectionFeeID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_fee_id"`
	SectionID    string          `gorm:"type:uuid;not null"                             json:"section_id"`
	FeeTypeCode  string          `gorm:"type:varchar(30);not null"                      json:"fee_type_code"`
	Amount       decimal.Decimal `gorm:"type:numeric(10,2);not null"                    json:"amount"`
	Description  string          `gorm:"type:varchar(120)"                              json:"description"`
	BaseModel

	Section *Section `gorm:"foreignKey:SectionID;references:SectionID" json:"section,omitempty"`
}

func (SectionFee) TableName() string { return "section_fees" }

// Invoice 账单表 — 对应 invoices
// 账单按 (student, curriculum_course, semester) 开立，金额 = 学分 × 学分费率
type Invoice struct {
	InvoiceID          string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invoice_id"`
	StudentID          string          `gorm:"type:uuid;not null;uniqueIndex:uniq_invoice"    json:"student_id"`
	CurriculumCourseID string          `gorm:"type:uuid;not null;uniqueIndex:uniq_invoice"    json:"curriculum_course_id"`
	SemesterID         string          `gorm:"type:uuid;not null;uniqueIndex:uniq_invoice"    json:"semester_id"`
	AmountDue          decimal.Decimal `gorm:"type:numeric(10,2);not null"                    json:"amount_due"`
	ScholarshipID      *string         `gorm:"type:uuid"                                      json:"scholarship_id,omitempty"`
	RecordedByID       *string         `gorm:"type:uuid"                                      json:"recorded_by_id,omitempty"`
	IssuedAt           time.Time       `gorm:"not null"                                       json:"issued_at"`
	BaseModel

	Student          *Student          `gorm:"foreignKey:StudentID;references:StudentID"                    json:"student,omitempty"`
	CurriculumCourse *CurriculumCourse `gorm:"foreignKey:CurriculumCourseID;references:CurriculumCourseID"  json:"curriculum_course,omitempty"`
	Semester         *Semester         `gorm:"foreignKey:SemesterID;references:SemesterID"                  json:"semester,omitempty"`
	Scholarship      *Scholarship      `gorm:"foreignKey:ScholarshipID;references:ScholarshipID"            json:"scholarship,omitempty"`
	RecordedBy       *Staff            `gorm:"foreignKey:RecordedByID;references:StaffID"                   json:"recorded_by,omitempty"`
	Payments         []Payment         `gorm:"foreignKey:InvoiceID;references:InvoiceID"                    json:"payments,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

// Paid 已入账金额合计
func (i *Invoice) Paid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		total = total.Add(p.AmountPaid)
	}
	return total
}

// Balance 未结余额 = 应付 - 已付
func (i *Invoice) Balance() decimal.Decimal { return i.AmountDue.Sub(i.Paid()) }

// Payment 缴费记录表 — 对应 payments
// 挂靠账单或预约两者其一；历史数据导入时接受 credit − debit 的轧差金额
type Payment struct {
	PaymentID     string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_id"`
	InvoiceID     *string         `gorm:"type:uuid"                                      json:"invoice_id,omitempty"`
	ReservationID *string         `gorm:"type:uuid"                                      json:"reservation_id,omitempty"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(10,2);not null"                    json:"amount_paid"`
	MethodCode    string          `gorm:"type:varchar(30);not null"                      json:"method_code"`
	Reference     string          `gorm:"type:varchar(120)"                              json:"reference"`
	RecordedByID  *string         `gorm:"type:uuid"                                      json:"recorded_by_id,omitempty"`
	PaidAt        time.Time       `gorm:"not null"                                       json:"paid_at"`
	BaseModel

	Invoice     *Invoice     `gorm:"foreignKey:InvoiceID;references:InvoiceID"             json:"invoice,omitempty"`
	Reservation *Reservation `gorm:"foreignKey:ReservationID;references:ReservationID"     json:"reservation,omitempty"`
	RecordedBy  *Staff       `gorm:"foreignKey:RecordedByID;references:StaffID"            json:"recorded_by,omitempty"`
}

func (Payment) TableName() string { return "payments" }

// FinancialRecord 学期财务汇总表 — 对应 financial_records
// (student, semester) 唯一；已付不低于应付时记为 cleared
type FinancialRecord struct {
	FinancialRecordID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"financial_record_id"`
	StudentID         string          `gorm:"type:uuid;not null;uniqueIndex:uniq_financial_record" json:"student_id"`
	SemesterID        string          `gorm:"type:uuid;not null;uniqueIndex:uniq_financial_record" json:"semester_id"`
	TotalDue          decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"                json:"total_due"`
	TotalPaid         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"                json:"total_paid"`
	ClearanceCode     string          `gorm:"type:varchar(30);not null;default:pending"            json:"clearance_code"`
	Note              string          `gorm:"type:varchar(255)"                                    json:"note"`
	BaseModel

	Student  *Student  `gorm:"foreignKey:StudentID;references:StudentID"   json:"student,omitempty"`
	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

func (FinancialRecord) TableName() string { return "financial_records" }

// Balance 未结余额
func (r *FinancialRecord) Balance() decimal.Decimal { return r.TotalDue.Sub(r.TotalPaid) }

// Scholarship 奖学金表 — 对应 scholarships
// 捐赠人资助学生，金额抵扣生效窗口内的账单
type Scholarship struct {
	ScholarshipID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"scholarship_id"`
	StudentID     string          `gorm:"type:uuid;not null"                             json:"student_id"`
	DonorID       *string         `gorm:"type:uuid"                                      json:"donor_id,omitempty"`
	Name          string          `gorm:"type:varchar(120);not null"                     json:"name"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null"                    json:"amount"`
	Conditions    string          `gorm:"type:varchar(255)"                              json:"conditions"`
	StartDate     time.Time       `gorm:"type:date;not null"                             json:"start_date"`
	EndDate       *time.Time      `gorm:"type:date"                                      json:"end_date,omitempty"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Donor   *Donor   `gorm:"foreignKey:DonorID;references:DonorID"     json:"donor,omitempty"`
}

func (Scholarship) TableName() string { return "scholarships" }

// ActiveOn 奖学金在给定日期是否生效
func (s *Scholarship) ActiveOn(day time.Time) bool {
	if day.Before(s.StartDate) {
		return false
	}
	return s.EndDate == nil || !day.After(*s.EndDate)
}
