package model

import "time"

// 预约状态
const (
	ReservationRequested = "requested"
	ReservationValidated = "validated"
	ReservationPaid      = "paid"
	ReservationCancelled = "cancelled"
)

// 注册状态（status_registrations 查找表）
const (
	RegistrationPendingPayment     = "pending_payment"
	RegistrationFinanciallyCleared = "financially_cleared"
	RegistrationCompleted          = "completed"
	RegistrationApproved           = "approved"
	RegistrationRemove             = "remove"
)

// MaxStudentCredits 单学期学分上限的默认值，可由配置覆盖
const MaxStudentCredits = 18

// Reservation 选课预约表 — 对应 reservations
// (student, section) 唯一；validated/paid 的预约占用班次座位
type Reservation struct {
	ReservationID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"reservation_id"`
	StudentID          string     `gorm:"type:uuid;not null;uniqueIndex:uniq_reservation" json:"student_id"`
	SectionID          string     `gorm:"type:uuid;not null;uniqueIndex:uniq_reservation" json:"section_id"`
	Status             string     `gorm:"type:varchar(20);not null;default:requested"     json:"status"`
	CreditHours        int        `gorm:"not null;default:0"                              json:"credit_hours"`
	RequestedAt        time.Time  `gorm:"not null"                                        json:"requested_at"`
	ValidationDeadline time.Time  `gorm:"not null"                                        json:"validation_deadline"`
	ValidatedAt        *time.Time `json:"validated_at,omitempty"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Section *Section `gorm:"foreignKey:SectionID;references:SectionID" json:"section,omitempty"`
}

func (Reservation) TableName() string { return "reservations" }

// HoldsSeat 该预约当前是否占座
func (r *Reservation) HoldsSeat() bool {
	return r.Status == ReservationValidated || r.Status == ReservationPaid
}

// Registration 正式注册表 — 对应 registrations
// (student, section) 唯一；由已支付预约转换而来
type Registration struct {
	RegistrationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"   json:"registration_id"`
	StudentID      string    `gorm:"type:uuid;not null;uniqueIndex:uniq_registration" json:"student_id"`
	SectionID      string    `gorm:"type:uuid;not null;uniqueIndex:uniq_registration" json:"section_id"`
	StatusCode     string    `gorm:"type:varchar(30);not null;default:pending_payment" json:"status_code"`
	RegisteredAt   time.Time `gorm:"not null"                                         json:"registered_at"`
	BaseModel

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Section *Section `gorm:"foreignKey:SectionID;references:SectionID" json:"section,omitempty"`
}

func (Registration) TableName() string { return "registrations" }
