package model

import (
	"fmt"
	"time"
)

// 学期状态码（semester_statuses 查找表）
const (
	SemesterStatusPlanning     = "planning"
	SemesterStatusRegistration = "registration"
	SemesterStatusLocked       = "locked"
)

// AcademicYear 学年表 — 对应 academic_years
// Code 形如 "25-26"，由起始日推导；跨度固定为一年减一天
type AcademicYear struct {
	AcademicYearID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"academic_year_id"`
	Code           string    `gorm:"type:varchar(5);not null;uniqueIndex"           json:"code"`
	StartDate      time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                             json:"end_date"`
	BaseModel

	Semesters []Semester `gorm:"foreignKey:AcademicYearID;references:AcademicYearID" json:"semesters,omitempty"`
}

func (AcademicYear) TableName() string { return "academic_years" }

// AcademicYearCode 由起始日推导学年代码，如 2025-08-15 -> "25-26"
func AcademicYearCode(start time.Time) string {
	return fmt.Sprintf("%02d-%02d", start.Year()%100, (start.Year()+1)%100)
}

// AcademicYearEnd 学年结束日 = 起始日加一年减一天
func AcademicYearEnd(start time.Time) time.Time {
	return start.AddDate(1, 0, -1)
}

// LongCode 形如 "2025/2026"
func (y *AcademicYear) LongCode() string {
	return fmt.Sprintf("%d/%d", y.StartDate.Year(), y.StartDate.Year()+1)
}

// Semester 学期表 — 对应 semesters
// 同一学年内 Number 唯一，1..4；状态由注册处/教务长显式推进
type Semester struct {
	SemesterID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"semester_id"`
	AcademicYearID string    `gorm:"type:uuid;not null;uniqueIndex:uniq_semester_number" json:"academic_year_id"`
	Number         int       `gorm:"not null;uniqueIndex:uniq_semester_number"           json:"number"`
	StatusCode     string    `gorm:"type:varchar(30);not null;default:planning"          json:"status_code"`
	StartDate      time.Time `gorm:"type:date;not null"                                  json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null"                                  json:"end_date"`
	BaseModel

	AcademicYear *AcademicYear `gorm:"foreignKey:AcademicYearID;references:AcademicYearID" json:"academic_year,omitempty"`
	Terms        []Term        `gorm:"foreignKey:SemesterID;references:SemesterID"         json:"terms,omitempty"`
}

func (Semester) TableName() string { return "semesters" }

// Code 形如 "25-26_Sem1"
func (s *Semester) Code() string {
	if s.AcademicYear == nil {
		return fmt.Sprintf("Sem%d", s.Number)
	}
	return fmt.Sprintf("%s_Sem%d", s.AcademicYear.Code, s.Number)
}

// IsRegistrationOpen 学期是否处于注册期
func (s *Semester) IsRegistrationOpen() bool {
	return s.StatusCode == SemesterStatusRegistration
}

// Contains 日期是否落在学期区间内（含两端）
func (s *Semester) Contains(day time.Time) bool {
	return !day.Before(s.StartDate) && !day.After(s.EndDate)
}

// Term 学段表 — 对应 terms；同一学期内 Number 唯一，1..2
type Term struct {
	TermID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"term_id"`
	SemesterID string    `gorm:"type:uuid;not null;uniqueIndex:uniq_term_number" json:"semester_id"`
	Number     int       `gorm:"not null;uniqueIndex:uniq_term_number"           json:"number"`
	StartDate  time.Time `gorm:"type:date;not null"                              json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"                              json:"end_date"`
	BaseModel

	Semester *Semester `gorm:"foreignKey:SemesterID;references:SemesterID" json:"semester,omitempty"`
}

func (Term) TableName() string { return "terms" }

// Code 形如 "25-26_Sem1_Term1"
func (t *Term) Code() string {
	if t.Semester == nil {
		return fmt.Sprintf("Term%d", t.Number)
	}
	return fmt.Sprintf("%s_Term%d", t.Semester.Code(), t.Number)
}
