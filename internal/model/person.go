package model

import (
	"fmt"
	"strings"
	"time"
)

// 人员编号前缀（§C1：前缀 + 4 位零填充人员序号）
const (
	StudentNoPrefix = "TU-STD"
	StaffNoPrefix   = "TU-STF"
	DonorNoPrefix   = "TU-DNR"
)

// FormatPersonNo 由人员序号派生编号，如 TU-STD0042
func FormatPersonNo(prefix string, seq int64) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// PersonCore 各类人员档案共有的字段
// 人员档案以组合方式持有 User（一对一），姓名/邮箱等经由 User 投影读写
type PersonCore struct {
	NamePrefix      string     `gorm:"type:varchar(10)"  json:"name_prefix"`
	MiddleName      string     `gorm:"type:varchar(60)"  json:"middle_name"`
	NameSuffix      string     `gorm:"type:varchar(10)"  json:"name_suffix"`
	DateOfBirth     *time.Time `gorm:"type:date"         json:"date_of_birth,omitempty"`
	PhoneNumber     string     `gorm:"type:varchar(15)"  json:"phone_number"`
	PhysicalAddress string     `gorm:"type:varchar(255)" json:"physical_address"`
	Bio             string     `gorm:"type:text"         json:"bio"`
	PhotoPath       string     `gorm:"type:varchar(255)" json:"photo_path"`
}

// longName 组装 prefix first middle last suffix，跳过空段
func longName(core PersonCore, user *User) string {
	if user == nil {
		return ""
	}
	parts := []string{core.NamePrefix, user.FirstName, core.MiddleName, user.LastName, core.NameSuffix}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// ageAt 按生日计算年龄，未满生日减一
func ageAt(dob *time.Time, today time.Time) *int {
	if dob == nil {
		return nil
	}
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() ||
		(today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return &age
}

// Student 学生档案表 — 对应 students
type Student struct {
	StudentID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"student_id"`
	StudentNo           string     `gorm:"type:varchar(20);not null;uniqueIndex"          json:"student_no"`
	UserID              string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	CurriculumID        string     `gorm:"type:uuid;not null"                             json:"curriculum_id"`
	CurrentSemesterID   *string    `gorm:"type:uuid"                                      json:"current_semester_id,omitempty"`
	FirstEnrollmentDate *time.Time `gorm:"type:date"                                      json:"first_enrollment_date,omitempty"`
	PersonCore
	BaseModel

	// 关联
	User            *User       `gorm:"foreignKey:UserID;references:UserID"               json:"user,omitempty"`
	Curriculum      *Curriculum `gorm:"foreignKey:CurriculumID;references:CurriculumID"   json:"curriculum,omitempty"`
	CurrentSemester *Semester   `gorm:"foreignKey:CurrentSemesterID;references:SemesterID" json:"current_semester,omitempty"`
}

func (Student) TableName() string { return "students" }

// LongName 完整姓名（含前后缀）
func (s *Student) LongName() string { return longName(s.PersonCore, s.User) }

// Age 当前年龄，未知生日返回 nil
func (s *Student) Age() *int { return ageAt(s.DateOfBirth, time.Now()) }

// Staff 职员档案表 — 对应 staffs
type Staff struct {
	StaffID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"staff_id"`
	StaffNo        string     `gorm:"type:varchar(20);not null;uniqueIndex"          json:"staff_no"`
	UserID         string     `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	EmploymentDate *time.Time `gorm:"type:date"                                      json:"employment_date,omitempty"`
	Division       string     `gorm:"type:varchar(60)"                               json:"division"`
	DepartmentID   *string    `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	Position       string     `gorm:"type:varchar(60)"                               json:"position"`
	PersonCore
	BaseModel

	// 关联
	User       *User       `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

func (Staff) TableName() string { return "staffs" }

func (s *Staff) LongName() string { return longName(s.PersonCore, s.User) }
func (s *Staff) Age() *int        { return ageAt(s.DateOfBirth, time.Now()) }

// Faculty 教员表 — 对应 faculties（Faculty 包裹 Staff，Staff 包裹 User）
type Faculty struct {
	FacultyID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"faculty_id"`
	StaffID      string  `gorm:"type:uuid;not null;uniqueIndex"                 json:"staff_id"`
	CollegeID    *string `gorm:"type:uuid"                                      json:"college_id,omitempty"`
	AcademicRank string  `gorm:"type:varchar(40)"                               json:"academic_rank"`
	ProfileURL   string  `gorm:"type:varchar(255)"                              json:"profile_url"`
	OrcidURL     string  `gorm:"type:varchar(255)"                              json:"orcid_url"`
	BaseModel

	// 关联
	Staff   *Staff   `gorm:"foreignKey:StaffID;references:StaffID"     json:"staff,omitempty"`
	College *College `gorm:"foreignKey:CollegeID;references:CollegeID" json:"college,omitempty"`
}

func (Faculty) TableName() string { return "faculties" }

// LongName 透传 Staff 的完整姓名
func (f *Faculty) LongName() string {
	if f.Staff == nil {
		return ""
	}
	return f.Staff.LongName()
}

// Donor 捐赠人档案表 — 对应 donors
type Donor struct {
	DonorID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"donor_id"`
	DonorNo      string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"donor_no"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	Organization string `gorm:"type:varchar(120)"                              json:"organization"`
	PersonCore
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Donor) TableName() string { return "donors" }

func (d *Donor) LongName() string { return longName(d.PersonCore, d.User) }
func (d *Donor) Age() *int        { return ageAt(d.DateOfBirth, time.Now()) }
