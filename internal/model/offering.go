package model

import "fmt"

// 星期编码：0 表示待定（TBA），1..6 为周一至周六
const (
	WeekdayTBA = iota
	WeekdayMonday
	WeekdayTuesday
	WeekdayWednesday
	WeekdayThursday
	WeekdayFriday
	WeekdaySaturday
)

var weekdayNames = [...]string{"TBA", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayName 星期编码对应的英文名
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday >= len(weekdayNames) {
		return weekdayNames[WeekdayTBA]
	}
	return weekdayNames[weekday]
}

// ParseWeekday 由英文名反查星期编码，未知返回 -1
func ParseWeekday(name string) int {
	for i, n := range weekdayNames {
		if n == name {
			return i
		}
	}
	return -1
}

// 开课班次座位下限与默认值
const (
	SectionMinSeats     = 3
	SectionDefaultSeats = 30
)

// Schedule 周课时模板表 — 对应 schedules
// 同一 (weekday, start, end) 唯一复用；weekday 为 0 时表示时间待定
type Schedule struct {
	ScheduleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"schedule_id"`
	Weekday    int    `gorm:"not null;default:0;uniqueIndex:uniq_schedule"         json:"weekday"`
	StartTime  string `gorm:"type:time;uniqueIndex:uniq_schedule"                  json:"start_time"`
	EndTime    string `gorm:"type:time;uniqueIndex:uniq_schedule"                  json:"end_time"`
	BaseModel
}

func (Schedule) TableName() string { return "schedules" }

// WeekdayName 模板所在星期的英文名
func (s *Schedule) WeekdayName() string { return WeekdayName(s.Weekday) }

// IsTBA 时间是否待定
func (s *Schedule) IsTBA() bool { return s.Weekday == WeekdayTBA }

// Section 开课班次表 — 对应 sections
// 同一 (course, semester) 内 Number 唯一，由服务层加锁分配
type Section struct {
	SectionID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	CourseID         string  `gorm:"type:uuid;not null;uniqueIndex:uniq_section"    json:"course_id"`
	SemesterID       string  `gorm:"type:uuid;not null;uniqueIndex:uniq_section"    json:"semester_id"`
	Number           int     `gorm:"not null;uniqueIndex:uniq_section"              json:"number"`
	PrimaryFacultyID *string `gorm:"type:uuid"                                      json:"primary_faculty_id,omitempty"`
	MaxSeats         int     `gorm:"not null;default:30"                            json:"max_seats"`
	SeatsTaken       int     `gorm:"not null;default:0"                             json:"seats_taken"`
	BaseModel

	Course         *Course      `gorm:"foreignKey:CourseID;references:CourseID"          json:"course,omitempty"`
	Semester       *Semester    `gorm:"foreignKey:SemesterID;references:SemesterID"      json:"semester,omitempty"`
	PrimaryFaculty *Faculty     `gorm:"foreignKey:PrimaryFacultyID;references:FacultyID" json:"primary_faculty,omitempty"`
	Sessions       []Session    `gorm:"foreignKey:SectionID;references:SectionID"        json:"sessions,omitempty"`
	Fees           []SectionFee `gorm:"foreignKey:SectionID;references:SectionID"        json:"fees,omitempty"`
}

func (Section) TableName() string { return "sections" }

// ShortCode 形如 "ENGL101:s2"
func (s *Section) ShortCode() string {
	if s.Course == nil {
		return fmt.Sprintf("s%d", s.Number)
	}
	return fmt.Sprintf("%s:s%d", s.Course.ShortCode(), s.Number)
}

// LongCode 形如 "25-26_Sem1:ENGL101:s2"
func (s *Section) LongCode() string {
	if s.Semester == nil {
		return s.ShortCode()
	}
	return s.Semester.Code() + ":" + s.ShortCode()
}

// SeatsLeft 剩余座位数
func (s *Section) SeatsLeft() int { return s.MaxSeats - s.SeatsTaken }

// Session 上课时段表 — 对应 sessions
// (section, room, schedule) 唯一；TBA 时段与 TBA 教室不参与冲突检查
type Session struct {
	SessionID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	SectionID  string  `gorm:"type:uuid;not null;uniqueIndex:uniq_session"    json:"section_id"`
	RoomID     string  `gorm:"type:uuid;not null;uniqueIndex:uniq_session"    json:"room_id"`
	ScheduleID string  `gorm:"type:uuid;not null;uniqueIndex:uniq_session"    json:"schedule_id"`
	TermID     *string `gorm:"type:uuid"                                      json:"term_id,omitempty"`
	BaseModel

	Section  *Section  `gorm:"foreignKey:SectionID;references:SectionID"   json:"section,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:RoomID"         json:"room,omitempty"`
	Schedule *Schedule `gorm:"foreignKey:ScheduleID;references:ScheduleID" json:"schedule,omitempty"`
	Term     *Term     `gorm:"foreignKey:TermID;references:TermID"         json:"term,omitempty"`
}

func (Session) TableName() string { return "sessions" }
