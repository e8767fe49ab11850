package model

import "strconv"

// 课程层级 -> 年级称谓
const (
	LevelFreshman  = "freshman"
	LevelSophomore = "sophomore"
	LevelJunior    = "junior"
	LevelSenior    = "senior"
	LevelOther     = "other"
)

// LevelName 由课程层级数字映射年级称谓
func LevelName(level int) string {
	switch level {
	case 1:
		return LevelFreshman
	case 2:
		return LevelSophomore
	case 3:
		return LevelJunior
	case 4, 5:
		return LevelSenior
	default:
		return LevelOther
	}
}

// DefaultCollegeCode 未标注学院时的归属学院
const DefaultCollegeCode = "COAS"

// 培养方案审批状态（经由状态历史驱动 is_active）
const (
	CurriculumPending       = "pending"
	CurriculumApproved      = "approved"
	CurriculumNeedsRevision = "needs_revision"
)

var CurriculumStatusCodes = []string{
	CurriculumPending,
	CurriculumApproved,
	CurriculumNeedsRevision,
}

// College 学院表 — 对应 colleges
type College struct {
	CollegeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"college_id"`
	Code      string `gorm:"type:varchar(4);not null;uniqueIndex"           json:"code"`
	FullName  string `gorm:"type:varchar(120);not null"                     json:"full_name"`
	BaseModel

	Departments []Department `gorm:"foreignKey:CollegeID;references:CollegeID" json:"departments,omitempty"`
}

func (College) TableName() string { return "colleges" }

// Department 系所表 — 对应 departments；同一学院内 ShortName 唯一
type Department struct {
	DepartmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"            json:"department_id"`
	CollegeID    string  `gorm:"type:uuid;not null;uniqueIndex:uniq_department_name"       json:"college_id"`
	ShortName    string  `gorm:"type:varchar(4);not null;uniqueIndex:uniq_department_name" json:"short_name"`
	FullName     string  `gorm:"type:varchar(120);not null"                                json:"full_name"`
	ChairID      *string `gorm:"type:uuid"                                                 json:"chair_id,omitempty"`
	BaseModel

	College *College `gorm:"foreignKey:CollegeID;references:CollegeID" json:"college,omitempty"`
	Chair   *Faculty `gorm:"foreignKey:ChairID;references:FacultyID"   json:"chair,omitempty"`
}

func (Department) TableName() string { return "departments" }

// Code 形如 "COAS-ENGL"
func (d *Department) Code() string {
	if d.College == nil {
		return d.ShortName
	}
	return d.College.Code + "-" + d.ShortName
}

// Course 课程表 — 对应 courses
// 同一系所内 Number 唯一；Number 为三位数字字符串
type Course struct {
	CourseID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"course_id"`
	CollegeID    string `gorm:"type:uuid;not null"                                    json:"college_id"`
	DepartmentID string `gorm:"type:uuid;not null;uniqueIndex:uniq_course_code"       json:"department_id"`
	Number       string `gorm:"type:varchar(3);not null;uniqueIndex:uniq_course_code" json:"number"`
	Title        string `gorm:"type:varchar(150);not null"                            json:"title"`
	CreditHours  int    `gorm:"not null;default:3"                                    json:"credit_hours"`
	Description  string `gorm:"type:text"                                             json:"description"`
	BaseModel

	College    *College    `gorm:"foreignKey:CollegeID;references:CollegeID"       json:"college,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

func (Course) TableName() string { return "courses" }

// ShortCode 形如 "ENGL101"
func (c *Course) ShortCode() string {
	if c.Department == nil {
		return c.Number
	}
	return c.Department.ShortName + c.Number
}

// Level 课程层级取课程号首位数字，非数字归零
func (c *Course) Level() int {
	if c.Number == "" {
		return 0
	}
	n, err := strconv.Atoi(c.Number[:1])
	if err != nil {
		return 0
	}
	return n
}

// LevelName 课程所属年级称谓
func (c *Course) LevelName() string { return LevelName(c.Level()) }

// Prerequisite 先修关系表 — 对应 prerequisites
// 按培养方案独立成图，(curriculum, course, required) 唯一；不允许自指、互指或形成环
type Prerequisite struct {
	PrerequisiteID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"   json:"prerequisite_id"`
	CurriculumID     string `gorm:"type:uuid;not null;uniqueIndex:uniq_prerequisite" json:"curriculum_id"`
	CourseID         string `gorm:"type:uuid;not null;uniqueIndex:uniq_prerequisite" json:"course_id"`
	RequiredCourseID string `gorm:"type:uuid;not null;uniqueIndex:uniq_prerequisite" json:"required_course_id"`
	BaseModel

	Curriculum     *Curriculum `gorm:"foreignKey:CurriculumID;references:CurriculumID" json:"curriculum,omitempty"`
	Course         *Course     `gorm:"foreignKey:CourseID;references:CourseID"         json:"course,omitempty"`
	RequiredCourse *Course     `gorm:"foreignKey:RequiredCourseID;references:CourseID" json:"required_course,omitempty"`
}

func (Prerequisite) TableName() string { return "prerequisites" }

// Curriculum 培养方案表 — 对应 curriculums
// 同一学院内活跃方案 Title 唯一（服务层保证）；is_active 随审批历史同步
type Curriculum struct {
	CurriculumID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"curriculum_id"`
	CollegeID    string `gorm:"type:uuid;not null;index"                       json:"college_id"`
	Title        string `gorm:"type:varchar(120);not null"                     json:"title"`
	DegreeName   string `gorm:"type:varchar(120)"                              json:"degree_name"`
	TotalCredits int    `gorm:"not null;default:120"                           json:"total_credits"`
	IsActive     bool   `gorm:"not null;default:false"                         json:"is_active"`
	BaseModel

	College *College           `gorm:"foreignKey:CollegeID;references:CollegeID"       json:"college,omitempty"`
	Courses []CurriculumCourse `gorm:"foreignKey:CurriculumID;references:CurriculumID" json:"courses,omitempty"`
}

func (Curriculum) TableName() string { return "curriculums" }

// CurriculumCourse 培养方案课程条目 — 对应 curriculum_courses
// (curriculum, course) 唯一；CreditOverride 覆盖课程默认学分
type CurriculumCourse struct {
	CurriculumCourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"curriculum_course_id"`
	CurriculumID       string `gorm:"type:uuid;not null;uniqueIndex:uniq_curriculum_course" json:"curriculum_id"`
	CourseID           string `gorm:"type:uuid;not null;uniqueIndex:uniq_curriculum_course" json:"course_id"`
	SuggestedSemester  int    `gorm:"not null;default:1"                                    json:"suggested_semester"`
	CreditOverride     *int   `json:"credit_override,omitempty"`
	IsRequired         bool   `gorm:"not null;default:true"                                 json:"is_required"`
	BaseModel

	Curriculum *Curriculum `gorm:"foreignKey:CurriculumID;references:CurriculumID" json:"curriculum,omitempty"`
	Course     *Course     `gorm:"foreignKey:CourseID;references:CourseID"         json:"course,omitempty"`
}

func (CurriculumCourse) TableName() string { return "curriculum_courses" }

// EffectiveCreditHours 条目学分，覆盖值优先
func (cc *CurriculumCourse) EffectiveCreditHours() int {
	if cc.CreditOverride != nil {
		return *cc.CreditOverride
	}
	if cc.Course != nil {
		return cc.Course.CreditHours
	}
	return 0
}

// YearLevel 由课程号首位数字得到建议修读年级，无数字返回 0
func (cc *CurriculumCourse) YearLevel() int {
	if cc.Course == nil {
		return 0
	}
	return cc.Course.Level()
}

// Concentration 专业方向表 — 对应 concentrations；隶属培养方案
type Concentration struct {
	ConcentrationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"            json:"concentration_id"`
	CurriculumID    string `gorm:"type:uuid;not null;uniqueIndex:uniq_concentration"         json:"curriculum_id"`
	Name            string `gorm:"type:varchar(120);not null;uniqueIndex:uniq_concentration" json:"name"`
	BaseModel

	Curriculum *Curriculum `gorm:"foreignKey:CurriculumID;references:CurriculumID" json:"curriculum,omitempty"`
}

func (Concentration) TableName() string { return "concentrations" }
