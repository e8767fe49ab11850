package model

import "github.com/shopspring/decimal"

// PassingGradeNumeric 及格线：数值成绩不低于 1 记为通过
var PassingGradeNumeric = decimal.NewFromInt(1)

// GradeValue 成绩等级表 — 对应 grade_values
// Code 如 A/B+/F/I/W，Numeric 为对应绩点
type GradeValue struct {
	GradeValueID string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_value_id"`
	Code         string          `gorm:"type:varchar(3);not null;uniqueIndex"           json:"code"`
	Numeric      decimal.Decimal `gorm:"type:numeric(4,2);not null"                     json:"numeric"`
	BaseModel
}

func (GradeValue) TableName() string { return "grade_values" }

// IsPassing 绩点达到及格线
func (v *GradeValue) IsPassing() bool {
	return v.Numeric.GreaterThanOrEqual(PassingGradeNumeric)
}

// Grade 成绩记录表 — 对应 grades
// (student, section) 唯一；创建时间不可改，成绩值可修订
type Grade struct {
	GradeID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"grade_id"`
	StudentID    string  `gorm:"type:uuid;not null;uniqueIndex:uniq_grade"      json:"student_id"`
	SectionID    string  `gorm:"type:uuid;not null;uniqueIndex:uniq_grade"      json:"section_id"`
	GradeValueID string  `gorm:"type:uuid;not null"                             json:"grade_value_id"`
	GradedByID   *string `gorm:"type:uuid"                                      json:"graded_by_id,omitempty"`
	Comment      string  `gorm:"type:varchar(255)"                              json:"comment"`
	BaseModel

	Student    *Student    `gorm:"foreignKey:StudentID;references:StudentID"       json:"student,omitempty"`
	Section    *Section    `gorm:"foreignKey:SectionID;references:SectionID"       json:"section,omitempty"`
	GradeValue *GradeValue `gorm:"foreignKey:GradeValueID;references:GradeValueID" json:"grade_value,omitempty"`
	GradedBy   *Faculty    `gorm:"foreignKey:GradedByID;references:FacultyID"      json:"graded_by,omitempty"`
}

func (Grade) TableName() string { return "grades" }
