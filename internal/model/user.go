package model

import "time"

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(30);not null;uniqueIndex"          json:"username"`
	FirstName    string `gorm:"type:varchar(60)"                               json:"first_name"`
	LastName     string `gorm:"type:varchar(60)"                               json:"last_name"`
	Email        string `gorm:"type:varchar(255)"                              json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	IsStaff      bool   `gorm:"not null;default:false"                         json:"is_staff"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	IsSuperuser  bool   `gorm:"not null;default:false"                         json:"is_superuser"`
	BaseModel

	// 关联
	Groups []Group `gorm:"many2many:user_groups;joinForeignKey:UserID;joinReferences:GroupID" json:"groups,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 返回 first + last
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Group 权限组表 — 对应 groups（每个角色一个组）
type Group struct {
	GroupID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	Name    string `gorm:"type:varchar(60);not null;uniqueIndex"          json:"name"`

	Permissions []Permission `gorm:"many2many:group_permissions;joinForeignKey:GroupID;joinReferences:PermissionID" json:"permissions,omitempty"`
}

func (Group) TableName() string { return "groups" }

// Permission 模型级权限 — codename 形如 add_course / view_section
type Permission struct {
	PermissionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"permission_id"`
	Codename     string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"codename"`
	Model        string `gorm:"type:varchar(60);not null"                      json:"model"`
	Action       string `gorm:"type:varchar(30);not null"                      json:"action"`
}

func (Permission) TableName() string { return "permissions" }

// ObjectPermission 对象级授权 — 目前仅用于按学院的 (action, college) 授权
type ObjectPermission struct {
	ObjectPermissionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"object_permission_id"`
	UserID             string `gorm:"type:uuid;not null;uniqueIndex:uniq_object_perm" json:"user_id"`
	Action             string `gorm:"type:varchar(30);not null;uniqueIndex:uniq_object_perm" json:"action"`
	Model              string `gorm:"type:varchar(60);not null;uniqueIndex:uniq_object_perm" json:"model"`
	ObjectID           string `gorm:"type:uuid;not null;uniqueIndex:uniq_object_perm" json:"object_id"`
}

func (ObjectPermission) TableName() string { return "object_permissions" }

// RoleAssignment 一段时间内用户持有的角色 — 对应 role_assignments
// (user, role, college, start_date) 唯一
type RoleAssignment struct {
	RoleAssignmentID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"role_assignment_id"`
	UserID           string     `gorm:"type:uuid;not null;uniqueIndex:uniq_role_period" json:"user_id"`
	Role             string     `gorm:"type:varchar(30);not null;uniqueIndex:uniq_role_period" json:"role"`
	CollegeID        *string    `gorm:"type:uuid;uniqueIndex:uniq_role_period"         json:"college_id,omitempty"`
	StartDate        time.Time  `gorm:"type:date;not null;uniqueIndex:uniq_role_period" json:"start_date"`
	EndDate          *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"`

	// 关联
	User    *User    `gorm:"foreignKey:UserID;references:UserID"       json:"user,omitempty"`
	College *College `gorm:"foreignKey:CollegeID;references:CollegeID" json:"college,omitempty"`
}

func (RoleAssignment) TableName() string { return "role_assignments" }
