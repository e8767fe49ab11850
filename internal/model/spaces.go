package model

// 待定场地的占位代码
const (
	TBASpaceCode = "TBA"
	TBARoomCode  = "TBA"
)

// Space 楼宇/场馆表 — 对应 spaces
type Space struct {
	SpaceID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"space_id"`
	Code     string `gorm:"type:varchar(10);not null;uniqueIndex"          json:"code"`
	FullName string `gorm:"type:varchar(120);not null"                     json:"full_name"`
	BaseModel

	Rooms []Room `gorm:"foreignKey:SpaceID;references:SpaceID" json:"rooms,omitempty"`
}

func (Space) TableName() string { return "spaces" }

// Room 教室表 — 对应 rooms；同一楼宇内 Code 唯一
type Room struct {
	RoomID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"room_id"`
	SpaceID      string `gorm:"type:uuid;not null;uniqueIndex:uniq_room_code"        json:"space_id"`
	Code         string `gorm:"type:varchar(10);not null;uniqueIndex:uniq_room_code" json:"code"`
	Capacity     int    `gorm:"not null;default:0"                                   json:"capacity"`
	ExamCapacity int    `gorm:"not null;default:0"                                   json:"exam_capacity"`
	BaseModel

	Space *Space `gorm:"foreignKey:SpaceID;references:SpaceID" json:"space,omitempty"`
}

func (Room) TableName() string { return "rooms" }

// FullCode 形如 "MAIN-101"
func (r *Room) FullCode() string {
	if r.Space == nil {
		return r.Code
	}
	return r.Space.Code + "-" + r.Code
}

// IsTBA 是否为待定教室
func (r *Room) IsTBA() bool {
	return r.Space != nil && r.Space.Code == TBASpaceCode
}
