package dto

// ── 楼宇/教室 DTO ──

// CreateSpaceRequest 创建楼宇请求
type CreateSpaceRequest struct {
	Code     string `json:"code"      binding:"required,min=2,max=10"`
	FullName string `json:"full_name" binding:"required,max=120"`
}

// SpaceResponse 楼宇响应
type SpaceResponse struct {
	ID       string         `json:"id"`
	Code     string         `json:"code"`
	FullName string         `json:"full_name"`
	Rooms    []RoomResponse `json:"rooms,omitempty"`
}

// CreateRoomRequest 创建教室请求
type CreateRoomRequest struct {
	SpaceID      string `json:"space_id"      binding:"required,uuid"`
	Code         string `json:"code"          binding:"required,min=1,max=10"`
	Capacity     int    `json:"capacity"      binding:"omitempty,min=0"`
	ExamCapacity int    `json:"exam_capacity" binding:"omitempty,min=0"`
}

// RoomResponse 教室响应
type RoomResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	FullCode     string `json:"full_code"`
	Capacity     int    `json:"capacity"`
	ExamCapacity int    `json:"exam_capacity"`
	SpaceID      string `json:"space_id"`
}
