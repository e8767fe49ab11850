package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// SpacesHandler 楼宇/教室模块 HTTP 处理器
type SpacesHandler struct {
	spacesSvc service.SpacesService
}

// NewSpacesHandler 创建 SpacesHandler
func NewSpacesHandler(spacesSvc service.SpacesService) *SpacesHandler {
	return &SpacesHandler{spacesSvc: spacesSvc}
}

// CreateSpace 创建楼宇
// POST /api/v1/spaces
func (h *SpacesHandler) CreateSpace(c *gin.Context) {
	var req dto.CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	space, err := h.spacesSvc.CreateSpace(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSpacesError(c, err)
		return
	}

	response.Created(c, space)
}

// ListSpaces 楼宇列表
// GET /api/v1/spaces
func (h *SpacesHandler) ListSpaces(c *gin.Context) {
	spaces, err := h.spacesSvc.ListSpaces(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": spaces})
}

// CreateRoom 创建教室
// POST /api/v1/rooms
func (h *SpacesHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.spacesSvc.CreateRoom(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSpacesError(c, err)
		return
	}

	response.Created(c, room)
}

// GetRoom 教室详情
// GET /api/v1/rooms/:id
func (h *SpacesHandler) GetRoom(c *gin.Context) {
	room, err := h.spacesSvc.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSpacesError(c, err)
		return
	}
	response.OK(c, room)
}

// ListRooms 教室列表
// GET /api/v1/rooms?space_id=
func (h *SpacesHandler) ListRooms(c *gin.Context) {
	rooms, err := h.spacesSvc.ListRooms(c.Request.Context(), c.Query("space_id"))
	if err != nil {
		h.handleSpacesError(c, err)
		return
	}
	response.OK(c, gin.H{"list": rooms})
}

// NextTBARoom 生成下一个 TBA 占位教室
// POST /api/v1/rooms/tba
func (h *SpacesHandler) NextTBARoom(c *gin.Context) {
	room, err := h.spacesSvc.NextTBARoom(c.Request.Context())
	if err != nil {
		h.handleSpacesError(c, err)
		return
	}
	response.Created(c, room)
}

// handleSpacesError 统一处理空间模块业务错误
func (h *SpacesHandler) handleSpacesError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSpaceNotFound):
		response.NotFound(c, 14001, "楼宇不存在")
	case errors.Is(err, service.ErrSpaceExists):
		response.Conflict(c, 14002, "楼宇代码已存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 14003, "教室不存在")
	case errors.Is(err, service.ErrRoomExists):
		response.Conflict(c, 14004, "该楼宇下教室代码已存在")
	default:
		response.InternalError(c)
	}
}
