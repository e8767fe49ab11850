package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// OfferingHandler 班次/时段模块 HTTP 处理器
type OfferingHandler struct {
	offeringSvc service.OfferingService
}

// NewOfferingHandler 创建 OfferingHandler
func NewOfferingHandler(offeringSvc service.OfferingService) *OfferingHandler {
	return &OfferingHandler{offeringSvc: offeringSvc}
}

// CreateSection 开班
// POST /api/v1/sections
func (h *OfferingHandler) CreateSection(c *gin.Context) {
	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	section, err := h.offeringSvc.CreateSection(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleOfferingError(c, err)
		return
	}

	response.Created(c, section)
}

// GetSection 班次详情
// GET /api/v1/sections/:id
func (h *OfferingHandler) GetSection(c *gin.Context) {
	section, err := h.offeringSvc.GetSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleOfferingError(c, err)
		return
	}
	response.OK(c, section)
}

// ListSections 班次分页列表
// GET /api/v1/sections?semester_id=
func (h *OfferingHandler) ListSections(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.offeringSvc.ListSections(c.Request.Context(), c.Query("semester_id"), &page)
	if err != nil {
		h.handleOfferingError(c, err)
		return
	}
	response.OKPage(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateSection 调整班次
// PUT /api/v1/sections/:id
func (h *OfferingHandler) UpdateSection(c *gin.Context) {
	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	section, err := h.offeringSvc.UpdateSection(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleOfferingError(c, err)
		return
	}

	response.OK(c, section)
}

// AddSession 给班次排时段
// POST /api/v1/sections/:id/sessions
func (h *OfferingHandler) AddSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.offeringSvc.AddSession(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleOfferingError(c, err)
		return
	}

	response.Created(c, session)
}

// RemoveSession 撤销时段
// DELETE /api/v1/sessions/:id
func (h *OfferingHandler) RemoveSession(c *gin.Context) {
	if err := h.offeringSvc.RemoveSession(c.Request.Context(), c.Param("id")); err != nil {
		h.handleOfferingError(c, err)
		return
	}
	response.OK(c, nil)
}

// Roster 班次名单
// GET /api/v1/sections/:id/roster
func (h *OfferingHandler) Roster(c *gin.Context) {
	roster, err := h.offeringSvc.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleOfferingError(c, err)
		return
	}
	response.OK(c, gin.H{"list": roster})
}

// handleOfferingError 统一处理开课模块业务错误
func (h *OfferingHandler) handleOfferingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 16001, "班次不存在")
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 16002, "上课时段不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 16003, "课程不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 16004, "学期不存在")
	case errors.Is(err, service.ErrSeatsBelowTaken):
		response.BadRequest(c, 16005, "座位上限不能低于已占座位数")
	case errors.Is(err, service.ErrSessionTimeIll):
		response.BadRequest(c, 16006, "时段起止时间非法")
	case errors.Is(err, service.ErrRoomConflict):
		response.Conflict(c, 16007, "该教室在此时段已被占用")
	case errors.Is(err, service.ErrSessionDuplicate):
		response.Conflict(c, 16008, "该班次已有相同时段")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 16009, "教室不存在")
	case errors.Is(err, service.ErrWeekdayInvalid):
		response.BadRequest(c, 16010, "星期记号非法")
	default:
		response.InternalError(c)
	}
}
