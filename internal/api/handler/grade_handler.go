package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// GradeHandler 成绩模块 HTTP 处理器
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler 创建 GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// CreateGrade 录入成绩
// POST /api/v1/grades
func (h *GradeHandler) CreateGrade(c *gin.Context) {
	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.CreateGrade(c.Request.Context(), &req, c.Query("graded_by"), callerID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.Created(c, grade)
}

// UpdateGrade 改成绩（创建时间不变）
// PUT /api/v1/grades/:id
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	grade, err := h.gradeSvc.UpdateGrade(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleGradeError(c, err)
		return
	}

	response.OK(c, grade)
}

// ListSectionGrades 班次成绩列表
// GET /api/v1/sections/:id/grades
func (h *GradeHandler) ListSectionGrades(c *gin.Context) {
	grades, err := h.gradeSvc.ListSectionGrades(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": grades})
}

// ListStudentGrades 学生成绩列表
// GET /api/v1/students/:id/grades
func (h *GradeHandler) ListStudentGrades(c *gin.Context) {
	grades, err := h.gradeSvc.ListStudentGrades(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	response.OK(c, gin.H{"list": grades})
}

// ListGradeValues 成绩等级表
// GET /api/v1/grade-values
func (h *GradeHandler) ListGradeValues(c *gin.Context) {
	values, err := h.gradeSvc.ListGradeValues(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": values})
}

// Transcript 学生成绩单（GPA、累计学分）
// GET /api/v1/students/:id/transcript
func (h *GradeHandler) Transcript(c *gin.Context) {
	transcript, err := h.gradeSvc.Transcript(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleGradeError(c, err)
		return
	}
	response.OK(c, transcript)
}

// handleGradeError 统一处理成绩模块业务错误
func (h *GradeHandler) handleGradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 18001, "成绩不存在")
	case errors.Is(err, service.ErrGradeExists):
		response.Conflict(c, 18002, "该学生此班次已有成绩")
	case errors.Is(err, service.ErrGradeValueNotFound):
		response.NotFound(c, 18003, "成绩等级不存在")
	case errors.Is(err, service.ErrGradeNotRegistered):
		response.BadRequest(c, 18004, "学生未注册该班次，不能录成绩")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 18005, "学生不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 18006, "班次不存在")
	default:
		response.InternalError(c)
	}
}
