package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// CalendarHandler 学年/学期/学段模块 HTTP 处理器
type CalendarHandler struct {
	calSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calSvc: calSvc}
}

// CreateAcademicYear 创建学年
// POST /api/v1/academic-years
func (h *CalendarHandler) CreateAcademicYear(c *gin.Context) {
	var req dto.CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	year, err := h.calSvc.CreateAcademicYear(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, year)
}

// ListAcademicYears 学年列表
// GET /api/v1/academic-years
func (h *CalendarHandler) ListAcademicYears(c *gin.Context) {
	years, err := h.calSvc.ListAcademicYears(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": years})
}

// GetAcademicYear 学年详情
// GET /api/v1/academic-years/:id
func (h *CalendarHandler) GetAcademicYear(c *gin.Context) {
	year, err := h.calSvc.GetAcademicYear(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OK(c, year)
}

// CreateSemester 创建学期
// POST /api/v1/semesters
func (h *CalendarHandler) CreateSemester(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	semester, err := h.calSvc.CreateSemester(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, semester)
}

// ListSemesters 学期列表
// GET /api/v1/semesters
func (h *CalendarHandler) ListSemesters(c *gin.Context) {
	semesters, err := h.calSvc.ListSemesters(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": semesters})
}

// GetCurrentSemester 当前学期
// GET /api/v1/semesters/current
func (h *CalendarHandler) GetCurrentSemester(c *gin.Context) {
	semester, err := h.calSvc.GetCurrentSemester(c.Request.Context())
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OK(c, semester)
}

// GetSemester 学期详情
// GET /api/v1/semesters/:id
func (h *CalendarHandler) GetSemester(c *gin.Context) {
	semester, err := h.calSvc.GetSemester(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OK(c, semester)
}

// SetSemesterStatus 学期状态流转
// PUT /api/v1/semesters/:id/status
func (h *CalendarHandler) SetSemesterStatus(c *gin.Context) {
	var req dto.SetSemesterStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	semester, err := h.calSvc.SetSemesterStatus(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, semester)
}

// CreateTerm 创建学段
// POST /api/v1/terms
func (h *CalendarHandler) CreateTerm(c *gin.Context) {
	var req dto.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	term, err := h.calSvc.CreateTerm(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, term)
}

// ListTerms 学段列表
// GET /api/v1/terms?semester_id=
func (h *CalendarHandler) ListTerms(c *gin.Context) {
	terms, err := h.calSvc.ListTerms(c.Request.Context(), c.Query("semester_id"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OK(c, gin.H{"list": terms})
}

// handleCalendarError 统一处理日历模块业务错误
func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 12001, "学年不存在")
	case errors.Is(err, service.ErrAcademicYearStartMonth):
		response.BadRequest(c, 12002, "学年须在 7 月至 10 月之间开始")
	case errors.Is(err, service.ErrAcademicYearExists):
		response.Conflict(c, 12003, "该起始年度的学年已存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 12004, "学期不存在")
	case errors.Is(err, service.ErrSemesterDateInvalid):
		response.BadRequest(c, 12005, "结束日期必须晚于开始日期")
	case errors.Is(err, service.ErrSubperiodOutOfRange):
		response.BadRequest(c, 12006, "子周期必须完整落在父周期之内")
	case errors.Is(err, service.ErrSubperiodOverlap):
		response.BadRequest(c, 12007, "子周期与同级周期重叠")
	case errors.Is(err, service.ErrSemesterStatusInvalid):
		response.BadRequest(c, 12008, "非法的学期状态")
	case errors.Is(err, service.ErrTermNotFound):
		response.NotFound(c, 12009, "学段不存在")
	default:
		response.InternalError(c)
	}
}
