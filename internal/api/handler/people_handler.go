package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// PeopleHandler 学生/职员/教员/捐赠人模块 HTTP 处理器
type PeopleHandler struct {
	peopleSvc service.PeopleService
}

// NewPeopleHandler 创建 PeopleHandler
func NewPeopleHandler(peopleSvc service.PeopleService) *PeopleHandler {
	return &PeopleHandler{peopleSvc: peopleSvc}
}

// ────────────────────── 学生 ──────────────────────

// CreateStudent 创建学生
// POST /api/v1/students
func (h *PeopleHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	student, err := h.peopleSvc.CreateStudent(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}

	response.Created(c, student)
}

// GetStudent 学生详情
// GET /api/v1/students/:id
func (h *PeopleHandler) GetStudent(c *gin.Context) {
	student, err := h.peopleSvc.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}
	response.OK(c, student)
}

// ListStudents 学生分页列表
// GET /api/v1/students
func (h *PeopleHandler) ListStudents(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.peopleSvc.ListStudents(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateStudent 更新学生
// PUT /api/v1/students/:id
func (h *PeopleHandler) UpdateStudent(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	student, err := h.peopleSvc.UpdateStudent(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}

	response.OK(c, student)
}

// ────────────────────── 职员 / 教员 ──────────────────────

// CreateStaff 创建职员
// POST /api/v1/staff
func (h *PeopleHandler) CreateStaff(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	staff, err := h.peopleSvc.CreateStaff(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}

	response.Created(c, staff)
}

// GetStaff 职员详情
// GET /api/v1/staff/:id
func (h *PeopleHandler) GetStaff(c *gin.Context) {
	staff, err := h.peopleSvc.GetStaff(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}
	response.OK(c, staff)
}

// ListStaff 职员分页列表
// GET /api/v1/staff
func (h *PeopleHandler) ListStaff(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.peopleSvc.ListStaff(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, result.Items, result.Total, result.Page, result.PageSize)
}

// CreateFaculty 创建教员（可基于既有职员，或随行建档）
// POST /api/v1/faculty
func (h *PeopleHandler) CreateFaculty(c *gin.Context) {
	var req dto.CreateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	faculty, err := h.peopleSvc.CreateFaculty(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}

	response.Created(c, faculty)
}

// GetFaculty 教员详情
// GET /api/v1/faculty/:id
func (h *PeopleHandler) GetFaculty(c *gin.Context) {
	faculty, err := h.peopleSvc.GetFaculty(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}
	response.OK(c, faculty)
}

// ListFaculty 教员分页列表
// GET /api/v1/faculty
func (h *PeopleHandler) ListFaculty(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.peopleSvc.ListFaculty(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ────────────────────── 捐赠人 ──────────────────────

// CreateDonor 创建捐赠人
// POST /api/v1/donors
func (h *PeopleHandler) CreateDonor(c *gin.Context) {
	var req dto.CreateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	donor, err := h.peopleSvc.CreateDonor(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}

	response.Created(c, donor)
}

// GetDonor 捐赠人详情
// GET /api/v1/donors/:id
func (h *PeopleHandler) GetDonor(c *gin.Context) {
	donor, err := h.peopleSvc.GetDonor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePeopleError(c, err)
		return
	}
	response.OK(c, donor)
}

// handlePeopleError 统一处理人员模块业务错误
func (h *PeopleHandler) handlePeopleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 15001, "学生不存在")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 15002, "职员不存在")
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, 15003, "教员不存在")
	case errors.Is(err, service.ErrDonorNotFound):
		response.NotFound(c, 15004, "捐赠人不存在")
	case errors.Is(err, service.ErrPersonNameMissing):
		response.BadRequest(c, 15005, "缺少姓名，无法建档")
	case errors.Is(err, service.ErrDateInvalid):
		response.BadRequest(c, 15006, "日期格式非法，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrCurriculumNotFound):
		response.NotFound(c, 15007, "培养方案不存在")
	case errors.Is(err, service.ErrCollegeNotFound):
		response.NotFound(c, 15008, "学院不存在")
	default:
		response.InternalError(c)
	}
}
