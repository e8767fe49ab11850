package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// CatalogHandler 学院/系所/课程/培养方案模块 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ────────────────────── 学院 / 系所 ──────────────────────

// CreateCollege 创建学院
// POST /api/v1/colleges
func (h *CatalogHandler) CreateCollege(c *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	college, err := h.catalogSvc.CreateCollege(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, college)
}

// ListColleges 学院列表
// GET /api/v1/colleges
func (h *CatalogHandler) ListColleges(c *gin.Context) {
	colleges, err := h.catalogSvc.ListColleges(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": colleges})
}

// CreateDepartment 创建系所
// POST /api/v1/departments
func (h *CatalogHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	dept, err := h.catalogSvc.CreateDepartment(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, dept)
}

// ListDepartments 系所列表
// GET /api/v1/departments?college_id=
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	depts, err := h.catalogSvc.ListDepartments(c.Request.Context(), c.Query("college_id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": depts})
}

// ────────────────────── 课程 ──────────────────────

// CreateCourse 创建课程
// POST /api/v1/courses
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.catalogSvc.CreateCourse(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, course)
}

// GetCourse 课程详情
// GET /api/v1/courses/:id
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.catalogSvc.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, course)
}

// ListCourses 课程分页列表
// GET /api/v1/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.catalogSvc.ListCourses(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateCourse 更新课程
// PUT /api/v1/courses/:id
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	course, err := h.catalogSvc.UpdateCourse(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, course)
}

// AddPrerequisite 添加先修关系
// POST /api/v1/courses/:id/prerequisites
func (h *CatalogHandler) AddPrerequisite(c *gin.Context) {
	var req dto.AddPrerequisiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	prereq, err := h.catalogSvc.AddPrerequisite(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, prereq)
}

// ListPrerequisites 课程先修列表，可按培养方案过滤
// GET /api/v1/courses/:id/prerequisites?curriculum_id=
func (h *CatalogHandler) ListPrerequisites(c *gin.Context) {
	prereqs, err := h.catalogSvc.ListPrerequisites(c.Request.Context(), c.Query("curriculum_id"), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": prereqs})
}

// ────────────────────── 培养方案 ──────────────────────

// CreateCurriculum 创建培养方案
// POST /api/v1/curricula
func (h *CatalogHandler) CreateCurriculum(c *gin.Context) {
	var req dto.CreateCurriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	curriculum, err := h.catalogSvc.CreateCurriculum(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, curriculum)
}

// GetCurriculum 方案详情
// GET /api/v1/curricula/:id
func (h *CatalogHandler) GetCurriculum(c *gin.Context) {
	curriculum, err := h.catalogSvc.GetCurriculum(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, curriculum)
}

// ListCurricula 方案列表
// GET /api/v1/curricula
func (h *CatalogHandler) ListCurricula(c *gin.Context) {
	curricula, err := h.catalogSvc.ListCurricula(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": curricula})
}

// SetCurriculumStatus 方案审批状态流转
// PUT /api/v1/curricula/:id/status
func (h *CatalogHandler) SetCurriculumStatus(c *gin.Context) {
	var req dto.SetCurriculumStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	curriculum, err := h.catalogSvc.SetCurriculumStatus(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, curriculum)
}

// AddCurriculumCourse 方案挂课
// POST /api/v1/curricula/:id/courses
func (h *CatalogHandler) AddCurriculumCourse(c *gin.Context) {
	var req dto.AddCurriculumCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.catalogSvc.AddCurriculumCourse(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, entry)
}

// AddConcentration 方案下新建专业方向
// POST /api/v1/curricula/:id/concentrations
func (h *CatalogHandler) AddConcentration(c *gin.Context) {
	var req dto.AddConcentrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	concentration, err := h.catalogSvc.AddConcentration(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, concentration)
}

// ListConcentrations 方案专业方向列表
// GET /api/v1/curricula/:id/concentrations
func (h *CatalogHandler) ListConcentrations(c *gin.Context) {
	concentrations, err := h.catalogSvc.ListConcentrations(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": concentrations})
}

// ────────────────────── 学业进度 ──────────────────────

// PassedCourses 学生已通过课程
// GET /api/v1/students/:id/passed-courses
func (h *CatalogHandler) PassedCourses(c *gin.Context) {
	courseIDs, err := h.catalogSvc.PassedCourses(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"course_ids": courseIDs})
}

// AllowedCourses 学生可修课程
// GET /api/v1/students/:id/allowed-courses
func (h *CatalogHandler) AllowedCourses(c *gin.Context) {
	courses, err := h.catalogSvc.AllowedCourses(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": courses})
}

// handleCatalogError 统一处理目录模块业务错误
func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCollegeNotFound):
		response.NotFound(c, 13001, "学院不存在")
	case errors.Is(err, service.ErrCollegeExists):
		response.Conflict(c, 13002, "学院代码已存在")
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13003, "系所不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 13004, "课程不存在")
	case errors.Is(err, service.ErrCourseExists):
		response.Conflict(c, 13005, "同系所下课程号已存在")
	case errors.Is(err, service.ErrCourseCodeInvalid):
		response.BadRequest(c, 13006, "课程代码格式非法")
	case errors.Is(err, service.ErrCourseCodeSlash):
		response.BadRequest(c, 13007, "课程代码不允许包含斜杠")
	case errors.Is(err, service.ErrPrereqSelf):
		response.BadRequest(c, 13008, "课程不能以自身为先修")
	case errors.Is(err, service.ErrPrereqCycle):
		response.BadRequest(c, 13009, service.ErrPrereqCycle.Error())
	case errors.Is(err, service.ErrCurriculumNotFound):
		response.NotFound(c, 13010, "培养方案不存在")
	case errors.Is(err, service.ErrCurriculumTitleTaken):
		response.Conflict(c, 13011, "同学院下已有同名活跃方案")
	case errors.Is(err, service.ErrCurriculumYearNoDigit):
		response.BadRequest(c, 13012, "课程号首位无数字，无法推导建议年级")
	case errors.Is(err, service.ErrCurriculumStatusIll):
		response.BadRequest(c, 13013, "非法的方案审批状态")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 13014, "学生不存在")
	case errors.Is(err, service.ErrConcentrationExists):
		response.Conflict(c, 13015, "方案下已有同名专业方向")
	default:
		response.InternalError(c)
	}
}
