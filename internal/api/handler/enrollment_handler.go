package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// EnrollmentHandler 选课（预约 → 注册）模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollSvc: enrollSvc}
}

// ────────────────────── 预约 ──────────────────────

// CreateReservation 单班次预约
// POST /api/v1/reservations
func (h *EnrollmentHandler) CreateReservation(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.enrollSvc.CreateReservation(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.Created(c, reservation)
}

// ReserveSections 批量预约：任一失败整批回滚
// POST /api/v1/reservations/bulk
func (h *EnrollmentHandler) ReserveSections(c *gin.Context) {
	var req dto.BulkReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservations, err := h.enrollSvc.ReserveSections(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.Created(c, gin.H{"list": reservations})
}

// ValidateReservation 预约核准（requested → validated，占座）
// POST /api/v1/reservations/:id/validate
func (h *EnrollmentHandler) ValidateReservation(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.enrollSvc.ValidateReservation(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, reservation)
}

// PayReservation 预约缴费确认（validated → paid）
// POST /api/v1/reservations/:id/pay
func (h *EnrollmentHandler) PayReservation(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.enrollSvc.PayReservation(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, reservation)
}

// CancelReservation 取消预约（占座时同步释放座位）
// POST /api/v1/reservations/:id/cancel
func (h *EnrollmentHandler) CancelReservation(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.enrollSvc.CancelReservation(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, reservation)
}

// ListStudentReservations 学生预约列表
// GET /api/v1/students/:id/reservations
func (h *EnrollmentHandler) ListStudentReservations(c *gin.Context) {
	reservations, err := h.enrollSvc.ListStudentReservations(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": reservations})
}

// ────────────────────── 注册 ──────────────────────

// RegisterFromReservation 已支付预约转正式注册
// POST /api/v1/reservations/:id/register
func (h *EnrollmentHandler) RegisterFromReservation(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	registration, err := h.enrollSvc.RegisterFromReservation(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.Created(c, registration)
}

// SetRegistrationStatus 注册状态流转
// PUT /api/v1/registrations/:id/status
func (h *EnrollmentHandler) SetRegistrationStatus(c *gin.Context) {
	var req dto.SetRegistrationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	registration, err := h.enrollSvc.SetRegistrationStatus(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, registration)
}

// RemoveRegistration 撤销注册（留痕后删除）
// DELETE /api/v1/registrations/:id
func (h *EnrollmentHandler) RemoveRegistration(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.enrollSvc.RemoveRegistration(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListStudentRegistrations 学生注册列表
// GET /api/v1/students/:id/registrations?semester_id=
func (h *EnrollmentHandler) ListStudentRegistrations(c *gin.Context) {
	registrations, err := h.enrollSvc.ListStudentRegistrations(
		c.Request.Context(), c.Param("id"), c.Query("semester_id"))
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": registrations})
}

// handleEnrollmentError 统一处理选课模块业务错误
func (h *EnrollmentHandler) handleEnrollmentError(c *gin.Context, err error) {
	var creditErr *service.CreditLimitError
	switch {
	case errors.As(err, &creditErr):
		response.BadRequest(c, 17001, creditErr.Error())
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, 17002, "预约不存在")
	case errors.Is(err, service.ErrReservationExists):
		response.Conflict(c, 17003, "该学生已预约此班次")
	case errors.Is(err, service.ErrReservationState):
		response.BadRequest(c, 17004, "预约状态不允许此操作")
	case errors.Is(err, service.ErrRegistrationNotFound):
		response.NotFound(c, 17005, "注册记录不存在")
	case errors.Is(err, service.ErrRegistrationExists):
		response.Conflict(c, 17006, "该学生已注册此班次")
	case errors.Is(err, service.ErrRegistrationStatus):
		response.BadRequest(c, 17007, "非法的注册状态")
	case errors.Is(err, service.ErrRegistrationNotPaid):
		response.BadRequest(c, 17008, "预约未支付，不能转为注册")
	case errors.Is(err, service.ErrNoSeatsLeft):
		response.Conflict(c, 17009, "班次座位已满")
	case errors.Is(err, service.ErrRegistrationClosed):
		response.BadRequest(c, 17010, "该学期未开放注册")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 17011, "学生不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 17012, "班次不存在")
	default:
		response.InternalError(c)
	}
}
