package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// FinanceHandler 财务模块 HTTP 处理器
type FinanceHandler struct {
	financeSvc service.FinanceService
}

// NewFinanceHandler 创建 FinanceHandler
func NewFinanceHandler(financeSvc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeSvc: financeSvc}
}

// ────────────────────── 账单 / 缴费 ──────────────────────

// CreateInvoice 开立账单
// POST /api/v1/invoices
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	invoice, err := h.financeSvc.CreateInvoice(c.Request.Context(), &req, callerID, callerID)
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}

	response.Created(c, invoice)
}

// GetInvoice 账单详情
// GET /api/v1/invoices/:id
func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.financeSvc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, invoice)
}

// ListInvoices 账单列表
// GET /api/v1/invoices?student_id=&semester_id=
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.financeSvc.ListInvoices(
		c.Request.Context(), c.Query("student_id"), c.Query("semester_id"))
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": invoices})
}

// CreatePayment 记录缴费
// POST /api/v1/payments
func (h *FinanceHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	payment, err := h.financeSvc.CreatePayment(c.Request.Context(), &req, callerID, callerID)
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}

	response.Created(c, payment)
}

// ────────────────────── 财务汇总 ──────────────────────

// GetRecord 学生学期财务汇总
// GET /api/v1/financial-records?student_id=&semester_id=
func (h *FinanceHandler) GetRecord(c *gin.Context) {
	record, err := h.financeSvc.GetRecord(
		c.Request.Context(), c.Query("student_id"), c.Query("semester_id"))
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, record)
}

// SetClearance 清算状态人工覆写
// PUT /api/v1/financial-records/clearance?student_id=&semester_id=
func (h *FinanceHandler) SetClearance(c *gin.Context) {
	var req dto.SetClearanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.financeSvc.SetClearance(
		c.Request.Context(), c.Query("student_id"), c.Query("semester_id"), &req, callerID)
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, record)
}

// ────────────────────── 奖学金 / 附加费 ──────────────────────

// CreateScholarship 创建奖学金
// POST /api/v1/scholarships
func (h *FinanceHandler) CreateScholarship(c *gin.Context) {
	var req dto.CreateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	scholarship, err := h.financeSvc.CreateScholarship(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}

	response.Created(c, scholarship)
}

// ListScholarships 奖学金列表
// GET /api/v1/scholarships?student_id=
func (h *FinanceHandler) ListScholarships(c *gin.Context) {
	scholarships, err := h.financeSvc.ListScholarships(c.Request.Context(), c.Query("student_id"))
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, gin.H{"list": scholarships})
}

// AddSectionFee 班次附加费
// POST /api/v1/sections/:id/fees
func (h *FinanceHandler) AddSectionFee(c *gin.Context) {
	var req dto.CreateSectionFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fee, err := h.financeSvc.AddSectionFee(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}

	response.Created(c, fee)
}

// RemoveSectionFee 删除附加费
// DELETE /api/v1/section-fees/:id
func (h *FinanceHandler) RemoveSectionFee(c *gin.Context) {
	if err := h.financeSvc.RemoveSectionFee(c.Request.Context(), c.Param("id")); err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, nil)
}

// QuoteEnrollmentFee 班次费用试算
// GET /api/v1/sections/:id/fee-quote
func (h *FinanceHandler) QuoteEnrollmentFee(c *gin.Context) {
	quote, err := h.financeSvc.QuoteEnrollmentFee(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleFinanceError(c, err)
		return
	}
	response.OK(c, quote)
}

// handleFinanceError 统一处理财务模块业务错误
func (h *FinanceHandler) handleFinanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound):
		response.NotFound(c, 19001, "账单不存在")
	case errors.Is(err, service.ErrInvoiceExists):
		response.Conflict(c, 19002, "该课程本学期已开立账单")
	case errors.Is(err, service.ErrPaymentAmountIll):
		response.BadRequest(c, 19003, "缴费金额非法")
	case errors.Is(err, service.ErrPaymentOverpay):
		response.BadRequest(c, 19004, "缴费金额超出账单余额")
	case errors.Is(err, service.ErrScholarshipNotFound):
		response.NotFound(c, 19005, "奖学金不存在")
	case errors.Is(err, service.ErrScholarshipExpired):
		response.BadRequest(c, 19006, "奖学金不在生效期内")
	case errors.Is(err, service.ErrRecordNotFound):
		response.NotFound(c, 19007, "财务汇总不存在")
	case errors.Is(err, service.ErrClearanceIll):
		response.BadRequest(c, 19008, "非法的清算状态")
	case errors.Is(err, service.ErrAmountInvalid):
		response.BadRequest(c, 19009, "金额格式非法")
	case errors.Is(err, service.ErrFeeNotFound):
		response.NotFound(c, 19010, "附加费不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 19011, "学生不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 19012, "班次不存在")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 19013, "学期不存在")
	default:
		response.InternalError(c)
	}
}
