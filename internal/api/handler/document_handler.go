package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// DocumentHandler 文档/成绩单申请模块 HTTP 处理器
type DocumentHandler struct {
	docSvc service.DocumentService
}

// NewDocumentHandler 创建 DocumentHandler
func NewDocumentHandler(docSvc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docSvc: docSvc}
}

// ────────────────────── 文档 ──────────────────────

// CreateDocument 上传文档元数据
// POST /api/v1/documents
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	doc, err := h.docSvc.CreateDocument(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.Created(c, doc)
}

// GetDocument 文档详情
// GET /api/v1/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.docSvc.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.OK(c, doc)
}

// ListOwnerDocuments 按归属者列文档
// GET /api/v1/documents?owner_kind=&owner_id=
func (h *DocumentHandler) ListOwnerDocuments(c *gin.Context) {
	docs, err := h.docSvc.ListOwnerDocuments(
		c.Request.Context(), c.Query("owner_kind"), c.Query("owner_id"))
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": docs})
}

// ListByStatus 按审核状态分页列文档
// GET /api/v1/documents/by-status/:status
func (h *DocumentHandler) ListByStatus(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.docSvc.ListByStatus(c.Request.Context(), c.Param("status"), &page)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.OKPage(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ReviewDocument 审核文档
// PUT /api/v1/documents/:id/review
func (h *DocumentHandler) ReviewDocument(c *gin.Context) {
	var req dto.ReviewDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	doc, err := h.docSvc.ReviewDocument(c.Request.Context(), c.Param("id"), &req, c.Query("reviewer_staff_id"), callerID)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.OK(c, doc)
}

// DeleteDocument 删除文档（软删除）
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.docSvc.DeleteDocument(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 成绩单申请 ──────────────────────

// CreateTranscriptRequest 发起成绩单申请
// POST /api/v1/transcript-requests
func (h *DocumentHandler) CreateTranscriptRequest(c *gin.Context) {
	var req dto.CreateTranscriptRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tr, err := h.docSvc.CreateTranscriptRequest(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.Created(c, tr)
}

// GetTranscriptRequest 申请详情
// GET /api/v1/transcript-requests/:id
func (h *DocumentHandler) GetTranscriptRequest(c *gin.Context) {
	tr, err := h.docSvc.GetTranscriptRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.OK(c, tr)
}

// ListStudentTranscriptRequests 学生申请列表
// GET /api/v1/students/:id/transcript-requests
func (h *DocumentHandler) ListStudentTranscriptRequests(c *gin.Context) {
	trs, err := h.docSvc.ListStudentTranscriptRequests(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.OK(c, gin.H{"list": trs})
}

// SetTranscriptStatus 申请状态流转
// PUT /api/v1/transcript-requests/:id/status
func (h *DocumentHandler) SetTranscriptStatus(c *gin.Context) {
	var req dto.SetTranscriptStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tr, err := h.docSvc.SetTranscriptStatus(c.Request.Context(), c.Param("id"), &req, c.Query("handler_staff_id"), callerID)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.OK(c, tr)
}

// handleDocumentError 统一处理文档模块业务错误
func (h *DocumentHandler) handleDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		response.NotFound(c, 20001, "文档不存在")
	case errors.Is(err, service.ErrDocumentOwnerIll):
		response.BadRequest(c, 20002, "未知的文档归属者种类")
	case errors.Is(err, service.ErrDocumentStatusIll):
		response.BadRequest(c, 20003, "非法的文档审核状态")
	case errors.Is(err, service.ErrTranscriptNotFound):
		response.NotFound(c, 20004, "成绩单申请不存在")
	case errors.Is(err, service.ErrTranscriptStatus):
		response.BadRequest(c, 20005, "非法的成绩单申请状态")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20006, "学生不存在")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 20007, "职员不存在")
	case errors.Is(err, service.ErrDonorNotFound):
		response.NotFound(c, 20008, "捐赠人不存在")
	default:
		response.InternalError(c)
	}
}
