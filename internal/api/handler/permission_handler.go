package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// PermissionHandler 角色/权限模块 HTTP 处理器
type PermissionHandler struct {
	permSvc service.PermissionService
}

// NewPermissionHandler 创建 PermissionHandler
func NewPermissionHandler(permSvc service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permSvc: permSvc}
}

// RebuildPermissions 按角色矩阵重建组-权限绑定
// POST /api/v1/permissions/rebuild
func (h *PermissionHandler) RebuildPermissions(c *gin.Context) {
	result, err := h.permSvc.RebuildPermissions(c.Request.Context())
	if err != nil {
		h.handlePermissionError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateRoleAssignment 指派角色（可带学院范围）
// POST /api/v1/role-assignments
func (h *PermissionHandler) CreateRoleAssignment(c *gin.Context) {
	var req dto.CreateRoleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.permSvc.CreateRoleAssignment(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePermissionError(c, err)
		return
	}

	response.Created(c, assignment)
}

// ListRoleAssignments 用户角色指派列表
// GET /api/v1/role-assignments?user_id=
func (h *PermissionHandler) ListRoleAssignments(c *gin.Context) {
	assignments, err := h.permSvc.ListRoleAssignments(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.handlePermissionError(c, err)
		return
	}
	response.OK(c, gin.H{"list": assignments})
}

// DeleteRoleAssignment 撤销角色指派
// DELETE /api/v1/role-assignments/:id
func (h *PermissionHandler) DeleteRoleAssignment(c *gin.Context) {
	if err := h.permSvc.DeleteRoleAssignment(c.Request.Context(), c.Param("id")); err != nil {
		h.handlePermissionError(c, err)
		return
	}
	response.OK(c, nil)
}

// handlePermissionError 统一处理权限模块业务错误
func (h *PermissionHandler) handlePermissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoleUnknown):
		response.BadRequest(c, 21001, "未知角色")
	case errors.Is(err, service.ErrRoleModelUnknown):
		response.BadRequest(c, 21002, "未知的模型记号")
	case errors.Is(err, service.ErrTooManyExclusions):
		response.BadRequest(c, 21003, "应用记号最多允许两个排除项")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 21004, "角色指派不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 21005, "用户不存在")
	case errors.Is(err, service.ErrCollegeNotFound):
		response.NotFound(c, 21006, "学院不存在")
	default:
		response.InternalError(c)
	}
}
