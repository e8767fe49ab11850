package handler

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

// ImporterHandler 批量导入模块 HTTP 处理器
//
// 上传方式: multipart/form-data, field="file"；dry_run=true 时仅试算并回滚
type ImporterHandler struct {
	importerSvc service.ImporterService
}

// NewImporterHandler 创建 ImporterHandler
func NewImporterHandler(importerSvc service.ImporterService) *ImporterHandler {
	return &ImporterHandler{importerSvc: importerSvc}
}

// ImportSchedule 导入排课 CSV
// POST /api/v1/imports/schedule
func (h *ImporterHandler) ImportSchedule(c *gin.Context) {
	h.importUpload(c, h.importerSvc.ImportSchedule)
}

// ImportWorkbook 导入排课工作簿 XLSX
// POST /api/v1/imports/workbook
func (h *ImporterHandler) ImportWorkbook(c *gin.Context) {
	h.importUpload(c, h.importerSvc.ImportWorkbook)
}

// ImportLegacyRegistrations 导入历史注册/成绩 CSV
// POST /api/v1/imports/legacy-registrations
func (h *ImporterHandler) ImportLegacyRegistrations(c *gin.Context) {
	h.importUpload(c, h.importerSvc.ImportLegacyRegistrations)
}

// ImportResources 导入服务端目录下的资源 CSV
// POST /api/v1/imports/resources
func (h *ImporterHandler) ImportResources(c *gin.Context) {
	var req struct {
		Dir    string `json:"dir" binding:"required"`
		DryRun bool   `json:"dry_run"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	summary, err := h.importerSvc.ImportResources(c.Request.Context(), req.Dir, req.DryRun)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, summary)
}

// importUpload 上传落盘为临时文件后交给对应导入方法
func (h *ImporterHandler) importUpload(c *gin.Context, run func(ctx context.Context, path string, dryRun bool) (*dto.ImportSummary, error)) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 22001, "请上传导入文件（field=file）")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		response.InternalError(c)
		return
	}
	defer os.Remove(tmpPath)

	dryRun := c.PostForm("dry_run") == "true"
	summary, err := run(c.Request.Context(), tmpPath, dryRun)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, summary)
}

// handleImportError 统一处理导入模块业务错误
func (h *ImporterHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 22002, "文件无数据行（第一行为表头）")
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 22003, "表头缺少必需列")
	case errors.Is(err, service.ErrImportFileKind):
		response.BadRequest(c, 22004, "不支持的文件类型")
	default:
		response.ErrorWithDetails(c, 400, 22005, "导入失败，整文件已回滚", err.Error())
	}
}
