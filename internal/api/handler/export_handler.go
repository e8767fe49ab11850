package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/maliky/tuth-sub000/internal/service"
	"github.com/maliky/tuth-sub000/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出班次名单
// GET /api/v1/export/roster?section_id=xxx
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	sectionID := c.Query("section_id")
	if sectionID == "" {
		response.BadRequest(c, 10001, "section_id 不能为空")
		return
	}

	data, filename, err := h.exportSvc.RosterXLSX(c.Request.Context(), sectionID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, data, filename, xlsxContentType)
}

// ExportTimetable 导出学生周课表
// GET /api/v1/export/timetable?student_id=xxx&semester_id=xxx
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	studentID := c.Query("student_id")
	semesterID := c.Query("semester_id")
	if studentID == "" || semesterID == "" {
		response.BadRequest(c, 10001, "student_id 与 semester_id 不能为空")
		return
	}

	data, filename, err := h.exportSvc.TimetableICS(c.Request.Context(), studentID, semesterID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, data, filename, icsContentType)
}

// writeDownload 设置下载响应头并回写文件内容
func writeDownload(c *gin.Context, data []byte, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
	c.Data(http.StatusOK, contentType, data)
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportSectionNotFound):
		response.NotFound(c, 23001, "班次不存在")
	case errors.Is(err, service.ErrExportStudentNotFound):
		response.NotFound(c, 23002, "学生不存在")
	case errors.Is(err, service.ErrExportSemesterNotFound):
		response.NotFound(c, 23003, "学期不存在")
	default:
		response.InternalError(c)
	}
}
