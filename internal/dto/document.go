package dto

// ── 文档/成绩单申请 DTO ──

// CreateDocumentRequest 登记文档元数据请求；文件本体经 multipart 上传
type CreateDocumentRequest struct {
	OwnerKind   string `json:"owner_kind" binding:"required,oneof=student staff donor"`
	OwnerID     string `json:"owner_id"   binding:"required,uuid"`
	Type        string `json:"type"       binding:"required,oneof=waec bill transcript public"`
	Title       string `json:"title"      binding:"required,max=150"`
	FilePath    string `json:"file_path"  binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"omitempty,max=80"`
	SizeBytes   int64  `json:"size_bytes" binding:"omitempty,min=0"`
}

// ReviewDocumentRequest 审核文档请求
type ReviewDocumentRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved adjustments_required rejected"`
	Note   string `json:"note"   binding:"omitempty,max=255"`
}

// DocumentResponse 文档响应
type DocumentResponse struct {
	ID        string `json:"id"`
	OwnerKind string `json:"owner_kind"`
	OwnerID   string `json:"owner_id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Title     string `json:"title"`
	FilePath  string `json:"file_path"`
	SizeBytes int64  `json:"size_bytes"`
	CreatedAt string `json:"created_at"`
}

// CreateTranscriptRequestRequest 提交成绩单申请
type CreateTranscriptRequestRequest struct {
	StudentID          string `json:"student_id"          binding:"required,uuid"`
	DeliveryMethod     string `json:"delivery_method"     binding:"required,oneof=pickup email courier"`
	DestinationName    string `json:"destination_name"    binding:"omitempty,max=120"`
	DestinationEmail   string `json:"destination_email"   binding:"omitempty,email"`
	DestinationAddress string `json:"destination_address" binding:"omitempty,max=255"`
	Purpose            string `json:"purpose"             binding:"omitempty,max=255"`
}

// SetTranscriptStatusRequest 推进成绩单申请状态
type SetTranscriptStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed on_hold"`
	Note   string `json:"note"   binding:"omitempty,max=255"`
}

// TranscriptRequestResponse 成绩单申请响应
type TranscriptRequestResponse struct {
	ID                 string `json:"id"`
	StudentID          string `json:"student_id"`
	StudentNo          string `json:"student_no,omitempty"`
	Status             string `json:"status"`
	DeliveryMethod     string `json:"delivery_method"`
	DestinationName    string `json:"destination_name,omitempty"`
	DestinationEmail   string `json:"destination_email,omitempty"`
	DestinationAddress string `json:"destination_address,omitempty"`
	Purpose            string `json:"purpose,omitempty"`
	RequestedAt        string `json:"requested_at"`
	ProcessedAt        string `json:"processed_at,omitempty"`
}

// StatusHistoryResponse 状态历史条目响应
type StatusHistoryResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Author    string `json:"author,omitempty"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}
