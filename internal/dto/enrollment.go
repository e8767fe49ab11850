package dto

// ── 预约/注册 DTO ──

// CreateReservationRequest 单个预约请求
type CreateReservationRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	SectionID string `json:"section_id" binding:"required,uuid"`
}

// BulkReserveRequest 批量预约请求，全部成功或全部失败
type BulkReserveRequest struct {
	StudentID  string   `json:"student_id"  binding:"required,uuid"`
	SectionIDs []string `json:"section_ids" binding:"required,min=1,dive,uuid"`
}

// ReservationResponse 预约响应
type ReservationResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentNo   string `json:"student_no,omitempty"`
	SectionID   string `json:"section_id"`
	SectionCode string `json:"section_code,omitempty"`
	Status      string `json:"status"`
	CreditHours int    `json:"credit_hours"`
	RequestedAt string `json:"requested_at"`
	ValidatedAt string `json:"validated_at,omitempty"`
	Deadline    string `json:"validation_deadline"`
}

// RegistrationResponse 注册响应
type RegistrationResponse struct {
	ID           string `json:"id"`
	StudentID    string `json:"student_id"`
	StudentNo    string `json:"student_no,omitempty"`
	SectionID    string `json:"section_id"`
	SectionCode  string `json:"section_code,omitempty"`
	Status       string `json:"status"`
	RegisteredAt string `json:"registered_at"`
}

// SetRegistrationStatusRequest 推进注册状态
type SetRegistrationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending_payment financially_cleared completed approved"`
}
