package model

import "time"

// 成绩单请求状态
const (
	TranscriptPending    = "pending"
	TranscriptProcessing = "processing"
	TranscriptCompleted  = "completed"
	TranscriptOnHold     = "on_hold"
)

var TranscriptStatusCodes = []string{
	TranscriptPending,
	TranscriptProcessing,
	TranscriptCompleted,
	TranscriptOnHold,
}

// 成绩单交付方式
const (
	DeliveryPickup  = "pickup"
	DeliveryEmail   = "email"
	DeliveryCourier = "courier"
)

var DeliveryMethods = []string{DeliveryPickup, DeliveryEmail, DeliveryCourier}

// 文档归属者种类
const (
	DocumentOwnerStudent = "student"
	DocumentOwnerStaff   = "staff"
	DocumentOwnerDonor   = "donor"
)

var DocumentOwnerKinds = []string{DocumentOwnerStudent, DocumentOwnerStaff, DocumentOwnerDonor}

// Document 上传文档表 — 对应 documents
// OwnerKind+OwnerID 指向学生/职员/捐赠人档案；审核经由状态历史
type Document struct {
	DocumentID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"document_id"`
	OwnerKind    string  `gorm:"type:varchar(10);not null;index:idx_document_owner" json:"owner_kind"`
	OwnerID      string  `gorm:"type:uuid;not null;index:idx_document_owner"       json:"owner_id"`
	TypeCode     string  `gorm:"type:varchar(30);not null"                         json:"type_code"`
	StatusCode   string  `gorm:"type:varchar(30);not null;default:pending"         json:"status_code"`
	Title        string  `gorm:"type:varchar(150);not null"                        json:"title"`
	FilePath     string  `gorm:"type:varchar(255);not null"                        json:"file_path"`
	ContentType  string  `gorm:"type:varchar(80)"                                  json:"content_type"`
	SizeBytes    int64   `gorm:"not null;default:0"                                json:"size_bytes"`
	ReviewedByID *string `gorm:"type:uuid"                                         json:"reviewed_by_id,omitempty"`
	ReviewNote   string  `gorm:"type:varchar(255)"                                 json:"review_note"`
	SoftDeleteModel

	ReviewedBy *Staff `gorm:"foreignKey:ReviewedByID;references:StaffID" json:"reviewed_by,omitempty"`
}

func (Document) TableName() string { return "documents" }

// TranscriptRequest 成绩单申请表 — 对应 transcript_requests
type TranscriptRequest struct {
	TranscriptRequestID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"transcript_request_id"`
	StudentID           string     `gorm:"type:uuid;not null;index"                       json:"student_id"`
	StatusCode          string     `gorm:"type:varchar(30);not null;default:pending"      json:"status_code"`
	DeliveryMethod      string     `gorm:"type:varchar(20);not null;default:pickup"       json:"delivery_method"`
	DestinationName     string     `gorm:"type:varchar(120)"                              json:"destination_name"`
	DestinationEmail    string     `gorm:"type:varchar(120)"                              json:"destination_email"`
	DestinationAddress  string     `gorm:"type:varchar(255)"                              json:"destination_address"`
	Purpose             string     `gorm:"type:varchar(255)"                              json:"purpose"`
	RequestedAt         time.Time  `gorm:"not null"                                       json:"requested_at"`
	ProcessedAt         *time.Time `json:"processed_at,omitempty"`
	HandledByID         *string    `gorm:"type:uuid"                                      json:"handled_by_id,omitempty"`
	BaseModel

	Student   *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	HandledBy *Staff   `gorm:"foreignKey:HandledByID;references:StaffID" json:"handled_by,omitempty"`
}

func (TranscriptRequest) TableName() string { return "transcript_requests" }
