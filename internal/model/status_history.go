package model

import "time"

// 可追踪状态历史的内容种类（封闭枚举）
const (
	ContentKindCurriculum   = "curriculum"
	ContentKindDocument     = "document"
	ContentKindReservation  = "reservation"
	ContentKindRegistration = "registration"
	ContentKindTranscript   = "transcript_request"
	ContentKindSemester     = "semester"
)

// statusAllowlist 各内容种类允许写入历史的状态码
var statusAllowlist = map[string][]string{
	ContentKindCurriculum:   CurriculumStatusCodes,
	ContentKindDocument:     DocumentStatusCodes,
	ContentKindRegistration: RegistrationStatusCodes,
	ContentKindReservation: {
		ReservationRequested, ReservationValidated, ReservationPaid, ReservationCancelled,
	},
	ContentKindTranscript: TranscriptStatusCodes,
	ContentKindSemester:   SemesterStatusCodes,
}

// StatusAllowed 状态码是否允许写入该内容种类的历史
func StatusAllowed(kind, code string) bool {
	for _, c := range statusAllowlist[kind] {
		if c == code {
			return true
		}
	}
	return false
}

// ContentKinds 全部可追踪的内容种类
func ContentKinds() []string {
	return []string{
		ContentKindCurriculum,
		ContentKindDocument,
		ContentKindReservation,
		ContentKindRegistration,
		ContentKindTranscript,
		ContentKindSemester,
	}
}

// StatusHistory 状态变更历史表 — 对应 status_histories
// 以 (content_kind, object_id) 指向被追踪对象，按 CreatedAt 倒序即审计链
type StatusHistory struct {
	StatusHistoryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"    json:"status_history_id"`
	ContentKind     string    `gorm:"type:varchar(30);not null;index:idx_status_target" json:"content_kind"`
	ObjectID        string    `gorm:"type:uuid;not null;index:idx_status_target"        json:"object_id"`
	Status          string    `gorm:"type:varchar(30);not null"                         json:"status"`
	AuthorID        *string   `gorm:"type:uuid"                                         json:"author_id,omitempty"`
	Note            string    `gorm:"type:varchar(255)"                                 json:"note"`
	CreatedAt       time.Time `gorm:"not null;index"                                    json:"created_at"`

	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

func (StatusHistory) TableName() string { return "status_histories" }
