package model

// 小型状态/类别查找表，行有限且由管理命令装载

// RegistrationStatus 注册状态表 — 对应 status_registrations
type RegistrationStatus struct{ Lookup }

func (RegistrationStatus) TableName() string { return "status_registrations" }

// DocumentStatus 文档审核状态表 — 对应 status_documents
type DocumentStatus struct{ Lookup }

func (DocumentStatus) TableName() string { return "status_documents" }

// SemesterStatus 学期状态表 — 对应 semester_statuses
type SemesterStatus struct{ Lookup }

func (SemesterStatus) TableName() string { return "semester_statuses" }

// PaymentMethod 支付方式表 — 对应 payment_methods
type PaymentMethod struct{ Lookup }

func (PaymentMethod) TableName() string { return "payment_methods" }

// ClearanceStatus 财务清算状态表 — 对应 clearance_statuses
type ClearanceStatus struct{ Lookup }

func (ClearanceStatus) TableName() string { return "clearance_statuses" }

// FeeType 费用类型表 — 对应 fee_types
type FeeType struct{ Lookup }

func (FeeType) TableName() string { return "fee_types" }

// DocumentTypeLookup 文档类别表 — 对应 document_types
type DocumentTypeLookup struct{ Lookup }

func (DocumentTypeLookup) TableName() string { return "document_types" }

// 注册状态码
var RegistrationStatusCodes = []string{
	RegistrationPendingPayment,
	RegistrationFinanciallyCleared,
	RegistrationCompleted,
	RegistrationApproved,
	RegistrationRemove,
}

// 文档审核状态码
const (
	DocumentPending             = "pending"
	DocumentApproved            = "approved"
	DocumentAdjustmentsRequired = "adjustments_required"
	DocumentRejected            = "rejected"
)

var DocumentStatusCodes = []string{
	DocumentPending,
	DocumentApproved,
	DocumentAdjustmentsRequired,
	DocumentRejected,
}

// 学期状态码
var SemesterStatusCodes = []string{
	SemesterStatusPlanning,
	SemesterStatusRegistration,
	SemesterStatusLocked,
}

// 支付方式码
const (
	PaymentCash        = "cash"
	PaymentCryptoADA   = "crypto_ada"
	PaymentMobileMoney = "mobile_money"
	PaymentWire        = "wire"
)

var PaymentMethodCodes = []string{
	PaymentCash,
	PaymentCryptoADA,
	PaymentMobileMoney,
	PaymentWire,
}

// 财务清算状态码
const (
	ClearancePending = "pending"
	ClearanceCleared = "cleared"
	ClearanceBlocked = "blocked"
)

var ClearanceStatusCodes = []string{
	ClearancePending,
	ClearanceCleared,
	ClearanceBlocked,
}

// 费用类型码
const (
	FeeTuition       = "tuition"
	FeeResearch      = "research"
	FeeOther         = "other"
	FeeLab           = "lab"
	FeeCreditHourFee = "credit_hour_fee"
)

var FeeTypeCodes = []string{
	FeeTuition,
	FeeResearch,
	FeeOther,
	FeeLab,
	FeeCreditHourFee,
}

// 文档类别码
const (
	DocTypeWAEC       = "waec"
	DocTypeBill       = "bill"
	DocTypeTranscript = "transcript"
	DocTypePublic     = "public"
)

var DocumentTypeCodes = []string{
	DocTypeWAEC,
	DocTypeBill,
	DocTypeTranscript,
	DocTypePublic,
}
