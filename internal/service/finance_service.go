package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 财务模块业务错误 ──

var (
	ErrInvoiceNotFound     = errors.New("账单不存在")
	ErrInvoiceExists       = errors.New("该课程本学期已开立账单")
	ErrPaymentAmountIll    = errors.New("缴费金额非法")
	ErrPaymentOverpay      = errors.New("缴费金额超出账单余额")
	ErrScholarshipNotFound = errors.New("奖学金不存在")
	ErrScholarshipExpired  = errors.New("奖学金不在生效期内")
	ErrRecordNotFound      = errors.New("财务汇总不存在")
	ErrClearanceIll        = errors.New("非法的清算状态")
	ErrAmountInvalid       = errors.New("金额格式非法")
	ErrFeeNotFound         = errors.New("附加费不存在")
)

// FinanceService 账单/缴费/清算/奖学金业务接口
// 账单金额 = 有效学分 × 每学分费率，奖学金在开立时抵扣
type FinanceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest, recordedByID, callerID string) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, studentID, semesterID string) ([]dto.InvoiceResponse, error)

	CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest, recordedByID, callerID string) (*dto.PaymentResponse, error)

	GetRecord(ctx context.Context, studentID, semesterID string) (*dto.FinancialRecordResponse, error)
	SetClearance(ctx context.Context, studentID, semesterID string, req *dto.SetClearanceRequest, callerID string) (*dto.FinancialRecordResponse, error)

	CreateScholarship(ctx context.Context, req *dto.CreateScholarshipRequest, callerID string) (*dto.ScholarshipResponse, error)
	ListScholarships(ctx context.Context, studentID string) ([]dto.ScholarshipResponse, error)

	AddSectionFee(ctx context.Context, sectionID string, req *dto.CreateSectionFeeRequest, callerID string) (*dto.SectionFeeResponse, error)
	RemoveSectionFee(ctx context.Context, feeID string) error

	// QuoteEnrollmentFee 班次费用试算：学费 + 附加费
	QuoteEnrollmentFee(ctx context.Context, sectionID string) (*dto.EnrollmentFeeResponse, error)
}

type financeService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFinanceService 创建 FinanceService 实例
func NewFinanceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) FinanceService {
	return &financeService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── 账单 ──────────────────────

func (s *financeService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest, recordedByID, callerID string) (*dto.InvoiceResponse, error) {
	if _, err := s.repo.Finance.GetInvoiceByKey(ctx, req.StudentID, req.CurriculumCourseID, req.SemesterID); err == nil {
		return nil, ErrInvoiceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry, err := s.repo.Curriculum.GetCourseEntry(ctx, req.CurriculumCourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	amount := s.cfg.Registry.TuitionRate().Mul(decimal.NewFromInt(int64(entry.EffectiveCreditHours())))

	var scholarship *model.Scholarship
	if req.ScholarshipID != "" {
		scholarship, err = s.repo.Finance.GetScholarship(ctx, req.ScholarshipID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrScholarshipNotFound
			}
			return nil, err
		}
		if !scholarship.ActiveOn(time.Now()) {
			return nil, ErrScholarshipExpired
		}
		amount = amount.Sub(scholarship.Amount)
		if amount.IsNegative() {
			amount = decimal.Zero
		}
	}

	invoice := &model.Invoice{
		StudentID:          req.StudentID,
		CurriculumCourseID: req.CurriculumCourseID,
		SemesterID:         req.SemesterID,
		AmountDue:          amount,
		IssuedAt:           time.Now(),
	}
	if req.ScholarshipID != "" {
		invoice.ScholarshipID = &req.ScholarshipID
	}
	if recordedByID != "" {
		invoice.RecordedByID = &recordedByID
	}
	invoice.CreatedBy = &callerID
	invoice.UpdatedBy = &callerID

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Finance.CreateInvoice(ctx, invoice); err != nil {
			return err
		}
		return s.reconcile(ctx, txRepo, req.StudentID, req.SemesterID)
	})
	if err != nil {
		s.logger.Error("开立账单失败", zap.Error(err))
		return nil, err
	}
	invoice.CurriculumCourse = entry
	invoice.Scholarship = scholarship
	return toInvoiceResponse(invoice), nil
}

func (s *financeService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	invoice, err := s.repo.Finance.GetInvoice(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return toInvoiceResponse(invoice), nil
}

func (s *financeService) ListInvoices(ctx context.Context, studentID, semesterID string) ([]dto.InvoiceResponse, error) {
	invoices, err := s.repo.Finance.ListInvoices(ctx, studentID, semesterID)
	if err != nil {
		s.logger.Error("列出账单失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		result = append(result, *toInvoiceResponse(&invoices[i]))
	}
	return result, nil
}

// ────────────────────── 缴费 ──────────────────────

// CreatePayment 入账并在同一事务内刷新学期汇总
func (s *financeService) CreatePayment(ctx context.Context, req *dto.CreatePaymentRequest, recordedByID, callerID string) (*dto.PaymentResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, ErrAmountInvalid
	}
	if !amount.IsPositive() {
		return nil, ErrPaymentAmountIll
	}

	invoice, err := s.repo.Finance.GetInvoice(ctx, req.InvoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if amount.GreaterThan(invoice.Balance()) {
		return nil, ErrPaymentOverpay
	}

	payment := &model.Payment{
		InvoiceID:  &invoice.InvoiceID,
		AmountPaid: amount,
		MethodCode: req.Method,
		Reference:  req.Reference,
		PaidAt:     time.Now(),
	}
	if recordedByID != "" {
		payment.RecordedByID = &recordedByID
	}
	payment.CreatedBy = &callerID
	payment.UpdatedBy = &callerID

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Finance.CreatePayment(ctx, payment); err != nil {
			return err
		}
		return s.reconcile(ctx, txRepo, invoice.StudentID, invoice.SemesterID)
	})
	if err != nil {
		s.logger.Error("缴费入账失败", zap.Error(err))
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// ────────────────────── 学期汇总 ──────────────────────

func (s *financeService) GetRecord(ctx context.Context, studentID, semesterID string) (*dto.FinancialRecordResponse, error) {
	record, err := s.repo.Finance.GetRecord(ctx, studentID, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return toRecordResponse(record), nil
}

// SetClearance 人工改写清算状态（如挂账冻结），绕过自动对账
func (s *financeService) SetClearance(ctx context.Context, studentID, semesterID string, req *dto.SetClearanceRequest, callerID string) (*dto.FinancialRecordResponse, error) {
	switch req.Clearance {
	case model.ClearancePending, model.ClearanceCleared, model.ClearanceBlocked:
	default:
		return nil, ErrClearanceIll
	}

	record, err := s.repo.Finance.GetOrCreateRecord(ctx, studentID, semesterID)
	if err != nil {
		return nil, err
	}

	record.ClearanceCode = req.Clearance
	if req.Note != "" {
		record.Note = req.Note
	}
	record.UpdatedBy = &callerID
	if err := s.repo.Finance.UpdateRecord(ctx, record); err != nil {
		s.logger.Error("改写清算状态失败", zap.Error(err))
		return nil, err
	}
	return toRecordResponse(record), nil
}

// reconcile 重算学期应付/已付并按余额推导清算状态；blocked 人工态不回改
func (s *financeService) reconcile(ctx context.Context, txRepo *repository.Repository, studentID, semesterID string) error {
	record, err := txRepo.Finance.GetOrCreateRecord(ctx, studentID, semesterID)
	if err != nil {
		return err
	}

	due, err := txRepo.Finance.SumInvoices(ctx, studentID, semesterID)
	if err != nil {
		return err
	}
	paid, err := txRepo.Finance.SumPayments(ctx, studentID, semesterID)
	if err != nil {
		return err
	}

	record.TotalDue = due
	record.TotalPaid = paid
	if record.ClearanceCode != model.ClearanceBlocked {
		if paid.GreaterThanOrEqual(due) {
			record.ClearanceCode = model.ClearanceCleared
		} else {
			record.ClearanceCode = model.ClearancePending
		}
	}
	return txRepo.Finance.UpdateRecord(ctx, record)
}

// ────────────────────── 奖学金 ──────────────────────

func (s *financeService) CreateScholarship(ctx context.Context, req *dto.CreateScholarshipRequest, callerID string) (*dto.ScholarshipResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrAmountInvalid
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrDateInvalid
	}

	scholarship := &model.Scholarship{
		StudentID:  req.StudentID,
		Name:       req.Name,
		Amount:     amount,
		Conditions: req.Conditions,
		StartDate:  start,
	}
	if req.DonorID != "" {
		scholarship.DonorID = &req.DonorID
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, ErrDateInvalid
		}
		scholarship.EndDate = &end
	}
	scholarship.CreatedBy = &callerID
	scholarship.UpdatedBy = &callerID

	if err := s.repo.Finance.CreateScholarship(ctx, scholarship); err != nil {
		s.logger.Error("设立奖学金失败", zap.Error(err))
		return nil, err
	}
	return toScholarshipResponse(scholarship), nil
}

func (s *financeService) ListScholarships(ctx context.Context, studentID string) ([]dto.ScholarshipResponse, error) {
	scholarships, err := s.repo.Finance.ListScholarships(ctx, studentID)
	if err != nil {
		s.logger.Error("列出奖学金失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ScholarshipResponse, 0, len(scholarships))
	for i := range scholarships {
		result = append(result, *toScholarshipResponse(&scholarships[i]))
	}
	return result, nil
}

// ────────────────────── 班次附加费 ──────────────────────

func (s *financeService) AddSectionFee(ctx context.Context, sectionID string, req *dto.CreateSectionFeeRequest, callerID string) (*dto.SectionFeeResponse, error) {
	if _, err := s.repo.Section.GetByID(ctx, sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return nil, ErrAmountInvalid
	}

	fee := &model.SectionFee{
		SectionID:   sectionID,
		FeeTypeCode: req.FeeType,
		Amount:      amount,
		Description: req.Description,
	}
	fee.CreatedBy = &callerID
	fee.UpdatedBy = &callerID

	if err := s.repo.Section.CreateFee(ctx, fee); err != nil {
		s.logger.Error("设置附加费失败", zap.Error(err))
		return nil, err
	}
	return toSectionFeeResponse(fee), nil
}

func (s *financeService) RemoveSectionFee(ctx context.Context, feeID string) error {
	return s.repo.Section.DeleteFee(ctx, feeID)
}

func (s *financeService) QuoteEnrollmentFee(ctx context.Context, sectionID string) (*dto.EnrollmentFeeResponse, error) {
	section, err := s.repo.Section.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	credits := 0
	if section.Course != nil {
		credits = section.Course.CreditHours
	}
	tuition := s.cfg.Registry.TuitionRate().Mul(decimal.NewFromInt(int64(credits)))
	total := tuition

	fees, err := s.repo.Section.ListFees(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	resp := &dto.EnrollmentFeeResponse{
		SectionCode: section.LongCode(),
		CreditHours: credits,
		Tuition:     tuition.StringFixed(2),
	}
	for i := range fees {
		resp.Fees = append(resp.Fees, *toSectionFeeResponse(&fees[i]))
		total = total.Add(fees[i].Amount)
	}
	resp.Total = total.StringFixed(2)
	return resp, nil
}

// ── 内部辅助方法 ──

func toInvoiceResponse(invoice *model.Invoice) *dto.InvoiceResponse {
	paid := invoice.Paid()
	resp := &dto.InvoiceResponse{
		ID:         invoice.InvoiceID,
		StudentID:  invoice.StudentID,
		SemesterID: invoice.SemesterID,
		AmountDue:  invoice.AmountDue.StringFixed(2),
		AmountPaid: paid.StringFixed(2),
		Balance:    invoice.AmountDue.Sub(paid).StringFixed(2),
		IssuedAt:   invoice.IssuedAt.Format(time.RFC3339),
	}
	if invoice.CurriculumCourse != nil && invoice.CurriculumCourse.Course != nil {
		resp.CourseCode = invoice.CurriculumCourse.Course.ShortCode()
	}
	if invoice.Scholarship != nil {
		resp.Scholarship = invoice.Scholarship.Name
	}
	return resp
}

func toPaymentResponse(payment *model.Payment) *dto.PaymentResponse {
	resp := &dto.PaymentResponse{
		ID:        payment.PaymentID,
		Amount:    payment.AmountPaid.StringFixed(2),
		Method:    payment.MethodCode,
		Reference: payment.Reference,
		PaidAt:    payment.PaidAt.Format(time.RFC3339),
	}
	if payment.InvoiceID != nil {
		resp.InvoiceID = *payment.InvoiceID
	}
	if payment.ReservationID != nil {
		resp.ReservationID = *payment.ReservationID
	}
	return resp
}

func toRecordResponse(record *model.FinancialRecord) *dto.FinancialRecordResponse {
	resp := &dto.FinancialRecordResponse{
		ID:         record.FinancialRecordID,
		StudentID:  record.StudentID,
		SemesterID: record.SemesterID,
		TotalDue:   record.TotalDue.StringFixed(2),
		TotalPaid:  record.TotalPaid.StringFixed(2),
		Balance:    record.Balance().StringFixed(2),
		Clearance:  record.ClearanceCode,
		Note:       record.Note,
	}
	if record.Student != nil {
		resp.StudentNo = record.Student.StudentNo
	}
	return resp
}

func toScholarshipResponse(scholarship *model.Scholarship) *dto.ScholarshipResponse {
	resp := &dto.ScholarshipResponse{
		ID:        scholarship.ScholarshipID,
		StudentID: scholarship.StudentID,
		Name:      scholarship.Name,
		Amount:    scholarship.Amount.StringFixed(2),
		StartDate: scholarship.StartDate.Format("2006-01-02"),
	}
	if scholarship.EndDate != nil {
		resp.EndDate = scholarship.EndDate.Format("2006-01-02")
	}
	if scholarship.Donor != nil {
		resp.Donor = scholarship.Donor.LongName()
	}
	return resp
}

func toSectionFeeResponse(fee *model.SectionFee) *dto.SectionFeeResponse {
	return &dto.SectionFeeResponse{
		ID:          fee.SectionFeeID,
		SectionID:   fee.SectionID,
		FeeType:     fee.FeeTypeCode,
		Amount:      fee.Amount.StringFixed(2),
		Description: fee.Description,
	}
}
