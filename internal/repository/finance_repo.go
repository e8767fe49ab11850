package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/internal/model"
)

// FinanceRepository 财务数据访问接口（账单、缴费、汇总、奖学金）
type FinanceRepository interface {
	CreateInvoice(ctx context.Context, invoice *model.Invoice) error
	GetInvoice(ctx context.Context, id string) (*model.Invoice, error)
	GetInvoiceByKey(ctx context.Context, studentID, curriculumCourseID, semesterID string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, studentID, semesterID string) ([]model.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice *model.Invoice) error
	DeleteInvoice(ctx context.Context, id string) error
	// SumInvoices 学生在学期内账单应付合计
	SumInvoices(ctx context.Context, studentID, semesterID string) (decimal.Decimal, error)

	CreatePayment(ctx context.Context, payment *model.Payment) error
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	ListPayments(ctx context.Context, invoiceID string) ([]model.Payment, error)
	// SumPayments 学生在学期内已付合计
	SumPayments(ctx context.Context, studentID, semesterID string) (decimal.Decimal, error)

	GetRecord(ctx context.Context, studentID, semesterID string) (*model.FinancialRecord, error)
	GetOrCreateRecord(ctx context.Context, studentID, semesterID string) (*model.FinancialRecord, error)
	UpdateRecord(ctx context.Context, record *model.FinancialRecord) error
	ListRecordsBySemester(ctx context.Context, semesterID string) ([]model.FinancialRecord, error)

	CreateScholarship(ctx context.Context, scholarship *model.Scholarship) error
	GetScholarship(ctx context.Context, id string) (*model.Scholarship, error)
	ListScholarships(ctx context.Context, studentID string) ([]model.Scholarship, error)
	// ActiveScholarships 给定日期生效的奖学金
	ActiveScholarships(ctx context.Context, studentID string, on time.Time) ([]model.Scholarship, error)
	UpdateScholarship(ctx context.Context, scholarship *model.Scholarship) error
	DeleteScholarship(ctx context.Context, id string) error
}

type financeRepo struct {
	db *gorm.DB
}

// NewFinanceRepo 创建 FinanceRepository 实例
func NewFinanceRepo(db *gorm.DB) FinanceRepository {
	return &financeRepo{db: db}
}

func (r *financeRepo) CreateInvoice(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *financeRepo) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Preload("CurriculumCourse").
		Preload("CurriculumCourse.Course").
		Preload("Semester").
		Preload("Scholarship").
		Preload("Payments").
		Where("invoice_id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *financeRepo) GetInvoiceByKey(ctx context.Context, studentID, curriculumCourseID, semesterID string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND curriculum_course_id = ? AND semester_id = ?",
			studentID, curriculumCourseID, semesterID).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *financeRepo) ListInvoices(ctx context.Context, studentID, semesterID string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	db := r.db.WithContext(ctx).
		Preload("CurriculumCourse").
		Preload("CurriculumCourse.Course").
		Preload("Payments").
		Where("student_id = ?", studentID)
	if semesterID != "" {
		db = db.Where("semester_id = ?", semesterID)
	}
	err := db.Order("issued_at").Find(&invoices).Error
	return invoices, err
}

func (r *financeRepo) UpdateInvoice(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *financeRepo) DeleteInvoice(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Delete(&model.Invoice{}).Error
}

func (r *financeRepo) SumInvoices(ctx context.Context, studentID, semesterID string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("student_id = ? AND semester_id = ?", studentID, semesterID).
		Select("SUM(amount_due)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *financeRepo) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *financeRepo) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Preload("Invoice").
		Where("payment_id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *financeRepo) ListPayments(ctx context.Context, invoiceID string) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at").
		Find(&payments).Error
	return payments, err
}

func (r *financeRepo) SumPayments(ctx context.Context, studentID, semesterID string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Joins("JOIN invoices ON invoices.invoice_id = payments.invoice_id").
		Where("invoices.student_id = ? AND invoices.semester_id = ?", studentID, semesterID).
		Select("SUM(payments.amount_paid)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *financeRepo) GetRecord(ctx context.Context, studentID, semesterID string) (*model.FinancialRecord, error) {
	var record model.FinancialRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND semester_id = ?", studentID, semesterID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *financeRepo) GetOrCreateRecord(ctx context.Context, studentID, semesterID string) (*model.FinancialRecord, error) {
	var record model.FinancialRecord
	err := r.db.WithContext(ctx).
		Where(model.FinancialRecord{StudentID: studentID, SemesterID: semesterID}).
		Attrs(model.FinancialRecord{ClearanceCode: model.ClearancePending}).
		FirstOrCreate(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *financeRepo) UpdateRecord(ctx context.Context, record *model.FinancialRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *financeRepo) ListRecordsBySemester(ctx context.Context, semesterID string) ([]model.FinancialRecord, error) {
	var records []model.FinancialRecord
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("semester_id = ?", semesterID).
		Find(&records).Error
	return records, err
}

func (r *financeRepo) CreateScholarship(ctx context.Context, scholarship *model.Scholarship) error {
	return r.db.WithContext(ctx).Create(scholarship).Error
}

func (r *financeRepo) GetScholarship(ctx context.Context, id string) (*model.Scholarship, error) {
	var scholarship model.Scholarship
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Donor").
		Where("scholarship_id = ?", id).
		First(&scholarship).Error
	if err != nil {
		return nil, err
	}
	return &scholarship, nil
}

func (r *financeRepo) ListScholarships(ctx context.Context, studentID string) ([]model.Scholarship, error) {
	var scholarships []model.Scholarship
	err := r.db.WithContext(ctx).
		Preload("Donor").
		Where("student_id = ?", studentID).
		Order("start_date DESC").
		Find(&scholarships).Error
	return scholarships, err
}

func (r *financeRepo) ActiveScholarships(ctx context.Context, studentID string, on time.Time) ([]model.Scholarship, error) {
	var scholarships []model.Scholarship
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			studentID, on, on).
		Find(&scholarships).Error
	return scholarships, err
}

func (r *financeRepo) UpdateScholarship(ctx context.Context, scholarship *model.Scholarship) error {
	return r.db.WithContext(ctx).Save(scholarship).Error
}

func (r *financeRepo) DeleteScholarship(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("scholarship_id = ?", id).
		Delete(&model.Scholarship{}).Error
}
