package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/dto"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/internal/repository"
)

// ── 选课模块业务错误 ──

var (
	ErrReservationNotFound  = errors.New("预约不存在")
	ErrReservationExists    = errors.New("该学生已预约此班次")
	ErrReservationState     = errors.New("预约状态不允许此操作")
	ErrRegistrationNotFound = errors.New("注册记录不存在")
	ErrRegistrationExists   = errors.New("该学生已注册此班次")
	ErrRegistrationStatus   = errors.New("非法的注册状态")
	ErrRegistrationNotPaid  = errors.New("预约未支付，不能转为注册")
	ErrNoSeatsLeft          = errors.New("班次座位已满")
	ErrRegistrationClosed   = errors.New("该学期未开放注册")
)

// CreditLimitError 超出学分上限
type CreditLimitError struct {
	Attempted int
	Limit     int
}

func (e *CreditLimitError) Error() string {
	return fmt.Sprintf("Exceeded credit-hour limit (%d/%d).", e.Attempted, e.Limit)
}

// EnrollmentService 预约/注册流水线业务接口
// 预约 requested -> validated -> paid；paid 后转正式注册
type EnrollmentService interface {
	CreateReservation(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResponse, error)
	ReserveSections(ctx context.Context, req *dto.BulkReserveRequest, callerID string) ([]dto.ReservationResponse, error)
	ValidateReservation(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error)
	PayReservation(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error)
	CancelReservation(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error)
	ListStudentReservations(ctx context.Context, studentID string) ([]dto.ReservationResponse, error)

	// CancelExpired 回收逾期未确认的预约，返回回收条数
	CancelExpired(ctx context.Context, now time.Time) (int, error)

	RegisterFromReservation(ctx context.Context, reservationID, callerID string) (*dto.RegistrationResponse, error)
	SetRegistrationStatus(ctx context.Context, id string, req *dto.SetRegistrationStatusRequest, callerID string) (*dto.RegistrationResponse, error)
	RemoveRegistration(ctx context.Context, id, callerID string) error
	ListStudentRegistrations(ctx context.Context, studentID, semesterID string) ([]dto.RegistrationResponse, error)
}

type enrollmentService struct {
	cfg    *config.Config
	repo   *repository.Repository
	status StatusService
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(cfg *config.Config, repo *repository.Repository, status StatusService, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{cfg: cfg, repo: repo, status: status, logger: logger}
}

// ────────────────────── 预约 ──────────────────────

func (s *enrollmentService) CreateReservation(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResponse, error) {
	var reservation *model.Reservation
	err := s.repo.Transaction(func(txRepo *repository.Repository) error {
		var err error
		reservation, err = s.createOne(ctx, txRepo, req.StudentID, req.SectionID, callerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toReservationResponse(reservation), nil
}

// ReserveSections 批量预约：任一失败整体回滚
func (s *enrollmentService) ReserveSections(ctx context.Context, req *dto.BulkReserveRequest, callerID string) ([]dto.ReservationResponse, error) {
	var created []*model.Reservation
	err := s.repo.Transaction(func(txRepo *repository.Repository) error {
		for _, sectionID := range req.SectionIDs {
			reservation, err := s.createOne(ctx, txRepo, req.StudentID, sectionID, callerID)
			if err != nil {
				return err
			}
			created = append(created, reservation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]dto.ReservationResponse, 0, len(created))
	for _, r := range created {
		result = append(result, *toReservationResponse(r))
	}
	return result, nil
}

// createOne 单条预约的共用路径：开放期校验、座位校验、查重、学分上限、快照学分
func (s *enrollmentService) createOne(ctx context.Context, txRepo *repository.Repository, studentID, sectionID, callerID string) (*model.Reservation, error) {
	student, err := txRepo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	section, err := txRepo.Section.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	if section.Semester == nil || !section.Semester.IsRegistrationOpen() {
		return nil, ErrRegistrationClosed
	}
	if section.SeatsLeft() <= 0 {
		return nil, ErrNoSeatsLeft
	}

	if _, err := txRepo.Reservation.GetByStudentAndSection(ctx, studentID, sectionID); err == nil {
		return nil, ErrReservationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	credits := 0
	if section.Course != nil {
		credits = section.Course.CreditHours
	}

	active, err := txRepo.Reservation.ActiveCreditHours(ctx, studentID, section.SemesterID)
	if err != nil {
		return nil, err
	}
	limit := s.cfg.Registry.MaxStudentCredits
	if limit <= 0 {
		limit = model.MaxStudentCredits
	}
	if active+credits > limit {
		return nil, &CreditLimitError{Attempted: active + credits, Limit: limit}
	}

	now := time.Now()
	reservation := &model.Reservation{
		StudentID:          student.StudentID,
		SectionID:          section.SectionID,
		Status:             model.ReservationRequested,
		CreditHours:        credits,
		RequestedAt:        now,
		ValidationDeadline: now.Add(s.cfg.Registry.ReservationTTL),
	}
	reservation.CreatedBy = &callerID
	reservation.UpdatedBy = &callerID

	if err := txRepo.Reservation.Create(ctx, reservation); err != nil {
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, err
	}
	if err := s.status.Append(ctx, txRepo, model.ContentKindReservation,
		reservation.ReservationID, model.ReservationRequested, callerID, ""); err != nil {
		return nil, err
	}
	reservation.Student = student
	reservation.Section = section
	return reservation, nil
}

// ValidateReservation requested -> validated，占座失败则整体回退
func (s *enrollmentService) ValidateReservation(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		moved, err := txRepo.Reservation.UpdateStatusIf(ctx, id, model.ReservationRequested, model.ReservationValidated)
		if err != nil {
			return err
		}
		if !moved {
			return ErrReservationState
		}

		taken, err := txRepo.Section.IncrementSeats(ctx, reservation.SectionID)
		if err != nil {
			return err
		}
		if !taken {
			return ErrNoSeatsLeft
		}

		now := time.Now()
		reservation.Status = model.ReservationValidated
		reservation.ValidatedAt = &now
		reservation.UpdatedBy = &callerID
		if err := txRepo.Reservation.Update(ctx, reservation); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindReservation,
			reservation.ReservationID, model.ReservationValidated, callerID, "")
	})
	if err != nil {
		if !errors.Is(err, ErrReservationState) && !errors.Is(err, ErrNoSeatsLeft) {
			s.logger.Error("确认预约失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return toReservationResponse(reservation), nil
}

// PayReservation validated -> paid，同一事务内落缴费记录并累计学期已付
func (s *enrollmentService) PayReservation(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		moved, err := txRepo.Reservation.UpdateStatusIf(ctx, id, model.ReservationValidated, model.ReservationPaid)
		if err != nil {
			return err
		}
		if !moved {
			return ErrReservationState
		}

		section, err := txRepo.Section.GetByID(ctx, reservation.SectionID)
		if err != nil {
			return err
		}
		feeTotal := s.cfg.Registry.TuitionRate().Mul(decimal.NewFromInt(int64(reservation.CreditHours)))
		fees, err := txRepo.Section.ListFees(ctx, reservation.SectionID)
		if err != nil {
			return err
		}
		for i := range fees {
			feeTotal = feeTotal.Add(fees[i].Amount)
		}

		// 方式默认现金，出纳补录时可在缴费接口改写
		payment := &model.Payment{
			ReservationID: &reservation.ReservationID,
			AmountPaid:    feeTotal,
			MethodCode:    model.PaymentCash,
			Reference:     section.LongCode(),
			PaidAt:        time.Now(),
		}
		payment.CreatedBy = &callerID
		payment.UpdatedBy = &callerID
		if err := txRepo.Finance.CreatePayment(ctx, payment); err != nil {
			return err
		}

		record, err := txRepo.Finance.GetOrCreateRecord(ctx, reservation.StudentID, section.SemesterID)
		if err != nil {
			return err
		}
		record.TotalPaid = record.TotalPaid.Add(feeTotal)
		if record.ClearanceCode != model.ClearanceBlocked && record.TotalPaid.GreaterThanOrEqual(record.TotalDue) {
			record.ClearanceCode = model.ClearanceCleared
		}
		record.UpdatedBy = &callerID
		if err := txRepo.Finance.UpdateRecord(ctx, record); err != nil {
			return err
		}

		reservation.Status = model.ReservationPaid
		return s.status.Append(ctx, txRepo, model.ContentKindReservation,
			reservation.ReservationID, model.ReservationPaid, callerID, "")
	})
	if err != nil {
		if !errors.Is(err, ErrReservationState) {
			s.logger.Error("预约缴费失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return toReservationResponse(reservation), nil
}

// CancelReservation 任何未取消态均可取消；曾占座则释放
func (s *enrollmentService) CancelReservation(ctx context.Context, id, callerID string) (*dto.ReservationResponse, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == model.ReservationCancelled {
		return nil, ErrReservationState
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if reservation.HoldsSeat() {
			if err := txRepo.Section.DecrementSeats(ctx, reservation.SectionID); err != nil {
				return err
			}
		}
		reservation.Status = model.ReservationCancelled
		reservation.UpdatedBy = &callerID
		if err := txRepo.Reservation.Update(ctx, reservation); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindReservation,
			reservation.ReservationID, model.ReservationCancelled, callerID, "")
	})
	if err != nil {
		s.logger.Error("取消预约失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toReservationResponse(reservation), nil
}

func (s *enrollmentService) ListStudentReservations(ctx context.Context, studentID string) ([]dto.ReservationResponse, error) {
	reservations, err := s.repo.Reservation.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出预约失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		result = append(result, *toReservationResponse(&reservations[i]))
	}
	return result, nil
}

// CancelExpired 定时任务入口：逾期 requested 预约批量置为 cancelled
func (s *enrollmentService) CancelExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.repo.Reservation.ListExpiredRequested(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range expired {
		reservation := &expired[i]
		err := s.repo.Transaction(func(txRepo *repository.Repository) error {
			moved, err := txRepo.Reservation.UpdateStatusIf(ctx, reservation.ReservationID,
				model.ReservationRequested, model.ReservationCancelled)
			if err != nil {
				return err
			}
			if !moved {
				return nil
			}
			count++
			return s.status.Append(ctx, txRepo, model.ContentKindReservation,
				reservation.ReservationID, model.ReservationCancelled, "", "过期自动取消")
		})
		// 单条失败只记日志，不中断整批回收
		if err != nil {
			s.logger.Error("回收过期预约失败",
				zap.String("reservation_id", reservation.ReservationID), zap.Error(err))
			continue
		}
	}
	if count > 0 {
		s.logger.Info("回收过期预约", zap.Int("count", count))
	}
	return count, nil
}

// ────────────────────── 注册 ──────────────────────

// RegisterFromReservation 已支付预约转正式注册；首注时盖首次入学日期
func (s *enrollmentService) RegisterFromReservation(ctx context.Context, reservationID, callerID string) (*dto.RegistrationResponse, error) {
	reservation, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != model.ReservationPaid {
		return nil, ErrRegistrationNotPaid
	}

	if _, err := s.repo.Registration.GetByStudentAndSection(ctx, reservation.StudentID, reservation.SectionID); err == nil {
		return nil, ErrRegistrationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	registration := &model.Registration{
		StudentID:    reservation.StudentID,
		SectionID:    reservation.SectionID,
		StatusCode:   model.RegistrationCompleted,
		RegisteredAt: time.Now(),
	}
	registration.CreatedBy = &callerID
	registration.UpdatedBy = &callerID

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := txRepo.Registration.Create(ctx, registration); err != nil {
			return err
		}
		if err := s.status.Append(ctx, txRepo, model.ContentKindRegistration,
			registration.RegistrationID, model.RegistrationCompleted, callerID, ""); err != nil {
			return err
		}

		student, err := txRepo.Student.GetByID(ctx, reservation.StudentID)
		if err != nil {
			return err
		}
		if student.FirstEnrollmentDate == nil {
			today := time.Now()
			student.FirstEnrollmentDate = &today
			if err := txRepo.Student.Update(ctx, student); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("预约转注册失败", zap.String("reservation_id", reservationID), zap.Error(err))
		return nil, err
	}
	registration.Student = reservation.Student
	registration.Section = reservation.Section
	return toRegistrationResponse(registration), nil
}

func (s *enrollmentService) SetRegistrationStatus(ctx context.Context, id string, req *dto.SetRegistrationStatusRequest, callerID string) (*dto.RegistrationResponse, error) {
	if !model.StatusAllowed(model.ContentKindRegistration, req.Status) {
		return nil, ErrRegistrationStatus
	}

	registration, err := s.repo.Registration.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		registration.StatusCode = req.Status
		registration.UpdatedBy = &callerID
		if err := txRepo.Registration.Update(ctx, registration); err != nil {
			return err
		}
		return s.status.Append(ctx, txRepo, model.ContentKindRegistration,
			registration.RegistrationID, req.Status, callerID, "")
	})
	if err != nil {
		s.logger.Error("推进注册状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toRegistrationResponse(registration), nil
}

// RemoveRegistration 删除前写 remove 墓碑；占座的关联预约同步取消并释放座位
func (s *enrollmentService) RemoveRegistration(ctx context.Context, id, callerID string) error {
	registration, err := s.repo.Registration.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}

	err = s.repo.Transaction(func(txRepo *repository.Repository) error {
		if err := s.status.Append(ctx, txRepo, model.ContentKindRegistration,
			registration.RegistrationID, model.RegistrationRemove, callerID, ""); err != nil {
			return err
		}

		// 座位计数跟随预约：仍占座的预约一并取消，座位随之释放
		reservation, err := txRepo.Reservation.GetByStudentAndSection(ctx, registration.StudentID, registration.SectionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && reservation.HoldsSeat() {
			reservation.Status = model.ReservationCancelled
			reservation.UpdatedBy = &callerID
			if err := txRepo.Reservation.Update(ctx, reservation); err != nil {
				return err
			}
			if err := s.status.Append(ctx, txRepo, model.ContentKindReservation,
				reservation.ReservationID, model.ReservationCancelled, callerID, "注册删除联动取消"); err != nil {
				return err
			}
			if err := txRepo.Section.DecrementSeats(ctx, registration.SectionID); err != nil {
				return err
			}
		}
		return txRepo.Registration.Delete(ctx, registration.RegistrationID)
	})
	if err != nil {
		s.logger.Error("删除注册失败", zap.String("id", id), zap.Error(err))
	}
	return err
}

func (s *enrollmentService) ListStudentRegistrations(ctx context.Context, studentID, semesterID string) ([]dto.RegistrationResponse, error) {
	var (
		registrations []model.Registration
		err           error
	)
	if semesterID != "" {
		registrations, err = s.repo.Registration.ListByStudentAndSemester(ctx, studentID, semesterID)
	} else {
		registrations, err = s.repo.Registration.ListByStudent(ctx, studentID)
	}
	if err != nil {
		s.logger.Error("列出注册失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RegistrationResponse, 0, len(registrations))
	for i := range registrations {
		result = append(result, *toRegistrationResponse(&registrations[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *enrollmentService) getReservation(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return reservation, nil
}

func toReservationResponse(r *model.Reservation) *dto.ReservationResponse {
	resp := &dto.ReservationResponse{
		ID:          r.ReservationID,
		StudentID:   r.StudentID,
		SectionID:   r.SectionID,
		Status:      r.Status,
		CreditHours: r.CreditHours,
		RequestedAt: r.RequestedAt.Format(time.RFC3339),
		Deadline:    r.ValidationDeadline.Format(time.RFC3339),
	}
	if r.ValidatedAt != nil {
		resp.ValidatedAt = r.ValidatedAt.Format(time.RFC3339)
	}
	if r.Student != nil {
		resp.StudentNo = r.Student.StudentNo
	}
	if r.Section != nil {
		resp.SectionCode = r.Section.LongCode()
	}
	return resp
}

func toRegistrationResponse(r *model.Registration) *dto.RegistrationResponse {
	resp := &dto.RegistrationResponse{
		ID:           r.RegistrationID,
		StudentID:    r.StudentID,
		SectionID:    r.SectionID,
		Status:       r.StatusCode,
		RegisteredAt: r.RegisteredAt.Format(time.RFC3339),
	}
	if r.Student != nil {
		resp.StudentNo = r.Student.StudentNo
	}
	if r.Section != nil {
		resp.SectionCode = r.Section.LongCode()
	}
	return resp
}
