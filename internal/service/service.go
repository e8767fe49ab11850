package service

import (
	"go.uber.org/zap"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/repository"
	"github.com/maliky/tuth-sub000/pkg/jwt"
	"github.com/maliky/tuth-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Status     StatusService
	Calendar   CalendarService
	Catalog    CatalogService
	Spaces     SpacesService
	People     PeopleService
	Offering   OfferingService
	Enrollment EnrollmentService
	Grade      GradeService
	Finance    FinanceService
	Document   DocumentService
	Permission PermissionService
	Importer   ImporterService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	logger *zap.Logger,
) *Service {
	status := NewStatusService(repo, logger)
	spaces := NewSpacesService(repo, logger)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, cache, logger),
		Status:     status,
		Calendar:   NewCalendarService(repo, status, cache, logger),
		Catalog:    NewCatalogService(cfg, repo, status, logger),
		Spaces:     spaces,
		People:     NewPeopleService(repo, logger),
		Offering:   NewOfferingService(repo, spaces, logger),
		Enrollment: NewEnrollmentService(cfg, repo, status, logger),
		Grade:      NewGradeService(repo, logger),
		Finance:    NewFinanceService(cfg, repo, logger),
		Document:   NewDocumentService(repo, status, logger),
		Permission: NewPermissionService(repo, logger),
		Importer:   NewImporterService(cfg, repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
