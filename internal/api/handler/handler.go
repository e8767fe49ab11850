package handler

import "github.com/maliky/tuth-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Calendar   *CalendarHandler
	Catalog    *CatalogHandler
	Spaces     *SpacesHandler
	People     *PeopleHandler
	Offering   *OfferingHandler
	Enrollment *EnrollmentHandler
	Grade      *GradeHandler
	Finance    *FinanceHandler
	Document   *DocumentHandler
	Permission *PermissionHandler
	Importer   *ImporterHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Calendar:   NewCalendarHandler(svc.Calendar),
		Catalog:    NewCatalogHandler(svc.Catalog),
		Spaces:     NewSpacesHandler(svc.Spaces),
		People:     NewPeopleHandler(svc.People),
		Offering:   NewOfferingHandler(svc.Offering),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Grade:      NewGradeHandler(svc.Grade),
		Finance:    NewFinanceHandler(svc.Finance),
		Document:   NewDocumentHandler(svc.Document),
		Permission: NewPermissionHandler(svc.Permission),
		Importer:   NewImporterHandler(svc.Importer),
		Export:     NewExportHandler(svc.Export),
	}
}
