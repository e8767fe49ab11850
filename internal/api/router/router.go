package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maliky/tuth-sub000/config"
	"github.com/maliky/tuth-sub000/internal/api/handler"
	"github.com/maliky/tuth-sub000/internal/api/middleware"
	"github.com/maliky/tuth-sub000/internal/model"
	"github.com/maliky/tuth-sub000/pkg/jwt"
	"github.com/maliky/tuth-sub000/pkg/redis"
)

// 常用角色组合
var (
	registrarOnly  = []string{model.RoleRegistrar, model.RoleVPAA}
	academicAdmins = []string{model.RoleRegistrar, model.RoleVPAA, model.RoleDean, model.RoleChair}
	teachingStaff  = []string{
		model.RoleRegistrar, model.RoleVPAA, model.RoleDean, model.RoleChair,
		model.RoleFaculty, model.RoleLecturer, model.RoleAssistantProfessor,
		model.RoleAssociateProfessor, model.RoleFullProfessor,
	}
	financeStaff    = []string{model.RoleFinancialOfficer, model.RoleRegistrar, model.RoleVPAA}
	enrollmentStaff = []string{model.RoleEnrollmentOfficer, model.RoleRegistrar, model.RoleVPAA}
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/change-password", h.Auth.ChangePassword)

			// 学年 / 学期 / 学段
			academicYears := authorized.Group("/academic-years")
			{
				academicYears.GET("", h.Calendar.ListAcademicYears)
				academicYears.GET("/:id", h.Calendar.GetAcademicYear)
				academicYears.POST("", middleware.RoleAuth(registrarOnly...), h.Calendar.CreateAcademicYear)
			}
			semesters := authorized.Group("/semesters")
			{
				semesters.GET("", h.Calendar.ListSemesters)
				semesters.GET("/current", h.Calendar.GetCurrentSemester)
				semesters.GET("/:id", h.Calendar.GetSemester)
				semesters.POST("", middleware.RoleAuth(registrarOnly...), h.Calendar.CreateSemester)
				semesters.PUT("/:id/status", middleware.RoleAuth(registrarOnly...), h.Calendar.SetSemesterStatus)
			}
			terms := authorized.Group("/terms")
			{
				terms.GET("", h.Calendar.ListTerms)
				terms.POST("", middleware.RoleAuth(registrarOnly...), h.Calendar.CreateTerm)
			}

			// 学院 / 系所 / 课程 / 培养方案
			colleges := authorized.Group("/colleges")
			{
				colleges.GET("", h.Catalog.ListColleges)
				colleges.POST("", middleware.RoleAuth(registrarOnly...), h.Catalog.CreateCollege)
			}
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Catalog.ListDepartments)
				departments.POST("", middleware.RoleAuth(academicAdmins...), h.Catalog.CreateDepartment)
			}
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Catalog.ListCourses)
				courses.GET("/:id", h.Catalog.GetCourse)
				courses.POST("", middleware.RoleAuth(academicAdmins...), h.Catalog.CreateCourse)
				courses.PUT("/:id", middleware.RoleAuth(academicAdmins...), h.Catalog.UpdateCourse)
				courses.GET("/:id/prerequisites", h.Catalog.ListPrerequisites)
				courses.POST("/:id/prerequisites", middleware.RoleAuth(academicAdmins...), h.Catalog.AddPrerequisite)
			}
			curricula := authorized.Group("/curricula")
			{
				curricula.GET("", h.Catalog.ListCurricula)
				curricula.GET("/:id", h.Catalog.GetCurriculum)
				curricula.POST("", middleware.RoleAuth(academicAdmins...), h.Catalog.CreateCurriculum)
				curricula.PUT("/:id/status", middleware.RoleAuth(model.RoleVPAA, model.RoleRegistrar), h.Catalog.SetCurriculumStatus)
				curricula.POST("/:id/courses", middleware.RoleAuth(academicAdmins...), h.Catalog.AddCurriculumCourse)
				curricula.GET("/:id/concentrations", h.Catalog.ListConcentrations)
				curricula.POST("/:id/concentrations", middleware.RoleAuth(academicAdmins...), h.Catalog.AddConcentration)
			}

			// 楼宇 / 教室
			spaces := authorized.Group("/spaces")
			{
				spaces.GET("", h.Spaces.ListSpaces)
				spaces.POST("", middleware.RoleAuth(registrarOnly...), h.Spaces.CreateSpace)
			}
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Spaces.ListRooms)
				rooms.GET("/:id", h.Spaces.GetRoom)
				rooms.POST("", middleware.RoleAuth(registrarOnly...), h.Spaces.CreateRoom)
				rooms.POST("/tba", middleware.RoleAuth(registrarOnly...), h.Spaces.NextTBARoom)
			}

			// 人员
			students := authorized.Group("/students")
			{
				students.GET("", middleware.RoleAuth(academicAdmins...), h.People.ListStudents)
				students.GET("/:id", h.People.GetStudent)
				students.POST("", middleware.RoleAuth(enrollmentStaff...), h.People.CreateStudent)
				students.PUT("/:id", middleware.RoleAuth(enrollmentStaff...), h.People.UpdateStudent)
				students.GET("/:id/passed-courses", h.Catalog.PassedCourses)
				students.GET("/:id/allowed-courses", h.Catalog.AllowedCourses)
				students.GET("/:id/reservations", h.Enrollment.ListStudentReservations)
				students.GET("/:id/registrations", h.Enrollment.ListStudentRegistrations)
				students.GET("/:id/grades", h.Grade.ListStudentGrades)
				students.GET("/:id/transcript", h.Grade.Transcript)
				students.GET("/:id/transcript-requests", h.Document.ListStudentTranscriptRequests)
			}
			staff := authorized.Group("/staff")
			{
				staff.GET("", middleware.RoleAuth(registrarOnly...), h.People.ListStaff)
				staff.GET("/:id", h.People.GetStaff)
				staff.POST("", middleware.RoleAuth(registrarOnly...), h.People.CreateStaff)
			}
			faculty := authorized.Group("/faculty")
			{
				faculty.GET("", h.People.ListFaculty)
				faculty.GET("/:id", h.People.GetFaculty)
				faculty.POST("", middleware.RoleAuth(academicAdmins...), h.People.CreateFaculty)
			}
			donors := authorized.Group("/donors")
			{
				donors.GET("/:id", middleware.RoleAuth(registrarOnly...), h.People.GetDonor)
				donors.POST("", middleware.RoleAuth(registrarOnly...), h.People.CreateDonor)
			}

			// 班次 / 时段
			sections := authorized.Group("/sections")
			{
				sections.GET("", h.Offering.ListSections)
				sections.GET("/:id", h.Offering.GetSection)
				sections.POST("", middleware.RoleAuth(academicAdmins...), h.Offering.CreateSection)
				sections.PUT("/:id", middleware.RoleAuth(academicAdmins...), h.Offering.UpdateSection)
				sections.POST("/:id/sessions", middleware.RoleAuth(academicAdmins...), h.Offering.AddSession)
				sections.GET("/:id/roster", middleware.RoleAuth(teachingStaff...), h.Offering.Roster)
				sections.GET("/:id/grades", middleware.RoleAuth(teachingStaff...), h.Grade.ListSectionGrades)
				sections.POST("/:id/fees", middleware.RoleAuth(financeStaff...), h.Finance.AddSectionFee)
				sections.GET("/:id/fee-quote", h.Finance.QuoteEnrollmentFee)
			}
			authorized.DELETE("/sessions/:id", middleware.RoleAuth(academicAdmins...), h.Offering.RemoveSession)

			// 选课
			reservations := authorized.Group("/reservations")
			{
				reservations.POST("", h.Enrollment.CreateReservation)
				reservations.POST("/bulk", h.Enrollment.ReserveSections)
				reservations.POST("/:id/validate", middleware.RoleAuth(enrollmentStaff...), h.Enrollment.ValidateReservation)
				reservations.POST("/:id/pay", middleware.RoleAuth(financeStaff...), h.Enrollment.PayReservation)
				reservations.POST("/:id/cancel", h.Enrollment.CancelReservation)
				reservations.POST("/:id/register", middleware.RoleAuth(enrollmentStaff...), h.Enrollment.RegisterFromReservation)
			}
			registrations := authorized.Group("/registrations")
			{
				registrations.PUT("/:id/status", middleware.RoleAuth(registrarOnly...), h.Enrollment.SetRegistrationStatus)
				registrations.DELETE("/:id", middleware.RoleAuth(registrarOnly...), h.Enrollment.RemoveRegistration)
			}

			// 成绩
			grades := authorized.Group("/grades")
			{
				grades.POST("", middleware.RoleAuth(teachingStaff...), h.Grade.CreateGrade)
				grades.PUT("/:id", middleware.RoleAuth(teachingStaff...), h.Grade.UpdateGrade)
			}
			authorized.GET("/grade-values", h.Grade.ListGradeValues)

			// 财务
			invoices := authorized.Group("/invoices")
			{
				invoices.GET("", middleware.RoleAuth(financeStaff...), h.Finance.ListInvoices)
				invoices.GET("/:id", h.Finance.GetInvoice)
				invoices.POST("", middleware.RoleAuth(financeStaff...), h.Finance.CreateInvoice)
			}
			authorized.POST("/payments", middleware.RoleAuth(financeStaff...), h.Finance.CreatePayment)
			authorized.GET("/financial-records", h.Finance.GetRecord)
			authorized.PUT("/financial-records/clearance", middleware.RoleAuth(financeStaff...), h.Finance.SetClearance)
			scholarships := authorized.Group("/scholarships")
			{
				scholarships.GET("", middleware.RoleAuth(financeStaff...), h.Finance.ListScholarships)
				scholarships.POST("", middleware.RoleAuth(financeStaff...), h.Finance.CreateScholarship)
			}
			authorized.DELETE("/section-fees/:id", middleware.RoleAuth(financeStaff...), h.Finance.RemoveSectionFee)

			// 文档 / 成绩单申请
			documents := authorized.Group("/documents")
			{
				documents.GET("", h.Document.ListOwnerDocuments)
				documents.GET("/:id", h.Document.GetDocument)
				documents.GET("/by-status/:status", middleware.RoleAuth(enrollmentStaff...), h.Document.ListByStatus)
				documents.POST("", h.Document.CreateDocument)
				documents.PUT("/:id/review", middleware.RoleAuth(enrollmentStaff...), h.Document.ReviewDocument)
				documents.DELETE("/:id", h.Document.DeleteDocument)
			}
			transcriptRequests := authorized.Group("/transcript-requests")
			{
				transcriptRequests.GET("/:id", h.Document.GetTranscriptRequest)
				transcriptRequests.POST("", h.Document.CreateTranscriptRequest)
				transcriptRequests.PUT("/:id/status", middleware.RoleAuth(registrarOnly...), h.Document.SetTranscriptStatus)
			}

			// 角色 / 权限
			authorized.POST("/permissions/rebuild", middleware.RoleAuth(model.RoleVPAA), h.Permission.RebuildPermissions)
			roleAssignments := authorized.Group("/role-assignments")
			roleAssignments.Use(middleware.RoleAuth(model.RoleVPAA, model.RoleRegistrar))
			{
				roleAssignments.GET("", h.Permission.ListRoleAssignments)
				roleAssignments.POST("", h.Permission.CreateRoleAssignment)
				roleAssignments.DELETE("/:id", h.Permission.DeleteRoleAssignment)
			}

			// 导入 / 导出
			imports := authorized.Group("/imports")
			imports.Use(middleware.RoleAuth(registrarOnly...))
			{
				imports.POST("/resources", h.Importer.ImportResources)
				imports.POST("/schedule", h.Importer.ImportSchedule)
				imports.POST("/workbook", h.Importer.ImportWorkbook)
				imports.POST("/legacy-registrations", h.Importer.ImportLegacyRegistrations)
			}
			export := authorized.Group("/export")
			{
				export.GET("/roster", middleware.RoleAuth(teachingStaff...), h.Export.ExportRoster)
				export.GET("/timetable", h.Export.ExportTimetable)
			}
		}
	}

	return r
}
