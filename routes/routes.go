package routes

import (
	"autocare/constants"
	"autocare/controllers/appointment"
	"autocare/controllers/assignment"
	"autocare/controllers/intake"
	"autocare/controllers/jobcard"
	"autocare/controllers/report"
	"autocare/controllers/server"
	"autocare/controllers/triage"
	"autocare/logger"
	"autocare/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	appointmentController := appointment.NewAppointmentController(db, asyncLogger)
	triageController := triage.NewTriageController(db, asyncLogger)
	assignmentController := assignment.NewAssignmentController(db, asyncLogger)
	reportController := report.NewReportController(db, asyncLogger)
	jobCardController := jobcard.NewJobCardController(db, asyncLogger)
	intakeController := intake.NewIntakeController(db, asyncLogger)
	serverController := server.NewServerController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	app.Get("/health", serverController.Health)

	api := app.Group("/api")

	/*=============================================================================
	| Appointment Routes
	===============================================================================*/
	appointmentGroup := api.Group("/appointments")

	appointmentGroup.Post("/", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), appointmentController.Store)

	appointmentGroup.Get("/", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), appointmentController.Index)

	appointmentGroup.Get("/:id", middleware.RequireAuthentication(), appointmentController.Show)

	// Operator decision and lifecycle transitions
	appointmentGroup.Post("/:id/decide", middleware.RequirePermissions(
		constants.TriagePermissions...,
	), appointmentController.Decide)

	appointmentGroup.Patch("/:id/status", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermAdminFull,
		constants.PermServiceCenterFull,
		constants.PermMechanicFull,
	), appointmentController.UpdateStatus)

	appointmentGroup.Patch("/:id/priority", middleware.RequirePermissions(
		constants.TriagePermissions...,
	), appointmentController.RevisePriority)

	/*=============================================================================
	| Job Card Routes
	===============================================================================*/
	appointmentGroup.Post("/:id/job-cards", middleware.RequirePermissions(
		constants.PermServiceCenterFull,
		constants.PermMechanicFull,
	), jobCardController.Store)

	appointmentGroup.Get("/:id/job-cards", middleware.RequireAuthentication(), jobCardController.Index)

	appointmentGroup.Delete("/:id/job-cards/:jobCardId", middleware.RequirePermissions(
		constants.PermServiceCenterFull,
		constants.PermMechanicFull,
	), jobCardController.Destroy)

	/*=============================================================================
	| Triage & Assignment Routes
	===============================================================================*/
	triageGroup := api.Group("/triage")

	triageGroup.Get("/queue", middleware.RequirePermissions(
		constants.TriagePermissions...,
	), triageController.Queue)

	triageGroup.Post("/appointments/:id/assign", middleware.RequirePermissions(
		constants.TriagePermissions...,
	), assignmentController.Assign)

	triageGroup.Post("/appointments/:id/escalate", middleware.RequirePermissions(
		constants.TriagePermissions...,
	), assignmentController.Escalate)

	/*=============================================================================
	| Reporting Routes
	===============================================================================*/
	reportGroup := api.Group("/reports")

	reportGroup.Get("/service-centers/:id", middleware.RequirePermissions(
		constants.ReportingPermissions...,
	), reportController.ServiceCenterReport)

	/*=============================================================================
	| Intake Routes
	===============================================================================*/
	intakeGroup := api.Group("/intake")

	intakeGroup.Post("/suggest-service-type", middleware.RequirePermissions(
		constants.PermCustomerFull,
		constants.PermOperatorFull,
	), intakeController.Suggest)
}
