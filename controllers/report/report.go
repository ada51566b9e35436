package report

import (
	"strconv"

	"autocare/apperrors"
	"autocare/logger"
	"autocare/repositories"
	reportService "autocare/services/report"
	"autocare/types"
	"autocare/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReportController serves per-service-center KPI reports
type ReportController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *reportService.Service
}

// NewReportController creates a new report controller
func NewReportController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ReportController {
	return &ReportController{
		DB:     db,
		Logger: asyncLogger,
		Service: reportService.NewService(
			repositories.NewAppointmentRepository(db),
			repositories.NewServiceCenterRepository(db),
			repositories.NewJobCardRepository(db),
		),
	}
}

func (rc *ReportController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// ServiceCenterReport builds the KPI report for one center over a date range.
// Query params: from=YYYY-MM-DD, to=YYYY-MM-DD; both optional with day-level
// inclusive boundaries.
func (rc *ReportController) ServiceCenterReport(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid service center id",
			Data:    nil,
		})
	}

	from, to, err := utils.ParseReportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	report, err := rc.Service.BuildServiceCenterReport(c.Context(), uint(id), from, to)
	if err != nil {
		logger.Error("Failed to build service center report", err)
		status := apperrors.HTTPStatus(err)
		return rc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Report generated successfully",
		Data:    report,
	})
}
