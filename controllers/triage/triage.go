package triage

import (
	"autocare/apperrors"
	"autocare/logger"
	"autocare/repositories"
	triageService "autocare/services/triage"
	"autocare/types"
	"autocare/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TriageController serves the operator-facing triage queue
type TriageController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *triageService.Service
}

// NewTriageController creates a new triage controller
func NewTriageController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *TriageController {
	return &TriageController{
		DB:      db,
		Logger:  asyncLogger,
		Service: triageService.NewService(repositories.NewAppointmentRepository(db)),
	}
}

func (tc *TriageController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	tc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Queue returns all actionable appointments annotated for triage. Escalation
// is recomputed against the clock on every call, so repeated reads over the
// same data can legitimately differ.
func (tc *TriageController) Queue(c *fiber.Ctx) error {
	queue, err := tc.Service.ListQueue(c.Context())
	if err != nil {
		logger.Error("Failed to build triage queue", err)
		status := apperrors.HTTPStatus(err)
		return tc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return tc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Triage queue retrieved successfully",
		Data:    queue,
	})
}
