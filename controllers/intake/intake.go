package intake

import (
	"time"

	"autocare/logger"
	intakeService "autocare/services/intake"
	"autocare/types"
	intakeTypes "autocare/types/intake"
	"autocare/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IntakeController handles AI-assisted complaint intake requests
type IntakeController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *intakeService.Service
}

// NewIntakeController creates a new intake controller
func NewIntakeController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *IntakeController {
	return &IntakeController{
		DB:      db,
		Logger:  asyncLogger,
		Service: intakeService.NewService(),
	}
}

func (ic *IntakeController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ic.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// Suggest asks the model for a service type suggestion from a free-text
// complaint. The result is advisory; the caller still picks the final
// service type when filing the appointment.
func (ic *IntakeController) Suggest(c *fiber.Ctx) error {
	startTime := time.Now()
	requestID := uuid.New().String()

	var req intakeTypes.SuggestRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ic.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return ic.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	suggestion, err := ic.Service.SuggestServiceType(c.Context(), req.Description)
	if err != nil {
		logger.Error("Failed to get service type suggestion", err)
		return ic.sendResponseWithLog(c, fiber.StatusBadGateway, types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Suggestion service unavailable",
			Data:    nil,
		})
	}

	resp := intakeTypes.SuggestResponse{
		RequestID:            requestID,
		SuggestedServiceType: suggestion.ServiceType,
		Reasoning:            suggestion.Reasoning,
		ProcessingTimeMs:     time.Since(startTime).Milliseconds(),
	}

	return ic.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Suggestion generated successfully",
		Data:    resp,
	})
}
