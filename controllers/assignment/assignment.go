package assignment

import (
	"errors"
	"strconv"

	"autocare/apperrors"
	"autocare/logger"
	"autocare/repositories"
	assignmentService "autocare/services/assignment"
	"autocare/services/notification"
	"autocare/types"
	apptTypes "autocare/types/appointment"
	"autocare/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssignmentController handles service center assignment and escalation
type AssignmentController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Service *assignmentService.Service
}

// NewAssignmentController creates a new assignment controller
func NewAssignmentController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *AssignmentController {
	return &AssignmentController{
		DB:     db,
		Logger: asyncLogger,
		Service: assignmentService.NewService(
			repositories.NewAppointmentRepository(db),
			repositories.NewServiceCenterRepository(db),
			repositories.NewEscalationRuleRepository(db),
			notification.NewSMSNotifier(),
		),
	}
}

func (asc *AssignmentController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	asc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (asc *AssignmentController) requester(c *fiber.Ctx) (string, error) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return "", errors.New("invalid user claims")
	}

	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return "", errors.New("user UUID not found in token")
	}

	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return "", err
	}

	return userInfo.Username, nil
}

// Assign binds an appointment to a service center, optionally with a mechanic
func (asc *AssignmentController) Assign(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return asc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	var req apptTypes.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return asc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return asc.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	assignedBy, err := asc.requester(c)
	if err != nil {
		return asc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	appt, err := asc.Service.Assign(c.Context(), uint(id), req.ServiceCenterID, req.MechanicID, assignedBy)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		return asc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return asc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment assigned successfully",
		Data:    appt,
	})
}

// Escalate flags an escalated appointment and alerts the responsible parties
func (asc *AssignmentController) Escalate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return asc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	escalatedBy, err := asc.requester(c)
	if err != nil {
		return asc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	appt, err := asc.Service.Escalate(c.Context(), uint(id), escalatedBy)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		return asc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return asc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment escalated",
		Data:    appt,
	})
}
