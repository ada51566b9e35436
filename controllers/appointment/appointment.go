package appointment

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"autocare/apperrors"
	"autocare/logger"
	apptModel "autocare/models/appointment"
	vehicleModel "autocare/models/vehicle"
	"autocare/repositories"
	"autocare/services/lifecycle"
	"autocare/services/notification"
	"autocare/types"
	apptTypes "autocare/types/appointment"
	"autocare/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = validator.New()

// AppointmentController handles appointment-related HTTP requests
type AppointmentController struct {
	DB        *gorm.DB
	Logger    *logger.AsyncLogger
	Repo      repositories.AppointmentRepository
	Lifecycle *lifecycle.Service
}

// NewAppointmentController creates a new appointment controller
func NewAppointmentController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *AppointmentController {
	repo := repositories.NewAppointmentRepository(db)
	return &AppointmentController{
		DB:        db,
		Logger:    asyncLogger,
		Repo:      repo,
		Lifecycle: lifecycle.NewService(repo, notification.NewSMSNotifier()),
	}
}

// Helper function to send response and log in one call
func (ac *AppointmentController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ac.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (ac *AppointmentController) requester(c *fiber.Ctx) (string, string, error) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return "", "", errors.New("invalid user claims")
	}

	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return "", "", errors.New("user UUID not found in token")
	}

	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return "", "", err
	}

	return userInfo.Username, userUUID, nil
}

// Store files a new service request. It enters the queue as PENDING and gets
// a public tracking code the customer can use to follow it.
func (ac *AppointmentController) Store(c *fiber.Ctx) error {
	var req apptTypes.AppointmentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := validate.Struct(req); err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		})
	}

	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "User UUID not found in token",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		})
	}

	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		logger.Error("Error finding user by UUID", err)
		status := fiber.StatusInternalServerError
		msg := "Database error"
		if err.Error() == "user not found" {
			status = fiber.StatusUnauthorized
			msg = "User not found"
		}
		return ac.sendResponseWithLog(c, status, types.ApiResponse{
			Message: msg,
			Status:  status,
			Data:    nil,
		})
	}

	// The vehicle must exist and belong to the requester
	var vehicle vehicleModel.Vehicle
	err = ac.DB.Where("id = ? AND owner_id = ?", req.VehicleID, userInfo.ID).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ac.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Vehicle not found for this user",
				Data:    nil,
			})
		}
		logger.Error("Database error while checking vehicle ownership", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	requestedDate := time.Now()
	if req.RequestedDate != nil {
		requestedDate = *req.RequestedDate
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	appt := apptModel.Appointment{
		TrackingCode:  fmt.Sprintf("SR-%s", uuid.New().String()),
		OwnerID:       uint(userInfo.ID),
		VehicleID:     req.VehicleID,
		ServiceType:   req.ServiceType,
		Description:   description,
		Status:        apptModel.StatusPending,
		RequestedDate: requestedDate,
		IsAccidental:  req.IsAccidental,
		CreatedBy:     userInfo.Username,
	}

	if err := ac.Repo.Create(c.Context(), &appt); err != nil {
		logger.Error("Failed to create appointment", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create appointment",
			Data:    nil,
		})
	}

	logger.Info(fmt.Sprintf("Appointment %s created for user %s", appt.TrackingCode, userInfo.Username))
	return ac.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Appointment created successfully",
		Data:    appt,
	})
}

// Index lists the requester's own appointments, newest first
func (ac *AppointmentController) Index(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		})
	}

	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "User UUID not found in token",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		})
	}

	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		logger.Error("Error finding user by UUID", err)
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "User not found",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		})
	}

	var appts []apptModel.Appointment
	err = ac.DB.
		Preload("Vehicle").
		Preload("AssignedServiceCenter").
		Where("owner_id = ?", userInfo.ID).
		Order("created_at DESC").
		Find(&appts).Error
	if err != nil {
		logger.Error("Failed to list appointments", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointments retrieved successfully",
		Data:    appts,
	})
}

// Show returns one appointment by ID with its relations preloaded
func (ac *AppointmentController) Show(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	appt, err := ac.Repo.FindByID(c.Context(), uint(id))
	if err != nil {
		status := apperrors.HTTPStatus(err)
		return ac.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Appointment retrieved successfully",
		Data:    appt,
	})
}

// Decide resolves a pending appointment to APPROVED or REJECTED
func (ac *AppointmentController) Decide(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	var req apptTypes.DecideRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	decidedBy, _, err := ac.requester(c)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var priority *apptModel.Priority
	if req.Priority != nil {
		p := apptModel.Priority(*req.Priority)
		priority = &p
	}

	appt, err := ac.Lifecycle.Decide(c.Context(), uint(id), apptModel.AppointmentStatus(req.Decision), priority, req.SlaDeadline, decidedBy)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		return ac.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Appointment %s", req.Decision),
		Data:    appt,
	})
}

// UpdateStatus moves an approved appointment into service or to completion
func (ac *AppointmentController) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	var req apptTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	updatedBy, _, err := ac.requester(c)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	appt, err := ac.Lifecycle.UpdateStatus(c.Context(), uint(id), apptModel.AppointmentStatus(req.Status), updatedBy)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		return ac.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Appointment moved to %s", req.Status),
		Data:    appt,
	})
}

// RevisePriority lets an operator re-grade priority before service starts
func (ac *AppointmentController) RevisePriority(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	var req struct {
		Priority string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	priority := apptModel.Priority(req.Priority)
	if !priority.IsValid() {
		return ac.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: "priority must be LOW, MEDIUM or HIGH",
			Data:    nil,
		})
	}

	updatedBy, _, err := ac.requester(c)
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	if err := ac.Lifecycle.RevisePriority(c.Context(), uint(id), priority, updatedBy); err != nil {
		status := apperrors.HTTPStatus(err)
		return ac.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Priority updated successfully",
		Data:    nil,
	})
}
