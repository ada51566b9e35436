package jobcard

import (
	"errors"
	"strconv"

	"autocare/apperrors"
	"autocare/logger"
	apptModel "autocare/models/appointment"
	inventoryModel "autocare/models/inventory"
	jobcardModel "autocare/models/jobcard"
	"autocare/repositories"
	"autocare/types"
	jobcardTypes "autocare/types/jobcard"
	"autocare/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// JobCardController handles job card HTTP requests under an appointment
type JobCardController struct {
	DB           *gorm.DB
	Logger       *logger.AsyncLogger
	Appointments repositories.AppointmentRepository
	JobCards     repositories.JobCardRepository
}

// NewJobCardController creates a new job card controller
func NewJobCardController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *JobCardController {
	return &JobCardController{
		DB:           db,
		Logger:       asyncLogger,
		Appointments: repositories.NewAppointmentRepository(db),
		JobCards:     repositories.NewJobCardRepository(db),
	}
}

func (jc *JobCardController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	jc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (jc *JobCardController) requester(c *fiber.Ctx) (string, error) {
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

// appointmentForWrite loads an appointment and rejects job card mutations on
// completed work; closed appointments are immutable billing records.
func (jc *JobCardController) appointmentForWrite(c *fiber.Ctx, appointmentID uint) (*apptModel.Appointment, int, string) {
	appt, err := jc.Appointments.FindByID(c.Context(), appointmentID)
	if err != nil {
		return nil, apperrors.HTTPStatus(err), err.Error()
	}
	if appt.Status == apptModel.StatusCompleted {
		return nil, fiber.StatusConflict, "job cards cannot be modified on a completed appointment"
	}
	return appt, 0, ""
}

// Store adds a job card to an appointment that is not yet completed
func (jc *JobCardController) Store(c *fiber.Ctx) error {
	appointmentID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return jc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	var req jobcardTypes.JobCardCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return jc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return jc.sendResponseWithLog(c, fiber.StatusUnprocessableEntity, types.ApiResponse{
			Status:  fiber.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    nil,
		})
	}

	createdBy, err := jc.requester(c)
	if err != nil {
		return jc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	_, errStatus, errMsg := jc.appointmentForWrite(c, uint(appointmentID))
	if errStatus != 0 {
		return jc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}

	// Resolve unit prices from inventory at creation time
	parts := make([]jobcardModel.JobCardPart, 0, len(req.Parts))
	for _, p := range req.Parts {
		var part inventoryModel.Part
		if err := jc.DB.First(&part, p.PartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return jc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
					Status:  fiber.StatusNotFound,
					Message: "Inventory part not found",
					Data:    nil,
				})
			}
			logger.Error("Database error while resolving part", err)
			return jc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
				Data:    nil,
			})
		}
		parts = append(parts, jobcardModel.JobCardPart{
			PartID:    part.ID,
			Quantity:  p.Quantity,
			UnitPrice: part.UnitPrice,
		})
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	card := jobcardModel.JobCard{
		AppointmentID: uint(appointmentID),
		JobName:       req.JobName,
		Description:   description,
		Price:         req.Price,
		Parts:         parts,
		CreatedBy:     createdBy,
	}

	if err := jc.JobCards.Create(c.Context(), &card); err != nil {
		logger.Error("Failed to create job card", err)
		return jc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create job card",
			Data:    nil,
		})
	}

	return jc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Job card created successfully",
		Data:    card,
	})
}

// Index lists the job cards of an appointment in creation order
func (jc *JobCardController) Index(c *fiber.Ctx) error {
	appointmentID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return jc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	if _, err := jc.Appointments.FindByID(c.Context(), uint(appointmentID)); err != nil {
		status := apperrors.HTTPStatus(err)
		return jc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	cards, err := jc.JobCards.ListByAppointment(c.Context(), uint(appointmentID))
	if err != nil {
		logger.Error("Failed to list job cards", err)
		return jc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list job cards",
			Data:    nil,
		})
	}

	return jc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Job cards retrieved successfully",
		Data:    cards,
	})
}

// Destroy removes a job card while the appointment is still open
func (jc *JobCardController) Destroy(c *fiber.Ctx) error {
	appointmentID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return jc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid appointment id",
			Data:    nil,
		})
	}

	cardID, err := strconv.ParseUint(c.Params("jobCardId"), 10, 64)
	if err != nil {
		return jc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid job card id",
			Data:    nil,
		})
	}

	_, errStatus, errMsg := jc.appointmentForWrite(c, uint(appointmentID))
	if errStatus != 0 {
		return jc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}

	card, err := jc.JobCards.FindByID(c.Context(), uint(cardID))
	if err != nil {
		status := apperrors.HTTPStatus(err)
		return jc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}
	if card.AppointmentID != uint(appointmentID) {
		return jc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Job card does not belong to this appointment",
			Data:    nil,
		})
	}

	if err := jc.JobCards.Delete(c.Context(), uint(cardID)); err != nil {
		status := apperrors.HTTPStatus(err)
		return jc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
			Data:    nil,
		})
	}

	return jc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Job card deleted successfully",
		Data:    nil,
	})
}
