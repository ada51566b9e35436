package server

import (
	"autocare/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ServerController exposes operational endpoints
type ServerController struct {
	DB *gorm.DB
}

func NewServerController(db *gorm.DB) *ServerController {
	return &ServerController{DB: db}
}

// Health reports process and database liveness
func (sc *ServerController) Health(c *fiber.Ctx) error {
	sqlDB, err := sc.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
			Status:  fiber.StatusServiceUnavailable,
			Message: "Database unreachable",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "OK",
		Data:    fiber.Map{"database": "up"},
	})
}
