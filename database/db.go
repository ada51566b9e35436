package database

import (
	"fmt"
	"os"

	"autocare/logger"
	"autocare/models/appointment"
	"autocare/models/escalation"
	"autocare/models/inventory"
	"autocare/models/invoice"
	"autocare/models/jobcard"
	"autocare/models/log"
	"autocare/models/servicecenter"
	"autocare/models/user"
	"autocare/models/vehicle"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Handle foreign key constraints after migrations
	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate() error {
	// Stage 1: core foundation models without cross-table references
	stage1Models := []interface{}{
		&user.User{},
		&servicecenter.ServiceCenter{},
		&escalation.EscalationRule{},
		&inventory.Part{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models depending on Stage 1
	stage2Models := []interface{}{
		&vehicle.Vehicle{},
		&servicecenter.Mechanic{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: appointment and everything hanging off it
	stage3Models := []interface{}{
		&appointment.Appointment{},
		&appointment.AppointmentStatusEvent{},
		&appointment.AppointmentPhoto{},
		&jobcard.JobCard{},
		&jobcard.JobCardPart{},
		&invoice.Invoice{},
	}

	for _, model := range stage3Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Remaining models
	remainingModels := []interface{}{
		// Logging
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// User indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_uuid ON users(uuid)").Error; err != nil {
		return fmt.Errorf("failed to create user uuid index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_phone ON users(phone)").Error; err != nil {
		return fmt.Errorf("failed to create user phone index: %w", err)
	}

	// Appointment indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_appointments_tracking_code ON appointments(tracking_code)").Error; err != nil {
		return fmt.Errorf("failed to create appointment tracking_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status)").Error; err != nil {
		return fmt.Errorf("failed to create appointment status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_appointments_sla_deadline ON appointments(sla_deadline)").Error; err != nil {
		return fmt.Errorf("failed to create appointment sla_deadline index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_appointments_center_requested ON appointments(assigned_service_center_id, requested_date)").Error; err != nil {
		return fmt.Errorf("failed to create appointment center/requested_date index: %w", err)
	}

	// Status event indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_appointment_status_events_appointment_id ON appointment_status_events(appointment_id)").Error; err != nil {
		return fmt.Errorf("failed to create status event appointment_id index: %w", err)
	}

	// Job card indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_job_cards_appointment_id ON job_cards(appointment_id)").Error; err != nil {
		return fmt.Errorf("failed to create job card appointment_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_job_cards_job_name ON job_cards(job_name)").Error; err != nil {
		return fmt.Errorf("failed to create job card job_name index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)").Error; err != nil {
		return fmt.Errorf("failed to create log method index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	// Define constraints with their names for checking existence
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_appointments_owner",
			sql: `ALTER TABLE appointments ADD CONSTRAINT fk_appointments_owner
				  FOREIGN KEY (owner_id) REFERENCES users(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_appointments_vehicle",
			sql: `ALTER TABLE appointments ADD CONSTRAINT fk_appointments_vehicle
				  FOREIGN KEY (vehicle_id) REFERENCES vehicles(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_appointments_service_center",
			sql: `ALTER TABLE appointments ADD CONSTRAINT fk_appointments_service_center
				  FOREIGN KEY (assigned_service_center_id) REFERENCES service_centers(id)
				  ON UPDATE CASCADE ON DELETE SET NULL`,
		},
		{
			name: "fk_status_events_appointment",
			sql: `ALTER TABLE appointment_status_events ADD CONSTRAINT fk_status_events_appointment
				  FOREIGN KEY (appointment_id) REFERENCES appointments(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_job_cards_appointment",
			sql: `ALTER TABLE job_cards ADD CONSTRAINT fk_job_cards_appointment
				  FOREIGN KEY (appointment_id) REFERENCES appointments(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
	}

	for _, constraint := range constraints {
		// Check if constraint already exists
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
