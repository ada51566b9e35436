package seeders

import (
	"log"

	"autocare/models/servicecenter"

	"gorm.io/gorm"
)

func SeedServiceCenters(db *gorm.DB) {
	log.Printf("🔍 Checking service centers data integrity...")

	centers := []servicecenter.ServiceCenter{
		{Code: "SC-DHK-01", Name: "AutoCare Dhaka Central", City: "Dhaka", Address: "12 Kazi Nazrul Islam Ave, Dhaka", Phone: "01711000101", Latitude: 23.7509, Longitude: 90.3935, Capacity: 25},
		{Code: "SC-DHK-02", Name: "AutoCare Uttara", City: "Dhaka", Address: "House 7, Road 12, Sector 6, Uttara", Phone: "01711000102", Latitude: 23.8679, Longitude: 90.3994, Capacity: 15},
		{Code: "SC-CTG-01", Name: "AutoCare Chattogram", City: "Chattogram", Address: "45 CDA Avenue, Chattogram", Phone: "01711000103", Latitude: 22.3569, Longitude: 91.7832, Capacity: 20},
		{Code: "SC-SYL-01", Name: "AutoCare Sylhet", City: "Sylhet", Address: "8 Airport Road, Sylhet", Phone: "01711000104", Latitude: 24.8949, Longitude: 91.8687, Capacity: 10},
		{Code: "SC-KHL-01", Name: "AutoCare Khulna", City: "Khulna", Address: "22 Khan Jahan Ali Road, Khulna", Phone: "01711000105", Latitude: 22.8456, Longitude: 89.5403, Capacity: 10},
		{Code: "SC-RAJ-01", Name: "AutoCare Rajshahi", City: "Rajshahi", Address: "3 Shaheb Bazar Road, Rajshahi", Phone: "01711000106", Latitude: 24.3745, Longitude: 88.6042, Capacity: 8},
	}

	// Get all existing center codes from database
	var existingCodes []string
	if err := db.Model(&servicecenter.ServiceCenter{}).Pluck("code", &existingCodes).Error; err != nil {
		log.Printf("❌ Failed to fetch existing service center codes: %v", err)
		return
	}

	existingCodesMap := make(map[string]bool)
	for _, code := range existingCodes {
		existingCodesMap[code] = true
	}

	// Find missing centers
	var missingCenters []servicecenter.ServiceCenter
	for _, center := range centers {
		if !existingCodesMap[center.Code] {
			missingCenters = append(missingCenters, center)
		}
	}

	log.Printf("📊 Data integrity check:")
	log.Printf("   Expected centers: %d", len(centers))
	log.Printf("   Existing centers: %d", len(existingCodes))
	log.Printf("   Missing centers: %d", len(missingCenters))

	if len(missingCenters) == 0 {
		log.Printf("✅ All service centers are already present. No seeding needed.")
		return
	}

	log.Printf("🌱 Seeding %d missing service centers...", len(missingCenters))

	successCount := 0
	failureCount := 0

	for _, center := range missingCenters {
		center.IsActive = true
		if err := db.Create(&center).Error; err != nil {
			log.Printf("❌ Failed to seed service center %s: %v", center.Code, err)
			failureCount++
			continue
		}
		successCount++
	}

	log.Printf("✅ Service center seeding finished: %d created, %d failed", successCount, failureCount)
}
