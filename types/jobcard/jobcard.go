package jobcard

import (
	"fmt"
)

// JobCardPartRequest is one part line on a job card
type JobCardPartRequest struct {
	PartID   uint `json:"part_id" validate:"required,gt=0"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

// JobCardCreateRequest represents the request payload for adding a job card
type JobCardCreateRequest struct {
	JobName     string               `json:"job_name" validate:"required,min=1,max=255"`
	Description string               `json:"description" validate:"omitempty"`
	Price       float64              `json:"price" validate:"gte=0"`
	Parts       []JobCardPartRequest `json:"parts" validate:"omitempty,dive"`
}

func (r JobCardCreateRequest) Validate() error {
	if r.JobName == "" {
		return fmt.Errorf("job_name is required")
	}
	if r.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	for i, p := range r.Parts {
		if p.PartID == 0 {
			return fmt.Errorf("parts[%d].part_id is required", i)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("parts[%d].quantity must be positive", i)
		}
	}
	return nil
}
