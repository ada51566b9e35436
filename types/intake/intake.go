package intake

import (
	"fmt"
)

// SuggestRequest carries the customer's free-text complaint description
type SuggestRequest struct {
	Description string `json:"description" validate:"required,min=5"`
}

func (r SuggestRequest) Validate() error {
	if len(r.Description) < 5 {
		return fmt.Errorf("description is too short")
	}
	return nil
}

// SuggestResponse is the advisory service-type suggestion. It never overrides
// the deterministic keyword classification used for triage.
type SuggestResponse struct {
	RequestID            string `json:"request_id"`
	SuggestedServiceType string `json:"suggested_service_type"`
	Reasoning            string `json:"reasoning,omitempty"`
	ProcessingTimeMs     int64  `json:"processing_time_ms"`
}
