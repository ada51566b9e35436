package report

// ComplaintVolumeEntry is one serviceType bucket; entries keep the insertion
// order of each type's first occurrence.
type ComplaintVolumeEntry struct {
	ServiceType string `json:"service_type"`
	Count       int    `json:"count"`
}

// RecurringIssue is one job-name frequency bucket
type RecurringIssue struct {
	JobName string `json:"job_name"`
	Count   int    `json:"count"`
}

// AgentKPIs holds derived per-center performance indicators
type AgentKPIs struct {
	TotalAppointments int     `json:"total_appointments"`
	CompletedCount    int     `json:"completed_count"`
	CompletionRate    float64 `json:"completion_rate"`
}

// Hotspot is a direct passthrough of the center's location, not a computed cluster
type Hotspot struct {
	City              string  `json:"city"`
	AppointmentVolume int     `json:"appointment_volume"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
}

// ServiceCenterReport aggregates per-center KPIs over a date range.
// Every field is defined even for zero-appointment centers.
type ServiceCenterReport struct {
	ServiceCenterID   uint                   `json:"service_center_id"`
	ServiceCenterName string                 `json:"service_center_name"`
	ComplaintVolume   []ComplaintVolumeEntry `json:"complaint_volume"`
	AvgResolutionTime float64                `json:"avg_resolution_time_days"`
	SlaBreaches       int                    `json:"sla_breaches"`
	AgentKPIs         AgentKPIs              `json:"agent_kpis"`
	RecurringIssues   []RecurringIssue       `json:"recurring_issues"`
	Hotspot           Hotspot                `json:"hotspot"`
}
