package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull    = "autocare.super-admin.full-permit"
	PermAdminFull         = "autocare.admin.full-permit"
	PermOperatorFull      = "autocare.operator.full-permit"
	PermServiceCenterFull = "autocare.service-center.full-permit"
	PermMechanicFull      = "autocare.mechanic.full-permit"
	PermCustomerFull      = "autocare.customer.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	TriagePermissions = []string{
		PermSuperAdminFull,
		PermAdminFull,
		PermOperatorFull,
	}

	ReportingPermissions = []string{
		PermSuperAdminFull,
		PermAdminFull,
		PermServiceCenterFull,
	}
)
