package routes

const (
	// Health
	Health = "/health"

	// OTP gate
	OtpIssue  = "/api/v1/otp/issue"
	OtpVerify = "/api/v1/otp/verify"

	// Auth
	AuthRegister = "/api/v1/auth/register"
	AuthLogin    = "/api/v1/auth/login"
	AuthRefresh  = "/api/v1/auth/refresh"
	AuthLogout   = "/api/v1/auth/logout"
	AuthMe       = "/api/v1/auth/me"

	// Job card applications
	ApplicationsBase   = "/api/v1/applications"
	ApplicationByID    = "/api/v1/applications/{trackingId}"
	ApplicationApprove = "/api/v1/applications/{trackingId}/approve"
	ApplicationReject  = "/api/v1/applications/{trackingId}/reject"

	// Job cards
	JobCardsBase        = "/api/v1/job-cards"
	JobCardByID         = "/api/v1/job-cards/{id}"
	JobCardByNationalID = "/api/v1/job-cards/national-id/{nationalId}"

	// Work demand
	WorkDemandsBase   = "/api/v1/work-demands"
	WorkDemandsMy     = "/api/v1/work-demands/my"
	WorkDemandsAssign = "/api/v1/work-demands/assign"
	WorkDemandByID    = "/api/v1/work-demands/{id}"
	WorkDemandApprove = "/api/v1/work-demands/{id}/approve"
	WorkDemandReject  = "/api/v1/work-demands/{id}/reject"

	// Attendance
	AttendanceBase      = "/api/v1/attendance"
	AttendanceByID      = "/api/v1/attendance/{id}"
	AttendanceByProject = "/api/v1/attendance/project/{id}"
	AttendanceByWorker  = "/api/v1/attendance/worker/{id}"

	// Projects
	ProjectsBase = "/api/v1/projects"
	ProjectByID  = "/api/v1/projects/{id}"

	// Payments
	PaymentsBase      = "/api/v1/payments"
	PaymentsGenerate  = "/api/v1/payments/generate"
	PaymentByID       = "/api/v1/payments/{id}"
	PaymentApprove    = "/api/v1/payments/{id}/approve"
	PaymentReject     = "/api/v1/payments/{id}/reject"
	PaymentPay        = "/api/v1/payments/{id}/pay"
	PaymentsByProject = "/api/v1/payments/project/{id}"
	PaymentsByWorker  = "/api/v1/payments/worker/{id}"
)
