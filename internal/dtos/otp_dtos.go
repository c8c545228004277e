package dtos

type IssueOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,e164"`
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// IssueOtpResponse optionally exposes the code itself for
// non-production environments where delivery channels are stubbed.
type IssueOtpResponse struct {
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
	Code      string `json:"code,omitempty"`
}
