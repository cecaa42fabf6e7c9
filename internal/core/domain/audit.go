package domain

import "time"

// Security event kinds recorded in the audit trail.
const (
	EventLoginSuccess = "login_success"
	EventLoginFailure = "login_failure"
	EventSignup       = "signup"
	EventRateLimited  = "rate_limited"
	EventTransfer     = "transfer"
	EventUserDeleted  = "user_deleted"
)

// SecurityEvent is a single entry in the security audit trail. Subject is
// the actor the event is attributed to (username, or client IP for
// pre-authentication events) and doubles as the ordering key.
type SecurityEvent struct {
	Kind      string    `json:"kind"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
