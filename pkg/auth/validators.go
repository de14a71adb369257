package auth

import "time"

// MeResponse represents the current caller.
type MeResponse struct {
	Success     bool       `json:"success"`
	Subject     string     `json:"subject"`
	Permissions []string   `json:"permissions"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
