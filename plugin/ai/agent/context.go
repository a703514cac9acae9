package agent

// SessionContext carries the per-request identity and personalization data
// resolved before the assistant loop starts. It is request-scoped and never
// shared across requests.
type SessionContext struct {
	// UserID is the internal user id, 0 for anonymous requests.
	UserID int32
	// DisplayName and Email describe the authenticated user.
	DisplayName string
	Email       string
	// RecentBookings holds human-readable summaries of the user's latest
	// bookings, newest first, used for personalization.
	RecentBookings []string
}

// IsAuthenticated reports whether the session belongs to a signed-in user.
func (s *SessionContext) IsAuthenticated() bool {
	return s != nil && s.UserID != 0
}
