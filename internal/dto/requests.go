package dto

// CheckInRequest carries the reported position for a check-in attempt.
// Coordinates are pointers so a genuinely missing field fails validation
// instead of defaulting to the zero meridian.
type CheckInRequest struct {
	Longitude *float64 `json:"longitude" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	// Timestamp is an optional epoch-seconds override of the check-in
	// instant; the server clock is used when absent.
	Timestamp *int64 `json:"timestamp"`
}

// CASLoginRequest exchanges a CAS service ticket for an access token.
type CASLoginRequest struct {
	Ticket string `json:"ticket" binding:"required"`
}

// WeChatLoginRequest resolves an embedded-browser OAuth code.
type WeChatLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// JSConfigRequest asks for wx.config parameters for a page URL.
type JSConfigRequest struct {
	URL string `json:"url" binding:"required"`
}

// FeedbackRequest is a student feedback submission.
type FeedbackRequest struct {
	Category string  `json:"category"`
	Content  string  `json:"content" binding:"required"`
	Contact  *string `json:"contact"`
}
