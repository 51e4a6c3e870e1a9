// Package api defines the JSON envelopes shared by every HTTP handler.
package api

// ErrorResponse is the body of every failed request.
// Message is shown verbatim by the frontend in its inline alert area.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// StageErrorResponse is returned when a request arrives before the session
// reached the navigation stage the endpoint requires.
type StageErrorResponse struct {
	Message  string `json:"message"`
	Stage    string `json:"stage"`
	Redirect string `json:"redirect"`
}
