package dto

import "time"

// ErrorResponse is the JSON body returned for every failed API request.
type ErrorResponse struct {
	Message      string    `json:"message" example:"no quotes recorded"`
	ErrorDetails string    `json:"error,omitempty" example:"not found: data file boc_eur_spot.txt (run fetch first)"`
	Timestamp    time.Time `json:"timestamp" example:"2024-03-15T10:31:02Z"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now().UTC()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
