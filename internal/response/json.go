package response

import (
	"encoding/json"
	"net/http"
)

// envelope is the shape every API response shares, success or failure.
// Data and Error are mutually exclusive.
type envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func JSONOkResponse(w http.ResponseWriter, data any, message string, headers http.Header) error {
	return writeEnvelope(w, envelope{
		Status:  http.StatusOK,
		Success: true,
		Message: orDefault(message, "Request successful"),
		Data:    data,
	}, headers)
}

func JSONCreatedResponse(w http.ResponseWriter, data any, message string) error {
	return writeEnvelope(w, envelope{
		Status:  http.StatusCreated,
		Success: true,
		Message: orDefault(message, "Request successful"),
		Data:    data,
	}, nil)
}

func JSONErrorResponse(w http.ResponseWriter, err any, message string, status int, headers http.Header) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return writeEnvelope(w, envelope{
		Status:  status,
		Success: false,
		Message: orDefault(message, "Request failed"),
		Error:   err,
	}, headers)
}

func writeEnvelope(w http.ResponseWriter, response envelope, headers http.Header) error {
	js, err := json.MarshalIndent(response, "", "\t")
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Status)
	w.Write(js)

	return nil
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
