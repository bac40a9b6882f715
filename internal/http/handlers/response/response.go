package response

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type successResponse struct {
	Status string      `json:"status"`
	Result interface{} `json:"result"`
}

type errorResponse struct {
	Status string            `json:"status"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type Message struct {
	Message string `json:"message"`
}

func RenderUnauthorized(rw http.ResponseWriter) {
	RenderError(rw, "invalid authentication token", http.StatusUnauthorized)
}

func RenderInternalError(rw http.ResponseWriter) {
	RenderError(rw, "internal error", http.StatusInternalServerError)
}

func RenderInvalidRequestData(rw http.ResponseWriter) {
	RenderError(rw, "invalid request data", http.StatusBadRequest)
}

// RenderValidationError reports every invalid field of the request body.
func RenderValidationError(rw http.ResponseWriter, err error) {
	var fieldErrors validation.Errors
	if !errors.As(err, &fieldErrors) {
		RenderError(rw, err.Error(), http.StatusBadRequest)
		return
	}
	fields := make(map[string]string, len(fieldErrors))
	for field, fieldErr := range fieldErrors {
		fields[field] = fieldErr.Error()
	}
	render(rw, errorResponse{Status: statusError, Error: "invalid request data", Fields: fields}, http.StatusBadRequest)
}

func RenderError(rw http.ResponseWriter, msg string, status int) {
	render(rw, errorResponse{Status: statusError, Error: msg}, status)
}

func Render(rw http.ResponseWriter, res interface{}, status int) {
	render(rw, successResponse{Status: statusSuccess, Result: res}, status)
}

func RenderMessage(rw http.ResponseWriter, msg string) {
	Render(rw, Message{Message: msg}, http.StatusOK)
}

func render(rw http.ResponseWriter, res interface{}, status int) {
	rw.Header().Set("Content-Type", "application/json")

	content, err := json.Marshal(res)
	if err != nil {
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.WriteHeader(status)
	rw.Write(content)
}
