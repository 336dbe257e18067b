package handlers

import (
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

const expiredMessage = "url expired"

// ExpiredResponse is the 410 body returned when a link has expired.
type ExpiredResponse struct {
	Message   string `json:"error"`
	ExpiredAt string `json:"expired_at"`
}

func (e *ExpiredResponse) Error() string {
	return e.Message
}

func (e *ExpiredResponse) GetStatus() int {
	return http.StatusGone
}

var validationStatusOnce sync.Once

// ReportValidationAsBadRequest makes huma answer request validation failures
// with 400 instead of 422. It replaces huma.NewError, so it affects every API in
// the process and must be called once, before the API serves requests.
func ReportValidationAsBadRequest() {
	validationStatusOnce.Do(func() {
		newError := huma.NewError
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			if status == http.StatusUnprocessableEntity {
				status = http.StatusBadRequest
			}

			return newError(status, msg, errs...)
		}
	})
}
