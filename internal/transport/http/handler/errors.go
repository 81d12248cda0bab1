package handler

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/go-registration-api/internal/domain"
	"github.com/go-registration-api/internal/pkg/logger"
)

const msgInternal = "Internal Server Error"

// clientMessages maps domain errors to the fixed text returned with a 400.
var clientMessages = []struct {
	err error
	msg string
}{
	{domain.ErrConflict, "User already registered"},
	{domain.ErrNotFound, "User not found"},
	{domain.ErrAlreadyVerified, "User already verified"},
	{domain.ErrInvalidCode, "Invalid OTP"},
	{domain.ErrExpired, "OTP expired"},
}

// writeDomainError answers client faults with 400 and everything else with a
// generic 500. Causes of 500s are logged, never returned.
func writeDomainError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, op string, err error) {
	if errors.Is(err, domain.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, cm := range clientMessages {
		if errors.Is(err, cm.err) {
			writeError(w, http.StatusBadRequest, cm.msg)
			return
		}
	}
	logger.Error(log, op+" failed", err, logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": requestID(r),
	})
	writeError(w, http.StatusInternalServerError, msgInternal)
}
