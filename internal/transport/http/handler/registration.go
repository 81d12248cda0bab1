package handler

import (
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/go-registration-api/internal/application/profile"
	"github.com/go-registration-api/internal/application/verification"
	"github.com/go-registration-api/internal/domain"
	"github.com/go-registration-api/internal/pkg/validate"
)

// RegistrationHandler serves /register, /verify and /resend-otp.
type RegistrationHandler struct {
	profiles      profile.Service
	verifications verification.Service
	log           logrus.FieldLogger
}

func NewRegistrationHandler(profiles profile.Service, verifications verification.Service, log logrus.FieldLogger) *RegistrationHandler {
	return &RegistrationHandler{profiles: profiles, verifications: verifications, log: log}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := h.profiles.Register(r.Context(), req); err != nil {
		writeDomainError(w, r, h.log, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "User registered, OTP sent"})
}

func (h *RegistrationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.verifications.Verify(r.Context(), req.Email, string(req.OTP)); err != nil {
		writeDomainError(w, r, h.log, "verify", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Email verified successfully"})
}

func (h *RegistrationHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.ResendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.verifications.Resend(r.Context(), req.Email); err != nil {
		writeDomainError(w, r, h.log, "resend otp", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "New OTP sent to email"})
}

func requestID(r *http.Request) string {
	return chimiddleware.GetReqID(r.Context())
}
