package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"formdesk/internal/form/model"
	"formdesk/internal/form/service"
	"formdesk/internal/form/validator"
	"formdesk/pkg/apperr"
	"formdesk/pkg/identity"
	"formdesk/pkg/logger"
)

const msgIDRequired = "Form ID is required"

type FormHandler struct {
	Service *service.FormService
}

func NewFormHandler(service *service.FormService) *FormHandler {
	return &FormHandler{Service: service}
}

// checkInput turns validator output into the BadRequest the handlers report.
func checkInput(in model.FormInput) error {
	if errs := validator.Validate(in); len(errs) > 0 {
		return apperr.NewBadRequest(errs.Request())
	}
	return nil
}

func parseCreate(r *http.Request) (model.FormInput, error) {
	var in model.FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, apperr.NewBadRequest("Invalid request body")
	}
	return in, checkInput(in)
}

func parseUpdate(r *http.Request) (model.UpdateFormRequest, error) {
	var req model.UpdateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperr.NewBadRequest("Invalid request body")
	}
	if req.ID == "" {
		return req, apperr.NewBadRequest(msgIDRequired)
	}
	return req, checkInput(req.FormInput)
}

func parseDelete(r *http.Request) (model.DeleteFormRequest, error) {
	var req model.DeleteFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, apperr.NewBadRequest("Invalid request body")
	}
	if req.ID == "" {
		return req, apperr.NewBadRequest(msgIDRequired)
	}
	return req, nil
}

func writeFailure(w http.ResponseWriter, err error, notOwned, fallback string) {
	if errors.Is(err, apperr.ErrNotFoundOrForbidden) {
		apperr.WriteError(w, http.StatusBadRequest, notOwned)
		return
	}
	status, msg := apperr.Status(err, fallback)
	apperr.WriteError(w, status, msg)
}

func (h *FormHandler) GetForms(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		apperr.Unauthorized(w)
		return
	}

	forms, err := h.Service.List(r.Context(), caller)
	if err != nil {
		logger.Sugar.Errorf("Error fetching forms: %v", err)
		status, msg := apperr.Status(err, "Failed to fetch forms")
		apperr.WriteError(w, status, msg)
		return
	}

	apperr.WriteJSON(w, http.StatusOK, forms)
}

func (h *FormHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		apperr.Unauthorized(w)
		return
	}

	in, err := parseCreate(r)
	if err != nil {
		apperr.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	form, err := h.Service.Create(r.Context(), caller, in)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create form: %v", err)
		status, msg := apperr.Status(err, "Failed to create form")
		apperr.WriteError(w, status, msg)
		return
	}

	apperr.WriteJSON(w, http.StatusCreated, form)
}

func (h *FormHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		apperr.Unauthorized(w)
		return
	}

	req, err := parseUpdate(r)
	if err != nil {
		apperr.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	form, err := h.Service.Update(r.Context(), caller, req.ID, req.FormInput)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to update form %s: %v", req.ID, err)
		writeFailure(w, err, "Form not found or you don't have permission to update it", "Failed to update form")
		return
	}

	apperr.WriteJSON(w, http.StatusOK, form)
}

func (h *FormHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		apperr.Unauthorized(w)
		return
	}

	req, err := parseDelete(r)
	if err != nil {
		apperr.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.Delete(r.Context(), caller, req.ID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete form %s: %v", req.ID, err)
		writeFailure(w, err, "Form not found or you don't have permission to delete it", "Failed to delete form")
		return
	}

	apperr.WriteJSON(w, http.StatusOK, model.DeleteFormResponse{Success: true})
}
