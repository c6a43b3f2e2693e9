package handler

import (
	"encoding/json"
	"net/http"

	"formdesk/internal/user/model"
	"formdesk/internal/user/service"
	"formdesk/pkg/apperr"
	"formdesk/pkg/identity"
	"formdesk/pkg/logger"
)

type RoleHandler struct {
	Service *service.RoleService
}

func NewRoleHandler(service *service.RoleService) *RoleHandler {
	return &RoleHandler{Service: service}
}

func (h *RoleHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		apperr.Unauthorized(w)
		return
	}

	var req model.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		apperr.WriteError(w, http.StatusBadRequest, "Invalid role. Must be ADMIN or GUEST")
		return
	}

	if err := h.Service.SetRole(r.Context(), caller, role); err != nil {
		logger.Sugar.Errorf("Handler: Failed to set role for %s: %v", caller.ExternalID, err)
		status, msg := apperr.Status(err, "Failed to update role")
		apperr.WriteError(w, status, msg)
		return
	}

	apperr.WriteJSON(w, http.StatusOK, model.SetRoleResponse{Success: true, Role: role})
}

func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		apperr.Unauthorized(w)
		return
	}

	role, found, err := h.Service.GetRole(r.Context(), caller.ExternalID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to get role for %s: %v", caller.ExternalID, err)
		apperr.WriteError(w, http.StatusInternalServerError, "Failed to fetch role")
		return
	}

	resp := model.GetRoleResponse{}
	if found {
		resp.Role = &role
	}
	apperr.WriteJSON(w, http.StatusOK, resp)
}
