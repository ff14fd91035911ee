package handler

import (
	"encoding/json"
	"net/http"

	"github.com/spartacusmuoz/transferte-prenota/internal/domain"
	"github.com/spartacusmuoz/transferte-prenota/internal/service"
)

// ListEmployees handles GET /admin/utenti. Admin only.
func (s *Server) ListEmployees(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	p := queryPagination(r)
	employees, total, err := s.employees.List(r.Context(), actor, p)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		items = append(items, toEmployeeResponse(e))
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: items, Total: total, Page: p.Page, Limit: p.Limit})
}

// resetPasswordRequest is the JSON body for the admin password reset.
type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ResetPassword handles POST /admin/utenti/{employeeID}/reset-password. Admin only.
func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "employeeID")
	if err != nil {
		writeRequestError(w, "invalid employee id")
		return
	}

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	if err := s.employees.ResetPassword(r.Context(), actor, id, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateRoleRequest is the JSON body for the admin role change.
type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole handles PATCH /admin/utenti/{employeeID}/ruolo. Admin only.
func (s *Server) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathUUID(r, "employeeID")
	if err != nil {
		writeRequestError(w, "invalid employee id")
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	employee, err := s.employees.UpdateRole(r.Context(), actor, id, domain.Role(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(employee))
}

// profileRequest is the JSON body for the self-service profile update.
type profileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	WorkArea  string `json:"work_area"`
}

// UpdateProfile handles PUT /utenti/me.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	employee, err := s.employees.UpdateProfile(r.Context(), actor, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		WorkArea:  req.WorkArea,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeResponse(employee))
}
