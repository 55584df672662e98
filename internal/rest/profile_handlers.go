package rest

import (
	"net/http"
	"strings"

	"github.com/qraftyhq/api/internal/auth"
	serverError "github.com/qraftyhq/api/internal/error"
	serverJSON "github.com/qraftyhq/api/internal/json"
)

type profileResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	Website     string `json:"website,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// handleGetProfile godoc
// @Summary      Get my profile
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  profileResponse
// @Security     CookieAuth
// @Router       /profile/me [get]
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	_ = serverJSON.RespondJSON(w, http.StatusOK, profileResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Title:       user.Title,
		Company:     user.Company,
		Phone:       user.Phone,
		Location:    user.Location,
		Website:     user.Website,
		Bio:         user.Bio,
	})
}

// Pointer fields distinguish "field absent" from "set to empty".
type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	Website     *string `json:"website"`
	Bio         *string `json:"bio"`
}

// handleUpdateProfile godoc
// @Summary      Update my profile
// @Description  Partial update; omitted fields are left unchanged, values are trimmed
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        request  body      updateProfileRequest  true  "Fields to update"
// @Success      200      {object}  profileResponse
// @Failure      400      {object}  error.ErrorResponse
// @Security     CookieAuth
// @Router       /profile/me [patch]
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req updateProfileRequest
	if err := serverJSON.DecodeJSON(r.Context(), r, &req); err != nil {
		serverError.RespondError(w, http.StatusBadRequest, err)
		return
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&user.DisplayName, req.DisplayName)
	apply(&user.Title, req.Title)
	apply(&user.Company, req.Company)
	apply(&user.Phone, req.Phone)
	apply(&user.Location, req.Location)
	apply(&user.Website, req.Website)
	apply(&user.Bio, req.Bio)

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to update profile", err)
		return
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, profileResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Title:       user.Title,
		Company:     user.Company,
		Phone:       user.Phone,
		Location:    user.Location,
		Website:     user.Website,
		Bio:         user.Bio,
	})
}
