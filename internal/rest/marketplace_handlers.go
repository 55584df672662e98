package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/qraftyhq/api/internal/auth"
	serverError "github.com/qraftyhq/api/internal/error"
	"github.com/qraftyhq/api/internal/id"
	serverJSON "github.com/qraftyhq/api/internal/json"
	"github.com/qraftyhq/api/internal/store"
)

type businessPage struct {
	Items      []*store.BusinessProfile `json:"items"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

// handleListBusinesses godoc
// @Summary      Browse the marketplace
// @Description  Search and filter business profiles, cursor-paginated newest first
// @Tags         Marketplace
// @Produce      json
// @Param        q          query  string  false  "Name or description search"
// @Param        industry   query  string  false  "Industry filter"
// @Param        location   query  string  false  "Location filter"
// @Param        min_price  query  int     false  "Minimum starting price"
// @Param        max_price  query  int     false  "Maximum starting price"
// @Param        limit      query  int     false  "Page size (1-100, default 50)"
// @Param        cursor     query  string  false  "Pagination cursor"
// @Success      200  {object}  businessPage
// @Security     CookieAuth
// @Router       /marketplace/businesses [get]
func (s *Server) handleListBusinesses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.BusinessFilter{
		Query:    strings.TrimSpace(q.Get("q")),
		Industry: strings.TrimSpace(q.Get("industry")),
		Location: strings.TrimSpace(q.Get("location")),
		Cursor:   q.Get("cursor"),
		Limit:    defaultPageLimit,
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil && n >= 1 && n <= maxPageLimit {
			filter.Limit = n
		}
	}
	if raw := q.Get("min_price"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
			filter.MinPrice = &n
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
			filter.MaxPrice = &n
		}
	}

	probe := filter
	probe.Limit = filter.Limit + 1
	items, err := s.store.ListBusinessProfiles(r.Context(), probe)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to list businesses", err)
		return
	}

	page := businessPage{Items: items}
	if len(items) > filter.Limit {
		page.Items = items[:filter.Limit]
		page.NextCursor = page.Items[len(page.Items)-1].ID
	}
	if page.Items == nil {
		page.Items = []*store.BusinessProfile{}
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, page)
}

type businessDetailResponse struct {
	Business *store.BusinessProfile `json:"business"`
	Owner    *userResponse          `json:"owner,omitempty"`
}

// handleGetBusiness godoc
// @Summary      Business detail
// @Tags         Marketplace
// @Produce      json
// @Param        businessID  path  string  true  "Business profile ID"
// @Success      200  {object}  businessDetailResponse
// @Failure      404  {object}  error.ErrorResponse
// @Security     CookieAuth
// @Router       /marketplace/businesses/{businessID} [get]
func (s *Server) handleGetBusiness(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")

	biz, err := s.store.GetBusinessProfile(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			serverError.RespondError(w, http.StatusNotFound, fmt.Errorf("business not found"))
			return
		}
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to load business", err)
		return
	}

	resp := businessDetailResponse{Business: biz}
	if owner, err := s.store.GetUser(r.Context(), biz.OwnerID); err == nil {
		resp.Owner = toUserResponse(owner)
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, resp)
}

// handleGetMyBusiness godoc
// @Summary      My marketplace listing
// @Description  Returns the caller's newest business profile, or business=null
// @Tags         Marketplace
// @Produce      json
// @Success      200  {object}  businessDetailResponse
// @Security     CookieAuth
// @Router       /marketplace/me [get]
func (s *Server) handleGetMyBusiness(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	biz, err := s.store.GetNewestBusinessProfileByOwner(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = serverJSON.RespondJSON(w, http.StatusOK, businessDetailResponse{Business: nil})
			return
		}
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to load business", err)
		return
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, businessDetailResponse{Business: biz})
}

type businessRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`
	Location      string `json:"location"`
	StartingPrice *int64 `json:"starting_price"`
	Website       string `json:"website"`
}

// handleCreateBusiness godoc
// @Summary      Create my marketplace listing
// @Tags         Marketplace
// @Accept       json
// @Produce      json
// @Param        request  body      businessRequest  true  "Listing details"
// @Success      201      {object}  store.BusinessProfile
// @Failure      400      {object}  error.ErrorResponse
// @Security     CookieAuth
// @Router       /marketplace/me [post]
func (s *Server) handleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req businessRequest
	if err := serverJSON.DecodeJSON(r.Context(), r, &req); err != nil {
		serverError.RespondError(w, http.StatusBadRequest, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}
	if req.StartingPrice != nil && *req.StartingPrice < 0 {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("starting_price must not be negative"))
		return
	}

	bizID, err := id.Generate("BIZ-")
	if err != nil {
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to generate business ID"))
		return
	}

	biz := &store.BusinessProfile{
		ID:            bizID,
		OwnerID:       user.ID,
		Name:          req.Name,
		Description:   strings.TrimSpace(req.Description),
		Industry:      strings.TrimSpace(req.Industry),
		Location:      strings.TrimSpace(req.Location),
		StartingPrice: req.StartingPrice,
		Website:       strings.TrimSpace(req.Website),
	}

	if err := s.store.CreateBusinessProfile(r.Context(), biz); err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to create business", err)
		return
	}

	s.telemetry.Track(user.ID, "business_listed", map[string]any{"business_id": biz.ID})

	_ = serverJSON.RespondJSON(w, http.StatusCreated, biz)
}

type updateBusinessRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Industry      *string `json:"industry"`
	Location      *string `json:"location"`
	StartingPrice *int64  `json:"starting_price"`
	Website       *string `json:"website"`
}

// handleUpdateBusiness godoc
// @Summary      Update my marketplace listing
// @Tags         Marketplace
// @Accept       json
// @Produce      json
// @Param        businessID  path      string                 true  "Business profile ID"
// @Param        request     body      updateBusinessRequest  true  "Fields to update"
// @Success      200         {object}  store.BusinessProfile
// @Failure      400         {object}  error.ErrorResponse
// @Failure      404         {object}  error.ErrorResponse
// @Security     CookieAuth
// @Router       /marketplace/me/{businessID} [patch]
func (s *Server) handleUpdateBusiness(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")

	biz, err := s.ownedBusiness(r, user.ID, businessID)
	if err != nil {
		s.respondBusinessErr(w, err)
		return
	}

	var req updateBusinessRequest
	if err := serverJSON.DecodeJSON(r.Context(), r, &req); err != nil {
		serverError.RespondError(w, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("name must not be empty"))
			return
		}
		biz.Name = name
	}
	if req.Description != nil {
		biz.Description = strings.TrimSpace(*req.Description)
	}
	if req.Industry != nil {
		biz.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.Location != nil {
		biz.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartingPrice != nil {
		if *req.StartingPrice < 0 {
			serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("starting_price must not be negative"))
			return
		}
		biz.StartingPrice = req.StartingPrice
	}
	if req.Website != nil {
		biz.Website = strings.TrimSpace(*req.Website)
	}

	if err := s.store.UpdateBusinessProfile(r.Context(), biz); err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to update business", err)
		return
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, biz)
}

// handleDeleteBusiness godoc
// @Summary      Delete my marketplace listing
// @Tags         Marketplace
// @Param        businessID  path  string  true  "Business profile ID"
// @Success      204  "Deleted"
// @Failure      404  {object}  error.ErrorResponse
// @Security     CookieAuth
// @Router       /marketplace/me/{businessID} [delete]
func (s *Server) handleDeleteBusiness(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	businessID := chi.URLParam(r, "businessID")

	if _, err := s.ownedBusiness(r, user.ID, businessID); err != nil {
		s.respondBusinessErr(w, err)
		return
	}

	if err := s.store.DeleteBusinessProfile(r.Context(), businessID); err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to delete business", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ownedBusiness(r *http.Request, userID, businessID string) (*store.BusinessProfile, error) {
	biz, err := s.store.GetBusinessProfile(r.Context(), businessID)
	if err != nil {
		return nil, err
	}
	if biz.OwnerID != userID {
		return nil, store.ErrNotFound
	}
	return biz, nil
}

func (s *Server) respondBusinessErr(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		serverError.RespondError(w, http.StatusNotFound, fmt.Errorf("business not found"))
		return
	}
	serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to load business", err)
}
