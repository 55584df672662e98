package rest

import (
	"net/http"
	"strconv"

	"github.com/qraftyhq/api/internal/auth"
	serverError "github.com/qraftyhq/api/internal/error"
	serverJSON "github.com/qraftyhq/api/internal/json"
	"github.com/qraftyhq/api/internal/store"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

type interactionPage struct {
	Items      []*store.Interaction `json:"items"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// handleListInteractions godoc
// @Summary      List my interactions
// @Description  Newest first, cursor-paginated. The cursor is the ID of the last item of the previous page.
// @Tags         Interactions
// @Produce      json
// @Param        limit   query  int     false  "Page size (1-100, default 50)"
// @Param        cursor  query  string  false  "Pagination cursor"
// @Success      200  {object}  interactionPage
// @Security     CookieAuth
// @Router       /interactions [get]
func (s *Server) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	limit := defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil && n >= 1 && n <= maxPageLimit {
			limit = n
		}
	}
	cursor := r.URL.Query().Get("cursor")

	// Ask for one extra row to learn whether another page exists.
	items, err := s.store.ListInteractionsByUser(r.Context(), user.ID, limit+1, cursor)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to list interactions", err)
		return
	}

	page := interactionPage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.NextCursor = page.Items[len(page.Items)-1].ID
	}
	if page.Items == nil {
		page.Items = []*store.Interaction{}
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, page)
}
