package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	serverError "github.com/qraftyhq/api/internal/error"
	serverJSON "github.com/qraftyhq/api/internal/json"
	"github.com/qraftyhq/api/internal/store"
)

type publicProfileResponse struct {
	Card    *store.QRCardSummary `json:"card"`
	Profile *profileResponse     `json:"profile"`
}

// handlePublicQRView godoc
// @Summary      View a public QR profile
// @Description  Resolves a QR card's public ID to the owner's profile and records a scan
// @Tags         Public
// @Produce      json
// @Param        publicID  path  string  true  "Card public ID"
// @Success      200  {object}  publicProfileResponse
// @Failure      404  {object}  error.ErrorResponse
// @Router       /public/qr/{publicID} [get]
func (s *Server) handlePublicQRView(w http.ResponseWriter, r *http.Request) {
	card, ok := s.activeCardByPublicID(w, r)
	if !ok {
		return
	}

	owner, err := s.store.GetUser(r.Context(), card.UserID)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to load profile", err)
		return
	}

	s.recordInteraction(r, card, store.InteractionScan)

	_ = serverJSON.RespondJSON(w, http.StatusOK, publicProfileResponse{
		Card: &store.QRCardSummary{ID: card.ID, Label: card.Label, PublicID: card.PublicID},
		Profile: &profileResponse{
			ID:          owner.ID,
			DisplayName: owner.DisplayName,
			Title:       owner.Title,
			Company:     owner.Company,
			Phone:       owner.Phone,
			Location:    owner.Location,
			Website:     owner.Website,
			Bio:         owner.Bio,
		},
	})
}

// handlePublicQRContact godoc
// @Summary      Record a contact on a public QR profile
// @Tags         Public
// @Param        publicID  path  string  true  "Card public ID"
// @Success      204  "Recorded"
// @Failure      404  {object}  error.ErrorResponse
// @Router       /public/qr/{publicID}/contact [post]
func (s *Server) handlePublicQRContact(w http.ResponseWriter, r *http.Request) {
	card, ok := s.activeCardByPublicID(w, r)
	if !ok {
		return
	}

	s.recordInteraction(r, card, store.InteractionContact)
	w.WriteHeader(http.StatusNoContent)
}

// activeCardByPublicID resolves the path's public ID to an active card.
// Missing and deactivated cards are indistinguishable to visitors.
func (s *Server) activeCardByPublicID(w http.ResponseWriter, r *http.Request) (*store.QRCard, bool) {
	publicID := chi.URLParam(r, "publicID")

	card, err := s.store.GetQRCardByPublicID(r.Context(), publicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			serverError.RespondError(w, http.StatusNotFound, fmt.Errorf("profile not found"))
			return nil, false
		}
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to resolve qr card", err)
		return nil, false
	}
	if !card.IsActive {
		serverError.RespondError(w, http.StatusNotFound, fmt.Errorf("profile not found"))
		return nil, false
	}
	return card, true
}

// recordInteraction writes an interaction row best-effort: a visitor's
// page view must not fail because the analytics insert did.
func (s *Server) recordInteraction(r *http.Request, card *store.QRCard, typ store.InteractionType) {
	interaction := &store.Interaction{
		ID:        uuid.NewString(),
		QRCardID:  card.ID,
		Type:      typ,
		Referrer:  r.Header.Get("Referer"),
		UserAgent: r.UserAgent(),
	}
	if err := s.store.CreateInteraction(r.Context(), interaction); err != nil {
		s.logger.Error("failed to record interaction", "card_id", card.ID, "type", string(typ), "error", err)
	}
}
