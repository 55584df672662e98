package rest

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/qraftyhq/api/internal/auth"
	serverError "github.com/qraftyhq/api/internal/error"
	"github.com/qraftyhq/api/internal/id"
	serverJSON "github.com/qraftyhq/api/internal/json"
	"github.com/qraftyhq/api/internal/store"
)

const maxLabelLen = 60

// generatePublicID returns the 12-char base64url slug embedded in QR codes.
func generatePublicID() (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate public id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// handleListQRCards godoc
// @Summary      List my QR cards
// @Tags         QRCards
// @Produce      json
// @Success      200  {object}  map[string][]store.QRCard
// @Security     CookieAuth
// @Router       /qr-cards [get]
func (s *Server) handleListQRCards(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	cards, err := s.store.ListQRCardsByUser(r.Context(), user.ID)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to list qr cards", err)
		return
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, map[string]any{"items": cards})
}

type createQRCardRequest struct {
	Label string `json:"label"`
}

// handleCreateQRCard godoc
// @Summary      Create a QR card
// @Tags         QRCards
// @Accept       json
// @Produce      json
// @Param        request  body      createQRCardRequest  true  "Card label"
// @Success      201      {object}  store.QRCard
// @Failure      400      {object}  error.ErrorResponse
// @Security     CookieAuth
// @Router       /qr-cards [post]
func (s *Server) handleCreateQRCard(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req createQRCardRequest
	if err := serverJSON.DecodeJSON(r.Context(), r, &req); err != nil {
		serverError.RespondError(w, http.StatusBadRequest, err)
		return
	}

	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" || len(req.Label) > maxLabelLen {
		serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("label must be 1-%d characters", maxLabelLen))
		return
	}

	cardID, err := id.Generate("QRC-")
	if err != nil {
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to generate card ID"))
		return
	}
	publicID, err := generatePublicID()
	if err != nil {
		serverError.RespondError(w, http.StatusInternalServerError, fmt.Errorf("failed to generate public ID"))
		return
	}

	card := &store.QRCard{
		ID:       cardID,
		UserID:   user.ID,
		Label:    req.Label,
		PublicID: publicID,
		IsActive: true,
	}

	if err := s.store.CreateQRCard(r.Context(), card); err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to create qr card", err)
		return
	}

	s.telemetry.Track(user.ID, "qr_card_created", map[string]any{"card_id": card.ID})

	_ = serverJSON.RespondJSON(w, http.StatusCreated, card)
}

type updateQRCardRequest struct {
	Label    *string `json:"label"`
	IsActive *bool   `json:"is_active"`
}

// handleUpdateQRCard godoc
// @Summary      Update a QR card
// @Description  Partial update of label and active flag; only the owner may update
// @Tags         QRCards
// @Accept       json
// @Produce      json
// @Param        cardID   path      string               true  "Card ID"
// @Param        request  body      updateQRCardRequest  true  "Fields to update"
// @Success      200      {object}  store.QRCard
// @Failure      400      {object}  error.ErrorResponse
// @Failure      404      {object}  error.ErrorResponse
// @Security     CookieAuth
// @Router       /qr-cards/{cardID} [patch]
func (s *Server) handleUpdateQRCard(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	cardID := chi.URLParam(r, "cardID")

	card, err := s.ownedQRCard(r, user.ID, cardID)
	if err != nil {
		s.respondCardErr(w, err)
		return
	}

	var req updateQRCardRequest
	if err := serverJSON.DecodeJSON(r.Context(), r, &req); err != nil {
		serverError.RespondError(w, http.StatusBadRequest, err)
		return
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" || len(label) > maxLabelLen {
			serverError.RespondError(w, http.StatusBadRequest, fmt.Errorf("label must be 1-%d characters", maxLabelLen))
			return
		}
		card.Label = label
	}
	if req.IsActive != nil {
		card.IsActive = *req.IsActive
	}

	if err := s.store.UpdateQRCard(r.Context(), card); err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to update qr card", err)
		return
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, card)
}

// handleDeleteQRCard godoc
// @Summary      Delete a QR card
// @Tags         QRCards
// @Param        cardID  path  string  true  "Card ID"
// @Success      204     "Deleted"
// @Failure      404     {object}  error.ErrorResponse
// @Security     CookieAuth
// @Router       /qr-cards/{cardID} [delete]
func (s *Server) handleDeleteQRCard(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	cardID := chi.URLParam(r, "cardID")

	if _, err := s.ownedQRCard(r, user.ID, cardID); err != nil {
		s.respondCardErr(w, err)
		return
	}

	if err := s.store.DeleteQRCard(r.Context(), cardID); err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to delete qr card", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedQRCard loads a card and checks ownership. A card owned by someone
// else reads as not-found so the API does not leak card existence.
func (s *Server) ownedQRCard(r *http.Request, userID, cardID string) (*store.QRCard, error) {
	card, err := s.store.GetQRCard(r.Context(), cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, store.ErrNotFound
	}
	return card, nil
}

func (s *Server) respondCardErr(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		serverError.RespondError(w, http.StatusNotFound, fmt.Errorf("qr card not found"))
		return
	}
	serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to load qr card", err)
}
