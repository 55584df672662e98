package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/qraftyhq/api/internal/auth"
	serverError "github.com/qraftyhq/api/internal/error"
	serverJSON "github.com/qraftyhq/api/internal/json"
	"github.com/qraftyhq/api/internal/store"
)

const (
	defaultOverviewDays = 30
	maxOverviewDays     = 90
)

type activityPoint struct {
	Day      string `json:"day"`
	Scans    int    `json:"scans"`
	Contacts int    `json:"contacts"`
}

type analyticsOverviewResponse struct {
	Days          int             `json:"days"`
	TotalScans    int             `json:"total_scans"`
	TotalContacts int             `json:"total_contacts"`
	Series        []activityPoint `json:"series"`
}

// handleAnalyticsOverview godoc
// @Summary      Activity overview
// @Description  Per-day scan and contact counts over the requested window, zero-filled
// @Tags         Analytics
// @Produce      json
// @Param        days  query  int  false  "Window in days (1-90, default 30)"
// @Success      200  {object}  analyticsOverviewResponse
// @Security     CookieAuth
// @Router       /analytics/overview [get]
func (s *Server) handleAnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	days := defaultOverviewDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err == nil && n >= 1 && n <= maxOverviewDays {
			days = n
		}
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	buckets, err := s.store.InteractionSeries(r.Context(), user.ID, since)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to load activity series", err)
		return
	}

	resp := analyticsOverviewResponse{Days: days, Series: zeroFilledSeries(since, days, buckets)}
	for _, b := range buckets {
		switch b.Type {
		case store.InteractionScan:
			resp.TotalScans += b.Count
		case store.InteractionContact:
			resp.TotalContacts += b.Count
		}
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, resp)
}

// zeroFilledSeries expands sparse (day, type) buckets into one point per
// calendar day so the frontend can chart the window without gaps.
func zeroFilledSeries(since time.Time, days int, buckets []store.ActivityBucket) []activityPoint {
	byDay := make(map[string]*activityPoint, days)
	series := make([]activityPoint, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, activityPoint{Day: day})
		byDay[day] = &series[len(series)-1]
	}

	for _, b := range buckets {
		p, ok := byDay[b.Day.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		switch b.Type {
		case store.InteractionScan:
			p.Scans += b.Count
		case store.InteractionContact:
			p.Contacts += b.Count
		}
	}
	return series
}

// handleAnalyticsTop godoc
// @Summary      Top QR cards by scans
// @Tags         Analytics
// @Produce      json
// @Success      200  {object}  map[string][]store.QRCardScans
// @Security     CookieAuth
// @Router       /analytics/top [get]
func (s *Server) handleAnalyticsTop(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	top, err := s.store.TopQRCardsByScans(r.Context(), user.ID, 5)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to load top qr cards", err)
		return
	}
	if top == nil {
		top = []store.QRCardScans{}
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, map[string]any{"items": top})
}

type dashboardOverviewResponse struct {
	QRCardCount      int64                `json:"qr_card_count"`
	InteractionCount int64                `json:"interaction_count"`
	Recent           []*store.Interaction `json:"recent"`
}

// handleDashboardOverview godoc
// @Summary      Dashboard overview
// @Description  Card and interaction counts plus the ten most recent interactions
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  dashboardOverviewResponse
// @Security     CookieAuth
// @Router       /dashboard/overview [get]
func (s *Server) handleDashboardOverview(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	cards, err := s.store.CountQRCardsByUser(r.Context(), user.ID)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to count qr cards", err)
		return
	}
	interactions, err := s.store.CountInteractionsByUser(r.Context(), user.ID)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to count interactions", err)
		return
	}
	recent, err := s.store.ListInteractionsByUser(r.Context(), user.ID, 10, "")
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to list recent interactions", err)
		return
	}
	if recent == nil {
		recent = []*store.Interaction{}
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, dashboardOverviewResponse{
		QRCardCount:      cards,
		InteractionCount: interactions,
		Recent:           recent,
	})
}

// handleInventory godoc
// @Summary      QR card inventory
// @Description  Per-card scan/contact totals and last activity timestamp
// @Tags         Inventory
// @Produce      json
// @Success      200  {object}  map[string][]store.QRCardUsage
// @Security     CookieAuth
// @Router       /inventory/qr-cards [get]
func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	usage, err := s.store.QRCardUsageByUser(r.Context(), user.ID)
	if err != nil {
		serverError.RespondErrorMsg(w, http.StatusInternalServerError, "failed to load inventory", err)
		return
	}
	if usage == nil {
		usage = []store.QRCardUsage{}
	}

	_ = serverJSON.RespondJSON(w, http.StatusOK, map[string]any{"items": usage})
}
