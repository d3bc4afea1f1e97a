package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/services"
)

// PageData is shared by every public page
type PageData struct {
	SiteTitle string
	Title     string
	ActiveNav string
}

// IndexPageData holds the homepage leaderboards
type IndexPageData struct {
	PageData
	Leaderboard *services.Leaderboard
}

// SportsPageData lists sport events
type SportsPageData struct {
	PageData
	Events      []models.SportEvent
	RulebookURL string
}

// SportPageData is one sport event with its table and fixtures
type SportPageData struct {
	PageData
	Event     *models.SportEvent
	Standings []services.RankedScore
	Fixtures  []services.FixtureView
}

// CulturalPageData lists cultural events
type CulturalPageData struct {
	PageData
	Events []models.CulturalEvent
}

// CulturalEventPageData is one cultural event with its podium
type CulturalEventPageData struct {
	PageData
	Event   *models.CulturalEvent
	Winners []services.WinnerView
}

func (h *Handlers) pageData(r *http.Request, title, nav string) PageData {
	siteTitle, err := h.Settings.GetSiteTitle(r.Context())
	if err != nil {
		siteTitle = services.DefaultSiteTitle
	}
	if title == "" {
		title = siteTitle
	}
	return PageData{SiteTitle: siteTitle, Title: title, ActiveNav: nav}
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	board, err := h.Leaderboard.Leaderboard(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, h.templates.Index, "layout", IndexPageData{
		PageData:    h.pageData(r, "", "home"),
		Leaderboard: board,
	})
}

func (h *Handlers) handleSportsPage(w http.ResponseWriter, r *http.Request) {
	events, err := h.Sports.ListEvents(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	rulebook, _ := h.Settings.GetRulebookURL(r.Context())
	h.render(w, h.templates.Sports, "layout", SportsPageData{
		PageData:    h.pageData(r, "Sports", "sports"),
		Events:      events,
		RulebookURL: rulebook,
	})
}

func (h *Handlers) handleSportPage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	event, err := h.Sports.GetEvent(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := SportPageData{Event: event}
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Standings, err = h.Sports.Standings(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		data.Fixtures, err = h.Fixtures.ListFixtures(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		h.renderError(w, r, err)
		return
	}

	data.PageData = h.pageData(r, event.DisplayName(), "sports")
	h.render(w, h.templates.Sport, "layout", data)
}

func (h *Handlers) handleCulturalPage(w http.ResponseWriter, r *http.Request) {
	events, err := h.Cultural.ListEvents(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, h.templates.Cultural, "layout", CulturalPageData{
		PageData: h.pageData(r, "Cultural", "cultural"),
		Events:   events,
	})
}

func (h *Handlers) handleCulturalEventPage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	event, err := h.Cultural.GetEvent(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	winners, err := h.Cultural.ListWinners(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, h.templates.CulturalEvent, "layout", CulturalEventPageData{
		PageData: h.pageData(r, event.Name, "cultural"),
		Event:    event,
		Winners:  winners,
	})
}
