// Package web serves the market page to a browser and turns its form posts
// into participant actions.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zappabad/pctmarket/internal/chart"
	"github.com/zappabad/pctmarket/internal/logger"
	"github.com/zappabad/pctmarket/internal/navguard"
	"github.com/zappabad/pctmarket/internal/order"
	"github.com/zappabad/pctmarket/internal/session"
	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Market is the participant session the page drives.
type Market interface {
	View() *view.View
	Select(id snapshot.OfferID) *view.View
	Offer(ctx context.Context, isBid bool, in order.OfferInput) error
	Accept(ctx context.Context, isBid bool, volume string) error
	Cancel(ctx context.Context) error
	BuyGood(ctx context.Context, good string) error
	Activity(n int) []session.Activity
}

type server struct {
	cfg    Config
	market Market
	log    logger.Interface
}

type pageData struct {
	Title         string
	AssetNoun     string
	View          *view.View
	Activity      []session.Activity
	Error         string
	Guard         template.JS
	RefreshMillis int64
}

// NewServer builds the router.
func NewServer(cfg Config, market Market, log logger.Interface) http.Handler {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultConfig().RefreshInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	s := &server{cfg: cfg, market: market, log: log}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/market", http.StatusFound)
	})

	router.Route("/market", func(r chi.Router) {
		r.Use(navguard.Middleware)
		r.Get("/", s.page)
		r.Get("/tables", s.tables)
		r.Get("/chart", s.chart)
		r.Post("/select/{offerID}", s.selectOffer)
		r.Post("/offer", s.offer)
		r.Post("/accept", s.accept)
		r.Post("/cancel", s.cancel)
		r.Post("/goods/{good}", s.buyGood)
	})
	return router
}

func (s *server) data(errMsg string) pageData {
	v := s.market.View()
	if v == nil {
		v = &view.View{}
	}
	return pageData{
		Title:         s.cfg.Title,
		AssetNoun:     capitalise(chart.AssetNoun(s.cfg.Framing)),
		View:          v,
		Activity:      s.market.Activity(s.cfg.ActivityLines),
		Error:         errMsg,
		Guard:         navguard.Script,
		RefreshMillis: s.cfg.RefreshInterval.Milliseconds(),
	}
}

func (s *server) page(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "page", s.data(""))
}

func (s *server) tables(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "tables", s.data(""))
}

// chart serves the current chart configuration for the page to redraw with.
func (s *server) chart(w http.ResponseWriter, r *http.Request) {
	cfg := chart.Build(nil, s.cfg.Framing, 0)
	if v := s.market.View(); v != nil {
		cfg = v.Chart
	}
	body, err := json.Marshal(cfg)
	if err != nil {
		s.log.ErrorContext(r.Context(), err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *server) selectOffer(w http.ResponseWriter, r *http.Request) {
	s.market.Select(snapshot.OfferID(chi.URLParam(r, "offerID")))
	s.done(w, r, nil)
}

func (s *server) offer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.done(w, r, err)
		return
	}
	err := s.market.Offer(r.Context(), isBid(r), order.OfferInput{
		Price:  r.PostForm.Get("price"),
		Volume: r.PostForm.Get("volume"),
	})
	s.done(w, r, err)
}

func (s *server) accept(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.done(w, r, err)
		return
	}
	s.done(w, r, s.market.Accept(r.Context(), isBid(r), r.PostForm.Get("volume")))
}

func (s *server) cancel(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.market.Cancel(r.Context()))
}

func (s *server) buyGood(w http.ResponseWriter, r *http.Request) {
	s.done(w, r, s.market.BuyGood(r.Context(), chi.URLParam(r, "good")))
}

// done answers an action: back to a fresh copy of the page on success, the
// page with an inline error otherwise.
func (s *server) done(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		back := navguard.ReloadURL(&url.URL{Path: "/market"}, time.Now())
		http.Redirect(w, r, back.String(), http.StatusSeeOther)
		return
	}
	s.log.WarnContext(r.Context(), "action rejected", logger.NewField("path", r.URL.Path), logger.NewField("error", err.Error()))
	s.render(w, r, http.StatusUnprocessableEntity, "page", s.data(userMessage(err)))
}

func (s *server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.ErrorContext(r.Context(), err, logger.NewField("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func isBid(r *http.Request) bool {
	v := r.PostForm.Get("isBid")
	return v == "1" || strings.EqualFold(v, "true")
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, order.ErrOwnOffer):
		return "You cannot accept your own offer."
	case errors.Is(err, order.ErrNotOwnOffer):
		return "You can only cancel your own offers."
	default:
		return err.Error()
	}
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
