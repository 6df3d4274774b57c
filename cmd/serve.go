package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadgenius/prospect-cli/internal/controller"
	"github.com/leadgenius/prospect-cli/internal/model"
	"github.com/leadgenius/prospect-cli/internal/store"
	"github.com/leadgenius/prospect-cli/internal/theme"
	"github.com/leadgenius/prospect-cli/pkg/maps"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API backing the browser UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ctrl, err := initController()
		if err != nil {
			return err
		}

		themes := theme.New(st, cfg.Theme.Default)
		links := maps.NewBuilder(cfg.Maps.Key,
			maps.WithZoom(cfg.Maps.Zoom),
			maps.WithLocale(cfg.Maps.Locale),
		)

		api := &apiServer{
			ctrl:   ctrl,
			store:  st,
			themes: themes,
			links:  links,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	ctrl   *controller.Controller
	store  store.Store
	themes *theme.Service
	links  *maps.Builder
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/prospect", s.handleProspect)
		r.Post("/leads/{id}/outreach", s.handleAnalyze)
		r.Delete("/leads/{id}/outreach", s.handleDismiss)
		r.Get("/leads/{id}/map", s.handleMap)
		r.Get("/history", s.handleHistory)
		r.Get("/theme", s.handleThemeGet)
		r.Put("/theme", s.handleThemePut)
	})

	return r
}

func (s *apiServer) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *apiServer) handleProspect(w http.ResponseWriter, r *http.Request) {
	var params model.SearchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, started := s.ctrl.Search(r.Context(), params)
	if !started {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if snap.State == controller.StateResults && len(snap.Leads) > 0 {
		if _, err := s.store.SaveBatch(r.Context(), snap.Params, snap.Leads, snap.Sources); err != nil {
			// History is best-effort; the live batch is already on screen.
			zap.L().Warn("save batch failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	card, err := s.ctrl.Analyze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown lead")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *apiServer) handleDismiss(w http.ResponseWriter, r *http.Request) {
	card, err := s.ctrl.Dismiss(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown lead")
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *apiServer) handleMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var lead *model.Lead
	for _, l := range s.ctrl.Snapshot().Leads {
		if l.ID == id {
			lead = &l
			break
		}
	}
	if lead == nil {
		writeError(w, http.StatusNotFound, "unknown lead")
		return
	}
	if !lead.HasCoordinates() {
		writeError(w, http.StatusNotFound, "lead has no coordinates")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"embed_url": s.links.EmbedURL(*lead.Latitude, *lead.Longitude),
		"full_url":  s.links.FullURL(*lead.Latitude, *lead.Longitude),
	})
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	filter := store.BatchFilter{Niche: r.URL.Query().Get("niche")}
	batches, err := s.store.ListBatches(r.Context(), filter)
	if err != nil {
		zap.L().Error("list batches failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list batches")
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *apiServer) handleThemeGet(w http.ResponseWriter, r *http.Request) {
	value, err := s.themes.Resolve(r.Context())
	if err != nil {
		zap.L().Error("resolve theme failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "resolve theme")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": value})
}

func (s *apiServer) handleThemePut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.themes.Set(r.Context(), body.Theme); err != nil {
		if eris.Is(err, theme.ErrInvalidTheme) {
			writeError(w, http.StatusBadRequest, "theme must be dark or light")
			return
		}
		zap.L().Error("set theme failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "set theme")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": body.Theme})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
