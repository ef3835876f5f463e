// Package server exposes the metadata service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dbsmedya/axmeta/internal/graph"
	"github.com/dbsmedya/axmeta/internal/lock"
	"github.com/dbsmedya/axmeta/internal/logger"
	"github.com/dbsmedya/axmeta/internal/metadata"
	"github.com/dbsmedya/axmeta/internal/relations"
	"github.com/dbsmedya/axmeta/internal/sqlutil"
	"github.com/dbsmedya/axmeta/internal/types"
)

// Server routes HTTP requests to the metadata service.
type Server struct {
	svc       *metadata.Service
	relations *relations.Indexer
	refresh   *lock.Flag
	logger    *logger.Logger
	mux       chi.Router

	graph atomic.Pointer[graph.Graph]
}

// New creates a Server. rel may be nil, in which case relation routes answer
// with empty results.
func New(svc *metadata.Service, rel *relations.Indexer, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewDefault()
	}
	s := &Server{
		svc:       svc,
		relations: rel,
		refresh:   lock.NewFlag("refresh"),
		logger:    log.WithComponent("server"),
		mux:       chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.Recoverer)
	s.mux.Use(s.logRequests)

	s.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		notFound(w, "no route for "+r.URL.Path)
	})

	s.mux.Get("/healthz", s.handleHealth)
	s.mux.Route("/tables/{name}", func(r chi.Router) {
		r.Get("/fields", s.handleFields)
		r.Get("/relations/{related}", s.handleRelationDetails)
	})
	s.mux.Get("/enums/{name}", s.handleEnum)
	s.mux.Get("/labels/{id}", s.handleLabel)
	s.mux.Get("/relations/{table}", s.handleRelations)
	s.mux.Post("/refresh", s.handleRefresh)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.WithRequestID(middleware.GetReqID(r.Context())).Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	idx := s.svc.Index()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"tables":        len(idx.Tables),
		"labels":        s.svc.Catalog().Len(),
		"index_updated": idx.UpdatedAt,
		"refreshing":    s.refresh.IsHeld(),
	})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !sqlutil.IsValidIdentifier(name) {
		badRequest(w, "invalid table name "+strconv.Quote(name))
		return
	}

	rows, err := s.svc.ResolveFields(r.Context(), name)
	if err != nil {
		s.logger.WithTable(name).Errorf("Resolving fields failed: %v", err)
		internalError(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table":  name,
		"fields": rows,
	})
}

// enumItemView is an enum item with its label translated.
type enumItemView struct {
	types.EnumItem
	Text string `json:"text"`
}

func (s *Server) handleEnum(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	catalog := s.svc.Catalog()

	items := s.svc.EnumDetails(name)
	views := make([]enumItemView, 0, len(items))
	for _, it := range items {
		views = append(views, enumItemView{EnumItem: it, Text: catalog.Text(it.Label)})
	}

	labelID := s.svc.EnumLabel(name)
	writeJSON(w, http.StatusOK, map[string]any{
		"enum":  name,
		"label": catalog.Text(labelID),
		"items": views,
	})
}

func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	catalog := s.svc.Catalog()

	text := catalog.Text(id)
	_, exact := catalog.Lookup(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"text":  text,
		"found": exact || text != id,
	})
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	g := s.relationGraph()

	outgoing := g.Outgoing(table)
	incoming := g.Incoming(table)
	if outgoing == nil {
		outgoing = []types.RelationEdge{}
	}
	if incoming == nil {
		incoming = []types.RelationEdge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table":    g.Name(table),
		"exists":   g.Has(table),
		"outgoing": outgoing,
		"incoming": incoming,
	})
}

func (s *Server) handleRelationDetails(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "name")
	related := chi.URLParam(r, "related")
	field := r.URL.Query().Get("field")
	if field == "" {
		badRequest(w, "query parameter field is required")
		return
	}

	details, err := relations.Details(s.svc.Index(), table, related, field)
	if err != nil {
		s.logger.WithTable(table).Warnf("Reading relation details failed: %v", err)
		internalError(w, err.Error())
		return
	}
	if details == nil {
		details = []relations.ConstraintDetail{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table":       table,
		"related":     related,
		"field":       field,
		"constraints": details,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	force, err := boolParam(r, "force")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	withRelations, err := boolParam(r, "relations")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var warnings []string
	err = s.refresh.WithLock(func() error {
		if err := s.svc.RefreshAll(r.Context(), force); err != nil {
			warnings = append(warnings, err.Error())
		}
		if withRelations && s.relations != nil {
			if _, err := s.relations.BuildAll(r.Context(), force); err != nil {
				warnings = append(warnings, err.Error())
			}
			s.graph.Store(nil)
		}
		return nil
	})
	if errors.Is(err, lock.ErrBusy) {
		conflict(w, "a refresh is already running")
		return
	}

	status := "ok"
	if len(warnings) > 0 {
		status = "partial"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"warnings": warnings,
	})
}

// relationGraph returns the graph over the loaded edges, building it once
// per relation refresh.
func (s *Server) relationGraph() *graph.Graph {
	if g := s.graph.Load(); g != nil {
		return g
	}
	var edges []types.RelationEdge
	if s.relations != nil {
		edges = s.relations.Edges()
	}
	g, err := graph.BuildFromEdges(edges)
	if err != nil {
		s.logger.Warnf("Relation list contains invalid edges: %v", err)
		g = graph.NewGraph()
	}
	s.graph.Store(g)
	return g
}

func boolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("query parameter " + name + " must be a boolean")
	}
	return b, nil
}
