package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/circlepack/pkg/errors"
	"github.com/matzehuels/circlepack/pkg/geom"
	"github.com/matzehuels/circlepack/pkg/pack"
	"github.com/matzehuels/circlepack/pkg/render"
	"github.com/matzehuels/circlepack/pkg/scene"
	"github.com/matzehuels/circlepack/pkg/store"
)

// newServeCmd creates the serve command, which exposes packing and scene
// retrieval over HTTP.
//
// Endpoints:
//   - POST   /pack             run a simulation and commit the scene
//   - GET    /scenes           list committed scenes
//   - GET    /scenes/{id}      fetch a scene as JSON
//   - GET    /scenes/{id}.svg  fetch a scene rendered as SVG
//   - GET    /scenes/{id}.png  fetch a scene rendered as PNG
//   - DELETE /scenes/{id}      delete a scene
//   - GET    /healthz          liveness probe
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the packing API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromCommand(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Serve.Addr != "" {
				addr = cfg.Serve.Addr
			}
			return runServe(cmd, cfg, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", DefaultConfig().Serve.Addr, "listen address")
	return cmd
}

// runServe executes the serve command, blocking until the context is
// cancelled or the server fails.
func runServe(cmd *cobra.Command, cfg Config, addr string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	st, err := openStore(cmd, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close(context.Background())

	index, err := openIndex(cmd, cfg)
	if err != nil {
		logger.Warn("scene index unavailable", "error", err)
		index = nil
	}
	if index != nil {
		defer index.Close()
	}

	api := &apiServer{store: st, index: index, logger: logger}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// apiServer bundles the handler dependencies.
type apiServer struct {
	store  store.Store
	index  *store.Index
	logger *log.Logger
}

// routes builds the chi router.
func (a *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.logRequests)

	r.Post("/pack", a.handlePack)
	r.Get("/scenes", a.handleList)
	r.Get("/scenes/{id}", a.handleGet)
	r.Get("/scenes/{id}.svg", a.handleSVG)
	r.Get("/scenes/{id}.png", a.handlePNG)
	r.Delete("/scenes/{id}", a.handleDelete)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return r
}

// logRequests logs one line per request at debug level.
func (a *apiServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// packRequest is the POST /pack body. Zero values fall back to defaults.
type packRequest struct {
	Count      int     `json:"count"`
	MinRadius  float64 `json:"min_radius"`
	MaxRadius  float64 `json:"max_radius"`
	Algorithm  string  `json:"algorithm"`
	Iterations int     `json:"iterations"`
	Damping    float64 `json:"damping"`
	Decay      float64 `json:"decay"`
	Tolerance  float64 `json:"tolerance"`
	Seed       uint64  `json:"seed"`
}

// handlePack runs a simulation and commits the resulting scene. Requests
// with parameters already bound in the index return the committed scene
// without re-packing.
func (a *apiServer) handlePack(w http.ResponseWriter, r *http.Request) {
	var req packRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parsing request: %w", err))
		return
	}

	def := DefaultConfig().Pack
	if req.Count == 0 {
		req.Count = def.Count
	}
	if req.MinRadius == 0 {
		req.MinRadius = def.MinRadius
	}
	if req.MaxRadius == 0 {
		req.MaxRadius = def.MaxRadius
	}
	if req.Algorithm == "" {
		req.Algorithm = def.Algorithm
	}
	if req.Seed == 0 {
		req.Seed = pack.DefaultSeed
	}

	algorithm, err := pack.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeAppError(w, apperrors.Wrap(apperrors.ErrCodeInvalidAlgorithm, err, "parsing algorithm"))
		return
	}

	params := scene.Params{
		Count:      req.Count,
		MinRadius:  req.MinRadius,
		MaxRadius:  req.MaxRadius,
		Algorithm:  req.Algorithm,
		Damping:    req.Damping,
		Decay:      req.Decay,
		Tolerance:  req.Tolerance,
		Iterations: req.Iterations,
		Seed:       req.Seed,
	}

	if a.index != nil {
		if sc, ok := lookupScene(r.Context(), a.index, a.store, params); ok {
			writeJSON(w, http.StatusOK, sc)
			return
		}
	}

	packer, err := pack.New(geom.Pt(0, 0), pack.Options{
		Count:     req.Count,
		MinRadius: req.MinRadius,
		MaxRadius: req.MaxRadius,
		Seed:      req.Seed,
	})
	if err != nil {
		writeAppError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid packing options"))
		return
	}

	runner := pack.NewRunner(a.logger)
	result, err := runner.Run(r.Context(), packer, pack.RunOptions{
		Algorithm:  algorithm,
		Iterations: req.Iterations,
		Damping:    req.Damping,
		Decay:      req.Decay,
		Tolerance:  req.Tolerance,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sc := scene.FromPacker(packer, params, result)
	// Backends mark transient failures as Retryable, so the commit gets a
	// few attempts before the run's work is thrown away.
	err = store.RetryWithBackoff(r.Context(), func() error {
		return a.store.Put(r.Context(), sc)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("committing scene: %w", err))
		return
	}
	if a.index != nil {
		err := store.RetryWithBackoff(r.Context(), func() error {
			return a.index.Bind(r.Context(), params, sc.ID)
		})
		if err != nil {
			a.logger.Warn("binding scene index", "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, sc)
}

func (a *apiServer) handleList(w http.ResponseWriter, r *http.Request) {
	scenes, err := a.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

func (a *apiServer) handleGet(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (a *apiServer) handleSVG(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.fetch(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(render.SVG(sc))
}

func (a *apiServer) handlePNG(w http.ResponseWriter, r *http.Request) {
	sc, ok := a.fetch(w, r)
	if !ok {
		return
	}
	data, err := render.PNG(sc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}

func (a *apiServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := a.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeAppError(w, apperrors.New(apperrors.ErrCodeSceneNotFound, "scene %s not found", id))
		return
	}
	if err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fetch loads the scene named by the {id} URL parameter, writing the error
// response on failure.
func (a *apiServer) fetch(w http.ResponseWriter, r *http.Request) (scene.Scene, bool) {
	id := chi.URLParam(r, "id")
	sc, err := a.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeAppError(w, apperrors.New(apperrors.ErrCodeSceneNotFound, "scene %s not found", id))
		return scene.Scene{}, false
	}
	if err != nil {
		writeAppError(w, err)
		return scene.Scene{}, false
	}
	return sc, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeAppError derives the HTTP status from the error's code. Structured
// errors additionally expose the code to API clients.
func writeAppError(w http.ResponseWriter, err error) {
	body := map[string]string{"error": apperrors.UserMessage(err)}
	if code := apperrors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, apperrors.HTTPStatus(err), body)
}
