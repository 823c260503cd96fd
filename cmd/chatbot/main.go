package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"unicbot/internal/app"
	"unicbot/internal/document"
	"unicbot/internal/events"
	"unicbot/internal/httputil"
	"unicbot/internal/session"
)

type chatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Log.Warn("failed to close dependencies", "err", err)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Log.Info("chatbot listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		idle := time.Duration(deps.Config.SessionTTL) * time.Second
		return deps.Sessions.Janitor(ctx, idle, time.Minute, func(n int) {
			deps.Log.Info("expired idle sessions", "count", n)
		})
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", createSessionHandler(deps))
		r.Get("/{id}", getSessionHandler(deps))
		r.Delete("/{id}", deleteSessionHandler(deps))
		r.Post("/{id}/messages", messageHandler(deps))
		r.Post("/{id}/documents", documentHandler(deps))
	})
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func createSessionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := deps.Sessions.Create()
		deps.Log.Info("session started", "session_id", s.ID)
		httputil.WriteJSON(w, http.StatusCreated, map[string]any{
			"session_id": s.ID.String(),
		})
	}
}

func getSessionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"session_id": s.ID.String(),
			"created_at": s.CreatedAt,
			"history":    s.History(),
		})
	}
}

func deleteSessionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid session id", err, http.StatusBadRequest)
			return
		}
		if err := deps.Sessions.Delete(id); err != nil {
			httputil.Fail(deps.Log, w, "session not found", err, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func messageHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}

		var req chatRequest
		if err := httputil.DecodeAndValidate(r, &req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		in, reply := s.Ask(r.Context(), deps.Router, req.Message)
		publishTurn(r.Context(), deps, events.TurnEvent{SessionID: s.ID, Kind: events.KindMessage, Intent: in.String()})

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"intent": in.String(),
			"reply":  reply,
		})
	}
}

func documentHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(deps, w, r)
		if !ok {
			return
		}

		// Validate file size before parsing
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+1<<20)

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusRequestEntityTooLarge)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}

		doc := document.Document{
			Filename:  header.Filename,
			MediaType: document.ResolveMediaType(header.Header.Get("Content-Type"), header.Filename),
			Data:      content,
		}
		summary, err := s.Upload(r.Context(), deps.Summarizer, doc)
		if errors.Is(err, document.ErrMalformed) {
			httputil.Fail(deps.Log.With("session_id", s.ID, "filename", doc.Filename), w, "could not read document", err, http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to summarize document", err, http.StatusInternalServerError)
			return
		}
		publishTurn(r.Context(), deps, events.TurnEvent{SessionID: s.ID, Kind: events.KindDocument, MediaType: doc.MediaType})

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"filename": doc.Filename,
			"summary":  summary,
		})
	}
}

func lookupSession(deps app.Deps, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(deps.Log, w, "invalid session id", err, http.StatusBadRequest)
		return nil, false
	}
	s, err := deps.Sessions.Get(id)
	if err != nil {
		httputil.Fail(deps.Log, w, "session not found", err, http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// publishTurn never fails the request; publishing is best effort.
func publishTurn(ctx context.Context, deps app.Deps, ev events.TurnEvent) {
	if err := deps.Events.Publish(ctx, ev); err != nil {
		deps.Log.Warn("failed to publish turn event", "session_id", ev.SessionID, "kind", ev.Kind, "err", err)
	}
}
