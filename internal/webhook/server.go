// internal/webhook/server.go
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/user/wootbridge/internal/bot"
	"github.com/user/wootbridge/internal/chatwoot"
	"github.com/user/wootbridge/internal/logging"
	"github.com/user/wootbridge/internal/types"
)

const (
	// ChatwootPath receives Chatwoot "message_created" webhooks.
	ChatwootPath = "/webhook/chatwoot"

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Handler processes one normalized event.
type Handler interface {
	Handle(ctx context.Context, ev types.InboundEvent) (*bot.Result, error)
}

// Server is a lightweight HTTP handler for the webhook and health endpoints.
type Server struct {
	handler Handler
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewServer creates a new webhook Server. A nil logger uses slog.Default.
func NewServer(handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		handler: handler,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST "+ChatwootPath, s.handleChatwoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleHealth)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook server started", "listen", addr, "path", ChatwootPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("webhook server: %w", err)
	}
}

// response is the JSON envelope returned to the webhook caller.
type response struct {
	Status        bot.Status     `json:"status"`
	Command       string         `json:"command,omitempty"`
	SentMessageID types.ID       `json:"sent_message_id,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	InboxID       types.ID       `json:"inbox_id,omitempty"`
	Message       string         `json:"message,omitempty"`
	Debug         map[string]any `json:"debug,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleChatwoot(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With("request_id", types.NewRequestID())
	ctx := logging.WithLogger(r.Context(), log)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("webhook body too large", "limit", tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, response{Status: bot.StatusError, Message: "payload too large"})
			return
		}
		log.Warn("reading webhook body failed", "error", err)
		writeJSON(w, http.StatusBadRequest, response{Status: bot.StatusError, Message: "invalid JSON"})
		return
	}

	payload, err := chatwoot.DecodePayload(body)
	if err != nil {
		log.Warn("rejecting webhook body", "error", err)
		writeJSON(w, http.StatusBadRequest, response{Status: bot.StatusError, Message: "invalid JSON"})
		return
	}

	ev := chatwoot.Normalize(payload)
	log.Debug("webhook received",
		"event", ev.EventType,
		"message_type", ev.MessageType,
		"account_id", ev.AccountID,
		"conversation_id", ev.ConversationID,
		"inbox_id", ev.InboxID,
	)

	res, err := s.handler.Handle(ctx, ev)
	if err != nil {
		status, resp := errorResponse(err)
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse(res))
}

func resultResponse(res *bot.Result) response {
	switch res.Status {
	case bot.StatusOK:
		return response{
			Status:        bot.StatusOK,
			Command:       string(res.Command),
			SentMessageID: res.SentMessageID,
		}
	default:
		return response{
			Status:  res.Status,
			Reason:  res.Reason,
			InboxID: res.InboxID,
		}
	}
}

// errorResponse maps a dispatcher error to an HTTP status and envelope.
// Bad-input errors echo their metadata as a debug payload.
func errorResponse(err error) (int, response) {
	resp := response{Status: bot.StatusError, Message: err.Error()}
	status := http.StatusInternalServerError

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		if rich.Code != 0 {
			status = rich.Code
		}
		resp.Message = rich.Message
		if rich.Category == goerrors.CategoryBadInput {
			resp.Debug = rich.Metadata
		}
	}
	return status, resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response failed", "error", err)
	}
}
