package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

const (
	maxBodyBytes = 64 << 10
	// Base64 inflates an attachment by a third.
	maxChatBodyBytes = domain.MaxAttachmentBytes*4/3 + maxBodyBytes
)

// User-facing messages. Retrieval failures of every kind share one message.
const (
	msgRegionFailed = "Failed to generate state data. Please try again."
	msgScriptFailed = "Failed to generate script. Please try again."
	msgDecodeFailed = "Failed to decode text. Please try again."
	msgChatFailed   = "I'm having trouble processing your request right now. Please try again later."
)

// RegionService retrieves region records.
type RegionService interface {
	Retrieve(ctx context.Context, name string) (domain.RegionRecord, error)
}

// StudioService generates free-form region text.
type StudioService interface {
	VideoScript(ctx context.Context, region, request string) (string, error)
	Decode(ctx context.Context, text string) (string, error)
	Chat(ctx context.Context, message string, attachment *domain.Attachment) (string, error)
}

// Handler serves the region catalog, region records, and studio endpoints.
type Handler struct {
	regions RegionService
	studio  StudioService
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(regions RegionService, studio StudioService, logger *slog.Logger) *Handler {
	return &Handler{regions: regions, studio: studio, logger: logger}
}

// Register mounts the region and studio endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/regions", h.HandleCatalog)
	r.Get("/regions/{name}", h.HandleRegion)
	r.Post("/regions/{name}/video-script", h.HandleVideoScript)
	r.Post("/scripts/decode", h.HandleDecode)
	r.Post("/chat", h.HandleChat)
}

type catalogResponse struct {
	Regions []domain.Region `json:"regions"`
}

type videoScriptRequest struct {
	Prompt string `json:"prompt"`
}

type videoScriptResponse struct {
	Region string `json:"region"`
	Script string `json:"script"`
}

type decodeRequest struct {
	Text string `json:"text"`
}

type decodeResponse struct {
	Result string `json:"result"`
}

// Attachment data is base64 in JSON.
type chatRequest struct {
	Message    string             `json:"message"`
	Attachment *domain.Attachment `json:"attachment,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// HandleCatalog handles GET /api/regions.
func (h *Handler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalogResponse{Regions: domain.IndiaRegions})
}

// HandleRegion handles GET /api/regions/{name}.
func (h *Handler) HandleRegion(w http.ResponseWriter, r *http.Request) {
	name := regionParam(r)
	rec, err := h.regions.Retrieve(r.Context(), name)
	if err != nil {
		h.writeFailure(w, r, err, msgRegionFailed, "region", name)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleVideoScript handles POST /api/regions/{name}/video-script.
func (h *Handler) HandleVideoScript(w http.ResponseWriter, r *http.Request) {
	var req videoScriptRequest
	if !decodeBody(w, r, &req, maxBodyBytes) {
		return
	}
	name := regionParam(r)
	script, err := h.studio.VideoScript(r.Context(), name, req.Prompt)
	if err != nil {
		h.writeFailure(w, r, err, msgScriptFailed, "region", name)
		return
	}
	writeJSON(w, http.StatusOK, videoScriptResponse{Region: name, Script: script})
}

// HandleDecode handles POST /api/scripts/decode.
func (h *Handler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if !decodeBody(w, r, &req, maxBodyBytes) {
		return
	}
	result, err := h.studio.Decode(r.Context(), req.Text)
	if err != nil {
		h.writeFailure(w, r, err, msgDecodeFailed, "input_len", len(req.Text))
		return
	}
	writeJSON(w, http.StatusOK, decodeResponse{Result: result})
}

// HandleChat handles POST /api/chat.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req, maxChatBodyBytes) {
		return
	}
	reply, err := h.studio.Chat(r.Context(), req.Message, req.Attachment)
	if err != nil {
		h.writeFailure(w, r, err, msgChatFailed, "message_len", len(req.Message))
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error, failMsg string, attrs ...any) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, domain.ErrEmptyRegion),
		errors.Is(err, domain.ErrEmptyRequest),
		errors.Is(err, domain.ErrUnsupportedAttachment):
		status, msg = http.StatusBadRequest, err.Error()
	case domain.IsRetrievalFailure(err):
		status, msg = http.StatusBadGateway, failMsg
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, failMsg
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		return
	}

	args := append([]any{
		"request_id", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"kind", domain.FailureKind(err),
		"error", err,
	}, attrs...)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", args...)
	} else {
		h.logger.InfoContext(r.Context(), "request rejected", args...)
	}
	writeError(w, status, msg)
}

// regionParam returns the {name} path segment. chi matches on RawPath when it
// is set, so only then is the segment still escaped.
func regionParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any, limit int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
