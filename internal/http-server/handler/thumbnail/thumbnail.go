package thumbnail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"

	"thumbnail-creator/internal/config"
	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/editor"
	"thumbnail-creator/internal/http-server/handler/thumbnail/dto"
	"thumbnail-creator/internal/usecase/compositor"
	"thumbnail-creator/internal/usecase/controls"
	"thumbnail-creator/internal/usecase/studio"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxMemory    = 8 << 20
	maxJSONBytes = 64 << 20
	// Room for multipart boundaries and headers around the file part.
	multipartOverhead = 1 << 20
)

type ThumbnailHandler struct {
	usecase   studioUsecase
	validate  *validator.Validate
	maxUpload int64
	logger    *zlog.Zerolog
}

func NewThumbnailHandler(usecase studioUsecase, upload config.UploadConfig, logger *zlog.Zerolog) *ThumbnailHandler {
	return &ThumbnailHandler{
		usecase:   usecase,
		validate:  validator.New(),
		maxUpload: upload.MaxBytes,
		logger:    logger,
	}
}

func (h *ThumbnailHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, st, err := h.usecase.Create(r.Context())
	if err != nil {
		h.handleError(w, err, id, "Failed to create session")
		return
	}
	h.respondJSON(w, http.StatusCreated, dto.NewStateResponse(id, st))
}

func (h *ThumbnailHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, err := h.usecase.State(r.Context(), id)
	if err != nil {
		h.handleError(w, err, id, "Failed to get session")
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewStateResponse(id, st))
}

func (h *ThumbnailHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.usecase.Close(id); err != nil {
		h.handleError(w, err, id, "Failed to close session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ThumbnailHandler) PatchSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.PatchRequest
	if !h.decode(w, r, &req) {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid patch", err)
		return
	}

	st, err := h.usecase.Merge(r.Context(), id, patch)
	h.respondState(w, id, st, err)
}

func (h *ThumbnailHandler) GetControls(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, dto.NewControlResponses(controls.Catalog()))
}

func (h *ThumbnailHandler) SetTitle(w http.ResponseWriter, r *http.Request) {
	var req dto.TextRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	st, err := h.usecase.SetTitle(r.Context(), id, req.Value)
	h.respondState(w, id, st, err)
}

func (h *ThumbnailHandler) SetTitleColor(w http.ResponseWriter, r *http.Request) {
	var req dto.ColorRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	st, err := h.usecase.SetTitleColor(r.Context(), id, req.Value)
	h.respondState(w, id, st, err)
}

func (h *ThumbnailHandler) SetTitleFontSize(w http.ResponseWriter, r *http.Request) {
	h.setNumber(w, r, h.usecase.SetTitleFontSize)
}

func (h *ThumbnailHandler) SetTitleSpacing(w http.ResponseWriter, r *http.Request) {
	h.setNumber(w, r, h.usecase.SetTitleSpacing)
}

func (h *ThumbnailHandler) SetFgScale(w http.ResponseWriter, r *http.Request) {
	h.setNumber(w, r, h.usecase.SetFgScale)
}

func (h *ThumbnailHandler) SetFgRotation(w http.ResponseWriter, r *http.Request) {
	h.setNumber(w, r, h.usecase.SetFgRotation)
}

func (h *ThumbnailHandler) ToggleStyle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token, err := domain.ParseStyleToken(chi.URLParam(r, "token"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Unknown style token", err)
		return
	}
	st, err := h.usecase.ToggleStyle(r.Context(), id, token)
	h.respondState(w, id, st, err)
}

func (h *ThumbnailHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	layer, err := domain.ParseLayer(chi.URLParam(r, "layer"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Unknown image layer", err)
		return
	}

	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.logger.Warn().Err(err).Str("session_id", id).Msg("Failed to parse multipart form")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "File too large", nil)
			return
		}
		h.respondError(w, http.StatusBadRequest, "Invalid request format", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "File is required", nil)
		return
	}
	defer file.Close()

	st, err := h.usecase.Upload(r.Context(), id, layer, file)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("session_id", id).
			Str("layer", string(layer)).
			Str("filename", header.Filename).
			Msg("Upload not applied")
	}
	h.respondState(w, id, st, err)
}

func (h *ThumbnailHandler) Pointer(w http.ResponseWriter, r *http.Request) {
	var req dto.PointerRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	ev := compositor.PointerEvent{
		Type: compositor.PointerType(req.Type),
		X:    req.X,
		Y:    req.Y,
		Container: compositor.Rect{
			Left:   req.Rect.Left,
			Top:    req.Rect.Top,
			Width:  req.Rect.Width,
			Height: req.Rect.Height,
		},
	}

	drag, st, err := h.usecase.Pointer(r.Context(), id, ev)
	if err != nil {
		h.handleError(w, err, id, "Failed to handle pointer event")
		return
	}
	resp := dto.PointerResponse{Drag: drag.String()}
	if st != nil {
		state := dto.NewStateResponse(id, *st)
		resp.State = &state
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *ThumbnailHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	width := 0
	if raw := r.URL.Query().Get("width"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.respondError(w, http.StatusBadRequest, "Width must be a positive integer", ErrInvalidWidth)
			return
		}
		width = v
	}

	img, st, err := h.usecase.Preview(r.Context(), id, width)
	if err != nil {
		h.handleError(w, err, id, "Failed to render preview")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		h.handleError(w, err, id, "Failed to encode preview")
		return
	}
	w.Header().Set("Content-Type", domain.ExportContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", fmt.Sprintf("\"%s-%d\"", id, st.Version))
	h.write(w, id, buf.Bytes())
}

func (h *ThumbnailHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	artifact, err := h.usecase.Export(r.Context(), id)
	if err != nil {
		h.handleError(w, err, id, "Failed to export thumbnail")
		return
	}
	if artifact == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	if artifact.URL != "" {
		w.Header().Set("X-Export-URL", artifact.URL)
	}
	h.write(w, id, artifact.Data)
}

func (h *ThumbnailHandler) setNumber(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, id string, v float64) (editor.State, error)) {
	var req dto.NumberRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	st, err := set(r.Context(), id, *req.Value)
	h.respondState(w, id, st, err)
}

// decode reads and validates a JSON body, answering 400 itself on failure.
func (h *ThumbnailHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body", fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func (h *ThumbnailHandler) respondState(w http.ResponseWriter, id string, st editor.State, err error) {
	if err != nil {
		h.handleError(w, err, id, "Failed to update thumbnail")
		return
	}
	h.respondJSON(w, http.StatusOK, dto.NewStateResponse(id, st))
}

func (h *ThumbnailHandler) handleError(w http.ResponseWriter, err error, id, message string) {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound):
		h.respondError(w, http.StatusNotFound, "Session not found", nil)
	case errors.Is(err, editor.ErrSessionClosed):
		h.respondError(w, http.StatusGone, "Session closed", nil)
	case errors.Is(err, editor.ErrStaleUpload):
		h.respondError(w, http.StatusConflict, "A newer upload replaced this one", nil)
	case errors.Is(err, controls.ErrFileTooLarge):
		h.respondError(w, http.StatusRequestEntityTooLarge, "File too large", nil)
	case errors.Is(err, controls.ErrInvalidFileFormat):
		h.respondError(w, http.StatusUnsupportedMediaType, "File must be an image", err)
	case errors.Is(err, controls.ErrEmptyFile),
		errors.Is(err, studio.ErrInvalidWidth),
		errors.Is(err, domain.ErrUnknownStyleToken),
		errors.Is(err, domain.ErrUnknownLayer),
		errors.Is(err, domain.ErrInvalidDataURI):
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		h.logger.Error().Err(err).Str("session_id", id).Msg(message)
		h.respondError(w, http.StatusInternalServerError, message, err)
	}
}

func (h *ThumbnailHandler) write(w http.ResponseWriter, id string, data []byte) {
	if _, err := w.Write(data); err != nil {
		h.logger.Error().Err(err).Str("session_id", id).Msg("Failed to write response")
	}
}

func (h *ThumbnailHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *ThumbnailHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
