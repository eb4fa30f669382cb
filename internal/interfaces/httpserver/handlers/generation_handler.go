package handlers

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/metrics"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/requests"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/responses"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

const invalidBatchMessage = "Invalid input. Expected {'pairs': [{'project_id': '', 'collection_id': ''}]}"

// GenerationHandler exposes dispatch and scheduler callback endpoints.
type GenerationHandler struct {
	cfg         *config.Config
	generations generation.Service
	log         zerolog.Logger
}

func NewGenerationHandler(cfg *config.Config, generations generation.Service, log zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{
		cfg:         cfg,
		generations: generations,
		log:         log.With().Str("component", "generation-handler").Logger(),
	}
}

// GenerateBatch godoc
// @Summary      Start generations
// @Description  Creates one generation per (project, collection) pair and enqueues it at the scheduler. Pair level failures are reported in pair_errors; the response is 200 even when some pairs fail.
// @Tags         generations
// @Accept       json
// @Produce      json
// @Param        request  body      requests.GenerateBatchRequest  true  "Pairs"
// @Success      200      {object}  generation.BatchReport
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/generate-batch [post]
func (h *GenerationHandler) GenerateBatch(c *gin.Context) {
	var req requests.GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Pairs == nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, invalidBatchMessage, "generate-batch-invalid")
		return
	}

	report, err := h.generations.DispatchBatch(c.Request.Context(), req.ToDomain(), h.callbackBase(c))
	if err != nil {
		responses.HandleError(c, err, "Failed to start generations")
		return
	}
	c.JSON(http.StatusOK, report)
}

// SchedulerCallback godoc
// @Summary      Scheduler completion callback
// @Description  Accepts multipart (status, task_id, error, infotext, files) or JSON with base64 encoded files. Unknown generation ids are acknowledged without changes.
// @Tags         generations
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        generation_id  path      string  true  "Generation ID"
// @Success      200            {object}  responses.MessageResponse
// @Failure      400            {object}  responses.ErrorResponse
// @Failure      415            {object}  responses.ErrorResponse
// @Failure      500            {object}  responses.ErrorResponse
// @Router       /api/scheduler_callback/{generation_id} [post]
func (h *GenerationHandler) SchedulerCallback(c *gin.Context) {
	generationID := c.Param("generation_id")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	var (
		cb  generation.Callback
		err error
	)
	switch mediaType {
	case "multipart/form-data":
		cb, err = h.multipartCallback(c)
	case "application/json":
		cb, err = h.jsonCallback(c)
	default:
		metrics.CallbacksTotal.WithLabelValues("rejected").Inc()
		responses.HandleNewError(c, platformerrors.ErrorTypeUnsupportedMediaType,
			fmt.Sprintf("Unsupported Media Type %q; expected multipart/form-data or application/json", mediaType), "callback-media-type")
		return
	}
	if err != nil {
		metrics.CallbacksTotal.WithLabelValues("rejected").Inc()
		responses.HandleError(c, err, "Failed to read callback")
		return
	}

	h.log.Info().
		Str("generation_id", generationID).
		Str("status", cb.Status).
		Str("task_id", cb.TaskID).
		Int("files", len(cb.Files)).
		Msg("scheduler callback received")

	outcome, err := h.generations.ProcessCallback(c.Request.Context(), generationID, cb)
	if err != nil {
		metrics.CallbacksTotal.WithLabelValues("error").Inc()
		responses.HandleError(c, err, "Callback processing failed")
		return
	}
	label := "unknown_generation"
	if outcome.Known && outcome.Generation != nil {
		label = string(outcome.Generation.Status)
	}
	metrics.CallbacksTotal.WithLabelValues(label).Inc()
	c.JSON(http.StatusOK, responses.MessageResponse{Message: outcome.Message})
}

func (h *GenerationHandler) multipartCallback(c *gin.Context) (generation.Callback, error) {
	ctx := c.Request.Context()
	form, err := c.MultipartForm()
	if err != nil {
		return generation.Callback{}, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"Failed to read form data/files: "+err.Error(), err, "callback-form-invalid")
	}
	cb := generation.Callback{
		Status:   formValue(form.Value, "status"),
		TaskID:   formValue(form.Value, "task_id"),
		Error:    formValue(form.Value, "error"),
		Infotext: formValue(form.Value, "infotext"),
	}
	for _, fh := range form.File["files"] {
		cb.Files = append(cb.Files, generation.CallbackFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return cb, nil
}

func (h *GenerationHandler) jsonCallback(c *gin.Context) (generation.Callback, error) {
	ctx := c.Request.Context()
	var req requests.SchedulerCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return generation.Callback{}, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"Failed to parse JSON data: "+err.Error(), err, "callback-json-invalid")
	}
	cb := generation.Callback{
		Status:   req.Status,
		TaskID:   req.TaskID.String(),
		Error:    req.Error,
		Infotext: req.Infotext,
	}
	for i, f := range req.Files {
		data, err := decodeBase64(f.Data)
		if err != nil {
			return generation.Callback{}, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
				fmt.Sprintf("files[%d].data is not valid base64", i), err, "callback-file-encoding")
		}
		filename := f.Filename
		if filename == "" {
			filename = fmt.Sprintf("file_%d", i)
		}
		cb.Files = append(cb.Files, generation.CallbackFile{
			Filename:    filename,
			ContentType: f.ContentType,
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(data)), nil
			},
		})
	}
	return cb, nil
}

// callbackBase prefers the configured public callback address and falls back
// to the address the request came in on.
func (h *GenerationHandler) callbackBase(c *gin.Context) string {
	if h.cfg.CallbackBaseURL != "" {
		return h.cfg.CallbackBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// decodeBase64 accepts raw or data URL base64 payloads.
func decodeBase64(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		if idx := strings.Index(raw, ","); idx >= 0 {
			raw = raw[idx+1:]
		}
	}
	if data, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(raw)
}
