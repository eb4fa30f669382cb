package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/responses"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// FileHandler serves stored generated files.
type FileHandler struct {
	generations generation.Service
	log         zerolog.Logger
}

func NewFileHandler(generations generation.Service, log zerolog.Logger) *FileHandler {
	return &FileHandler{
		generations: generations,
		log:         log.With().Str("component", "file-handler").Logger(),
	}
}

// Serve godoc
// @Summary      Download generated file
// @Tags         files
// @Produce      octet-stream
// @Param        file_id  path      int  true  "Generated file ID"
// @Success      200      {file}    binary
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /api/generated_files/{file_id} [get]
func (h *FileHandler) Serve(c *gin.Context) {
	fileID, err := strconv.ParseInt(c.Param("file_id"), 10, 64)
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "File ID must be an integer", "file-id-invalid")
		return
	}

	f, abs, err := h.generations.OpenFile(c.Request.Context(), fileID)
	if err != nil {
		responses.HandleError(c, err, "File not found")
		return
	}
	if f.MimeType != "" {
		c.Header("Content-Type", f.MimeType)
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.File(abs)
}
