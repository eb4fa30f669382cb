package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/selection"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/requests"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/responses"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// SelectionHandler exposes cover selection.
type SelectionHandler struct {
	selections selection.Service
	log        zerolog.Logger
}

func NewSelectionHandler(selections selection.Service, log zerolog.Logger) *SelectionHandler {
	return &SelectionHandler{
		selections: selections,
		log:        log.With().Str("component", "selection-handler").Logger(),
	}
}

// SelectCover godoc
// @Summary      Select cover
// @Description  Pins a generation (and optionally one of its files) as the cover of a cell. Repeating the call replaces the previous choice.
// @Tags         selection
// @Accept       json
// @Produce      json
// @Param        request  body      requests.SelectCoverRequest  true  "Selection"
// @Success      200      {object}  selection.Result
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /api/select-cover [post]
func (h *SelectionHandler) SelectCover(c *gin.Context) {
	var req requests.SelectCoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid selection payload: "+err.Error(), "selection-payload-invalid")
		return
	}
	if req.CollectionID.Empty() || req.ProjectID == "" || req.GenerationID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"Missing required fields: collection_id, project_id, generation_id", "selection-required-fields")
		return
	}
	collectionID, ok := req.CollectionID.Int64()
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Collection ID must be an integer", "collection-id-invalid")
		return
	}

	domainReq := selection.Request{
		CollectionID: collectionID,
		ProjectID:    req.ProjectID,
		GenerationID: req.GenerationID,
	}
	if !req.GeneratedFileID.Empty() {
		fileID, ok := req.GeneratedFileID.Int64()
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "generated_file_id must be an integer", "selection-file-id-invalid")
			return
		}
		domainReq.GeneratedFileID = &fileID
	}

	result, err := h.selections.Select(c.Request.Context(), domainReq)
	if err != nil {
		responses.HandleError(c, err, "Failed to select cover")
		return
	}
	c.JSON(http.StatusOK, result)
}
