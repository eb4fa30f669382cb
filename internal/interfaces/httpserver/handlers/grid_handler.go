package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/grid"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/metrics"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/responses"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// GridHandler exposes the grid and cover picker reads.
type GridHandler struct {
	grid grid.Service
	log  zerolog.Logger
}

func NewGridHandler(service grid.Service, log zerolog.Logger) *GridHandler {
	return &GridHandler{
		grid: service,
		log:  log.With().Str("component", "grid-handler").Logger(),
	}
}

// GridData godoc
// @Summary      Grid page
// @Description  One page of collections with a cell per visible project. Cells show the selected cover, else the latest generation, else not_generated.
// @Tags         grid
// @Produce      json
// @Param        visible_project_ids       query     string  false  "Comma separated project ids; absent means every project"
// @Param        search                    query     string  false  "Name substring or exact collection id"
// @Param        type                      query     string  false  "Collection type"
// @Param        advanced                  query     string  false  "empty_positive, has_comment or no_dynamic"
// @Param        sort                      query     string  false  "id, name, created_at, type or last_generation_at"
// @Param        order                     query     string  false  "asc or desc"
// @Param        generation_status_filter  query     string  false  "not_selected or not_generated"
// @Param        page                      query     int     false  "Page number (1 based)"
// @Param        per_page                  query     int     false  "Page size, clamped to [1, 500]"
// @Success      200                       {object}  grid.Page
// @Failure      400                       {object}  responses.ErrorResponse
// @Router       /api/grid-data [get]
func (h *GridHandler) GridData(c *gin.Context) {
	raw := grid.RawQuery{
		Search:       c.Query("search"),
		Type:         c.Query("type"),
		Advanced:     c.Query("advanced"),
		Sort:         c.Query("sort"),
		Order:        c.Query("order"),
		StatusFilter: c.Query("generation_status_filter"),
		Page:         c.Query("page"),
		PerPage:      c.Query("per_page"),
	}
	if visible, ok := c.GetQuery("visible_project_ids"); ok {
		raw.VisibleProjectIDs = &visible
	}

	query, err := grid.ParseQuery(c.Request.Context(), raw)
	if err != nil {
		responses.HandleError(c, err, "Invalid grid query")
		return
	}

	start := time.Now()
	page, err := h.grid.Grid(c.Request.Context(), query)
	metrics.GridDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		responses.HandleError(c, err, "Failed to load grid")
		return
	}
	c.JSON(http.StatusOK, page)
}

// SelectionData godoc
// @Summary      Cover picker data
// @Description  The picker header plus every completed attempt of the requested projects for one collection.
// @Tags         grid
// @Produce      json
// @Param        collection_id       query     int     true   "Collection ID"
// @Param        initial_project_id  query     string  true   "Target project"
// @Param        project_ids         query     string  false  "Comma separated projects whose attempts to include"
// @Success      200                 {object}  grid.SelectionData
// @Failure      400                 {object}  responses.ErrorResponse
// @Failure      404                 {object}  responses.ErrorResponse
// @Router       /api/selection-data [get]
func (h *GridHandler) SelectionData(c *gin.Context) {
	collectionID, projectID, ok := pickerParams(c, "initial_project_id")
	if !ok {
		return
	}
	data, err := h.grid.SelectionData(c.Request.Context(), collectionID, grid.SplitIDs(c.Query("project_ids")), projectID)
	if err != nil {
		responses.HandleError(c, err, "Failed to load selection data")
		return
	}
	c.JSON(http.StatusOK, data)
}

// SelectionShell godoc
// @Summary      Cover picker header
// @Tags         grid
// @Produce      json
// @Param        collection_id       query     int     true  "Collection ID"
// @Param        initial_project_id  query     string  true  "Target project"
// @Success      200                 {object}  grid.SelectionShell
// @Failure      400                 {object}  responses.ErrorResponse
// @Failure      404                 {object}  responses.ErrorResponse
// @Router       /api/selection-shell [get]
func (h *GridHandler) SelectionShell(c *gin.Context) {
	collectionID, projectID, ok := pickerParams(c, "initial_project_id")
	if !ok {
		return
	}
	shell, err := h.grid.SelectionShell(c.Request.Context(), collectionID, projectID)
	if err != nil {
		responses.HandleError(c, err, "Failed to load selection shell")
		return
	}
	c.JSON(http.StatusOK, shell)
}

// SelectionAttempts godoc
// @Summary      Attempts of one cell
// @Description  Completed and failed generations of a (collection, project) pair with their files, newest first.
// @Tags         grid
// @Produce      json
// @Param        collection_id  query     int     true  "Collection ID"
// @Param        project_id     query     string  true  "Project ID"
// @Success      200            {array}   generation.Generation
// @Failure      400            {object}  responses.ErrorResponse
// @Failure      404            {object}  responses.ErrorResponse
// @Router       /api/selection-attempts [get]
func (h *GridHandler) SelectionAttempts(c *gin.Context) {
	collectionID, projectID, ok := pickerParams(c, "project_id")
	if !ok {
		return
	}
	attempts, err := h.grid.SelectionAttempts(c.Request.Context(), collectionID, projectID)
	if err != nil {
		responses.HandleError(c, err, "Failed to load attempts")
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func pickerParams(c *gin.Context, projectParam string) (int64, string, bool) {
	rawCollection := c.Query("collection_id")
	projectID := c.Query(projectParam)
	if rawCollection == "" || projectID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation,
			"Missing collection_id or "+projectParam, "picker-params-missing")
		return 0, "", false
	}
	collectionID, ok := collection.ParseID(rawCollection)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Collection ID must be an integer", "collection-id-invalid")
		return 0, "", false
	}
	return collectionID, projectID, true
}
