package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/requests"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/responses"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// CollectionHandler exposes collection endpoints.
type CollectionHandler struct {
	collections collection.Service
	log         zerolog.Logger
}

func NewCollectionHandler(collections collection.Service, log zerolog.Logger) *CollectionHandler {
	return &CollectionHandler{
		collections: collections,
		log:         log.With().Str("component", "collection-handler").Logger(),
	}
}

// List godoc
// @Summary      List collections
// @Tags         collections
// @Produce      json
// @Success      200  {array}   collection.Collection
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/collections [get]
func (h *CollectionHandler) List(c *gin.Context) {
	items, err := h.collections.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "Failed to list collections")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create godoc
// @Summary      Create collection
// @Description  The id is chosen by the operator and must be unique.
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateCollectionRequest  true  "Collection"
// @Success      201      {object}  collection.Collection
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      409      {object}  responses.ErrorResponse
// @Router       /api/collections [post]
func (h *CollectionHandler) Create(c *gin.Context) {
	var req requests.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid collection payload: "+err.Error(), "collection-payload-invalid")
		return
	}
	params, ok := req.ToDomain()
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Collection ID must be an integer", "collection-id-invalid")
		return
	}
	item, err := h.collections.Create(c.Request.Context(), params)
	if err != nil {
		responses.HandleError(c, err, "Failed to create collection")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Get godoc
// @Summary      Get collection
// @Tags         collections
// @Produce      json
// @Param        id   path      int  true  "Collection ID"
// @Success      200  {object}  collection.Collection
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/collections/{id} [get]
func (h *CollectionHandler) Get(c *gin.Context) {
	id, ok := collectionIDParam(c)
	if !ok {
		return
	}
	item, err := h.collections.Get(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "Failed to load collection")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Update godoc
// @Summary      Update collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id       path      int                               true  "Collection ID"
// @Param        request  body      requests.UpdateCollectionRequest  true  "Fields to change"
// @Success      200      {object}  collection.Collection
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /api/collections/{id} [put]
func (h *CollectionHandler) Update(c *gin.Context) {
	id, ok := collectionIDParam(c)
	if !ok {
		return
	}
	var req requests.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid collection payload: "+err.Error(), "collection-payload-invalid")
		return
	}
	item, err := h.collections.Update(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "Failed to update collection")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary      Delete collection
// @Description  Removes the collection with its generations, files and selections.
// @Tags         collections
// @Produce      json
// @Param        id   path      int  true  "Collection ID"
// @Success      200  {object}  responses.MessageResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/collections/{id} [delete]
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, ok := collectionIDParam(c)
	if !ok {
		return
	}
	item, err := h.collections.Delete(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "Failed to delete collection")
		return
	}
	c.JSON(http.StatusOK, responses.MessageResponse{Message: fmt.Sprintf("Collection '%s' deleted", item.Name)})
}

// ImportCSV godoc
// @Summary      Import collections from CSV
// @Description  Header row must contain id, name and type. Rows with an existing id are skipped; bad rows are reported individually.
// @Tags         collections
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  collection.ImportReport
// @Failure      400   {object}  responses.ErrorResponse
// @Router       /api/collections/import-csv [post]
func (h *CollectionHandler) ImportCSV(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "CSV file is required in the 'file' field", "collection-csv-missing")
		return
	}
	f, err := fh.Open()
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Failed to read uploaded CSV", "collection-csv-unreadable")
		return
	}
	defer f.Close()

	report, err := h.collections.ImportCSV(c.Request.Context(), f)
	if err != nil {
		responses.HandleError(c, err, "Failed to import collections")
		return
	}
	h.log.Info().
		Str("file", fh.Filename).
		Int("created", report.Created).
		Int("skipped", report.Skipped).
		Int("errors", len(report.Errors)).
		Msg("collections imported")
	c.JSON(http.StatusOK, report)
}

func collectionIDParam(c *gin.Context) (int64, bool) {
	id, ok := collection.ParseID(c.Param("id"))
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Collection ID must be an integer", "collection-id-invalid")
		return 0, false
	}
	return id, true
}
