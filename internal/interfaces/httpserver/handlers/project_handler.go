package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/requests"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/responses"
	"github.com/Romer4ig/image-moderation/internal/utils/platformerrors"
)

// ProjectHandler exposes project endpoints.
type ProjectHandler struct {
	projects    project.Service
	generations generation.Service
	log         zerolog.Logger
}

func NewProjectHandler(projects project.Service, generations generation.Service, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projects:    projects,
		generations: generations,
		log:         log.With().Str("component", "project-handler").Logger(),
	}
}

// List godoc
// @Summary      List projects
// @Description  Returns every project ordered by name.
// @Tags         projects
// @Produce      json
// @Success      200  {array}   project.Project
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create godoc
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request  body      requests.CreateProjectRequest  true  "Project"
// @Success      201      {object}  project.Project
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req requests.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid project payload: "+err.Error(), "project-payload-invalid")
		return
	}
	p, err := h.projects.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get godoc
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  project.Project
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "Failed to load project")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update godoc
// @Summary      Update project
// @Description  Partial update; omitted fields keep their value.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Project ID"
// @Param        request  body      requests.UpdateProjectRequest  true  "Fields to change"
// @Success      200      {object}  project.Project
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      404      {object}  responses.ErrorResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	var req requests.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "Invalid project payload: "+err.Error(), "project-payload-invalid")
		return
	}
	p, err := h.projects.Update(c.Request.Context(), c.Param("id"), req.ToDomain())
	if err != nil {
		responses.HandleError(c, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete godoc
// @Summary      Delete project
// @Description  Removes the project with its generations, files and selections.
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  responses.MessageResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	p, err := h.projects.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "Failed to delete project")
		return
	}
	c.JSON(http.StatusOK, responses.MessageResponse{Message: "Project '" + p.Name + "' deleted"})
}

// Reindex godoc
// @Summary      Import existing images
// @Description  Scans the project's source_path and records one completed generation per image named after an existing collection id.
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  generation.ReindexReport
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /api/projects/{id}/reindex [post]
func (h *ProjectHandler) Reindex(c *gin.Context) {
	report, err := h.generations.Reindex(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "Failed to reindex project")
		return
	}
	c.JSON(http.StatusOK, report)
}
