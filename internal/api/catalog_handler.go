package api

import (
	"net/http"

	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/domain"
	"benfit/meustreinos/internal/planner"
	"benfit/meustreinos/internal/tracker"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the static lookup data the clients render pickers from.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

type GoalResponse struct {
	ID    domain.Goal `json:"id"`
	Label string      `json:"label"`
	Sets  int         `json:"sets"`
	Reps  string      `json:"reps"`
	Rest  string      `json:"rest"`
}

// Muscles godoc
// @Summary List muscle groups
// @Tags Catalog
// @Produce json
// @Success 200 {array} string
// @Router /catalog/muscles [get]
func (h *CatalogHandler) Muscles(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Muscles)
}

// Avatars godoc
// @Summary List selectable avatars
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Avatar
// @Router /catalog/avatars [get]
func (h *CatalogHandler) Avatars(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Avatars)
}

// Goals godoc
// @Summary List training goals with their prescription
// @Tags Catalog
// @Produce json
// @Success 200 {array} GoalResponse
// @Router /catalog/goals [get]
func (h *CatalogHandler) Goals(c *gin.Context) {
	goals := make([]GoalResponse, 0, len(domain.Goals))
	for _, g := range domain.Goals {
		schema := planner.SchemaFor(g)
		goals = append(goals, GoalResponse{
			ID:    g,
			Label: g.Label(),
			Sets:  schema.Sets,
			Reps:  schema.Reps,
			Rest:  schema.Rest,
		})
	}
	c.JSON(http.StatusOK, goals)
}

// Trophies godoc
// @Summary List trophy levels
// @Tags Catalog
// @Produce json
// @Success 200 {array} tracker.Trophy
// @Router /catalog/trophies [get]
func (h *CatalogHandler) Trophies(c *gin.Context) {
	c.JSON(http.StatusOK, tracker.Trophies())
}
