package rest

import (
	"strconv"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

// pageFromQuery reads ?page= and ?limit=. Values that do not parse are left
// at zero so the service applies its defaults.
func pageFromQuery(c *gin.Context) models.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.PageRequest{Page: page, Limit: limit}
}
