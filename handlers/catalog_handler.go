package handlers

import (
	"roadmap-review/helper"
	"roadmap-review/services"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService services.CatalogService
	Helper         *helper.HTTPHelper
}

func NewCatalogHandler(catalogService services.CatalogService, h *helper.HTTPHelper) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, Helper: h}
}

func (h *CatalogHandler) GetDomains(c *gin.Context) {
	domains, err := h.catalogService.ListDomains(c.Request.Context())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Domains loaded", domains)
}
