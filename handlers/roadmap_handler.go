package handlers

import (
	"strconv"

	"roadmap-review/helper"
	"roadmap-review/middleware"
	"roadmap-review/models"
	"roadmap-review/services"

	"github.com/gin-gonic/gin"
)

type RoadmapHandler struct {
	roadmapService services.RoadmapService
	Helper         *helper.HTTPHelper
}

func NewRoadmapHandler(roadmapService services.RoadmapService, h *helper.HTTPHelper) *RoadmapHandler {
	return &RoadmapHandler{roadmapService: roadmapService, Helper: h}
}

func (h *RoadmapHandler) actor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "User not found in context")
	}
	return actor, ok
}

func (h *RoadmapHandler) CreateRoadmap(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req models.CreateRoadmapRequest
	if err := h.Helper.BindJSON(c, &req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	roadmap, err := h.roadmapService.CreateRoadmap(c.Request.Context(), actor, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Roadmap created", roadmap)
}

func (h *RoadmapHandler) GetRoadmaps(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var params models.ListRoadmapsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error())
		return
	}
	normalizePaging(&params.Page, &params.Limit)

	roadmaps, total, err := h.roadmapService.ListRoadmaps(c.Request.Context(), actor, params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendPaginated(c, "Roadmaps loaded", roadmaps, params.Page, params.Limit, total)
}

func (h *RoadmapHandler) GetRoadmap(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	roadmap, err := h.roadmapService.GetRoadmap(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Roadmap loaded", roadmap)
}

// UpdateRoadmap is the single action endpoint: submit, approve,
// request-changes, approve-draft and edit.
func (h *RoadmapHandler) UpdateRoadmap(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req models.UpdateRoadmapRequest
	if err := h.Helper.BindJSON(c, &req); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	res, err := h.roadmapService.UpdateRoadmap(c.Request.Context(), c.Param("id"), actor, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendActionResult(c, res)
}

func (h *RoadmapHandler) DeleteRoadmap(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.roadmapService.DeleteRoadmap(c.Request.Context(), c.Param("id"), actor); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Roadmap deleted", nil)
}

func (h *RoadmapHandler) GetRoadmapVersions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	versions, err := h.roadmapService.ListVersions(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Versions loaded", versions)
}

func (h *RoadmapHandler) GetRoadmapVersion(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	n, err := strconv.Atoi(c.Param("version"))
	if err != nil || n < 1 {
		h.Helper.SendBadRequest(c, "Invalid version number")
		return
	}

	version, err := h.roadmapService.GetVersion(c.Request.Context(), c.Param("id"), n, actor)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Version loaded", version)
}

func (h *RoadmapHandler) GetPublicRoadmaps(c *gin.Context) {
	var params models.PublicRoadmapParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error())
		return
	}
	normalizePaging(&params.Page, &params.Limit)

	roadmaps, total, err := h.roadmapService.ListPublicRoadmaps(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendPaginated(c, "Roadmaps loaded", roadmaps, params.Page, params.Limit, total)
}

func (h *RoadmapHandler) GetPublicRoadmap(c *gin.Context) {
	roadmap, err := h.roadmapService.GetPublicRoadmap(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Roadmap loaded", roadmap)
}

// Set defaults
func normalizePaging(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = 20
	}
	if *limit > 100 {
		*limit = 100
	}
}
