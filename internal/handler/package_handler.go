package handler

import (
	"context"
	"net/http"
	"strconv"

	"packtrack/internal/model"
	"packtrack/internal/service"
	ws "packtrack/internal/websocket"
	"packtrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	packages service.PackageService
	sessions service.SessionService
	notify   service.NotifyService
	audit    service.AuditService
	hub      *ws.Hub
}

// NewPackageHandler sets up the routing dependencies for package endpoints
func NewPackageHandler(packages service.PackageService, sessions service.SessionService, notify service.NotifyService, audit service.AuditService, hub *ws.Hub) *PackageHandler {
	return &PackageHandler{packages: packages, sessions: sessions, notify: notify, audit: audit, hub: hub}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *PackageHandler) RegisterRoutes(router *gin.RouterGroup) {
	packages := router.Group("/packages")
	{
		packages.GET("", h.ListPackages)
		packages.GET("/statistics", h.Statistics)
		packages.GET("/reference/:reference", h.GetByReference)
		packages.GET("/:id", h.GetByID)
		packages.GET("/:id/lock-status", h.LockStatus)
		packages.POST("", h.CreatePackage)
		packages.PUT("/:id", h.UpdatePackage)
		packages.POST("/:id/pickup", h.DriverPickup)
		packages.POST("/:id/receive", h.ReceiveAtCollection)
	}
}

// ListPackages handles GET /packages with optional filters
// @Summary      List packages
// @Description  Loads the package list, optionally filtered by status or a search term across reference and receiver email
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status equality filter"
// @Param        search  query     string  false  "Search term"
// @Param        limit   query     int     false  "Row cap"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /packages [get]
func (h *PackageHandler) ListPackages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	filters := model.PackageFilters{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  limit,
	}
	if filters.Status != "" && !model.IsValidStatus(filters.Status) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown status filter"))
		return
	}

	packages, err := h.packages.LoadPackages(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch packages"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"packages": packages,
		"total":    len(packages),
	}))
}

// Statistics handles GET /packages/statistics for the dashboard charts
// @Summary      Package statistics
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /packages/statistics [get]
func (h *PackageHandler) Statistics(c *gin.Context) {
	counts, err := h.packages.StatusCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute statistics"))
		return
	}

	recent, err := h.packages.RecentPackages(c.Request.Context(), 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute statistics"))
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"by_status": counts,
		"total":     total,
		"recent":    recent,
	}))
}

// GetByID handles GET /packages/:id
// @Summary      Get package by ID
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /packages/{id} [get]
func (h *PackageHandler) GetByID(c *gin.Context) {
	pkg, err := h.packages.GetPackageByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Package not found"))
		return
	}
	h.respondDetail(c, pkg)
}

// GetByReference handles GET /packages/reference/:reference. Reference
// codes are case-insensitive.
// @Summary      Get package by reference code
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        reference  path      string  true  "Reference code"
// @Success      200        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /packages/reference/{reference} [get]
func (h *PackageHandler) GetByReference(c *gin.Context) {
	pkg, err := h.packages.GetPackageByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Package not found"))
		return
	}
	h.respondDetail(c, pkg)
}

func (h *PackageHandler) respondDetail(c *gin.Context, pkg *model.Package) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"package":     pkg,
		"next_action": model.NextActionLabel(pkg.Status),
		"is_final":    model.IsFinalStatus(pkg.Status),
	}))
}

// LockStatus handles GET /packages/:id/lock-status
// @Summary      POD lock status
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response{data=model.PackageLockStatus}
// @Failure      500  {object}  response.Response
// @Router       /packages/{id}/lock-status [get]
func (h *PackageHandler) LockStatus(c *gin.Context) {
	status, err := h.packages.LockStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch lock status"))
		return
	}
	if status == nil {
		status = &model.PackageLockStatus{}
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, status))
}

// CreatePackage handles POST /packages
// @Summary      Create a package
// @Description  Calls the create-package function; the backend assigns id and reference and emails the receiver
// @Tags         packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.CreatePackageRequest  true  "Create Package Payload"
// @Success      201      {object}  response.Response{data=service.PackageOpResult}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /packages [post]
func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req model.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result := h.packages.CreatePackage(c.Request.Context(), req)
	if !result.Success {
		h.notify.Error(result.Error)
		c.JSON(h.failureStatus(result), response.Error(h.failureStatus(result), result.Error))
		return
	}

	actorID, actorEmail := requestActor(c, h.sessions)
	h.audit.Record(c.Request.Context(), actorID, actorEmail, model.ActionCreatePackage, result.Package.ID, result.Package.Reference, req)
	h.hub.BroadcastEvent(ws.EventPackageChanged, result.Package)
	h.notify.Success("Package " + result.Package.Reference + " created")
	if result.EmailError != "" {
		h.notify.Warning("Receiver notification failed: " + result.EmailError)
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// UpdatePackage handles PUT /packages/:id
// @Summary      Update a package
// @Description  Calls the update-package function; a POD-locked package is rejected with a conflict
// @Tags         packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Package ID"
// @Param        payload  body      model.UpdatePackageRequest  true  "Update Package Payload"
// @Success      200      {object}  response.Response{data=service.PackageOpResult}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /packages/{id} [put]
func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	var req model.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	req.PackageID = c.Param("id")
	if req.Status != "" && !model.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unknown status"))
		return
	}

	result := h.packages.UpdatePackage(c.Request.Context(), req)
	if !result.Success {
		status := h.failureStatus(result)
		if result.IsLocked {
			status = http.StatusConflict
		}
		h.notify.Error(result.Error)
		c.JSON(status, response.Error(status, result.Error))
		return
	}

	actorID, actorEmail := requestActor(c, h.sessions)
	h.audit.Record(c.Request.Context(), actorID, actorEmail, model.ActionUpdatePackage, result.Package.ID, result.Package.Reference, req)
	h.hub.BroadcastEvent(ws.EventPackageChanged, result.Package)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DriverPickup handles POST /packages/:id/pickup
// @Summary      Driver pickup
// @Description  Marks the package picked up by the driver and notifies the receiver
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response{data=service.PackageOpResult}
// @Failure      400  {object}  response.Response
// @Router       /packages/{id}/pickup [post]
func (h *PackageHandler) DriverPickup(c *gin.Context) {
	h.runTransition(c, model.ActionDriverPickup, h.packages.DriverPickup)
}

// ReceiveAtCollection handles POST /packages/:id/receive
// @Summary      Receive at collection point
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response{data=service.PackageOpResult}
// @Failure      400  {object}  response.Response
// @Router       /packages/{id}/receive [post]
func (h *PackageHandler) ReceiveAtCollection(c *gin.Context) {
	h.runTransition(c, model.ActionReceiveAtCollection, h.packages.ReceiveAtCollection)
}

func (h *PackageHandler) runTransition(c *gin.Context, action string, fn func(ctx context.Context, id string) service.PackageOpResult) {
	id := c.Param("id")
	result := fn(c.Request.Context(), id)
	if !result.Success {
		h.notify.Error(result.Error)
		c.JSON(h.failureStatus(result), response.Error(h.failureStatus(result), result.Error))
		return
	}

	actorID, actorEmail := requestActor(c, h.sessions)
	h.audit.Record(c.Request.Context(), actorID, actorEmail, action, result.Package.ID, result.Package.Reference, nil)
	h.hub.BroadcastEvent(ws.EventPackageChanged, result.Package)
	h.notify.Success("Package " + result.Package.Reference + ": " + result.Package.Status)
	if result.EmailError != "" {
		h.notify.Warning("Receiver notification failed: " + result.EmailError)
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *PackageHandler) failureStatus(result service.PackageOpResult) int {
	if result.Error == service.MsgNotAuthenticated {
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}
