package handler

import (
	"net/http"

	"packtrack/internal/model"
	"packtrack/internal/service"
	"packtrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	staff    service.StaffService
	sessions service.SessionService
	audit    service.AuditService
}

// NewStaffHandler sets up the routing dependencies for staff endpoints
func NewStaffHandler(staff service.StaffService, sessions service.SessionService, audit service.AuditService) *StaffHandler {
	return &StaffHandler{staff: staff, sessions: sessions, audit: audit}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := router.Group("/staff")
	{
		staff.GET("", h.ListStaff)
		staff.GET("/me", h.CurrentProfile)
		staff.GET("/:id", h.GetStaffByID)
		staff.POST("", h.CreateStaff)
		staff.PUT("/:id", h.UpdateStaff)
		staff.POST("/:id/deactivate", h.DeactivateStaff)
		staff.POST("/:id/reactivate", h.ReactivateStaff)
	}
}

// ListStaff handles GET /staff
// @Summary      List staff profiles
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /staff [get]
func (h *StaffHandler) ListStaff(c *gin.Context) {
	profiles, err := h.staff.LoadAllStaff(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch staff"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"staff": profiles,
		"total": len(profiles),
	}))
}

// CurrentProfile handles GET /staff/me
func (h *StaffHandler) CurrentProfile(c *gin.Context) {
	profile := h.staff.CurrentProfile()
	if profile == nil {
		var err error
		profile, err = h.staff.LoadCurrentProfile(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load profile"))
			return
		}
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "No staff profile for this account"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// GetStaffByID handles GET /staff/:id
// @Summary      Get staff profile by ID
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=model.StaffProfile}
// @Failure      404  {object}  response.Response
// @Router       /staff/{id} [get]
func (h *StaffHandler) GetStaffByID(c *gin.Context) {
	profile, err := h.staff.GetStaffByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Staff profile not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// CreateStaff handles POST /staff
// @Summary      Create a staff account
// @Description  Calls the admin-only create-staff function, provisioning the auth credential and the profile row
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.CreateStaffRequest  true  "Create Staff Payload"
// @Success      201      {object}  response.Response{data=service.StaffOpResult}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /staff [post]
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result := h.staff.CreateStaff(c.Request.Context(), req)
	if !result.Success {
		c.JSON(h.failureStatus(result), response.Error(h.failureStatus(result), result.Error))
		return
	}

	actorID, actorEmail := requestActor(c, h.sessions)
	h.audit.Record(c.Request.Context(), actorID, actorEmail, model.ActionCreateStaff, result.Profile.ID, result.Profile.FullName, nil)

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// UpdateStaff handles PUT /staff/:id
// @Summary      Update a staff profile
// @Tags         staff
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Profile ID"
// @Param        payload  body      model.UpdateStaffRequest  true  "Update Staff Payload"
// @Success      200      {object}  response.Response{data=service.StaffOpResult}
// @Failure      400      {object}  response.Response
// @Router       /staff/{id} [put]
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	var req model.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	result := h.staff.UpdateStaff(c.Request.Context(), c.Param("id"), req)
	if !result.Success {
		c.JSON(h.failureStatus(result), response.Error(h.failureStatus(result), result.Error))
		return
	}

	actorID, actorEmail := requestActor(c, h.sessions)
	h.audit.Record(c.Request.Context(), actorID, actorEmail, model.ActionUpdateStaff, result.Profile.ID, result.Profile.FullName, req)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeactivateStaff handles POST /staff/:id/deactivate — a soft delete
// @Summary      Deactivate staff
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=service.StaffOpResult}
// @Failure      400  {object}  response.Response
// @Router       /staff/{id}/deactivate [post]
func (h *StaffHandler) DeactivateStaff(c *gin.Context) {
	result := h.staff.DeactivateStaff(c.Request.Context(), c.Param("id"))
	if !result.Success {
		c.JSON(h.failureStatus(result), response.Error(h.failureStatus(result), result.Error))
		return
	}

	actorID, actorEmail := requestActor(c, h.sessions)
	h.audit.Record(c.Request.Context(), actorID, actorEmail, model.ActionDeactivateStaff, result.Profile.ID, result.Profile.FullName, nil)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ReactivateStaff handles POST /staff/:id/reactivate
// @Summary      Reactivate staff
// @Tags         staff
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=service.StaffOpResult}
// @Failure      400  {object}  response.Response
// @Router       /staff/{id}/reactivate [post]
func (h *StaffHandler) ReactivateStaff(c *gin.Context) {
	result := h.staff.ReactivateStaff(c.Request.Context(), c.Param("id"))
	if !result.Success {
		c.JSON(h.failureStatus(result), response.Error(h.failureStatus(result), result.Error))
		return
	}

	actorID, actorEmail := requestActor(c, h.sessions)
	h.audit.Record(c.Request.Context(), actorID, actorEmail, model.ActionReactivateStaff, result.Profile.ID, result.Profile.FullName, nil)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *StaffHandler) failureStatus(result service.StaffOpResult) int {
	switch result.Error {
	case "Only admins can create staff profiles", "Only admins can update staff profiles":
		return http.StatusForbidden
	case service.MsgNotAuthenticated:
		return http.StatusUnauthorized
	case "Staff profile not found":
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
