package handler

import (
	"net/http"
	"time"

	"packtrack/internal/model"
	"packtrack/internal/service"
	"packtrack/pkg/response"

	"github.com/gin-gonic/gin"
)

type ShowMessageRequest struct {
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Message        string `json:"message" binding:"required"`
	Variant        string `json:"variant"`
	AutoClose      *bool  `json:"auto_close"`
	AutoCloseDelay int    `json:"auto_close_delay_ms"`
}

type NotifyHandler struct {
	notify service.NotifyService
}

func NewNotifyHandler(notify service.NotifyService) *NotifyHandler {
	return &NotifyHandler{notify: notify}
}

func (h *NotifyHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/messages")
	{
		messages.GET("/:queue", h.ListMessages)
		messages.POST("/:queue", h.ShowMessage)
		messages.DELETE("/:queue", h.DismissAll)
		messages.DELETE("/:queue/:id", h.Dismiss)
	}
}

func validQueue(name string) bool {
	return name == service.QueueToast || name == service.QueueBanner || name == service.QueueNotification
}

func (h *NotifyHandler) ListMessages(c *gin.Context) {
	queue := c.Param("queue")
	if !validQueue(queue) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Unknown queue"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.notify.Messages(queue)))
}

func (h *NotifyHandler) ShowMessage(c *gin.Context) {
	queue := c.Param("queue")
	if !validQueue(queue) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Unknown queue"))
		return
	}

	var req ShowMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	severity := req.Severity
	if severity == "" {
		severity = model.SeverityInfo
	}

	id := h.notify.Show(queue, severity, req.Message, &model.MessageOptions{
		Variant:        req.Variant,
		Title:          req.Title,
		AutoClose:      req.AutoClose,
		AutoCloseDelay: time.Duration(req.AutoCloseDelay) * time.Millisecond,
	})

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, map[string]string{"id": id}))
}

func (h *NotifyHandler) Dismiss(c *gin.Context) {
	queue := c.Param("queue")
	if !validQueue(queue) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Unknown queue"))
		return
	}
	if !h.notify.Dismiss(queue, c.Param("id")) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Message not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Dismissed"))
}

func (h *NotifyHandler) DismissAll(c *gin.Context) {
	queue := c.Param("queue")
	if !validQueue(queue) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Unknown queue"))
		return
	}
	h.notify.DismissAll(queue)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Dismissed"))
}
