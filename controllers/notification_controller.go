package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/repositories"
	"github.com/HSouheill/dispensary_backend/websocket"
)

type NotificationController struct {
	notifications repositories.NotificationRepository
	hub           *websocket.Hub
}

func NewNotificationController(notifications repositories.NotificationRepository, hub *websocket.Hub) *NotificationController {
	return &NotificationController{notifications: notifications, hub: hub}
}

// List returns the caller's notifications, newest first
func (nc *NotificationController) List(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, "Invalid token", nil)
	}
	opts, err := listOptions(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, total, err := nc.notifications.List(ctx, userID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, "Notifications retrieved successfully", items, opts, total)
}

func (nc *NotificationController) MarkRead(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, "Invalid token", nil)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid notification ID", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := nc.notifications.MarkRead(ctx, userID, id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Notification marked as read", nil)
}

// Connect upgrades to a websocket that receives the caller's notifications live
func (nc *NotificationController) Connect(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return respond(c, http.StatusUnauthorized, "Invalid token", nil)
	}
	return websocket.HandleWebSocket(c, nc.hub, userID)
}
