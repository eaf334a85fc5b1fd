package api

import (
	"net/http"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) OpenTicket(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	ticket := &model.Ticket{}
	if err := h.decodeRequest(e, ticket); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}
	ticket.WorkspaceID = e.Param("workspace_id")

	l.Info("opening ticket",
		zap.String("workspace_id", ticket.WorkspaceID),
		zap.String("priority", string(ticket.Priority)))

	created, err := h.ticket.OpenTicket(e.Request().Context(), actorID(e), ticket)
	if err != nil {
		l.Error("failed to open ticket", zap.String("workspace_id", ticket.WorkspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) ListTickets(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	status := model.TicketStatus(e.QueryParam("status"))

	tickets, err := h.ticket.ListTickets(e.Request().Context(), actorID(e), workspaceID, status)
	if err != nil {
		l.Error("failed to list tickets", zap.String("workspace_id", workspaceID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, tickets)
}

func (h *Handler) GetTicket(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	ticketID := e.Param("ticket_id")

	ticket, err := h.ticket.GetTicket(e.Request().Context(), actorID(e), workspaceID, ticketID)
	if err != nil {
		l.Error("failed to get ticket", zap.String("ticket_id", ticketID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, ticket)
}

func (h *Handler) AssignTicket(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	ticketID := e.Param("ticket_id")

	var req struct {
		AssigneeID string `json:"assignee_id" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("assigning ticket",
		zap.String("ticket_id", ticketID),
		zap.String("assignee_id", req.AssigneeID))

	ticket, err := h.ticket.AssignTicket(e.Request().Context(), actorID(e), workspaceID, ticketID, req.AssigneeID)
	if err != nil {
		l.Error("failed to assign ticket", zap.String("ticket_id", ticketID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, ticket)
}

func (h *Handler) ChangeTicketStatus(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	ticketID := e.Param("ticket_id")

	var req struct {
		Status model.TicketStatus `json:"status" validate:"required,oneof=open pending resolved closed"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("changing ticket status",
		zap.String("ticket_id", ticketID),
		zap.String("status", string(req.Status)))

	ticket, err := h.ticket.ChangeStatus(e.Request().Context(), actorID(e), workspaceID, ticketID, req.Status)
	if err != nil {
		l.Error("failed to change ticket status", zap.String("ticket_id", ticketID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, ticket)
}

func (h *Handler) CommentTicket(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	workspaceID := e.Param("workspace_id")
	ticketID := e.Param("ticket_id")

	var req struct {
		Body string `json:"body" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	comment, err := h.ticket.Comment(e.Request().Context(), actorID(e), workspaceID, ticketID, req.Body)
	if err != nil {
		l.Error("failed to comment on ticket", zap.String("ticket_id", ticketID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, comment)
}
