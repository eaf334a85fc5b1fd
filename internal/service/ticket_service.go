package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/h-shvedko/sociallyhub-sub010/internal/db"
	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/h-shvedko/sociallyhub-sub010/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type TicketService struct {
	tx db.Transactor

	tickets    repository.TicketRepository
	workspaces repository.WorkspaceRepository

	now func() time.Time
}

func NewTicketService(tx db.Transactor) *TicketService {
	return &TicketService{
		tx:  tx,
		now: time.Now,
	}
}

func ticketToModel(t *repository.Ticket) *model.Ticket {
	return &model.Ticket{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		OpenedBy:    t.OpenedBy,
		AssigneeID:  t.AssigneeID,
		Subject:     t.Subject,
		Body:        t.Body,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		ResolvedAt:  t.ResolvedAt,
	}
}

// validTicketTransitions: closed tickets only reopen; everything else moves
// freely between open, pending, resolved and closed.
func validTicketTransition(from, to model.TicketStatus) bool {
	if from == to {
		return false
	}
	if from == model.TicketStatusClosed {
		return to == model.TicketStatusOpen
	}
	return true
}

func (s *TicketService) OpenTicket(ctx context.Context, actorID string, ticket *model.Ticket) (*model.Ticket, *Error) {
	l := logger.FromContext(ctx)

	if sErr := requireRole(ctx, s.workspaces, ticket.WorkspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoTicket := &repository.Ticket{
		ID:          uuid.NewString(),
		WorkspaceID: ticket.WorkspaceID,
		OpenedBy:    actorID,
		Subject:     ticket.Subject,
		Body:        ticket.Body,
		Priority:    ticket.Priority,
		Status:      model.TicketStatusOpen,
	}

	if err := s.tickets.Create(ctx, repoTicket); err != nil {
		l.Error("failed to open ticket", zap.String("workspace_id", ticket.WorkspaceID), zap.Error(err))
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to open ticket")
	}

	return ticketToModel(repoTicket), nil
}

func (s *TicketService) AssignTicket(ctx context.Context, actorID, workspaceID, ticketID, assigneeID string) (*model.Ticket, *Error) {
	ticket := &model.Ticket{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesAdmin...); sErr != nil {
			return sErr
		}

		repoTicket, err := s.tickets.Get(txCtx, workspaceID, ticketID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "ticket not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get ticket")
		}

		if repoTicket.Status == model.TicketStatusClosed {
			return NewServiceError(ErrorCodeTicketClosed, "closed tickets cannot be assigned")
		}

		// The assignee must belong to the workspace.
		if _, err = s.workspaces.GetMember(txCtx, workspaceID, assigneeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NewServiceError(ErrorCodeNotFound, "assignee is not a member")
			}
			return NewServiceError(ErrorCodeUnspecified, "failed to check assignee")
		}

		assignee := &assigneeID
		patched, err := s.tickets.Patch(txCtx, &repository.TicketPatch{
			ID:          ticketID,
			WorkspaceID: workspaceID,
			AssigneeID:  &assignee,
		})
		if err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to assign ticket")
		}

		ticket = ticketToModel(patched)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return ticket, nil
}

func (s *TicketService) ChangeStatus(ctx context.Context, actorID, workspaceID, ticketID string, to model.TicketStatus) (*model.Ticket, *Error) {
	l := logger.FromContext(ctx)
	ticket := &model.Ticket{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesEditor...); sErr != nil {
			return sErr
		}

		repoTicket, err := s.tickets.Get(txCtx, workspaceID, ticketID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "ticket not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get ticket")
		}

		if !validTicketTransition(repoTicket.Status, to) {
			return NewServiceError(ErrorCodeTicketClosed, "invalid status transition")
		}

		patch := &repository.TicketPatch{
			ID:          ticketID,
			WorkspaceID: workspaceID,
			Status:      &to,
		}
		if to == model.TicketStatusResolved {
			now := s.now()
			resolvedAt := &now
			patch.ResolvedAt = &resolvedAt
		}

		patched, err := s.tickets.Patch(txCtx, patch)
		if err != nil {
			l.Error("failed to change ticket status", zap.String("ticket_id", ticketID), zap.Error(err))
			return NewServiceError(ErrorCodeUnspecified, "failed to change status")
		}

		ticket = ticketToModel(patched)
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return ticket, nil
}

func (s *TicketService) Comment(ctx context.Context, actorID, workspaceID, ticketID, body string) (*model.TicketComment, *Error) {
	comment := &model.TicketComment{}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if sErr := requireRole(txCtx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
			return sErr
		}

		repoTicket, err := s.tickets.Get(txCtx, workspaceID, ticketID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewServiceError(ErrorCodeNotFound, "ticket not found")
		case err != nil:
			return NewServiceError(ErrorCodeUnspecified, "failed to get ticket")
		}

		if repoTicket.Status == model.TicketStatusClosed {
			return NewServiceError(ErrorCodeTicketClosed, "closed tickets accept no comments")
		}

		repoComment := &repository.TicketComment{
			ID:       uuid.NewString(),
			TicketID: ticketID,
			AuthorID: actorID,
			Body:     body,
		}
		if err = s.tickets.AddComment(txCtx, repoComment); err != nil {
			return NewServiceError(ErrorCodeUnspecified, "failed to add comment")
		}

		comment = &model.TicketComment{
			ID:        repoComment.ID,
			TicketID:  repoComment.TicketID,
			AuthorID:  repoComment.AuthorID,
			Body:      repoComment.Body,
			CreatedAt: repoComment.CreatedAt,
		}
		return nil
	})

	if sErr := txError(err); sErr != nil {
		return nil, sErr
	}
	return comment, nil
}

func (s *TicketService) GetTicket(ctx context.Context, actorID, workspaceID, ticketID string) (*model.Ticket, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoTicket, err := s.tickets.Get(ctx, workspaceID, ticketID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, NewServiceError(ErrorCodeNotFound, "ticket not found")
	case err != nil:
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get ticket")
	}

	repoComments, err := s.tickets.GetComments(ctx, ticketID)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to get comments")
	}

	ticket := ticketToModel(repoTicket)
	for _, c := range repoComments {
		ticket.Comments = append(ticket.Comments, &model.TicketComment{
			ID:        c.ID,
			TicketID:  c.TicketID,
			AuthorID:  c.AuthorID,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return ticket, nil
}

func (s *TicketService) ListTickets(ctx context.Context, actorID, workspaceID string, status model.TicketStatus) ([]*model.Ticket, *Error) {
	if sErr := requireRole(ctx, s.workspaces, workspaceID, actorID, rolesAll...); sErr != nil {
		return nil, sErr
	}

	repoTickets, err := s.tickets.List(ctx, workspaceID, status)
	if err != nil {
		return nil, NewServiceError(ErrorCodeUnspecified, "failed to list tickets")
	}

	out := make([]*model.Ticket, 0, len(repoTickets))
	for _, t := range repoTickets {
		out = append(out, ticketToModel(t))
	}
	return out, nil
}

func (s *TicketService) WithTicketRepo(r repository.TicketRepository) *TicketService {
	s.tickets = r
	return s
}

func (s *TicketService) WithWorkspaceRepo(r repository.WorkspaceRepository) *TicketService {
	s.workspaces = r
	return s
}

func (s *TicketService) WithNow(now func() time.Time) *TicketService {
	s.now = now
	return s
}
