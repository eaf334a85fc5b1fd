package service

import (
	"context"
	"testing"
	"time"

	"github.com/h-shvedko/sociallyhub-sub010/internal/model"
	"github.com/h-shvedko/sociallyhub-sub010/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidTicketTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from model.TicketStatus
		to   model.TicketStatus
		want bool
	}{
		{name: "open to pending", from: model.TicketStatusOpen, to: model.TicketStatusPending, want: true},
		{name: "open to resolved", from: model.TicketStatusOpen, to: model.TicketStatusResolved, want: true},
		{name: "resolved to closed", from: model.TicketStatusResolved, to: model.TicketStatusClosed, want: true},
		{name: "closed reopens", from: model.TicketStatusClosed, to: model.TicketStatusOpen, want: true},
		{name: "closed to resolved", from: model.TicketStatusClosed, to: model.TicketStatusResolved, want: false},
		{name: "closed to pending", from: model.TicketStatusClosed, to: model.TicketStatusPending, want: false},
		{name: "same status", from: model.TicketStatusOpen, to: model.TicketStatusOpen, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, validTicketTransition(tt.from, tt.to))
		})
	}
}

func TestTicketService_ChangeStatus(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from     model.TicketStatus
		to       model.TicketStatus
		wantCode ErrorCode
	}{
		{name: "resolves an open ticket", from: model.TicketStatusOpen, to: model.TicketStatusResolved},
		{name: "closed tickets only reopen", from: model.TicketStatusClosed, to: model.TicketStatusResolved, wantCode: ErrorCodeTicketClosed},
		{name: "reopens a closed ticket", from: model.TicketStatusClosed, to: model.TicketStatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tickets := new(MockTicketRepository)
			workspaces := new(MockWorkspaceRepository)

			workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
				Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "admin"}, nil)
			tickets.On("Get", mock.Anything, "ws-1", "ticket-1").
				Return(&repository.Ticket{ID: "ticket-1", WorkspaceID: "ws-1", Status: tt.from}, nil)
			tickets.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.TicketPatch) bool {
				if p.Status == nil || *p.Status != tt.to {
					return false
				}
				if tt.to == model.TicketStatusResolved {
					return p.ResolvedAt != nil && *p.ResolvedAt != nil && (*p.ResolvedAt).Equal(now)
				}
				return p.ResolvedAt == nil
			})).Return(&repository.Ticket{ID: "ticket-1", WorkspaceID: "ws-1", Status: tt.to}, nil)

			svc := NewTicketService(new(MockTransactor)).
				WithTicketRepo(tickets).
				WithWorkspaceRepo(workspaces).
				WithNow(func() time.Time { return now })

			got, sErr := svc.ChangeStatus(context.Background(), "user-1", "ws-1", "ticket-1", tt.to)

			if tt.wantCode != "" {
				require.NotNil(t, sErr)
				assert.Equal(t, tt.wantCode, sErr.Code)
				return
			}

			require.Nil(t, sErr)
			assert.Equal(t, tt.to, got.Status)
		})
	}
}

func TestTicketService_AssignTicket(t *testing.T) {
	t.Parallel()

	t.Run("assignee must be a member", func(t *testing.T) {
		t.Parallel()

		tickets := new(MockTicketRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "owner"}, nil)
		tickets.On("Get", mock.Anything, "ws-1", "ticket-1").
			Return(&repository.Ticket{ID: "ticket-1", Status: model.TicketStatusOpen}, nil)
		workspaces.On("GetMember", mock.Anything, "ws-1", "stranger").
			Return(nil, repository.ErrNotFound)

		svc := NewTicketService(new(MockTransactor)).
			WithTicketRepo(tickets).
			WithWorkspaceRepo(workspaces)

		_, sErr := svc.AssignTicket(context.Background(), "actor-1", "ws-1", "ticket-1", "stranger")

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeNotFound, sErr.Code)
	})

	t.Run("closed tickets cannot be assigned", func(t *testing.T) {
		t.Parallel()

		tickets := new(MockTicketRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "owner"}, nil)
		tickets.On("Get", mock.Anything, "ws-1", "ticket-1").
			Return(&repository.Ticket{ID: "ticket-1", Status: model.TicketStatusClosed}, nil)

		svc := NewTicketService(new(MockTransactor)).
			WithTicketRepo(tickets).
			WithWorkspaceRepo(workspaces)

		_, sErr := svc.AssignTicket(context.Background(), "actor-1", "ws-1", "ticket-1", "user-2")

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeTicketClosed, sErr.Code)
	})

	t.Run("assigns to a member", func(t *testing.T) {
		t.Parallel()

		assignee := "user-2"
		tickets := new(MockTicketRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "actor-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "actor-1", Role: "admin"}, nil)
		tickets.On("Get", mock.Anything, "ws-1", "ticket-1").
			Return(&repository.Ticket{ID: "ticket-1", Status: model.TicketStatusOpen}, nil)
		workspaces.On("GetMember", mock.Anything, "ws-1", "user-2").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-2", Role: "editor"}, nil)
		tickets.On("Patch", mock.Anything, mock.MatchedBy(func(p *repository.TicketPatch) bool {
			return p.AssigneeID != nil && *p.AssigneeID != nil && **p.AssigneeID == "user-2"
		})).Return(&repository.Ticket{ID: "ticket-1", Status: model.TicketStatusOpen, AssigneeID: &assignee}, nil)

		svc := NewTicketService(new(MockTransactor)).
			WithTicketRepo(tickets).
			WithWorkspaceRepo(workspaces)

		got, sErr := svc.AssignTicket(context.Background(), "actor-1", "ws-1", "ticket-1", "user-2")

		require.Nil(t, sErr)
		require.NotNil(t, got.AssigneeID)
		assert.Equal(t, "user-2", *got.AssigneeID)
	})
}

func TestTicketService_Comment(t *testing.T) {
	t.Parallel()

	t.Run("closed tickets accept no comments", func(t *testing.T) {
		t.Parallel()

		tickets := new(MockTicketRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "viewer"}, nil)
		tickets.On("Get", mock.Anything, "ws-1", "ticket-1").
			Return(&repository.Ticket{ID: "ticket-1", Status: model.TicketStatusClosed}, nil)

		svc := NewTicketService(new(MockTransactor)).
			WithTicketRepo(tickets).
			WithWorkspaceRepo(workspaces)

		_, sErr := svc.Comment(context.Background(), "user-1", "ws-1", "ticket-1", "hello")

		require.NotNil(t, sErr)
		assert.Equal(t, ErrorCodeTicketClosed, sErr.Code)
		tickets.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything)
	})

	t.Run("viewers can comment on open tickets", func(t *testing.T) {
		t.Parallel()

		tickets := new(MockTicketRepository)
		workspaces := new(MockWorkspaceRepository)

		workspaces.On("GetMember", mock.Anything, "ws-1", "user-1").
			Return(&repository.Member{WorkspaceID: "ws-1", UserID: "user-1", Role: "viewer"}, nil)
		tickets.On("Get", mock.Anything, "ws-1", "ticket-1").
			Return(&repository.Ticket{ID: "ticket-1", Status: model.TicketStatusOpen}, nil)
		tickets.On("AddComment", mock.Anything, mock.MatchedBy(func(c *repository.TicketComment) bool {
			return c.TicketID == "ticket-1" && c.AuthorID == "user-1" && c.Body == "hello"
		})).Return(nil)

		svc := NewTicketService(new(MockTransactor)).
			WithTicketRepo(tickets).
			WithWorkspaceRepo(workspaces)

		got, sErr := svc.Comment(context.Background(), "user-1", "ws-1", "ticket-1", "hello")

		require.Nil(t, sErr)
		assert.Equal(t, "hello", got.Body)
		tickets.AssertExpectations(t)
	})
}
