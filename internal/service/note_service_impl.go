package service

import (
	"context"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/nodusapp/nodus/internal/events"
	"github.com/nodusapp/nodus/internal/repository"
)

type noteService struct {
	notes    repository.NoteRepo
	projects repository.ProjectRepo
	events   events.Publisher
	now      clock
}

func NewNoteService(notes repository.NoteRepo, projects repository.ProjectRepo, publisher events.Publisher) NoteService {
	return &noteService{notes: notes, projects: projects, events: publisher, now: systemClock}
}

func (s *noteService) Create(ctx context.Context, in domain.NoteInput) (*domain.Note, error) {
	n, err := domain.NewNote(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, n.ProjectID); err != nil {
		return nil, err
	}

	now := s.now()
	n.CreatedAt, n.UpdatedAt = now, now
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}

	s.publish(ctx, n)
	return n, nil
}

func (s *noteService) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	return s.notes.GetByID(ctx, id)
}

func (s *noteService) Update(ctx context.Context, id int64, in domain.NoteInput) (*domain.Note, error) {
	existing, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := domain.NewNote(in)
	if err != nil {
		return nil, err
	}
	if n.ProjectID != existing.ProjectID {
		if _, err := s.projects.GetByID(ctx, n.ProjectID); err != nil {
			return nil, err
		}
	}

	n.ID = existing.ID
	n.CreatedAt = existing.CreatedAt
	n.UpdatedAt = s.now()
	if err := s.notes.Update(ctx, n); err != nil {
		return nil, err
	}

	s.publish(ctx, n)
	return n, nil
}

func (s *noteService) Delete(ctx context.Context, id int64) error {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, n)
	return nil
}

func (s *noteService) Search(ctx context.Context, projectID int64, text string, page, pageSize int) (*contract.NotePage, error) {
	if err := repository.CheckPage(page, pageSize); err != nil {
		return nil, err
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	notes, info, err := s.notes.Search(ctx, projectID, text, page, pageSize)
	if err != nil {
		return nil, err
	}

	out := &contract.NotePage{Notes: make([]contract.NoteSummary, len(notes)), Page: pageOf(info)}
	for i, n := range notes {
		out.Notes[i] = contract.NoteSummary{
			ID:        n.ID,
			ProjectID: n.ProjectID,
			Title:     n.Title,
			Excerpt:   n.Excerpt(),
			UpdatedAt: n.UpdatedAt,
		}
	}
	return out, nil
}

func (s *noteService) publish(ctx context.Context, n *domain.Note) {
	s.events.Publish(ctx, events.Event{Topic: events.NoteChanged, ProjectID: n.ProjectID, NoteID: n.ID})
}
