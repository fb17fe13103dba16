package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/secure-users-api/internal/domain/entity"
	repo "github.com/oksasatya/secure-users-api/internal/domain/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already exists")
	ErrNoFieldsToUpdate = errors.New("no valid fields to update")
)

// EventPublisher delivers user lifecycle events. *helpers.RabbitPublisher implements it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserPatched = "user.patched"
	EventUserDeleted = "user.deleted"
)

// UserEvent is the message published after a successful mutation.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Service struct {
	Repo   repo.UserRepository
	Events EventPublisher
	Logger *logrus.Logger
}

// UserInput carries the seven writable fields, already validated and normalised.
type UserInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Country string
}

func NewService(repo repo.UserRepository, events EventPublisher, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, Events: events, Logger: logger}
}

func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Create checks email uniqueness, then inserts. The unique index still catches a
// concurrent insert of the same email and yields the same ErrEmailTaken.
func (s *Service) Create(ctx context.Context, in UserInput) (*entity.User, error) {
	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}
	u := &entity.User{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		City:    in.City,
		Country: in.Country,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, translate(err)
	}
	s.publish(ctx, EventUserCreated, u.ID)
	return u, nil
}

// Replace overwrites every writable field of an existing user.
func (s *Service) Replace(ctx context.Context, id int64, in UserInput) (*entity.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:      id,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		City:    in.City,
		Country: in.Country,
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, translate(err)
	}
	s.publish(ctx, EventUserUpdated, u.ID)
	return u, nil
}

// Patch updates only the supplied fields.
func (s *Service) Patch(ctx context.Context, id int64, changes repo.Changes) (*entity.User, error) {
	if !hasUpdatable(changes) {
		return nil, ErrNoFieldsToUpdate
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if email, ok := changes[repo.FieldEmail]; ok {
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
	}
	u, err := s.Repo.Patch(ctx, id, changes)
	if err != nil {
		return nil, translate(err)
	}
	s.publish(ctx, EventUserPatched, u.ID)
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.publish(ctx, EventUserDeleted, id)
	return nil
}

// ensureEmailFree fails with ErrEmailTaken when email belongs to a user other than selfID.
func (s *Service) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrEmailTaken
	}
	return nil
}

func (s *Service) publish(ctx context.Context, typ string, id int64) {
	if s.Events == nil {
		return
	}
	ev := UserEvent{Type: typ, UserID: id, OccurredAt: time.Now().UTC()}
	if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"event": typ, "user_id": id}).Warn("publish user event failed")
	}
}

func hasUpdatable(changes repo.Changes) bool {
	for _, f := range repo.UpdatableFields {
		if _, ok := changes[f]; ok {
			return true
		}
	}
	return false
}

func translate(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repo.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repo.ErrNoChanges):
		return ErrNoFieldsToUpdate
	}
	return err
}
