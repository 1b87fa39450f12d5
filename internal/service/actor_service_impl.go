package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/repository"
	"github.com/google/uuid"
)

type actorService struct {
	actors   repository.ActorRepo
	observer UseCaseObserver
}

func NewActorService(actors repository.ActorRepo, observers ...UseCaseObserver) ActorService {
	return &actorService{actors: actors, observer: useCaseObserverOrNoop(observers)}
}

func (s *actorService) Create(ctx context.Context, a *domain.Actor) (err error) {
	defer observe(ctx, s.observer, "create-actor", time.Now(), map[string]any{"role": a.Role}, &err)

	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return fmt.Errorf("actor name is required: %w", domain.ErrInvalidArgument)
	}
	if !isKnownRole(a.Role) {
		return fmt.Errorf("unknown role %q: %w", a.Role, domain.ErrInvalidArgument)
	}
	if a.Role.IsAgencyRole() && a.AgencyID == "" {
		return fmt.Errorf("role %s needs an agency: %w", a.Role, domain.ErrInvalidArgument)
	}
	if !a.Role.IsAgencyRole() && a.Role != domain.RoleAdmin {
		a.AgencyID = ""
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return s.actors.Create(ctx, a)
}

func (s *actorService) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	return s.actors.GetByID(ctx, id)
}

func (s *actorService) List(ctx context.Context) ([]*domain.Actor, error) {
	return s.actors.List(ctx)
}

func isKnownRole(r domain.Role) bool {
	for _, known := range domain.AllRoles {
		if r == known {
			return true
		}
	}
	return false
}
