package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/budgetflow/internal/domain"
	"github.com/alexanderramin/budgetflow/internal/repository"
)

// fullIDLen is the length of a canonical UUID string.
const fullIDLen = 36

// resolvePlanID accepts a full entity ID or the unique prefix shown in lists.
func resolvePlanID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if len(input) >= fullIDLen || input == "" {
		return input, nil
	}
	entities, err := app.Plans.List(ctx, repository.EntityFilter{})
	if err != nil {
		return "", fmt.Errorf("resolving plan %q: %w", input, err)
	}
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	return uniquePrefix("plan", input, ids)
}

// resolveActorID accepts a full actor ID or a unique prefix.
func resolveActorID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if len(input) >= fullIDLen || input == "" {
		return input, nil
	}
	actors, err := app.Actors.List(ctx)
	if err != nil {
		return "", fmt.Errorf("resolving actor %q: %w", input, err)
	}
	ids := make([]string, 0, len(actors))
	for _, a := range actors {
		ids = append(ids, a.ID)
	}
	return uniquePrefix("actor", input, ids)
}

func uniquePrefix(noun, prefix string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%s prefix %q is ambiguous: %w", noun, prefix, domain.ErrInvalidArgument)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%s %q: %w", noun, prefix, domain.ErrNotFound)
	}
	return match, nil
}
