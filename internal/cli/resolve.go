package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// parseID reads a positive numeric id, accepting a leading "#".
func parseID(what, input string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(input), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, input)
	}
	return id, nil
}

// resolveProjectID resolves a --project value which can be:
//   - A numeric id, optionally prefixed with "#"
//   - A project name (case-insensitive) or unique name prefix
func resolveProjectID(ctx context.Context, app *App, input string) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("project is required (use --project)")
	}
	if id, err := parseID("project", input); err == nil {
		return id, nil
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []int64
	lower := strings.ToLower(input)
	for _, p := range projects {
		if strings.HasPrefix(strings.ToLower(p.Name), lower) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("project name %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveCurrencyID maps an ISO code to its id.
func resolveCurrencyID(ctx context.Context, app *App, code string) (int64, error) {
	c, err := app.Currencies.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}
