package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

func parseCategory(s string) (catalog.Category, error) {
	cat, ok := catalog.ParseCategory(strings.TrimSpace(s))
	if !ok {
		return "", fmt.Errorf("unknown category %q (use quests, projects or workbench)", s)
	}
	return cat, nil
}

// resolveEntity finds an entity by id, or by a name that slugifies to the
// same thing.
func resolveEntity(cat *catalog.Catalog, category, input string) (catalog.Entity, error) {
	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	if e, err := cat.Entity(c, input); err == nil {
		return e, nil
	}

	slug := catalog.Slugify(input)
	for _, e := range cat.Entities(c) {
		if catalog.Slugify(e.Title()) == slug {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s %q: %w", c, input, catalog.ErrNotFound)
}

// resolveItem maps free text to exactly one catalog item.
func resolveItem(cat *catalog.Catalog, input string) (*catalog.Item, error) {
	matches := cat.FindItems(input, 5)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("item %q: %w", input, catalog.ErrNotFound)
	case 1:
		return matches[0], nil
	}

	names := make([]string, len(matches))
	for i, it := range matches {
		names[i] = fmt.Sprintf("%s (%s)", it.Name, it.ID)
	}
	return nil, fmt.Errorf("item %q is ambiguous, did you mean: %s", input, strings.Join(names, ", "))
}

// resolveChecklistItem finds the checklist entry for input. Entries for
// items no longer in the catalog can still be addressed by raw id.
func resolveChecklistItem(tr *tracker.Tracker, input string) (string, error) {
	if _, ok := tr.Checklist.Entry(input); ok {
		return input, nil
	}
	it, err := resolveItem(tr.Catalog, input)
	if err != nil {
		return "", err
	}
	if _, ok := tr.Checklist.Entry(it.ID); !ok {
		return "", fmt.Errorf("%s is not on the checklist: %w", it.Name, catalog.ErrNotFound)
	}
	return it.ID, nil
}

func resolveRow(tr *tracker.Tracker, input string) (tracker.Row, error) {
	key, err := catalog.ParseProgressKey(input)
	if err != nil {
		return tracker.Row{}, err
	}
	return tr.Row(key)
}

func parseCount(s, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a whole number", what, s)
	}
	return n, nil
}
