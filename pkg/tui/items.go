package tui

import (
	"strings"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/store"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

// ItemKind says what a list line stands for.
type ItemKind int

const (
	KindEntity ItemKind = iota
	KindStage
	KindRequirement
	KindEntry
)

// ListItem is one line of the flattened list pane.
type ListItem struct {
	ID          string // unique within a tab
	RootID      string // ID of the top-level line this one hangs under
	Kind        ItemKind
	Name        string
	Depth       int
	HasChildren bool
	IsExpanded  bool

	Entity     catalog.Entity
	Stage      catalog.Stage
	Row        tracker.Row
	Entry      store.Entry
	Completion tracker.Completion
}

func entityItemID(e catalog.Entity) string {
	return string(e.Category()) + "/" + e.EntityID()
}

// FlattenEntities lists entities in catalog order. An expanded entity is
// followed by each stage and the stage's requirement rows.
func FlattenEntities(tr *tracker.Tracker, entities []catalog.Entity, expandedState map[string]bool) []ListItem {
	var result []ListItem
	for _, e := range entities {
		id := entityItemID(e)
		stages := catalog.Normalize(e)
		item := ListItem{
			ID:          id,
			RootID:      id,
			Kind:        KindEntity,
			Name:        e.Title(),
			Entity:      e,
			HasChildren: len(stages) > 0,
			IsExpanded:  expandedState[id],
			Completion:  tr.EntityProgress(e),
		}
		result = append(result, item)
		if !item.HasChildren || !item.IsExpanded {
			continue
		}

		for _, stage := range stages {
			result = append(result, ListItem{
				ID:          id + "/" + stage.ID,
				RootID:      id,
				Kind:        KindStage,
				Name:        stageName(stage),
				Depth:       1,
				Entity:      e,
				Stage:       stage,
				HasChildren: len(stage.Requirements) > 0,
				IsExpanded:  true,
				Completion:  tr.StageProgress(e, stage),
			})
			for _, r := range tr.StageRows(e, stage) {
				result = append(result, ListItem{
					ID:     r.Key.String(),
					RootID: id,
					Kind:   KindRequirement,
					Name:   tr.Catalog.ItemName(r.Requirement.ItemID),
					Depth:  2,
					Entity: e,
					Stage:  stage,
					Row:    r,
					Completion: tracker.Completion{
						Have:  min(r.Value, r.Requirement.Quantity),
						Total: r.Requirement.Quantity,
					},
				})
			}
		}
	}
	return result
}

func stageName(s catalog.Stage) string {
	if s.StageLabel != "" && s.StageLabel != s.Name {
		return s.StageLabel + " · " + s.Name
	}
	return s.Name
}

// FlattenChecklist lists checklist entries in the order given.
func FlattenChecklist(entries []store.Entry) []ListItem {
	result := make([]ListItem, 0, len(entries))
	for _, e := range entries {
		result = append(result, ListItem{
			ID:         e.ItemID,
			RootID:     e.ItemID,
			Kind:       KindEntry,
			Name:       e.Name,
			Entry:      e,
			Completion: tracker.Completion{Have: e.Have, Total: e.Total},
		})
	}
	return result
}

// FilterItems keeps the lines whose top-level line matched.
func FilterItems(items []ListItem, matchIDs map[string]bool) []ListItem {
	var result []ListItem
	for _, item := range items {
		if matchIDs[item.RootID] {
			result = append(result, item)
		}
	}
	return result
}

// MatchItems returns the IDs of top-level lines matching query. Entities
// match on their text and required item names; checklist entries on item
// name, id and source labels.
func MatchItems(items []ListItem, query string, index map[string]*catalog.Item) map[string]bool {
	matches := make(map[string]bool)
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, item := range items {
		switch item.Kind {
		case KindEntity:
			if catalog.Matches(item.Entity, query, index) {
				matches[item.ID] = true
			}
		case KindEntry:
			hay := strings.ToLower(item.Entry.Name + " " + item.Entry.ItemID + " " + strings.Join(item.Entry.Sources(), " "))
			if strings.Contains(hay, needle) {
				matches[item.ID] = true
			}
		}
	}
	return matches
}
