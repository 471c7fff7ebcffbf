package cli

import (
	"fmt"
	"strings"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/store"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

// JSON shapes printed with --json.

type entityView struct {
	Category catalog.Category `json:"category"`
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Subtitle string           `json:"subtitle,omitempty"`
	Summary  string           `json:"summary,omitempty"`
	Have     int              `json:"have"`
	Total    int              `json:"total"`
	Percent  int              `json:"percent"`
	Stages   []stageView      `json:"stages,omitempty"`
}

type stageView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Label        string            `json:"label,omitempty"`
	Reward       string            `json:"reward,omitempty"`
	Have         int               `json:"have"`
	Total        int               `json:"total"`
	Requirements []requirementView `json:"requirements"`
}

type requirementView struct {
	Key      string `json:"key"`
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Quantity int    `json:"quantity"`
	Done     bool   `json:"done"`
}

type entryView struct {
	ItemID  string       `json:"itemId"`
	Name    string       `json:"name"`
	Have    int          `json:"have"`
	Total   int          `json:"total"`
	Manual  int          `json:"manual,omitempty"`
	Sources []string     `json:"sources"`
	Links   []store.Link `json:"links"`
}

type itemView struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Rarity  string   `json:"rarity,omitempty"`
	Type    string   `json:"type,omitempty"`
	KeepFor string   `json:"keepFor,omitempty"`
	Sources []string `json:"sources"`
}

func newEntityView(tr *tracker.Tracker, e catalog.Entity, withStages bool) entityView {
	c := tr.EntityProgress(e)
	v := entityView{
		Category: e.Category(),
		ID:       e.EntityID(),
		Name:     e.Title(),
		Subtitle: catalog.Subtitle(e),
		Summary:  e.Summary(),
		Have:     c.Have,
		Total:    c.Total,
		Percent:  c.Percent(),
	}
	if !withStages {
		return v
	}
	for _, stage := range catalog.Normalize(e) {
		sc := tr.StageProgress(e, stage)
		sv := stageView{
			ID:           stage.ID,
			Name:         stage.Name,
			Label:        stage.StageLabel,
			Reward:       stage.Reward,
			Have:         sc.Have,
			Total:        sc.Total,
			Requirements: []requirementView{},
		}
		for _, r := range tr.StageRows(e, stage) {
			sv.Requirements = append(sv.Requirements, newRequirementView(tr, r))
		}
		v.Stages = append(v.Stages, sv)
	}
	return v
}

func newRequirementView(tr *tracker.Tracker, r tracker.Row) requirementView {
	return requirementView{
		Key:      r.Key.String(),
		ItemID:   r.Requirement.ItemID,
		Name:     tr.Catalog.ItemName(r.Requirement.ItemID),
		Value:    r.Value,
		Quantity: r.Requirement.Quantity,
		Done:     r.Done(),
	}
}

func newEntryView(e store.Entry) entryView {
	sources := e.Sources()
	if sources == nil {
		sources = []string{}
	}
	links := e.Links
	if links == nil {
		links = []store.Link{}
	}
	return entryView{
		ItemID:  e.ItemID,
		Name:    e.Name,
		Have:    e.Have,
		Total:   e.Total,
		Manual:  e.Manual,
		Sources: sources,
		Links:   links,
	}
}

func newItemView(cat *catalog.Catalog, it *catalog.Item) itemView {
	sources := cat.SourcesForItem(it.ID)
	if sources == nil {
		sources = []string{}
	}
	return itemView{
		ID:      it.ID,
		Name:    it.Name,
		Rarity:  it.Rarity,
		Type:    it.Type,
		KeepFor: it.KeepFor,
		Sources: sources,
	}
}

func completionIcon(c tracker.Completion) string {
	switch {
	case c.Complete():
		return "✓"
	case c.Have > 0:
		return "◐"
	default:
		return "○"
	}
}

func rowIcon(r tracker.Row) string {
	return completionIcon(tracker.Completion{Have: min(r.Value, r.Requirement.Quantity), Total: r.Requirement.Quantity})
}

func formatCompletion(c tracker.Completion) string {
	return fmt.Sprintf("%d/%d (%d%%)", c.Have, c.Total, c.Percent())
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
