package catalog

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Normalize maps an entity to its ordered stages.
//
//   - Quests return their authored stages, or a single synthesized objective
//     stage when they have none.
//   - Projects return their authored stages.
//   - Workbench upgrades always become exactly one stage for their level.
func Normalize(e Entity) []Stage {
	switch e := e.(type) {
	case *Quest:
		if len(e.Stages) > 0 {
			return e.Stages
		}
		name := e.Objective
		if name == "" {
			name = e.Description
		}
		if name == "" {
			name = "Objective"
		}
		label := "Quest"
		if e.Trader != "" {
			label = "Trader: " + e.Trader
		}
		return []Stage{{
			ID:           e.ID + "-objective",
			Name:         name,
			Requirements: []Requirement{},
			Reward:       e.Reward,
			StageLabel:   label,
		}}
	case *Project:
		return e.Stages
	case *WorkbenchUpgrade:
		level := strconv.Itoa(e.Level)
		return []Stage{{
			ID:           "level-" + level,
			Name:         e.Name,
			Requirements: e.Requirements,
			Reward:       e.Benefit,
			StageLabel:   "Level " + level,
		}}
	}
	return nil
}

// Subtitle is the one-line eyebrow shown above an entity's title.
func Subtitle(e Entity) string {
	switch e := e.(type) {
	case *Quest:
		var parts []string
		if e.Trader != "" {
			parts = append(parts, "Trader: "+e.Trader)
		}
		if e.RequiredLocation != "" {
			parts = append(parts, "Location: "+e.RequiredLocation)
		}
		if len(parts) == 0 {
			return "Quest chain"
		}
		return strings.Join(parts, " • ")
	case *Project:
		if e.Unlocks != "" {
			return e.Unlocks
		}
		return "Project build"
	case *WorkbenchUpgrade:
		return "Benefit: " + e.Benefit
	}
	return ""
}

// Badge is the short tag rendered next to an entity title, if any.
func Badge(e Entity) string {
	switch e := e.(type) {
	case *Quest:
		if e.Reward != "" {
			return "Reward"
		}
	case *WorkbenchUpgrade:
		return "Lv " + strconv.Itoa(e.Level)
	}
	return ""
}

// fold case-folds s for matching. A Caser carries state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether e matches a free-text filter. The entity's own
// text fields are searched first, then the names of every required item.
func Matches(e Entity, text string, items map[string]*Item) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	needle := fold(text)

	fields := []string{e.Title(), e.Summary()}
	if q, ok := e.(*Quest); ok {
		fields = append(fields, q.Trader, q.RequiredLocation, q.Reward)
	}
	if strings.Contains(fold(strings.Join(fields, " ")), needle) {
		return true
	}

	for _, stage := range Normalize(e) {
		for _, req := range stage.Requirements {
			if item, ok := items[req.ItemID]; ok && strings.Contains(fold(item.Name), needle) {
				return true
			}
		}
	}
	return false
}
