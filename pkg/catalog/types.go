package catalog

// Category identifies which kind of entity a progress entry belongs to.
type Category string

const (
	CategoryQuest     Category = "quest"
	CategoryProject   Category = "project"
	CategoryWorkbench Category = "workbench"
)

// Categories lists every trackable category in display order.
var Categories = []Category{CategoryQuest, CategoryProject, CategoryWorkbench}

// Label returns the plural display name used in tabs and source labels.
func (c Category) Label() string {
	switch c {
	case CategoryQuest:
		return "Quests"
	case CategoryProject:
		return "Projects"
	case CategoryWorkbench:
		return "Workbench"
	default:
		return string(c)
	}
}

// ParseCategory accepts the category name or its label, singular or plural.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "quest", "quests", "Quests":
		return CategoryQuest, true
	case "project", "projects", "Projects":
		return CategoryProject, true
	case "workbench", "workbenches", "Workbench", "workshop":
		return CategoryWorkbench, true
	}
	return "", false
}

// ItemLocation describes where an item can be found.
type ItemLocation struct {
	Map       string   `json:"map" yaml:"map"`
	Area      string   `json:"area" yaml:"area"`
	Spots     []string `json:"spots" yaml:"spots"`
	Notes     string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	SourceURL string   `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
}

// Item is a loot item from the catalog. Items are read-only once loaded.
type Item struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Type         string         `json:"type,omitempty" yaml:"type,omitempty"`
	Rarity       string         `json:"rarity,omitempty" yaml:"rarity,omitempty"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Image        string         `json:"image,omitempty" yaml:"image,omitempty"`
	SourceURL    string         `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
	RecyclesTo   string         `json:"recyclesTo,omitempty" yaml:"recyclesTo,omitempty"`
	RecycledFrom string         `json:"recycledFrom,omitempty" yaml:"recycledFrom,omitempty"`
	SellPrice    int            `json:"sellPrice,omitempty" yaml:"sellPrice,omitempty"`
	MaxStack     int            `json:"maxStack,omitempty" yaml:"maxStack,omitempty"`
	Category     string         `json:"category,omitempty" yaml:"category,omitempty"`
	KeepFor      string         `json:"keepFor,omitempty" yaml:"keepFor,omitempty"`
	Locations    []ItemLocation `json:"locations" yaml:"locations"`
}

// Requirement is a single (item, quantity) pairing needed to complete a stage.
type Requirement struct {
	ItemID   string `json:"itemId" yaml:"itemId"`
	Quantity int    `json:"quantity" yaml:"quantity"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Stage is a milestone within an entity. Its ID is only unique within the
// owning entity.
type Stage struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Requirements []Requirement `json:"requirements" yaml:"requirements"`
	Reward       string        `json:"reward,omitempty" yaml:"reward,omitempty"`
	StageLabel   string        `json:"stageLabel,omitempty" yaml:"stageLabel,omitempty"`
}

// Entity is a trackable catalog record: *Quest, *Project or *WorkbenchUpgrade.
// The set is closed; Normalize dispatches on the concrete type.
type Entity interface {
	Category() Category
	EntityID() string
	Title() string
	Summary() string
	entity()
}

// Quest is a trader quest. Scraped quests usually carry no stages and are
// normalized into a single objective stage.
type Quest struct {
	ID               string  `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	Description      string  `json:"description,omitempty" yaml:"description,omitempty"`
	Stages           []Stage `json:"stages,omitempty" yaml:"stages,omitempty"`
	Faction          string  `json:"faction,omitempty" yaml:"faction,omitempty"`
	Trader           string  `json:"trader,omitempty" yaml:"trader,omitempty"`
	RequiredLocation string  `json:"requiredLocation,omitempty" yaml:"requiredLocation,omitempty"`
	Objective        string  `json:"objective,omitempty" yaml:"objective,omitempty"`
	Reward           string  `json:"reward,omitempty" yaml:"reward,omitempty"`
	Image            string  `json:"image,omitempty" yaml:"image,omitempty"`
	SourceURL        string  `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
}

// Project is a multi-stage community project with pre-authored stages.
type Project struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Stages      []Stage `json:"stages" yaml:"stages"`
	Unlocks     string  `json:"unlocks,omitempty" yaml:"unlocks,omitempty"`
	Image       string  `json:"image,omitempty" yaml:"image,omitempty"`
	SourceURL   string  `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
}

// WorkbenchUpgrade is one level of a workshop station.
type WorkbenchUpgrade struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Level        int           `json:"level" yaml:"level"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Requirements []Requirement `json:"requirements" yaml:"requirements"`
	Benefit      string        `json:"benefit" yaml:"benefit"`
	Image        string        `json:"image,omitempty" yaml:"image,omitempty"`
	SourceURL    string        `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
}

func (q *Quest) Category() Category { return CategoryQuest }
func (q *Quest) EntityID() string   { return q.ID }
func (q *Quest) Title() string      { return q.Name }
func (q *Quest) entity()            {}

// Summary falls back to the objective when a quest has no description.
func (q *Quest) Summary() string {
	if q.Description != "" {
		return q.Description
	}
	return q.Objective
}

func (p *Project) Category() Category { return CategoryProject }
func (p *Project) EntityID() string   { return p.ID }
func (p *Project) Title() string      { return p.Name }
func (p *Project) Summary() string    { return p.Description }
func (p *Project) entity()            {}

func (w *WorkbenchUpgrade) Category() Category { return CategoryWorkbench }
func (w *WorkbenchUpgrade) EntityID() string   { return w.ID }
func (w *WorkbenchUpgrade) Title() string      { return w.Name }
func (w *WorkbenchUpgrade) Summary() string    { return w.Description }
func (w *WorkbenchUpgrade) entity()            {}

// SourceLabel is the human-readable origin of a requirement, e.g.
// "Workbench: Scrappy Level 2".
func SourceLabel(e Entity) string {
	return e.Category().Label() + ": " + e.Title()
}
