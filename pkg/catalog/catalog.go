package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when an entity or item id is not in the catalog.
	ErrNotFound = errors.New("not found")
	// ErrMissingID is returned when a catalog record has no id.
	ErrMissingID = errors.New("missing id")
)

// Fixture file names inside a catalog directory.
const (
	QuestsFile    = "quests.json"
	ItemsFile     = "items.json"
	ProjectsFile  = "projects.json"
	WorkbenchFile = "workbench.json"
)

//go:embed fixtures
var fixtures embed.FS

// Catalog is the static, read-only game data the tracker works against.
type Catalog struct {
	Items     []*Item
	Quests    []*Quest
	Projects  []*Project
	Workbench []*WorkbenchUpgrade

	itemsByID map[string]*Item
	sources   map[string][]string
}

// Default loads the catalog bundled with the binary.
func Default() (*Catalog, error) {
	sub, err := fs.Sub(fixtures, "fixtures")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Load reads the fixture files from fsys. Projects may be authored by hand
// as projects.yaml instead of projects.json, or omitted entirely.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}

	if err := readJSON(fsys, QuestsFile, &c.Quests); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, ItemsFile, &c.Items); err != nil {
		return nil, err
	}
	if err := readJSON(fsys, WorkbenchFile, &c.Workbench); err != nil {
		return nil, err
	}
	if err := readProjects(fsys, &c.Projects); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	c.index()
	return c, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func readProjects(fsys fs.FS, v *[]*Project) error {
	if _, err := fs.Stat(fsys, ProjectsFile); err == nil {
		return readJSON(fsys, ProjectsFile, v)
	}
	for _, name := range []string{"projects.yaml", "projects.yml"} {
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		return nil
	}
	return nil
}

func (c *Catalog) validate() error {
	for i, it := range c.Items {
		if it == nil || it.ID == "" {
			return fmt.Errorf("%s[%d]: %w", ItemsFile, i, ErrMissingID)
		}
	}
	for _, cat := range Categories {
		for i, e := range c.Entities(cat) {
			if e.EntityID() == "" {
				return fmt.Errorf("%s[%d]: %w", cat, i, ErrMissingID)
			}
		}
	}
	return nil
}

// index builds the item lookup and the item -> source label reverse index.
func (c *Catalog) index() {
	c.itemsByID = make(map[string]*Item, len(c.Items))
	for _, it := range c.Items {
		c.itemsByID[it.ID] = it
	}

	c.sources = make(map[string][]string)
	for _, cat := range Categories {
		for _, e := range c.Entities(cat) {
			label := SourceLabel(e)
			for _, stage := range Normalize(e) {
				for _, req := range stage.Requirements {
					if !containsString(c.sources[req.ItemID], label) {
						c.sources[req.ItemID] = append(c.sources[req.ItemID], label)
					}
				}
			}
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Entities returns every entity of a category in catalog order.
func (c *Catalog) Entities(cat Category) []Entity {
	var out []Entity
	switch cat {
	case CategoryQuest:
		for _, q := range c.Quests {
			out = append(out, q)
		}
	case CategoryProject:
		for _, p := range c.Projects {
			out = append(out, p)
		}
	case CategoryWorkbench:
		for _, w := range c.Workbench {
			out = append(out, w)
		}
	}
	return out
}

// Entity finds an entity by category and id.
func (c *Catalog) Entity(cat Category, id string) (Entity, error) {
	for _, e := range c.Entities(cat) {
		if e.EntityID() == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s %q: %w", cat, id, ErrNotFound)
}

// Item looks up an item by id.
func (c *Catalog) Item(id string) (*Item, bool) {
	it, ok := c.itemsByID[id]
	return it, ok
}

// ItemIndex returns the id -> item lookup. Callers must not modify it.
func (c *Catalog) ItemIndex() map[string]*Item {
	return c.itemsByID
}

// ItemName returns the display name for an item id, falling back to the id
// for requirements that reference items missing from the loot table.
func (c *Catalog) ItemName(id string) string {
	if it, ok := c.itemsByID[id]; ok && it.Name != "" {
		return it.Name
	}
	return id
}

// SourcesForItem returns the distinct source labels of every entity whose
// stages require itemID, in catalog order.
func (c *Catalog) SourcesForItem(itemID string) []string {
	return c.sources[itemID]
}

// SourceForKey returns the source label of the entity a progress key points at.
func (c *Catalog) SourceForKey(key ProgressKey) (string, bool) {
	if key.IsZero() {
		return "", false
	}
	e, err := c.Entity(key.Category, key.EntityID)
	if err != nil {
		return "", false
	}
	return SourceLabel(e), true
}

// FindItems resolves free text to catalog items: exact id or name first,
// then substring matches, then close spellings by edit distance.
func (c *Catalog) FindItems(query string, limit int) []*Item {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if it, ok := c.itemsByID[q]; ok {
		return []*Item{it}
	}

	type scored struct {
		item  *Item
		score int
	}
	var hits []scored
	slug := Slugify(q)
	for _, it := range c.Items {
		name := fold(it.Name)
		switch {
		case name == q:
			return []*Item{it}
		case strings.Contains(name, q) || strings.Contains(it.ID, slug):
			hits = append(hits, scored{it, 0})
		default:
			dist := levenshtein.ComputeDistance(slug, it.ID)
			if d := levenshtein.ComputeDistance(q, name); d < dist {
				dist = d
			}
			if dist <= distanceLimit(len(q)) {
				hits = append(hits, scored{it, dist})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score < hits[j].score
		}
		return hits[i].item.Name < hits[j].item.Name
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]*Item, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// Slugify lowercases text and collapses every run of non-alphanumerics to a
// single dash, matching the ids the scraper generates.
func Slugify(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Dir returns an fs.FS rooted at a catalog directory on disk.
func Dir(p string) fs.FS {
	return os.DirFS(p)
}
