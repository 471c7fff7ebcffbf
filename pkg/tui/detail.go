package tui

import (
	"fmt"
	"strings"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/store"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

// EntityMarkdown renders an entity and its stage requirements for the
// detail pane.
func EntityMarkdown(tr *tracker.Tracker, e catalog.Entity) string {
	var md strings.Builder

	md.WriteString("# " + e.Title() + "\n\n")

	meta := []string{"*" + catalog.Subtitle(e) + "*"}
	if badge := catalog.Badge(e); badge != "" {
		meta = append(meta, "**"+badge+"**")
	}
	c := tr.EntityProgress(e)
	if c.Total > 0 {
		meta = append(meta, fmt.Sprintf("**Progress:** %d/%d (%d%%)", c.Have, c.Total, c.Percent()))
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if s := e.Summary(); s != "" {
		md.WriteString(s + "\n\n")
	}

	for _, stage := range catalog.Normalize(e) {
		sc := tr.StageProgress(e, stage)
		md.WriteString("## " + stageName(stage))
		if sc.Total > 0 {
			md.WriteString(fmt.Sprintf(" (%d%%)", sc.Percent()))
		}
		md.WriteString("\n\n")

		rows := tr.StageRows(e, stage)
		if len(rows) == 0 {
			md.WriteString("No item requirements.\n\n")
		} else {
			md.WriteString("| | Item | Have | Need |\n|---|---|---|---|\n")
			for _, r := range rows {
				mark := " "
				if r.Done() {
					mark = "✓"
				} else if tr.Checklist.Linked(r.Key) {
					mark = "☐"
				}
				md.WriteString(fmt.Sprintf("| %s | %s | %d | %d |\n",
					mark, tr.Catalog.ItemName(r.Requirement.ItemID), r.Value, r.Requirement.Quantity))
			}
			md.WriteString("\n")
		}

		if stage.Reward != "" {
			md.WriteString("**Reward:** " + stage.Reward + "\n\n")
		}
	}
	return md.String()
}

// EntryMarkdown renders a checklist entry with where it is needed and
// what the catalog knows about the item.
func EntryMarkdown(cat *catalog.Catalog, e store.Entry) string {
	var md strings.Builder

	md.WriteString("# " + e.Name + "\n\n")
	md.WriteString(fmt.Sprintf("**Gathered:** %d / %d\n\n", e.Have, e.Total))

	if len(e.Links) > 0 || e.Manual > 0 {
		md.WriteString("## Needed for\n\n")
		for _, l := range e.Links {
			md.WriteString(fmt.Sprintf("- %s (%d)\n", l.Source, l.Need))
		}
		if e.Manual > 0 {
			md.WriteString(fmt.Sprintf("- %s (%d)\n", store.ManualSource, e.Manual))
		}
		md.WriteString("\n")
	}

	it, ok := cat.Item(e.ItemID)
	if !ok {
		md.WriteString("*Not in the current catalog.*\n")
		return md.String()
	}

	md.WriteString("## Item\n\n")
	var meta []string
	for _, f := range [][2]string{
		{"Rarity", it.Rarity},
		{"Type", it.Type},
		{"Category", it.Category},
		{"Keep for", it.KeepFor},
		{"Recycles to", it.RecyclesTo},
		{"Recycled from", it.RecycledFrom},
	} {
		if f[1] != "" {
			meta = append(meta, "**"+f[0]+":** "+f[1])
		}
	}
	if it.SellPrice > 0 {
		meta = append(meta, fmt.Sprintf("**Sells for:** %d", it.SellPrice))
	}
	if len(meta) > 0 {
		md.WriteString(strings.Join(meta, "  \n") + "\n\n")
	}

	if len(it.Locations) > 0 {
		md.WriteString("## Where to find\n\n")
		for _, loc := range it.Locations {
			line := "- " + loc.Map
			if loc.Area != "" {
				line += ", " + loc.Area
			}
			if len(loc.Spots) > 0 {
				line += ": " + strings.Join(loc.Spots, ", ")
			}
			md.WriteString(line + "\n")
		}
		md.WriteString("\n")
	}
	return md.String()
}
