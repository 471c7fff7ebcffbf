package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

const minWidth = 60
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := max(m.width, minWidth)
	h := max(m.height, minHeight)

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.confirm != confirmNone {
		return placeOverlay(m.renderConfirmModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2

	searchActive := m.isSearching || m.searchQuery != ""
	if searchActive {
		headerLines++
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}

	contentHeight := h - headerLines - footerLines

	leftWidth := m.listWidth()
	rightWidth := max(20, w-leftWidth-1)

	leftPanel := m.renderListPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sepColor := ColorGrayDim
	if m.focusedPane == 1 {
		sepColor = ColorPurple
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("raidlog")

	var parts []string
	for _, s := range m.tracker.Stats() {
		if s.Label == "Items" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d/%d", s.Label, s.Complete, s.Value))
	}
	stats := HeaderCountStyle.Render(strings.Join(parts, " • "))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg) + "  "
	}

	gap := max(1, width-lipgloss.Width(title)-lipgloss.Width(stats)-lipgloss.Width(status))
	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderTabs() string {
	var tabs []string
	for i := 0; i <= len(catalog.Categories); i++ {
		if i == m.tab {
			tabs = append(tabs, ActiveTabStyle.Render(m.tabLabel(i)))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(m.tabLabel(i)))
		}
	}
	return strings.Join(tabs, "")
}

func (m Model) renderSearchBar(width int) string {
	prefix := SearchBarStyle.Render(" / ")
	query := SearchBarStyle.Render(m.searchQuery)
	cursor := ""
	if m.isSearching {
		cursor = SearchBarStyle.Render("█")
	}

	countStr := ""
	if m.searchQuery != "" {
		countStr = SearchCountStyle.Render(fmt.Sprintf(" %d matches", len(m.searchMatchIDs)))
	}

	left := prefix + query + cursor
	pad := max(1, width-lipgloss.Width(left)-lipgloss.Width(countStr))
	return left + strings.Repeat(" ", pad) + countStr
}

func (m Model) renderListPanel(width, height int) string {
	var lines []string

	// Reserve the last line for the data directory.
	listHeight := max(1, height-1)

	if len(m.items) == 0 {
		switch {
		case m.searchQuery != "":
			lines = append(lines, FooterStyle.Render("Nothing matches."))
		case m.onChecklist():
			lines = append(lines, FooterStyle.Render("Checklist is empty. Press 'a' on a requirement to add it."))
		default:
			lines = append(lines, FooterStyle.Render("Nothing in this category."))
		}
	}

	// Scrolling window centred on the cursor.
	start, end := 0, len(m.items)
	if len(m.items) > listHeight {
		start = max(0, m.cursor-listHeight/2)
		end = start + listHeight
		if end > len(m.items) {
			end = len(m.items)
			start = max(0, end-listHeight)
		}
	}

	for i := start; i < end; i++ {
		lines = append(lines, m.renderListItem(m.items[i], i == m.cursor, width))
	}

	for len(lines) < listHeight {
		lines = append(lines, "")
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(ColorGrayDim).Render(m.dataDir))

	return strings.Join(lines, "\n")
}

func (m Model) renderListItem(item ListItem, isSelected bool, width int) string {
	indent := strings.Repeat(DepthIndent, item.Depth)

	expandIcon := "  "
	if item.Kind == KindEntity && item.HasChildren {
		expandIcon = IconCollapsed + " "
		if item.IsExpanded {
			expandIcon = IconExpanded + " "
		}
	}

	name := item.Name
	isSearchMatch := m.searchMatchIDs[item.ID]
	if isSearchMatch && m.searchQuery != "" {
		if isSelected {
			name = highlightMatch(name, m.searchQuery, SearchCharSelectedStyle, SelectedStyle)
		} else {
			name = highlightMatch(name, m.searchQuery, SearchCharStyle, SearchRowStyle)
		}
	}

	var suffix string
	switch item.Kind {
	case KindEntity:
		if badge := catalog.Badge(item.Entity); badge != "" {
			suffix = BadgeStyle.Render(badge) + " "
		}
		if item.Completion.Total > 0 {
			suffix += CountStyle.Render(fmt.Sprintf("%d%%", item.Completion.Percent()))
		}
	case KindStage:
		if item.Completion.Total > 0 {
			suffix = CountStyle.Render(fmt.Sprintf("%d%%", item.Completion.Percent()))
		}
	case KindRequirement:
		suffix = CountStyle.Render(fmt.Sprintf("%d/%d", item.Row.Value, item.Row.Requirement.Quantity))
		if m.tracker.Checklist.Linked(item.Row.Key) {
			suffix = LinkedStyle.Render(IconLinked) + " " + suffix
		}
	case KindEntry:
		suffix = CountStyle.Render(fmt.Sprintf("%d/%d", item.Entry.Have, item.Entry.Total))
	}

	left := indent + expandIcon + statusIcon(item.Completion) + " " + name
	pad := max(1, width-lipgloss.Width(left)-lipgloss.Width(suffix))
	line := left + strings.Repeat(" ", pad) + suffix

	if isSearchMatch && !isSelected {
		line = SearchRowStyle.Render(line)
	} else if isSelected {
		line = SelectedStyle.Render(line)
	}
	return line
}

func statusIcon(c tracker.Completion) string {
	switch {
	case c.Complete():
		return CompleteStyle.Render(IconComplete)
	case c.Have > 0:
		return InProgressStyle.Render(IconInProgress)
	default:
		return IncompleteStyle.Render(IconIncomplete)
	}
}

func (m Model) renderDetailPanel(width, height int) string {
	item, ok := m.selected()
	if !ok {
		return FooterStyle.Render(" Select something to see details")
	}

	var md string
	if item.Kind == KindEntry {
		md = EntryMarkdown(m.tracker.Catalog, item.Entry)
	} else {
		md = EntityMarkdown(m.tracker, item.Entity)
	}

	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}

	rendered = strings.TrimRight(rendered, "\n ")
	lines := strings.Split(rendered, "\n")

	scroll := min(m.scroll, len(lines)-1)
	lines = lines[max(0, scroll):]
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	help := m.keys.ShortHelp()
	switch {
	case m.isSearching:
		help = "type to search  enter/↓ keep filter  esc clear"
	case m.searchQuery != "":
		help = "esc/enter clear filter  ↑↓ nav"
	case m.focusedPane == 1:
		help = "↑↓ scroll details  tab list  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderConfirmModal() string {
	var b strings.Builder

	switch m.confirm {
	case confirmRemove:
		b.WriteString(ModalTitleStyle.Render("Remove From Checklist"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Remove '%s'? Recorded progress is kept.\n\n", m.tracker.Catalog.ItemName(m.confirmTarget)))
	case confirmClear:
		b.WriteString(ModalTitleStyle.Render("Clear Checklist"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Remove all %d entries? Recorded progress is kept.\n\n", m.tracker.Checklist.Len()))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// highlightMatch styles the first case-insensitive occurrence of query in
// name with charStyle and the rest with rowStyle.
func highlightMatch(name, query string, charStyle, rowStyle lipgloss.Style) string {
	idx := strings.Index(strings.ToLower(name), strings.ToLower(query))
	if idx < 0 || idx+len(query) > len(name) {
		return rowStyle.Render(name)
	}
	before := name[:idx]
	match := name[idx : idx+len(query)]
	after := name[idx+len(query):]

	var result string
	if before != "" {
		result += rowStyle.Render(before)
	}
	result += charStyle.Render(match)
	if after != "" {
		result += rowStyle.Render(after)
	}
	return result
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		if w := lipgloss.Width(line); w < width {
			return line + strings.Repeat(" ", width-w)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := max(0, (height-len(modalLines))/2)
	leftPadding := max(0, (width-lipgloss.Width(modalLines[0]))/2)

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}
	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}
