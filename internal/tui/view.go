package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zatekoja/wardwatch/internal/application/services"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	staleBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("214")).
				Padding(0, 1)

	insightBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("31")).
				Padding(0, 1)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("124")).
				Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	noticeErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// View renders the UI
func (m Model) View() string {
	if m.mode == detailView {
		return m.detailViewContent()
	}
	return m.listViewContent()
}

func (m Model) listViewContent() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wardwatch — hospital ward availability"))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	if m.snapshot.FavoritesOnly {
		b.WriteString(dimStyle.Render("  [favorites only]"))
	}
	b.WriteString("\n")

	for _, banner := range m.banners() {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.listBody())
	b.WriteString("\n")

	if m.hasNotice {
		style := noticeStyle
		if m.notice.IsError {
			style = noticeErrorStyle
		}
		b.WriteString(style.Render(m.notice.Text))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move · f favorite · enter hospitals · o favorites-only · d dismiss insight · r refresh · / search · q quit"))
	return b.String()
}

func (m Model) banners() []string {
	var banners []string

	if m.snapshot.Freshness.IsStale {
		banners = append(banners, staleBannerStyle.Render(fmt.Sprintf(
			"⚠ Data was last scraped %d hours ago and may be out of date",
			m.snapshot.Freshness.HoursSinceLastScrape)))
	}

	if m.snapshot.Insight != nil {
		banners = append(banners, insightBannerStyle.Render(
			"ℹ "+m.snapshot.Insight.Text+dimStyle.Render("  (d to dismiss)")))
	}

	if m.snapshot.Phase == services.PhaseError && m.snapshot.ErrorMessage != "" {
		banners = append(banners, errorBannerStyle.Render("✗ "+m.snapshot.ErrorMessage))
	}

	return banners
}

func (m Model) listBody() string {
	if m.snapshot.Phase == services.PhaseLoading && len(m.snapshot.Rows) == 0 {
		return m.spinner.View() + " Loading wards…"
	}

	if len(m.snapshot.Rows) == 0 {
		if m.snapshot.Query != "" {
			return dimStyle.Render(fmt.Sprintf("No wards match %q", m.snapshot.Query))
		}
		return dimStyle.Render("No wards available")
	}

	var b strings.Builder
	if m.snapshot.Phase == services.PhaseLoading {
		b.WriteString(m.spinner.View() + " refreshing…\n")
	}

	for i, row := range m.snapshot.Rows {
		marker := "  "
		if row.Favorite {
			marker = favoriteStyle.Render("★ ")
		}
		if row.Pending {
			marker = m.spinner.View() + " "
		}

		line := fmt.Sprintf("%s%-32s %3d hospitals %5d places", marker, row.Ward.WardName, row.Ward.HospitalCount, row.Ward.TotalPlaces)
		if i == m.cursor && m.focus == focusList {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d wards", len(m.snapshot.Rows), m.snapshot.Meta.Total)))
	return b.String()
}

func (m Model) detailViewContent() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wardwatch — " + m.detailWard))
	b.WriteString("\n\n")

	switch {
	case m.detailErr != "":
		b.WriteString(errorBannerStyle.Render("✗ " + m.detailErr))
		b.WriteString("\n")
	case m.hospitals == nil:
		b.WriteString(m.spinner.View() + " Loading hospitals…\n")
	case len(m.hospitals) == 0:
		b.WriteString(dimStyle.Render("No hospitals report beds for this ward"))
		b.WriteString("\n")
	default:
		for _, h := range m.hospitals {
			district := ""
			if h.District != nil {
				district = dimStyle.Render(" · " + *h.District)
			}
			b.WriteString(fmt.Sprintf("%-36s %3d/%3d beds free%s\n", h.Name, h.AvailablePlaces, h.TotalPlaces, district))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc back · ctrl+c quit"))
	return b.String()
}
