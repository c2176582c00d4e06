package ui

import (
	"time"
)

// renderHeader renders the top bar: logo, backend health, API, last probe.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("Lazy Bird", styles.Logo)}

	snap := m.snapshot
	switch {
	case snap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case snap.HasHealth && snap.Health.Healthy():
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	case snap.HasHealth:
		parts = append(parts, bg.Render("● "+snap.Health.Status, styles.WarningText))
	default:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	}

	if m.apiURL != "" {
		parts = append(parts,
			bg.Pair("API", truncateMiddle(m.apiURL, 40), styles.FaintText, styles.MutedText))
	}

	if !snap.LastUpdated.IsZero() && m.width >= 80 {
		parts = append(parts,
			bg.Pair("probe", humanizeDuration(time.Since(snap.LastUpdated)), styles.FaintText, styles.MutedText))
	}
	if snap.LastError != nil && snap.IsOffline() && m.width >= 100 {
		parts = append(parts, bg.Render(truncateMiddle(snap.LastError.Error(), 50), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}
