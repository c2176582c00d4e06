package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultSpinnerMessage = "Loading..."
	defaultErrorTitle     = "Error"
)

// renderCard wraps content in the bordered panel every view sits in. extra is
// applied on top of the base card style.
func renderCard(theme Theme, width int, content string, extra ...lipgloss.Style) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		Padding(1, 2)
	if width > 0 {
		style = style.Width(width)
	}
	for _, e := range extra {
		style = style.Inherit(e)
	}
	return style.Render(content)
}

// renderSpinner shows the spinner frame next to message.
func renderSpinner(theme Theme, frame, message string) string {
	if message == "" {
		message = defaultSpinnerMessage
	}
	styles := theme.Styles()
	return styles.AccentText.Render(frame) + " " + styles.MutedText.Render(message)
}

// errorBanner is the error display. Title defaults to "Error" unless
// HideTitle is set.
type errorBanner struct {
	Title     string
	HideTitle bool
	Message   string
}

func renderError(theme Theme, width int, e errorBanner) string {
	styles := theme.Styles()
	title := e.Title
	if title == "" {
		title = defaultErrorTitle
	}
	var b strings.Builder
	if !e.HideTitle {
		b.WriteString(styles.DangerText.Render(title))
		b.WriteString("\n")
	}
	b.WriteString(styles.Text.Render(e.Message))

	banner := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(theme.Danger)).
		PaddingLeft(1)
	if width > 2 {
		banner = banner.Width(width - 2)
	}
	return banner.Render(b.String())
}

// Metric is one labelled value in the metrics footer.
type Metric struct {
	Label string
	// Value is a number (rounded for display) or a string shown verbatim.
	Value any
	Unit  string
}

// formatMetricValue rounds numbers to integers and leaves strings alone.
func formatMetricValue(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case int:
		return fmt.Sprintf("%d", n)
	case int64:
		return fmt.Sprintf("%d", n)
	case float64:
		return fmt.Sprintf("%d", int64(math.Round(n)))
	case float32:
		return fmt.Sprintf("%d", int64(math.Round(float64(n))))
	case time.Duration:
		return fmt.Sprintf("%d", n.Round(time.Millisecond).Milliseconds())
	default:
		return fmt.Sprint(v)
	}
}

// renderMetrics lays out metrics on one line for a single metric and as
// label-over-value columns otherwise.
func renderMetrics(theme Theme, metrics []Metric) string {
	if len(metrics) == 0 {
		return ""
	}
	styles := theme.Styles()

	if len(metrics) == 1 {
		m := metrics[0]
		return styles.MutedText.Render(m.Label+":") + " " +
			styles.Text.Bold(true).Render(formatMetricValue(m.Value)+m.Unit)
	}

	columns := make([]string, 0, len(metrics))
	for i, m := range metrics {
		col := lipgloss.JoinVertical(lipgloss.Left,
			styles.MutedText.Render(m.Label),
			styles.Text.Bold(true).Render(formatMetricValue(m.Value)+m.Unit),
		)
		if i < len(metrics)-1 {
			col = lipgloss.NewStyle().PaddingRight(4).Render(col)
		}
		columns = append(columns, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// layout is the fixed Title, Description, Content, Metrics template.
type layout struct {
	Title          string
	Description    string
	Content        string
	Metrics        []Metric
	Loading        bool
	LoadingMessage string
	Error          string
	ErrorTitle     string
}

// renderLayout renders l inside a card. The content section shows the
// spinner while loading, else the error, else the content; metrics only
// appear when neither loading nor failed.
func renderLayout(theme Theme, width int, spinnerFrame string, l layout) string {
	styles := theme.Styles()
	inner := width - 6 // border and padding
	if inner < 20 {
		inner = 20
	}

	sections := []string{
		styles.AccentText.Bold(true).Render(l.Title),
		styles.MutedText.Width(inner).Render(l.Description),
	}

	switch {
	case l.Loading:
		sections = append(sections, renderSpinner(theme, spinnerFrame, l.LoadingMessage))
	case l.Error != "":
		sections = append(sections, renderError(theme, inner, errorBanner{Title: l.ErrorTitle, Message: l.Error}))
	default:
		sections = append(sections, l.Content)
	}

	if len(l.Metrics) > 0 && !l.Loading && l.Error == "" {
		rule := styles.FaintText.Render(strings.Repeat("─", inner))
		sections = append(sections, rule+"\n"+renderMetrics(theme, l.Metrics))
	}

	return renderCard(theme, width, strings.Join(sections, "\n\n"))
}
