package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
)

const postDateLayout = "Jan 2, 2006"

// formatPostDate renders created_at as a date, falling back to the raw value
// when it does not parse.
func formatPostDate(p blog.Post) string {
	t := p.ParsedCreatedAt()
	if t.IsZero() {
		return p.CreatedAt
	}
	return t.Local().Format(postDateLayout)
}

// formatLoadTime renders a measured duration in seconds with two decimals.
func formatLoadTime(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// renderMarkdown turns a post body into terminal output, returning the body
// unchanged if glamour cannot render it.
func renderMarkdown(body string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return strings.Trim(out, "\n")
}

// renderPostDisplay shows a post with its metadata and load time. body is
// the already rendered content.
func renderPostDisplay(theme Theme, width int, p blog.Post, loadTime time.Duration, body string) string {
	styles := theme.Styles()
	bg := NewBgStyle(theme.SurfaceAlt)
	alt := styles.WithBackground(theme.SurfaceAlt)

	meta := []string{
		bg.Pair("Author:", p.Author, alt.MutedText, alt.Text),
		bg.Pair("Department:", p.Department, alt.MutedText, alt.DepartmentText(p.Department)),
		bg.Pair("Date:", formatPostDate(p), alt.MutedText, alt.Text),
		bg.Pair("Load time:", formatLoadTime(loadTime), alt.MutedText, alt.WarningText.Bold(true)),
	}

	return strings.Join([]string{
		styles.Text.Bold(true).Render(p.Title),
		bg.FillLine(bg.Join(meta, "   "), width),
		body,
	}, "\n\n")
}
