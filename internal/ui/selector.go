package ui

import (
	"strings"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
)

const selectorPlaceholder = "-- Select a blog post --"

// selectorOption is one entry of the post selector. The placeholder has an
// empty value.
type selectorOption struct {
	Value      string
	Label      string
	Department string
}

// selectorOptions returns the placeholder followed by one option per post.
func selectorOptions(posts []blog.Post) []selectorOption {
	opts := make([]selectorOption, 0, len(posts)+1)
	opts = append(opts, selectorOption{Label: selectorPlaceholder})
	for _, p := range posts {
		opts = append(opts, selectorOption{
			Value:      p.OptionValue(),
			Label:      p.OptionLabel(),
			Department: p.Department,
		})
	}
	return opts
}

// renderSelector draws the options with the cursor row highlighted and the
// chosen value marked. A disabled selector is dimmed and shows no cursor.
func renderSelector(theme Theme, width int, posts []blog.Post, cursor int, selectedID string, disabled bool) string {
	styles := theme.Styles()
	opts := selectorOptions(posts)

	var b strings.Builder
	label := "Choose a post"
	if disabled {
		label += " (loading...)"
	}
	b.WriteString(styles.MutedText.Render(label))
	b.WriteString("\n")

	for i, opt := range opts {
		marker := "  "
		if opt.Value != "" && opt.Value == selectedID {
			marker = "● "
		}
		text := truncateEnd(opt.Label, width-4)

		var line string
		switch {
		case disabled:
			line = styles.FaintText.Render(marker + text)
		case i == cursor:
			line = styles.Selected.Width(width).Render(marker + text)
		case opt.Value == "":
			line = styles.MutedText.Render(marker + text)
		default:
			line = styles.Text.Render(marker) + styles.DepartmentText(opt.Department).Render(text)
		}
		b.WriteString(line)
		if i < len(opts)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
