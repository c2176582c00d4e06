package ui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatMetricValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{2013.4, "2013"},
		{2013.5, "2014"},
		{float32(1.6), "2"},
		{7, "7"},
		{int64(9), "9"},
		{"n/a", "n/a"},
		{1500 * time.Microsecond, "2"},
		{2*time.Second + 13*time.Millisecond, "2013"},
	}
	for _, tt := range tests {
		if got := formatMetricValue(tt.in); got != tt.want {
			t.Fatalf("formatMetricValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderMetrics_Variants(t *testing.T) {
	th := GetTheme("Nightfox")

	if got := renderMetrics(th, nil); got != "" {
		t.Fatalf("renderMetrics(nil) = %q, want empty", got)
	}

	single := renderMetrics(th, []Metric{{Label: "Load time", Value: 2013.2, Unit: "ms"}})
	if !strings.Contains(single, "Load time:") || !strings.Contains(single, "2013ms") {
		t.Fatalf("single metric = %q, want label and rounded value", single)
	}
	if strings.Contains(single, "\n") {
		t.Fatalf("single metric should render on one line, got %q", single)
	}

	multiple := renderMetrics(th, []Metric{
		{Label: "Last", Value: 2 * time.Second, Unit: "ms"},
		{Label: "Requests", Value: 3},
	})
	lines := strings.Split(multiple, "\n")
	if len(lines) != 2 {
		t.Fatalf("multiple metrics = %d lines, want label row and value row", len(lines))
	}
	if !strings.Contains(lines[0], "Last") || !strings.Contains(lines[0], "Requests") {
		t.Fatalf("label row = %q", lines[0])
	}
	if !strings.Contains(lines[1], "2000ms") || !strings.Contains(lines[1], "3") {
		t.Fatalf("value row = %q", lines[1])
	}
	if strings.Contains(multiple, "Last:") {
		t.Fatalf("multiple variant should not use label colons, got %q", multiple)
	}
}

func TestRenderError_Title(t *testing.T) {
	th := GetTheme("Nightfox")

	got := renderError(th, 60, errorBanner{Message: "Post not found"})
	if !strings.Contains(got, "Error") || !strings.Contains(got, "Post not found") {
		t.Fatalf("default title banner = %q", got)
	}

	got = renderError(th, 60, errorBanner{Title: "Backend down", Message: "boom"})
	if !strings.Contains(got, "Backend down") || strings.Contains(got, "Error") {
		t.Fatalf("custom title banner = %q", got)
	}

	got = renderError(th, 60, errorBanner{HideTitle: true, Message: "boom"})
	if strings.Contains(got, "Error") || !strings.Contains(got, "boom") {
		t.Fatalf("untitled banner = %q", got)
	}
}

func TestRenderSpinner_DefaultMessage(t *testing.T) {
	th := GetTheme("Nightfox")
	if got := renderSpinner(th, "*", ""); !strings.Contains(got, "Loading...") {
		t.Fatalf("renderSpinner default = %q, want Loading...", got)
	}
	if got := renderSpinner(th, "*", "Loading post..."); !strings.Contains(got, "Loading post...") {
		t.Fatalf("renderSpinner = %q, want custom message", got)
	}
}

func TestRenderLayout_Sections(t *testing.T) {
	th := GetTheme("Nightfox")
	base := layout{
		Title:       "Blog Content Delivery",
		Description: "desc",
		Content:     "CONTENT",
		Metrics:     []Metric{{Label: "Requests", Value: 1}},
	}

	got := renderLayout(th, 80, "*", base)
	for _, want := range []string{"Blog Content Delivery", "desc", "CONTENT", "Requests"} {
		if !strings.Contains(got, want) {
			t.Fatalf("layout missing %q:\n%s", want, got)
		}
	}

	loading := base
	loading.Loading = true
	loading.LoadingMessage = "Loading blog posts..."
	got = renderLayout(th, 80, "*", loading)
	if !strings.Contains(got, "Loading blog posts...") || strings.Contains(got, "CONTENT") || strings.Contains(got, "Requests") {
		t.Fatalf("loading layout should show only the spinner:\n%s", got)
	}

	failed := base
	failed.Error = "Failed to fetch posts: 500"
	got = renderLayout(th, 80, "*", failed)
	if !strings.Contains(got, "Failed to fetch posts: 500") || strings.Contains(got, "CONTENT") || strings.Contains(got, "Requests") {
		t.Fatalf("error layout should show only the error:\n%s", got)
	}
}

func TestSelectorOptions(t *testing.T) {
	opts := selectorOptions(samplePosts())
	if len(opts) != 3 {
		t.Fatalf("len(options) = %d, want 3", len(opts))
	}
	if opts[0].Value != "" || opts[0].Label != "-- Select a blog post --" {
		t.Fatalf("placeholder = %#v", opts[0])
	}
	if opts[1].Value != "1" || opts[1].Label != "Welcome (Engineering)" {
		t.Fatalf("first option = %#v", opts[1])
	}
}

func TestRenderPostDisplay(t *testing.T) {
	th := GetTheme("Nightfox")
	p := samplePosts()[0]

	got := renderPostDisplay(th, 80, p, 2013*time.Millisecond, "BODY")
	for _, want := range []string{"Welcome", "Author:", "Ada", "Department:", "Engineering", "Date:", "Load time:", "2.01s", "BODY"} {
		if !strings.Contains(got, want) {
			t.Fatalf("post display missing %q:\n%s", want, got)
		}
	}
}

func TestFormatPostDate(t *testing.T) {
	p := samplePosts()[0]
	want := p.ParsedCreatedAt().Local().Format("Jan 2, 2006")
	if got := formatPostDate(p); got != want {
		t.Fatalf("formatPostDate() = %q, want %q", got, want)
	}

	p.CreatedAt = "someday"
	if got := formatPostDate(p); got != "someday" {
		t.Fatalf("formatPostDate(unparseable) = %q, want raw value", got)
	}
}
