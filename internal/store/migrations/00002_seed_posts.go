package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upSeedPosts, downSeedPosts)
}

type seedPost struct {
	title      string
	department string
	author     string
	createdAt  time.Time
	content    string
}

var seedPosts = []seedPost{
	{
		title:      "Why Our Dashboards Load Slowly",
		department: "Engineering",
		author:     "Priya Raman",
		createdAt:  time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC),
		content: `Every dashboard widget issues its own query, and none of them are cached.

## What we measured

- 14 widgets, 14 round trips
- median widget query: 180ms
- the slowest widget decides when the page is usable

Batching the queries is the obvious first step.`,
	},
	{
		title:      "Q1 Campaign Retrospective",
		department: "Marketing",
		author:     "Diego Alvarez",
		createdAt:  time.Date(2025, 2, 3, 15, 0, 0, 0, time.UTC),
		content: `The spring campaign beat its signup target by 12%.

Most of the lift came from the comparison page. The blog posts linked from the
newsletter underperformed, mostly because readers bounced before they loaded.`,
	},
	{
		title:      "Onboarding Checklist for New Hires",
		department: "People",
		author:     "Hannah Okafor",
		createdAt:  time.Date(2025, 2, 20, 8, 0, 0, 0, time.UTC),
		content: `Welcome aboard. Your first week:

1. Pick up your laptop from IT
2. Read the handbook
3. Shadow a support shift
4. Ship one small change

Ask questions early. Nobody expects you to know where anything lives yet.`,
	},
	{
		title:      "Reading a Flame Graph",
		department: "Engineering",
		author:     "Marcus Webb",
		createdAt:  time.Date(2025, 3, 2, 11, 15, 0, 0, time.UTC),
		content: `Width is time, height is stack depth. Start from the widest plateau,
not the tallest tower.

` + "```" + `
go tool pprof -http=:8080 cpu.out
` + "```" + `

If one frame dominates and it is a database call, look at how many times it
runs before you look at how long each call takes.`,
	},
	{
		title:      "Updated Travel Policy",
		department: "Finance",
		author:     "Grace Lindqvist",
		createdAt:  time.Date(2025, 3, 18, 13, 45, 0, 0, time.UTC),
		content: `Economy fares for flights under six hours. Book through the portal at
least two weeks ahead unless your manager approves otherwise.

Receipts go in within 30 days of travel.`,
	},
	{
		title:      "Support Ticket Trends: March",
		department: "Customer Success",
		author:     "Tomás Ferreira",
		createdAt:  time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		content: `Ticket volume rose 9% over February.

The top category was **"page takes forever to load"**, followed by password
resets. Several customers noted that reopening the same article was just as
slow the second time.`,
	},
	{
		title:      "Designing for Empty States",
		department: "Design",
		author:     "Yuki Tanaka",
		createdAt:  time.Date(2025, 4, 22, 16, 30, 0, 0, time.UTC),
		content: `An empty list is a chance to teach. Say what will appear here, why it is
empty right now, and what to do next.

A spinner is not an empty state. Neither is a blank card.`,
	},
	{
		title:      "Indexing 101",
		department: "Engineering",
		author:     "Priya Raman",
		createdAt:  time.Date(2025, 5, 6, 9, 0, 0, 0, time.UTC),
		content: `A query that filters on an unindexed column reads every row.

` + "```sql" + `
EXPLAIN QUERY PLAN SELECT * FROM posts WHERE department = 'Engineering';
` + "```" + `

If the plan says SCAN, you are paying for the whole table on every request.`,
	},
	{
		title:      "Quarterly All-Hands Notes",
		department: "Leadership",
		author:     "Amara Nwosu",
		createdAt:  time.Date(2025, 5, 28, 17, 0, 0, 0, time.UTC),
		content: `Revenue is on plan. Hiring slows for Q3 while we focus on reliability.

The number one customer complaint is speed. Every team should pick one slow
path they own and make it fast before the next all-hands.`,
	},
	{
		title:      "Caching Without Regret",
		department: "Engineering",
		author:     "Marcus Webb",
		createdAt:  time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
		content: `Cache what is read often and written rarely. Blog posts are a textbook case.

Decide up front:

- what the key is
- how long an entry lives
- what invalidates it

Then measure the second load, not the first.`,
	},
}

func upSeedPosts(ctx context.Context, tx *sql.Tx) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (title, content, department, author, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range seedPosts {
		if _, err := stmt.ExecContext(ctx, p.title, p.content, p.department, p.author, p.createdAt); err != nil {
			return fmt.Errorf("seeding post %q: %w", p.title, err)
		}
	}
	return nil
}

func downSeedPosts(ctx context.Context, tx *sql.Tx) error {
	for _, p := range seedPosts {
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE title = ? AND author = ?`, p.title, p.author); err != nil {
			return fmt.Errorf("removing seed post %q: %w", p.title, err)
		}
	}
	return nil
}

// SeedCount is the number of posts the seed migration inserts.
func SeedCount() int {
	return len(seedPosts)
}
