package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/nibzard/taskdeck/internal/paging"
	"github.com/nibzard/taskdeck/internal/posts"
	"github.com/nibzard/taskdeck/internal/utils"
)

// newPostsClient builds the client for the configured endpoint.
func (c *cli) newPostsClient() *posts.Client {
	client := posts.NewClient(c.cfg.PostsURL, Version)
	client.Timeout = c.cfg.FetchTimeout()
	client.Logger = c.logger
	return client
}

// postsCommand fetches posts once and prints a page of them.
func (c *cli) postsCommand(ctx context.Context, args []string) error {
	fs := c.newFlagSet("posts")
	search := fs.String("search", "", "Only show posts whose title, body or tags contain the term")
	page := fs.Int("page", 1, "Page to show")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if remaining := fs.Args(); len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	list, err := c.newPostsClient().Fetch(ctx)
	if err != nil {
		return err
	}

	cursor := paging.NewCursor(c.cfg.PostsPageSize)
	cursor.SetTerm(*search)
	res := paging.Apply(cursor, list, posts.SearchFields, posts.Tags)
	cursor.Goto(*page, res.Page.TotalPages)
	res = paging.Apply(cursor, list, posts.SearchFields, posts.Tags)

	n := len(res.Filtered)
	fmt.Fprintf(c.stdout, "Found %d post%s\n", n, utils.Plural(n))
	if res.Page.Empty() {
		fmt.Fprintln(c.stdout, "No posts found matching your search.")
		return nil
	}
	fmt.Fprintln(c.stdout)
	for _, p := range res.Page.Items {
		fmt.Fprintf(c.stdout, "#%d %s\n", p.ID, p.Title)
		fmt.Fprintf(c.stdout, "    %s\n", oneLine(p.Body, 100))
		meta := fmt.Sprintf("User ID: %d", p.UserID)
		if len(p.Tags) > 0 {
			meta += "  tags: " + strings.Join(p.Tags, ", ")
		}
		fmt.Fprintf(c.stdout, "    %s\n", meta)
	}
	if res.Page.ShowControls() {
		fmt.Fprintf(c.stdout, "\nPage %d of %d  pages: %s\n", res.Page.Number, res.Page.TotalPages, windowString(res.Window, res.Page.Number))
	}
	return nil
}

// oneLine collapses whitespace and truncates to n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// windowString renders a page window with the current page in brackets.
func windowString(window []int, current int) string {
	parts := make([]string, 0, len(window))
	for _, n := range window {
		if n == current {
			parts = append(parts, fmt.Sprintf("[%d]", n))
		} else {
			parts = append(parts, fmt.Sprintf("%d", n))
		}
	}
	return strings.Join(parts, " ")
}
