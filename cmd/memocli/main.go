// memocli is a terminal client for a memo backend. It drives the same
// stores and view computations an interactive frontend would.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"memoclient/application/store"
	"memoclient/application/views"
	"memoclient/domain"
	"memoclient/infrastructure/config"
	"memoclient/infrastructure/di"
)

func main() {
	creator := flag.String("creator", "", "username whose feed to show")
	tag := flag.String("tag", "", "only memos carrying this tag")
	text := flag.String("text", "", "only memos containing this text")
	visibility := flag.String("visibility", "", "only memos with this visibility")
	days := flag.Int("days", 30, "heat-map window in days")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}
	defer container.Close()

	command := flag.Arg(0)
	if command == "" {
		command = "feed"
	}

	container.Filter.SetTag(*tag)
	container.Filter.SetText(*text)
	container.Filter.SetVisibility(domain.Visibility(*visibility))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command {
	case "feed":
		err = runFeed(ctx, container, *creator)
	case "explore":
		err = runExplore(ctx, container)
	case "tags":
		err = runTags(ctx, container, *creator)
	case "stats":
		err = runStats(ctx, container, *creator, *days)
	default:
		err = fmt.Errorf("unknown command %q (want feed, explore, tags or stats)", command)
	}
	if err != nil {
		container.Logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFeed renders one user's memo feed with the local filters applied
func runFeed(ctx context.Context, c *di.Container, creator string) error {
	if creator == "" {
		return fmt.Errorf("-creator is required for the feed command")
	}

	criteria := store.ProfileCriteria(creator)
	if err := fetchAll(ctx, c, criteria); err != nil {
		return err
	}

	feed := views.Feed(c.MemoStore.ListCached(), c.Filter.State(), views.FeedOptions{
		Creator:              creator,
		TopLevelOnly:         true,
		DisplayWithUpdatedTs: c.Config.DisplayWithUpdatedTs,
	})
	printMemos(c, feed)
	return nil
}

// runExplore renders the shared explore feed
func runExplore(ctx context.Context, c *di.Container) error {
	state := c.Filter.State()
	criteria := store.ExploreCriteria(c.Config.AccessToken != "", state.Tag, state.Text)
	if err := fetchAll(ctx, c, criteria); err != nil {
		return err
	}

	feed := views.Feed(c.MemoStore.ListCached(), state, views.FeedOptions{
		TopLevelOnly:         true,
		DisplayWithUpdatedTs: c.Config.DisplayWithUpdatedTs,
	})
	printMemos(c, feed)
	return nil
}

// runTags prints the creator's tag tree
func runTags(ctx context.Context, c *di.Container, creator string) error {
	name := ""
	if creator != "" {
		name = domain.FormatUserName(creator)
	}
	if _, err := c.TagStore.Fetch(ctx, name); err != nil {
		return err
	}
	for _, node := range c.TagStore.Tree() {
		printTagNode(node, 0)
	}
	return nil
}

// runStats prints the per-day memo counts of the trailing window
func runStats(ctx context.Context, c *di.Container, creator string, days int) error {
	if creator == "" {
		return fmt.Errorf("-creator is required for the stats command")
	}

	timestamps, err := c.MemoStore.Stats(ctx, creator)
	if err != nil {
		return err
	}

	for _, day := range views.DailyCounts(timestamps, days, time.Now()) {
		if day.Count == 0 {
			continue
		}
		fmt.Printf("%s  %d\n", time.Unix(day.Timestamp, 0).Format("2006-01-02"), day.Count)
	}
	return nil
}

// fetchAll pages through the listing until the backend reports no more
func fetchAll(ctx context.Context, c *di.Container, criteria store.ListCriteria) error {
	token := ""
	for {
		_, next, err := c.MemoStore.FetchPage(ctx, criteria, c.Config.PageSize, token)
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		token = next
	}
}

func printMemos(c *di.Container, memos []*domain.Memo) {
	for _, memo := range memos {
		marker := " "
		if memo.Pinned {
			marker = "*"
		}
		ts := time.Unix(memo.DisplayTs(c.Config.DisplayWithUpdatedTs), 0).Format("2006-01-02 15:04")
		content := memo.Content
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			content = content[:i]
		}
		fmt.Printf("%s %s  #%d  %s\n", marker, ts, memo.ID, content)
	}
}

func printTagNode(node *domain.TagNode, depth int) {
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), node.Text)
	for _, child := range node.Children {
		printTagNode(child, depth+1)
	}
}
