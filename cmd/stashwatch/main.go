// stashwatch is a terminal viewer for a linkstash account. It logs in,
// mirrors the bookmark set through the change feed and reprints the derived
// view whenever the server reports a mutation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linkstash/linkstash/internal/client"
	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/logger"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "linkstash base URL")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password (or STASH_PASSWORD)")
	search := flag.String("search", "", "filter: substring over title, url, description and tags")
	sortKey := flag.String("sort", string(domain.SortCreatedDesc), "sort: created-desc, created-asc, title-asc, title-desc")
	favorites := flag.Bool("favorites", false, "show favorites only")
	interval := flag.Duration("interval", 2*time.Second, "redraw interval")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("STASH_PASSWORD")
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "stashwatch: -email and -password (or STASH_PASSWORD) are required")
		os.Exit(2)
	}

	log := logger.New("warn", true)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hook, err := client.New(*server, log)
	if err != nil {
		log.Fatalf("invalid server URL: %v", err)
	}
	if err := hook.Login(ctx, *email, *password); err != nil {
		log.Fatalf("login failed: %v", err)
	}
	if err := hook.Open(ctx); err != nil {
		log.Fatalf("failed to open change feed: %v", err)
	}
	defer func() { _ = hook.Close() }()

	query := domain.ViewQuery{
		Search:        *search,
		Sort:          domain.SortKey(*sortKey),
		FavoritesOnly: *favorites,
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	render(hook, query)
	for {
		select {
		case <-ticker.C:
			render(hook, query)
		case <-ctx.Done():
			fmt.Println()
			return
		}
	}
}

func render(hook *client.Hook, q domain.ViewQuery) {
	if hook.Loading() {
		fmt.Println("loading...")
		return
	}

	view := hook.DeriveView(q)
	fmt.Print("\033[H\033[2J") // clear screen
	fmt.Printf("%d bookmark(s)\n\n", len(view))
	for _, bk := range view {
		marker := " "
		if bk.IsFavorite {
			marker = "★"
		}
		fmt.Printf("%s %-40s %s\n", marker, truncate(bk.Title, 40), bk.URL)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
