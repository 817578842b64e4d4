// Command feedctl browses the listing feed from a terminal.
//
// Each input line updates the criteria: plain text sets the keyword, a line starting
// with "?" is read as query parameters (?path=3,30&maxPrice=500000) and "reset" clears
// everything. Matching titles are printed once the debounced search settles.
//
// Against a development listings API that shares JWT_SECRET with marketfeed, --sign-as
// mints a token for the given user id instead of passing one with --token.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/01moynul/marketfeed/internal/auth"
	"github.com/01moynul/marketfeed/internal/config"
	"github.com/01moynul/marketfeed/internal/feed"
	"github.com/01moynul/marketfeed/internal/filter"
	"github.com/01moynul/marketfeed/internal/models"
	"github.com/01moynul/marketfeed/internal/upstream"
	"github.com/01moynul/marketfeed/internal/vehicle"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	var baseURL, token, signAs string
	var debounce, tokenTTL time.Duration
	var limit int

	defaultDebounce, err := config.Debounce(os.Getenv, feed.DefaultDebounce)
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("feedctl", pflag.ContinueOnError)
	flagSet.StringVar(&baseURL, "base-url", os.Getenv("UPSTREAM_BASE_URL"), "listings API base URL (default: $UPSTREAM_BASE_URL)")
	flagSet.StringVar(&token, "token", os.Getenv("MARKETFEED_TOKEN"), "bearer token forwarded to the listings API")
	flagSet.StringVar(&signAs, "sign-as", "", "mint a token for this user id with $JWT_SECRET")
	flagSet.DurationVar(&tokenTTL, "token-ttl", time.Hour, "lifetime of a --sign-as token")
	flagSet.DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before a search runs (default: $SEARCH_DEBOUNCE_MS)")
	flagSet.IntVarP(&limit, "limit", "n", 20, "maximum titles printed per result")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if baseURL == "" {
		return fmt.Errorf("--base-url is required")
	}
	if signAs != "" {
		auth.SetSecret(os.Getenv("JWT_SECRET"))
		if token, err = auth.GenerateToken(signAs, tokenTTL); err != nil {
			return fmt.Errorf("cannot sign a token: %w", err)
		}
	}

	client := upstream.NewClient(baseURL, vehicle.MustLoad(time.Now()))
	f := feed.New(client, token, debounce)
	defer f.Close()

	ctx := context.Background()
	p := &printer{out: out, limit: limit}
	if err := f.Refresh(ctx); err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
	}
	p.print(f.View())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		criteria, err := nextCriteria(f.Criteria(), scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		f.Update(ctx, criteria, func(kept bool, err error) {
			if err != nil {
				p.line("warning: %v", err)
			}
			if kept {
				p.print(f.View())
			}
		})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Input is done: drop the pending timer and run the final criteria directly.
	f.Close()
	if _, err := f.Search(ctx, f.Criteria()); err != nil {
		return err
	}
	p.print(f.View())
	return nil
}

// nextCriteria reads one input line against the current criteria.
func nextCriteria(current models.FilterCriteria, line string) (models.FilterCriteria, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "reset":
		return filter.Reset(current), nil
	case strings.HasPrefix(line, "?"):
		q, err := url.ParseQuery(line[1:])
		if err != nil {
			return current, err
		}
		next, err := filter.ParseQuery(q)
		if err != nil {
			return current, err
		}
		if !q.Has("keyword") && !q.Has("q") {
			next.Keyword = current.Keyword
		}
		return next, nil
	default:
		current.Keyword = line
		return current, nil
	}
}

type printer struct {
	mu    sync.Mutex
	out   io.Writer
	limit int
}

func (p *printer) line(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) print(listings []models.Listing) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%d listings\n", len(listings))
	for i, l := range listings {
		if i == p.limit {
			fmt.Fprintf(p.out, "  ... %d more\n", len(listings)-i)
			break
		}
		fmt.Fprintf(p.out, "  %s\n", l.Title)
	}
}
