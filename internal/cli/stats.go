package cli

import (
	"context"
	"fmt"
	"io"

	"bookreview/internal/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Stats is the dashboard summary.
type Stats struct {
	Authors       int          `json:"authors"`
	Books         int          `json:"books"`
	Categories    int          `json:"categories"`
	Reviews       int          `json:"reviews"`
	AverageRating float64      `json:"averageRating"`
	RecentBooks   []RecentBook `json:"recentBooks"`
}

type RecentBook struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	Published string `json:"published"`
}

// CollectStats fetches the totals, average rating and recent books concurrently.
func CollectStats(ctx context.Context, c *client.Client, recent int) (Stats, error) {
	var s Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { s.Authors, err = c.Authors.Count(ctx); return })
	g.Go(func() (err error) { s.Books, err = c.Books.Count(ctx); return })
	g.Go(func() (err error) { s.Categories, err = c.Categories.Count(ctx); return })
	g.Go(func() (err error) { s.Reviews, err = c.Reviews.Count(ctx); return })
	g.Go(func() (err error) { s.AverageRating, err = c.Reviews.AverageRating(ctx); return })
	g.Go(func() error {
		books, err := c.Books.Recent(ctx, recent)
		if err != nil {
			return err
		}
		s.RecentBooks = make([]RecentBook, 0, len(books))
		for _, b := range books {
			s.RecentBooks = append(s.RecentBooks, RecentBook{
				ID:        b.ID,
				Title:     b.Title,
				Author:    authorName(b),
				Category:  categoryName(b),
				Published: formatDate(b.PublishedDate),
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return s, nil
}

func (a *app) newStatsCmd() *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog totals, average rating and recent books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := CollectStats(cmd.Context(), a.client, recent)
			if err != nil {
				return err
			}
			return a.render(s, func(w io.Writer) {
				a.header("Catalog")
				fmt.Fprintf(w, "  %-16s %d\n", "authors:", s.Authors)
				fmt.Fprintf(w, "  %-16s %d\n", "books:", s.Books)
				fmt.Fprintf(w, "  %-16s %d\n", "categories:", s.Categories)
				fmt.Fprintf(w, "  %-16s %d\n", "reviews:", s.Reviews)
				fmt.Fprintf(w, "  %-16s %s\n", "average rating:", color.YellowString("%.2f", s.AverageRating))
				fmt.Fprintln(w)
				a.header("Recent books")
				if len(s.RecentBooks) == 0 {
					fmt.Fprintln(w, "  none yet")
					return
				}
				for _, b := range s.RecentBooks {
					fmt.Fprintf(w, "  %-40s %-25s %-15s %s\n", truncate(b.Title, 40), truncate(b.Author, 25), b.Category, b.Published)
				}
			})
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 5, "How many recent books to show")
	return cmd
}
