package cli

import (
	"fmt"
	"io"

	"bookreview/internal/entity"

	"github.com/spf13/cobra"
)

func printReviewRows(w io.Writer, reviews []entity.Review) {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews")
		return
	}
	for _, r := range reviews {
		book := fmt.Sprintf("book #%d", r.BookID)
		if r.Book != nil {
			book = r.Book.Title
		}
		by := r.UserID
		if r.User != nil {
			by = r.User.UserName
		}
		fmt.Fprintf(w, "%5d  %s  %-30s %-25s %s\n", r.ID, stars(r.Rating), truncate(book, 30), truncate(by, 25), truncate(r.Content, 40))
	}
}

func (a *app) newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "review",
		Aliases: []string{"reviews"},
		Short:   "Read and write reviews",
	}

	var forBook int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List reviews, optionally for one book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				reviews []entity.Review
				err     error
			)
			if forBook > 0 {
				reviews, err = a.client.Reviews.ForBook(cmd.Context(), forBook)
			} else {
				reviews, err = a.client.Reviews.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.render(reviews, func(w io.Writer) { printReviewRows(w, reviews) })
		},
	}
	list.Flags().Int64Var(&forBook, "book", 0, "Only reviews of this book id")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, err := a.client.Reviews.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(r, func(w io.Writer) { printReviewRows(w, []entity.Review{r}) })
		},
	}

	var (
		bookID  int64
		rating  int
		content string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Review a book (login required)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.client.Account.IsAuthenticated() {
				a.warn("No valid session; the server will likely reject this. Run: bookreview login")
			}
			r, err := a.client.Reviews.Create(cmd.Context(), entity.Review{BookID: bookID, Rating: rating, Content: content})
			if err != nil {
				return err
			}
			a.ok("Created review %d %s", r.ID, stars(r.Rating))
			return nil
		},
	}
	create.Flags().Int64Var(&bookID, "book-id", 0, "Book id")
	create.Flags().IntVar(&rating, "rating", 0, "Rating from 1 to 5")
	create.Flags().StringVar(&content, "content", "", "Review text")
	_ = create.MarkFlagRequired("book-id")
	_ = create.MarkFlagRequired("rating")
	_ = create.MarkFlagRequired("content")

	average := &cobra.Command{
		Use:   "average",
		Short: "Average rating over all reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			avg, err := a.client.Reviews.AverageRating(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(avg, func(w io.Writer) { fmt.Fprintf(w, "%.2f\n", avg) })
		},
	}

	cmd.AddCommand(list, get, create, average,
		a.newDeleteCmd("review", func(cmd *cobra.Command, id int64) error {
			return a.client.Reviews.Delete(cmd.Context(), id)
		}),
		a.newCountCmd("review", func(cmd *cobra.Command) (int, error) {
			return a.client.Reviews.Count(cmd.Context())
		}),
	)
	return cmd
}
