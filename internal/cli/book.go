package cli

import (
	"fmt"
	"io"

	"bookreview/internal/entity"

	"github.com/spf13/cobra"
)

func categoryName(b entity.Book) string {
	if b.Category == nil {
		return uncategorized
	}
	return b.Category.Name
}

func authorName(b entity.Book) string {
	if b.Author == nil {
		return fmt.Sprintf("author #%d", b.AuthorID)
	}
	return b.Author.FullName
}

func printBookRows(w io.Writer, books []entity.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books")
		return
	}
	for _, b := range books {
		fmt.Fprintf(w, "%5d  %-40s %-25s %-15s %s\n",
			b.ID, truncate(b.Title, 40), truncate(authorName(b), 25), truncate(categoryName(b), 15), formatDate(b.PublishedDate))
	}
}

func (a *app) newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "book",
		Aliases: []string{"books"},
		Short:   "List and manage books",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.client.Books.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(books, func(w io.Writer) { printBookRows(w, books) })
		},
	}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List the most recently published books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.client.Books.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.render(books, func(w io.Writer) { printBookRows(w, books) })
		},
	}
	recent.Flags().IntVar(&limit, "limit", 5, "Number of books")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a book with its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := a.client.Books.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(b, func(w io.Writer) {
				a.header("%s", b.Title)
				fmt.Fprintf(w, "%-12s %s\n", "author:", authorName(b))
				fmt.Fprintf(w, "%-12s %s\n", "category:", categoryName(b))
				fmt.Fprintf(w, "%-12s %s\n", "isbn:", deref(b.ISBN))
				fmt.Fprintf(w, "%-12s %s\n", "published:", formatDate(b.PublishedDate))
				fmt.Fprintf(w, "%s\n", deref(b.Description))
				if len(b.Reviews) == 0 {
					fmt.Fprintln(w, "\nNo reviews yet")
					return
				}
				fmt.Fprintln(w)
				for _, r := range b.Reviews {
					fmt.Fprintf(w, "  %s  %s  %s\n", stars(r.Rating), formatDate(r.CreatedDate), truncate(r.Content, 60))
				}
			})
		},
	}

	var (
		title, isbn, description, published string
		authorID, categoryID                int64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := entity.ParseTimestamp(published)
			if err != nil {
				return err
			}
			in := entity.Book{
				Title:         title,
				ISBN:          optional(isbn),
				Description:   optional(description),
				PublishedDate: ts.Time,
				AuthorID:      authorID,
			}
			if categoryID > 0 {
				in.CategoryID = &categoryID
			}
			b, err := a.client.Books.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.ok("Created book %d %q by %s", b.ID, b.Title, authorName(b))
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "Title")
	create.Flags().StringVar(&isbn, "isbn", "", "ISBN-10 or ISBN-13")
	create.Flags().StringVar(&description, "description", "", "Description")
	create.Flags().StringVar(&published, "published", "", "Publication date (YYYY-MM-DD)")
	create.Flags().Int64Var(&authorID, "author-id", 0, "Author id")
	create.Flags().Int64Var(&categoryID, "category-id", 0, "Category id")
	_ = create.MarkFlagRequired("title")
	_ = create.MarkFlagRequired("published")
	_ = create.MarkFlagRequired("author-id")

	cmd.AddCommand(list, recent, get, create,
		a.newDeleteCmd("book", func(cmd *cobra.Command, id int64) error {
			return a.client.Books.Delete(cmd.Context(), id)
		}),
		a.newCountCmd("book", func(cmd *cobra.Command) (int, error) {
			return a.client.Books.Count(cmd.Context())
		}),
	)
	return cmd
}
