package cli

import (
	"fmt"
	"io"
	"strconv"

	"bookreview/internal/entity"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (a *app) newDeleteCmd(noun string, del func(cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := del(cmd, id); err != nil {
				return err
			}
			a.ok("Deleted %s %d", noun, id)
			return nil
		},
	}
}

func (a *app) newCountCmd(noun string, count func(cmd *cobra.Command) (int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count " + noun + "s",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := count(cmd)
			if err != nil {
				return err
			}
			return a.render(n, func(w io.Writer) { fmt.Fprintln(w, n) })
		},
	}
}

func (a *app) newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "List and manage categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := a.client.Categories.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cats, func(w io.Writer) {
				if len(cats) == 0 {
					fmt.Fprintln(w, "No categories")
					return
				}
				for _, c := range cats {
					fmt.Fprintf(w, "%5d  %-30s %3d books  %s\n", c.ID, truncate(c.Name, 30), len(c.Books), truncate(deref(c.Description), 40))
				}
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a category and its books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.client.Categories.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(c, func(w io.Writer) {
				a.header("%s", c.Name)
				fmt.Fprintf(w, "%s\n\n", deref(c.Description))
				for _, b := range c.Books {
					fmt.Fprintf(w, "  %5d  %s (%s)\n", b.ID, b.Title, formatDate(b.PublishedDate))
				}
			})
		},
	}

	var name, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category (login required)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client.Categories.Create(cmd.Context(), entity.Category{Name: name, Description: optional(description)})
			if err != nil {
				return err
			}
			a.ok("Created category %d %q", c.ID, c.Name)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Category name")
	create.Flags().StringVar(&description, "description", "", "Description")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(list, get, create,
		a.newDeleteCmd("category", func(cmd *cobra.Command, id int64) error {
			return a.client.Categories.Delete(cmd.Context(), id)
		}),
		a.newCountCmd("category", func(cmd *cobra.Command) (int, error) {
			return a.client.Categories.Count(cmd.Context())
		}),
	)
	return cmd
}

func (a *app) newAuthorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "author",
		Aliases: []string{"authors"},
		Short:   "List and manage authors",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			authors, err := a.client.Authors.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(authors, func(w io.Writer) {
				if len(authors) == 0 {
					fmt.Fprintln(w, "No authors")
					return
				}
				for _, au := range authors {
					fmt.Fprintf(w, "%5d  %-35s %3d books\n", au.ID, truncate(au.FullName, 35), len(au.Books))
				}
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an author and their books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			au, err := a.client.Authors.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(au, func(w io.Writer) {
				a.header("%s", au.FullName)
				if au.BirthDate != nil {
					fmt.Fprintf(w, "%-10s %s\n", "born:", formatDate(*au.BirthDate))
				}
				fmt.Fprintf(w, "%s\n\n", deref(au.Biography))
				for _, b := range au.Books {
					fmt.Fprintf(w, "  %5d  %s (%s)\n", b.ID, b.Title, formatDate(b.PublishedDate))
				}
			})
		},
	}

	var firstName, lastName, biography, birthDate string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := entity.Author{FirstName: firstName, LastName: lastName, Biography: optional(biography)}
			if birthDate != "" {
				ts, err := entity.ParseTimestamp(birthDate)
				if err != nil {
					return err
				}
				in.BirthDate = ts.Ptr()
			}
			au, err := a.client.Authors.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.ok("Created author %d %s", au.ID, au.FullName)
			return nil
		},
	}
	create.Flags().StringVar(&firstName, "first-name", "", "First name")
	create.Flags().StringVar(&lastName, "last-name", "", "Last name")
	create.Flags().StringVar(&biography, "biography", "", "Short biography")
	create.Flags().StringVar(&birthDate, "birth-date", "", "Birth date (YYYY-MM-DD)")
	_ = create.MarkFlagRequired("first-name")
	_ = create.MarkFlagRequired("last-name")

	cmd.AddCommand(list, get, create,
		a.newDeleteCmd("author", func(cmd *cobra.Command, id int64) error {
			return a.client.Authors.Delete(cmd.Context(), id)
		}),
		a.newCountCmd("author", func(cmd *cobra.Command) (int, error) {
			return a.client.Authors.Count(cmd.Context())
		}),
	)
	return cmd
}
