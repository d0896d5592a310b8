package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/tui"
)

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse and manage the catalog",
	}
	cmd.AddCommand(
		newBooksListCmd(),
		newBooksShowCmd(),
		newBooksAddCmd(),
		newBooksEditCmd(),
		newBooksDeleteCmd(),
		newBooksStatsCmd(),
	)
	return cmd
}

func newBooksListCmd() *cobra.Command {
	var (
		search  string
		genre   string
		sortBy  string
		page    int
		all     bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, filtered and paged like the home screen",
		Long: `List the catalog.

Examples:
  shelfshop books list
  shelfshop books list --search булгаков
  shelfshop books list --genre "Научная фантастика" --sort price
  shelfshop books list --all --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var field catalog.SortField
			if sortBy != "" {
				f, err := catalog.ParseSortField(sortBy)
				if err != nil {
					return err
				}
				field = f
			}
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			reportOffline()

			f := catalog.Filter{Search: search, Genre: genre}
			var items []catalog.Product
			var pg catalog.Page
			if all {
				items = state.Catalog.Query(f, field)
			} else {
				pg = state.Products(f, field, page)
				items = pg.Items
			}

			if jsonOut {
				return printJSON(items)
			}
			if len(items) == 0 {
				fmt.Println("No books found.")
				return nil
			}
			for _, p := range items {
				printBookLine(p)
			}
			if !all {
				fmt.Printf("\nPage %d of %d, %d book(s)\n", pg.Page, pg.PageCount, pg.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Match title or author")
	cmd.Flags().StringVar(&genre, "genre", catalog.AllGenres, "Only this genre")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by title, author, price or stock")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().BoolVar(&all, "all", false, "Print every match without paging")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func printBookLine(p catalog.Product) {
	stock := fmt.Sprintf("%d in stock", p.InStock)
	switch {
	case p.InStock == 0:
		stock = color.RedString("out of stock")
	case catalog.IsLowStock(p):
		stock = color.YellowString(stock)
	}
	fmt.Printf("  %-8s  %s  %s  %s  %s\n",
		color.WhiteString(p.ID),
		tui.PadOrTruncate(p.Title, 32),
		tui.PadOrTruncate(p.Author, 24),
		color.GreenString("%10s", tui.FormatPrice(p.Price)),
		stock,
	)
}

func newBooksShowCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			p, found := state.Catalog.ByID(args[0])
			if !found {
				return fmt.Errorf("book %q not found", args[0])
			}
			if jsonOut {
				return printJSON(p)
			}
			printBook(p)
			return nil
		},
	}

	cmd.ValidArgsFunction = completeBookIDs
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func printBook(p catalog.Product) {
	printField("id", p.ID)
	printField("title", p.Title)
	printField("author", p.Author)
	printField("price", tui.FormatPrice(p.Price))
	if p.Genre != "" {
		printField("genre", p.Genre)
	}
	printField("in stock", fmt.Sprintf("%d", p.InStock))
	if p.Description != "" {
		printField("description", p.Description)
	}
	if p.Image != "" {
		printField("image", p.Image)
	}
	if p.ManagerID != "" {
		printField("manager", p.ManagerID)
	}
}

// bookFlags holds the editable fields shared by add and edit.
type bookFlags struct {
	title, author, price, description, image, genre string
	stock                                           int
}

func (f *bookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title")
	cmd.Flags().StringVar(&f.author, "author", "", "Author")
	cmd.Flags().StringVar(&f.price, "price", "", "Price, e.g. 12.50")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.image, "image", "", "Cover image URL")
	cmd.Flags().StringVar(&f.genre, "genre", "", "Genre")
	cmd.Flags().IntVar(&f.stock, "stock", 0, "Copies in stock")
}

// apply copies every flag the user set onto p.
func (f *bookFlags) apply(cmd *cobra.Command, p catalog.Product) (catalog.Product, error) {
	changed := cmd.Flags().Changed
	if changed("title") {
		p.Title = f.title
	}
	if changed("author") {
		p.Author = f.author
	}
	if changed("price") {
		price, err := catalog.ParsePrice(f.price)
		if err != nil {
			return p, err
		}
		p.Price = price
	}
	if changed("description") {
		p.Description = f.description
	}
	if changed("image") {
		p.Image = f.image
	}
	if changed("genre") {
		p.Genre = f.genre
	}
	if changed("stock") {
		p.InStock = f.stock
	}
	return p, nil
}

func newBooksAddCmd() *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book (manager or admin)",
		Long: `Add a book to the catalog. Title, author and price are required.

Examples:
  shelfshop books add --title "Дюна" --author "Фрэнк Герберт" --price 699 --stock 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.apply(cmd, catalog.Product{})
			if err != nil {
				return err
			}
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			stored, err := state.CreateProduct(cmd.Context(), p)
			if err != nil {
				return userError(err)
			}
			ok("Added %q as %s", stored.Title, stored.ID)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newBooksEditCmd() *cobra.Command {
	var f bookFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a book's fields (manager or admin)",
		Long: `Change the fields given as flags; the rest stay as they are.

Examples:
  shelfshop books edit 3 --price 749 --stock 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			cur, found := state.Catalog.ByID(args[0])
			if !found {
				return fmt.Errorf("book %q not found", args[0])
			}
			next, err := f.apply(cmd, cur)
			if err != nil {
				return err
			}
			patch := catalog.Diff(cur, next)
			if patch.IsEmpty() {
				warn("Nothing to change")
				return nil
			}
			stored, err := state.UpdateProduct(cmd.Context(), cur.ID, patch)
			if err != nil {
				return userError(err)
			}
			ok("Saved %q", stored.Title)
			return nil
		},
	}

	cmd.ValidArgsFunction = completeBookIDs
	f.register(cmd)
	return cmd
}

func newBooksDeleteCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a book from the catalog (manager or admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			p, found := state.Catalog.ByID(args[0])
			if !found {
				return fmt.Errorf("book %q not found", args[0])
			}
			if !skipConfirm {
				fmt.Printf("Book:   %s\n", color.WhiteString(p.Title))
				fmt.Printf("Author: %s\n", p.Author)
				if !confirm(color.RedString("Delete this book?")) {
					return fmt.Errorf("aborted (use --yes to skip confirmation)")
				}
			}
			if err := state.DeleteProduct(cmd.Context(), p.ID); err != nil {
				return userError(err)
			}
			ok("Deleted %q", p.Title)
			return nil
		},
	}

	cmd.ValidArgsFunction = completeBookIDs
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func newBooksStatsCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show inventory statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			s := state.Catalog.Stats()
			if jsonOut {
				return printJSON(struct {
					Titles     int    `json:"titles"`
					LowStock   int    `json:"low_stock"`
					OutOfStock int    `json:"out_of_stock"`
					StockValue string `json:"stock_value"`
				}{s.Titles, s.LowStock, s.OutOfStock, s.StockValue.StringFixed(2)})
			}
			header("Inventory")
			printField("titles", fmt.Sprintf("%d", s.Titles))
			printField("low stock", fmt.Sprintf("%d", s.LowStock))
			printField("out of stock", fmt.Sprintf("%d", s.OutOfStock))
			printField("stock value", tui.FormatPrice(s.StockValue))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
