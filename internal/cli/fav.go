package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/justyntemme/picroute/internal/store"
)

func newFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite locations",
	}

	var name string
	add := &cobra.Command{
		Use:   "add <dir>",
		Short: "Pin a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			path, err := filepath.Abs(expandHome(args[0]))
			if err != nil {
				return err
			}
			if err := db.AddFavorite(cmd.Context(), name, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pinned %s\n", path)
			return nil
		},
	}
	add.Flags().StringVarP(&name, "name", "n", "", "Route name (default: folder name)")

	rm := &cobra.Command{
		Use:   "rm <dir>",
		Short: "Unpin a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			path, err := filepath.Abs(expandHome(args[0]))
			if err != nil {
				return err
			}
			removed, err := db.RemoveFavorite(cmd.Context(), path)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%s is not a favorite", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unpinned %s\n", path)
			return nil
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()
			favs, err := db.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, f := range favs {
				added := ""
				if !f.CreatedAt.IsZero() {
					added = humanize.Time(f.CreatedAt)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Path, added)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(add, rm, ls)
	return cmd
}

func openStore(cmd *cobra.Command) (*store.DB, error) {
	_, cfg := loadConfig()
	return store.Open(cmd.Context(), dbPath(cfg))
}
