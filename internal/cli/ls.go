package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/picroute/internal/nav"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <dir|route>",
		Short: "List the images in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, cfg := loadConfig()

			s := openSession(ctx, cfg, nil, locationArg(args[0]))
			defer s.closeQuietly()

			if err := s.engine.Start(ctx); err != nil {
				return err
			}
			if _, ok := s.engine.CurrentRoute(); !ok {
				return fmt.Errorf("%s: %w", args[0], nav.ErrUnknownRoute)
			}
			renderSnapshot(cmd.OutOrStdout(), s.engine.Snapshot())
			return nil
		},
	}
}

// closeQuietly closes the database without recording the last path.
func (s *session) closeQuietly() {
	if s.db != nil {
		s.db.Close()
	}
}

