package cli

import (
	"github.com/spf13/cobra"

	"github.com/memoryhunter/hunter/internal/app"
	"github.com/memoryhunter/hunter/internal/state"
)

func newStatsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the index size and indexing status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			store := &state.Store{}
			app.RefreshStats(cmd.Context(), store, s.Client)
			snap := store.Snapshot()
			if snap.LastError != nil {
				return snap.LastError
			}

			d := snap.Display()
			s.printf("%s: %d\n", s.bundle.T("stats.indexed_images"), snap.Stats.TotalImages)
			status := s.bundle.T(d.StatusKey)
			if d.Message != "" {
				status = d.Message
			}
			s.printf("%s\n", status)
			if d.Indexing {
				s.printf("%s\n", s.bundle.T("index.progress", d.Progress))
			}
			return nil
		},
	}
}
