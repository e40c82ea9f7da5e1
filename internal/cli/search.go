package cli

import (
	"github.com/spf13/cobra"

	"github.com/memoryhunter/hunter/internal/search"
)

func newSearchCmd(g *globalOptions) *cobra.Command {
	var (
		topK      int
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search photos by description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctl := search.New(s.Client, search.Options{
				Notifier:  s.notices,
				TopK:      s.Config.Search.TopK,
				Threshold: s.Config.Search.Threshold,
			})
			if cmd.Flags().Changed("top-k") {
				ctl.SetTopK(topK)
			}
			if cmd.Flags().Changed("threshold") {
				ctl.SetThreshold(threshold)
			}

			if err := ctl.Submit(cmd.Context(), joinArgs(args)); err != nil {
				return err
			}
			v := ctl.View()
			if v.NoResults() {
				s.printf("%s\n", s.bundle.T("search.no_results"))
				return nil
			}
			s.printf("%s\n", s.bundle.T("search.summary", v.Count, v.Query))
			for i, card := range v.Cards {
				s.printf("%3d. %-7s %s\n", i+1, card.Score, card.Result.Filename)
				s.printf("     %s\n", card.URL)
				if card.Objects > 0 {
					s.printf("     %s\n", s.bundle.T("search.objects", card.Objects))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", search.DefaultTopK, "number of results")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "minimum similarity in [0,1]")
	return cmd
}
