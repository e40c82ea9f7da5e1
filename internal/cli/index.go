package cli

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/memoryhunter/hunter/internal/tracker"
)

func newIndexCmd(g *globalOptions) *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Start indexing every configured folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			last := ""
			tr := tracker.New(s.Client, tracker.Options{
				Clock:    clockwork.NewRealClock(),
				Interval: s.Config.IndexPollInterval,
				Notifier: s.notices,
				OnChange: func(v tracker.View) {
					if !wait || v.State != tracker.Polling || v.Total == 0 {
						return
					}
					if text := v.ProgressText(); text != last {
						last = text
						s.printf("%s\n", s.bundle.T("index.progress", text))
					}
				},
			})
			defer tr.Close()

			if err := tr.Start(cmd.Context()); err != nil {
				return fmt.Errorf("start index: %w", err)
			}
			if !wait {
				return nil
			}
			select {
			case <-tr.Done():
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
			v := tr.View()
			if v.Err != nil {
				return fmt.Errorf("index status: %w", v.Err)
			}
			if v.Message != "" {
				s.printf("%s\n", v.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "print progress until the job finishes")
	return cmd
}
