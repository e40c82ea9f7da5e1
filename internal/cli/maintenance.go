package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoryhunter/hunter/internal/maintenance"
)

func newMaintenanceCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "maintenance",
		Aliases: []string{"maint"},
		Short:   "Check and clean the vector database",
	}
	cmd.AddCommand(
		newMaintHealthCmd(g),
		newMaintCleanupCmd(g),
		newMaintOptimizeCmd(g),
		newMaintStatsCmd(g),
	)
	return cmd
}

func (g *globalOptions) openMaintenance(cmd *cobra.Command) (*session, *maintenance.Controller, error) {
	s, err := g.open(cmd)
	if err != nil {
		return nil, nil, err
	}
	return s, maintenance.New(s.Client, maintenance.Options{Notifier: s.notices}), nil
}

func newMaintHealthCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Compare indexed records with the files on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, ctl, err := g.openMaintenance(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			h, err := ctl.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			r := h.Report
			tr := s.bundle.T
			s.printf("%s: %d\n", tr("maint.total_records"), r.TotalRecords)
			s.printf("%s: %d\n", tr("maint.valid_files"), r.ValidFiles)
			s.printf("%s: %d\n", tr("maint.deleted_files"), r.DeletedFiles)
			s.printf("%s: %.1f%% (%s)\n", tr("maint.deletion_rate"), r.DeletionRate, h.Tone)
			for _, rec := range r.Recommendations {
				s.printf("  - %s\n", rec)
			}
			return nil
		},
	}
}

func newMaintCleanupCmd(g *globalOptions) *cobra.Command {
	var apply, yes bool
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "List records of deleted files, or remove them with --apply --yes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, ctl, err := g.openMaintenance(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if apply {
				n, err := ctl.ApplyCleanup(cmd.Context(), yes)
				if errors.Is(err, maintenance.ErrConfirmationRequired) {
					return fmt.Errorf("%w: pass --yes to remove records", err)
				}
				if err != nil {
					return err
				}
				s.printf("%s\n", s.bundle.T("maint.cleaned", n))
				return nil
			}

			p, err := ctl.PreviewCleanup(cmd.Context())
			if err != nil {
				return err
			}
			if p.Found == 0 {
				s.printf("%s\n", s.bundle.T("maint.preview_clean"))
				return nil
			}
			s.printf("%s\n", s.bundle.T("maint.preview_found", p.Found))
			for _, f := range p.Files {
				s.printf("  %s\n", f.Path)
			}
			if p.More > 0 {
				s.printf("  %s\n", s.bundle.T("maint.preview_more", p.More))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "remove the records instead of listing them")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm --apply")
	return cmd
}

func newMaintOptimizeCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Start a background database optimisation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, ctl, err := g.openMaintenance(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			msg, err := ctl.Optimize(cmd.Context(), true)
			if err != nil {
				return err
			}
			s.printf("%s\n", msg)
			return nil
		},
	}
}

func newMaintStatsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print maintenance counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, ctl, err := g.openMaintenance(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := ctl.Stats(cmd.Context())
			if err != nil {
				return err
			}
			s.printf("%s: %d\n", s.bundle.T("maint.total_records"), st.TotalRecords)
			s.printf("%s: %d\n", s.bundle.T("maint.deleted_files"), st.DeletedFilesCount)
			s.printf("%s\n", healthText(s.bundle.T, st.DatabaseHealth))
			return nil
		},
	}
}
