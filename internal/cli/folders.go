package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memoryhunter/hunter/internal/folders"
)

func newFoldersCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Manage the folders MemoryHunter indexes",
	}
	cmd.AddCommand(
		newFoldersListCmd(g),
		newFoldersAddCmd(g),
		newFoldersRemoveCmd(g),
		newFoldersScanCmd(g),
		newFoldersIndexCmd(g),
		newFoldersBrowseCmd(g),
	)
	return cmd
}

// openFolders returns a session and a folder controller bound to it.
func (g *globalOptions) openFolders(cmd *cobra.Command) (*session, *folders.Controller, error) {
	s, err := g.open(cmd)
	if err != nil {
		return nil, nil, err
	}
	ctl := folders.New(s.Client, folders.Options{
		Interval: s.Config.FolderPollInterval,
		Notifier: s.notices,
	})
	return s, ctl, nil
}

func newFoldersListCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured folders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, ctl, err := g.openFolders(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			defer ctl.Close()

			list, err := ctl.Load(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				s.printf("%s\n", s.bundle.T("folders.empty"))
				return nil
			}
			for _, f := range list {
				s.printf("%s\n", folderLine(s.bundle.T, f))
			}
			return nil
		},
	}
}

func newFoldersAddCmd(g *globalOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add PATH",
		Short: "Add a folder by its path on the backend host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctl, err := g.openFolders(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			defer ctl.Close()

			b := folders.NewBrowser(ctl)
			b.SelectPath(args[0], name)
			folder, err := b.Confirm(cmd.Context())
			if err != nil {
				return fmt.Errorf("add folder: %w", err)
			}
			s.printf("%s\n", folderLine(s.bundle.T, *folder))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (default: last path element)")
	return cmd
}

func newFoldersRemoveCmd(g *globalOptions) *cobra.Command {
	var deleteVectors bool
	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Stop monitoring a folder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctl, err := g.openFolders(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			defer ctl.Close()
			return ctl.Remove(cmd.Context(), args[0], deleteVectors)
		},
	}
	cmd.Flags().BoolVar(&deleteVectors, "delete-vectors", false, "also drop the folder's indexed vectors")
	return cmd
}

func newFoldersScanCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scan ID",
		Short: "Count the images in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctl, err := g.openFolders(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			defer ctl.Close()

			res, err := ctl.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s.printf("total=%d valid=%d errors=%d\n", res.TotalImages, res.ValidImages, res.Errors)
			return nil
		},
	}
}

func newFoldersIndexCmd(g *globalOptions) *cobra.Command {
	var force, wait bool
	cmd := &cobra.Command{
		Use:   "index ID",
		Short: "Index one folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctl, err := g.openFolders(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			defer ctl.Close()

			id := args[0]
			if err := ctl.Index(cmd.Context(), id, force); err != nil {
				return err
			}
			if !wait {
				return nil
			}
			select {
			case <-ctl.WatchDone(id):
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
			for _, f := range ctl.View().Folders {
				if f.ID == id {
					s.printf("%s\n", folderLine(s.bundle.T, f))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "reindex images that are already indexed")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until the folder leaves the indexing state")
	return cmd
}

func newFoldersBrowseCmd(g *globalOptions) *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:   "browse [PATH]",
		Short: "List directories on the backend host",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ctl, err := g.openFolders(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			defer ctl.Close()

			b := folders.NewBrowser(ctl)
			if err := b.SetFilter(match); err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if err := b.Browse(cmd.Context(), path); err != nil {
				return err
			}

			v := b.View()
			location := v.CurrentPath
			if v.IsRoot || location == "" {
				location = s.bundle.T("browser.this_pc")
			}
			s.printf("%s\n", location)
			if len(v.Entries) == 0 {
				s.printf("%s\n", s.bundle.T("browser.empty"))
				return nil
			}
			for _, e := range v.Entries {
				count := s.bundle.T("browser.no_images")
				if e.ImageCount > 0 {
					count = s.bundle.T("browser.image_count", e.ImageCount)
				}
				mark := " "
				if !e.CanEnter() {
					mark = "!"
				}
				s.printf("%s %-40s %s\n", mark, e.Path, count)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&match, "match", "m", "", "only show directories whose name matches this glob")
	return cmd
}
