package cli

import (
	"fmt"
	"strings"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

type translateFunc func(key string, args ...any) string

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// folderLine formats one folder as "id  status  indexed/images  name  path".
func folderLine(tr translateFunc, f memhunter.Folder) string {
	status := tr("folder.status." + string(f.Status))
	if status == "folder.status."+string(f.Status) {
		status = string(f.Status)
	}
	scan := tr("folders.never_scanned")
	if ts := f.ParsedLastScan(); !ts.IsZero() {
		scan = ts.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%-6s %-10s %6d/%-6d %-16s %-20s %s",
		f.ID, status, f.IndexedCount, f.ImageCount, scan, f.Name, f.Path)
}

// healthText translates database_health, passing unknown values through.
func healthText(tr translateFunc, health string) string {
	k := "maint.health." + health
	if text := tr(k); text != k {
		return text
	}
	return health
}
