package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleMaintenanceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Health):
		return m, m.run(func(ctx context.Context) error {
			_, err := m.maint.HealthCheck(ctx)
			return err
		})
	case key.Matches(msg, m.keys.Preview):
		return m, m.run(func(ctx context.Context) error {
			_, err := m.maint.PreviewCleanup(ctx)
			return err
		})
	case key.Matches(msg, m.keys.Cleanup):
		m.modal = newConfirm("maint.cleanup_confirm", m.run(func(ctx context.Context) error {
			_, err := m.maint.ApplyCleanup(ctx, true)
			return err
		}))
	case key.Matches(msg, m.keys.Optimize):
		m.modal = newConfirm("maint.optimize_confirm", m.run(func(ctx context.Context) error {
			_, err := m.maint.Optimize(ctx, true)
			return err
		}))
	case key.Matches(msg, m.keys.MaintStats):
		return m, m.run(func(ctx context.Context) error {
			_, err := m.maint.Stats(ctx)
			return err
		})
	}
	return m, nil
}

func (m Model) renderMaintenance() string {
	styles := m.theme.Styles()
	v := m.mview
	tr := m.bundle.T

	var b strings.Builder
	if v.Busy != "" {
		b.WriteString(styles.WarningText.Render(m.spinner.View() + " " + tr(v.Busy)))
		b.WriteString("\n\n")
	}

	if h := v.Health; h != nil {
		section(&b, styles, tr("maint.health_check"))
		row(&b, styles, tr("maint.total_records"), styles.Text.Render(fmt.Sprint(h.Report.TotalRecords)))
		row(&b, styles, tr("maint.valid_files"), styles.SuccessText.Render(fmt.Sprint(h.Report.ValidFiles)))
		row(&b, styles, tr("maint.deleted_files"), styles.WarningText.Render(fmt.Sprint(h.Report.DeletedFiles)))
		row(&b, styles, tr("maint.deletion_rate"), m.theme.ToneStyle(h.Tone).Render(fmt.Sprintf("%.1f%%", h.Report.DeletionRate)))
		if len(h.Report.Recommendations) > 0 {
			b.WriteString(styles.MutedText.Render(tr("maint.recommendations") + ":"))
			b.WriteString("\n")
			for _, rec := range h.Report.Recommendations {
				b.WriteString("  • " + styles.Text.Render(rec) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if p := v.Preview; p != nil {
		section(&b, styles, tr("maint.preview"))
		if p.Found == 0 {
			b.WriteString(styles.SuccessText.Render(tr("maint.preview_clean")))
			b.WriteString("\n")
		} else {
			b.WriteString(styles.WarningText.Render(tr("maint.preview_found", p.Found)))
			b.WriteString("\n")
			for _, f := range p.Files {
				b.WriteString("  " + styles.Text.Render(f.Filename) + "  " +
					styles.FaintText.Render(truncateMiddle(f.Path, max(m.width-40, 20))) + "\n")
			}
			if p.More > 0 {
				b.WriteString(styles.MutedText.Render("  " + tr("maint.preview_more", p.More)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	if v.HasClean {
		b.WriteString(styles.SuccessText.Render(tr("maint.cleaned", v.Cleaned)))
		b.WriteString("\n\n")
	}
	if v.Optimize != "" {
		b.WriteString(styles.InfoText.Render(v.Optimize))
		b.WriteString("\n\n")
	}

	if s := v.Stats; s != nil {
		section(&b, styles, tr("maint.stats"))
		row(&b, styles, tr("maint.total_records"), styles.Text.Render(fmt.Sprint(s.TotalRecords)))
		row(&b, styles, tr("maint.deleted_files"), styles.Text.Render(fmt.Sprint(s.DeletedFilesCount)))
		row(&b, styles, "", m.theme.ToneStyle(v.StatsTone).Render(healthLabel(tr, s.DatabaseHealth)))
	}

	content := strings.TrimRight(b.String(), "\n")
	if content == "" {
		content = styles.FaintText.Render(m.maintenanceHint())
	}
	return m.renderBox(tr("maint.title"), content, m.width, m.contentHeight(), true)
}

// maintenanceHint lists the actions when nothing has run yet.
func (m Model) maintenanceHint() string {
	bindings := []key.Binding{m.keys.Health, m.keys.Preview, m.keys.Cleanup, m.keys.Optimize, m.keys.MaintStats}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+m.bundle.T(h.Desc))
	}
	return strings.Join(parts, "   ")
}

// healthLabel translates the backend's database_health value. Unknown values
// are shown as they came.
func healthLabel(tr func(string, ...any) string, health string) string {
	k := "maint.health." + health
	if text := tr(k); text != k {
		return text
	}
	return health
}

func section(b *strings.Builder, styles Styles, title string) {
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n")
}

func row(b *strings.Builder, styles Styles, label, value string) {
	if label != "" {
		b.WriteString(styles.MutedText.Render(padRight(label, 14)))
	}
	b.WriteString(value)
	b.WriteString("\n")
}
