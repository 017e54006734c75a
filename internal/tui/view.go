package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jask/realcheck/internal/database/repository"
	"github.com/jask/realcheck/internal/predict"
	"github.com/jask/realcheck/internal/widget"
)

func (a *App) View() string {
	var body string
	var helpView string
	switch a.view {
	case viewBrowse:
		body = a.renderSection("Select an image", a.picker.View())
		helpView = a.help.View(overlayKeys{keys: a.keys, extra: []key.Binding{a.keys.Submit}})
	case viewPath:
		body = a.renderSection("Paste or drop a path", a.path.View())
		helpView = a.help.View(overlayKeys{keys: a.keys, extra: []key.Binding{a.keys.Submit}})
	case viewHistory:
		body = a.renderSection("History", a.table.View())
		helpView = a.help.View(overlayKeys{keys: a.keys, extra: []key.Binding{a.keys.Refresh}})
	default:
		body = a.renderMain()
		helpView = a.help.View(a.keys)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		body,
		a.renderStatus(),
		helpView,
	)
}

func (a *App) renderHeader() string {
	title := titleStyle.Render("realcheck")
	if a.endpoint == "" {
		return title
	}
	return title + "  " + faintStyle.Render("→ "+a.endpoint)
}

func (a *App) renderSection(title, content string) string {
	return lipgloss.JoinVertical(lipgloss.Left, subtleStyle.Render(title), content)
}

func (a *App) renderMain() string {
	parts := []string{a.renderDropzone(), a.renderButtons()}
	if res, ok := a.w.Result(); ok && a.w.State() == widget.ResultShown {
		parts = append(parts, a.renderResult(res))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderDropzone() string {
	f, ok := a.w.File()
	if !ok {
		empty := lipgloss.JoinVertical(lipgloss.Left,
			"No image selected.",
			faintStyle.Render("o browse · i paste a path (drag a file into the terminal)"),
		)
		return dropzoneStyle.Render(empty)
	}
	info := fmt.Sprintf("%s · %s · %s", f.Name, f.MediaType, humanize.Bytes(uint64(f.Size())))
	if b, ok := a.previews.Bounds(a.w.Preview()); ok {
		info += fmt.Sprintf(" · %dx%d", b.Dx(), b.Dy())
	}
	art := a.previews.Render(a.w.Preview(), a.previewWidth())
	if art == "" {
		return dropzoneStyle.Render(info)
	}
	return dropzoneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, art, subtleStyle.Render(info)))
}

func (a *App) previewWidth() int {
	w := a.cfg.UI.PreviewWidth
	if w <= 0 {
		w = 32
	}
	if a.width > 0 && w > a.width-6 {
		w = a.width - 6
	}
	return w
}

func (a *App) renderButtons() string {
	predictLabel := "Predict"
	if a.w.State() == widget.Predicting {
		predictLabel = a.spin.View() + " Predicting..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		button(predictLabel, a.w.CanPredict()),
		button("Clear", a.w.CanClear()),
	)
}

func button(label string, enabled bool) string {
	if enabled {
		return buttonStyle.Render(label)
	}
	return buttonDisabledStyle.Render(label)
}

func (a *App) renderResult(res predict.Result) string {
	pct := res.Percent()
	lines := []string{
		badge(res),
		fmt.Sprintf("Confidence %d%%", pct),
		a.bar.ViewAs(float64(pct) / 100),
	}
	if e := strings.TrimSpace(res.Explanation); e != "" {
		lines = append(lines, explainStyle.Render(e))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func badge(res predict.Result) string {
	if res.Accent() == predict.AccentWarning {
		return badgeWarningStyle.Render(res.Label)
	}
	return badgeNeutralStyle.Render(res.Label)
}

func (a *App) renderStatus() string {
	if a.toast.text == "" {
		return ""
	}
	if a.toast.isError {
		return noticeErrorStyle.Render(a.toast.text)
	}
	return noticeStyle.Render(a.toast.text)
}

func historyColumns(width int) []table.Column {
	name := 28
	if width > 100 {
		name = width - 72
	}
	return []table.Column{
		{Title: "When", Width: 16},
		{Title: "Image", Width: name},
		{Title: "Label", Width: 16},
		{Title: "Conf", Width: 6},
		{Title: "Explanation", Width: 24},
	}
}

func historyRows(rows []repository.Prediction) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, p := range rows {
		out = append(out, table.Row{
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
			p.ImageName,
			p.Label,
			fmt.Sprintf("%d%%", predict.Percent(p.Confidence)),
			p.Explanation,
		})
	}
	return out
}
