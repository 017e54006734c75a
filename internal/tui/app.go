package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/realcheck/internal/config"
	"github.com/jask/realcheck/internal/preview"
	"github.com/jask/realcheck/internal/service"
	"github.com/jask/realcheck/internal/upload"
	"github.com/jask/realcheck/internal/widget"
)

const historyLimit = 200

// App is the bubbletea model around the upload-and-predict widget.
type App struct {
	ctx      context.Context
	cfg      config.Config
	endpoint string
	w        *widget.Widget
	previews *preview.Store
	history  *service.HistoryService

	view   appView
	keys   keyMap
	help   help.Model
	picker filepicker.Model
	path   textinput.Model
	spin   spinner.Model
	bar    progress.Model
	table  table.Model

	toast         toast
	widgetSeen    uint64
	width, height int

	// SaveDir persists the directory of accepted files; nil disables it.
	SaveDir func(dir string) error
}

type appView string

const (
	viewMain    appView = "main"
	viewBrowse  appView = "browse"
	viewPath    appView = "path"
	viewHistory appView = "history"
)

type toast struct {
	text    string
	isError bool
	seq     uint64
}

// Deps are the collaborators the App drives.
type Deps struct {
	Widget   *widget.Widget
	Previews *preview.Store
	History  *service.HistoryService
	Endpoint string
	StartDir string
}

func New(ctx context.Context, cfg config.Config, deps Deps) *App {
	picker := filepicker.New()
	picker.CurrentDirectory = startDir(deps.StartDir, cfg.UI.StartDir)
	picker.ShowHidden = false
	picker.ShowPermissions = false
	picker.AutoHeight = true

	path := textinput.New()
	path.Placeholder = "/path/to/image.png (or drag a file here)"
	path.Prompt = "path › "
	path.CharLimit = 4096
	path.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = statusInfoStyle

	bar := progress.New(progress.WithGradient(string(colorFocus), string(colorBrand)), progress.WithWidth(30))

	tbl := table.New(
		table.WithColumns(historyColumns(80)),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		endpoint: deps.Endpoint,
		w:        deps.Widget,
		previews: deps.Previews,
		history:  deps.History,
		view:     viewMain,
		keys:     newKeyMap(),
		help:     help.New(),
		picker:   picker,
		path:     path,
		spin:     spin,
		bar:      bar,
		table:    tbl,
	}
	a.syncKeys()
	return a
}

func startDir(candidates ...string) string {
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		a.table.SetColumns(historyColumns(m.Width))
		var cmd tea.Cmd
		a.picker, cmd = a.picker.Update(msg)
		return a, cmd
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, a.quit()
		}
		switch a.view {
		case viewBrowse:
			return a.updateBrowse(m)
		case viewPath:
			return a.updatePath(m)
		case viewHistory:
			return a.updateHistory(m)
		default:
			return a.updateMain(m)
		}
	case fileOpenedMsg:
		return a, a.acceptFile(m)
	case predictDoneMsg:
		a.w.Finish(m.ticket, m.res, m.err)
		if m.err != nil {
			log.Printf("predict %s: %v", m.ticket.File.Name, m.err)
		}
		a.syncKeys()
		return a, a.syncNotice()
	case noticeExpiredMsg:
		if m.seq == a.toast.seq {
			a.toast = toast{seq: a.toast.seq}
		}
		return a, nil
	case historyLoadedMsg:
		if m.err != nil {
			return a, a.showToast(fmt.Sprintf("History unavailable: %v", m.err), true)
		}
		a.table.SetRows(historyRows(m.rows))
		return a, nil
	case spinner.TickMsg:
		if a.w.State() != widget.Predicting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	// directory listings and other picker-internal messages
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	return a, cmd
}

func (a *App) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	case key.Matches(msg, a.keys.Browse):
		a.view = viewBrowse
		return a, a.picker.Init()
	case key.Matches(msg, a.keys.Path):
		a.view = viewPath
		a.path.SetValue("")
		return a, a.path.Focus()
	case key.Matches(msg, a.keys.History):
		if a.history == nil {
			return a, a.showToast("History is disabled.", true)
		}
		a.view = viewHistory
		return a, a.loadHistory()
	case key.Matches(msg, a.keys.Predict):
		return a, a.startPredict()
	case key.Matches(msg, a.keys.Clear):
		a.w.Reset()
		a.syncKeys()
		return a, nil
	}
	return a, nil
}

func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Back) {
		a.view = viewMain
		return a, nil
	}
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	if ok, path := a.picker.DidSelectFile(msg); ok {
		a.view = viewMain
		return a, tea.Batch(cmd, a.openFile(path))
	}
	return a, cmd
}

func (a *App) updatePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.path.Blur()
		a.view = viewMain
		return a, nil
	case key.Matches(msg, a.keys.Submit):
		raw := a.path.Value()
		a.path.Blur()
		a.view = viewMain
		path := cleanPath(raw)
		if path == "" {
			return a, nil
		}
		return a, a.openFile(path)
	}
	var cmd tea.Cmd
	a.path, cmd = a.path.Update(msg)
	return a, cmd
}

func (a *App) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.History):
		a.view = viewMain
		return a, nil
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()
	case key.Matches(msg, a.keys.Refresh):
		return a, a.loadHistory()
	}
	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) quit() tea.Cmd {
	a.w.Close()
	return tea.Quit
}

func (a *App) openFile(path string) tea.Cmd {
	maxBytes := a.cfg.Upload.MaxBytes
	return func() tea.Msg {
		f, err := upload.Open(path, maxBytes)
		return fileOpenedMsg{path: path, file: f, err: err}
	}
}

func (a *App) acceptFile(m fileOpenedMsg) tea.Cmd {
	if m.err != nil {
		if errors.Is(m.err, upload.ErrTooLarge) {
			return a.showToast(fmt.Sprintf("%s is too large.", filepath.Base(m.path)), true)
		}
		return a.showToast(fmt.Sprintf("Cannot open %s: %v", filepath.Base(m.path), unwrapPathError(m.err)), true)
	}
	err := a.w.AcceptFile(m.file)
	a.syncKeys()
	if errors.Is(err, widget.ErrBusy) {
		return a.showToast("Wait for the current prediction to finish.", true)
	}
	if err == nil && a.SaveDir != nil {
		dir := filepath.Dir(m.path)
		a.picker.CurrentDirectory = dir
		if serr := a.SaveDir(dir); serr != nil {
			log.Printf("save last dir: %v", serr)
		}
	}
	return a.syncNotice()
}

func (a *App) startPredict() tea.Cmd {
	if !a.w.CanPredict() {
		return nil
	}
	ticket, err := a.w.Begin()
	if err != nil {
		return a.showToast(err.Error(), true)
	}
	a.syncKeys()
	w, ctx := a.w, a.ctx
	run := func() tea.Msg {
		res, err := w.Run(ctx, ticket)
		return predictDoneMsg{ticket: ticket, res: res, err: err}
	}
	return tea.Batch(a.spin.Tick, run)
}

func (a *App) loadHistory() tea.Cmd {
	h, ctx := a.history, a.ctx
	return func() tea.Msg {
		rows, err := h.Recent(ctx, "", historyLimit)
		return historyLoadedMsg{rows: rows, err: err}
	}
}

// syncNotice surfaces a notice the widget raised since the last call.
func (a *App) syncNotice() tea.Cmd {
	n := a.w.Notice()
	if n.Seq == a.widgetSeen || n.Text == "" {
		return nil
	}
	a.widgetSeen = n.Seq
	return a.showToast(n.Text, n.IsError)
}

func (a *App) showToast(text string, isErr bool) tea.Cmd {
	a.toast = toast{text: text, isError: isErr, seq: a.toast.seq + 1}
	seq := a.toast.seq
	return tea.Tick(a.noticeDuration(), func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (a *App) noticeDuration() time.Duration {
	if d := a.cfg.UI.NoticeDuration; d > 0 {
		return d
	}
	return 2500 * time.Millisecond
}

// syncKeys mirrors the widget's enablement rules onto the key bindings so
// help output and key handling agree with the buttons.
func (a *App) syncKeys() {
	a.keys.Predict.SetEnabled(a.w.CanPredict())
	a.keys.Clear.SetEnabled(a.w.CanClear())
}

// cleanPath normalizes what terminals paste on drag and drop: quoted paths,
// backslash-escaped spaces and file:// URLs.
func cleanPath(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 {
		if (p[0] == '\'' && p[len(p)-1] == '\'') || (p[0] == '"' && p[len(p)-1] == '"') {
			p = p[1 : len(p)-1]
		}
	}
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
	}
	p = strings.ReplaceAll(p, `\ `, " ")
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return p
}

func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
