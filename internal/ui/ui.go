// Package ui is the terminal host of the case browser. It lays out one
// or more feature instances side by side and turns keystrokes and resizes
// into view transitions.
package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Ashfaaq98/case-map-console/internal/bus"
	"github.com/Ashfaaq98/case-map-console/internal/icons"
	"github.com/Ashfaaq98/case-map-console/internal/mapview"
	"github.com/Ashfaaq98/case-map-console/internal/share"
	"github.com/Ashfaaq98/case-map-console/internal/view"
)

const (
	// DefaultCompactHeight is the screen height, in rows, below which panes
	// use the compact layout.
	DefaultCompactHeight = 40
	// DefaultNarrowWidth is the pane width, in columns, below which a card
	// opens the case page instead of the overlay.
	DefaultNarrowWidth = 80
	// MaxInstances bounds the number of side by side panes.
	MaxInstances = 4

	defaultAttribution = "© OpenStreetMap contributors"
	toastDuration      = 4 * time.Second
)

// Options configures the UI.
type Options struct {
	// Source supplies the session's cases. *catalog.Catalog satisfies it.
	Source view.Source
	// Instances is the number of side by side panes, 1 to MaxInstances.
	Instances int
	// Icons is the icon cache. Nil selects icons.Shared().
	Icons  *icons.Cache
	Bus    bus.Bus
	Sharer *share.Sharer
	Logger *log.Logger

	CompactHeight int
	NarrowWidth   int
	// Attribution is the tile provider credit shown under the map.
	Attribution string
	Theme       string
}

// UI represents the terminal user interface
type UI struct {
	app    *tview.Application
	source view.Source
	icons  mapview.IconSource
	bus    bus.Bus
	sharer *share.Sharer
	logger *log.Logger
	opts   Options

	// Layout components
	root      *tview.Flex
	appTitle  *tview.TextView
	panesRow  *tview.Flex
	statusBar *tview.TextView
	panes     []*Pane

	// Theme state
	theme        Theme
	themeName    string
	hasTrueColor bool

	// Runtime
	running    atomic.Bool
	helpActive bool
	lastFocus  tview.Primitive
	lastWidth  int
	lastHeight int
	toast      *time.Timer

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc
}

// NewUI creates a new terminal user interface
func NewUI(ctx context.Context, opts Options) *UI {
	if opts.Logger == nil {
		opts.Logger = log.New(log.Writer(), "[ui] ", log.LstdFlags)
	}
	if opts.Instances < 1 {
		opts.Instances = 1
	}
	if opts.Instances > MaxInstances {
		opts.Instances = MaxInstances
	}
	if opts.CompactHeight <= 0 {
		opts.CompactHeight = DefaultCompactHeight
	}
	if opts.NarrowWidth <= 0 {
		opts.NarrowWidth = DefaultNarrowWidth
	}
	if opts.Attribution == "" {
		opts.Attribution = defaultAttribution
	}
	if opts.Bus == nil {
		opts.Bus = bus.NewNullBus(opts.Logger)
	}
	if opts.Sharer == nil {
		opts.Sharer = share.New(share.Options{Bus: opts.Bus, Logger: opts.Logger})
	}

	uiCtx, cancel := context.WithCancel(ctx)
	ui := &UI{
		app:          tview.NewApplication(),
		source:       opts.Source,
		bus:          opts.Bus,
		sharer:       opts.Sharer,
		logger:       opts.Logger,
		opts:         opts,
		ctx:          uiCtx,
		cancel:       cancel,
		hasTrueColor: detectTrueColor(),
	}

	cache := opts.Icons
	if cache == nil {
		cache = icons.Shared()
	}
	if cache != nil {
		ui.icons = cache
		cache.OnLoaded(func(name string) {
			// Icons arrive from fetch goroutines; a redraw picks them up.
			if ui.running.Load() {
				ui.app.QueueUpdateDraw(func() {})
			}
		})
	} else {
		ui.logger.Printf("No icon cache installed; markers will not be drawn")
	}

	ui.themeName, ui.theme = themeByName(opts.Theme)
	if !ui.hasTrueColor && ui.themeName == "neon" {
		ui.themeName, ui.theme = themeByName("dark")
	}

	ui.setupLayout()
	ui.setupKeybindings()
	ui.applyTheme()
	return ui
}

// Start starts the TUI application
func (ui *UI) Start(ctx context.Context) error {
	ui.logger.Println("Starting TUI application")

	// Handle context cancellation for both external and internal contexts
	go func() {
		select {
		case <-ctx.Done():
			ui.logger.Println("External context cancelled, stopping TUI")
		case <-ui.ctx.Done():
			ui.logger.Println("UI context cancelled, stopping TUI")
		}
		ui.cancel()
		ui.app.Stop()
	}()

	ui.running.Store(true)
	err := ui.app.Run()
	ui.running.Store(false)
	ui.logger.Printf("app.Run() returned with error: %v", err)
	return err
}

// Stop stops the TUI application
func (ui *UI) Stop() {
	ui.logger.Println("Stopping TUI application")
	ui.cancel()
	ui.app.Stop()
}

// setupLayout creates the main layout
func (ui *UI) setupLayout() {
	ui.appTitle = tview.NewTextView().SetDynamicColors(true)

	ui.panesRow = tview.NewFlex().SetDirection(tview.FlexColumn)
	for i := 0; i < ui.opts.Instances; i++ {
		p := newPane(ui, i)
		ui.panes = append(ui.panes, p)
		ui.panesRow.AddItem(p.root, 0, 1, i == 0)
	}

	ui.statusBar = tview.NewTextView().SetDynamicColors(true)

	ui.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.appTitle, 1, 0, false).
		AddItem(ui.panesRow, 0, 1, true).
		AddItem(ui.statusBar, 1, 0, false)
	ui.app.SetRoot(ui.root, true)

	// Panes re-evaluate their layout whenever the screen size changes.
	ui.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		w, h := screen.Size()
		if w != ui.lastWidth || h != ui.lastHeight {
			ui.resize(w, h)
		}
		return false
	})

	ui.panes[0].focusBody()
	ui.setStatusDirect("Ready")
}

// resize scales every pane for a new screen size.
func (ui *UI) resize(width, height int) {
	ui.lastWidth, ui.lastHeight = width, height
	for _, p := range ui.panes {
		p.scale(height)
	}
}

func (ui *UI) setupKeybindings() {
	ui.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ui.helpActive {
			return ev
		}
		switch ev.Key() {
		case tcell.KeyCtrlC:
			ui.Stop()
			return nil
		case tcell.KeyTab:
			if ui.inputFocused() {
				return ev
			}
			ui.cycleFocus(1)
			return nil
		case tcell.KeyBacktab:
			ui.cycleFocus(-1)
			return nil
		case tcell.KeyRune:
			if ui.inputFocused() {
				return ev
			}
			switch ev.Rune() {
			case 'q':
				ui.Stop()
				return nil
			case '?', 'h':
				ui.showHelp()
				return nil
			case 'T':
				ui.cycleTheme()
				return nil
			}
		}
		return ev
	})
}

// inputFocused reports whether a text input has focus, so runes are typed
// rather than treated as shortcuts.
func (ui *UI) inputFocused() bool {
	_, ok := ui.app.GetFocus().(*tview.InputField)
	return ok
}

// focusedPane returns the index of the pane holding focus, or 0.
func (ui *UI) focusedPane() int {
	for i, p := range ui.panes {
		if p.hasFocus() {
			return i
		}
	}
	return 0
}

// cycleFocus moves focus to the body of the next or previous pane.
func (ui *UI) cycleFocus(delta int) {
	n := len(ui.panes)
	next := ((ui.focusedPane()+delta)%n + n) % n
	ui.panes[next].focusBody()
	ui.setStatusDirect("[%s]Focus: Cases %d[-]", ui.theme.TagAccent, next+1)
}

// highlightFocus colors the border of the focused pane.
func (ui *UI) highlightFocus() {
	for _, p := range ui.panes {
		if p.hasFocus() {
			p.root.SetBorderColor(ui.theme.FocusBorder)
		} else {
			p.root.SetBorderColor(ui.theme.Border)
		}
	}
}

// publishQuery reports a filter query on the bus without blocking input.
func (ui *UI) publishQuery(instance int, query string, matches int) {
	msg := bus.NewQueryMessage(instance, query, matches)
	go func() {
		ctx, cancel := context.WithTimeout(ui.ctx, 2*time.Second)
		defer cancel()
		if err := ui.bus.PublishQuery(ctx, msg); err != nil {
			ui.logger.Printf("Failed to publish query: %v", err)
		}
	}()
}

func (ui *UI) showHelp() {
	ui.helpActive = true

	text := tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	text.SetBorder(true).SetTitle(" Help ").SetTitleAlign(tview.AlignLeft)
	text.SetBackgroundColor(ui.theme.Surface)
	text.SetTextColor(ui.theme.TextPrimary)
	text.SetBorderColor(ui.theme.FocusBorder)
	text.SetText(helpText(ui.theme))

	text.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Key() {
		case tcell.KeyEsc, tcell.KeyEnter:
			ui.restoreMainLayout()
			return nil
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q', ' ', '?', 'h':
				ui.restoreMainLayout()
				return nil
			}
		}
		return ev
	})

	centered := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(text, 30, 0, true).
			AddItem(nil, 0, 1, false), 72, 0, true).
		AddItem(nil, 0, 1, false)

	ui.lastFocus = ui.app.GetFocus()
	ui.app.SetRoot(centered, true)
	ui.app.SetFocus(text)
}

func helpText(th Theme) string {
	section := func(title string) string {
		return fmt.Sprintf("[%s::b]%s[-::-]\n", th.TagHeader, title)
	}
	key := func(k, desc string) string {
		return fmt.Sprintf("  [%s]%-10s[-] %s\n", th.TagAccent, k, desc)
	}
	var sb strings.Builder
	sb.WriteString(section("Global"))
	sb.WriteString(key("Tab", "next pane"))
	sb.WriteString(key("m / g", "map / grid tab"))
	sb.WriteString(key("/", "filter cases"))
	sb.WriteString(key("x, Esc", "clear the filter"))
	sb.WriteString(key("T", "cycle theme"))
	sb.WriteString(key("? / h", "help"))
	sb.WriteString(key("q", "quit"))
	sb.WriteString("\n" + section("Map"))
	sb.WriteString(key("n / p", "next / previous marker"))
	sb.WriteString(key("Enter", "open state or zoom into cluster"))
	sb.WriteString(key("Esc", "close the state panel"))
	sb.WriteString(key("arrows", "pan"))
	sb.WriteString(key("+ / -", "zoom"))
	sb.WriteString(key("f / 0", "fit markers / center"))
	sb.WriteString("\n" + section("Grid"))
	sb.WriteString(key("arrows", "move between cards"))
	sb.WriteString(key("Enter", "open case"))
	sb.WriteString(key("[ / ]", "previous / next page"))
	sb.WriteString(key("1-9", "go to page"))
	sb.WriteString(key("Home / End", "first / last page"))
	sb.WriteString("\n" + section("Case"))
	sb.WriteString(key("← / →", "PREVIOUS / NEXT"))
	sb.WriteString(key("f w e c", "share: facebook twitter email copy link"))
	sb.WriteString(key("Esc", "close"))
	return sb.String()
}

// restoreMainLayout restores the main TUI layout after closing the help view
func (ui *UI) restoreMainLayout() {
	ui.helpActive = false
	ui.app.SetRoot(ui.root, true)

	target := ui.lastFocus
	if target == nil {
		ui.panes[0].focusBody()
	} else {
		ui.app.SetFocus(target)
		ui.highlightFocus()
	}
	ui.setStatusDirect("[%s]Help closed[-]", ui.theme.TagSuccess)
}

// setStatusDirect updates the status bar immediately. Use this only from
// the UI goroutine (input handlers or QueueUpdate closures). While the app
// runs the message reverts to the hints after a few seconds.
func (ui *UI) setStatusDirect(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	ui.statusBar.SetText(ui.statusText(message))

	if !ui.running.Load() {
		return
	}
	if ui.toast != nil {
		ui.toast.Stop()
	}
	ui.toast = time.AfterFunc(toastDuration, func() {
		ui.app.QueueUpdateDraw(func() {
			ui.statusBar.SetText(ui.statusText(""))
		})
	})
}

func (ui *UI) statusText(message string) string {
	timestamp := time.Now().Format("15:04:05")
	parts := []string{fmt.Sprintf("[%s]%s[-]", ui.theme.TagMuted, timestamp)}
	if message != "" {
		parts = append(parts, message)
	}
	parts = append(parts, ui.buildShortcutHints())
	return strings.Join(parts, fmt.Sprintf(" [%s]|[-] ", ui.theme.TagMuted))
}

// buildShortcutHints lists the keys that matter for the focused pane.
func (ui *UI) buildShortcutHints() string {
	type kv struct{ key, label string }
	hints := []kv{{"h", "help"}}

	p := ui.panes[ui.focusedPane()]
	switch {
	case p.inst.Mode() == view.ModeMap:
		hints = append(hints, kv{"n/p", "marker"}, kv{"Enter", "open"}, kv{"g", "grid"})
	case p.overlayOpen():
		hints = append(hints, kv{"←/→", "prev/next"}, kv{"c", "copy link"}, kv{"Esc", "close"})
	default:
		hints = append(hints, kv{"Enter", "open"}, kv{"[/]", "page"}, kv{"m", "map"})
	}
	hints = append(hints, kv{"/", "filter"}, kv{"q", "quit"})

	var sb strings.Builder
	for i, h := range hints {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "[%s]%s[-]:%s", ui.theme.TagAccent, h.key, h.label)
	}
	return sb.String()
}

// applyTheme pushes theme colors to widgets
func (ui *UI) applyTheme() {
	ui.logger.Printf("Applying theme: %s", ui.themeName)

	ui.appTitle.SetBackgroundColor(ui.theme.Surface)
	ui.appTitle.SetText(fmt.Sprintf(" [%s::b]Section 106 Case Map[-::-] [%s]%d panes[-]",
		ui.theme.TagAccent, ui.theme.TagMuted, len(ui.panes)))
	ui.statusBar.SetTextColor(ui.theme.TextPrimary)
	ui.statusBar.SetBackgroundColor(ui.theme.Surface)
	ui.root.SetBackgroundColor(ui.theme.Bg)

	for _, p := range ui.panes {
		p.applyTheme()
	}
	ui.highlightFocus()
}

// cycleTheme moves to the next theme in sequence
func (ui *UI) cycleTheme() {
	ui.setTheme(nextTheme(ui.themeName))
}

// setTheme applies a named theme
func (ui *UI) setTheme(name string) {
	ui.themeName, ui.theme = themeByName(name)
	ui.applyTheme()
	ui.setStatusDirect("[%s]Theme: %s[-]", ui.theme.TagAccent, ui.themeName)
}

// Panes returns the feature instances in layout order.
func (ui *UI) Panes() []*view.Instance {
	out := make([]*view.Instance, len(ui.panes))
	for i, p := range ui.panes {
		out[i] = p.inst
	}
	return out
}

// GetStats returns UI statistics
func (ui *UI) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"panes": len(ui.panes),
		"theme": ui.themeName,
	}
	for i, p := range ui.panes {
		st := p.inst.State()
		prefix := fmt.Sprintf("pane_%d_", i+1)
		stats[prefix+"mode"] = st.Mode.String()
		stats[prefix+"query"] = st.Query
		stats[prefix+"cases"] = len(st.Active)
		stats[prefix+"compact"] = st.Compact
	}
	return stats
}
