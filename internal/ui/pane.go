package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Ashfaaq98/case-map-console/internal/grid"
	"github.com/Ashfaaq98/case-map-console/internal/share"
	"github.com/Ashfaaq98/case-map-console/internal/view"
)

const (
	pageMap     = "map"
	pageGrid    = "grid"
	pageOverlay = "overlay"

	panelWidth = 42
	gridCols   = 3
)

// Pane hosts one feature instance: tabs, filter input, map and grid.
type Pane struct {
	ui    *UI
	index int
	inst  *view.Instance

	root        *tview.Flex
	header      *tview.Flex
	tabs        *tview.TextView
	filter      *tview.InputField
	clearHint   *tview.TextView
	body        *tview.Pages
	mapView     *tview.Flex
	mapRow      *tview.Flex
	canvas      *mapCanvas
	panel       *tview.TextView
	attribution *tview.TextView
	gridView    *tview.Flex
	cardGrid    *tview.Grid
	cards       []*tview.TextView
	stats       *tview.TextView
	nav         *tview.TextView
	overlayView *tview.Flex
	overlay     *tview.TextView
	overlayNav  *tview.TextView

	// card is the highlighted card on the current page.
	card int
	// syncing suppresses the filter change callback while the host
	// rewrites the input text.
	syncing bool
}

func newPane(ui *UI, index int) *Pane {
	p := &Pane{ui: ui, index: index}
	p.inst = view.NewInstance(ui.source, view.Options{
		Icons:         ui.icons,
		Logger:        ui.logger,
		CompactHeight: ui.opts.CompactHeight,
		NarrowWidth:   ui.opts.NarrowWidth,
		OnQuery: func(query string, matches int) {
			ui.publishQuery(index, query, matches)
		},
	})
	p.build()
	p.refresh()
	return p
}

func (p *Pane) build() {
	p.tabs = tview.NewTextView().SetDynamicColors(true).SetRegions(false)

	p.filter = tview.NewInputField().
		SetLabel(" Filter: ").
		SetPlaceholder("title, agency, state...")
	p.filter.SetChangedFunc(func(text string) {
		if p.syncing {
			return
		}
		p.input(text)
	})
	p.filter.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEsc:
			p.clear()
		case tcell.KeyEnter, tcell.KeyTab, tcell.KeyDown:
			p.focusBody()
		}
	})

	p.clearHint = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight)

	p.header = tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(p.tabs, 18, 0, false).
		AddItem(p.filter, 0, 1, true).
		AddItem(p.clearHint, 12, 0, false)

	// Map
	p.canvas = newMapCanvas(p)
	p.canvas.SetInputCapture(p.mapKeys)
	p.panel = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true).SetScrollable(true)
	p.panel.SetBorder(true).SetTitle(" State ").SetTitleAlign(tview.AlignLeft)
	p.mapRow = tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(p.canvas, 0, 1, true).
		AddItem(p.panel, 0, 0, false)
	p.attribution = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight)
	p.mapView = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.mapRow, 0, 1, true).
		AddItem(p.attribution, 1, 0, false)

	// Grid
	p.cardGrid = tview.NewGrid().SetColumns(0, 0, 0).SetRows(0, 0)
	for i := 0; i < grid.PageSize; i++ {
		card := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
		card.SetBorder(true)
		p.cards = append(p.cards, card)
		p.cardGrid.AddItem(card, i/gridCols, i%gridCols, 1, 1, 0, 0, false)
	}
	p.stats = tview.NewTextView().SetDynamicColors(true)
	p.nav = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight)
	footer := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(p.stats, 0, 1, false).
		AddItem(p.nav, 0, 2, false)
	p.gridView = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.cardGrid, 0, 1, false).
		AddItem(footer, 1, 0, false)
	p.gridView.SetInputCapture(p.gridKeys)

	// Overlay
	p.overlay = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true).SetScrollable(true)
	p.overlay.SetBorder(true).SetTitle(" Case ").SetTitleAlign(tview.AlignLeft)
	p.overlayNav = tview.NewTextView().SetDynamicColors(true)
	p.overlayView = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.overlay, 0, 1, true).
		AddItem(p.overlayNav, 1, 0, false)
	p.overlayView.SetInputCapture(p.overlayKeys)

	p.body = tview.NewPages().
		AddPage(pageMap, p.mapView, true, true).
		AddPage(pageGrid, p.gridView, true, false).
		AddPage(pageOverlay, p.overlayView, true, false)

	p.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.header, 1, 0, false).
		AddItem(p.body, 0, 1, true)
	p.root.SetBorder(true).SetTitle(fmt.Sprintf(" Cases %d ", p.index+1)).SetTitleAlign(tview.AlignLeft)
}

// input applies filter text to the instance.
func (p *Pane) input(text string) {
	p.inst.Input(p.ui.ctx, text)
	p.card = 0
	p.refresh()
}

// clear resets the filter input and the instance.
func (p *Pane) clear() {
	p.syncing = true
	p.filter.SetText("")
	p.syncing = false
	p.inst.Clear()
	p.card = 0
	p.refresh()
}

func (p *Pane) showMap() {
	p.inst.ToMap()
	p.refresh()
	p.focusBody()
}

func (p *Pane) showGrid() {
	p.inst.ToGrid()
	p.card = 0
	p.refresh()
	p.focusBody()
}

// scale re-evaluates the compact layout for a screen height.
func (p *Pane) scale(height int) {
	p.inst.Scale(height)
	p.refresh()
}

// focusBody focuses whatever the body currently shows.
func (p *Pane) focusBody() {
	switch {
	case p.inst.Mode() == view.ModeMap:
		p.ui.app.SetFocus(p.canvas)
	case p.overlayOpen():
		p.ui.app.SetFocus(p.overlay)
	default:
		p.ui.app.SetFocus(p.gridView)
	}
	p.ui.highlightFocus()
}

func (p *Pane) focusFilter() {
	p.ui.app.SetFocus(p.filter)
	p.ui.highlightFocus()
}

func (p *Pane) overlayOpen() bool {
	_, ok := p.inst.Grid.Overlay()
	return ok
}

// hasFocus reports whether any of the pane's widgets has focus.
func (p *Pane) hasFocus() bool {
	return p.root.HasFocus()
}

// refresh pushes the instance state into the widgets.
func (p *Pane) refresh() {
	th := p.ui.theme
	st := p.inst.State()

	p.tabs.SetText(tabsText(p.inst.SelectedTab(), th))
	if st.ClearVisible() {
		p.clearHint.SetText(fmt.Sprintf("[%s]Esc[-]:clear ×", th.TagAccent))
	} else {
		p.clearHint.SetText("")
	}

	// The compact layout drops the pane border to give the body two rows.
	p.root.SetBorder(!st.Compact)

	if st.Mode == view.ModeMap {
		p.body.SwitchToPage(pageMap)
	} else if p.overlayOpen() {
		p.body.SwitchToPage(pageOverlay)
	} else {
		p.body.SwitchToPage(pageGrid)
	}

	p.refreshMap()
	p.refreshGrid()
}

func (p *Pane) refreshMap() {
	th := p.ui.theme
	m := p.inst.Map

	if panel, ok := m.Panel(); ok {
		p.panel.SetText(panelText(panel, th))
		p.panel.ScrollToBeginning()
		p.mapRow.ResizeItem(p.panel, panelWidth, 0)
	} else {
		p.panel.SetText("")
		p.mapRow.ResizeItem(p.panel, 0, 0)
	}

	if m.AttributionVisible() {
		p.attribution.SetText(fmt.Sprintf("[%s]%s[-]", th.TagMuted, tview.Escape(p.ui.opts.Attribution)))
	} else {
		p.attribution.SetText("")
	}
}

func (p *Pane) refreshGrid() {
	th := p.ui.theme
	g := p.inst.Grid
	page := g.PageCases()
	if p.card >= len(page) {
		p.card = max(0, len(page)-1)
	}

	for i, card := range p.cards {
		if i < len(page) {
			card.SetText(cardText(page[i], th))
			card.SetTitle(" " + itoa(g.PageStart(g.Page())+i+1) + " ")
		} else {
			card.SetText("")
			card.SetTitle("")
		}
		if i == p.card && i < len(page) {
			card.SetBorderColor(th.FocusBorder)
		} else {
			card.SetBorderColor(th.Border)
		}
	}
	p.stats.SetText(fmt.Sprintf("[%s]%s[-]", th.TagMuted, tview.Escape(g.StatsLabel())))
	p.nav.SetText(navText(g.Nav(), th))

	if c, ok := g.OverlayCase(); ok {
		idx, _ := g.Overlay()
		p.overlay.SetText(detailText(c, idx, th))
		p.overlayNav.SetText(overlayNavText(g, th))
	} else {
		p.overlay.SetText("")
		p.overlayNav.SetText("")
	}
}

// paneKeys handles keys shared by the map and grid bodies.
func (p *Pane) paneKeys(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	switch ev.Rune() {
	case 'm':
		p.showMap()
		return nil
	case 'g':
		p.showGrid()
		return nil
	case '/':
		p.focusFilter()
		return nil
	case 'x':
		p.clear()
		return nil
	}
	return ev
}

func (p *Pane) mapKeys(ev *tcell.EventKey) *tcell.EventKey {
	m := p.inst.Map
	switch ev.Key() {
	case tcell.KeyLeft:
		m.Pan(-4, 0)
		return nil
	case tcell.KeyRight:
		m.Pan(4, 0)
		return nil
	case tcell.KeyUp:
		m.Pan(0, -2)
		return nil
	case tcell.KeyDown:
		m.Pan(0, 2)
		return nil
	case tcell.KeyEnter:
		p.activateMapItem()
		return nil
	case tcell.KeyEsc:
		m.ClosePanel()
		p.refresh()
		return nil
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'n':
			p.canvas.moveCursor(1)
			return nil
		case 'p':
			p.canvas.moveCursor(-1)
			return nil
		case '+', '=':
			m.SetZoom(m.Zoom() + 1)
			return nil
		case '-':
			m.SetZoom(m.Zoom() - 1)
			return nil
		case 'f':
			if !m.Focus() {
				p.ui.setStatusDirect("[%s]No cases to focus[-]", p.ui.theme.TagWarning)
			}
			return nil
		case '0':
			m.Center()
			return nil
		}
	}
	return p.paneKeys(ev)
}

func (p *Pane) activateMapItem() {
	it, ok := p.canvas.activate()
	if !ok {
		return
	}
	if it.Cluster != nil {
		p.ui.setStatusDirect("Zoomed to %d cases", clusterCases(p.inst.Map, it))
	} else if panel, ok := p.inst.Map.Panel(); ok {
		p.ui.setStatusDirect("%s", panel.Title)
	}
	p.refresh()
}

func (p *Pane) gridKeys(ev *tcell.EventKey) *tcell.EventKey {
	g := p.inst.Grid
	n := len(g.PageCases())
	switch ev.Key() {
	case tcell.KeyLeft:
		p.moveCard(-1, n)
		return nil
	case tcell.KeyRight:
		p.moveCard(1, n)
		return nil
	case tcell.KeyUp:
		p.moveCard(-gridCols, n)
		return nil
	case tcell.KeyDown:
		p.moveCard(gridCols, n)
		return nil
	case tcell.KeyPgUp:
		p.follow(grid.LinkPrev)
		return nil
	case tcell.KeyPgDn:
		p.follow(grid.LinkNext)
		return nil
	case tcell.KeyHome:
		p.follow(grid.LinkQuickStart)
		return nil
	case tcell.KeyEnd:
		p.follow(grid.LinkQuickEnd)
		return nil
	case tcell.KeyEnter:
		p.openCard()
		return nil
	case tcell.KeyRune:
		switch ev.Rune() {
		case '[':
			p.follow(grid.LinkPrev)
			return nil
		case ']':
			p.follow(grid.LinkNext)
			return nil
		}
		if r := ev.Rune(); r >= '1' && r <= '9' {
			p.gotoPage(int(r - '1'))
			return nil
		}
	}
	return p.paneKeys(ev)
}

func (p *Pane) moveCard(delta, n int) {
	if n == 0 {
		return
	}
	next := p.card + delta
	if next < 0 || next >= n {
		return
	}
	p.card = next
	p.refreshGrid()
}

// follow activates the first nav link of the given kind. Quick links fall
// back to the first or last page when no quick link is shown.
func (p *Pane) follow(kind grid.LinkKind) {
	g := p.inst.Grid
	switch kind {
	case grid.LinkQuickStart:
		g.SetPage(0)
	case grid.LinkQuickEnd:
		g.SetPage(g.NumPages() - 1)
	default:
		for _, l := range g.Nav() {
			if l.Kind == kind {
				if !g.Follow(l) {
					return
				}
				break
			}
		}
	}
	p.card = 0
	p.refreshGrid()
}

// gotoPage follows the visible page link for page, if there is one.
func (p *Pane) gotoPage(page int) {
	g := p.inst.Grid
	for _, l := range g.Nav() {
		if l.Kind != grid.LinkPrev && l.Kind != grid.LinkNext && l.Page == page {
			g.Follow(l)
			p.card = 0
			p.refreshGrid()
			return
		}
	}
}

// openCard handles a click on the highlighted card.
func (p *Pane) openCard() {
	g := p.inst.Grid
	if len(g.PageCases()) == 0 {
		return
	}
	_, _, width, _ := p.root.GetRect()
	action := g.OpenCase(g.PageStart(g.Page())+p.card, width)
	switch action.Kind {
	case grid.ActionOverlay:
		p.refresh()
		p.focusBody()
	case grid.ActionNavigate:
		c := g.Cases()[action.Index]
		if err := p.ui.sharer.OpenCase(c); err != nil {
			p.ui.logger.Printf("Failed to open case page: %v", err)
			p.ui.setStatusDirect("[%s]Could not open %s[-]", p.ui.theme.TagError, tview.Escape(action.URL))
			return
		}
		p.ui.setStatusDirect("Opened %s", tview.Escape(action.URL))
	}
}

func (p *Pane) overlayKeys(ev *tcell.EventKey) *tcell.EventKey {
	g := p.inst.Grid
	switch ev.Key() {
	case tcell.KeyLeft:
		if g.OverlayPrev() {
			p.refreshGrid()
		}
		return nil
	case tcell.KeyRight:
		if g.OverlayNext() {
			p.refreshGrid()
		}
		return nil
	case tcell.KeyEsc:
		g.CloseOverlay()
		p.refresh()
		p.focusBody()
		return nil
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'f':
			p.share(share.Facebook)
			return nil
		case 'w':
			p.share(share.Twitter)
			return nil
		case 'e':
			p.share(share.Email)
			return nil
		case 'c':
			p.share(share.CopyLink)
			return nil
		case 'm', 'g', 'x':
			// Mode and filter changes close the overlay through the grid.
			g.CloseOverlay()
		}
	}
	return p.paneKeys(ev)
}

// share runs a share action for the case in the overlay.
func (p *Pane) share(t share.Target) {
	c, ok := p.inst.Grid.OverlayCase()
	if !ok {
		return
	}
	toast, err := p.ui.sharer.Share(p.ui.ctx, t, c)
	if err != nil {
		p.ui.logger.Printf("Share failed: %v", err)
		p.ui.setStatusDirect("[%s]Share failed: %s[-]", p.ui.theme.TagError, tview.Escape(err.Error()))
		return
	}
	p.ui.setStatusDirect("[%s]%s[-]", p.ui.theme.TagSuccess, toast)
}

// applyTheme pushes theme colors to the pane's widgets.
func (p *Pane) applyTheme() {
	th := p.ui.theme
	for _, tv := range []*tview.TextView{p.tabs, p.clearHint, p.panel, p.attribution, p.stats, p.nav, p.overlay, p.overlayNav} {
		tv.SetBackgroundColor(th.Surface)
		tv.SetTextColor(th.TextPrimary)
		tv.SetBorderColor(th.Border)
	}
	for _, card := range p.cards {
		card.SetBackgroundColor(th.Surface)
		card.SetTextColor(th.TextPrimary)
	}
	p.filter.SetFieldBackgroundColor(th.SelectionBg)
	p.filter.SetFieldTextColor(th.TextPrimary)
	p.filter.SetLabelColor(th.Accent)
	p.filter.SetBackgroundColor(th.Surface)
	p.filter.SetPlaceholderTextColor(th.TextMuted)
	p.header.SetBackgroundColor(th.Surface)
	p.canvas.SetBackgroundColor(th.Land)
	p.canvas.SetBorderColor(th.Border)
	p.cardGrid.SetBackgroundColor(th.Surface)
	p.root.SetBackgroundColor(th.Surface)
	p.root.SetTitleColor(th.Header)
	p.refresh()
}
