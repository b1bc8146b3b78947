// Package tui is a terminal catalog browser: a filter panel over the catalog
// list and a detail screen per vehicle.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/dal"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/store"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/view"
)

// Top speed slider bounds, in mph
const (
	speedMin  = 150
	speedMax  = 300
	speedStep = 10
)

type screen int

const (
	screenCatalog screen = iota
	screenSearch
	screenPrice
	screenDetail
)

// catalogMsg carries a finished catalog fetch. gen ties it to the view that issued it.
type catalogMsg struct {
	gen  int
	snap *store.Snapshot
	err  error
}

type detailMsg struct {
	err error
}

// Model is the root bubbletea model
type Model struct {
	src    source.Catalog
	ctx    context.Context
	screen screen

	catalog *view.CatalogView
	gen     int
	cursor  int

	detail *view.DetailView

	search textinput.Model

	// price editor: inputs[0] is the minimum, inputs[1] the maximum
	price      [2]textinput.Model
	priceFocus int
	priceErr   string

	width  int
	height int
}

// New creates a browser over src. ctx bounds every request it issues.
func New(ctx context.Context, src source.Catalog) Model {
	search := textinput.New()
	search.Placeholder = "Search supercars..."
	search.CharLimit = 64
	search.Width = 40

	var price [2]textinput.Model
	for i, placeholder := range []string{"min", "no limit"} {
		price[i] = textinput.New()
		price[i].Placeholder = placeholder
		price[i].CharLimit = 12
		price[i].Width = 12
	}

	return Model{
		src:     src,
		ctx:     ctx,
		catalog: view.NewCatalogView(src, dal.CatalogCriteria()),
		search:  search,
		price:   price,
	}
}

func (m Model) Init() tea.Cmd {
	return fetchCatalog(m.ctx, m.catalog, m.gen)
}

func fetchCatalog(ctx context.Context, v *view.CatalogView, gen int) tea.Cmd {
	return func() tea.Msg {
		snap, err := v.Fetch(ctx)
		return catalogMsg{gen: gen, snap: snap, err: err}
	}
}

func fetchDetail(ctx context.Context, d *view.DetailView, id int) tea.Cmd {
	return func() tea.Msg {
		return detailMsg{err: d.OpenByID(ctx, id)}
	}
}

// reload replaces the catalog view with a fresh one, keeping the criteria.
func (m *Model) reload() tea.Cmd {
	criteria := m.catalog.Criteria()
	m.catalog.Close()
	m.gen++
	m.catalog = view.NewCatalogView(m.src, criteria)
	m.cursor = 0
	return fetchCatalog(m.ctx, m.catalog, m.gen)
}

func (m *Model) closeDetail() {
	if m.detail != nil {
		m.detail.Close()
		m.detail = nil
	}
	m.screen = screenCatalog
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case catalogMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		_ = m.catalog.Settle(msg.snap, msg.err)
		m.clampCursor()
		return m, nil

	case detailMsg:
		// the detail view already holds the outcome; this only triggers a render
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.shutdown()
			return m, tea.Quit
		}
		switch m.screen {
		case screenSearch:
			return m.updateSearch(msg)
		case screenPrice:
			return m.updatePrice(msg)
		case screenDetail:
			return m.updateDetail(msg)
		default:
			return m.updateCatalog(msg)
		}
	}
	return m, nil
}

func (m Model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.catalog.Visible()

	switch msg.String() {
	case "q", "esc":
		m.shutdown()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "/":
		m.screen = screenSearch
		m.search.SetValue(m.catalog.Criteria().Search)
		m.search.Focus()
		return m, textinput.Blink
	case "p":
		return m, m.openPrice()
	case "b":
		m.catalog.SetBrand(next(m.catalog.Criteria().Brand, m.catalog.Brands()))
		m.clampCursor()
	case "t":
		m.catalog.SetType(next(m.catalog.Criteria().Type, m.catalog.Types()))
		m.clampCursor()
	case "+", "=":
		speed := m.catalog.Criteria().MinTopSpeed + speedStep
		if speed > speedMax {
			speed = speedMax
		}
		m.catalog.SetMinTopSpeed(speed)
		m.clampCursor()
	case "-":
		speed := m.catalog.Criteria().MinTopSpeed - speedStep
		if speed < speedMin {
			speed = speedMin
		}
		m.catalog.SetMinTopSpeed(speed)
		m.clampCursor()
	case "c":
		m.catalog.SetCriteria(dal.CatalogCriteria())
		m.clampCursor()
	case "r":
		return m, m.reload()
	case "enter":
		if len(visible) == 0 {
			return m, nil
		}
		m.detail = view.NewDetailView(m.src)
		m.screen = screenDetail
		return m, fetchDetail(m.ctx, m.detail, visible[m.cursor].ID)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.search.Blur()
		m.screen = screenCatalog
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.catalog.SetSearch(m.search.Value())
	m.clampCursor()
	return m, cmd
}

func (m *Model) openPrice() tea.Cmd {
	r := m.catalog.Criteria().PriceRange
	m.price[0].SetValue(strconv.FormatInt(r.Min, 10))
	m.price[1].SetValue("")
	if r.Max != dal.NoMaxPrice {
		m.price[1].SetValue(strconv.FormatInt(r.Max, 10))
	}
	m.priceErr = ""
	m.priceFocus = 0
	m.price[0].Focus()
	m.price[1].Blur()
	m.screen = screenPrice
	return textinput.Blink
}

func (m Model) updatePrice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrice()
		return m, nil
	case "tab", "shift+tab":
		m.price[m.priceFocus].Blur()
		m.priceFocus = 1 - m.priceFocus
		return m, m.price[m.priceFocus].Focus()
	case "enter":
		r, err := parsePriceRange(m.price[0].Value(), m.price[1].Value())
		if err != nil {
			m.priceErr = err.Error()
			return m, nil
		}
		m.catalog.SetPriceRange(r.Min, r.Max)
		m.clampCursor()
		m.closePrice()
		return m, nil
	}

	var cmd tea.Cmd
	m.price[m.priceFocus], cmd = m.price[m.priceFocus].Update(msg)
	return m, cmd
}

func (m *Model) closePrice() {
	m.price[0].Blur()
	m.price[1].Blur()
	m.priceErr = ""
	m.screen = screenCatalog
}

// parsePriceRange reads the editor inputs. A blank minimum is 0 and a blank
// maximum is no limit.
func parsePriceRange(minText, maxText string) (dal.PriceRange, error) {
	r := dal.PriceRange{Min: 0, Max: dal.NoMaxPrice}
	parse := func(label, text string, dst *int64) error {
		text = strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
		if text == "" {
			return nil
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%s price must be a positive number", label)
		}
		*dst = n
		return nil
	}
	if err := parse("min", minText, &r.Min); err != nil {
		return r, err
	}
	if err := parse("max", maxText, &r.Max); err != nil {
		return r, err
	}
	if r.Min > r.Max {
		return r, fmt.Errorf("min price exceeds max price")
	}
	return r, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q":
		m.closeDetail()
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.catalog.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) shutdown() {
	m.catalog.Close()
	if m.detail != nil {
		m.detail.Close()
	}
}

// next cycles through "all" followed by options.
func next(current string, options []string) string {
	cycle := append([]string{dal.All}, options...)
	for i, o := range cycle {
		if o == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return dal.All
}

func (m Model) View() string {
	switch m.screen {
	case screenDetail:
		return m.viewDetail()
	default:
		return m.viewCatalog()
	}
}

func (m Model) viewCatalog() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Velocity APEX · Catalog"))
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(m.viewFilters()))
	b.WriteString("\n\n")

	switch m.catalog.State() {
	case view.StateIdle, view.StateLoading:
		b.WriteString(mutedStyle.Render("Loading..."))
	case view.StateFailed:
		b.WriteString(errorStyle.Render("Error fetching supercars. Press r to retry."))
	case view.StateEmpty:
		b.WriteString(mutedStyle.Render("No supercars match these filters."))
	default:
		for i, v := range m.catalog.Visible() {
			line := fmt.Sprintf("%-22s %-12s %-18s %12s %4d mph",
				v.Name, v.Brand, v.Type, formatPrice(v.Price), v.TopSpeed)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("/ search · b brand · t type · p price · +/- top speed · c clear · r reload · enter details · q quit"))
	return b.String()
}

func (m Model) viewFilters() string {
	c := m.catalog.Criteria()
	search := c.Search
	if m.screen == screenSearch {
		search = m.search.View()
	} else if search == "" {
		search = mutedStyle.Render("(none)")
	}
	maxPrice := formatPrice(c.PriceRange.Max)
	if c.PriceRange.Max == dal.NoMaxPrice {
		maxPrice = "no limit"
	}
	priceRow := formatPrice(c.PriceRange.Min) + " - " + maxPrice
	if m.screen == screenPrice {
		priceRow = m.price[0].View() + " - " + m.price[1].View()
		if m.priceErr != "" {
			priceRow += "  " + errorStyle.Render(m.priceErr)
		}
	}
	rows := []string{
		labelStyle.Render("Search: ") + search,
		labelStyle.Render("Brand: ") + c.Brand + "   " + labelStyle.Render("Type: ") + c.Type,
		labelStyle.Render("Price: ") + priceRow,
		labelStyle.Render("Minimum Top Speed: ") + fmt.Sprintf("%d mph", c.MinTopSpeed),
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) viewDetail() string {
	var b strings.Builder
	if m.detail == nil {
		return ""
	}

	switch m.detail.State() {
	case view.StateIdle, view.StateLoading:
		return mutedStyle.Render("Loading...")
	case view.StateFailed:
		return errorStyle.Render("Error fetching car details. Please try again later.")
	case view.StateEmpty:
		return mutedStyle.Render("No car details available")
	}

	v, _ := m.detail.Vehicle()
	b.WriteString(titleStyle.Render(v.Name))
	b.WriteString("\n\n")
	b.WriteString(selectedStyle.Render(formatPrice(v.Price)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Brand:"), v.Brand)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Type:"), v.Type)
	fmt.Fprintf(&b, "%s %d mph\n", labelStyle.Render("Top Speed:"), v.TopSpeed)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Acceleration:"), v.Acceleration)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Power:"), v.Power)

	specs := make([]string, 0, 5)
	for _, s := range m.detail.Specifications() {
		specs = append(specs, fmt.Sprintf("%-13s %s", s.Key, s.Value))
	}
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(labelStyle.Render("Specifications") + "\n" + strings.Join(specs, "\n")))
	b.WriteString("\n")

	features := mutedStyle.Render("No features available.")
	if m.detail.HasFeatures() {
		items := make([]string, 0, len(v.Features))
		for _, f := range v.Features {
			items = append(items, "✓ "+f)
		}
		features = strings.Join(items, "\n")
	}
	b.WriteString(panelStyle.Render(labelStyle.Render("Features") + "\n" + features))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("esc back to catalog"))
	return b.String()
}

var printer = message.NewPrinter(language.English)

// formatPrice renders whole currency units with thousands separators.
func formatPrice(price int64) string {
	return printer.Sprintf("$%d", price)
}
