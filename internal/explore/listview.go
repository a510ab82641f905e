package explore

import (
	"fmt"
	"math"

	"github.com/rpggio/hrl-explorer/internal/domain/project"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const descriptionExcerptRunes = 160

// ListLayout gives the fixed pixel geometry of the scrollable card list.
type ListLayout struct {
	ViewportHeight float64 `json:"viewport_height"`
	HeaderHeight   float64 `json:"header_height"`
	CardHeight     float64 `json:"card_height"`
	Gap            float64 `json:"gap"`
}

// DefaultListLayout matches the sidebar list in the explore page.
func DefaultListLayout() ListLayout {
	return ListLayout{ViewportHeight: 640, HeaderHeight: 48, CardHeight: 220, Gap: 16}
}

// Card is the summary of one project in the list.
type Card struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Status          StatusStyle `json:"status"`
	Year            int         `json:"year"`
	TributarySystem string      `json:"tributary_system"`
	HabitatType     string      `json:"habitat_type"`
	Area            string      `json:"area"`
	Description     string      `json:"description"`
	Selected        bool        `json:"selected"`
	Elevation       int         `json:"elevation"`
	Border          int         `json:"border"`
}

// ScrollEvent records an automatic scroll of the list.
type ScrollEvent struct {
	ProjectID string  `json:"project_id"`
	From      float64 `json:"from"`
	To        float64 `json:"to"`
	Behavior  string  `json:"behavior"`
}

// Moved reports whether the scroll changed the offset.
func (e ScrollEvent) Moved() bool {
	return e.From != e.To
}

// ListRender is the list view's output for one render pass.
type ListRender struct {
	Title      string       `json:"title"`
	Count      int          `json:"count"`
	Cards      []Card       `json:"cards"`
	SelectedID string       `json:"selected_id,omitempty"`
	ScrollTop  float64      `json:"scroll_top"`
	LastScroll *ScrollEvent `json:"last_scroll,omitempty"`
}

// ListView presents every project as a card, highlights the selected one and
// keeps it scrolled into view.
type ListView struct {
	ctrl    *Controller
	layout  ListLayout
	printer *message.Printer

	selectedID  string
	scrollTop   float64
	lastScroll  *ScrollEvent
	unsubscribe func()
}

// NewListView creates a list view subscribed to ctrl.
func NewListView(ctrl *Controller, layout ListLayout) *ListView {
	v := &ListView{
		ctrl:    ctrl,
		layout:  layout,
		printer: message.NewPrinter(language.English),
	}
	v.selectedID = ctrl.Selection().ID()
	v.unsubscribe = ctrl.OnChange(v.onSelectionChange)
	return v
}

// Close detaches the view from its controller.
func (v *ListView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Click handles a click on the card for id.
func (v *ListView) Click(id string) bool {
	return v.ctrl.Select(id)
}

// ScrollTo moves the list as a user scroll would, clamped to the content.
func (v *ListView) ScrollTo(top float64) {
	v.scrollTop = v.clampScroll(top)
}

// ScrollTop returns the current scroll offset in pixels.
func (v *ListView) ScrollTop() float64 {
	return v.clampScroll(v.scrollTop)
}

// LastScroll returns the most recent automatic scroll, if any.
func (v *ListView) LastScroll() (ScrollEvent, bool) {
	if v.lastScroll == nil {
		return ScrollEvent{}, false
	}
	return *v.lastScroll, true
}

// SelectedID returns the id the list currently highlights.
func (v *ListView) SelectedID() string {
	return v.selectedID
}

func (v *ListView) onSelectionChange(sel Selection) {
	v.selectedID = sel.ID()
	if sel.Empty() {
		return
	}
	idx := v.ctrl.Store().IndexOf(sel.ID())
	if idx < 0 {
		return
	}
	v.scrollIntoView(sel.ID(), idx)
}

// scrollIntoView uses nearest-edge semantics: a fully visible card does not
// move the list; otherwise the list moves just far enough to show it.
func (v *ListView) scrollIntoView(id string, idx int) {
	top := v.cardTop(idx)
	bottom := top + v.layout.CardHeight
	from := v.ScrollTop()
	to := from

	switch {
	case top < from:
		to = top
	case bottom > from+v.layout.ViewportHeight:
		to = bottom - v.layout.ViewportHeight
		if v.layout.CardHeight > v.layout.ViewportHeight {
			to = top
		}
	}
	to = v.clampScroll(to)
	v.scrollTop = to
	v.lastScroll = &ScrollEvent{ProjectID: id, From: from, To: to, Behavior: "smooth"}
}

func (v *ListView) cardTop(idx int) float64 {
	return v.layout.HeaderHeight + float64(idx)*(v.layout.CardHeight+v.layout.Gap)
}

func (v *ListView) contentHeight() float64 {
	n := v.ctrl.Store().Len()
	if n == 0 {
		return v.layout.HeaderHeight
	}
	return v.cardTop(n-1) + v.layout.CardHeight
}

func (v *ListView) clampScroll(top float64) float64 {
	maxTop := math.Max(0, v.contentHeight()-v.layout.ViewportHeight)
	return math.Max(0, math.Min(maxTop, top))
}

// Render builds the cards in store order.
func (v *ListView) Render() ListRender {
	projects := v.ctrl.Store().All()
	cards := make([]Card, 0, len(projects))
	for _, p := range projects {
		cards = append(cards, v.card(p))
	}
	out := ListRender{
		Title:      fmt.Sprintf("Restoration Projects (%d)", len(projects)),
		Count:      len(projects),
		Cards:      cards,
		SelectedID: v.selectedID,
		ScrollTop:  v.ScrollTop(),
	}
	if v.lastScroll != nil {
		ev := *v.lastScroll
		out.LastScroll = &ev
	}
	return out
}

func (v *ListView) card(p project.Project) Card {
	selected := p.ID == v.selectedID
	c := Card{
		ID:              p.ID,
		Name:            p.Name,
		Status:          ProjectStyle(p),
		Year:            p.Year,
		TributarySystem: p.TributarySystem,
		HabitatType:     p.HabitatType,
		Area:            v.FormatAcres(p.AreaAcres),
		Description:     excerpt(p.Description, descriptionExcerptRunes),
		Selected:        selected,
		Elevation:       1,
	}
	if selected {
		c.Elevation = 8
		c.Border = 2
	}
	return c
}

// FormatAcres renders an area with digit grouping, e.g. "1,250 acres".
func (v *ListView) FormatAcres(acres float64) string {
	return v.printer.Sprintf("%v acres", number.Decimal(acres, number.MaxFractionDigits(1)))
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
