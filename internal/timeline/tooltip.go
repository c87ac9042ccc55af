package timeline

import (
	"fmt"
	"math"
	"strconv"
)

// TranslateXPct centres the tooltip on its anchor.
const TranslateXPct = -50.0

// Placement positions the tooltip of a hovered bar.
type Placement struct {
	AnchorPct     float64 `json:"anchorPct"`
	TranslateXPct float64 `json:"translateXPct"`
	Above         bool    `json:"above"`
}

// PlaceTooltip anchors the tooltip at the bar's left edge, pulled left so a
// tooltip of tooltipWidthPct does not run past the right edge, and flips it
// above the bar for the last two rows.
func PlaceTooltip(row, rows int, leftPct, tooltipWidthPct float64) Placement {
	return Placement{
		AnchorPct:     math.Min(leftPct, 100-tooltipWidthPct),
		TranslateXPct: TranslateXPct,
		Above:         row >= rows-2,
	}
}

// CSS returns the placement as inline style properties.
func (p Placement) CSS() map[string]string {
	css := map[string]string{
		"left":      strconv.FormatFloat(p.AnchorPct, 'f', -1, 64) + "%",
		"transform": fmt.Sprintf("translateX(%s%%)", strconv.FormatFloat(p.TranslateXPct, 'f', -1, 64)),
	}
	if p.Above {
		css["bottom"] = "100%"
	} else {
		css["top"] = "100%"
	}
	return css
}

// Hover is the single hovered task of a timeline view. The last Enter wins;
// Leave only clears the selection if it names the hovered task.
type Hover struct {
	id string
}

// Enter makes id the hovered task.
func (h *Hover) Enter(id string) {
	h.id = id
}

// Leave clears the hover if id is the hovered task.
func (h *Hover) Leave(id string) {
	if h.id == id {
		h.id = ""
	}
}

// Clear drops the hover unconditionally.
func (h *Hover) Clear() {
	h.id = ""
}

// Current returns the hovered task id, if any.
func (h *Hover) Current() (string, bool) {
	return h.id, h.id != ""
}
