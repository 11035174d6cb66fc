// Package selection remembers which offer the participant last picked and
// restyles the order tables after every render.
package selection

import (
	"github.com/zappabad/pctmarket/internal/snapshot"
	"github.com/zappabad/pctmarket/internal/view"
)

// Tracker holds selID. The selection is sticky by identity: when the
// selected offer is missing from a snapshot the row is simply not styled, and
// it lights up again if an offer with the same id comes back.
type Tracker struct {
	selID snapshot.OfferID
	set   bool
}

// Select records the clicked row's offer id.
func (t *Tracker) Select(id snapshot.OfferID) {
	t.selID = id
	t.set = true
}

// Selected returns the remembered offer id.
func (t *Tracker) Selected() (snapshot.OfferID, bool) {
	return t.selID, t.set
}

// Clear forgets the selection.
func (t *Tracker) Clear() {
	t.selID = ""
	t.set = false
}

// Apply styles every order row for participant me:
//  1. foreign rows are selectable,
//  2. own rows get the own style,
//  3. the selected row, if present, gets the selected variant matching its
//     ownership.
func (t *Tracker) Apply(me snapshot.ParticipantID, tables ...*view.Table) {
	for _, tbl := range tables {
		for i := range tbl.Rows {
			row := &tbl.Rows[i]
			if row.Kind != view.RowOrder {
				continue
			}
			own := row.OwnedBy(me)
			switch {
			case t.set && row.OfferID == t.selID && own:
				row.Style = view.StyleOwnSelected
			case t.set && row.OfferID == t.selID:
				row.Style = view.StyleForeignSelected
			case own:
				row.Style = view.StyleOwn
			default:
				row.Style = view.StyleSelectable
			}
		}
	}
}

// ClearStyles strips every selection style from the order rows.
func ClearStyles(tables ...*view.Table) {
	for _, tbl := range tables {
		for i := range tbl.Rows {
			if tbl.Rows[i].Kind == view.RowOrder {
				tbl.Rows[i].Style = view.StyleNone
			}
		}
	}
}
