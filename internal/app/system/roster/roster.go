// Package roster filters already-loaded member lists by a free-text term.
package roster

import (
	"strings"

	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// View selects how an empty term is treated.
type View int

const (
	// AdminView lists everything when the term is empty.
	AdminView View = iota
	// PublicView asks for a term instead of listing everyone.
	PublicView
)

// Result is the outcome of a search.
type Result struct {
	Term      string
	Members   []models.Member
	NeedsTerm bool // PublicView with an empty term
	NoMatches bool // a non-empty term matched nothing
}

// Normalize trims and case-folds a search term.
func Normalize(term string) string {
	return text.Fold(strings.TrimSpace(term))
}

// Matches reports whether m matches an already normalized, non-empty term:
// case-insensitive substring of name, email or phone.
func Matches(m models.Member, term string) bool {
	return strings.Contains(text.Fold(m.Name), term) ||
		strings.Contains(text.Fold(m.Email), term) ||
		strings.Contains(text.Fold(m.Phone), term)
}

// Search filters members by term, keeping their order.
func Search(members []models.Member, term string, view View) Result {
	term = Normalize(term)
	if term == "" {
		if view == PublicView {
			return Result{NeedsTerm: true}
		}
		return Result{Members: members}
	}

	out := make([]models.Member, 0, len(members))
	for _, m := range members {
		if Matches(m, term) {
			out = append(out, m)
		}
	}
	return Result{Term: term, Members: out, NoMatches: len(out) == 0}
}
