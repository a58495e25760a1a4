package session

import (
	"time"

	"adminconsole/internal/domain/auth"
	"adminconsole/internal/domain/corporate"
)

// Session is a signed-in console user together with the corporate they work in.
type Session struct {
	ID                string                `json:"id"`
	User              auth.User             `json:"user"`
	Token             string                `json:"token"`
	SelectedCorporate string                `json:"selected_corporate,omitempty"`
	Corporates        []corporate.Corporate `json:"corporates"`
	CreatedAt         time.Time             `json:"created_at"`
}

// SetCorporates replaces the corporate list. The first corporate is selected
// when nothing is selected yet or the selection is no longer in the list.
func (s *Session) SetCorporates(list []corporate.Corporate) {
	s.Corporates = list
	if s.SelectedCorporate != "" {
		if _, ok := corporate.Find(list, s.SelectedCorporate); ok {
			return
		}
	}
	s.SelectedCorporate = ""
	if len(list) > 0 {
		s.SelectedCorporate = list[0].CorporateID
	}
}

// Selected returns the selected corporate, if any.
func (s *Session) Selected() (corporate.Corporate, bool) {
	if s.SelectedCorporate == "" {
		return corporate.Corporate{}, false
	}
	return corporate.Find(s.Corporates, s.SelectedCorporate)
}
