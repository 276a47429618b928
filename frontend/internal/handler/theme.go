package handler

import (
	frontend_domain "github.com/bacilogs/bacilogs/frontend/internal/domain"
)

// ToggleTheme flips and saves the light/dark preference and returns the
// theme now in effect, which stays a blog theme on blog pages.
func (h *Handler) ToggleTheme() (frontend_domain.Theme, error) {
	return h.SetTheme(h.Prefs.Theme().Toggle())
}

func (h *Handler) SetTheme(pref frontend_domain.Theme) (frontend_domain.Theme, error) {
	pref = frontend_domain.ParsePreference(string(pref))
	if err := h.Prefs.SaveTheme(pref); err != nil {
		return h.Tracker.Current(), err
	}
	return h.Tracker.SetPreference(pref), nil
}
