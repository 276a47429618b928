package frontend_domain

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeWillow Theme = "willow"
	ThemeWishes Theme = "wishes"
)

// Preference is what the reader chose; blog pages override it.
func ParsePreference(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
