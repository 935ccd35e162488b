package display

import "menuboard/internal/model"

// ThemeStyle is the resolved styling for a render root. Theme resolution is
// a pure function applied per surface; nothing mutates document-wide state.
type ThemeStyle struct {
	ClassName       string `json:"class_name"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
}

const (
	darkBackground  = "#111827"
	darkText        = "#f9fafb"
	lightBackground = "#ffffff"
	lightText       = "#111827"
)

// ComputeThemeStyle resolves a theme descriptor. Dark and light use fixed
// palettes; brand uses the operator's colors with white/black fallbacks.
// Unknown modes resolve to light.
func ComputeThemeStyle(mode model.ThemeMode, brandBackground, brandText string) ThemeStyle {
	switch mode {
	case model.ThemeDark:
		return ThemeStyle{ClassName: "dark", BackgroundColor: darkBackground, TextColor: darkText}
	case model.ThemeBrand:
		bg, text := brandBackground, brandText
		if bg == "" {
			bg = "#ffffff"
		}
		if text == "" {
			text = "#000000"
		}
		return ThemeStyle{ClassName: "brand", BackgroundColor: bg, TextColor: text}
	default:
		return ThemeStyle{ClassName: "light", BackgroundColor: lightBackground, TextColor: lightText}
	}
}
