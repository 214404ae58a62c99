package tui

import (
	"strings"

	"weather-lookup/lookup"
	"weather-lookup/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
	cityStyle  = lipgloss.NewStyle().Bold(true)
	tempStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	iconStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// glyphs gives terminals a picture for each symbol name
var glyphs = map[string]string{
	models.IconThunderstorm: "🌩",
	models.IconThunderRain:  "⛈",
	models.IconDrizzle:      "🌦",
	models.IconRain:         "🌧",
	models.IconHeavyRain:    "🌧",
	models.IconSleet:        "🌨",
	models.IconSnow:         "❄",
	models.IconFog:          "🌫",
	models.IconDust:         "🌫",
	models.IconSmoke:        "🌫",
	models.IconWind:         "💨",
	models.IconTornado:      "🌪",
	models.IconClear:        "☀",
	models.IconPartlyCloudy: "⛅",
	models.IconCloudy:       "☁",
}

// Glyph returns the terminal picture for an icon name
func Glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return glyphs[models.FallbackIconName]
}

// RenderCard draws the city, temperature and icon of a screen
func RenderCard(s lookup.Screen) string {
	if s.City == "" && s.Temperature == "" {
		return cardStyle.Render(mutedStyle.Render("No weather yet"))
	}

	var b strings.Builder
	b.WriteString(iconStyle.Render(Glyph(s.IconName)))
	b.WriteString("  ")
	b.WriteString(tempStyle.Render(s.Temperature))
	b.WriteString("\n")
	b.WriteString(cityStyle.Render(s.City))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(s.IconName))
	return cardStyle.Render(b.String())
}

// RenderError formats a failure line under the card
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	return errStyle.Render("✗ " + err.Error())
}
