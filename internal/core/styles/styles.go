// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"fmt"
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	ErrorTextStyle     lipgloss.Style
	SuccessTextStyle   lipgloss.Style
	MutedTextStyle     lipgloss.Style

	// Feed entry styles.
	EntryStyle         lipgloss.Style
	EntrySelectedStyle lipgloss.Style
	EntrySummaryStyle  lipgloss.Style
	EntryDetailStyle   lipgloss.Style
	EntryCloseStyle    lipgloss.Style
	EntrySeqStyle      lipgloss.Style

	// TUI chrome.
	TitleStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
)

var severityStyles map[feed.Severity]lipgloss.Style

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(ColorError)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	MutedTextStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	EntryStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorSurface).
		PaddingLeft(1)
	EntrySelectedStyle = EntryStyle.
		BorderForeground(ColorPrimary).
		Background(ColorSurface)
	EntrySummaryStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	EntryDetailStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	EntryCloseStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	EntrySeqStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Faint(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true).
		Padding(0, 1)
	StatusStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	EmptyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	severityStyles = map[feed.Severity]lipgloss.Style{
		feed.SeveritySuccess:   lipgloss.NewStyle().Foreground(ColorSuccess),
		feed.SeverityInfo:      lipgloss.NewStyle().Foreground(ColorPrimary),
		feed.SeverityWarn:      lipgloss.NewStyle().Foreground(ColorWarning),
		feed.SeverityError:     lipgloss.NewStyle().Foreground(ColorError),
		feed.SeveritySecondary: lipgloss.NewStyle().Foreground(ColorMuted),
		feed.SeverityContrast:  lipgloss.NewStyle().Foreground(ColorBackground).Background(ColorForeground),
	}
}

// SetThemeByName activates a built-in theme.
func SetThemeByName(name string) error {
	p, ok := GetPalette(name)
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	SetTheme(p)
	return nil
}

// SeverityStyle returns the accent style for s. Unknown or empty severities
// use the info style.
func SeverityStyle(s feed.Severity) lipgloss.Style {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return severityStyles[feed.SeverityInfo]
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	muted := colorHexPtr(ColorMuted)
	surface := colorHexPtr(ColorSurface)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary

	cfg.HorizontalRule.Color = muted
	cfg.Code.Color = colorHexPtr(ColorSecondary)

	cfg.Table.Color = fg

	return cfg
}
