package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/msgfeed/internal/core/feed"
)

func TestThemeNames_sorted_and_include_default(t *testing.T) {
	names := ThemeNames()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestSetThemeByName(t *testing.T) {
	t.Cleanup(func() { SetTheme(themes[DefaultTheme]) })

	require.NoError(t, SetThemeByName("gruvbox"))
	assert.Equal(t, themes["gruvbox"].Primary, ColorPrimary)

	assert.Error(t, SetThemeByName("nope"))
	assert.Equal(t, themes["gruvbox"].Primary, ColorPrimary, "unknown theme leaves palette unchanged")
}

func TestSeverityStyle_falls_back_to_info(t *testing.T) {
	info := SeverityStyle(feed.SeverityInfo)
	assert.Equal(t, info.GetForeground(), SeverityStyle(feed.SeverityNone).GetForeground())
	assert.Equal(t, info.GetForeground(), SeverityStyle("bogus").GetForeground())
	assert.Equal(t, ColorError, SeverityStyle(feed.SeverityError).GetForeground())
}

func TestMessageIcon(t *testing.T) {
	assert.Equal(t, IconWarn, MessageIcon(feed.Message{Severity: feed.SeverityWarn}))
	assert.Equal(t, "*", MessageIcon(feed.Message{Severity: feed.SeverityWarn, Icon: "*"}))
	assert.Equal(t, IconInfo, MessageIcon(feed.Message{}))
}

func TestGlamourStyle_uses_palette(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#c0caf5", *cfg.Document.Color)
}
