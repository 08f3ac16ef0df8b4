package styles

import "github.com/colonyops/msgfeed/internal/core/feed"

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconSuccess   = "\uf00c" // nf-fa-check
	IconInfo      = "\uf05a" // nf-fa-info_circle
	IconWarn      = "\uf071" // nf-fa-warning
	IconError     = "\uf057" // nf-fa-times_circle
	IconSecondary = "\uf111" // nf-fa-circle
	IconContrast  = "\uf042" // nf-fa-adjust
	IconPin       = "\uf08d" // nf-fa-thumb_tack
	IconClose     = "\u00d7"
	IconCursor    = "\u203a"
)

// SeverityIcon returns the default icon for s. A message's own Icon takes
// precedence over this.
func SeverityIcon(s feed.Severity) string {
	switch s {
	case feed.SeveritySuccess:
		return IconSuccess
	case feed.SeverityInfo:
		return IconInfo
	case feed.SeverityWarn:
		return IconWarn
	case feed.SeverityError:
		return IconError
	case feed.SeveritySecondary:
		return IconSecondary
	case feed.SeverityContrast:
		return IconContrast
	default:
		return IconInfo
	}
}

// MessageIcon resolves the icon shown for m.
func MessageIcon(m feed.Message) string {
	if m.Icon != "" {
		return m.Icon
	}
	return SeverityIcon(m.Severity)
}
