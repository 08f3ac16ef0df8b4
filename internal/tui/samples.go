package tui

import (
	"fmt"

	"github.com/colonyops/msgfeed/internal/core/feed"
	"github.com/colonyops/msgfeed/pkg/randid"
)

var sampleTitles = map[feed.Severity]string{
	feed.SeveritySuccess:   "Saved",
	feed.SeverityInfo:      "Heads up",
	feed.SeverityWarn:      "Disk almost full",
	feed.SeverityError:     "Upload failed",
	feed.SeveritySecondary: "Synced in background",
	feed.SeverityContrast:  "New version available",
}

// sampleMessage builds the demo message for sev. n numbers the sample so
// repeated presses are distinguishable.
func sampleMessage(sev feed.Severity, n int) feed.Message {
	title, ok := sampleTitles[sev]
	if !ok {
		title = "Message"
	}
	return feed.Message{
		ID:       "sample-" + randid.Generate(6),
		Severity: sev,
		Summary:  title,
		Detail:   fmt.Sprintf("%s sample #%d", sev, n),
	}
}
