package console

import (
	"time"

	"github.com/xeonx/timeago"
)

// FormatTime describes t relative to now, e.g. "3 hours ago".
func FormatTime(t time.Time) string {
	return FormatTimeSince(t, time.Now())
}

func FormatTimeSince(t time.Time, reference time.Time) string {
	return timeago.English.FormatReference(t, reference)
}
