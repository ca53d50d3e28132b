package card

import (
	"strings"
	"time"
)

const commentTimeLayout = "15:04 Jan 02, 2006"

// AppendComment returns notes with comment added as a new line prefixed by the time
// of now. A blank comment leaves notes unchanged.
func AppendComment(notes, comment string, now time.Time) string {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return notes
	}
	line := now.Format(commentTimeLayout) + ": " + comment
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}
