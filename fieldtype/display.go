package fieldtype

import (
	"fmt"
	"strings"

	"github.com/formworks/form-server/models"
)

// Display renders a stored answer back to reviewer-facing text, the inverse
// of the input surface: multi_choice joins its selections, file_upload
// shows the filename with a human-readable size, everything else is the raw
// string.
func Display(v models.AnswerValue) string {
	switch v.Kind {
	case models.KindMultiChoice:
		return strings.Join(v.Choices, ", ")
	case models.KindFileUpload:
		if v.File == nil {
			return ""
		}
		return fmt.Sprintf("%s (%s)", v.File.Name, humanSize(v.File.ByteSize))
	default:
		return v.Text
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
