package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/formworks/form-server/models"
)

// multiChoiceSeparator joins multi_choice selections in CSV cells.
const multiChoiceSeparator = "; "

// ExportCSV flattens already-loaded responses into CSV bytes: header row of
// "Response ID", "Submitted At" and the field prompts in current schema
// order, one row per response in the given (newest-first) order. Every cell
// is quote-wrapped; answers for deleted fields are not exported. Pure and
// deterministic: no store access.
func ExportCSV(form *models.Form, responses []models.Response) []byte {
	var b strings.Builder

	header := make([]string, 0, len(form.Fields)+2)
	header = append(header, "Response ID", "Submitted At")
	for _, f := range form.Fields {
		header = append(header, f.Prompt)
	}
	writeRow(&b, header)

	for i := range responses {
		resp := &responses[i]
		row := make([]string, 0, len(form.Fields)+2)
		row = append(row, strconv.FormatUint(uint64(resp.ID), 10), resp.SubmittedAt.Format(time.RFC3339))
		for j := range form.Fields {
			f := &form.Fields[j]
			a, ok := resp.AnswerFor(f.ID)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, exportCell(a.Value))
		}
		writeRow(&b, row)
	}
	return []byte(b.String())
}

func exportCell(v models.AnswerValue) string {
	switch v.Kind {
	case models.KindMultiChoice:
		return strings.Join(v.Choices, multiChoiceSeparator)
	case models.KindFileUpload:
		if v.File == nil {
			return ""
		}
		return v.File.Name
	default:
		return v.Text
	}
}

// writeRow emits one CSV line with every cell force-quoted. encoding/csv
// only quotes cells that need it, and the export contract wraps all of
// them, so quoting is done here.
func writeRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
