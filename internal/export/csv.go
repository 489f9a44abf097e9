package export

import (
	"strings"
	"time"

	"github.com/school-kit/helpdesk-service/internal/domain"
)

// csvHeaders are the export columns, in order.
var csvHeaders = []string{
	"ID", "Status", "Priority", "Category", "Subcategory", "Location",
	"Description", "Submitted By", "Assigned To", "Created", "Resolved",
}

// TicketsCSV renders the collection in the export column order. Only the
// description column is quoted, with internal quotes doubled; downstream
// spreadsheet imports rely on this exact shape.
func TicketsCSV(tickets []domain.Ticket) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeaders, ","))
	b.WriteByte('\n')

	for i, t := range tickets {
		row := []string{
			t.ID,
			string(t.Status),
			string(t.Priority),
			string(t.Category),
			t.Subcategory,
			t.Location,
			quoteField(t.Description),
			t.SubmittedBy,
			t.AssignedTo,
			formatTimestamp(&t.CreatedAt),
			formatTimestamp(t.ResolvedAt),
		}
		b.WriteString(strings.Join(row, ","))
		if i < len(tickets)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
