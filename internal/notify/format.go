package notify

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/lead-service/internal/domain"
)

const (
	// MaxMessageLength keeps messages under the Bot API limit of 4096 characters.
	MaxMessageLength = 4000

	emptyPlaceholder = "—"
	noLeadsText      = "No leads found."
	dateLayout       = "2006-01-02 15:04"
	ellipsis         = "…"

	leadLayout = "👤 Name: %s\n🏢 Company: %s\n📞 Phone: %s\n📧 Email: %s\n\n" +
		"📦 Volume: %s\n🛠 Usage: %s\n\n📝 Comment:\n%s"
)

// FormatNewLead renders the alert sent to admins when a lead arrives.
func FormatNewLead(lead domain.Lead) string {
	return renderLead("<b>New lead from the website</b>\n\n", lead, MaxMessageLength)
}

// FormatDigest renders leads as one or more messages, never splitting a lead
// across messages. loc selects the timezone dates are shown in.
func FormatDigest(leads []domain.Lead, loc *time.Location) []string {
	if len(leads) == 0 {
		return []string{noLeadsText}
	}

	blocks := make([]string, 0, len(leads))
	for _, lead := range leads {
		header := fmt.Sprintf("🆕 <b>Lead</b>\n📅 <b>Date:</b> %s\n\n", lead.CreatedAt.In(loc).Format(dateLayout))
		blocks = append(blocks, renderLead(header, lead, MaxMessageLength))
	}
	return pack(blocks, "\n\n", MaxMessageLength)
}

// renderLead fills leadLayout so that the result, header included, is at most
// limit runes. Oversized fields are shortened on their raw value before
// escaping, so entities are never cut.
func renderLead(header string, lead domain.Lead, limit int) string {
	comment := lead.Comment
	if comment == "" {
		comment = emptyPlaceholder
	}
	values := []string{lead.Name, lead.Company, lead.Phone, lead.Email, lead.Volume, lead.UsagePurpose, comment}

	sizes := make([]int, len(values))
	for i, v := range values {
		sizes[i] = utf8.RuneCountInString(esc(v))
	}
	empty := make([]any, len(values))
	for i := range empty {
		empty[i] = ""
	}
	overhead := utf8.RuneCountInString(header) + utf8.RuneCountInString(fmt.Sprintf(leadLayout, empty...))

	budgets := fitBudgets(sizes, limit-overhead)
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = clipEscaped(v, budgets[i])
	}
	return header + fmt.Sprintf(leadLayout, args...)
}

// fitBudgets shares total among fields. Fields that fit keep their size; the
// rest split what remains evenly.
func fitBudgets(sizes []int, total int) []int {
	if total < 0 {
		total = 0
	}
	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return sizes[order[a]] < sizes[order[b]] })

	budgets := make([]int, len(sizes))
	remaining := total
	for k, idx := range order {
		share := remaining / (len(order) - k)
		budgets[idx] = min(sizes[idx], share)
		remaining -= budgets[idx]
	}
	return budgets
}

// clipEscaped escapes s, dropping trailing runes and appending an ellipsis
// when the escaped text would exceed budget runes.
func clipEscaped(s string, budget int) string {
	escaped := esc(s)
	if utf8.RuneCountInString(escaped) <= budget {
		return escaped
	}
	if budget < 1 {
		return ""
	}

	var b strings.Builder
	n := 0
	for _, r := range s {
		piece := esc(string(r))
		size := utf8.RuneCountInString(piece)
		if n+size+1 > budget {
			break
		}
		b.WriteString(piece)
		n += size
	}
	b.WriteString(ellipsis)
	return b.String()
}

func esc(s string) string {
	return html.EscapeString(s)
}

// pack joins blocks greedily into messages of at most limit runes. Each block
// must already fit within limit.
func pack(blocks []string, sep string, limit int) []string {
	var (
		out     []string
		current strings.Builder
		size    int
	)
	sepLen := utf8.RuneCountInString(sep)
	for _, block := range blocks {
		n := utf8.RuneCountInString(block)
		if size > 0 && size+sepLen+n > limit {
			out = append(out, current.String())
			current.Reset()
			size = 0
		}
		if size > 0 {
			current.WriteString(sep)
			size += sepLen
		}
		current.WriteString(block)
		size += n
	}
	if size > 0 {
		out = append(out, current.String())
	}
	return out
}
