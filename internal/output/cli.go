package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/daymark/internal/analytics"
	"github.com/manav03panchal/daymark/internal/model"
)

// Styles for CLI output.
var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSecondary)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleDone = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(colorMuted)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// =============================================================================
// Day state
// =============================================================================

// PrintDay renders a materialized day.
func (c *CLIFormatter) PrintDay(state *model.DayState, now time.Time) {
	c.Title(state.Date)

	if state.PreviousBedtime != "" || state.WakeTime != "" {
		c.Printf("  Sleep: %s → %s\n", orDash(state.PreviousBedtime), orDash(state.WakeTime))
	}

	if len(state.CustomFields)+len(state.DailyCustomFields) > 0 {
		c.section("Fields")
		for _, f := range state.CustomFields {
			c.Printf("  %s: %s\n", c.render(styleKey, f.Key), orDash(f.Value))
		}
		for _, f := range state.DailyCustomFields {
			c.Printf("  %s: %s %s\n", c.render(styleKey, f.Key), orDash(f.Value), c.render(styleMuted, "(today only)"))
		}
	}

	if len(state.DailyTasks) > 0 {
		c.section("Tasks")
		for _, t := range state.DailyTasks {
			c.printTask(t, "  ")
			for _, sub := range t.Subtasks {
				c.printTask(sub, "      ")
			}
		}
	}

	if len(state.CustomCounters) > 0 {
		c.section("Counters")
		for _, counter := range state.CustomCounters {
			c.Printf("  %s: %d\n", counter.Name, counter.Value)
		}
	}

	if len(state.DurationTrackers) > 0 {
		c.section("Timers")
		for _, t := range state.DurationTrackers {
			status := ""
			switch {
			case t.IsRunning:
				status = c.render(styleSuccess, " (running)")
			case t.IsLocked:
				status = c.render(styleMuted, " (locked)")
			}
			c.Printf("  %s: %s%s\n", t.Name, FormatDuration(t.Elapsed(now)), status)
		}
	}

	if len(state.TimeSinceTrackers) > 0 {
		c.section("Since")
		for _, t := range state.TimeSinceTrackers {
			c.Printf("  %s: %s\n", t.Name, FormatSince(t.Since, now))
		}
	}

	if len(state.Entries) > 0 {
		c.section("Entries")
		for _, e := range state.Entries {
			c.Printf("  %s %s\n", c.render(styleMuted, e.Timestamp.In(now.Location()).Format("15:04")), e.Text)
		}
	}
}

func (c *CLIFormatter) section(name string) {
	c.Println()
	c.Println(c.render(styleBold, name))
}

func (c *CLIFormatter) printTask(t *model.TaskNode, indent string) {
	box := "[ ]"
	title := t.Title
	if t.Done {
		box = "[x]"
		title = c.render(styleDone, title)
	}
	extra := ""
	if t.Points > 0 {
		extra += fmt.Sprintf(" (%dp)", t.Points)
	}
	if t.DueDate != "" {
		extra += " due " + t.DueDate
	}
	c.Printf("%s%s %s%s %s\n", indent, box, title, c.render(styleMuted, extra), c.render(styleMuted, ShortID(t.ID)))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ShortID keeps the random tail of a v7 uuid, which is what users type.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// =============================================================================
// Analytics
// =============================================================================

// PrintAnalytics renders an analytics response as tables.
func (c *CLIFormatter) PrintAnalytics(resp *analytics.Response) {
	if resp.Single != nil {
		c.printResult(resp.Single)
		return
	}
	for _, r := range resp.Fields {
		c.printResult(r)
		c.Println()
	}
	if resp.Combined != nil {
		c.printResult(resp.Combined)
	}
}

func (c *CLIFormatter) printResult(r *analytics.Result) {
	c.Title(fmt.Sprintf("%s (%s)", r.Name, r.Kind))
	if len(r.Data) == 0 {
		c.Muted("No data in range.")
		return
	}

	rows := make([]TableRow, 0, len(r.Data))
	for _, b := range r.Data {
		rows = append(rows, TableRow{Columns: []string{b.Period, formatValue(b.Value), describeStats(b.Stats)}})
	}
	c.PrintTable([]string{"Period", "Value", "Detail"}, rows)
	c.Printf("Summary: %s, trend %s\n", describeStats(r.Summary.Stats), r.Summary.Trend)
}

func formatValue(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func describeStats(s analytics.Stats) string {
	switch st := s.(type) {
	case *analytics.NumericStats:
		return fmt.Sprintf("min %s max %s avg %s sum %s n=%d",
			formatValue(st.Min), formatValue(st.Max), formatValue(st.Avg), formatValue(st.Sum), st.Count)
	case *analytics.BooleanStats:
		return fmt.Sprintf("%d/%d true (%s%%)", st.TrueCount, st.TotalCount, formatValue(st.TruePercentage))
	case *analytics.CategoricalStats:
		return fmt.Sprintf("%d values, %d unique, most common %q ×%d",
			st.Count, st.UniqueCount, st.MostCommonValue, st.MostCommonCount)
	case *analytics.TaskStats:
		return fmt.Sprintf("%d/%d done %s avg %dm",
			st.Completed, st.Total, ProgressBar(st.CompletionRate*100, 10), st.AvgTimeToCompleteMinutes)
	default:
		return ""
	}
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one line of a table.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && lipgloss.Width(col) > widths[i] {
				widths[i] = lipgloss.Width(col)
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", w-lipgloss.Width(s)) + "  "
	}

	var header strings.Builder
	for i, h := range headers {
		header.WriteString(pad(h, widths[i]))
	}
	c.Println(c.render(styleBold, strings.TrimRight(header.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				line.WriteString(pad(col, widths[i]))
			}
		}
		c.Println(strings.TrimRight(line.String(), " "))
	}
}
