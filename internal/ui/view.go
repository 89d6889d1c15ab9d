package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/balloon/internal/endpoint"
	"github.com/five82/balloon/internal/state"
)

var titleCaser = cases.Title(language.English)

// renderMain renders the full screen.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n\n")
	b.WriteString(m.renderField(styles, "Endpoint", m.endpointInput.View(), m.focus == focusEndpoint))
	b.WriteString("\n")
	b.WriteString(m.renderField(styles, "Image", m.imageInput.View(), m.focus == focusImage))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus(styles, time.Now()))
	b.WriteString("\n\n")

	panel := styles.Panel
	if m.focus == focusResults {
		panel = panel.BorderForeground(lipgloss.Color(m.theme.Accent))
	}
	b.WriteString(panel.Render(m.results.View()))
	b.WriteString("\n")
	b.WriteString(m.renderNotice(styles))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader(styles Styles) string {
	job := m.snapshot.Job
	resolved := endpoint.Resolve(m.endpointInput.Value())
	parts := []string{
		styles.Logo.Render("balloon"),
		styles.StateBadge(job.State).Render(stateLabel(job.State)),
		styles.Header.Foreground(lipgloss.Color(m.theme.Muted)).Render(truncateMiddle(resolved.SubmissionURL, 60)),
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, " "))
}

func (m Model) renderField(styles Styles, label, input string, focused bool) string {
	labelStyle := styles.Label
	if focused {
		labelStyle = labelStyle.Foreground(lipgloss.Color(m.theme.Accent)).Bold(true)
	}
	return " " + labelStyle.Render(label) + " " + input
}

// renderStatus describes where the current job is in its lifecycle.
func (m Model) renderStatus(styles Styles, now time.Time) string {
	job := m.snapshot.Job
	switch job.State {
	case state.Submitting:
		return " " + m.spinner.View() + " " + styles.InfoText.Render("Uploading "+job.Filename+"...")
	case state.Processing:
		detail := fmt.Sprintf("task %s, %s", job.ID, pluralize(job.Polls, "check"))
		return " " + m.spinner.View() + " " +
			styles.AccentText.Render("Translating "+job.Filename+"...") + " " +
			styles.MutedText.Render(detail+", "+humanizeDuration(now.Sub(job.SubmittedAt)))
	case state.Done:
		return " " + styles.SuccessText.Render(fmt.Sprintf("Translated %s", pluralize(len(job.Results), "bubble"))) +
			" " + styles.MutedText.Render("in "+humanizeDuration(job.UpdatedAt.Sub(job.SubmittedAt)))
	case state.Error:
		return " " + styles.DangerText.Render(job.ErrorMessage)
	case state.TimedOut:
		return " " + styles.WarningText.Render(job.ErrorMessage)
	default:
		return " " + styles.MutedText.Render("Ready.")
	}
}

func (m Model) renderNotice(styles Styles) string {
	if m.notice == "" {
		return ""
	}
	switch m.noticeLevel {
	case noticeSuccess:
		return " " + styles.SuccessText.Render(m.notice)
	case noticeDanger:
		return " " + styles.DangerText.Render(m.notice)
	default:
		return " " + styles.InfoText.Render(m.notice)
	}
}

// renderResults builds the results pane content for a snapshot.
func renderResults(snap state.Snapshot, styles Styles, width int) string {
	job := snap.Job
	switch job.State {
	case state.Idle:
		return styles.MutedText.Render("Enter the service endpoint and an image path, then press enter.")
	case state.Submitting, state.Processing:
		return styles.MutedText.Render("Results will appear here when the translation is done.")
	case state.Error, state.TimedOut:
		return styles.MutedText.Render("No results. Press enter to try again.")
	}

	if len(job.Results) == 0 {
		return styles.MutedText.Render("No speech bubbles were found in this image.")
	}

	wrap := lipgloss.NewStyle()
	if width > 6 {
		wrap = wrap.Width(width - 6)
	}
	var b strings.Builder
	for i, bubble := range job.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.WarningText.Render(fmt.Sprintf("%2d.", i+1)))
		b.WriteString(" ")
		b.WriteString(styles.InfoText.Render(fmt.Sprintf("%.2f", bubble.Confidence)))
		b.WriteString("\n")
		b.WriteString(indent(wrap.Render(styles.Text.Render(bubble.TranslatedText)), 4))
		b.WriteString("\n")
		b.WriteString(indent(wrap.Render(styles.MutedText.Render(bubble.OriginalText)), 4))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// stateLabel renders a job state for display, e.g. "Timed Out".
func stateLabel(js state.JobState) string {
	if js == "" {
		js = state.Idle
	}
	return titleCaser.String(strings.ReplaceAll(string(js), "_", " "))
}

func indent(text string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "under a second"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	default:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
