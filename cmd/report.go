// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"wavepool/internal/motion"
	"wavepool/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Width(14)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D7D7D"))
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// writeReport prints a summary of a finished run.
func writeReport(w io.Writer, res *pipeline.Result, destination string) {
	s := res.Schedule
	lines := []string{
		titleStyle.Render("wavepool"),
		"",
		row("input", res.Input),
		row("style", highlightStyle.Render(s.Style.String())+dimStyle.Render(" ("+string(s.Channel)+")")),
		row("grid", fmt.Sprintf("%d x %d, spacing %g", s.Scene.Rows, s.Scene.Cols, s.Scene.Spacing)),
		row("envelope", fmt.Sprintf("%d values, %d samples per window", res.Envelope.Len(), res.Envelope.WindowSize())),
		row("frames", fmt.Sprintf("%d-%d @ %g fps, keyed every %d", s.StartFrame, s.EndFrame, s.FrameRate, s.FramesPerSegment)),
		row("keyframes", fmt.Sprintf("%d across %d elements", res.Samples, len(s.Tracks))),
		row("output", destination),
		"",
	}

	var total time.Duration
	for _, st := range res.Stages {
		total += st.Duration
		lines = append(lines, row(st.Name, dimStyle.Render(st.Duration.Round(time.Microsecond).String())))
	}
	lines = append(lines, row("total", highlightStyle.Render(total.Round(time.Microsecond).String())))

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

// writeStyles lists the motion styles.
func writeStyles(w io.Writer) {
	lines := []string{titleStyle.Render("Motion styles"), ""}
	for _, s := range motion.Styles() {
		lines = append(lines, row(highlightStyle.Render(s.String()),
			s.Description()+dimStyle.Render(" ["+string(s.Channel())+"]")))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
