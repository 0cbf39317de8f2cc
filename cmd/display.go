package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	noticeStyle  = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// printTitle prints a bold header line above a document.
func printTitle(title string) {
	fmt.Println(titleStyle.Render(title))
	fmt.Println()
}

// printDocument prints rendered checklist text to stdout as-is, so the
// output stays pipeable into files and other tools.
func printDocument(content string) {
	fmt.Print(content)
}

// printNotice prints a dimmed informational line.
func printNotice(msg string) {
	fmt.Println(noticeStyle.Render(msg))
}

// printSuccess prints a highlighted completion line.
func printSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}
