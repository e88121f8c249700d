// cmd/todo/render.go
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/service"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Strikethrough(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)

	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
	}
)

// shortIDLen is enough to address a task with resolveID
const shortIDLen = 8

func renderTask(t models.Task) string {
	check := "[ ]"
	title := titleStyle.Render(t.Title)
	if t.IsCompleted {
		check = "[x]"
		title = doneStyle.Render(t.Title)
	}

	parts := []string{
		mutedStyle.Render(t.ID.String()[:shortIDLen]),
		check,
		priorityStyles[t.Priority].Render(fmt.Sprintf("%-6s", t.Priority)),
		title,
	}
	for _, tag := range t.Tags {
		parts = append(parts, tagStyle.Render("#"+tag))
	}
	return strings.Join(parts, " ")
}

func renderList(tasks []models.Task) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("No tasks found.") + "\n"
	}

	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(renderTask(t))
		b.WriteString("\n")
		if t.Description != "" {
			b.WriteString("           ")
			b.WriteString(mutedStyle.Render(t.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderStats(s service.Stats) string {
	return strings.Join([]string{
		headerStyle.Render("Tasks"),
		fmt.Sprintf("  total:     %d", s.Total),
		fmt.Sprintf("  pending:   %d", s.Pending),
		fmt.Sprintf("  completed: %d", s.Completed),
	}, "\n")
}
