// Package ui renders the question list, the pair picker and provider status
// for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatmd/chat"
	"chatmd/i18n"
	"chatmd/llm"
)

// DefaultWidth is used when the terminal size is unknown.
const DefaultWidth = 80

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// RenderQuestions draws the navigation list.
func RenderQuestions(entries []chat.QuestionEntry, locale i18n.Locale, width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(i18n.T(locale, "navTitle")))
	sb.WriteString("\n")

	if len(entries) == 0 {
		sb.WriteString(dimStyle.Render(i18n.T(locale, "navEmpty")))
		sb.WriteString("\n")
		return sb.String()
	}
	for i, e := range entries {
		sb.WriteString(row(i+1, e.Summary, "", width))
	}
	return sb.String()
}

// RenderPairs draws the numbered pairs a user can pick from.
func RenderPairs(pairs []chat.QAPair, locale i18n.Locale, width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(i18n.T(locale, "pairsTitle")))
	sb.WriteString("\n")
	for i, p := range pairs {
		sb.WriteString(row(i+1, p.Summary, p.ID, width))
	}
	return sb.String()
}

// RenderProviders lists the configured providers and marks the active one.
func RenderProviders(r llm.Registry, client *llm.Client, locale i18n.Locale) string {
	available := map[string]bool{}
	if client != nil {
		for _, info := range client.ListProviders() {
			available[info.Name] = info.Available
		}
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(i18n.T(locale, "providersTitle")))
	sb.WriteString("\n")
	for _, p := range r.Providers {
		line := fmt.Sprintf("  %-12s %-10s %s", p.ID, p.Protocol, p.DisplayName())
		if p.DefaultModel != "" {
			line += " (" + p.DefaultModel + ")"
		}
		marks := ""
		if p.ID == r.ActiveProviderID {
			marks += "  [" + i18n.T(locale, "active") + "]"
		}
		if !available[p.ID] {
			marks += "  [" + i18n.T(locale, "unavailable") + "]"
		}
		switch {
		case p.ID == r.ActiveProviderID:
			line = activeStyle.Render(line + marks)
		case marks != "":
			line = dimStyle.Render(line + marks)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func row(n int, summary, id string, width int) string {
	label := indexStyle.Render(fmt.Sprintf("%3d.", n))
	suffix := ""
	if id != "" {
		suffix = " " + dimStyle.Render(id)
	}

	// Keep every entry on one line.
	room := width - lipgloss.Width(label) - lipgloss.Width(suffix) - 1
	return label + " " + truncate(summary, room) + suffix + "\n"
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) > max-1 {
		r = r[:max-1]
	}
	// Wide runes take two columns.
	for len(r) > 0 && lipgloss.Width(string(r)) > max-1 {
		r = r[:len(r)-(lipgloss.Width(string(r))-(max-1)+1)/2]
	}
	return string(r) + "…"
}
