package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cosmobowz/cosmo/api"
)

// RenderServices draws the uptime view, one row per monitored service.
func RenderServices(services []api.ServiceStatus, width int) string {
	var sections []string

	online := 0
	for _, s := range services {
		if s.Status == api.ServiceOnline {
			online++
		}
	}
	sections = append(sections,
		headerStyle.Render(fmt.Sprintf("Services (%d/%d online)", online, len(services))), "")

	if len(services) == 0 {
		sections = append(sections, placeholderStyle.Render("No services monitored"))
		return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
	}

	for _, s := range services {
		sections = append(sections, renderServiceRow(s))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(sections, "\n"))
}

func renderServiceRow(s api.ServiceStatus) string {
	dot := successStyle.Render("●")
	label := successStyle.Render("online")
	if s.Status != api.ServiceOnline {
		dot = errorStyle.Render("●")
		label = errorStyle.Render("offline")
	}
	restart := ""
	if s.AutoRestart {
		restart = mutedStyle.Render("  auto-restart")
	}
	icon := s.Icon
	if icon == "" {
		icon = "·"
	}
	return fmt.Sprintf("  %s %s %s %s%s",
		dot,
		textStyle.Render(icon),
		textStyle.Render(fmt.Sprintf("%-20s", truncate(s.Name, 20))),
		label,
		restart,
	)
}
