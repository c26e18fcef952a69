// Package ui is the terminal console: a login gate that branches into the
// admin surface (dashboard, ticket sales, catalogs) or the driver surface
// (today's trips, boarding, parcels). All state shown on screen comes from
// the API; views refetch after every mutation.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"transrural/internal/domain"
	"transrural/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fafafa")).
			Background(lipgloss.Color("#1d4ed8")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#93c5fd"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fafafa")).
			Background(lipgloss.Color("#1e40af"))

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#dc2626"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16a34a"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	seatFreeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16a34a")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	seatTakenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	seatPickedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fafafa")).
			Background(lipgloss.Color("#16a34a")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#16a34a")).
			Padding(0, 1)
)

// statusBadge renders the derived status with its color and icon.
func statusBadge(info domain.StatusInfo) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(info.Color))
	return info.Icon + " " + style.Render(info.Label)
}

// joinRow lays seat cells side by side.
func joinRow(cells []string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// departureLine is the one-row summary used by every departure list.
func departureLine(d domain.Departure, info domain.StatusInfo) string {
	return fmt.Sprintf("%s  %s  %s  %d/%d asientos  %s",
		utils.FormatClock(d.When),
		d.Route.Display(),
		d.Vehicle.Plate,
		d.Occupied, d.Vehicle.Capacity,
		statusBadge(info),
	)
}
