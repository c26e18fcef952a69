package domain

import "time"

// Lifecycle is the server-owned departure state.
type Lifecycle string

const (
	LifecycleScheduled  Lifecycle = "programada"
	LifecycleInProgress Lifecycle = "en_curso"
	LifecycleCompleted  Lifecycle = "completada"
	LifecycleCancelled  Lifecycle = "cancelada"
)

// CanTransition reports whether the server would accept moving a departure
// from one lifecycle state to another. Transitions are monotonic: scheduled
// may start or cancel, in-progress may only complete, terminal states admit
// nothing.
func CanTransition(from, to Lifecycle) bool {
	switch from {
	case LifecycleScheduled:
		return to == LifecycleInProgress || to == LifecycleCancelled
	case LifecycleInProgress:
		return to == LifecycleCompleted
	default:
		return false
	}
}

// StatusCode is the display status derived from a departure and the clock.
type StatusCode string

const (
	StatusPending       StatusCode = "pending"
	StatusReadyToDepart StatusCode = "ready_to_depart"
	StatusInProgress    StatusCode = "in_progress"
	StatusCompleted     StatusCode = "completed"
	StatusCancelled     StatusCode = "cancelled"
)

// StatusInfo pairs a derived code with the label/color/icon every screen
// uses for it. Colors are hex strings fed to lipgloss.
type StatusInfo struct {
	Code  StatusCode
	Label string
	Color string
	Icon  string
}

var statusTable = map[StatusCode]StatusInfo{
	StatusPending:       {StatusPending, "Pendiente", "#6b7280", "⏳"},
	StatusReadyToDepart: {StatusReadyToDepart, "Lista para salir", "#16a34a", "🟢"},
	StatusInProgress:    {StatusInProgress, "En curso", "#d97706", "🚌"},
	StatusCompleted:     {StatusCompleted, "Completada", "#2563eb", "✅"},
	StatusCancelled:     {StatusCancelled, "Cancelada", "#dc2626", "❌"},
}

// DeriveStatus maps a departure and the current time to its display status.
// The old dashboards each re-derived this with slightly different rules;
// this is the one implementation, and it is pure: same inputs, same output.
func DeriveStatus(d Departure, now time.Time) StatusInfo {
	switch d.Lifecycle {
	case LifecycleCancelled:
		return statusTable[StatusCancelled]
	case LifecycleCompleted:
		return statusTable[StatusCompleted]
	case LifecycleInProgress:
		return statusTable[StatusInProgress]
	}
	if !d.When.After(now) {
		return statusTable[StatusReadyToDepart]
	}
	return statusTable[StatusPending]
}

// Sellable reports whether a departure belongs in step one of the sale
// wizard: still ahead of its trip and with at least one free seat. Full
// departures are excluded from the list entirely, not shown disabled.
func Sellable(d Departure, now time.Time) bool {
	code := DeriveStatus(d, now).Code
	if code != StatusPending && code != StatusReadyToDepart {
		return false
	}
	return !d.Full()
}
