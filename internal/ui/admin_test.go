package ui

import (
	"errors"
	"testing"

	"transrural/internal/domain"
)

func TestAdminNoticeWaitsForReload(t *testing.T) {
	m := adminModel{pendingNotice: "Salida programada"}

	m, _ = m.Update(adminDeparturesMsg{list: []domain.Departure{}})
	if m.notice != "Salida programada" {
		t.Fatalf("notice = %q, want %q", m.notice, "Salida programada")
	}
	if m.pendingNotice != "" {
		t.Fatalf("pending notice not cleared: %q", m.pendingNotice)
	}
}

func TestAdminNoticeDroppedOnError(t *testing.T) {
	m := adminModel{pendingNotice: "Salida programada"}

	m, _ = m.Update(errMsg{err: errors.New("salida no encontrada")})
	if m.notice != "" {
		t.Fatalf("notice = %q, want empty after a failed mutation", m.notice)
	}
	if m.errLine == "" {
		t.Fatal("error line not set")
	}
	if m.pendingNotice != "" {
		t.Fatalf("pending notice not cleared: %q", m.pendingNotice)
	}
}
