package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lintasnet/fieldops/internal/domain"
)

var narrativeClock = time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)

func installationSnapshot() Snapshot {
	return Snapshot{
		TicketNumber:    "TKT-0042",
		Type:            domain.TicketTypeInstallation,
		CustomerName:    "Budi Santoso",
		CustomerAddress: "Jl. Merdeka 17",
		PackageName:     "Home 30 Mbps",
		TechnicianName:  "Agus Wijaya",
	}
}

func TestGenerateNarrative_Idempotent(t *testing.T) {
	snapshot := installationSnapshot()
	first := GenerateNarrative(snapshot, domain.TicketStatusOpen, domain.TicketStatusAssigned, narrativeClock)
	second := GenerateNarrative(snapshot, domain.TicketStatusOpen, domain.TicketStatusAssigned, narrativeClock)
	assert.Equal(t, first, second, "identical inputs must yield byte-identical output")
}

func TestGenerateNarrative_TypedTemplate(t *testing.T) {
	note := GenerateNarrative(installationSnapshot(), domain.TicketStatusOpen, domain.TicketStatusAssigned, narrativeClock)
	assert.Contains(t, note, "new installation")
	assert.Contains(t, note, "Budi Santoso")
	assert.Contains(t, note, "Jl. Merdeka 17")
	assert.Contains(t, note, "Home 30 Mbps")
	assert.Contains(t, note, "Agus Wijaya")
	assert.Contains(t, note, "2025-04-02 09:30")
	assert.True(t, strings.Contains(note, "\n"), "narratives are multi-line")
}

func TestGenerateNarrative_FallsBackToStatusTemplate(t *testing.T) {
	snapshot := installationSnapshot()
	snapshot.Type = domain.TicketTypeTroubleshooting // no typed template for (assigned, troubleshooting)

	note := GenerateNarrative(snapshot, domain.TicketStatusOpen, domain.TicketStatusAssigned, narrativeClock)
	assert.Contains(t, note, "TKT-0042 assigned")
	assert.NotContains(t, note, "new installation")
}

func TestGenerateNarrative_GenericFallbackForUnknownStatus(t *testing.T) {
	note := GenerateNarrative(installationSnapshot(), domain.TicketStatusOpen, domain.TicketStatus("archived"), narrativeClock)
	assert.Contains(t, note, "status changed from open to archived")
}

func TestGenerateNarrative_EveryStatusProducesText(t *testing.T) {
	statuses := []domain.TicketStatus{
		domain.TicketStatusAssigned, domain.TicketStatusInProgress,
		domain.TicketStatusOnHold, domain.TicketStatusCompleted, domain.TicketStatusCancelled,
	}
	types := []domain.TicketType{
		domain.TicketTypeInstallation, domain.TicketTypeMaintenance, domain.TicketTypeRepair,
		domain.TicketTypeUpgrade, domain.TicketTypeDowngrade, domain.TicketTypeRelocation,
		domain.TicketTypeWifiSetup, domain.TicketTypeTroubleshooting,
	}
	for _, status := range statuses {
		for _, typ := range types {
			snapshot := installationSnapshot()
			snapshot.Type = typ
			note := GenerateNarrative(snapshot, domain.TicketStatusOpen, status, narrativeClock)
			assert.NotEmpty(t, note, "status %s type %s", status, typ)
		}
	}
}
