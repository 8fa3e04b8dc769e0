package workflow

import (
	"strconv"
	"strings"
	"time"

	"github.com/lintasnet/fieldops/internal/domain"
)

// CompletionInput is the raw completion payload as collected from the
// caller. Scalar fields arrive as strings (the status-update form posts
// text) and are parsed during validation; photos are already-resolved
// storage references keyed by field name.
type CompletionInput struct {
	OdpLocation        string
	OdpDistance        string
	FinalAttenuationDb string
	WifiName           string
	WifiPassword       string
	ActivationDate     string
	RepairDate         string
	NewPackageID       string
	Notes              string
	Photos             map[string]domain.PhotoRef
	Extra              map[string]any
}

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldNumber
	fieldDate
	fieldPhoto
)

type fieldRule struct {
	name     string
	kind     fieldKind
	required bool
}

// completionSchemas maps each ticket type to the fields its completion
// variant requires. Types without a structured variant close out with
// free-form extras only. Fields not listed for a type are ignored even if
// supplied.
var completionSchemas = map[domain.TicketType][]fieldRule{
	domain.TicketTypeInstallation: {
		{name: "odpLocation", kind: fieldText, required: true},
		{name: "odpDistance", kind: fieldNumber, required: true},
		{name: "finalAttenuationDb", kind: fieldNumber, required: true},
		{name: "wifiName", kind: fieldText, required: true},
		{name: "wifiPassword", kind: fieldText, required: true},
		{name: "activationDate", kind: fieldDate, required: true},
		{name: "otdrPhoto", kind: fieldPhoto, required: true},
		{name: "attenuationPhoto", kind: fieldPhoto, required: true},
		{name: "modemSerialPhoto", kind: fieldPhoto, required: true},
	},
	domain.TicketTypeMaintenance: {
		{name: "odpLocation", kind: fieldText, required: true},
		{name: "finalAttenuationDb", kind: fieldNumber, required: true},
		{name: "repairDate", kind: fieldDate, required: true},
		{name: "photo", kind: fieldPhoto},
	},
	domain.TicketTypeRepair: {
		{name: "odpLocation", kind: fieldText, required: true},
		{name: "finalAttenuationDb", kind: fieldNumber, required: true},
		{name: "repairDate", kind: fieldDate, required: true},
		{name: "photo", kind: fieldPhoto},
	},
	domain.TicketTypeUpgrade: {
		{name: "newPackageId", kind: fieldText, required: true},
		{name: "notes", kind: fieldText, required: true},
	},
	domain.TicketTypeDowngrade: {
		{name: "newPackageId", kind: fieldText, required: true},
		{name: "notes", kind: fieldText, required: true},
	},
	domain.TicketTypeWifiSetup: {
		{name: "wifiName", kind: fieldText, required: true},
		{name: "wifiPassword", kind: fieldText, required: true},
	},
	domain.TicketTypeRelocation:      {},
	domain.TicketTypeTroubleshooting: {},
}

// dateLayouts accepted for completion dates, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ValidateCompletion checks the payload against the schema for the ticket
// type and builds the typed CompletionData variant. On failure the returned
// error carries every missing or invalid field name, in schema order.
func ValidateCompletion(ticketType domain.TicketType, input *CompletionInput) (*domain.CompletionData, error) {
	if input == nil {
		input = &CompletionInput{}
	}
	rules := completionSchemas[ticketType]

	var bad []string
	for _, rule := range rules {
		if !fieldOK(input, rule) {
			bad = append(bad, rule.name)
		}
	}
	if len(bad) > 0 {
		return nil, &Error{
			Kind:   ErrIncompleteCompletionData,
			Detail: "completion data for " + string(ticketType) + " is missing or invalid",
			Fields: bad,
		}
	}
	return buildCompletionData(ticketType, input), nil
}

func fieldOK(input *CompletionInput, rule fieldRule) bool {
	switch rule.kind {
	case fieldText:
		return !rule.required || strings.TrimSpace(textField(input, rule.name)) != ""
	case fieldNumber:
		raw := strings.TrimSpace(textField(input, rule.name))
		if raw == "" {
			return !rule.required
		}
		_, err := strconv.ParseFloat(raw, 64)
		return err == nil
	case fieldDate:
		raw := strings.TrimSpace(textField(input, rule.name))
		if raw == "" {
			return !rule.required
		}
		_, ok := parseDate(raw)
		return ok
	case fieldPhoto:
		photo, present := input.Photos[rule.name]
		if !present {
			return !rule.required
		}
		return photo.FileName != "" && photo.SizeBytes > 0
	}
	return false
}

func textField(input *CompletionInput, name string) string {
	switch name {
	case "odpLocation":
		return input.OdpLocation
	case "odpDistance":
		return input.OdpDistance
	case "finalAttenuationDb":
		return input.FinalAttenuationDb
	case "wifiName":
		return input.WifiName
	case "wifiPassword":
		return input.WifiPassword
	case "activationDate":
		return input.ActivationDate
	case "repairDate":
		return input.RepairDate
	case "newPackageId":
		return input.NewPackageID
	case "notes":
		return input.Notes
	}
	return ""
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseFloat(raw string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return v
}

func buildCompletionData(ticketType domain.TicketType, input *CompletionInput) *domain.CompletionData {
	data := &domain.CompletionData{Type: ticketType}
	if len(input.Extra) > 0 {
		data.Extra = make(map[string]any, len(input.Extra))
		for k, v := range input.Extra {
			data.Extra[k] = v
		}
	}

	switch ticketType {
	case domain.TicketTypeInstallation:
		activation, _ := parseDate(strings.TrimSpace(input.ActivationDate))
		data.Installation = &domain.InstallationCompletion{
			OdpLocation:        strings.TrimSpace(input.OdpLocation),
			OdpDistanceMeters:  parseFloat(input.OdpDistance),
			FinalAttenuationDb: parseFloat(input.FinalAttenuationDb),
			WifiName:           strings.TrimSpace(input.WifiName),
			WifiPassword:       input.WifiPassword,
			ActivationDate:     activation,
			OtdrPhoto:          input.Photos["otdrPhoto"],
			AttenuationPhoto:   input.Photos["attenuationPhoto"],
			ModemSerialPhoto:   input.Photos["modemSerialPhoto"],
		}
	case domain.TicketTypeMaintenance, domain.TicketTypeRepair:
		repairDate, _ := parseDate(strings.TrimSpace(input.RepairDate))
		completion := &domain.MaintenanceCompletion{
			OdpLocation:        strings.TrimSpace(input.OdpLocation),
			FinalAttenuationDb: parseFloat(input.FinalAttenuationDb),
			RepairDate:         repairDate,
		}
		if photo, ok := input.Photos["photo"]; ok {
			completion.Photo = &photo
		}
		data.Maintenance = completion
	case domain.TicketTypeUpgrade, domain.TicketTypeDowngrade:
		data.PackageChange = &domain.PackageChangeCompletion{
			NewPackageID: strings.TrimSpace(input.NewPackageID),
			Notes:        strings.TrimSpace(input.Notes),
		}
	case domain.TicketTypeWifiSetup:
		data.WifiSetup = &domain.WifiSetupCompletion{
			WifiName:     strings.TrimSpace(input.WifiName),
			WifiPassword: input.WifiPassword,
		}
	}
	return data
}
