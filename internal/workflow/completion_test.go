package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintasnet/fieldops/internal/domain"
)

func photoRef(name string) domain.PhotoRef {
	return domain.PhotoRef{StorageKey: "blobs/" + name, FileName: name, SizeBytes: 1024}
}

func validInstallationInput() *CompletionInput {
	return &CompletionInput{
		OdpLocation:        "ODP-KLM-012",
		OdpDistance:        "150",
		FinalAttenuationDb: "21.5",
		WifiName:           "Rahma-Home",
		WifiPassword:       "s3cret-wifi",
		ActivationDate:     "2025-03-14",
		Photos: map[string]domain.PhotoRef{
			"otdrPhoto":        photoRef("otdr.jpg"),
			"attenuationPhoto": photoRef("attenuation.jpg"),
			"modemSerialPhoto": photoRef("modem-serial.jpg"),
		},
	}
}

func TestValidateCompletion_Installation(t *testing.T) {
	data, err := ValidateCompletion(domain.TicketTypeInstallation, validInstallationInput())
	require.NoError(t, err)
	require.NotNil(t, data.Installation)
	assert.Equal(t, domain.TicketTypeInstallation, data.Type)
	assert.Equal(t, "ODP-KLM-012", data.Installation.OdpLocation)
	assert.Equal(t, 150.0, data.Installation.OdpDistanceMeters)
	assert.Equal(t, 21.5, data.Installation.FinalAttenuationDb)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), data.Installation.ActivationDate)
	assert.Equal(t, "otdr.jpg", data.Installation.OtdrPhoto.FileName)
	assert.Nil(t, data.Maintenance)
	assert.Nil(t, data.PackageChange)
	assert.Nil(t, data.WifiSetup)
}

func TestValidateCompletion_MissingOtdrPhoto(t *testing.T) {
	input := validInstallationInput()
	delete(input.Photos, "otdrPhoto")

	_, err := ValidateCompletion(domain.TicketTypeInstallation, input)
	require.Error(t, err)
	wfErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrIncompleteCompletionData, wfErr.Kind)
	assert.Equal(t, []string{"otdrPhoto"}, wfErr.Fields)
}

func TestValidateCompletion_CollectsAllBadFields(t *testing.T) {
	input := validInstallationInput()
	input.OdpDistance = "not-a-number"
	input.ActivationDate = "14/03/2025"
	input.WifiName = "   "
	input.Photos["modemSerialPhoto"] = domain.PhotoRef{StorageKey: "blobs/x"} // no filename, no size

	_, err := ValidateCompletion(domain.TicketTypeInstallation, input)
	require.Error(t, err)
	wfErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"odpDistance", "wifiName", "activationDate", "modemSerialPhoto"}, wfErr.Fields)
}

func TestValidateCompletion_NilPayloadListsEveryRequiredField(t *testing.T) {
	_, err := ValidateCompletion(domain.TicketTypeWifiSetup, nil)
	require.Error(t, err)
	wfErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"wifiName", "wifiPassword"}, wfErr.Fields)
}

func TestValidateCompletion_MaintenanceAndRepair(t *testing.T) {
	for _, typ := range []domain.TicketType{domain.TicketTypeMaintenance, domain.TicketTypeRepair} {
		t.Run(string(typ), func(t *testing.T) {
			input := &CompletionInput{
				OdpLocation:        "ODP-KLM-007",
				FinalAttenuationDb: "19.8",
				RepairDate:         "2025-06-02",
			}
			data, err := ValidateCompletion(typ, input)
			require.NoError(t, err)
			require.NotNil(t, data.Maintenance)
			assert.Nil(t, data.Maintenance.Photo, "photo is optional")

			input.Photos = map[string]domain.PhotoRef{"photo": photoRef("splice.jpg")}
			data, err = ValidateCompletion(typ, input)
			require.NoError(t, err)
			require.NotNil(t, data.Maintenance.Photo)
			assert.Equal(t, "splice.jpg", data.Maintenance.Photo.FileName)
		})
	}
}

func TestValidateCompletion_PackageChange(t *testing.T) {
	for _, typ := range []domain.TicketType{domain.TicketTypeUpgrade, domain.TicketTypeDowngrade} {
		t.Run(string(typ), func(t *testing.T) {
			_, err := ValidateCompletion(typ, &CompletionInput{NewPackageID: "pkg-50"})
			require.Error(t, err)
			wfErr, _ := AsError(err)
			assert.Equal(t, []string{"notes"}, wfErr.Fields)

			data, err := ValidateCompletion(typ, &CompletionInput{
				NewPackageID: "pkg-50",
				Notes:        "customer requested 50 Mbps plan",
			})
			require.NoError(t, err)
			require.NotNil(t, data.PackageChange)
			assert.Equal(t, "pkg-50", data.PackageChange.NewPackageID)
		})
	}
}

func TestValidateCompletion_IgnoresInapplicableFields(t *testing.T) {
	// wifi_setup does not care about installation fields, even bogus ones.
	data, err := ValidateCompletion(domain.TicketTypeWifiSetup, &CompletionInput{
		WifiName:     "Cafe-Net",
		WifiPassword: "espresso99",
		OdpDistance:  "garbage",
	})
	require.NoError(t, err)
	require.NotNil(t, data.WifiSetup)
}

func TestValidateCompletion_TypesWithoutSchema(t *testing.T) {
	for _, typ := range []domain.TicketType{domain.TicketTypeRelocation, domain.TicketTypeTroubleshooting} {
		data, err := ValidateCompletion(typ, &CompletionInput{})
		require.NoError(t, err)
		assert.Equal(t, typ, data.Type)
	}
}

func TestValidateCompletion_PreservesExtras(t *testing.T) {
	input := validInstallationInput()
	input.Extra = map[string]any{"routerModel": "ZX-F670L", "portNumber": 4}

	data, err := ValidateCompletion(domain.TicketTypeInstallation, input)
	require.NoError(t, err)
	assert.Equal(t, "ZX-F670L", data.Extra["routerModel"])
	assert.Equal(t, 4, data.Extra["portNumber"])
}

func TestCompletionData_CloneRoundTrip(t *testing.T) {
	data, err := ValidateCompletion(domain.TicketTypeInstallation, validInstallationInput())
	require.NoError(t, err)

	clone := data.Clone()
	assert.Equal(t, *data, clone)

	// Mutating the clone must not leak into the original.
	clone.Installation.WifiName = "changed"
	clone.Extra = map[string]any{"x": 1}
	assert.Equal(t, "Rahma-Home", data.Installation.WifiName)
}
