package domain

import "time"

// PhotoRef points at an already-uploaded artifact in blob storage. The
// workflow never handles raw bytes, only resolved references.
type PhotoRef struct {
	StorageKey string `json:"storageKey"`
	FileName   string `json:"fileName"`
	SizeBytes  int64  `json:"sizeBytes"`
}

// InstallationCompletion closes out a new fiber installation.
type InstallationCompletion struct {
	OdpLocation        string    `json:"odpLocation"`
	OdpDistanceMeters  float64   `json:"odpDistance"`
	FinalAttenuationDb float64   `json:"finalAttenuationDb"`
	WifiName           string    `json:"wifiName"`
	WifiPassword       string    `json:"wifiPassword"`
	ActivationDate     time.Time `json:"activationDate"`
	OtdrPhoto          PhotoRef  `json:"otdrPhoto"`
	AttenuationPhoto   PhotoRef  `json:"attenuationPhoto"`
	ModemSerialPhoto   PhotoRef  `json:"modemSerialPhoto"`
}

// MaintenanceCompletion closes out maintenance and repair visits.
type MaintenanceCompletion struct {
	OdpLocation        string    `json:"odpLocation"`
	FinalAttenuationDb float64   `json:"finalAttenuationDb"`
	RepairDate         time.Time `json:"repairDate"`
	Photo              *PhotoRef `json:"photo,omitempty"`
}

// PackageChangeCompletion closes out upgrade and downgrade orders.
type PackageChangeCompletion struct {
	NewPackageID string `json:"newPackageId"`
	Notes        string `json:"notes"`
}

// WifiSetupCompletion closes out a wifi configuration visit.
type WifiSetupCompletion struct {
	WifiName     string `json:"wifiName"`
	WifiPassword string `json:"wifiPassword"`
}

// CompletionData is the type-tagged payload attached to a ticket once it
// reaches completed status. Exactly one variant matching the tag is set;
// types without a structured variant (relocation, troubleshooting) carry
// only Extra.
type CompletionData struct {
	Type          TicketType               `json:"type"`
	Installation  *InstallationCompletion  `json:"installation,omitempty"`
	Maintenance   *MaintenanceCompletion   `json:"maintenance,omitempty"`
	PackageChange *PackageChangeCompletion `json:"packageChange,omitempty"`
	WifiSetup     *WifiSetupCompletion     `json:"wifiSetup,omitempty"`
	Extra         map[string]any           `json:"extra,omitempty"`
}

// Clone returns a deep copy of the payload.
func (c CompletionData) Clone() CompletionData {
	copied := c
	if c.Installation != nil {
		v := *c.Installation
		copied.Installation = &v
	}
	if c.Maintenance != nil {
		v := *c.Maintenance
		if c.Maintenance.Photo != nil {
			p := *c.Maintenance.Photo
			v.Photo = &p
		}
		copied.Maintenance = &v
	}
	if c.PackageChange != nil {
		v := *c.PackageChange
		copied.PackageChange = &v
	}
	if c.WifiSetup != nil {
		v := *c.WifiSetup
		copied.WifiSetup = &v
	}
	if c.Extra != nil {
		copied.Extra = make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			copied.Extra[k] = v
		}
	}
	return copied
}
