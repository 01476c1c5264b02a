package domain

import "time"

// availableStatusID is the Snipe-IT status_id meaning the asset is ready
// to deploy.
const availableStatusID = 1

// Asset is a device record as reported by the external asset-management
// system. The service does not own these; it mirrors them.
type Asset struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	AssetTag   string `json:"asset_tag"`
	Model      string `json:"model,omitempty"`
	Category   string `json:"category,omitempty"`
	Status     string `json:"status,omitempty"`
	StatusID   int    `json:"status_id"`
	AssignedTo string `json:"assigned_to,omitempty"`
	Available  bool   `json:"available"`
}

// MarkAvailability derives Available from the external status id.
func (a *Asset) MarkAvailability() {
	a.Available = a.StatusID == availableStatusID
}

// AssetAssignment links a person to an external asset. ReturnedAt stays
// nil while the device is out.
type AssetAssignment struct {
	ID             string     `json:"id"`
	PersonID       string     `json:"person_id"`
	AssetID        int        `json:"asset_id"`
	AssetTag       string     `json:"asset_tag"`
	AssignedAt     time.Time  `json:"assigned_at"`
	ReturnedAt     *time.Time `json:"returned_at,omitempty"`
	ConditionNotes string     `json:"condition_notes,omitempty"`
}
