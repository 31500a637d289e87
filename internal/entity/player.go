package entity

// Slot - binds a display name to a mark and to the transport endpoint it joined from.
type Slot struct {
	Name       string `json:"name"`
	Mark       Mark   `json:"mark"`
	EndpointID string `json:"-"`
}
