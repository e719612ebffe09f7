package pricing

import "slices"

// Selection is the state of one booking form. Derived fields (BasePrice,
// VideoPrice, TotalPrice) are written only by the Controller.
type Selection struct {
	ServiceType        ServiceType `json:"service_type"`
	PackageType        Tier        `json:"package_type"`
	HasPhotoPackage    bool        `json:"has_photo_package"`
	HasVideoPackage    bool        `json:"has_video_package"`
	VideoPackageType   Tier        `json:"video_package_type,omitempty"`
	BasePrice          float64     `json:"base_price"`
	VideoPrice         float64     `json:"video_price"`
	PeopleCount        int         `json:"people_count"`
	EventHours         int         `json:"event_hours"`
	TransportationZone string      `json:"transportation_zone,omitempty"`
	TransportationFee  float64     `json:"transportation_fee"`
	Addons             []string    `json:"addons"`
	TotalPrice         float64     `json:"total_price"`
}

func (s Selection) clone() Selection {
	out := s
	out.Addons = slices.Clone(s.Addons)
	if out.Addons == nil {
		out.Addons = []string{}
	}
	return out
}

// HasAddon reports whether key is in the addon set.
func (s Selection) HasAddon(key string) bool {
	return slices.Contains(s.Addons, key)
}

// SelectionInput is the raw, non-derived half of a Selection: what a client
// submits with a booking or a stateless quote.
type SelectionInput struct {
	ServiceType        string   `json:"service_type"`
	PackageType        string   `json:"package_type"`
	HasVideoPackage    bool     `json:"has_video_package"`
	VideoPackageType   string   `json:"video_package_type,omitempty"`
	PeopleCount        int      `json:"people_count"`
	EventHours         int      `json:"event_hours"`
	TransportationZone string   `json:"transportation_zone,omitempty"`
	TransportationFee  *float64 `json:"transportation_fee,omitempty"`
	Addons             []string `json:"addons"`
}

// Input strips the derived fields.
func (s Selection) Input() SelectionInput {
	fee := s.TransportationFee
	return SelectionInput{
		ServiceType:        string(s.ServiceType),
		PackageType:        string(s.PackageType),
		HasVideoPackage:    s.HasVideoPackage,
		VideoPackageType:   string(s.VideoPackageType),
		PeopleCount:        s.PeopleCount,
		EventHours:         s.EventHours,
		TransportationZone: s.TransportationZone,
		TransportationFee:  &fee,
		Addons:             slices.Clone(s.Addons),
	}
}
