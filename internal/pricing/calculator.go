package pricing

import (
	"math"
	"strings"
)

// Line item kinds of a Breakdown.
const (
	LineBase             = "base"
	LineVideo            = "video"
	LineAdditionalPeople = "additional_people"
	LineTransportation   = "transportation"
	LineAddon            = "addon"
)

type LineItem struct {
	Kind   string  `json:"kind"`
	Key    string  `json:"key,omitempty"`
	Amount float64 `json:"amount"`
}

// Breakdown itemizes every term that contributed to Total.
type Breakdown struct {
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

// ResolvePhotoPrice returns the photography price for a service and tier.
// Missing tables or tiers resolve to 0.
func ResolvePhotoPrice(cfg Config, service ServiceType, tier Tier, hours int) float64 {
	switch service {
	case ServicePhotoshoot:
		return cfg.Packages.Photoshoot.Photography[tier].Price
	case ServiceWedding:
		return cfg.Packages.Wedding.Photography[tier]
	case ServiceEvent:
		return cfg.Packages.Event.Photography.BaseRatePerHour * float64(hours)
	default:
		return 0
	}
}

// ResolveVideoPrice is ResolvePhotoPrice for the videography tables.
func ResolveVideoPrice(cfg Config, service ServiceType, tier Tier, hours int) float64 {
	switch service {
	case ServicePhotoshoot:
		return cfg.Packages.Photoshoot.Videography[tier].Price
	case ServiceWedding:
		return cfg.Packages.Wedding.Videography[tier]
	case ServiceEvent:
		return cfg.Packages.Event.Videography.BaseRatePerHour * float64(hours)
	default:
		return 0
	}
}

// AddonContribution is the amount a single addon key adds to a total.
func AddonContribution(cfg Config, service ServiceType, key string) float64 {
	if key == AddonDrone {
		if service == ServiceWedding {
			return cfg.AddonPrice(AddonDroneWedding)
		}
		return cfg.AddonPrice(AddonDronePhotoshoot)
	}
	if strings.HasPrefix(key, legacyVideoAddonPrefix) {
		return 0
	}
	return cfg.AddonPrice(key)
}

// Itemize computes the price breakdown of a selection. It reads only its
// arguments.
func Itemize(sel Selection, cfg Config) Breakdown {
	items := make([]LineItem, 0, 4+len(sel.Addons))
	total := 0.0

	if sel.HasPhotoPackage {
		items = append(items, LineItem{Kind: LineBase, Key: string(sel.PackageType), Amount: sel.BasePrice})
		total += sel.BasePrice
	}

	if sel.HasVideoPackage && sel.VideoPrice != 0 {
		items = append(items, LineItem{Kind: LineVideo, Key: string(sel.VideoPackageType), Amount: sel.VideoPrice})
		total += sel.VideoPrice
	}

	if sel.ServiceType == ServicePhotoshoot && sel.PeopleCount > 1 {
		surcharge := float64(sel.PeopleCount-1) * cfg.Fees.AdditionalPerson
		items = append(items, LineItem{Kind: LineAdditionalPeople, Amount: surcharge})
		total += surcharge
	}

	items = append(items, LineItem{Kind: LineTransportation, Key: sel.TransportationZone, Amount: sel.TransportationFee})
	total += sel.TransportationFee

	for _, key := range sel.Addons {
		amount := AddonContribution(cfg, sel.ServiceType, key)
		if amount == 0 {
			continue
		}
		items = append(items, LineItem{Kind: LineAddon, Key: key, Amount: amount})
		total += amount
	}

	return Breakdown{Items: items, Total: roundCents(total)}
}

// Calculate returns the total price of a selection.
func Calculate(sel Selection, cfg Config) float64 {
	return Itemize(sel, cfg).Total
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
