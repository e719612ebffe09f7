package pricing

// ServiceType is the kind of session being booked.
type ServiceType string

const (
	ServicePhotoshoot ServiceType = "photoshoot"
	ServiceWedding    ServiceType = "wedding"
	ServiceEvent      ServiceType = "event"
)

// ParseServiceType accepts the raw value of the "service" URL parameter.
func ParseServiceType(s string) (ServiceType, bool) {
	switch ServiceType(s) {
	case ServicePhotoshoot, ServiceWedding, ServiceEvent:
		return ServiceType(s), true
	default:
		return "", false
	}
}

// Tier is a package level within a service type.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// Tiers lists the package levels from cheapest to most expensive.
var Tiers = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum}

// Addon keys understood by the calculator.
const (
	AddonDrone           = "drone"
	AddonHighlightReel   = "highlightReel"
	AddonExpressDelivery = "expressDelivery"
	AddonDronePhotoshoot = "dronePhotoshoot"
	AddonDroneWedding    = "droneWedding"
	AddonStudioRental    = "studioRental"
	AddonFlyingDress     = "flyingDress"
	AddonClearKayak      = "clearKayak"

	// legacyVideoAddonPrefix marks selections left over from the old video
	// picker. They never contribute to the total.
	legacyVideoAddonPrefix = "videography-"
)

// DefaultZone is the transportation zone a fresh selection starts in.
const DefaultZone = "local"

type PhotoshootTier struct {
	Price           float64 `json:"price" validate:"gte=0"`
	DurationMinutes int     `json:"durationMinutes" validate:"gte=0"`
	ImageCount      int     `json:"imageCount" validate:"gte=0"`
	LocationCount   int     `json:"locationCount" validate:"gte=0"`
}

type HourlyRate struct {
	BaseRatePerHour float64 `json:"baseRatePerHour" validate:"gt=0"`
	MinimumHours    int     `json:"minimumHours" validate:"gte=1"`
}

type PhotoshootPackages struct {
	Photography map[Tier]PhotoshootTier `json:"photography" validate:"required,dive"`
	Videography map[Tier]PhotoshootTier `json:"videography" validate:"required,dive"`
}

type WeddingPackages struct {
	Photography map[Tier]float64 `json:"photography" validate:"required,dive,gte=0"`
	Videography map[Tier]float64 `json:"videography" validate:"required,dive,gte=0"`
}

type EventPackages struct {
	Photography HourlyRate `json:"photography"`
	Videography HourlyRate `json:"videography"`
}

type Packages struct {
	Photoshoot PhotoshootPackages `json:"photoshoot"`
	Wedding    WeddingPackages    `json:"wedding"`
	Event      EventPackages      `json:"event"`
}

type Fees struct {
	AdditionalPerson float64            `json:"additionalPerson" validate:"gte=0"`
	Transportation   map[string]float64 `json:"transportation" validate:"dive,gte=0"`
}

// Config is one loaded pricing table. Values are never mutated after load;
// a refresh produces a new Config.
type Config struct {
	Version  int                `json:"version"`
	Packages Packages           `json:"packages"`
	Addons   map[string]float64 `json:"addons" validate:"dive,gte=0"`
	Fees     Fees               `json:"fees"`
}

// EventMinimumHours is the floor applied to event hours.
func (c Config) EventMinimumHours() int {
	if c.Packages.Event.Photography.MinimumHours < 1 {
		return 1
	}
	return c.Packages.Event.Photography.MinimumHours
}

// ZoneFee returns the flat transportation fee of a zone, 0 if unknown.
func (c Config) ZoneFee(zone string) float64 {
	return c.Fees.Transportation[zone]
}

// AddonPrice returns the flat price of an addon key, 0 if unknown.
func (c Config) AddonPrice(key string) float64 {
	return c.Addons[key]
}
