package pricing

// Snapshot is a read-only copy of a selection after an operation, with the
// itemized breakdown the presentation layer renders.
type Snapshot struct {
	Selection     Selection `json:"selection"`
	Breakdown     Breakdown `json:"breakdown"`
	ConfigVersion int       `json:"config_version"`
}

// Controller owns one Selection and the Config it is priced against.
//
// Every operation re-derives the dependent prices and the total before it
// returns. A Controller is not safe for concurrent use; it must have a single
// owning goroutine.
type Controller struct {
	cfg      Config
	sel      Selection
	listener func(Snapshot)
}

// NewController starts a fresh selection. serviceParam is the raw value of the
// "service" URL parameter; anything unrecognised falls back to photoshoot.
func NewController(cfg Config, serviceParam string) *Controller {
	service := ServicePhotoshoot
	if st, ok := ParseServiceType(serviceParam); ok {
		service = st
	}

	c := &Controller{cfg: cfg}
	c.sel = Selection{
		ServiceType:        service,
		PackageType:        TierBronze,
		HasPhotoPackage:    true,
		PeopleCount:        1,
		EventHours:         cfg.EventMinimumHours(),
		TransportationZone: DefaultZone,
		TransportationFee:  cfg.ZoneFee(DefaultZone),
		Addons:             []string{},
	}
	c.resolvePrices()
	c.sel.TotalPrice = Calculate(c.sel, c.cfg)
	return c
}

// Replay rebuilds a selection from raw submitted fields by running the same
// operations a user would have performed on the form.
func Replay(cfg Config, in SelectionInput) *Controller {
	c := NewController(cfg, in.ServiceType)
	if in.PackageType != "" {
		c.SetPackageType(Tier(in.PackageType))
	}
	if in.HasVideoPackage {
		c.ToggleVideoPackage()
		if in.VideoPackageType != "" && Tier(in.VideoPackageType) != c.sel.VideoPackageType {
			c.SetVideoPackage(Tier(in.VideoPackageType))
		}
	}
	c.SetPeopleCount(in.PeopleCount)
	c.SetEventHours(in.EventHours)
	if in.TransportationZone != "" {
		c.SetTransportationZone(in.TransportationZone)
	}
	if in.TransportationFee != nil {
		c.SetTransportationFee(*in.TransportationFee)
	}
	for _, key := range in.Addons {
		if !c.sel.HasAddon(key) {
			c.ToggleAddon(key)
		}
	}
	return c
}

// OnTotalChange registers fn to be called whenever an operation changes the
// total. Re-deriving an unchanged total does not call fn.
func (c *Controller) OnTotalChange(fn func(Snapshot)) {
	c.listener = fn
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) Selection() Selection {
	return c.sel.clone()
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Selection:     c.sel.clone(),
		Breakdown:     Itemize(c.sel, c.cfg),
		ConfigVersion: c.cfg.Version,
	}
}

// SetServiceType switches service and resets the tier, the addons and, for
// events, the hours. Unknown service types leave the state untouched.
func (c *Controller) SetServiceType(t ServiceType) Snapshot {
	st, ok := ParseServiceType(string(t))
	if !ok {
		return c.Snapshot()
	}

	c.sel.ServiceType = st
	c.sel.PackageType = TierBronze
	if c.sel.HasVideoPackage {
		c.sel.VideoPackageType = TierBronze
	}
	c.sel.Addons = []string{}
	if st == ServiceEvent {
		c.sel.EventHours = c.cfg.EventMinimumHours()
	}
	c.resolvePrices()
	return c.recompute()
}

// ExternalServiceType handles a service change coming from outside the form,
// such as back/forward navigation. It only resets when the value differs.
func (c *Controller) ExternalServiceType(t ServiceType) Snapshot {
	st, ok := ParseServiceType(string(t))
	if !ok || st == c.sel.ServiceType {
		return c.Snapshot()
	}
	return c.SetServiceType(st)
}

// SetPackageType selects a tier. The video tier follows it when video is on.
func (c *Controller) SetPackageType(tier Tier) Snapshot {
	c.sel.PackageType = tier
	if c.sel.HasVideoPackage {
		c.sel.VideoPackageType = tier
	}
	c.resolvePrices()
	return c.recompute()
}

func (c *Controller) SetPeopleCount(n int) Snapshot {
	if n < 1 {
		n = 1
	}
	c.sel.PeopleCount = n
	return c.recompute()
}

// SetTransportationFee overrides the zone fee verbatim.
func (c *Controller) SetTransportationFee(fee float64) Snapshot {
	c.sel.TransportationFee = fee
	return c.recompute()
}

// SetTransportationZone selects a zone and resets the fee to its default.
func (c *Controller) SetTransportationZone(zone string) Snapshot {
	c.sel.TransportationZone = zone
	c.sel.TransportationFee = c.cfg.ZoneFee(zone)
	return c.recompute()
}

func (c *Controller) SetEventHours(hours int) Snapshot {
	if floor := c.cfg.EventMinimumHours(); hours < floor {
		hours = floor
	}
	c.sel.EventHours = hours
	c.resolvePrices()
	return c.recompute()
}

// ToggleAddon adds key to the addon set, or removes it if present.
func (c *Controller) ToggleAddon(key string) Snapshot {
	if key == "" {
		return c.Snapshot()
	}
	out := make([]string, 0, len(c.sel.Addons)+1)
	removed := false
	for _, k := range c.sel.Addons {
		if k == key {
			removed = true
			continue
		}
		out = append(out, k)
	}
	if !removed {
		out = append(out, key)
	}
	c.sel.Addons = out
	return c.recompute()
}

func (c *Controller) ToggleVideoPackage() Snapshot {
	c.sel.HasVideoPackage = !c.sel.HasVideoPackage
	if c.sel.HasVideoPackage {
		c.sel.VideoPackageType = c.sel.PackageType
	} else {
		c.sel.VideoPackageType = ""
	}
	c.resolvePrices()
	return c.recompute()
}

// SetVideoPackage decouples the video tier from the photo tier. With video
// off the tier is recorded but the video price stays 0.
func (c *Controller) SetVideoPackage(tier Tier) Snapshot {
	c.sel.VideoPackageType = tier
	c.resolvePrices()
	return c.recompute()
}

// ApplyConfig swaps in a freshly loaded price table without touching the
// user's choices. Hours below the new minimum are clamped up.
func (c *Controller) ApplyConfig(cfg Config) Snapshot {
	c.cfg = cfg
	if floor := cfg.EventMinimumHours(); c.sel.EventHours < floor {
		c.sel.EventHours = floor
	}
	c.resolvePrices()
	return c.recompute()
}

func (c *Controller) resolvePrices() {
	c.sel.BasePrice = ResolvePhotoPrice(c.cfg, c.sel.ServiceType, c.sel.PackageType, c.sel.EventHours)
	if c.sel.HasVideoPackage {
		c.sel.VideoPrice = ResolveVideoPrice(c.cfg, c.sel.ServiceType, c.sel.VideoPackageType, c.sel.EventHours)
	} else {
		c.sel.VideoPrice = 0
	}
}

func (c *Controller) recompute() Snapshot {
	total := Calculate(c.sel, c.cfg)
	if total != c.sel.TotalPrice {
		c.sel.TotalPrice = total
		if c.listener != nil {
			c.listener(c.Snapshot())
		}
	}
	return c.Snapshot()
}
