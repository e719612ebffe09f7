package pricing

// DefaultConfig returns the studio's built-in price list. It is used when
// neither the photographer nor the global row exists in the store, and as the
// initial table of a quote session before its fetch completes.
func DefaultConfig() Config {
	return Config{
		Version: 0,
		Packages: Packages{
			Photoshoot: PhotoshootPackages{
				Photography: map[Tier]PhotoshootTier{
					TierBronze:   {Price: 150, DurationMinutes: 30, ImageCount: 10, LocationCount: 1},
					TierSilver:   {Price: 250, DurationMinutes: 60, ImageCount: 25, LocationCount: 1},
					TierGold:     {Price: 350, DurationMinutes: 90, ImageCount: 40, LocationCount: 2},
					TierPlatinum: {Price: 500, DurationMinutes: 120, ImageCount: 60, LocationCount: 3},
				},
				Videography: map[Tier]PhotoshootTier{
					TierBronze:   {Price: 200, DurationMinutes: 30},
					TierSilver:   {Price: 300, DurationMinutes: 60},
					TierGold:     {Price: 400, DurationMinutes: 90},
					TierPlatinum: {Price: 550, DurationMinutes: 120},
				},
			},
			Wedding: WeddingPackages{
				Photography: map[Tier]float64{
					TierBronze:   750,
					TierSilver:   1000,
					TierGold:     1250,
					TierPlatinum: 1750,
				},
				Videography: map[Tier]float64{
					TierBronze:   750,
					TierSilver:   1000,
					TierGold:     1250,
					TierPlatinum: 1750,
				},
			},
			Event: EventPackages{
				Photography: HourlyRate{BaseRatePerHour: 150, MinimumHours: 2},
				Videography: HourlyRate{BaseRatePerHour: 150, MinimumHours: 2},
			},
		},
		Addons: map[string]float64{
			AddonHighlightReel:   250,
			AddonExpressDelivery: 100,
			AddonDronePhotoshoot: 150,
			AddonDroneWedding:    300,
			AddonStudioRental:    75,
			AddonFlyingDress:     200,
			AddonClearKayak:      125,
		},
		Fees: Fees{
			AdditionalPerson: 50,
			Transportation: map[string]float64{
				DefaultZone: 35,
				"regional":  75,
				"extended":  125,
			},
		},
	}
}
