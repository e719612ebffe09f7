package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseSelection() Selection {
	return Selection{
		ServiceType:       ServicePhotoshoot,
		PackageType:       TierBronze,
		HasPhotoPackage:   true,
		BasePrice:         150,
		PeopleCount:       1,
		EventHours:        2,
		TransportationFee: 35,
		Addons:            []string{},
	}
}

func TestCalculate_DefaultPhotoshoot(t *testing.T) {
	assert.Equal(t, 185.0, Calculate(baseSelection(), DefaultConfig()))
}

func TestCalculate_IsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	sel := baseSelection()
	sel.PeopleCount = 3
	sel.Addons = []string{AddonDrone, AddonHighlightReel}

	first := Calculate(sel, cfg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Calculate(sel, cfg))
	}
}

func TestCalculate_AdditionalPeopleOnlyForPhotoshoot(t *testing.T) {
	cfg := DefaultConfig()

	sel := baseSelection()
	sel.PeopleCount = 4
	assert.Equal(t, 335.0, Calculate(sel, cfg))

	sel.ServiceType = ServiceWedding
	sel.BasePrice = 750
	assert.Equal(t, 785.0, Calculate(sel, cfg))
}

func TestCalculate_VideoCountsOnlyWhenEnabledAndNonZero(t *testing.T) {
	cfg := DefaultConfig()

	sel := baseSelection()
	sel.VideoPrice = 200
	assert.Equal(t, 185.0, Calculate(sel, cfg), "video price ignored while video is off")

	sel.HasVideoPackage = true
	sel.VideoPackageType = TierBronze
	assert.Equal(t, 385.0, Calculate(sel, cfg))

	sel.VideoPrice = 0
	bd := Itemize(sel, cfg)
	assert.Equal(t, 185.0, bd.Total)
	for _, item := range bd.Items {
		assert.NotEqual(t, LineVideo, item.Kind)
	}
}

func TestCalculate_TransportationAlwaysIncluded(t *testing.T) {
	cfg := DefaultConfig()
	for _, st := range []ServiceType{ServicePhotoshoot, ServiceWedding, ServiceEvent} {
		sel := baseSelection()
		sel.ServiceType = st
		sel.BasePrice = 0
		sel.TransportationFee = 42.5
		assert.Equal(t, 42.5, Calculate(sel, cfg), string(st))
	}
}

func TestCalculate_DroneDependsOnServiceType(t *testing.T) {
	cfg := DefaultConfig()

	sel := baseSelection()
	sel.Addons = []string{AddonDrone}
	assert.Equal(t, 335.0, Calculate(sel, cfg))

	sel.ServiceType = ServiceWedding
	sel.BasePrice = 1250
	assert.Equal(t, 1250.0+35+300, Calculate(sel, cfg))
}

func TestCalculate_LegacyVideographyAddonIsSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addons["videography-gold"] = 999

	sel := baseSelection()
	sel.Addons = []string{"videography-gold"}

	assert.Equal(t, 185.0, Calculate(sel, cfg))
	assert.Equal(t, 0.0, AddonContribution(cfg, ServicePhotoshoot, "videography-gold"))
}

func TestCalculate_UnknownAddonContributesNothing(t *testing.T) {
	sel := baseSelection()
	sel.Addons = []string{"confetti"}
	assert.Equal(t, 185.0, Calculate(sel, DefaultConfig()))
}

func TestCalculate_RoundsToCents(t *testing.T) {
	sel := baseSelection()
	sel.BasePrice = 0.1
	sel.TransportationFee = 0.2
	assert.Equal(t, 0.3, Calculate(sel, Config{}))
}

func TestResolvePhotoPrice(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name    string
		service ServiceType
		tier    Tier
		hours   int
		want    float64
	}{
		{"photoshoot bronze", ServicePhotoshoot, TierBronze, 0, 150},
		{"photoshoot platinum", ServicePhotoshoot, TierPlatinum, 0, 500},
		{"wedding gold", ServiceWedding, TierGold, 0, 1250},
		{"event four hours", ServiceEvent, TierBronze, 4, 600},
		{"photoshoot missing tier", ServicePhotoshoot, Tier("diamond"), 0, 0},
		{"wedding missing tier", ServiceWedding, Tier("diamond"), 0, 0},
		{"unknown service", ServiceType("portrait"), TierBronze, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolvePhotoPrice(cfg, tc.service, tc.tier, tc.hours))
		})
	}
}

func TestResolveVideoPrice_PartialConfig(t *testing.T) {
	var cfg Config
	assert.Equal(t, 0.0, ResolveVideoPrice(cfg, ServicePhotoshoot, TierGold, 0))
	assert.Equal(t, 0.0, ResolveVideoPrice(cfg, ServiceWedding, TierGold, 0))
	assert.Equal(t, 0.0, ResolveVideoPrice(cfg, ServiceEvent, TierGold, 5))
}

func TestItemize_ListsEveryTerm(t *testing.T) {
	cfg := DefaultConfig()
	sel := baseSelection()
	sel.HasVideoPackage = true
	sel.VideoPackageType = TierBronze
	sel.VideoPrice = 200
	sel.PeopleCount = 2
	sel.TransportationZone = DefaultZone
	sel.Addons = []string{AddonDrone, AddonExpressDelivery}

	bd := Itemize(sel, cfg)

	kinds := make([]string, 0, len(bd.Items))
	for _, item := range bd.Items {
		kinds = append(kinds, item.Kind)
	}
	assert.Equal(t, []string{LineBase, LineVideo, LineAdditionalPeople, LineTransportation, LineAddon, LineAddon}, kinds)
	assert.Equal(t, 150.0+200+50+35+150+100, bd.Total)
}
