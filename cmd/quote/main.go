// Command quote prices a booking selection against a running API and prints
// the itemized breakdown.
//
//	quote -server http://localhost:8080 -service wedding -package gold -video -addons drone,highlightReel
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"photobook/internal/logger"
	"photobook/internal/pkg/pricingclient"
	"photobook/internal/pricing"

	"go.uber.org/zap"
)

func main() {
	var (
		serverURL    = flag.String("server", "http://localhost:8080", "API base URL")
		service      = flag.String("service", "photoshoot", "photoshoot, wedding or event")
		tier         = flag.String("package", "bronze", "bronze, silver, gold or platinum")
		video        = flag.Bool("video", false, "add the video package")
		videoTier    = flag.String("video-package", "", "video tier when it differs from the photo tier")
		people       = flag.Int("people", 1, "number of people (photoshoot)")
		hours        = flag.Int("hours", 0, "event hours")
		zone         = flag.String("zone", "", "transportation zone")
		addons       = flag.String("addons", "", "comma separated addon keys")
		photographer = flag.Int64("photographer", 0, "photographer id, 0 for the studio table")
		timeout      = flag.Duration("timeout", 30*time.Second, "overall timeout")
	)
	flag.Parse()

	log := logger.Must(false)
	defer log.Sync()

	in := pricing.SelectionInput{
		ServiceType:        *service,
		PackageType:        *tier,
		HasVideoPackage:    *video,
		VideoPackageType:   *videoTier,
		PeopleCount:        *people,
		EventHours:         *hours,
		TransportationZone: *zone,
		Addons:             splitList(*addons),
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := pricingclient.New(strings.TrimRight(*serverURL, "/"), log)
	snap, err := client.Quote(ctx, in, *photographer)
	if err != nil {
		log.Error("quote failed", zap.Error(err))
		os.Exit(1)
	}

	printSnapshot(snap)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printSnapshot(snap pricing.Snapshot) {
	sel := snap.Selection
	fmt.Printf("%s / %s", sel.ServiceType, sel.PackageType)
	if sel.HasVideoPackage {
		fmt.Printf(" + video %s", sel.VideoPackageType)
	}
	fmt.Printf(" (price table v%d)\n\n", snap.ConfigVersion)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, item := range snap.Breakdown.Items {
		label := item.Kind
		if item.Key != "" {
			label += " " + item.Key
		}
		fmt.Fprintf(w, "%s\t%.2f\t\n", label, item.Amount)
	}
	fmt.Fprintf(w, "total\t%.2f\t\n", snap.Breakdown.Total)
	_ = w.Flush()
}
