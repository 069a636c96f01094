package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/clients/osrm"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/routing"
)

func main() {
	var (
		baseURL  = flag.String("base-url", "https://router.project-osrm.org", "OSRM server URL")
		points   = flag.String("points", "14.650700,121.049400;15.028600,120.689800", "Ordered points (lat,lon;lat,lon;...)")
		avoid    = flag.String("avoid", "", "Road classes to avoid (toll,motorway,ferry)")
		avoidPt  = flag.String("avoid-point", "", "Point to stay away from (lat,lon)")
		radiusKm = flag.Float64("safe-radius", routing.DefaultSafeRadiusKm, "Safe radius around the avoidance point in km")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Route Options Test Tool\n\n")
		fmt.Printf("Queries the route engine against a live OSRM server.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -points=\"14.5995,120.9842;10.3157,123.8854\"\n", os.Args[0])
		fmt.Printf("  %s -avoid=toll,ferry -avoid-point=\"14.2,121.0\"\n", os.Args[0])
		return
	}

	path, err := parsePoints(*points)
	if err != nil {
		log.Fatalf("Invalid points: %v", err)
	}

	var avoidance routing.Avoidance
	if *avoid != "" {
		for _, class := range strings.Split(*avoid, ",") {
			avoidance.RoadClasses = append(avoidance.RoadClasses, routing.RoadClass(strings.TrimSpace(class)))
		}
	}
	if *avoidPt != "" {
		pts, err := parsePoints(*avoidPt)
		if err != nil || len(pts) != 1 {
			log.Fatalf("Invalid avoidance point: %s", *avoidPt)
		}
		avoidance.Point = &pts[0]
	}

	fmt.Printf("Route Options Test\n")
	fmt.Printf("==================\n")
	fmt.Printf("Server: %s\n", *baseURL)
	for i, p := range path {
		fmt.Printf("Point %d: %s\n", i+1, p.String())
	}
	fmt.Printf("\n")

	engine := routing.NewEngine(osrm.NewClient(*baseURL), routing.WithSafeRadiusKm(*radiusKm))

	ctx, cancel := context.WithTimeout(logging.EnsureLogger(context.Background()), 30*time.Second)
	defer cancel()

	options, err := engine.Options(ctx, path, avoidance)
	if err != nil {
		log.Fatalf("Options failed: %v", err)
	}

	fmt.Printf("✅ %d option(s), fastest first\n", len(options))
	for i, option := range options {
		fmt.Printf("\n[%d] %.1f km, %.0f min", i, option.DistanceKm(), option.DurationSeconds/60)
		if option.Direct {
			fmt.Printf(" (direct estimate)")
		}
		if option.MinAvoidDistanceKm != nil {
			fmt.Printf(", %.1f km from avoidance point", *option.MinAvoidDistanceKm)
		}
		fmt.Printf("\n")
		for _, leg := range option.Legs {
			fmt.Printf("    %s: %.1f km\n", leg.Summary, leg.DistanceMeters/1000)
		}
		fmt.Printf("    geometry: %d points\n", len(option.Geometry))
	}
}

func parsePoints(s string) ([]geo.Point, error) {
	var points []geo.Point
	for _, part := range strings.Split(s, ";") {
		var p geo.Point
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%f,%f", &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		if !geo.IsValid(p) {
			return nil, fmt.Errorf("%q is out of range", part)
		}
		points = append(points, p)
	}
	return points, nil
}
