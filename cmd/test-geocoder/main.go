package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/clients/nominatim"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/geo"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/location"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "search":
		handleSearch()
	case "reverse":
		handleReverse()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func newClient(fs *flag.FlagSet) func() *nominatim.Client {
	baseURL := fs.String("base-url", "https://nominatim.openstreetmap.org", "Nominatim server URL")
	country := fs.String("country", "ph", "Country code to restrict results to")
	userAgent := fs.String("user-agent", "dict-travel-orders/1.0 (test-geocoder)", "User-Agent header")
	return func() *nominatim.Client {
		return nominatim.NewClient(*baseURL, *country, *userAgent)
	}
}

func handleSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "Place to search for")
	limit := fs.Int("limit", 5, "Maximum results")
	client := newClient(fs)
	fs.Parse(os.Args[2:])

	if *query == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geocoder search -q \"Cebu City\"")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(logging.EnsureLogger(context.Background()), 15*time.Second)
	defer cancel()

	results, err := client().Search(ctx, *query, *limit)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	fmt.Printf("✅ %d result(s) for %q\n\n", len(results), *query)
	for i, r := range results {
		loc := location.FromGeocode(r)
		if loc == nil {
			fmt.Printf("[%d] unusable coordinates: %s\n", i, r.DisplayName)
			continue
		}
		fmt.Printf("[%d] %s\n    %s\n    %s\n", i, loc.Name, loc.Address, loc.Point.String())
	}
}

func handleReverse() {
	fs := flag.NewFlagSet("reverse", flag.ExitOnError)
	lat := fs.Float64("lat", 14.5826, "Latitude")
	lon := fs.Float64("lon", 120.9787, "Longitude")
	client := newClient(fs)
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(logging.EnsureLogger(context.Background()), 15*time.Second)
	defer cancel()

	p := geo.Point{Latitude: *lat, Longitude: *lon}
	result, err := client().Reverse(ctx, p)
	if err != nil {
		log.Fatalf("Reverse failed for %s: %v", p.String(), err)
	}

	name, address := location.SplitDisplayName(result.DisplayName)
	fmt.Printf("✅ %s\n    %s\n", name, address)
}

func printUsage() {
	fmt.Println("Geocoder Test Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  test-geocoder search -q <query> [-limit 5] [-country ph]")
	fmt.Println("  test-geocoder reverse -lat <lat> -lon <lon>")
	fmt.Println("  test-geocoder help")
}
