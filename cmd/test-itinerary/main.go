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

	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/config"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/itinerary"
	"github.com/dict-ojt/dict-travel-order-system-sub000/internal/lib/legs"
)

func main() {
	var (
		apiKey   = flag.String("api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key (or set OPENAI_API_KEY); empty uses the template writer")
		model    = flag.String("model", "gpt-4o-mini", "OpenAI model to use")
		baseURL  = flag.String("base-url", "", "OpenAI-compatible API base URL")
		route    = flag.String("route", "dict-co,dict-r3,dict-co", "Office ids visited in order")
		start    = flag.String("start", time.Now().AddDate(0, 0, 1).Format(legs.DateLayout), "First travel date (YYYY-MM-DD)")
		traveler = flag.String("traveler", "Juan Dela Cruz", "Traveler name")
		purpose  = flag.String("purpose", "Provincial ICT caravan", "Purpose of travel")
		timeout  = flag.Int("timeout", 30, "Timeout in seconds")
	)
	flag.Parse()

	ids := strings.Split(*route, ",")
	if len(ids) < 2 {
		log.Fatal("At least two office ids are required")
	}

	offices := config.DefaultConfig().Offices.Directory()
	first, err := time.Parse(legs.DateLayout, *start)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}

	builder := legs.NewBuilder(offices)
	for i := 1; i < len(ids); i++ {
		from, ok := offices.Location(strings.TrimSpace(ids[i-1]))
		if !ok {
			log.Fatalf("Unknown office: %s", ids[i-1])
		}
		to, ok := offices.Location(strings.TrimSpace(ids[i]))
		if !ok {
			log.Fatalf("Unknown office: %s", ids[i])
		}

		isReturn := i == len(ids)-1 && to.ID == strings.TrimSpace(ids[0]) && i > 1
		leg, err := builder.AddLeg(isReturn)
		if err != nil {
			log.Fatalf("Failed to add leg: %v", err)
		}
		date := first.AddDate(0, 0, i-1).Format(legs.DateLayout)
		if _, err := builder.UpdateLeg(leg.ID, legs.LegUpdate{From: from, To: to, StartDate: &date, EndDate: &date}); err != nil {
			log.Fatalf("Failed to update leg: %v", err)
		}
	}

	if errs := builder.Validate(); len(errs) > 0 {
		for field, msg := range errs {
			fmt.Printf("⚠️  %s: %s\n", field, msg)
		}
	}

	ctx, cancel := context.WithTimeout(logging.EnsureLogger(context.Background()), time.Duration(*timeout)*time.Second)
	defer cancel()

	summarizer := itinerary.NewSummarizer(*apiKey, *model, *baseURL)
	it, err := summarizer.Summarize(ctx, itinerary.Request{
		Traveler: *traveler,
		Purpose:  *purpose,
		Legs:     builder.Legs(),
	})
	if err != nil {
		log.Fatalf("Summarize failed: %v", err)
	}

	fmt.Printf("Generated by: %s\n\n", it.GeneratedBy)
	fmt.Printf("%s\n\n%s\n\n", it.Title, it.Narrative)
	for _, line := range it.Lines {
		fmt.Printf("  • %s\n", line)
	}
	fmt.Printf("\nTotal: %.1f km\n", it.TotalDistanceKm)
}
