package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
	"github.com/FACorreiaa/go-travelguide/internal/server"
)

var generateOpts struct {
	destination string
	days        int
	interests   []string
	constraints string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a guide without the web UI and print the PDF path",
	Example: `  travelguide generate --destination Lisbon --days 3 \
    --interest Museums --interest "Food & Cuisine" --constraints "vegetarian"`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateOpts.destination, "destination", "", "destination city or region")
	f.IntVar(&generateOpts.days, "days", models.DefaultTripDays, "trip length in days (1-30)")
	f.StringArrayVar(&generateOpts.interests, "interest", nil, "special interest, repeatable")
	f.StringVar(&generateOpts.constraints, "constraints", "", "dietary needs, budget, accessibility")
	_ = generateCmd.MarkFlagRequired("destination")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	svc, err := server.NewGuideService(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	g, err := svc.Generate(cmd.Context(), models.TripRequest{
		Destination: generateOpts.destination,
		NumDays:     generateOpts.days,
		Interests:   generateOpts.interests,
		Constraints: generateOpts.constraints,
	})
	if err != nil {
		return err
	}

	log.Info("Guide ready", zap.String("model", g.Plan.Model), zap.String("pdf", g.PDFPath))
	out := cmd.OutOrStdout()
	if g.CityImage != "" {
		fmt.Fprintln(out, "city image:", g.CityImage)
	}
	for _, img := range g.InterestImages {
		if img.Path != "" {
			fmt.Fprintf(out, "%s image: %s\n", img.Interest, img.Path)
		}
	}
	fmt.Fprintln(out, g.PDFPath)
	return nil
}
