package prompt

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model on tone and on the Markdown sections every
// itinerary must contain.
const SystemPrompt = `
You are an expert travel planner with deep local knowledge.

Generate realistic, practical travel itineraries.
Respect all constraints.
Consider logistics: opening hours, distances, meals.

Output in Markdown with:

## Trip Overview
## Day-by-Day Itinerary
### Day 1, Day 2...
Morning / Afternoon / Evening
## Recommended Restaurants & Cafes
## Essential Travel Tips
## Estimated Budget Breakdown
## Packing Suggestions
`

const none = "None"

// BuildUserPrompt formats the trip fields into the user message.
func BuildUserPrompt(destination string, days int, interests []string, constraints string) string {
	interestsText := none
	if len(interests) > 0 {
		interestsText = strings.Join(interests, ", ")
	}
	if constraints == "" {
		constraints = none
	}

	return fmt.Sprintf(`
Destination: %s
Days: %d
Interests: %s
Constraints: %s
`, destination, days, interestsText, constraints)
}

// CityImagePrompt describes the cover picture for a destination.
func CityImagePrompt(destination string) string {
	return fmt.Sprintf("Beautiful high quality travel photo of %s city skyline", destination)
}

// InterestImagePrompt describes the picture shown for one interest.
func InterestImagePrompt(interest, destination string) string {
	return fmt.Sprintf("%s in %s, professional travel photography", interest, destination)
}
