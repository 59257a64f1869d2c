package session

import (
	"maps"
	"slices"
	"sync"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
)

// Slot names one field of a session's state.
type Slot string

const (
	SlotDestination    Slot = "destination"
	SlotNumDays        Slot = "num_days"
	SlotInterests      Slot = "special_interests"
	SlotConstraints    Slot = "guardrails"
	SlotPlanMarkdown   Slot = "plan_md"
	SlotLastModel      Slot = "last_model"
	SlotCityImage      Slot = "city_image"
	SlotInterestImages Slot = "interest_images"
	SlotPDFPath        Slot = "pdf_path"
)

// Defaults applied by InitDefaults.
func Defaults() map[Slot]any {
	return map[Slot]any{
		SlotDestination:    "",
		SlotNumDays:        models.DefaultTripDays,
		SlotInterests:      []string{},
		SlotConstraints:    "",
		SlotPlanMarkdown:   "",
		SlotLastModel:      "",
		SlotCityImage:      "",
		SlotInterestImages: []models.InterestImage{},
		SlotPDFPath:        "",
	}
}

// State is the per-session record of the last inputs and generated artifacts.
type State struct {
	ID string

	mu         sync.Mutex
	slots      map[Slot]any
	generating bool
}

func NewState(id string) *State {
	return &State{ID: id, slots: make(map[Slot]any)}
}

// Init stores value only when slot has never been set.
func (s *State) Init(slot Slot, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[slot]; !ok {
		s.slots[slot] = value
	}
}

// InitDefaults initializes every slot to its default without touching slots
// that already hold a value.
func (s *State) InitDefaults() {
	for slot, value := range Defaults() {
		s.Init(slot, value)
	}
}

func (s *State) Get(slot Slot) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.slots[slot]
	return v, ok
}

func (s *State) Set(slot Slot, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = value
}

// TryBegin marks a generation as in flight. It returns false when one already is.
func (s *State) TryBegin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return false
	}
	s.generating = true
	return true
}

func (s *State) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
}

// ApplyRequest records the submitted form fields.
func (s *State) ApplyRequest(req models.TripRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[SlotDestination] = req.Destination
	s.slots[SlotNumDays] = req.NumDays
	s.slots[SlotInterests] = slices.Clone(req.Interests)
	s.slots[SlotConstraints] = req.Constraints
}

// ApplyGuide records the artifacts of a successful generation.
func (s *State) ApplyGuide(g *models.Guide) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[SlotPlanMarkdown] = g.Plan.Markdown
	s.slots[SlotLastModel] = g.Plan.Model
	s.slots[SlotCityImage] = g.CityImage
	s.slots[SlotInterestImages] = slices.Clone(g.InterestImages)
	s.slots[SlotPDFPath] = g.PDFPath
}

// View is a typed copy of the state used for rendering.
type View struct {
	Destination    string
	NumDays        int
	Interests      []string
	Constraints    string
	PlanMarkdown   string
	LastModel      string
	CityImage      string
	InterestImages []models.InterestImage
	PDFPath        string
}

// HasPlan reports whether an itinerary has been generated.
func (v View) HasPlan() bool {
	return v.PlanMarkdown != ""
}

// Request rebuilds the trip request currently held by the state.
func (v View) Request() models.TripRequest {
	return models.TripRequest{
		Destination: v.Destination,
		NumDays:     v.NumDays,
		Interests:   slices.Clone(v.Interests),
		Constraints: v.Constraints,
	}
}

// Snapshot returns a copy of the state; unset slots read as their defaults.
func (s *State) Snapshot() View {
	s.mu.Lock()
	slots := maps.Clone(s.slots)
	s.mu.Unlock()

	for slot, value := range Defaults() {
		if _, ok := slots[slot]; !ok {
			slots[slot] = value
		}
	}

	v := View{}
	v.Destination, _ = slots[SlotDestination].(string)
	v.NumDays, _ = slots[SlotNumDays].(int)
	v.Interests, _ = slots[SlotInterests].([]string)
	v.Constraints, _ = slots[SlotConstraints].(string)
	v.PlanMarkdown, _ = slots[SlotPlanMarkdown].(string)
	v.LastModel, _ = slots[SlotLastModel].(string)
	v.CityImage, _ = slots[SlotCityImage].(string)
	v.InterestImages, _ = slots[SlotInterestImages].([]models.InterestImage)
	v.PDFPath, _ = slots[SlotPDFPath].(string)
	v.Interests = slices.Clone(v.Interests)
	v.InterestImages = slices.Clone(v.InterestImages)
	return v
}
