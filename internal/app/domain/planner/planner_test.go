package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelguide/internal/app/models"
)

// MockCompleter is a mock implementation of Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	args := m.Called(ctx, req.Model)
	return args.String(0), args.Error(1)
}

func TestPlannerGenerate(t *testing.T) {
	modelList := []string{"model-a", "model-b", "model-c"}
	ctx := context.Background()

	tests := []struct {
		name          string
		setupMock     func(*MockCompleter)
		expectedModel string
		expectedText  string
		expectedError error
	}{
		{
			name: "first model succeeds",
			setupMock: func(m *MockCompleter) {
				m.On("Complete", mock.Anything, "model-a").Return("## Trip Overview", nil).Once()
			},
			expectedModel: "model-a",
			expectedText:  "## Trip Overview",
		},
		{
			name: "third model succeeds after two failures",
			setupMock: func(m *MockCompleter) {
				m.On("Complete", mock.Anything, "model-a").Return("", errors.New("quota exceeded")).Once()
				m.On("Complete", mock.Anything, "model-b").Return("", errors.New("network down")).Once()
				m.On("Complete", mock.Anything, "model-c").Return("  plan from c \n", nil).Once()
			},
			expectedModel: "model-c",
			expectedText:  "plan from c",
		},
		{
			name: "empty completion falls through",
			setupMock: func(m *MockCompleter) {
				m.On("Complete", mock.Anything, "model-a").Return("   ", nil).Once()
				m.On("Complete", mock.Anything, "model-b").Return("plan from b", nil).Once()
			},
			expectedModel: "model-b",
			expectedText:  "plan from b",
		},
		{
			name: "all models fail",
			setupMock: func(m *MockCompleter) {
				m.On("Complete", mock.Anything, "model-a").Return("", errors.New("boom a")).Once()
				m.On("Complete", mock.Anything, "model-b").Return("", errors.New("boom b")).Once()
				m.On("Complete", mock.Anything, "model-c").Return("", errors.New("boom c")).Once()
			},
			expectedError: models.ErrAllModelsExhausted,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			completer := new(MockCompleter)
			tc.setupMock(completer)
			p := NewPlanner(completer, Config{Models: modelList}, zap.NewNop())

			plan, err := p.Generate(ctx, "system", "user")

			if tc.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Empty(t, plan.Markdown)
				assert.Empty(t, plan.Model)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedModel, plan.Model)
				assert.Equal(t, tc.expectedText, plan.Markdown)
			}
			completer.AssertExpectations(t)
		})
	}
}

func TestPlannerSendsFixedParameters(t *testing.T) {
	var captured CompletionRequest
	completer := completerFunc(func(_ context.Context, req CompletionRequest) (string, error) {
		captured = req
		return "ok", nil
	})

	p := NewPlanner(completer, Config{}, nil)
	_, err := p.Generate(context.Background(), "sys", "usr")
	require.NoError(t, err)

	assert.Equal(t, DefaultModels[0], captured.Model)
	assert.Equal(t, "sys", captured.System)
	assert.Equal(t, "usr", captured.User)
	assert.Equal(t, DefaultMaxTokens, captured.MaxTokens)
	assert.Equal(t, DefaultTemperature, captured.Temperature)
}

func TestPlannerKeepsConfiguredTemperature(t *testing.T) {
	tests := []struct {
		name string
		temp *float32
		want float32
	}{
		{name: "unset", temp: nil, want: DefaultTemperature},
		{name: "greedy", temp: float32Ptr(0), want: 0},
		{name: "custom", temp: float32Ptr(1.2), want: 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured CompletionRequest
			completer := completerFunc(func(_ context.Context, req CompletionRequest) (string, error) {
				captured = req
				return "ok", nil
			})

			p := NewPlanner(completer, Config{Temperature: tt.temp}, zap.NewNop())
			_, err := p.Generate(context.Background(), "sys", "usr")
			require.NoError(t, err)
			assert.Equal(t, tt.want, captured.Temperature)
		})
	}
}

func float32Ptr(f float32) *float32 { return &f }

func TestPlannerAllFailuresAreReported(t *testing.T) {
	completer := completerFunc(func(_ context.Context, req CompletionRequest) (string, error) {
		return "", errors.New(req.Model + " unavailable")
	})

	p := NewPlanner(completer, Config{Models: []string{"x", "y"}}, zap.NewNop())
	_, err := p.Generate(context.Background(), "sys", "usr")

	require.ErrorIs(t, err, models.ErrAllModelsExhausted)
	assert.Contains(t, err.Error(), "x unavailable")
	assert.Contains(t, err.Error(), "y unavailable")
}

func TestMissingSections(t *testing.T) {
	complete := `## Trip Overview
text
## Day-by-Day Itinerary
### Day 1
## Recommended Restaurants & Cafes
## Essential Travel Tips
## Estimated Budget Breakdown
## Packing Suggestions`

	assert.Empty(t, MissingSections(complete))

	partial := "## trip overview\n## Packing Suggestions\nBudget is mentioned only in prose"
	assert.ElementsMatch(t,
		[]string{"day-by-day itinerary", "restaurants", "travel tips", "budget"},
		MissingSections(partial))
}

type completerFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f completerFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}
