package advisor

import (
	"context"
	"fmt"
	"strings"
)

// Suggestion is the advisory output for a planned route.
type Suggestion struct {
	Route        string   `json:"route"`
	Advice       string   `json:"advice"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Generator produces route advice. Implementations may call an external
// model; the advice is informational only and never gates any operation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StaticGenerator is a canned generator for tests and offline development.
type StaticGenerator struct {
	Response string
}

// Generate returns the canned response.
func (g *StaticGenerator) Generate(_ context.Context, _ string) (string, error) {
	if g.Response == "" {
		return "Prefer highways with functional FASTag lanes and plan fuel stops at company-partnered pumps.", nil
	}
	return g.Response, nil
}

// Service builds prompts from route parameters and delegates to the generator.
type Service struct {
	generator Generator
}

// NewService builds an advisor service.
func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

// OptimizeRoute asks the generator for advice about a route.
func (s *Service) OptimizeRoute(ctx context.Context, origin, destination, cargo string) (Suggestion, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return Suggestion{}, fmt.Errorf("origin and destination are required")
	}

	prompt := fmt.Sprintf("Suggest the most fuel-efficient truck route from %s to %s", origin, destination)
	if cargo = strings.TrimSpace(cargo); cargo != "" {
		prompt += fmt.Sprintf(" carrying %s", cargo)
	}
	prompt += ". Mention toll costs and rest stops."

	advice, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Suggestion{}, fmt.Errorf("generate route advice: %w", err)
	}

	return Suggestion{
		Route:  origin + " -> " + destination,
		Advice: advice,
	}, nil
}
