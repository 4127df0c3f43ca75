package person

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gojideth/Docker-compose-networks/internal/graph"
	"github.com/gojideth/Docker-compose-networks/internal/types"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MetricPersonsCreated counts successfully created persons.
const MetricPersonsCreated = "personsvc.persons.created"

// Service creates and lists persons through a graph.GraphClient.
// It holds no state across calls besides its collaborators.
type Service struct {
	client    graph.GraphClient
	generator Generator
	logger    *slog.Logger
	created   metric.Int64Counter
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithGenerator replaces the random name/age generator.
func WithGenerator(g Generator) ServiceOption {
	return func(s *Service) {
		s.generator = g
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMeter sets the meter for the created-persons counter.
func WithMeter(meter metric.Meter) ServiceOption {
	return func(s *Service) {
		counter, err := meter.Int64Counter(MetricPersonsCreated,
			metric.WithDescription("Persons created"))
		if err == nil {
			s.created = counter
		}
	}
}

// NewService returns a Service backed by client.
func NewService(client graph.GraphClient, opts ...ServiceOption) *Service {
	created, _ := noop.NewMeterProvider().Meter("person").Int64Counter(MetricPersonsCreated)
	s := &Service{
		client:    client,
		generator: NewRandomGenerator(),
		logger:    slog.Default().With("component", "person"),
		created:   created,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores one Person with a random name and age and returns what the
// store echoed back. Store failures keep their graph error code; an empty
// result is ErrCodePersonCreateNoRecord.
func (s *Service) Create(ctx context.Context) (Person, error) {
	candidate := s.generator.Next()

	result, err := s.client.Execute(ctx, createQuery, map[string]any{
		"name": candidate.Name,
		"age":  candidate.Age,
	})
	if err != nil {
		return Person{}, fmt.Errorf("create person: %w", err)
	}

	record, ok := result.Single()
	if !ok {
		return Person{}, types.NewError(ErrCodePersonCreateNoRecord, "Failed to create person")
	}

	p, err := decode(record)
	if err != nil {
		return Person{}, err
	}

	s.created.Add(ctx, 1)
	s.logger.Debug("person created", "name", p.Name, "age", p.Age)
	return p, nil
}

// List returns every stored Person in the order the store returned them.
// An empty store yields an empty, non-nil slice.
func (s *Service) List(ctx context.Context) ([]Person, error) {
	result, err := s.client.Query(ctx, listQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}

	persons := make([]Person, 0, len(result.Records))
	for _, record := range result.Records {
		p, err := decode(record)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, nil
}

// decode maps a row with "name" and "age" columns onto a Person.
func decode(record map[string]any) (Person, error) {
	name, ok := record["name"].(string)
	if !ok {
		return Person{}, types.NewError(ErrCodePersonDecodeFailed,
			fmt.Sprintf("name column is %T, want string", record["name"]))
	}

	age, ok := toInt(record["age"])
	if !ok {
		return Person{}, types.NewError(ErrCodePersonDecodeFailed,
			fmt.Sprintf("age column is %T, want integer", record["age"]))
	}

	return Person{Name: name, Age: age}, nil
}

// toInt accepts the integer types a driver or test double may produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case int32:
		return int(n), true
	default:
		return 0, false
	}
}
