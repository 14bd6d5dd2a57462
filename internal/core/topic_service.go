// ABOUTME: TopicService pairs a topic classifier with its subtopic registry
// ABOUTME: Built explicitly from handler specs; immutable and safe for concurrent callers
package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/harper/cdt-coder/internal/catalog"
	"github.com/harper/cdt-coder/internal/llm"
	"github.com/harper/cdt-coder/internal/models"
)

// HandlerFactory builds the handler for one bucket around a gateway
type HandlerFactory func(gw llm.Gateway) InvokeFunc

// SubtopicSpec describes one bucket to register
type SubtopicSpec struct {
	Key     string
	Label   string
	Factory HandlerFactory
}

// TopicService classifies a scenario within one topic and activates the matched subtopics
type TopicService struct {
	name       string
	codeRange  string
	classifier *TopicClassifier
	registry   *SubtopicRegistry
}

// NewTopicService builds the registry from specs. Any registration error,
// including a duplicate key, fails construction.
func NewTopicService(name, codeRange string, classifier *TopicClassifier, specs []SubtopicSpec, gw llm.Gateway, opts ...RegistryOption) (*TopicService, error) {
	if classifier == nil {
		return nil, fmt.Errorf("topic %s: classifier is required", name)
	}

	registry := NewSubtopicRegistry(append([]RegistryOption{WithTopic(name)}, opts...)...)
	for _, spec := range specs {
		if spec.Factory == nil {
			return nil, fmt.Errorf("topic %s: %w: no factory for %q", name, ErrInvalidEntry, spec.Key)
		}
		if err := registry.Register(spec.Key, spec.Factory(gw), spec.Label); err != nil {
			return nil, fmt.Errorf("topic %s: %w", name, err)
		}
	}

	return &TopicService{
		name:       name,
		codeRange:  codeRange,
		classifier: classifier,
		registry:   registry,
	}, nil
}

// Name returns the topic name
func (s *TopicService) Name() string { return s.name }

// CodeRange returns the topic's top-level CDT range
func (s *TopicService) CodeRange() string { return s.codeRange }

// Registry returns the topic's subtopic registry
func (s *TopicService) Registry() *SubtopicRegistry { return s.registry }

// Analyze returns the raw classifier output for scenario, "" on failure
func (s *TopicService) Analyze(ctx context.Context, scenario string) string {
	return s.classifier.Analyze(ctx, scenario)
}

// Activate classifies the scenario and fans out to every matched subtopic
func (s *TopicService) Activate(ctx context.Context, scenario string) models.AggregateResult {
	return s.registry.ActivateAll(ctx, scenario, s.Analyze(ctx, scenario))
}

// SpecsFromCatalog turns a catalog topic into handler specs. Keyword buckets
// get a model-free handler; every other bucket asks the model.
func SpecsFromCatalog(t catalog.Topic, logger zerolog.Logger) []SubtopicSpec {
	specs := make([]SubtopicSpec, 0, len(t.Buckets))
	for _, b := range t.Buckets {
		if b.Keyword != "" {
			invoke := KeywordInvoke(b.Keyword, b.Key)
			specs = append(specs, SubtopicSpec{
				Key:     b.Key,
				Label:   b.Label,
				Factory: func(llm.Gateway) InvokeFunc { return invoke },
			})
			continue
		}
		template := catalog.SubtopicPrompt(t, b)
		specs = append(specs, SubtopicSpec{
			Key:   b.Key,
			Label: b.Label,
			Factory: func(gw llm.Gateway) InvokeFunc {
				return NewSubtopicHandler(gw, b.Key, b.Label, template, logger).Invoke()
			},
		})
	}
	return specs
}

// NewTopicServiceFromCatalog builds the service for a catalog topic
func NewTopicServiceFromCatalog(t catalog.Topic, gw llm.Gateway, logger zerolog.Logger, opts ...RegistryOption) (*TopicService, error) {
	classifier := NewTopicClassifier(gw, t.Name, catalog.TopicPrompt(t), logger)
	opts = append([]RegistryOption{WithLogger(logger)}, opts...)
	return NewTopicService(t.Name, t.CodeRange, classifier, SpecsFromCatalog(t, logger), gw, opts...)
}

// ServiceSet holds one TopicService per catalog topic
type ServiceSet struct {
	services []*TopicService
	byRange  map[string]*TopicService
}

// NewServiceSet builds services for every catalog topic
func NewServiceSet(gw llm.Gateway, logger zerolog.Logger, opts ...RegistryOption) (*ServiceSet, error) {
	set := &ServiceSet{byRange: make(map[string]*TopicService)}
	for _, t := range catalog.Topics() {
		svc, err := NewTopicServiceFromCatalog(t, gw, logger, opts...)
		if err != nil {
			return nil, err
		}
		set.services = append(set.services, svc)
		set.byRange[t.CodeRange] = svc
	}
	return set, nil
}

// Services returns every service in catalog order
func (s *ServiceSet) Services() []*TopicService {
	out := make([]*TopicService, len(s.services))
	copy(out, s.services)
	return out
}

// ForRange returns the service for a top-level code range
func (s *ServiceSet) ForRange(codeRange string) (*TopicService, bool) {
	svc, ok := s.byRange[codeRange]
	return svc, ok
}

// Lookup resolves a topic by slug, name or range
func (s *ServiceSet) Lookup(nameOrSlug string) (*TopicService, error) {
	t, err := catalog.Lookup(nameOrSlug)
	if err != nil {
		return nil, err
	}
	svc, ok := s.byRange[t.CodeRange]
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownTopic, nameOrSlug)
	}
	return svc, nil
}
