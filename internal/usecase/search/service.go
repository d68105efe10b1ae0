// Package search resolves the parameters a stored search template declares
// and executes parameterized queries against the listings index.
package search

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/propstack/propsearch/internal/domain"
)

// placeholderPattern matches mustache variable tags: {{name}}, {{ name }},
// any amount of inner whitespace. Section tags ({{#x}}, {{/x}}, {{^x}}) do
// not match by construction.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Service serves parameter discovery and templated search for one index and
// one template. Stateless; safe for concurrent use.
type Service struct {
	store      TemplateStore
	index      string
	templateID string
	logger     *zap.Logger
}

// New creates a search service.
func New(store TemplateStore, index, templateID string, logger *zap.Logger) *Service {
	return &Service{store: store, index: index, templateID: templateID, logger: logger}
}

// TemplateParams fetches the stored template source and returns its
// deduplicated placeholder names, each annotated from the static catalog.
// A fetch failure is an error, so callers can tell it apart from a template
// that genuinely declares no parameters.
func (s *Service) TemplateParams(ctx context.Context) ([]domain.TemplateParam, error) {
	source, err := s.store.GetScript(ctx, s.templateID)
	if err != nil {
		return nil, fmt.Errorf("fetch template %q: %w", s.templateID, err)
	}

	names := extractPlaceholders(source)
	s.logger.Info("template parameters resolved",
		zap.String("template_id", s.templateID),
		zap.Strings("parameters", names),
	)

	params := make([]domain.TemplateParam, 0, len(names))
	for _, name := range names {
		params = append(params, domain.TemplateParam{
			Name:        name,
			Description: describeParam(name),
		})
	}
	return params, nil
}

// Search normalizes the parameters, executes the stored template against the
// index and shapes the hits into compact records. Zero hits is a valid
// outcome, not an error.
func (s *Service) Search(ctx context.Context, p Params) (domain.SearchOutcome, error) {
	bound := p.Normalize()

	if ce := s.logger.Check(zap.DebugLevel, "rendering template"); ce != nil {
		rendered, err := s.store.RenderTemplate(ctx, s.templateID, bound)
		if err != nil {
			s.logger.Debug("template render failed", zap.Error(err))
		} else {
			ce.Write(
				zap.String("template_id", s.templateID),
				zap.ByteString("rendered", rendered),
			)
		}
	}

	hits, err := s.store.SearchTemplate(ctx, s.index, s.templateID, bound)
	if err != nil {
		return domain.SearchOutcome{}, fmt.Errorf("search template %q: %w", s.templateID, err)
	}

	outcome := domain.SearchOutcome{
		Total:   hits.Total,
		Records: make([]domain.SearchRecord, 0, len(hits.Fields)),
	}
	for _, fields := range hits.Fields {
		outcome.Records = append(outcome.Records, shapeRecord(fields))
	}
	return outcome, nil
}

// sentinel substituted for display fields absent from a hit.
const absentField = "N/A"

func shapeRecord(fields domain.HitFields) domain.SearchRecord {
	return domain.SearchRecord{
		Title:            firstValue(fields, "title", "No title"),
		Tax:              firstValue(fields, "tax", absentField),
		MaintenanceFee:   firstValue(fields, "maintenance_fee", absentField),
		Bathrooms:        firstValue(fields, "bathrooms", absentField),
		Bedrooms:         firstValue(fields, "bedrooms", absentField),
		SquareFootage:    firstValue(fields, "square_footage", absentField),
		HomePrice:        firstValue(fields, "home_price", absentField),
		PropertyFeatures: firstValue(fields, "property_features", absentField),
	}
}

// firstValue extracts the first element of a field's value array, the store's
// representation for scalars.
func firstValue(fields domain.HitFields, name string, fallback any) any {
	if vals, ok := fields[name]; ok && len(vals) > 0 {
		return vals[0]
	}
	return fallback
}

// extractPlaceholders scans sanitized template source for placeholder names,
// deduplicated and sorted for a stable result.
func extractPlaceholders(source string) []string {
	source = sanitize(source)

	seen := map[string]bool{}
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(source, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// sanitize strips non-printable control characters except newline, carriage
// return and tab. Stored scripts occasionally arrive with stray control bytes.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}
