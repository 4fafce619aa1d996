package locator

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/componentschema/componentschema/bindings/go/runtime"
)

// ValidationIssue is a single reason why a document is invalid.
type ValidationIssue struct {
	// InstanceLocation is the JSON pointer of the offending value.
	InstanceLocation string `json:"instanceLocation"`
	// KeywordLocation names the schema keyword that failed.
	KeywordLocation string `json:"keywordLocation,omitempty"`
	Message         string `json:"message"`
}

// ValidationResult is the outcome of validating one document.
type ValidationResult struct {
	ComponentType string            `json:"componentType,omitempty"`
	Location      *Location         `json:"location,omitempty"`
	Valid         bool              `json:"valid"`
	Issues        []ValidationIssue `json:"issues,omitempty"`
}

// Validate validates a serialized component instance against the definition
// of the component type it declares. Problems of the document itself, from
// malformed JSON to schema violations, are returned as issues of an invalid
// result. The error is reserved for failures to find or compile the
// definition, ErrDefinitionNotFound among them.
func (l *Locator) Validate(ctx context.Context, data []byte) (*ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw runtime.Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		issue := ValidationIssue{Message: "malformed document: " + err.Error()}
		if errors.Is(err, runtime.ErrMissingComponentType) {
			issue = ValidationIssue{InstanceLocation: "/componentType", Message: err.Error()}
		}
		return invalid("", issue), nil
	}
	if _, err := raw.InstanceType(); err != nil {
		return invalid(raw.ComponentType, ValidationIssue{InstanceLocation: "/componentType", Message: err.Error()}), nil
	}

	loc, err := l.Locate(ctx, raw.ComponentType)
	if err != nil {
		return nil, err
	}
	schema, err := l.Schema(ctx, loc)
	if err != nil {
		return nil, err
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw.Data))
	if err != nil {
		return invalid(raw.ComponentType, ValidationIssue{Message: "malformed document: " + err.Error()}), nil
	}

	result := &ValidationResult{ComponentType: raw.ComponentType, Location: loc, Valid: true}
	if err := schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, fmt.Errorf("failed to validate %s: %w", raw.ComponentType, err)
		}
		result.Valid = false
		result.Issues = issues(verr, message.NewPrinter(language.English))
	}
	slog.DebugContext(ctx, "document validated", "componentType", raw.ComponentType, "valid", result.Valid, "issues", len(result.Issues), "realm", Realm)
	return result, nil
}

func invalid(componentType string, issue ValidationIssue) *ValidationResult {
	return &ValidationResult{ComponentType: componentType, Issues: []ValidationIssue{issue}}
}

// issues flattens the leaves of a validation error tree, ordered by instance
// and keyword location.
func issues(err *jsonschema.ValidationError, p *message.Printer) []ValidationIssue {
	var out []ValidationIssue
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		out = append(out, ValidationIssue{
			InstanceLocation: instancePointer(e.InstanceLocation),
			KeywordLocation:  keywordLocation(e),
			Message:          e.ErrorKind.LocalizedString(p),
		})
	}
	walk(err)
	slices.SortStableFunc(out, func(a, b ValidationIssue) int {
		return cmp.Or(cmp.Compare(a.InstanceLocation, b.InstanceLocation), cmp.Compare(a.KeywordLocation, b.KeywordLocation))
	})
	return slices.Compact(out)
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func instancePointer(tokens []string) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteByte('/')
		sb.WriteString(pointerEscaper.Replace(t))
	}
	return sb.String()
}

// keywordLocation is the failing keyword relative to the corpus, as in
// common.schema.json#/$defs/float_value/properties/value/type.
func keywordLocation(e *jsonschema.ValidationError) string {
	base, fragment, found := strings.Cut(e.SchemaURL, "#")
	loc := path.Base(base)
	if found {
		loc += "#" + fragment
	}
	if kw := e.ErrorKind.KeywordPath(); len(kw) > 0 {
		loc += "/" + strings.Join(kw, "/")
	}
	return loc
}
