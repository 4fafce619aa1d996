package jsonschemagen

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/componentschema/componentschema/bindings/go/descriptor"
)

var (
	// ErrUnresolvedArgument marks a generic argument the name resolver does not know.
	ErrUnresolvedArgument = errors.New("type argument cannot be resolved")
	// ErrArgumentArity marks a generic argument entry with the wrong number of arguments.
	ErrArgumentArity = errors.New("type argument count does not match generic parameters")
	// ErrDuplicateVariant marks a generic argument that names an already emitted variant.
	ErrDuplicateVariant = errors.New("duplicate generic variant")
	// ErrDefinitionConflict marks two different schemas competing for one definition name.
	ErrDefinitionConflict = errors.New("definition name maps to different schemas")
	// ErrNoVariant marks a generic component none of whose arguments resolved.
	ErrNoVariant = errors.New("no type argument resolved")
)

// Document is the assembled schema of one component.
type Document struct {
	Component     *descriptor.ComponentDescriptor
	CanonicalName string
	// Definition is the key the document is stored under in a shard.
	Definition string
	Schema     *JSONSchemaDraft202012
	// Enums and Variants list the local definitions of Schema by role.
	Enums    []string
	Variants []string
}

// SkippedArgument records a generic argument that did not produce a variant.
type SkippedArgument struct {
	Argument string
	Err      error
}

func (s SkippedArgument) Error() string {
	return fmt.Sprintf("argument %q skipped: %v", s.Argument, s.Err)
}

func (s SkippedArgument) Unwrap() error {
	return s.Err
}

// Result is the outcome of assembling one component: a document or an error,
// plus the generic arguments that had to be skipped on the way.
type Result struct {
	Component string
	Document  *Document
	Skipped   []SkippedArgument
	Err       error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Document != nil
}

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ReportEntry is the outcome of one component as listed in a Report.
type ReportEntry struct {
	Component string   `json:"component"`
	Status    Status   `json:"status"`
	Reason    string   `json:"reason,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Report aggregates the outcome of a generation run. Failures of single
// components never abort the run, they are recorded here instead.
type Report struct {
	entries map[string]*ReportEntry
}

func NewReport() *Report {
	return &Report{entries: map[string]*ReportEntry{}}
}

// Record adds the outcome of one assembly.
func (r *Report) Record(res Result) {
	entry := &ReportEntry{Component: res.Component, Status: StatusSucceeded}
	if !res.OK() {
		entry.Status = StatusFailed
		if res.Err != nil {
			entry.Reason = res.Err.Error()
		}
	}
	for _, s := range res.Skipped {
		entry.Warnings = append(entry.Warnings, s.Error())
	}
	r.entries[res.Component] = entry
}

// Fail marks a component as failed, also when it was recorded as succeeded
// before. Later pipeline stages use it to reject already assembled documents.
func (r *Report) Fail(component string, err error) {
	entry, ok := r.entries[component]
	if !ok {
		entry = &ReportEntry{Component: component}
		r.entries[component] = entry
	}
	entry.Status = StatusFailed
	entry.Reason = err.Error()
}

// Entries returns all entries sorted by component.
func (r *Report) Entries() []ReportEntry {
	out := make([]ReportEntry, 0, len(r.entries))
	for _, key := range slices.Sorted(maps.Keys(r.entries)) {
		e := *r.entries[key]
		e.Warnings = slices.Clone(e.Warnings)
		out = append(out, e)
	}
	return out
}

// Failures returns the failed entries sorted by component.
func (r *Report) Failures() []ReportEntry {
	return slices.DeleteFunc(r.Entries(), func(e ReportEntry) bool {
		return e.Status != StatusFailed
	})
}

func (r *Report) Succeeded() int {
	return r.count(StatusSucceeded)
}

func (r *Report) Failed() int {
	return r.count(StatusFailed)
}

// Warnings counts all warnings, mostly skipped generic arguments.
func (r *Report) Warnings() int {
	n := 0
	for _, e := range r.entries {
		n += len(e.Warnings)
	}
	return n
}

func (r *Report) count(status Status) int {
	n := 0
	for _, e := range r.entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

func sortResults(results []Result) {
	slices.SortStableFunc(results, func(a, b Result) int {
		return cmp.Compare(a.Component, b.Component)
	})
}
