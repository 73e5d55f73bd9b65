package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lucas-Ker/olist-data-analysis-project/internal/features"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one validation finding. Path is a dotted path into the analysis
// (e.g. "sources[1].join_on", "features[0].kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateAnalysis performs static checks over a decoded Analysis. It does
// not touch the filesystem or any database.
func ValidateAnalysis(a Analysis) []Issue {
	var issues []Issue

	if strings.TrimSpace(a.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels metrics and log lines",
		})
	}
	if strings.TrimSpace(a.Dataset) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dataset",
			Message:  "dataset must not be empty; it names the processed output file",
		})
	} else if strings.ContainsAny(a.Dataset, `/\`) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dataset",
			Message:  fmt.Sprintf("dataset %q must be a bare name, not a path", a.Dataset),
		})
	}
	issues = append(issues, validateSources(a.Sources)...)
	issues = append(issues, validateClean(a.Clean)...)
	issues = append(issues, validateFeatures(a.Features)...)
	issues = append(issues, validateStorage(a.Storage)...)
	issues = append(issues, validateLogging(a.Logging)...)

	return issues
}

func validateSources(ss []Source) []Issue {
	var issues []Issue

	if len(ss) == 0 {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "sources",
			Message:  "at least one source file is required",
		})
	}

	seen := map[string]int{}
	for i, s := range ss {
		path := fmt.Sprintf("sources[%d]", i)
		if strings.TrimSpace(s.File) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".file",
				Message:  "source file must not be empty",
			})
			continue
		}
		if j, dup := seen[s.File]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".file",
				Message:  fmt.Sprintf("file %q is already loaded by sources[%d]", s.File, j),
			})
		}
		seen[s.File] = i

		switch {
		case i == 0 && s.JoinOn != "":
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".join_on",
				Message:  "join_on is ignored on the first source",
			})
		case i > 0 && strings.TrimSpace(s.JoinOn) == "":
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".join_on",
				Message:  "every source after the first needs a join_on key",
			})
		}
		if s.Comma != "" && len([]rune(s.Comma)) != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".comma",
				Message:  fmt.Sprintf("comma %q must be a single character", s.Comma),
			})
		}
	}
	return issues
}

func validateClean(c Clean) []Issue {
	var issues []Issue
	if c.Location != "" {
		if _, err := time.LoadLocation(c.Location); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "clean.location",
				Message:  fmt.Sprintf("unknown time zone %q: %v", c.Location, err),
			})
		}
	}
	for i, l := range c.Layouts {
		if strings.TrimSpace(l) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("clean.layouts[%d]", i),
				Message:  "empty layout is ignored",
			})
		}
	}
	return issues
}

func validateFeatures(fs []Feature) []Issue {
	var issues []Issue

	if len(fs) == 0 {
		return append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "features",
			Message:  "no features configured; the cleaned table will be saved as-is",
		})
	}

	outputs := map[string]int{}
	for i, f := range fs {
		path := fmt.Sprintf("features[%d]", i)
		if strings.TrimSpace(f.Kind) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".kind",
				Message:  "feature kind must not be empty",
			})
			continue
		}
		d, err := features.Build(f.Kind, f.Options)
		if err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".kind",
				Message:  fmt.Sprintf("unknown feature kind %q; known kinds: %s", f.Kind, strings.Join(features.Kinds(), ", ")),
			})
			continue
		}
		if f.Kind == features.LegacyShippingDelay {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path + ".kind",
				Message:  fmt.Sprintf("%q is a legacy alias of %q", f.Kind, features.DelayVsEstimateDays),
			})
		}
		if j, dup := outputs[d.Name()]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     path,
				Message:  fmt.Sprintf("output %q overwrites the column written by features[%d]", d.Name(), j),
			})
		}
		outputs[d.Name()] = i
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}

	known := map[string]struct{}{
		"postgres": {},
		"mssql":    {},
		"mysql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	db := s.DB
	if strings.TrimSpace(db.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(db.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}
	if db.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	return issues
}

func validateLogging(l Logging) []Issue {
	var issues []Issue
	switch strings.ToLower(l.Format) {
	case "", "console", "json":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "logging.format",
			Message:  fmt.Sprintf("unknown log format %q; console is used", l.Format),
		})
	}
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "logging.level",
			Message:  fmt.Sprintf("unknown log level %q", l.Level),
		})
	}
	return issues
}
