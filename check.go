package folio

import (
	"context"
	"errors"
	"fmt"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/diamond"
	"github.com/eringen/folio/doodle"
)

// Severity grades a Finding.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "ok"
}

// Finding is one result of CheckContent.
type Finding struct {
	Severity Severity
	Subject  string // position id, project slug or file
	Message  string
}

// CheckContent loads everything the site serves and reports what would
// fail at request time. It only returns an error when positions.json
// itself cannot be read.
func CheckContent(ctx context.Context, repo *content.Repository, catalog *doodle.Catalog) ([]Finding, error) {
	positions, err := repo.Positions(ctx)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}

	var out []Finding
	add := func(s Severity, subject, format string, args ...any) {
		out = append(out, Finding{Severity: s, Subject: subject, Message: fmt.Sprintf(format, args...)})
	}

	known := make(map[string]bool, len(positions))
	seen := make(map[string]bool)
	for _, p := range positions {
		known[p.ID] = true
		if _, ok := catalog.CategoryFor(p.ID); !ok {
			add(SeverityWarning, p.ID, "no doodle category, every doodle is shown")
		}
		if len(p.Projects) == 0 {
			add(SeverityOK, p.ID, "position without projects")
		}
		for _, pr := range p.Projects {
			if seen[pr.ID] {
				add(SeverityWarning, pr.ID, "listed under more than one position")
				continue
			}
			seen[pr.ID] = true
			out = append(out, checkProject(ctx, repo, pr.ID)...)
		}
	}

	for _, id := range catalog.Positions() {
		if !known[id] {
			add(SeverityWarning, id, "doodle category mapped to an unknown position")
		}
	}
	for _, cat := range catalog.Categories() {
		for _, ref := range catalog.Select(cat) {
			if _, err := repo.File(ctx, ref); err != nil {
				add(SeverityError, ref, "doodle image in %q: %v", cat, err)
			}
		}
	}
	return out, nil
}

func checkProject(ctx context.Context, repo *content.Repository, slug string) []Finding {
	fail := func(err error) []Finding {
		return []Finding{{Severity: SeverityError, Subject: slug, Message: err.Error()}}
	}
	meta, err := repo.Meta(ctx, slug)
	if err != nil {
		return fail(err)
	}
	doc, err := repo.Document(ctx, slug)
	if err != nil {
		return fail(err)
	}
	if !meta.IsDouble() {
		return []Finding{{Severity: SeverityOK, Subject: slug, Message: "single project"}}
	}

	split := diamond.Split(doc)
	if !split.Found {
		return []Finding{{Severity: SeverityWarning, Subject: slug, Message: "double diamond project without a start marker"}}
	}
	if _, err := diamond.Assemble(split, diamond.Catalog(), meta.Illustrations); errors.Is(err, diamond.ErrPhaseMismatch) {
		return []Finding{{Severity: SeverityWarning, Subject: slug, Message: err.Error()}}
	}
	return []Finding{{Severity: SeverityOK, Subject: slug, Message: fmt.Sprintf("%d phases", diamond.PhaseCount())}}
}
