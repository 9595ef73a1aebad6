package strategy

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/tagscan/internal/logging"
)

// LanguageAll requests every registered strategy.
const LanguageAll = "all"

// Registry is the ordered set of registered strategies. It is built
// once at startup and never mutated afterwards; registration order
// decides which strategy gets first claim on a file during a scan.
type Registry struct {
	strategies []Strategy
	log        logging.Logger
}

// NewRegistry builds the default registry: the tree-sitter strategy for
// TypeScript/JavaScript first, the line-stack strategy for Fortran
// second.
func NewRegistry(log logging.Logger) *Registry {
	return &Registry{
		strategies: []Strategy{
			NewAstStrategy(),
			NewStackStrategy(),
		},
		log: log,
	}
}

// Resolve maps the requested language identifiers to strategies. An
// empty request or "all" yields every registered strategy in
// registration order; an explicit list yields strategies in the
// requested order, dropping unknown identifiers with a warning. An
// empty resolution is an error: the caller has nothing to scan with.
func (r *Registry) Resolve(requested []string) ([]Strategy, error) {
	if len(requested) == 0 {
		return r.all()
	}

	byLanguage := make(map[string]Strategy, len(r.strategies))
	for _, s := range r.strategies {
		byLanguage[s.Language()] = s
	}

	var resolved []Strategy
	for _, lang := range requested {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == LanguageAll {
			return r.all()
		}
		s, ok := byLanguage[lang]
		if !ok {
			r.log.Warn("unknown language %q requested, skipping", lang)
			continue
		}
		resolved = append(resolved, s)
	}

	if len(resolved) == 0 {
		return nil, fmt.Errorf("no strategy matches requested languages %v", requested)
	}
	return resolved, nil
}

func (r *Registry) all() ([]Strategy, error) {
	if len(r.strategies) == 0 {
		return nil, fmt.Errorf("strategy registry is empty")
	}
	return append([]Strategy(nil), r.strategies...), nil
}

// Extensions unions the extensions declared by the given strategies,
// lower-cased.
func Extensions(strategies []Strategy) map[string]struct{} {
	exts := make(map[string]struct{})
	for _, s := range strategies {
		for _, ext := range s.Extensions() {
			exts[strings.ToLower(ext)] = struct{}{}
		}
	}
	return exts
}
