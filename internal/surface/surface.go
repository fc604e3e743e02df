// Package surface describes the MerelFormation endpoints probed by the smoke
// test as an embedded OpenAPI 3 document and resolves concrete request paths
// against it.
package surface

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"pkt.systems/pslog"
)

//go:embed openapi.yaml
var document []byte

// Operation is one documented method + path template.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
	Tags    []string
	// Public is true when the operation overrides the global bearer requirement
	// with an empty security list (e.g. the login endpoint).
	Public bool
}

// Surface indexes the documented operations.
type Surface struct {
	doc *openapi3.T
	ops []Operation
}

// Load parses the embedded document. Validation problems are logged, not
// returned.
func Load(ctx context.Context, log pslog.Base) (*Surface, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load surface: %w", err)
	}
	if verr := doc.Validate(ctx); verr != nil && log != nil {
		log.Warn("surface.validate.warn", "err", verr)
	}

	s := &Surface{doc: doc}
	for route, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			s.ops = append(s.ops, Operation{
				ID:      op.OperationID,
				Method:  strings.ToUpper(method),
				Path:    route,
				Summary: op.Summary,
				Tags:    op.Tags,
				Public:  op.Security != nil && len(*op.Security) == 0,
			})
		}
	}
	sort.Slice(s.ops, func(i, j int) bool {
		if s.ops[i].Path == s.ops[j].Path {
			return s.ops[i].Method < s.ops[j].Method
		}
		return s.ops[i].Path < s.ops[j].Path
	})
	if log != nil {
		log.Debug("surface.loaded", "title", s.Title(), "paths", len(doc.Paths.Map()), "operations", len(s.ops))
	}
	return s, nil
}

// Title returns the document title.
func (s *Surface) Title() string {
	if s == nil || s.doc == nil || s.doc.Info == nil {
		return ""
	}
	return s.doc.Info.Title
}

// Operations lists every documented operation sorted by path, then method.
func (s *Surface) Operations() []Operation {
	out := make([]Operation, len(s.ops))
	copy(out, s.ops)
	return out
}

// Lookup resolves a concrete endpoint such as /admin/formations/1 to its
// documented operation. Literal segments win over {param} segments.
func (s *Surface) Lookup(method, endpoint string) (Operation, bool) {
	if s == nil {
		return Operation{}, false
	}
	if i := strings.IndexAny(endpoint, "?#"); i >= 0 {
		endpoint = endpoint[:i]
	}
	segs := splitPath(endpoint)
	best, bestScore := Operation{}, -1
	for _, op := range s.ops {
		if op.Method != method {
			continue
		}
		score, ok := matchTemplate(splitPath(op.Path), segs)
		if ok && score > bestScore {
			best, bestScore = op, score
		}
	}
	return best, bestScore >= 0
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// matchTemplate reports whether segs fits tmpl and how many literal segments
// matched.
func matchTemplate(tmpl, segs []string) (int, bool) {
	if len(tmpl) != len(segs) {
		return 0, false
	}
	literal := 0
	for i, t := range tmpl {
		if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") {
			if segs[i] == "" {
				return 0, false
			}
			continue
		}
		if t != segs[i] {
			return 0, false
		}
		literal++
	}
	return literal, true
}
