package recordings

import (
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/rzbill/replay/internal/snapshot"
)

// celFilter wraps a compiled CEL program evaluated against recovered events.
// When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("type", cel.IntType),
		cel.Variable("timestamp", cel.IntType),
		cel.Variable("session_id", cel.StringType),
		cel.Variable("distinct_id", cel.StringType),
		// Expose the opaque payload tree for field filtering
		cel.Variable("data", cel.DynType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against one event. When disabled,
// returns true. Evaluation errors drop the event rather than the page.
func (f celFilter) Eval(e snapshot.Event) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]interface{}{
		"type":        int64(e.Type()),
		"timestamp":   e.Timestamp,
		"session_id":  e.SessionID,
		"distinct_id": e.DistinctID,
		"data":        e.Data,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
