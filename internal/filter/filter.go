// Package filter drops generated events that do not satisfy a CEL
// expression.
//
// Expressions see:
//
//	kind       string  "person", "auction" or "bid"
//	timestamp  int     logical event time in ms
//	person     map     Person fields by JSON name (empty for other variants)
//	auction    map     Auction fields by JSON name
//	bid        map     Bid fields by JSON name
//
// Example: kind == "bid" && bid.price > 1000.0
package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/rzbill/nexmark/internal/event"
)

// Filter is a compiled expression. The zero Filter matches everything.
type Filter struct {
	prog    cel.Program
	enabled bool
	expr    string
}

// Compile parses and type-checks expr. An empty expression yields a
// disabled filter.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &Filter{}, nil
	}
	dynMap := cel.MapType(cel.StringType, cel.DynType)
	env, err := cel.NewEnv(
		cel.Variable("kind", cel.StringType),
		cel.Variable("timestamp", cel.IntType),
		cel.Variable("person", dynMap),
		cel.Variable("auction", dynMap),
		cel.Variable("bid", dynMap),
	)
	if err != nil {
		return nil, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("filter: compile %q: %w", expr, iss.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter: %q must evaluate to bool, got %s", expr, ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	return &Filter{prog: prog, enabled: true, expr: expr}, nil
}

// Enabled reports whether the filter has an expression.
func (f *Filter) Enabled() bool { return f != nil && f.enabled }

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Match evaluates the expression against ev. Evaluation errors and
// non-bool results count as false.
func (f *Filter) Match(ev event.Event) bool {
	if !f.Enabled() {
		return true
	}
	out, _, err := f.prog.Eval(activation(ev))
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// cancelCheckEvery bounds how many events Wrap rejects between context
// checks.
const cancelCheckEvery = 256

// Wrap returns a Source yielding only the events of src that match. A
// disabled filter returns src unchanged. The returned source ends once ctx
// is done, even while it is still rejecting events.
func (f *Filter) Wrap(ctx context.Context, src event.Source) event.Source {
	if !f.Enabled() {
		return src
	}
	return event.SourceFunc(func() (event.Event, bool) {
		for rejected := 0; ; rejected++ {
			if rejected%cancelCheckEvery == 0 && ctx.Err() != nil {
				return event.Event{}, false
			}
			ev, ok := src.Next()
			if !ok {
				return event.Event{}, false
			}
			if f.Match(ev) {
				return ev, true
			}
		}
	})
}

var empty = map[string]any{}

func activation(ev event.Event) map[string]any {
	vars := map[string]any{
		"kind":      ev.Type().String(),
		"timestamp": int64(ev.Timestamp()),
		"person":    empty,
		"auction":   empty,
		"bid":       empty,
	}
	if p, ok := ev.Person(); ok {
		vars["person"] = map[string]any{
			"id":            int64(p.ID),
			"name":          p.Name,
			"email_address": p.EmailAddress,
			"credit_card":   p.CreditCard,
			"city":          p.City,
			"state":         p.State,
			"date_time":     int64(p.DateTime),
			"extra":         p.Extra,
		}
	}
	if a, ok := ev.Auction(); ok {
		vars["auction"] = map[string]any{
			"id":           int64(a.ID),
			"item_name":    a.ItemName,
			"description":  a.Description,
			"initial_bid":  int64(a.InitialBid),
			"reserve":      int64(a.Reserve),
			"date_time":    int64(a.DateTime),
			"expires":      int64(a.Expires),
			"seller":       int64(a.Seller),
			"category":     int64(a.Category),
			"extra":        a.Extra,
		}
	}
	if b, ok := ev.Bid(); ok {
		vars["bid"] = map[string]any{
			"auction":   int64(b.Auction),
			"bidder":    int64(b.Bidder),
			"price":     b.Price,
			"channel":   b.Channel,
			"url":       b.URL,
			"date_time": int64(b.DateTime),
			"timestamp": b.Timestamp,
			"extra":     b.Extra,
		}
	}
	return vars
}
