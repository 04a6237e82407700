// Package generator produces a deterministic Nexmark event stream.
//
// Event number n selects the variant by proportion (person:auction:bid, 1:3:46
// by default) and a logical timestamp of base_time + n*1000/rate ms. All
// per-event randomness is seeded from n, so a given offset always yields the
// same events.
//
//	g := generator.New(generator.DefaultConfig()).
//	    WithOffset(1000).
//	    WithStep(2).
//	    WithTypeFilter(event.TypeBid)
//	ev, _ := g.Next()
package generator
