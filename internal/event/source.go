package event

// Source is a lazy, in-order sequence of events. Next returns false once the
// sequence is exhausted; an unbounded source never does.
type Source interface {
	Next() (Event, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (Event, bool)

func (f SourceFunc) Next() (Event, bool) { return f() }

// Limit returns a Source yielding at most n events from src. n < 0 means
// unbounded.
func Limit(src Source, n int64) Source {
	if n < 0 {
		return src
	}
	remaining := n
	return SourceFunc(func() (Event, bool) {
		if remaining <= 0 {
			return Event{}, false
		}
		ev, ok := src.Next()
		if !ok {
			remaining = 0
			return Event{}, false
		}
		remaining--
		return ev, true
	})
}

// Slice returns a finite Source over events.
func Slice(events ...Event) Source {
	i := 0
	return SourceFunc(func() (Event, bool) {
		if i >= len(events) {
			return Event{}, false
		}
		ev := events[i]
		i++
		return ev, true
	})
}
