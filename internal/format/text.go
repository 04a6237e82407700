package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rzbill/nexmark/internal/event"
)

// lineEncoder writes one record per event and flushes the sink after each.
type lineEncoder struct {
	sink   Sink
	out    *countingWriter
	write  func(ev event.Event) error
	events uint64
}

func (e *lineEncoder) Encode(ev event.Event) error {
	if err := e.write(ev); err != nil {
		return err
	}
	if err := e.sink.Flush(); err != nil {
		return fmt.Errorf("format: flush sink: %w", err)
	}
	e.events++
	return nil
}

func (e *lineEncoder) Close() error { return e.sink.Flush() }

func (e *lineEncoder) Stats() Stats {
	return Stats{Events: e.events, Frames: e.events, Bytes: e.out.n}
}

func newJSONEncoder(sink Sink) *lineEncoder {
	e := &lineEncoder{sink: sink, out: &countingWriter{w: sink}}
	enc := json.NewEncoder(e.out)
	e.write = func(ev event.Event) error {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("format: json: %w", err)
		}
		return nil
	}
	return e
}

func newDebugEncoder(sink Sink) *lineEncoder {
	e := &lineEncoder{sink: sink, out: &countingWriter{w: sink}}
	e.write = func(ev event.Event) error {
		_, err := fmt.Fprintf(e.out, "%+v\n", ev)
		return err
	}
	return e
}

func newCSVEncoder(sink Sink) *lineEncoder {
	e := &lineEncoder{sink: sink, out: &countingWriter{w: sink}}
	w := csv.NewWriter(e.out)
	e.write = func(ev event.Event) error {
		if err := w.Write(Row(ev)); err != nil {
			return fmt.Errorf("format: csv: %w", err)
		}
		w.Flush()
		return w.Error()
	}
	return e
}

// Row renders ev as a CSV row: the variant name followed by its fields in
// declaration order.
func Row(ev event.Event) []string {
	u := func(v uint64) string { return strconv.FormatUint(v, 10) }
	if p, ok := ev.Person(); ok {
		return []string{"person", u(p.ID), p.Name, p.EmailAddress, p.CreditCard, p.City, p.State, u(p.DateTime), p.Extra}
	}
	if a, ok := ev.Auction(); ok {
		return []string{"auction", u(a.ID), a.ItemName, a.Description, u(a.InitialBid), u(a.Reserve),
			u(a.DateTime), u(a.Expires), u(a.Seller), u(a.Category), a.Extra}
	}
	if b, ok := ev.Bid(); ok {
		return []string{"bid", u(uint64(b.Auction)), u(uint64(b.Bidder)), strconv.FormatFloat(b.Price, 'f', -1, 64),
			b.Channel, b.URL, u(b.DateTime), strconv.FormatInt(b.Timestamp, 10), b.Extra}
	}
	return nil
}
