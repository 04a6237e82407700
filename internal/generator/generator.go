package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rzbill/nexmark/internal/event"
)

const (
	firstPersonID  = 1000
	firstAuctionID = 1000
	firstCategory  = 10
	numCategories  = 5
	personIDLead   = 10
	auctionIDLead  = 10
)

// ErrNoMatchingEvents is reported when the type filter and step together
// exclude every event.
var ErrNoMatchingEvents = errors.New("generator: type filter matches no events")

// Generator is an unbounded event.Source. It is not safe for concurrent use.
type Generator struct {
	cfg    Config
	base   uint64
	next   uint64
	step   uint64
	filter event.Type
	now    func() time.Time
	err    error
}

// New returns a generator starting at event number 0 with step 1.
func New(cfg Config) *Generator {
	return newWithClock(cfg, time.Now)
}

func newWithClock(cfg Config, now func() time.Time) *Generator {
	cfg = cfg.normalized()
	base := cfg.BaseTime
	if base == 0 {
		base = uint64(now().UnixMilli())
	}
	return &Generator{cfg: cfg, base: base, step: 1, now: now}
}

// WithOffset sets the number of the first event to produce.
func (g *Generator) WithOffset(n uint64) *Generator {
	g.next = n
	return g
}

// WithStep advances the event number by step per produced event. Zero is
// treated as 1.
func (g *Generator) WithStep(step uint64) *Generator {
	if step == 0 {
		step = 1
	}
	g.step = step
	return g
}

// WithTypeFilter restricts output to events of type t. Zero clears it.
func (g *Generator) WithTypeFilter(t event.Type) *Generator {
	g.filter = t
	return g
}

// Timestamp reports the logical timestamp of the next event Next will return.
// It is zero when Err is set.
func (g *Generator) Timestamp() uint64 {
	if !g.skip() {
		return 0
	}
	return g.timestampOf(g.next)
}

// Next produces the next event. It reports exhaustion only when the type
// filter can never match at the configured step; Err then says why.
func (g *Generator) Next() (event.Event, bool) {
	if !g.skip() {
		return event.Event{}, false
	}
	n := g.next
	g.next += g.step
	return g.eventAt(n), true
}

// Err returns the reason the generator stopped, if any.
func (g *Generator) Err() error { return g.err }

// skip advances past event numbers rejected by the type filter. The kinds
// visited repeat within totalProportion steps, so a longer search means no
// event number reachable from here matches.
func (g *Generator) skip() bool {
	if g.err != nil {
		return false
	}
	if g.filter == 0 {
		return true
	}
	for i := uint64(0); g.kindOf(g.next) != g.filter; i++ {
		if i > g.cfg.totalProportion() {
			g.err = fmt.Errorf("%w: %s events never occur at step %d", ErrNoMatchingEvents, g.filter, g.step)
			return false
		}
		g.next += g.step
	}
	return true
}

func (g *Generator) kindOf(n uint64) event.Type {
	rem := n % g.cfg.totalProportion()
	switch {
	case rem < g.cfg.PersonProportion:
		return event.TypePerson
	case rem < g.cfg.PersonProportion+g.cfg.AuctionProportion:
		return event.TypeAuction
	default:
		return event.TypeBid
	}
}

func (g *Generator) timestampOf(n uint64) uint64 {
	return g.base + n*1000/g.cfg.FirstEventRate
}

func (g *Generator) eventAt(n uint64) event.Event {
	ts := g.timestampOf(n)
	rng := rand.New(rand.NewPCG(n, 0x9e3779b97f4a7c15))
	switch g.kindOf(n) {
	case event.TypePerson:
		return event.NewPerson(g.person(n, ts, rng), ts)
	case event.TypeAuction:
		return event.NewAuction(g.auction(n, ts, rng), ts)
	default:
		return event.NewBid(g.bid(n, ts, rng), ts)
	}
}

func (g *Generator) person(n, ts uint64, rng *rand.Rand) event.Person {
	id := g.lastBase0PersonID(n) + firstPersonID
	name := firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))]
	p := event.Person{
		ID:           id,
		Name:         name,
		EmailAddress: randomString(rng, 7) + "@" + randomString(rng, 5) + ".com",
		CreditCard:   creditCard(rng),
		City:         cities[rng.IntN(len(cities))],
		State:        states[rng.IntN(len(states))],
		DateTime:     ts,
	}
	size := 8 + len(p.Name) + len(p.EmailAddress) + len(p.CreditCard) + len(p.City) + len(p.State)
	p.Extra = extra(rng, size, g.cfg.AvgPersonByteSize)
	return p
}

func (g *Generator) auction(n, ts uint64, rng *rand.Rand) event.Auction {
	var seller uint64
	if rng.Uint64N(g.cfg.HotSellerRatio) > 0 {
		seller = (g.lastBase0PersonID(n) / g.cfg.HotSellerRatio) * g.cfg.HotSellerRatio
	} else {
		seller = g.nextBase0PersonID(n, rng)
	}
	initial := nextPrice(rng)
	a := event.Auction{
		ID:          g.lastBase0AuctionID(n) + firstAuctionID,
		ItemName:    randomString(rng, 20),
		Description: randomString(rng, 100),
		InitialBid:  uint64(initial),
		Reserve:     uint64(initial + nextPrice(rng)),
		DateTime:    ts,
		Expires:     ts + g.nextAuctionLengthMs(rng),
		Seller:      seller + firstPersonID,
		Category:    firstCategory + rng.Uint64N(numCategories),
	}
	size := 8 + len(a.ItemName) + len(a.Description) + 8 + 8 + 8 + 8 + 8
	a.Extra = extra(rng, size, g.cfg.AvgAuctionByteSize)
	return a
}

func (g *Generator) bid(n, ts uint64, rng *rand.Rand) event.Bid {
	var auction, bidder uint64
	if rng.Uint64N(g.cfg.HotAuctionRatio) > 0 {
		auction = (g.lastBase0AuctionID(n) / g.cfg.HotAuctionRatio) * g.cfg.HotAuctionRatio
	} else {
		auction = g.nextBase0AuctionID(n, rng)
	}
	if rng.Uint64N(g.cfg.HotBidderRatio) > 0 {
		bidder = (g.lastBase0PersonID(n)/g.cfg.HotBidderRatio)*g.cfg.HotBidderRatio + 1
	} else {
		bidder = g.nextBase0PersonID(n, rng)
	}
	ch := rng.IntN(len(channels))
	b := event.Bid{
		Auction:   uint32(auction + firstAuctionID),
		Bidder:    uint32(bidder + firstPersonID),
		Price:     nextPrice(rng),
		Channel:   channels[ch],
		URL:       channelURL(ch, rng),
		DateTime:  uint64(g.now().UnixMilli()),
		Timestamp: int64(ts),
	}
	b.Extra = extra(rng, 8+8+8+len(b.Channel)+len(b.URL)+8, g.cfg.AvgBidByteSize)
	return b
}

// lastBase0PersonID is the id of the most recent person at or before event n.
func (g *Generator) lastBase0PersonID(n uint64) uint64 {
	total := g.cfg.totalProportion()
	epoch, offset := n/total, n%total
	if g.cfg.PersonProportion == 0 {
		return 0
	}
	if offset >= g.cfg.PersonProportion {
		offset = g.cfg.PersonProportion - 1
	}
	return epoch*g.cfg.PersonProportion + offset
}

// lastBase0AuctionID is the id of the most recent auction at or before event n.
func (g *Generator) lastBase0AuctionID(n uint64) uint64 {
	total := g.cfg.totalProportion()
	epoch, offset := n/total, n%total
	if g.cfg.AuctionProportion == 0 {
		return 0
	}
	switch {
	case offset < g.cfg.PersonProportion:
		if epoch == 0 {
			return 0
		}
		epoch--
		offset = g.cfg.AuctionProportion - 1
	case offset >= g.cfg.PersonProportion+g.cfg.AuctionProportion:
		offset = g.cfg.AuctionProportion - 1
	default:
		offset -= g.cfg.PersonProportion
	}
	return epoch*g.cfg.AuctionProportion + offset
}

func (g *Generator) nextBase0PersonID(n uint64, rng *rand.Rand) uint64 {
	numPeople := g.lastBase0PersonID(n) + 1
	active := min(numPeople, g.cfg.NumActivePeople)
	return numPeople - active + rng.Uint64N(active+personIDLead)
}

func (g *Generator) nextBase0AuctionID(n uint64, rng *rand.Rand) uint64 {
	maxAuction := g.lastBase0AuctionID(n)
	minAuction := uint64(0)
	if maxAuction > g.cfg.NumInFlightAuctions {
		minAuction = maxAuction - g.cfg.NumInFlightAuctions
	}
	return minAuction + rng.Uint64N(maxAuction-minAuction+1+auctionIDLead)
}

// nextAuctionLengthMs spreads expiries so that roughly NumInFlightAuctions
// auctions are open at any time.
func (g *Generator) nextAuctionLengthMs(rng *rand.Rand) uint64 {
	if g.cfg.AuctionProportion == 0 {
		return 1
	}
	eventsPerAuction := g.cfg.totalProportion() / g.cfg.AuctionProportion
	avg := g.cfg.NumInFlightAuctions * eventsPerAuction * 1000 / g.cfg.FirstEventRate
	return 1 + rng.Uint64N(2*avg+1)
}
