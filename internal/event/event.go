package event

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type identifies an Event variant.
type Type uint8

const (
	TypePerson Type = iota + 1
	TypeAuction
	TypeBid
)

func (t Type) String() string {
	switch t {
	case TypePerson:
		return "person"
	case TypeAuction:
		return "auction"
	case TypeBid:
		return "bid"
	default:
		return "unknown"
	}
}

// ParseType accepts person|auction|bid, case-insensitive.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "person":
		return TypePerson, nil
	case "auction":
		return TypeAuction, nil
	case "bid":
		return TypeBid, nil
	default:
		return 0, fmt.Errorf("unknown event type %q", s)
	}
}

// Person is a new user registering with the auction site.
type Person struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	EmailAddress string `json:"email_address"`
	CreditCard   string `json:"credit_card"`
	City         string `json:"city"`
	State        string `json:"state"`
	DateTime     uint64 `json:"date_time"`
	Extra        string `json:"extra"`
}

// Auction is a new item put up for sale.
type Auction struct {
	ID          uint64 `json:"id"`
	ItemName    string `json:"item_name"`
	Description string `json:"description"`
	InitialBid  uint64 `json:"initial_bid"`
	Reserve     uint64 `json:"reserve"`
	DateTime    uint64 `json:"date_time"`
	Expires     uint64 `json:"expires"`
	Seller      uint64 `json:"seller"`
	Category    uint64 `json:"category"`
	Extra       string `json:"extra"`
}

// Bid is a bid placed on an open auction. DateTime is the wall-clock time
// the bid was materialized; Timestamp is its logical event time.
type Bid struct {
	Auction   uint32  `json:"auction"`
	Bidder    uint32  `json:"bidder"`
	Price     float64 `json:"price"`
	Channel   string  `json:"channel"`
	URL       string  `json:"url"`
	DateTime  uint64  `json:"date_time"`
	Timestamp int64   `json:"timestamp"`
	Extra     string  `json:"extra"`
}

// Event is one of Person, Auction or Bid. The zero Event has no variant.
// Variants are fixed at construction; accessors return copies.
type Event struct {
	kind      Type
	timestamp uint64
	person    *Person
	auction   *Auction
	bid       *Bid
}

// NewPerson wraps p with logical timestamp ts (ms).
func NewPerson(p Person, ts uint64) Event {
	return Event{kind: TypePerson, timestamp: ts, person: &p}
}

// NewAuction wraps a with logical timestamp ts (ms).
func NewAuction(a Auction, ts uint64) Event {
	return Event{kind: TypeAuction, timestamp: ts, auction: &a}
}

// NewBid wraps b with logical timestamp ts (ms).
func NewBid(b Bid, ts uint64) Event {
	return Event{kind: TypeBid, timestamp: ts, bid: &b}
}

func (e Event) Type() Type { return e.kind }

// Timestamp returns the logical event time in milliseconds.
func (e Event) Timestamp() uint64 { return e.timestamp }

func (e Event) Person() (Person, bool) {
	if e.person == nil {
		return Person{}, false
	}
	return *e.person, true
}

func (e Event) Auction() (Auction, bool) {
	if e.auction == nil {
		return Auction{}, false
	}
	return *e.auction, true
}

func (e Event) Bid() (Bid, bool) {
	if e.bid == nil {
		return Bid{}, false
	}
	return *e.bid, true
}

// Value returns the variant payload as an interface value.
func (e Event) Value() any {
	switch e.kind {
	case TypePerson:
		return *e.person
	case TypeAuction:
		return *e.auction
	case TypeBid:
		return *e.bid
	default:
		return nil
	}
}

// MarshalJSON encodes the event externally tagged, e.g. {"Bid":{...}}.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case TypePerson:
		return json.Marshal(struct {
			Person *Person `json:"Person"`
		}{e.person})
	case TypeAuction:
		return json.Marshal(struct {
			Auction *Auction `json:"Auction"`
		}{e.auction})
	case TypeBid:
		return json.Marshal(struct {
			Bid *Bid `json:"Bid"`
		}{e.bid})
	default:
		return nil, fmt.Errorf("event: marshal of empty event")
	}
}

// String renders the variant payload in Go debug form.
func (e Event) String() string {
	switch e.kind {
	case TypePerson:
		return fmt.Sprintf("Person%+v", *e.person)
	case TypeAuction:
		return fmt.Sprintf("Auction%+v", *e.auction)
	case TypeBid:
		return fmt.Sprintf("Bid%+v", *e.bid)
	default:
		return "Event{}"
	}
}
