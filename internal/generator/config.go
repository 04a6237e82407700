package generator

// Config controls the shape of the generated stream.
type Config struct {
	// FirstEventRate is the number of events per second of logical time.
	FirstEventRate uint64 `json:"firstEventRate" yaml:"firstEventRate"`

	PersonProportion  uint64 `json:"personProportion" yaml:"personProportion"`
	AuctionProportion uint64 `json:"auctionProportion" yaml:"auctionProportion"`
	BidProportion     uint64 `json:"bidProportion" yaml:"bidProportion"`

	// Hot ratios: 1 in N bids/auctions go to a non-hot target.
	HotAuctionRatio uint64 `json:"hotAuctionRatio" yaml:"hotAuctionRatio"`
	HotSellerRatio  uint64 `json:"hotSellerRatio" yaml:"hotSellerRatio"`
	HotBidderRatio  uint64 `json:"hotBidderRatio" yaml:"hotBidderRatio"`

	NumActivePeople     uint64 `json:"numActivePeople" yaml:"numActivePeople"`
	NumInFlightAuctions uint64 `json:"numInFlightAuctions" yaml:"numInFlightAuctions"`

	AvgPersonByteSize  int `json:"avgPersonByteSize" yaml:"avgPersonByteSize"`
	AvgAuctionByteSize int `json:"avgAuctionByteSize" yaml:"avgAuctionByteSize"`
	AvgBidByteSize     int `json:"avgBidByteSize" yaml:"avgBidByteSize"`

	// BaseTime is the logical timestamp (ms) of event 0. Zero means the
	// wall-clock time at generator construction.
	BaseTime uint64 `json:"baseTime" yaml:"baseTime"`
}

// DefaultConfig returns the standard Nexmark parameters.
func DefaultConfig() Config {
	return Config{
		FirstEventRate:      10_000,
		PersonProportion:    1,
		AuctionProportion:   3,
		BidProportion:       46,
		HotAuctionRatio:     2,
		HotSellerRatio:      4,
		HotBidderRatio:      4,
		NumActivePeople:     1000,
		NumInFlightAuctions: 100,
		AvgPersonByteSize:   200,
		AvgAuctionByteSize:  500,
		AvgBidByteSize:      100,
	}
}

func (c Config) totalProportion() uint64 {
	return c.PersonProportion + c.AuctionProportion + c.BidProportion
}

// normalized fills zero fields from the defaults.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.FirstEventRate == 0 {
		c.FirstEventRate = d.FirstEventRate
	}
	if c.totalProportion() == 0 {
		c.PersonProportion, c.AuctionProportion, c.BidProportion = d.PersonProportion, d.AuctionProportion, d.BidProportion
	}
	if c.HotAuctionRatio == 0 {
		c.HotAuctionRatio = d.HotAuctionRatio
	}
	if c.HotSellerRatio == 0 {
		c.HotSellerRatio = d.HotSellerRatio
	}
	if c.HotBidderRatio == 0 {
		c.HotBidderRatio = d.HotBidderRatio
	}
	if c.NumActivePeople == 0 {
		c.NumActivePeople = d.NumActivePeople
	}
	if c.NumInFlightAuctions == 0 {
		c.NumInFlightAuctions = d.NumInFlightAuctions
	}
	return c
}
