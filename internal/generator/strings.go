package generator

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

var (
	firstNames = []string{"Peter", "Paul", "Luke", "John", "Saul", "Vicky", "Kate", "Julie", "Sarah", "Deiter", "Walter"}
	lastNames  = []string{"Shultz", "Abrams", "Spencer", "White", "Bartels", "Walton", "Smith", "Jones", "Noris"}
	cities     = []string{"Phoenix", "Los Angeles", "San Francisco", "Boise", "Portland", "Bend", "Redmond", "Seattle", "Kent", "Cheyenne"}
	states     = []string{"AZ", "CA", "ID", "OR", "WA", "WY"}
	channels   = []string{"Google", "Facebook", "Baidu", "Apple"}
)

const letters = "abcdefghijklmnopqrstuvwxyz"

func randomString(rng *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(letters[rng.IntN(len(letters))])
	}
	return b.String()
}

func creditCard(rng *rand.Rand) string {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(1000 + rng.IntN(9000)))
	}
	return b.String()
}

// nextPrice follows the Nexmark distribution round(10^(U*6) * 100).
func nextPrice(rng *rand.Rand) float64 {
	return math.Round(math.Pow(10, rng.Float64()*6) * 100)
}

func channelURL(ch int, rng *rand.Rand) string {
	u := "https://www.nexmark.com/" + randomString(rng, 5) + "/item.htm?query=1"
	if rng.IntN(2) == 0 {
		u += "&channel_id=" + strconv.Itoa(ch)
	}
	return u
}

// extra pads an event towards the desired average size.
func extra(rng *rand.Rand, current, desired int) string {
	if current >= desired {
		return ""
	}
	delta := desired - current
	lo := delta * 4 / 5
	return randomString(rng, lo+rng.IntN(delta*2/5+1))
}
