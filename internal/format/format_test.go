package format

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rzbill/nexmark/internal/binfmt"
	"github.com/rzbill/nexmark/internal/event"
)

type bufSink struct {
	bytes.Buffer
	flushes int
}

func (s *bufSink) Flush() error { s.flushes++; return nil }

func bid(ts uint64, price float64) event.Event {
	return event.NewBid(event.Bid{Auction: 1000, Bidder: 1001, Price: price, Channel: "Google", DateTime: 42, Timestamp: int64(ts)}, ts)
}

func TestParse(t *testing.T) {
	f, err := Parse(" Binary ")
	require.NoError(t, err)
	require.Equal(t, Binary, f)
	f, err = Parse("rust")
	require.NoError(t, err)
	require.Equal(t, Debug, f)
	_, err = Parse("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)
	_, err = New("xml", &bufSink{}, Options{})
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestJSONLines(t *testing.T) {
	sink := &bufSink{}
	enc, err := New(JSON, sink, Options{})
	require.NoError(t, err)
	require.NoError(t, enc.Encode(bid(1, 10)))
	require.NoError(t, enc.Encode(event.NewPerson(event.Person{ID: 7, Name: "Sarah"}, 2)))
	require.NoError(t, enc.Close())

	lines := strings.Split(strings.TrimSpace(sink.String()), "\n")
	require.Len(t, lines, 2)
	var first map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Contains(t, first, "Bid")
	require.EqualValues(t, 1000, first["Bid"]["auction"])
	require.Contains(t, lines[1], `"Person"`)

	require.Equal(t, 3, sink.flushes)
	st := enc.Stats()
	require.Equal(t, uint64(2), st.Events)
	require.Equal(t, uint64(sink.Len()), st.Bytes)
}

func TestCSVRows(t *testing.T) {
	sink := &bufSink{}
	enc, err := New(CSV, sink, Options{})
	require.NoError(t, err)
	require.NoError(t, enc.Encode(bid(5, 12.5)))
	require.NoError(t, enc.Encode(event.NewAuction(event.Auction{ID: 1000, ItemName: "a, b"}, 6)))
	require.NoError(t, enc.Close())

	r := csv.NewReader(strings.NewReader(sink.String()))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"bid", "1000", "1001", "12.5", "Google", "", "42", "5", ""}, rows[0])
	require.Equal(t, "auction", rows[1][0])
	require.Equal(t, "a, b", rows[1][2])
}

func TestDebugLines(t *testing.T) {
	sink := &bufSink{}
	enc, err := New(Debug, sink, Options{})
	require.NoError(t, err)
	require.NoError(t, enc.Encode(bid(1, 3)))
	require.True(t, strings.HasPrefix(sink.String(), "Bid{Auction:1000 Bidder:1001 Price:3"))
	require.True(t, strings.HasSuffix(sink.String(), "}\n"))
}

func TestBinaryFramesAndFinalFlush(t *testing.T) {
	sink := &bufSink{}
	enc, err := New(Binary, sink, Options{BufferSize: 128})
	require.NoError(t, err)
	for i := range 5 {
		require.NoError(t, enc.Encode(bid(uint64(i), float64(i))))
	}
	// 128-byte frames hold 3 records (120 < 128); 2 are pending.
	require.Equal(t, uint64(1), enc.Stats().Frames)
	require.NoError(t, enc.Close())
	require.NoError(t, enc.Close())

	b := sink.Bytes()
	var payloads []int
	for len(b) > 0 {
		n := int(binary.LittleEndian.Uint64(b[:8]))
		payloads = append(payloads, n)
		b = b[8+n:]
	}
	require.Equal(t, []int{120, 80}, payloads)
	st := enc.Stats()
	require.Equal(t, uint64(5), st.Events)
	require.Equal(t, uint64(2), st.Frames)
	require.Equal(t, uint64(sink.Len()), st.Bytes)
}

func TestBinaryRejectsNonBid(t *testing.T) {
	sink := &bufSink{}
	enc, err := New(Binary, sink, Options{})
	require.NoError(t, err)
	err = enc.Encode(event.NewPerson(event.Person{ID: 1}, 0))
	require.ErrorIs(t, err, binfmt.ErrUnsupportedVariant)
	require.NoError(t, enc.Close())
	require.Zero(t, sink.Len())
}

func TestBinaryDefaultCapacity(t *testing.T) {
	sink := &bufSink{}
	enc, err := New(Binary, sink, Options{})
	require.NoError(t, err)
	require.Equal(t, DefaultBufferSize, enc.(*binaryEncoder).buf.Cap())
}
