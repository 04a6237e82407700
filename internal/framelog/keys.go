package framelog

import "encoding/binary"

var (
	runPrefix  = []byte("run/")
	metaSuffix = []byte("/m")
	frameSeg   = []byte("/f/")
)

func keyMeta(run string) []byte {
	k := make([]byte, 0, len(runPrefix)+len(run)+len(metaSuffix))
	k = append(k, runPrefix...)
	k = append(k, run...)
	return append(k, metaSuffix...)
}

func keyFrame(run string, seq uint64) []byte {
	k := make([]byte, 0, len(runPrefix)+len(run)+len(frameSeg)+8)
	k = append(k, runPrefix...)
	k = append(k, run...)
	k = append(k, frameSeg...)
	return binary.BigEndian.AppendUint64(k, seq)
}
