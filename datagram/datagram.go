// Package datagram describes the two payloads a throughput client emits.
//
// There is no header: a datagram is either all zero bytes (data) or all 0xFF
// bytes (stop), and a receiver tells them apart by content alone.
package datagram

// Kind identifies a datagram by its fill byte.
type Kind int

const (
	// Unknown is anything that is neither a data nor a stop datagram.
	Unknown Kind = iota

	// Data is filler traffic.
	Data

	// Stop marks the end of a stream.
	Stop
)

const (
	dataFill byte = 0x00
	stopFill byte = 0xFF
)

func (k Kind) String() string {
	switch k {
	case Data:
		return "data"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Fill returns the byte every payload of the kind consists of.
func (k Kind) Fill() byte {
	switch k {
	case Data:
		return dataFill
	case Stop:
		return stopFill
	default:
		panic("datagram: no fill byte for kind " + k.String())
	}
}

// New returns a size-byte payload of the given kind.
func New(k Kind, size int) []byte {
	fill := k.Fill()

	b := make([]byte, size)
	if fill != 0 {
		for i := range b {
			b[i] = fill
		}
	}

	return b
}

// Classify reports the kind of the given payload.  Empty and mixed payloads
// are Unknown.
func Classify(b []byte) Kind {
	if len(b) == 0 {
		return Unknown
	}

	var k Kind
	switch b[0] {
	case dataFill:
		k = Data
	case stopFill:
		k = Stop
	default:
		return Unknown
	}

	for _, c := range b[1:] {
		if c != b[0] {
			return Unknown
		}
	}

	return k
}
