package evaluator

// Hand categories, weakest first
const (
	HighCardType = iota + 1
	PairType
	ColorType
	SequenceType
	PureSequenceType
	TrailType
)

// HandRank is a Teen Patti hand strength with the category in the high bits
// and three 4-bit tiebreak ranks below it. Higher is stronger.
type HandRank int

// Compare returns -1 if h is weaker, 0 if equal, 1 if h is stronger
func (h HandRank) Compare(other HandRank) int {
	switch {
	case h > other:
		return 1
	case h < other:
		return -1
	}
	return 0
}

// Type returns the hand category
func (h HandRank) Type() int {
	return int(h) >> 12
}

// String returns the readable name of the hand
func (h HandRank) String() string {
	switch h.Type() {
	case TrailType:
		return "Trail"
	case PureSequenceType:
		return "Pure Sequence"
	case SequenceType:
		return "Sequence"
	case ColorType:
		return "Color"
	case PairType:
		return "Pair"
	case HighCardType:
		return "High Card"
	default:
		return "Unknown"
	}
}

func newHandRank(category int, tiebreak ...int) HandRank {
	v := category
	for i := range 3 {
		v <<= 4
		if i < len(tiebreak) {
			v |= tiebreak[i] & 0xF
		}
	}
	return HandRank(v)
}
