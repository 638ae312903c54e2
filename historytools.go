package historytools

const (
	// Historytools suite version
	Version = "0.1.0"
)

// ValueKind selects which of the history value types a sample carries.
type ValueKind int

const (
	KindUint ValueKind = iota
	KindFloat
	KindString
)

// ValueKinds lists every supported value kind in command order.
var ValueKinds = []ValueKind{KindUint, KindFloat, KindString}

// String returns the short name used in add_<kind> command names.
func (k ValueKind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return "unknown"
}

// Valid reports if k is one of the supported value kinds.
func (k ValueKind) Valid() bool {
	return k >= KindUint && k <= KindString
}
