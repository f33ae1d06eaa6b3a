package windowing

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported window functions.
type Kind int

const (
	Rectangular Kind = iota
	Bartlett
	Blackman
	Hamming
	Hanning
	Kaiser
)

// KaiserBeta is the fixed shape parameter used for Kaiser tables.
const KaiserBeta = 14.0

var kindNames = [...]string{
	Rectangular: "rectangular",
	Bartlett:    "bartlett",
	Blackman:    "blackman",
	Hamming:     "hamming",
	Hanning:     "hanning",
	Kaiser:      "kaiser",
}

// aliases are matched exactly, never by prefix
var kindAliases = map[string]Kind{
	"rect":       Rectangular,
	"boxcar":     Rectangular,
	"triangular": Bartlett,
	"hann":       Hanning,
}

// UnsupportedWindowError is returned for a window name outside the supported set.
type UnsupportedWindowError struct {
	Name string
}

func (e *UnsupportedWindowError) Error() string {
	return fmt.Sprintf("unsupported window %q (expected one of %s)", e.Name, strings.Join(kindNames[:], ", "))
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{Rectangular, Bartlett, Blackman, Hamming, Hanning, Kaiser}
}

// ParseKind resolves a window name by case-insensitive exact match against the
// canonical names and the fixed alias table.
func ParseKind(name string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == key {
			return Kind(k), nil
		}
	}
	if k, ok := kindAliases[key]; ok {
		return k, nil
	}
	return 0, &UnsupportedWindowError{Name: name}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, &UnsupportedWindowError{Name: k.String()}
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
