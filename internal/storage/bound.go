package storage

import "fmt"

type BoundKind int8

const (
	Unbounded BoundKind = iota // no lower limit
	Included                   // key is part of the range
	Excluded                   // key is not part of the range
)

func (b BoundKind) String() string {
	switch b {
	case Unbounded:
		return "unbounded"
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return fmt.Sprintf("BoundKind(%d)", int8(b))
	}
}

// Bound is the lower bound of a seek. Key is ignored for Unbounded
type Bound[K any] struct {
	Kind BoundKind
	Key  K
}

func UnboundedBound[K any]() Bound[K] {
	return Bound[K]{Kind: Unbounded}
}

func IncludedBound[K any](key K) Bound[K] {
	return Bound[K]{Kind: Included, Key: key}
}

func ExcludedBound[K any](key K) Bound[K] {
	return Bound[K]{Kind: Excluded, Key: key}
}
