package ninja

import (
	"strings"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

// Kind classifies a fetch failure for the refresh controller. Classification
// happens once here, at the boundary with the upstream API; downstream logic
// branches on the enum, never on raw error text.
type Kind int

const (
	// KindTransport covers network and HTTP failures that carry no
	// information about the requested partition. Retried on the next tick.
	KindTransport Kind = iota

	// KindNotFound means the upstream has no dataset for the requested
	// category. Treated as permanent for that category.
	KindNotFound

	// KindModeUnsupported means exchange pricing failed; the tracker should
	// downgrade to stash pricing.
	KindModeUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindModeUnsupported:
		return "mode_unsupported"
	default:
		return "transport"
	}
}

// Error is a classified upstream failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// The upstream reports "no such dataset" in several shapes: an empty body
// message, a plain 404, or an HTML error page. These markers cover all three.
var notFoundMarkers = []string{"no data", "404", "not found"}

// Classify maps err to a Kind, taking the requested price mode into account:
// any failure while fetching exchange pricing is a mode-unsupported signal,
// since the upstream only exposes exchange data for a subset of partitions
// and fails unhelpfully for the rest.
func Classify(err error, mode model.PriceMode) Kind {
	if err == nil {
		return KindTransport
	}
	if mode == model.ModeExchange {
		return KindModeUnsupported
	}
	if apiErr, ok := err.(*Error); ok && apiErr.Kind != KindTransport {
		return apiErr.Kind
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range notFoundMarkers {
		if strings.Contains(msg, marker) {
			return KindNotFound
		}
	}
	return KindTransport
}
