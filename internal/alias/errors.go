package alias

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// UnsupportedNavigationError reports a member access that has no path
// mapping on the stand-in's entity.
type UnsupportedNavigationError struct {
	Member string
	Type   string // entity name of the stand-in
	Reason string

	// Session is the ID of the capture session that navigated.
	Session uuid.UUID
}

func (e *UnsupportedNavigationError) Error() string {
	msg := fmt.Sprintf("unsupported navigation %s.%s", e.Type, e.Member)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IsUnsupportedNavigation reports whether err is an UnsupportedNavigationError.
func IsUnsupportedNavigation(err error) bool {
	var target *UnsupportedNavigationError
	return errors.As(err, &target)
}
