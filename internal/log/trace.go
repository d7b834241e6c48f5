package log

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorChain renders every error wrapped by err, outermost first, as
// "type: message" entries joined by " <- ". Joined errors are expanded
// in order.
func ErrorChain(err error) string {
	var parts []string
	var walk func(error)
	walk = func(e error) {
		for e != nil {
			parts = append(parts, fmt.Sprintf("%T: %v", e, e))
			if multi, ok := e.(interface{ Unwrap() []error }); ok {
				for _, inner := range multi.Unwrap() {
					walk(inner)
				}
				return
			}
			e = errors.Unwrap(e)
		}
	}
	walk(err)
	return strings.Join(parts, " <- ")
}
