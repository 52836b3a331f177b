// SPDX-License-Identifier: MPL-2.0

package discovery

import "reflect"

// Instantiate returns a zero value of the discovered class as T. The value
// itself is returned when it satisfies T, otherwise a pointer to it (for
// classes with pointer-receiver methods).
func Instantiate[T any](class DiscoveredClass) (T, bool) {
	var zero T
	if class.Type == nil {
		return zero, false
	}
	v := reflect.New(class.Type)
	if t, ok := v.Elem().Interface().(T); ok {
		return t, true
	}
	t, ok := v.Interface().(T)
	return t, ok
}
