// Package assert holds the small set of test helpers used across the module.
package assert

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Equal fails the test when got and want differ, printing a diff.
func Equal[T any](t testing.TB, got, want T) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values differ (-want +got):\n%s", diff)
	}
}

// Nil fails the test when v is not nil.
func Nil(t testing.TB, v any) {
	t.Helper()
	if !isNil(v) {
		t.Errorf("expected nil, got %v", v)
	}
}

// NotNil fails the test when v is nil.
func NotNil(t testing.TB, v any) {
	t.Helper()
	if isNil(v) {
		t.Errorf("expected a non-nil value")
	}
}

// True fails the test when cond is false.
func True(t testing.TB, cond bool) {
	t.Helper()
	if !cond {
		t.Errorf("expected true")
	}
}

// False fails the test when cond is true.
func False(t testing.TB, cond bool) {
	t.Helper()
	if cond {
		t.Errorf("expected false")
	}
}

// Contains fails the test when s does not contain substr.
func Contains(t testing.TB, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}

// NotContains fails the test when s contains substr.
func NotContains(t testing.TB, s, substr string) {
	t.Helper()
	if strings.Contains(s, substr) {
		t.Errorf("expected %q not to contain %q", s, substr)
	}
}

// ErrorIs fails the test when err does not match target.
func ErrorIs(t testing.TB, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("expected error %v, got %v", target, err)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
