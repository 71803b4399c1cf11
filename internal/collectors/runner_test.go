package collectors

import (
	"context"
	"strings"
)

// fakeRunner serves canned stdout keyed by the full command line.
type fakeRunner struct {
	responses map[string]string
	errors    map[string]error
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errors[key]; ok {
		return "", err
	}
	return f.responses[key], nil
}

func (f *fakeRunner) called(key string) bool {
	for _, call := range f.calls {
		if call == key {
			return true
		}
	}
	return false
}
