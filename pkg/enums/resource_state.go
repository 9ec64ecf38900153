package enums

import "fmt"

// ResourceState describes the lifecycle bucket of a tracked AWS resource.
type ResourceState string

const (
	ResourceStateCreated ResourceState = "created"
	ResourceStateUnused  ResourceState = "unused"
)

var validResourceStates = []ResourceState{
	ResourceStateCreated,
	ResourceStateUnused,
}

// IsValid reports whether the value matches the canonical resource state enum.
func (s ResourceState) IsValid() bool {
	for _, candidate := range validResourceStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseResourceState converts the raw string to ResourceState.
func ParseResourceState(value string) (ResourceState, error) {
	for _, candidate := range validResourceStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource state %q", value)
}
