package family

import "sync"

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per family.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality. A maximum of zero or less admits every label set.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if cl.maxCardinality > 0 && len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Contains reports whether a label set has been admitted.
func (cl *CardinalityLimiter) Contains(labelSet string) bool {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	_, exists := cl.current[labelSet]
	return exists
}

// Forget releases a label set so that its slot can be reused.
func (cl *CardinalityLimiter) Forget(labelSet string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	delete(cl.current, labelSet)
}

// Reset releases every label set.
func (cl *CardinalityLimiter) Reset() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.current = make(map[string]struct{})
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}

// Max returns the configured maximum, zero when unlimited.
func (cl *CardinalityLimiter) Max() int {
	if cl.maxCardinality < 0 {
		return 0
	}
	return cl.maxCardinality
}
