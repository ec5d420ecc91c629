package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory_SuppressesRepeatWithinWindow(t *testing.T) {
	m := New()
	start := time.Now()

	assert.True(t, m.Observe("04:A1:B2", start), "first read passes")
	assert.False(t, m.Observe("04:A1:B2", start.Add(2*time.Second)), "repeat at 2s is noise")
	assert.True(t, m.Observe("04:A1:B2", start.Add(6*time.Second)), "repeat at 6s is a new arrival")
}

func TestMemory_DifferentFingerprintPasses(t *testing.T) {
	m := New()
	start := time.Now()

	assert.True(t, m.Observe("04:A1:B2", start))
	assert.True(t, m.Observe("04:C3:D4", start.Add(time.Second)), "different tag is never suppressed")

	// the memory now holds the second tag, so the first passes again
	assert.True(t, m.Observe("04:A1:B2", start.Add(2*time.Second)))
}

func TestMemory_ForgetAllowsRetryAfterFailure(t *testing.T) {
	m := New()
	start := time.Now()

	assert.True(t, m.Observe("04:A1:B2", start))

	// the record failed downstream; the retried tap must go through
	m.Forget("04:A1:B2")
	assert.True(t, m.Observe("04:A1:B2", start.Add(time.Second)))
}

func TestMemory_ForgetIgnoresOtherFingerprint(t *testing.T) {
	m := New()
	start := time.Now()

	assert.True(t, m.Observe("04:A1:B2", start))
	m.Forget("04:C3:D4")

	assert.False(t, m.Observe("04:A1:B2", start.Add(time.Second)), "memory untouched by unrelated forget")
}

func TestMemory_ResetOnSessionStop(t *testing.T) {
	m := New()
	start := time.Now()

	assert.True(t, m.Observe("04:A1:B2", start))
	m.Reset()

	assert.True(t, m.Observe("04:A1:B2", start.Add(time.Second)), "reset clears the session memory")
}

func TestMemory_CustomWindow(t *testing.T) {
	m := NewWithWindow(time.Second)
	start := time.Now()

	assert.True(t, m.Observe("x", start))
	assert.False(t, m.Observe("x", start.Add(500*time.Millisecond)))
	assert.True(t, m.Observe("x", start.Add(1500*time.Millisecond)))
}
