package console_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rmaloney/backoffice/internal/console"
)

// recorder collects committed values
type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) commit(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
}

func (r *recorder) committed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

func TestDebouncer_BurstCommitsFinalValueOnce(t *testing.T) {
	rec := &recorder{}
	d := console.NewDebouncer(50*time.Millisecond, rec.commit)

	d.Input("j")
	d.Input("ja")
	d.Input("jan")
	d.Input("jane")

	assert.Eventually(t, func() bool {
		values := rec.committed()
		return len(values) == 1 && values[0] == "jane"
	}, time.Second, 10*time.Millisecond)

	// No second commit after the quiet period
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"jane"}, rec.committed())
}

func TestDebouncer_EachKeystrokeResetsTimer(t *testing.T) {
	rec := &recorder{}
	d := console.NewDebouncer(80*time.Millisecond, rec.commit)

	// Keep typing faster than the quiet period
	for i := 0; i < 4; i++ {
		d.Input("partial")
		time.Sleep(30 * time.Millisecond)
		assert.Empty(t, rec.committed(), "commit must wait for the quiet period")
	}
	d.Input("final")

	assert.Eventually(t, func() bool {
		values := rec.committed()
		return len(values) == 1 && values[0] == "final"
	}, time.Second, 10*time.Millisecond)
}

func TestDebouncer_StopCancelsPendingCommit(t *testing.T) {
	rec := &recorder{}
	d := console.NewDebouncer(50*time.Millisecond, rec.commit)

	d.Input("abandoned")
	d.Stop()

	time.Sleep(120 * time.Millisecond)
	assert.Empty(t, rec.committed())
}

func TestDebouncer_FlushCommitsImmediately(t *testing.T) {
	rec := &recorder{}
	d := console.NewDebouncer(time.Hour, rec.commit)

	d.Input("now")
	d.Flush()

	assert.Equal(t, []string{"now"}, rec.committed())

	// Flushing again with nothing pending is a no-op
	d.Flush()
	assert.Equal(t, []string{"now"}, rec.committed())
}
