package progress

import (
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kamilov2/presentation/pkg/debug"
	"github.com/kamilov2/presentation/pkg/metrics"
)

// Record is the value stored under ProgressKey. Readers also accept a bare
// base-10 integer, the original wire format, so old state files keep
// working.
type Record struct {
	Index     int       `json:"index"`
	Deck      string    `json:"deck,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Save writes the current index, swallowing any storage failure. The only
// trace of a failed write is a debug warning; the caller never sees it.
func Save(store Store, deckPath string, index int) {
	if store == nil {
		return
	}
	defer metrics.Timer(metrics.ProgressSave)()

	rec := Record{Index: index, Deck: deckPath, UpdatedAt: time.Now().UTC()}
	data, err := json.Marshal(rec)
	if err != nil {
		debug.Warn("encoding progress: %v", err)
		return
	}
	if err := store.Set(ProgressKey, string(data)); err != nil {
		debug.Warn("saving progress: %v", err)
	}
}

// Load reads the persisted position and returns it as the initial index iff
// it parses and falls within [0, total). Every failure mode — missing key,
// storage error, corrupt value, out-of-range index — silently yields 0.
func Load(store Store, total int) int {
	if store == nil || total <= 0 {
		return 0
	}

	value, err := store.Get(ProgressKey)
	if err != nil {
		debug.Log("no persisted progress: %v", err)
		return 0
	}

	index, ok := parseIndex(value)
	if !ok {
		debug.Warn("corrupt progress value %q", value)
		return 0
	}
	if index < 0 || index >= total {
		debug.Log("persisted index %d out of range [0,%d)", index, total)
		return 0
	}
	return index
}

// parseIndex accepts the JSON record format and the legacy bare integer.
func parseIndex(value string) (int, bool) {
	var rec Record
	if err := json.Unmarshal([]byte(value), &rec); err == nil {
		return rec.Index, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
