package quota

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/reine-ishyanami/gemini-bot/internal/storage"
	logx "github.com/reine-ishyanami/gemini-bot/pkg/logger"
)

// Feature identifies a quota-tracked capability.
type Feature string

const (
	FeatureSearch      Feature = "search"
	FeatureGeneration  Feature = "generation"
	FeatureAudioListen Feature = "audio_listen"
)

// Features lists every tracked feature, in reset order.
func Features() []Feature {
	return []Feature{FeatureSearch, FeatureGeneration, FeatureAudioListen}
}

// storageKey maps a feature to its durable document name.
func (f Feature) storageKey() string {
	switch f {
	case FeatureSearch:
		return "search_count"
	case FeatureGeneration:
		return "gen_count"
	case FeatureAudioListen:
		return "listen_count"
	}
	return string(f)
}

// Decision is the outcome of a quota check. Remaining is only meaningful when
// Allowed is true and Unlimited is false.
type Decision struct {
	Allowed   bool
	Remaining int
	Unlimited bool
}

// Tracker enforces per-user daily usage ceilings per feature. Counts live in
// memory and are flushed to the store on every increment; the durable document
// is the source of truth on restart. All operations serialize on one mutex so
// concurrent requests can never increment past the limit.
type Tracker struct {
	mu     sync.Mutex
	store  storage.Store
	limits map[Feature]int
	counts map[Feature]map[string]int
}

// NewTracker creates a tracker with the given daily limits. A negative limit
// disables quota enforcement for that feature.
func NewTracker(store storage.Store, limits map[Feature]int) *Tracker {
	counts := make(map[Feature]map[string]int, len(Features()))
	for _, f := range Features() {
		counts[f] = map[string]int{}
	}
	return &Tracker{
		store:  store,
		limits: limits,
		counts: counts,
	}
}

// Load reads every feature document from the store into memory. An absent
// document is equivalent to an empty table.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, f := range Features() {
		doc, err := t.store.Read(ctx, f.storageKey())
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				t.counts[f] = map[string]int{}
				continue
			}
			return fmt.Errorf("load %s counts: %w", f, err)
		}
		counts := map[string]int{}
		if err := json.Unmarshal(doc, &counts); err != nil {
			return fmt.Errorf("unmarshal %s counts: %w", f, err)
		}
		t.counts[f] = counts
	}
	return nil
}

// CheckAndConsume decides whether a request by userID may proceed and, when
// allowed and counted, increments the stored count and persists it before
// returning. Privileged users are always allowed and never counted.
func (t *Tracker) CheckAndConsume(ctx context.Context, feature Feature, userID string, privileged bool) (Decision, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	limit, ok := t.limits[feature]
	if !ok || limit < 0 {
		return Decision{Allowed: true, Unlimited: true}, nil
	}

	if privileged {
		logx.Info().Str("user", userID).Str("feature", string(feature)).Msg("privileged user, not counted")
		return Decision{Allowed: true, Unlimited: true}, nil
	}

	count := t.counts[feature][userID]
	if count >= limit {
		logx.Info().Str("user", userID).Str("feature", string(feature)).Int("count", count).Msg("daily quota exceeded")
		return Decision{}, nil
	}

	t.counts[feature][userID] = count + 1
	if err := t.persistLocked(ctx, feature); err != nil {
		// Undo so memory stays consistent with the durable record; the
		// request is rejected rather than the increment silently lost.
		if count == 0 {
			delete(t.counts[feature], userID)
		} else {
			t.counts[feature][userID] = count
		}
		return Decision{}, fmt.Errorf("persist %s counts: %w", feature, err)
	}

	logx.Info().Str("user", userID).Str("feature", string(feature)).Int("count", count+1).Msg("quota consumed")
	return Decision{Allowed: true, Remaining: limit - count - 1}, nil
}

// Used reports the current stored count for a user, for notices and tests.
func (t *Tracker) Used(feature Feature, userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[feature][userID]
}

// Reset clears every feature table and overwrites the durable documents with
// empty mappings. It is the only operation that removes entries.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var firstErr error
	for _, f := range Features() {
		t.counts[f] = map[string]int{}
		if err := t.store.Write(ctx, f.storageKey(), []byte("{}")); err != nil {
			logx.Error().Err(err).Str("feature", string(f)).Msg("failed to reset quota document")
			if firstErr == nil {
				firstErr = fmt.Errorf("reset %s counts: %w", f, err)
			}
			continue
		}
		logx.Info().Str("feature", string(f)).Msg("quota counts reset")
	}
	return firstErr
}

func (t *Tracker) persistLocked(ctx context.Context, feature Feature) error {
	doc, err := json.Marshal(t.counts[feature])
	if err != nil {
		return err
	}
	return t.store.Write(ctx, feature.storageKey(), doc)
}
