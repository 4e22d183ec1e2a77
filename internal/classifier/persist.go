package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vimoney/vimoney/internal/common"
	"github.com/vimoney/vimoney/internal/model"
	"github.com/vimoney/vimoney/internal/service"
	"github.com/vimoney/vimoney/internal/text"
)

// Persistence keys for the classifier's model blobs.
const (
	keyVocabulary = "classifier:vocabulary"
	keyProfiles   = "classifier:profiles"
)

const defaultDebounce = 500 * time.Millisecond

type vocabularyBlob struct {
	TrainedAt  time.Time        `json:"trained_at"`
	Vocabulary *text.Vocabulary `json:"vocabulary"`
}

type profilesBlob struct {
	TrainedAt time.Time               `json:"trained_at"`
	Profiles  []model.CategoryProfile `json:"profiles"`
}

// persister writes the classifier's model blobs to the key-value store.
// Writes are fire-and-forget behind a short debounce, so a burst of
// retrains only persists the final generation. A crash inside the window
// loses that generation only; the previous one is never partially
// overwritten because each write replaces whole blobs.
type persister struct {
	store           service.ModelStore
	logger          *slog.Logger
	mu              sync.Mutex
	timer           *time.Timer
	pendingVocab    *text.Vocabulary
	pendingProfiles []model.CategoryProfile
	debounce        time.Duration
}

func newPersister(store service.ModelStore, logger *slog.Logger) *persister {
	return &persister{
		store:    store,
		logger:   logger,
		debounce: defaultDebounce,
	}
}

// schedule queues a write of the given generation, replacing any pending
// one. With a zero debounce the write happens synchronously.
func (p *persister) schedule(vocab *text.Vocabulary, profiles []model.CategoryProfile) {
	if p.debounce <= 0 {
		p.write(vocab, profiles)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingVocab = vocab
	p.pendingProfiles = profiles
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, p.flushPending)
}

// flushPending writes the pending generation, if any.
func (p *persister) flushPending() {
	p.mu.Lock()
	vocab, profiles := p.pendingVocab, p.pendingProfiles
	p.pendingVocab = nil
	p.pendingProfiles = nil
	p.mu.Unlock()

	if vocab == nil {
		return
	}
	p.write(vocab, profiles)
}

// flush cancels any pending timer and writes the pending generation
// synchronously. One-shot processes call this before exit; without it
// a generation still inside the debounce window would be lost.
func (p *persister) flush() {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	p.flushPending()
}

func (p *persister) write(vocab *text.Vocabulary, profiles []model.CategoryProfile) {
	ctx := context.Background()
	now := time.Now()

	err := common.WithRetry(ctx, func() error {
		vb, err := json.Marshal(vocabularyBlob{TrainedAt: now, Vocabulary: vocab})
		if err != nil {
			return fmt.Errorf("failed to encode vocabulary: %w", err)
		}
		if err := p.store.Set(ctx, keyVocabulary, vb); err != nil {
			return fmt.Errorf("failed to store vocabulary: %w", err)
		}

		pb, err := json.Marshal(profilesBlob{TrainedAt: now, Profiles: profiles})
		if err != nil {
			return fmt.Errorf("failed to encode profiles: %w", err)
		}
		if err := p.store.Set(ctx, keyProfiles, pb); err != nil {
			return fmt.Errorf("failed to store profiles: %w", err)
		}
		return nil
	}, service.RetryOptions{MaxAttempts: 3})

	if err != nil {
		// Swallowed: the engine degrades to retraining on next start.
		p.logger.Warn("failed to persist classifier model", "error", err)
	}
}

// load restores the latest persisted generation. Returns
// common.ErrNotFound (wrapped) when no generation exists.
func (p *persister) load(ctx context.Context) (*text.Vocabulary, []model.CategoryProfile, error) {
	vb, err := p.store.Get(ctx, keyVocabulary)
	if err != nil {
		return nil, nil, fmt.Errorf("vocabulary blob: %w", err)
	}
	pb, err := p.store.Get(ctx, keyProfiles)
	if err != nil {
		return nil, nil, fmt.Errorf("profiles blob: %w", err)
	}

	var vBlob vocabularyBlob
	if err := json.Unmarshal(vb, &vBlob); err != nil {
		return nil, nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	var pBlob profilesBlob
	if err := json.Unmarshal(pb, &pBlob); err != nil {
		return nil, nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	if vBlob.Vocabulary == nil || len(pBlob.Profiles) == 0 {
		return nil, nil, fmt.Errorf("persisted model is empty")
	}
	return vBlob.Vocabulary, pBlob.Profiles, nil
}
