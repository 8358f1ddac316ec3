package returns

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Return status changes are irreversible, so every change is gated behind
// a confirmation word the operator must type back. The word is shown on
// screen; the gate guards against slips, not against malice.

// WordSource produces confirmation words. Injectable so tests can be
// deterministic.
type WordSource interface {
	Word() string
}

// Vocabulary is a WordSource drawing uniformly from a fixed word list.
type Vocabulary []string

// Word picks a fresh word on every call.
func (v Vocabulary) Word() string {
	return v[rand.IntN(len(v))]
}

// DefaultVocabulary holds distinct words that are hard to type by accident.
var DefaultVocabulary = Vocabulary{
	"hallelujah",
	"porcupine",
	"tangerine",
	"whirlwind",
	"marmalade",
	"xylophone",
}

// Challenge is a single-use pending change awaiting operator confirmation.
type Challenge struct {
	ID        uuid.UUID `json:"id"`
	ReturnID  uuid.UUID `json:"return_id"`
	Field     Field     `json:"field"`
	Requested string    `json:"requested"`
	Word      string    `json:"word"`
	Label     string    `json:"label"`
	IssuedAt  time.Time `json:"issued_at"`
}

// NewChallenge issues a fresh challenge for the pending change. A new word
// is drawn on every call; words are never reused across attempts.
func NewChallenge(words WordSource, returnID uuid.UUID, field Field, requested string) Challenge {
	return Challenge{
		ID:        uuid.New(),
		ReturnID:  returnID,
		Field:     field,
		Requested: requested,
		Word:      words.Word(),
		Label:     fmt.Sprintf("set %s to %s", field, requested),
		IssuedAt:  time.Now().UTC(),
	}
}

// Verify checks the operator's entry against the issued word. Matching is
// case-insensitive; surrounding whitespace is ignored.
func Verify(entered, issued string) bool {
	return strings.EqualFold(strings.TrimSpace(entered), issued)
}

// ChallengeStore holds issued challenges between issuance and confirmation.
type ChallengeStore interface {
	Put(ctx context.Context, ch Challenge) error
	Get(ctx context.Context, returnID, challengeID uuid.UUID) (*Challenge, error)
	Delete(ctx context.Context, returnID, challengeID uuid.UUID) error
}

// RedisChallengeStore keeps challenges in Redis with a TTL, so abandoned
// attempts expire on their own instead of lingering forever.
type RedisChallengeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisChallengeStore constructs a store with the given expiry window.
func NewRedisChallengeStore(client *redis.Client, ttl time.Duration) *RedisChallengeStore {
	return &RedisChallengeStore{client: client, ttl: ttl}
}

func challengeKey(returnID, challengeID uuid.UUID) string {
	return "returns:challenge:" + returnID.String() + ":" + challengeID.String()
}

// Put stores the challenge, resetting its expiry window.
func (s *RedisChallengeStore) Put(ctx context.Context, ch Challenge) error {
	payload, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	if err := s.client.Set(ctx, challengeKey(ch.ReturnID, ch.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

// Get fetches a live challenge. Expired or cancelled challenges surface as
// ErrChallengeNotFound.
func (s *RedisChallengeStore) Get(ctx context.Context, returnID, challengeID uuid.UUID) (*Challenge, error) {
	payload, err := s.client.Get(ctx, challengeKey(returnID, challengeID)).Bytes()
	if err == redis.Nil {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	var ch Challenge
	if err := json.Unmarshal(payload, &ch); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return &ch, nil
}

// Delete discards the challenge, whether confirmed or cancelled.
func (s *RedisChallengeStore) Delete(ctx context.Context, returnID, challengeID uuid.UUID) error {
	if err := s.client.Del(ctx, challengeKey(returnID, challengeID)).Err(); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}
