package returns

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fixedWords always hands out the same word, for deterministic tests.
type fixedWords string

func (w fixedWords) Word() string { return string(w) }

func TestVerifyCaseInsensitive(t *testing.T) {
	require.True(t, Verify("HALLELUJAH", "hallelujah"))
	require.True(t, Verify("hallelujah", "hallelujah"))
	require.True(t, Verify("  hallelujah  ", "hallelujah"))
	require.False(t, Verify("halleluja", "hallelujah"))
	require.False(t, Verify("", "hallelujah"))
}

func TestVerifyAnyIssuedWordRoundTrips(t *testing.T) {
	for range 20 {
		word := DefaultVocabulary.Word()
		require.True(t, Verify(word, word))
	}
}

func TestNewChallengeIssuesFreshWordEachTime(t *testing.T) {
	id := uuid.New()
	seen := make(map[string]bool)
	for range 100 {
		ch := NewChallenge(DefaultVocabulary, id, FieldApproval, string(ApprovalRejected))
		require.Contains(t, DefaultVocabulary, ch.Word)
		seen[ch.Word] = true
	}
	// With 100 draws from 6 words, a single-word result means the source
	// is not actually random.
	require.Greater(t, len(seen), 1)
}

func newTestStore(t *testing.T, ttl time.Duration) (*RedisChallengeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisChallengeStore(client, ttl), mr
}

func TestChallengeStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	ch := NewChallenge(fixedWords("porcupine"), uuid.New(), FieldReceipt, string(ReceiptReceived))
	require.NoError(t, store.Put(ctx, ch))

	loaded, err := store.Get(ctx, ch.ReturnID, ch.ID)
	require.NoError(t, err)
	require.Equal(t, ch.ID, loaded.ID)
	require.Equal(t, FieldReceipt, loaded.Field)
	require.Equal(t, "porcupine", loaded.Word)
}

func TestChallengeStoreExpires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	ch := NewChallenge(fixedWords("tangerine"), uuid.New(), FieldApproval, string(ApprovalApproved))
	require.NoError(t, store.Put(ctx, ch))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, ch.ReturnID, ch.ID)
	require.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestChallengeStoreDeleteDiscards(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	ch := NewChallenge(fixedWords("whirlwind"), uuid.New(), FieldProcessing, string(ProcessingProcessed))
	require.NoError(t, store.Put(ctx, ch))
	require.NoError(t, store.Delete(ctx, ch.ReturnID, ch.ID))

	_, err := store.Get(ctx, ch.ReturnID, ch.ID)
	require.ErrorIs(t, err, ErrChallengeNotFound)
}
