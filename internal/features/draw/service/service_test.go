package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "wish-lottery-backend/internal/common/errors"
	"wish-lottery-backend/internal/features/wishlist/models"
	"wish-lottery-backend/internal/features/wishlist/repository"
	"wish-lottery-backend/internal/features/wishlist/repository/memory"
)

const testInterval = 2 * time.Millisecond

func seedWishes(t *testing.T, repo repository.Repository, texts ...string) []models.Wish {
	t.Helper()
	wishes := make([]models.Wish, 0, len(texts))
	for i, text := range texts {
		wishes = append(wishes, models.Wish{
			ID:        string(rune('a' + i)),
			Name:      text,
			Text:      text + " wish text",
			CreatedAt: time.Now().UTC(),
		})
	}
	require.NoError(t, repo.SaveWishes(context.Background(), wishes))
	return wishes
}

func TestStartRequiresTwoWishes(t *testing.T) {
	ctx := context.Background()

	for _, count := range []int{0, 1} {
		repo := memory.NewMemoryRepository()
		svc := NewDrawService(repo, testInterval)
		if count == 1 {
			seedWishes(t, repo, "Amy")
		}

		err := svc.Start(ctx)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		require.Equal(t, apperrors.ErrCodeInsufficientWishes, appErr.Code)
		require.Equal(t, PhaseIdle, svc.Snapshot().Phase)
	}
}

func TestDrawSettlesOnMemberOfCollection(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemoryRepository()
	svc := NewDrawService(repo, testInterval)
	wishes := seedWishes(t, repo, "Amy", "Bo", "Chen")

	require.NoError(t, svc.Start(ctx))
	require.Equal(t, PhaseSpinning, svc.Snapshot().Phase)

	time.Sleep(10 * testInterval)

	winner, err := svc.Stop(ctx)
	require.NoError(t, err)
	require.NotNil(t, winner)

	ids := make(map[string]bool, len(wishes))
	for _, w := range wishes {
		ids[w.ID] = true
	}
	require.True(t, ids[winner.ID], "winner %q is not a member of the wish collection", winner.ID)

	snap := svc.Snapshot()
	require.Equal(t, PhaseSettled, snap.Phase)
	require.Equal(t, winner.ID, snap.Winner.ID)
	require.Equal(t, winner.ID, snap.Displayed.ID)
}

func TestWinnerDrawnFromCollectionAtStopTime(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemoryRepository()
	svc := NewDrawService(repo, testInterval)
	seedWishes(t, repo, "Amy", "Bo", "Chen")

	require.NoError(t, svc.Start(ctx))

	// Shrink the collection mid-spin; the settle must sample what exists
	// at stop time.
	replacement := seedWishes(t, repo, "Dana")

	winner, err := svc.Stop(ctx)
	require.NoError(t, err)
	require.Equal(t, replacement[0].ID, winner.ID)
}

func TestSpinningDisplaysWishes(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemoryRepository()
	svc := NewDrawService(repo, testInterval)
	seedWishes(t, repo, "Amy", "Bo")

	frames, cancel := svc.Subscribe()
	defer cancel()

	require.NoError(t, svc.Start(ctx))
	defer svc.Reset()

	select {
	case snap := <-frames:
		require.Equal(t, PhaseSpinning, snap.Phase)
		require.NotNil(t, snap.Displayed)
	case <-time.After(time.Second):
		t.Fatal("no spin frame observed")
	}
}

func TestRestartAfterSettleResetsWinner(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemoryRepository()
	svc := NewDrawService(repo, testInterval)
	seedWishes(t, repo, "Amy", "Bo")

	require.NoError(t, svc.Start(ctx))
	_, err := svc.Stop(ctx)
	require.NoError(t, err)
	require.NotNil(t, svc.Snapshot().Winner)

	require.NoError(t, svc.Start(ctx))
	snap := svc.Snapshot()
	require.Equal(t, PhaseSpinning, snap.Phase)
	require.Nil(t, snap.Winner)

	svc.Reset()
}

func TestStopWhenNotSpinningIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemoryRepository()
	svc := NewDrawService(repo, testInterval)
	seedWishes(t, repo, "Amy", "Bo")

	winner, err := svc.Stop(ctx)
	require.NoError(t, err)
	require.Nil(t, winner)
	require.Equal(t, PhaseIdle, svc.Snapshot().Phase)
}

func TestResetCancelsSpin(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemoryRepository()
	svc := NewDrawService(repo, testInterval)
	seedWishes(t, repo, "Amy", "Bo")

	require.NoError(t, svc.Start(ctx))
	svc.Reset()

	snap := svc.Snapshot()
	require.Equal(t, PhaseIdle, snap.Phase)
	require.Nil(t, snap.Winner)
	require.Nil(t, snap.Displayed)

	// Idempotent.
	svc.Reset()
	require.Equal(t, PhaseIdle, svc.Snapshot().Phase)
}

// gatedRepo parks deadline-free ListWishes calls until released, letting a
// test hold a settle mid-flight. Spin-tick reads carry a deadline and pass
// straight through.
type gatedRepo struct {
	repository.Repository
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedRepo) ListWishes(ctx context.Context) ([]models.Wish, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && g.armed.Load() {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.Repository.ListWishes(ctx)
}

func TestResetDuringStopDiscardsSettle(t *testing.T) {
	ctx := context.Background()
	repo := &gatedRepo{
		Repository: memory.NewMemoryRepository(),
		entered:    make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
	svc := NewDrawService(repo, testInterval)
	seedWishes(t, repo, "Amy", "Bo")

	require.NoError(t, svc.Start(ctx))
	repo.armed.Store(true)

	type stopResult struct {
		winner *models.Wish
		err    error
	}
	results := make(chan stopResult, 1)
	go func() {
		winner, err := svc.Stop(ctx)
		results <- stopResult{winner, err}
	}()

	// The stop has cancelled the spin and is reading the collection;
	// a reset lands before it can settle.
	<-repo.entered
	svc.Reset()
	close(repo.release)

	res := <-results
	require.NoError(t, res.err)
	require.Nil(t, res.winner)

	snap := svc.Snapshot()
	require.Equal(t, PhaseIdle, snap.Phase)
	require.Nil(t, snap.Winner)
	require.Nil(t, snap.Displayed)
}

func TestStartWhileSpinningIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMemoryRepository()
	svc := NewDrawService(repo, testInterval)
	seedWishes(t, repo, "Amy", "Bo")

	require.NoError(t, svc.Start(ctx))
	require.NoError(t, svc.Start(ctx))
	require.Equal(t, PhaseSpinning, svc.Snapshot().Phase)

	svc.Reset()
}
