package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	apperrors "wish-lottery-backend/internal/common/errors"
	"wish-lottery-backend/internal/common/logger"
	wishlistmodels "wish-lottery-backend/internal/features/wishlist/models"
	"wish-lottery-backend/internal/features/wishlist/repository"
	"wish-lottery-backend/internal/utils/random"
)

// Phase is the state of a draw session.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSpinning Phase = "spinning"
	PhaseSettled  Phase = "settled"
)

// MinWishesForDraw is the precondition for starting a spin.
const MinWishesForDraw = 2

// Snapshot is one observable frame of the draw session.
type Snapshot struct {
	Phase     Phase                `json:"phase"`
	Displayed *wishlistmodels.Wish `json:"displayed,omitempty"`
	Winner    *wishlistmodels.Wish `json:"winner,omitempty"`
	WishCount int                  `json:"wish_count"`
}

// DrawService runs the two-phase draw: a spinning phase that re-samples
// the displayed wish on every tick, and a settle that performs the one
// draw that counts. Exactly one spin ticker runs at a time; Stop and
// Reset always cancel it.
type DrawService struct {
	repo     repository.Repository
	interval time.Duration

	mu        sync.Mutex
	phase     Phase
	session   uint64 // bumped on start, settle and reset; stale transitions check it
	displayed *wishlistmodels.Wish
	winner    *wishlistmodels.Wish
	wishCount int
	stopSpin  chan struct{}
	spinDone  chan struct{}

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

func NewDrawService(repo repository.Repository, interval time.Duration) *DrawService {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &DrawService{
		repo:     repo,
		interval: interval,
		phase:    PhaseIdle,
		subs:     make(map[int]chan Snapshot),
	}
}

// Start transitions Idle or Settled into Spinning. Fails when fewer than
// two wishes exist, leaving the phase untouched.
func (s *DrawService) Start(ctx context.Context) error {
	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return apperrors.NewStorageError("list wishes", err)
	}
	if len(wishes) < MinWishesForDraw {
		return apperrors.NewInsufficientWishesError(len(wishes), MinWishesForDraw)
	}

	s.mu.Lock()
	if s.phase == PhaseSpinning {
		s.mu.Unlock()
		return nil
	}

	s.phase = PhaseSpinning
	s.session++
	s.winner = nil
	s.wishCount = len(wishes)
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stopSpin = stop
	s.spinDone = done
	s.mu.Unlock()

	go s.spin(stop, done)

	logger.Info().Int("wishes", len(wishes)).Msg("Draw started")
	return nil
}

// spin re-samples the displayed wish from the full current collection on
// every tick until cancelled. Tick sampling has no bearing on the winner.
func (s *DrawService) spin(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			wishes, err := s.repo.ListWishes(ctx)
			cancel()
			if err != nil || len(wishes) == 0 {
				continue
			}

			wish := wishes[rand.Intn(len(wishes))]

			s.mu.Lock()
			if s.phase != PhaseSpinning {
				s.mu.Unlock()
				return
			}
			s.displayed = &wish
			s.wishCount = len(wishes)
			snap := s.snapshotLocked()
			s.mu.Unlock()

			s.broadcast(snap)
		}
	}
}

// Stop settles the session: the spin ticker is cancelled and one fresh
// uniform sample over the collection at stop time becomes the winner.
// Stopping a session that is not spinning is a no-op. A reset that lands
// while the settle is in flight wins; the stale settle is discarded.
func (s *DrawService) Stop(ctx context.Context) (*wishlistmodels.Wish, error) {
	s.mu.Lock()
	if s.phase != PhaseSpinning {
		winner := s.winner
		s.mu.Unlock()
		return winner, nil
	}
	session := s.session
	s.cancelSpinLocked()
	s.mu.Unlock()

	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		s.abandonSettle(session)
		return nil, apperrors.NewStorageError("list wishes", err)
	}
	if len(wishes) == 0 {
		// The collection was cleared mid-spin; nothing to settle on.
		s.abandonSettle(session)
		return nil, apperrors.NewInsufficientWishesError(0, 1)
	}

	winner, err := random.Pick(wishes)
	if err != nil {
		s.abandonSettle(session)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to draw a winner")
	}

	s.mu.Lock()
	if s.session != session {
		// Reset or restarted while the settle was in flight.
		current := s.winner
		s.mu.Unlock()
		return current, nil
	}
	s.phase = PhaseSettled
	s.session++
	s.displayed = &winner
	s.winner = &winner
	s.wishCount = len(wishes)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(snap)

	logger.Info().Str("name", winner.Name).Msg("Winner announced")
	return &winner, nil
}

// Reset tears the session down to Idle, cancelling any running spin. No
// winner is recorded. Idempotent.
func (s *DrawService) Reset() {
	s.resetSession()
	logger.Debug().Msg("Draw session reset")
}

// Snapshot returns the current session state.
func (s *DrawService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer of session frames. The returned cancel
// function must be called when the observer goes away.
func (s *DrawService) Subscribe() (<-chan Snapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 16)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

func (s *DrawService) resetSession() {
	s.mu.Lock()
	snap := s.teardownLocked()
	s.mu.Unlock()

	s.broadcast(snap)
}

// abandonSettle resets the session unless another transition claimed it
// while the settle held no lock.
func (s *DrawService) abandonSettle(session uint64) {
	s.mu.Lock()
	if s.session != session {
		s.mu.Unlock()
		return
	}
	snap := s.teardownLocked()
	s.mu.Unlock()

	s.broadcast(snap)
}

func (s *DrawService) teardownLocked() Snapshot {
	s.cancelSpinLocked()
	s.session++
	s.phase = PhaseIdle
	s.displayed = nil
	s.winner = nil
	return s.snapshotLocked()
}

// cancelSpinLocked stops the spin goroutine and waits for it to exit.
// Callers must hold s.mu.
func (s *DrawService) cancelSpinLocked() {
	if s.stopSpin == nil {
		return
	}
	close(s.stopSpin)
	done := s.spinDone
	s.stopSpin = nil
	s.spinDone = nil

	// The spin goroutine only takes s.mu briefly per tick, so release it
	// while waiting.
	s.mu.Unlock()
	<-done
	s.mu.Lock()
}

func (s *DrawService) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:     s.phase,
		Displayed: s.displayed,
		Winner:    s.winner,
		WishCount: s.wishCount,
	}
}

func (s *DrawService) broadcast(snap Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Slow observers drop frames rather than stalling the spin.
		}
	}
}
