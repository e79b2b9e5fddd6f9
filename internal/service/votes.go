package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/spark_cart/internal/models"
	"github.com/Skotchmaster/spark_cart/internal/realtime"
	"github.com/Skotchmaster/spark_cart/internal/repo"
	"github.com/Skotchmaster/spark_cart/pkg/logging"
)

const (
	defaultKeepAlive = 25 * time.Second
	recountTimeout   = 3 * time.Second
)

type VoteService struct {
	Repo     *repo.GormRepo
	Notifier realtime.Notifier

	// KeepAlive is how often Watch pings an idle sink.
	KeepAlive time.Duration
}

// ToggleOutcome is what a toggle did plus the state the caller should now show.
type ToggleOutcome struct {
	Result models.ToggleResult
	Tally  Tally
	// MyVote is "" when the toggle left the caller without a vote.
	MyVote models.VoteKind
	// TallyStale is set when the vote committed but the recount failed;
	// Tally is then zero and clients should refetch.
	TallyStale bool
}

func validateTarget(target models.Target) error {
	if !target.Type.Valid() {
		return fmt.Errorf("unknown target type %q: %w", target.Type, ErrValidation)
	}
	if target.ID == uuid.Nil {
		return fmt.Errorf("target id required: %w", ErrValidation)
	}
	return nil
}

// Toggle adds, removes or switches the user's vote on target, which must
// belong to cartID. Subscribers are notified after the change committed.
func (s *VoteService) Toggle(ctx context.Context, userID, cartID uuid.UUID, target models.Target, kind models.VoteKind) (*ToggleOutcome, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if kind.Family() != target.Type {
		return nil, fmt.Errorf("vote type %q does not apply to %s: %w", kind, target.Type, ErrValidation)
	}

	result, vote, err := s.Repo.ToggleVote(ctx, userID, cartID, target, kind)
	if err != nil {
		return nil, storeErr("toggle vote", err)
	}

	l := logging.FromContext(ctx).With("svc", "votes")
	l.Debug("vote_toggled", "target_type", target.Type, "target_id", target.ID, "kind", kind, "result", result)

	if s.Notifier != nil {
		if err := s.Notifier.Notify(ctx, realtime.NewChange(target, cartID)); err != nil {
			l.Warn("vote_notify_failed", "target_id", target.ID, "error", err)
		}
	}

	// from here on the vote is committed and Toggle reports success
	out := &ToggleOutcome{Result: result}
	countCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recountTimeout)
	defer cancel()
	if tally, err := s.CountVotes(countCtx, target); err != nil {
		l.Warn("vote_recount_failed", "target_id", target.ID, "error", err)
		out.TallyStale = true
	} else {
		out.Tally = tally
	}
	if vote != nil {
		out.MyVote = vote.Kind
	}
	return out, nil
}

// CountVotes returns the target's tally; a target nobody voted on is {0, 0}.
func (s *VoteService) CountVotes(ctx context.Context, target models.Target) (Tally, error) {
	if err := validateTarget(target); err != nil {
		return Tally{}, err
	}
	rows, err := s.Repo.CountVotes(ctx, target)
	if err != nil {
		return Tally{}, storeErr("count votes", err)
	}
	return tallies(rows)[target], nil
}

// VoteState is one viewer's votes on one cart. It lives for a single request.
type VoteState map[models.Target]models.VoteKind

func (v VoteState) Of(t models.Target) models.VoteKind {
	return v[t]
}

// VoteState loads the user's votes on the cart; anonymous viewers get an empty state.
func (s *VoteService) VoteState(ctx context.Context, userID, cartID uuid.UUID) (VoteState, error) {
	state := VoteState{}
	if userID == uuid.Nil {
		return state, nil
	}
	votes, err := s.Repo.UserVotes(ctx, userID, cartID)
	if err != nil {
		return nil, storeErr("load votes", err)
	}
	for _, v := range votes {
		state[v.Target()] = v.Kind
	}
	return state, nil
}

// WatchSink receives Watch output. Returning an error stops the watch.
type WatchSink interface {
	Tally(target models.Target, t Tally) error
	KeepAlive() error
}

// Watch sends the current tally of every target, then a recount for each
// target src reports as changed, until ctx is done or the sink fails.
func (s *VoteService) Watch(ctx context.Context, src realtime.Source, targets []models.Target, sink WatchSink) error {
	for _, t := range targets {
		if err := validateTarget(t); err != nil {
			return err
		}
	}

	// subscribe before the snapshot so a change in between is not lost
	sub := src.Subscribe(targets...)
	defer src.Unsubscribe(sub)

	emit := func(ts []models.Target) error {
		for _, t := range ts {
			tally, err := s.CountVotes(ctx, t)
			if err != nil {
				return err
			}
			if err := sink.Tally(t, tally); err != nil {
				return err
			}
		}
		return nil
	}

	if err := emit(sub.Targets()); err != nil {
		return err
	}

	every := s.KeepAlive
	if every <= 0 {
		every = defaultKeepAlive
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Ready():
			if err := emit(sub.Drain()); err != nil {
				return err
			}
		case <-ticker.C:
			if err := sink.KeepAlive(); err != nil {
				return err
			}
		}
	}
}
