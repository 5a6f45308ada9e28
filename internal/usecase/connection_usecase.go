package usecase

import (
	"context"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/pkg/errors"
)

type ConnectionUseCase struct {
	connectionRepo repository.ConnectionRepository
	blockRepo      repository.BlockRepository
	functions      FunctionCaller
	network        Reachability
	telemetry      *telemetry.Recorder
}

func NewConnectionUseCase(
	connectionRepo repository.ConnectionRepository,
	blockRepo repository.BlockRepository,
	functions FunctionCaller,
	network Reachability,
	recorder *telemetry.Recorder,
) *ConnectionUseCase {
	return &ConnectionUseCase{
		connectionRepo: connectionRepo,
		blockRepo:      blockRepo,
		functions:      functions,
		network:        network,
		telemetry:      recorder,
	}
}

// Phase returns uid's side of the edge, ConnectionNone when there is none.
func (uc *ConnectionUseCase) Phase(ctx context.Context, uid, otherID string) (entity.ConnectionPhase, error) {
	conn, err := uc.connectionRepo.Get(ctx, uid, otherID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return entity.ConnectionNone, nil
		}
		return "", err
	}
	return conn.Phase, nil
}

func (uc *ConnectionUseCase) List(ctx context.Context, uid string, phase entity.ConnectionPhase, cursor string, limit int) (*Page[*entity.Connection], error) {
	if phase == "" {
		phase = entity.ConnectionConnected
	}
	conns, err := uc.connectionRepo.List(ctx, uid, phase, cursor, limit)
	if err != nil {
		return nil, err
	}
	return newPage(conns, limit, func(c *entity.Connection) string { return c.UserID }), nil
}

func (uc *ConnectionUseCase) Count(ctx context.Context, uid string) (int64, error) {
	return uc.connectionRepo.Count(ctx, uid, entity.ConnectionConnected)
}

// Connect sends a request: uid's side becomes pending, the other side
// received.
func (uc *ConnectionUseCase) Connect(ctx context.Context, uid, otherID string) error {
	if uid == otherID {
		return errors.BadRequest("Cannot connect with yourself", nil)
	}
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := uc.checkNotBlocked(ctx, uid, otherID); err != nil {
		return err
	}

	current, err := uc.Phase(ctx, uid, otherID)
	if err != nil {
		return err
	}
	switch current {
	case entity.ConnectionConnected, entity.ConnectionPending:
		return errors.Exists("Connection")
	case entity.ConnectionReceived:
		return uc.Accept(ctx, uid, otherID)
	}

	if err := uc.transition(ctx, uid, otherID, current, entity.ConnectionPending, entity.ConnectionReceived); err != nil {
		return err
	}

	uc.functions.Call(FnConnectionRequest, map[string]string{"uid": uid, "otherId": otherID}, "")
	uc.telemetry.Event(ctx, telemetry.EventConnect)
	return nil
}

func (uc *ConnectionUseCase) Accept(ctx context.Context, uid, otherID string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := uc.expect(ctx, uid, otherID, entity.ConnectionReceived); err != nil {
		return err
	}
	if err := uc.transition(ctx, uid, otherID, entity.ConnectionReceived, entity.ConnectionConnected, entity.ConnectionConnected); err != nil {
		return err
	}

	uc.functions.Call(FnConnectionAccept, map[string]string{"uid": uid, "otherId": otherID}, "")
	return nil
}

func (uc *ConnectionUseCase) Reject(ctx context.Context, uid, otherID string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := uc.expect(ctx, uid, otherID, entity.ConnectionReceived); err != nil {
		return err
	}
	return uc.transition(ctx, uid, otherID, entity.ConnectionReceived, entity.ConnectionRejected, entity.ConnectionRejected)
}

// Withdraw cancels a request uid sent.
func (uc *ConnectionUseCase) Withdraw(ctx context.Context, uid, otherID string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := uc.expect(ctx, uid, otherID, entity.ConnectionPending); err != nil {
		return err
	}
	return uc.transition(ctx, uid, otherID, entity.ConnectionPending, entity.ConnectionWithdraw, entity.ConnectionWithdraw)
}

func (uc *ConnectionUseCase) Unconnect(ctx context.Context, uid, otherID string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	if err := uc.expect(ctx, uid, otherID, entity.ConnectionConnected); err != nil {
		return err
	}
	return uc.transition(ctx, uid, otherID, entity.ConnectionConnected, entity.ConnectionUnconnect, entity.ConnectionUnconnect)
}

func (uc *ConnectionUseCase) expect(ctx context.Context, uid, otherID string, want entity.ConnectionPhase) error {
	current, err := uc.Phase(ctx, uid, otherID)
	if err != nil {
		return err
	}
	if current != want {
		return errors.BadRequest("Connection is "+string(current)+", expected "+string(want), nil)
	}
	return nil
}

// transition writes uid's side then the other side. previous restores uid's
// side if the second write fails.
func (uc *ConnectionUseCase) transition(ctx context.Context, uid, otherID string, previous, mine, theirs entity.ConnectionPhase) error {
	return twoSided(ctx,
		step{
			do: func(ctx context.Context) error {
				return uc.connectionRepo.Set(ctx, uid, otherID, mine)
			},
			undo: func(ctx context.Context) error {
				if previous == entity.ConnectionNone {
					return uc.connectionRepo.Delete(ctx, uid, otherID)
				}
				return uc.connectionRepo.Set(ctx, uid, otherID, previous)
			},
		},
		func(ctx context.Context) error {
			return uc.connectionRepo.Set(ctx, otherID, uid, theirs)
		},
	)
}

func (uc *ConnectionUseCase) checkNotBlocked(ctx context.Context, uid, otherID string) error {
	return notBlocked(ctx, uc.blockRepo, uid, otherID)
}

// notBlocked fails when either user blocked the other.
func notBlocked(ctx context.Context, blocks repository.BlockRepository, uid, otherID string) error {
	var blocked [2]bool
	err := join(2, func(i int) error {
		var err error
		if i == 0 {
			blocked[0], err = blocks.IsBlocked(ctx, uid, otherID)
		} else {
			blocked[1], err = blocks.IsBlocked(ctx, otherID, uid)
		}
		return err
	})
	if err != nil {
		return err
	}
	if blocked[0] || blocked[1] {
		return errors.Forbidden("User is blocked", nil)
	}
	return nil
}
