package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	eventModel "lockngo/internal/domains/event/model"
	eventService "lockngo/internal/domains/event/service"
	"lockngo/internal/domains/user/model"
	"lockngo/internal/domains/user/model/dto"
	"lockngo/internal/domains/user/repository"
	"lockngo/shared"
	"lockngo/shared/clock"
	"lockngo/shared/constant"
	"lockngo/shared/failure"
	"lockngo/shared/latency"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type User interface {
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	GetAll(ctx context.Context) ([]dto.UserResponse, error)
	VerifyAgent(ctx context.Context, id string) (dto.UserResponse, error)
}

type serviceImpl struct {
	db        *sqlite.DB
	repo      repository.User
	publisher eventService.Publisher
	clock     clock.Clock
	latency   latency.Injector
	otel      otel.Otel
}

func New(
	db *sqlite.DB,
	repo repository.User,
	publisher eventService.Publisher,
	clk clock.Clock,
	lat latency.Injector,
	otel otel.Otel,
) User {
	return &serviceImpl{
		db:        db,
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		latency:   lat,
		otel:      otel,
	}
}

// Get returns a user profile. Customers and agents may only read their own.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if actor.ID != id && actor.Role != constant.RoleAdmin {
		return res, failure.ResourceRestrictedError
	}

	var user model.User

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		user, err = s.repo.Get(ctx, tx, id)

		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, failure.NotFound("user not found") // nolint:wrapcheck
		}

		log.Error().Err(err).Str("user_id", id).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	res.FromModel(user)

	return res, nil
}

// GetAll lists every user ordered by role, then name.
func (s *serviceImpl) GetAll(ctx context.Context) (res []dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	if shared.ActorFromContext(ctx).Role != constant.RoleAdmin {
		return res, failure.ForbiddenError
	}

	var users []model.User

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		users, err = s.repo.GetAll(ctx, tx)

		return err
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	sort.SliceStable(users, func(i, j int) bool {
		ri, rj := model.RoleRank(users[i].Role), model.RoleRank(users[j].Role)
		if ri != rj {
			return ri < rj
		}

		return users[i].Name < users[j].Name
	})

	return dto.FromModels(users), nil
}

// VerifyAgent marks an agent as verified. Verifying twice is a no-op.
func (s *serviceImpl) VerifyAgent(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.VerifyAgent")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("user.id", id)

	if err = s.latency.Wait(ctx); err != nil {
		return res, err //nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if actor.Role != constant.RoleAdmin {
		return res, failure.Forbidden("only an admin can verify agents") // nolint:wrapcheck
	}

	unlock := s.db.Lock(model.EntityName + ":" + id)
	defer unlock()

	var (
		agent   model.User
		changed bool
	)

	err = s.db.Update(ctx, func(tx *sqlx.Tx) error {
		agent, err = s.repo.Get(ctx, tx, id)
		if err != nil {
			return err
		}

		if !agent.IsAgent() {
			return failure.NotFound("agent not found")
		}

		if agent.Verified {
			return nil
		}

		agent.Verified = true
		agent.Touch(s.clock.Now(), actor.ID)
		changed = true

		return s.repo.Update(ctx, tx, agent)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, failure.NotFound("agent not found") // nolint:wrapcheck
		}

		if errors.Is(err, failure.ErrNotFound) {
			return res, err
		}

		log.Error().Err(err).Str("user_id", id).Msg("failed to verify agent")

		return res, fmt.Errorf("failed to verify agent: %w", err)
	}

	if changed {
		s.publisher.Publish(ctx, eventModel.Event{
			Type:       eventModel.TypeAgentVerified,
			EntityID:   agent.ID,
			ActorID:    actor.ID,
			OccurredAt: agent.ModifiedAt,
		})
	}

	res.FromModel(agent)

	return res, nil
}
