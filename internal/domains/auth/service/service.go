package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"lockngo/config"
	"lockngo/infras/jwt"
	"lockngo/infras/otel"
	"lockngo/infras/sqlite"
	"lockngo/internal/domains/auth/model/dto"
	eventModel "lockngo/internal/domains/event/model"
	eventService "lockngo/internal/domains/event/service"
	userModel "lockngo/internal/domains/user/model"
	userDto "lockngo/internal/domains/user/model/dto"
	userRepo "lockngo/internal/domains/user/repository"
	"lockngo/shared"
	"lockngo/shared/cache"
	"lockngo/shared/clock"
	"lockngo/shared/constant"
	"lockngo/shared/failure"
	"lockngo/shared/generator"
	"lockngo/shared/validator"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Auth issues identity tokens. Logging in is role selection by email, not
// authentication: there are no credentials.
type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (userDto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, req dto.LogoutRequest) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

type serviceImpl struct {
	cfg        *config.Config
	db         *sqlite.DB
	userRepo   userRepo.User
	jwtService jwt.JWT
	cache      cache.RedisCache
	generator  generator.Generator
	clock      clock.Clock
	publisher  eventService.Publisher
	otel       otel.Otel
}

func New(
	cfg *config.Config,
	db *sqlite.DB,
	userRepo userRepo.User,
	jwtService jwt.JWT,
	redisCache cache.RedisCache,
	gen generator.Generator,
	clk clock.Clock,
	publisher eventService.Publisher,
	otel otel.Otel,
) Auth {
	return &serviceImpl{
		cfg:        cfg,
		db:         db,
		userRepo:   userRepo,
		jwtService: jwtService,
		cache:      redisCache,
		generator:  gen,
		clock:      clk,
		publisher:  publisher,
		otel:       otel,
	}
}

func revokedKey(tokenID string) string {
	return shared.BuildCacheKey(constant.CacheKeyRevokedToken, tokenID)
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	user := req.ToUserModel(s.generator.ID(), s.clock.Now())

	err = s.db.Update(ctx, func(tx *sqlx.Tx) error {
		return s.userRepo.Insert(ctx, tx, user)
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrDuplicateEmail) {
			return res, failure.Conflict("email already registered") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	s.publisher.Publish(ctx, eventModel.Event{
		Type:       eventModel.TypeUserRegistered,
		EntityID:   user.ID,
		ActorID:    user.ID,
		OccurredAt: user.CreatedAt,
		Data:       map[string]any{"role": user.Role},
	})

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	var user userModel.User

	err = s.db.View(ctx, func(tx *sqlx.Tx) error {
		user, err = s.userRepo.GetByEmail(ctx, tx, strings.TrimSpace(req.Email))

		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn().Str("email", req.Email).Msg("login attempt with unknown email")

			return res, failure.Unauthorized("no account registered for this email") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)
	res.UserID = user.ID
	res.Role = user.Role

	return res, nil
}

// RefreshToken rotates a token pair. The presented refresh token is revoked.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	if s.IsRevoked(ctx, claims.TokenID) {
		return res, failure.Unauthorized("refresh token has been revoked") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	s.revoke(ctx, claims.TokenID, s.cfg.JWT.RefreshExpireMin)

	res.FromTokenPair(tokenPair)

	return res, nil
}

// Logout revokes the caller's access token and the given refresh token until
// they would have expired anyway.
func (s *serviceImpl) Logout(ctx context.Context, req dto.LogoutRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Logout")
	defer scope.End()
	defer scope.TraceIfError(err)

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		return failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	actor := shared.ActorFromContext(ctx)
	if claims.UserID != actor.ID {
		return failure.Forbidden("refresh token belongs to another user") // nolint:wrapcheck
	}

	if tokenID, ok := ctx.Value(constant.ContextKeyTokenID).(string); ok && tokenID != "" {
		s.revoke(ctx, tokenID, s.cfg.JWT.AccessExpireMin)
	}

	s.revoke(ctx, claims.TokenID, s.cfg.JWT.RefreshExpireMin)

	return nil
}

func (s *serviceImpl) revoke(ctx context.Context, tokenID string, expireMin int) {
	if err := s.cache.Save(ctx, revokedKey(tokenID), "1", expireMin*constant.MinutesToSeconds); err != nil {
		log.Warn().Err(err).Str("token_id", tokenID).Msg("failed to revoke token")
	}
}

// IsRevoked reports whether a token id was revoked. Cache failures are logged
// and treated as not revoked.
func (s *serviceImpl) IsRevoked(ctx context.Context, tokenID string) bool {
	var value string

	err := s.cache.Get(ctx, revokedKey(tokenID), &value)
	if err == nil {
		return true
	}

	if !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("token_id", tokenID).Msg("failed to check token revocation")
	}

	return false
}
