package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mergington/internal/dto"
	"mergington/internal/observability"
	"mergington/internal/repo"
	"mergington/pkg/validator"
)

type Service interface {
	GetActivities(ctx *gin.Context)
	SignUp(ctx *gin.Context)
	Unregister(ctx *gin.Context)
}

// Publisher pushes roster-change payloads to the notification exchange.
// A nil Publisher disables fan-out entirely.
type Publisher interface {
	Publish(message []byte) error
}

type service struct {
	registry *repo.Registry
	log      *zerolog.Logger
	rbt      Publisher
}

func NewService(registry *repo.Registry, logger *zerolog.Logger, rbt Publisher) Service {
	return &service{
		registry: registry,
		log:      logger,
		rbt:      rbt,
	}
}

func (s *service) GetActivities(ctx *gin.Context) {
	ctx.JSON(200, s.registry.List())
}

func (s *service) SignUp(ctx *gin.Context) {
	activityName := ctx.Param("name")

	var req dto.SignupRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid query parameters")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	if err := s.registry.SignUp(activityName, req.Email); err != nil {
		switch {
		case errors.Is(err, repo.ErrActivityNotFound):
			dto.ActivityNotFoundError(ctx)
		case errors.Is(err, repo.ErrAlreadySignedUp):
			dto.AlreadySignedUpError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to sign up student")
			dto.BadRequestError(ctx, err.Error())
		}
		return
	}

	s.log.Info().
		Str("activity", activityName).
		Str("email", req.Email).
		Msg("student signed up")
	observability.RecordSignup(activityName)
	s.publishRosterChange(activityName, req.Email, dto.ActionSignedUp)

	dto.SuccessMessage(ctx, dto.SignedUpMessage(req.Email, activityName))
}

func (s *service) Unregister(ctx *gin.Context) {
	activityName := ctx.Param("name")

	var req dto.SignupRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid query parameters")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	if err := s.registry.Unregister(activityName, req.Email); err != nil {
		switch {
		case errors.Is(err, repo.ErrActivityNotFound):
			dto.ActivityNotFoundError(ctx)
		case errors.Is(err, repo.ErrNotRegistered):
			dto.NotRegisteredError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to unregister student")
			dto.BadRequestError(ctx, err.Error())
		}
		return
	}

	s.log.Info().
		Str("activity", activityName).
		Str("email", req.Email).
		Msg("student unregistered")
	observability.RecordUnregister(activityName)
	s.publishRosterChange(activityName, req.Email, dto.ActionUnregistered)

	dto.SuccessMessage(ctx, dto.UnregisteredMessage(req.Email, activityName))
}

// publishRosterChange fans the change out to RabbitMQ. Publish errors are
// logged only; the roster mutation has already committed and the HTTP
// response must not depend on the broker.
func (s *service) publishRosterChange(activityName, email, action string) {
	if s.rbt == nil {
		return
	}
	msg := dto.RosterChangeMessage{
		Activity:   activityName,
		Email:      email,
		Action:     action,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal roster change message")
		return
	}
	if err := s.rbt.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish roster change to RabbitMQ")
	}
}
