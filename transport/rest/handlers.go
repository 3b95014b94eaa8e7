package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/nim-backend/internal/apperror"
	"github.com/rocketscienceinc/nim-backend/internal/entity"
)

type nimService interface {
	CurrentState() entity.State
	TakeTurn(ctx context.Context, count int) (entity.State, error)
	Reset(ctx context.Context) entity.State
	Configure(ctx context.Context, initialPileSize, maxMoveSize int)
}

// TurnRequest - the number of tokens the human takes.
type TurnRequest struct {
	NimCount *int `json:"nimCount" validate:"required,min=1"`
}

// ConfigRequest - rules for the games started after the next reset.
type ConfigRequest struct {
	InitialPileSize *int `json:"initialPileSize" validate:"required,min=2"`
	MaxNimCount     *int `json:"maxNimCount" validate:"required,min=2"`
}

type handlers struct {
	logger   *slog.Logger
	nim      nimService
	validate *validator.Validate
}

func newHandlers(logger *slog.Logger, nim nimService) *handlers {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &handlers{
		logger:   logger.With("component", "rest"),
		nim:      nim,
		validate: validate,
	}
}

func (that *handlers) GetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.nim.CurrentState())
}

func (that *handlers) PostTurn(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "PostTurn")

	var req TurnRequest
	if err := that.decode(r, &req); err != nil {
		log.Info("invalid turn request", "error", err)
		writeError(w, err)
		return
	}

	state, err := that.nim.TakeTurn(r.Context(), *req.NimCount)
	if err != nil {
		log.Info("turn rejected", "nimCount", *req.NimCount, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (that *handlers) PostReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, that.nim.Reset(r.Context()))
}

func (that *handlers) PostConfig(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "PostConfig")

	var req ConfigRequest
	if err := that.decode(r, &req); err != nil {
		log.Info("invalid config request", "error", err)
		writeError(w, err)
		return
	}

	that.nim.Configure(r.Context(), *req.InitialPileSize, *req.MaxNimCount)

	w.WriteHeader(http.StatusNoContent)
}

// decode - reads the JSON body into req and validates it.
func (that *handlers) decode(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}

	if err := that.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return fmt.Errorf("failed to validate request: %w", err)
		}

		fields := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, fieldErr.Field())
		}

		return &apperror.ValidationError{Fields: fields}
	}

	return nil
}
