// Package serve реализует HTTP-обработчик выдачи кофе по абонементу.
//
// Handler извлекает имя пользователя из контекста и просит сервис выдачи
// списать один кофе. Отказы учёта превращаются в 403 с причиной:
// нет действующего абонемента либо кофе в этом месяце закончились.
package serve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/middlewarectx"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/response"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/sl"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
	coffeeservice "github.com/Sriragulcodez/leo-coffee-shop/internal/services/coffee"
)

// Handler управляет HTTP-запросами на выдачу кофе.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис выдачи кофе
}

// Service описывает интерфейс бизнес-логики выдачи кофе.
type Service interface {
	Serve(ctx context.Context, username string) (*coffeeservice.ServeResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить кофе по абонементу
// @Description Списывает один кофе с действующего абонемента текущего пользователя.
// @Tags Coffee
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Кофе выдан, в ответе остаток"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет абонемента или кофе закончились"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /coffee [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coffee.serve"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	result, err := h.service.Serve(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoActivePass):
			log.Info("serve denied: no active pass", slog.String("username", username))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("No active monthly pass. Please buy one."))
		case errors.Is(err, models.ErrQuotaExhausted):
			log.Info("serve denied: quota exhausted", slog.String("username", username))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("You have used all coffees this month."))
		default:
			log.Error("failed to serve coffee", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not serve coffee"))
		}
		return
	}

	log.Info("coffee served",
		slog.String("username", username),
		slog.Int("remaining", result.RemainingUnits))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":           "Coffee served ☕",
		"remaining_coffees": result.RemainingUnits,
	}))
}
