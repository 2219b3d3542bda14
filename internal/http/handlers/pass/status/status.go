// Package status реализует HTTP-обработчик чтения состояния абонемента.
//
// Чтение идёт через кеш статусов и может немного отставать от последней
// зафиксированной записи; на учёт это не влияет.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/middlewarectx"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/response"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/sl"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

// Handler управляет HTTP-запросами на чтение состояния абонемента.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис учёта абонементов
}

// Service описывает интерфейс чтения состояния абонемента.
type Service interface {
	Status(ctx context.Context, username string) (*models.Pass, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние месячного абонемента
// @Description Возвращает окно действия и остаток кофе текущего пользователя.
// @Tags Pass
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Состояние абонемента"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Абонемент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /pass [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pass.status"
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

	pass, err := h.service.Status(r.Context(), username)
	if err != nil {
		if errors.Is(err, models.ErrPassNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no monthly pass, please buy one"))
			return
		}
		log.Error("failed to read pass status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read pass status"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"username":          pass.Username,
		"start_date":        pass.StartDate,
		"end_date":          pass.EndDate,
		"remaining_coffees": pass.RemainingUnits,
		"active":            pass.IsActive(time.Now().UTC()),
	}))
}
