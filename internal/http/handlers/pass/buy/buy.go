// Package buy реализует HTTP-обработчик покупки и продления месячного абонемента.
//
// Handler извлекает имя пользователя из контекста (его кладёт JWT middleware),
// вызывает учёт абонементов и возвращает исход: новая покупка, продление
// истёкшего абонемента или сообщение о том, что абонемент ещё действует.
package buy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/middlewarectx"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/http/response"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/lib/sl"
	"github.com/Sriragulcodez/leo-coffee-shop/internal/models"
)

// Handler управляет HTTP-запросами на покупку и продление абонемента.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис учёта абонементов
}

// Service описывает интерфейс бизнес-логики покупки абонемента.
type Service interface {
	PurchaseOrRenew(ctx context.Context, username string) (*models.PurchaseResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Купить или продлить месячный абонемент
// @Description Создаёт новый абонемент на 30 кофе и 30 дней либо продлевает истёкший. Действующий абонемент не меняется.
// @Tags Pass
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Исход покупки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /pass [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.pass.buy"
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

	result, err := h.service.PurchaseOrRenew(r.Context(), username)
	if err != nil {
		log.Error("failed to purchase pass", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not purchase pass"))
		return
	}

	var message string
	switch result.Outcome {
	case models.PurchaseCreated:
		message = "Monthly pass purchased! 30 coffees added."
	case models.PurchaseRenewed:
		message = "Monthly pass renewed! 30 coffees added."
	case models.PurchaseAlreadyActive:
		message = "You already have an active monthly pass."
	}

	log.Info("purchase request handled",
		slog.String("username", username),
		slog.String("outcome", string(result.Outcome)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message":           message,
		"outcome":           result.Outcome,
		"remaining_coffees": result.RemainingUnits,
		"end_date":          result.EndDate,
	}))
}
