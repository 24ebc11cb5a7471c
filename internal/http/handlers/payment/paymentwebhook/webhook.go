package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/paymentprovider"
)

// SignatureHeader — заголовок с HMAC-подписью тела webhook-запроса.
const SignatureHeader = "X-Gateway-Signature"

type Service interface {
	ProcessWebhookEvent(ctx context.Context, event *paymentprovider.WebhookEvent) error
}

type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Проверка подписи webhook: HMAC-SHA512 от тела запроса в hex.
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer func() { _ = r.Body.Close() }()

	signature := r.Header.Get(SignatureHeader)
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event paymentprovider.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Подпись верна — отвечаем 200 даже при внутренней ошибке сверки,
	// иначе шлюз будет бесконечно ретраить доставку. Ошибка остаётся в логах,
	// состояние догонит клиентская верификация по референсу.
	if err := h.service.ProcessWebhookEvent(r.Context(), &event); err != nil {
		log.Error("failed to process webhook event", sl.Err(err),
			slog.String("event", event.Event),
			slog.String("reference", event.Data.Reference))
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Info("webhook processed", slog.String("event", event.Event),
		slog.String("reference", event.Data.Reference))
	w.WriteHeader(http.StatusOK)
}
