package paymentprovider

import "github.com/magabrotheeeer/subscription-billing/internal/models"

// TransactionStatusSuccess — статус успешно завершённой транзакции шлюза.
const TransactionStatusSuccess = "success"

// EventChargeSuccess — единственное webhook-событие, приводящее к активации подписки.
const EventChargeSuccess = "charge.success"

// InitializeTransactionRequest представляет запрос на инициализацию транзакции.
// Amount задаётся в минорных единицах валюты. Metadata возвращается шлюзом
// без изменений и несёт намерение транзакции.
type InitializeTransactionRequest struct {
	Email       string                   `json:"email"`
	Amount      int64                    `json:"amount"`
	Currency    string                   `json:"currency"`
	CallbackURL string                   `json:"callback_url,omitempty"`
	Metadata    models.TransactionIntent `json:"metadata"`
}

// InitializeTransactionResponse представляет ответ шлюза на инициализацию.
type InitializeTransactionResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"` // URL для оплаты
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"` // Референс транзакции
	} `json:"data"`
}

// TransactionData — данные транзакции, общие для ответа верификации и webhook-события.
type TransactionData struct {
	Status    string                   `json:"status"` // success | failed
	Reference string                   `json:"reference"`
	Amount    int64                    `json:"amount"`
	Metadata  models.TransactionIntent `json:"metadata"`
}

// VerifyTransactionResponse представляет ответ шлюза на запрос верификации.
type VerifyTransactionResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    TransactionData `json:"data"`
}

// WebhookEvent — событие, которое шлюз отправляет на webhook-эндпоинт.
type WebhookEvent struct {
	Event string          `json:"event"`
	Data  TransactionData `json:"data"`
}
