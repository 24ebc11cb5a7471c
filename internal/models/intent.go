package models

// TransactionIntent описывает, что именно покупается в рамках транзакции.
// Структура уходит в метаданные платёжного шлюза при инициализации и
// возвращается без изменений при верификации или в webhook-событии.
// Для сверки платежа это единственный источник истины: план и сумма
// не пересчитываются заново, потому что сумма могла быть со скидкой.
type TransactionIntent struct {
	UserUID        string  `json:"user_uid"`
	PlanID         string  `json:"plan_id"`
	DiscountCode   *string `json:"discount_code,omitempty"`
	OriginalAmount int64   `json:"original_amount"`
	FinalAmount    int64   `json:"final_amount"`
}
