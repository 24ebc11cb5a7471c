package models

import "time"

// SubscriptionStatusActive — единственный статус подписки в текущей модели.
// Истечение определяется по EndDate, запись после создания не изменяется.
const SubscriptionStatusActive = "active"

// Subscription представляет оплаченную подписку пользователя.
// Создаётся ровно один раз на каждый успешный платёж; GatewayReference
// уникален и служит ключом идемпотентности при сверке.
type Subscription struct {
	UID              string    // Уникальный идентификатор подписки
	UserUID          string    // Идентификатор пользователя-владельца
	Plan             string    // Идентификатор тарифного плана
	AmountPaid       int64     // Оплаченная сумма в минорных единицах валюты
	GatewayReference string    // Референс транзакции платёжного шлюза (уникальный)
	DiscountCode     *string   // Применённый промокод (nil, если не применялся)
	Status           string    // Статус подписки
	StartDate        time.Time // Дата начала
	EndDate          time.Time // Дата окончания
	CreatedAt        time.Time // Дата создания записи
}

// SubscriptionSummary — проекция подписки для ответов API.
type SubscriptionSummary struct {
	Plan    string    `json:"plan"`
	Status  string    `json:"status"`
	EndDate time.Time `json:"end_date"`
}
