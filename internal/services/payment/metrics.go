package payment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsInitialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_payments_initialized_total",
		Help: "Количество инициализированных транзакций в платёжном шлюзе.",
	})
	paymentsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_payments_reconciled_total",
		Help: "Количество успешно сверенных платежей с активацией подписки.",
	})
	paymentsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_payments_duplicate_reconciliations_total",
		Help: "Количество повторных сверок уже обработанного референса.",
	})
)
