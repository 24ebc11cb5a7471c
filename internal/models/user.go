// Package models содержит доменные структуры сервиса:
// пользователей, подписки и платёжные намерения, передаваемые
// через метаданные платёжного шлюза.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная, хранится в нижнем регистре)
	PasswordHash string    // Хэш пароля пользователя
	IsSubscribed bool      // Флаг активной подписки, обновляется только при сверке платежа
	CreatedAt    time.Time // Дата регистрации
}
