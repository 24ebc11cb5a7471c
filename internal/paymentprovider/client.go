// Package paymentprovider содержит HTTP-клиент платёжного шлюза.
// Шлюз инициализирует транзакции и сообщает их статус; клиент ограничивает
// время запроса и один раз повторяет запрос при сетевой ошибке.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client — клиент платёжного шлюза.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент шлюза. При нулевом timeout
// используется значение по умолчанию 10 секунд.
func NewClient(secretKey, apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do выполняет запрос с одним повтором при транспортной ошибке.
// Ошибки уровня HTTP-статуса не повторяются.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := c.newRequest(ctx, method, path, body)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		func() {
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
				lastErr = errors.New("unexpected status: " + resp.Status)
				return
			}
			lastErr = json.NewDecoder(resp.Body).Decode(result)
		}()
		if lastErr == nil {
			return nil
		}
		// Повторяем только сетевые сбои, не ответы шлюза.
		break
	}
	return lastErr
}

// InitializeTransaction отправляет запрос на инициализацию транзакции
// и возвращает URL авторизации платежа с референсом.
func (c *Client) InitializeTransaction(ctx context.Context, reqParams InitializeTransactionRequest) (*InitializeTransactionResponse, error) {
	const op = "paymentprovider.InitializeTransaction"
	var initResp InitializeTransactionResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", reqParams, &initResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !initResp.Status {
		return nil, fmt.Errorf("%s: gateway rejected transaction: %s", op, initResp.Message)
	}
	return &initResp, nil
}

// VerifyTransaction запрашивает у шлюза текущий статус транзакции по референсу.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyTransactionResponse, error) {
	const op = "paymentprovider.VerifyTransaction"
	var verifyResp VerifyTransactionResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &verifyResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !verifyResp.Status {
		return nil, fmt.Errorf("%s: gateway rejected verification: %s", op, verifyResp.Message)
	}
	return &verifyResp, nil
}
