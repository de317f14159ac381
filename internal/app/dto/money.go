package dto

import "pethost/internal/domain/shared/money"

type MoneyDTO struct {
	Amount   int64   `json:"amount"`
	Major    float64 `json:"major"`
	Currency string  `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Major: value.Major(), Currency: value.Currency}
}

// Page wraps a window of a longer result list.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Window slices items to [offset, offset+limit) without panicking on bounds.
func Window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
