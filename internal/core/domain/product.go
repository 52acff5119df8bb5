package domain

import "errors"

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID         string
	Name       string
	PriceCents int64
	Stock      int
}
