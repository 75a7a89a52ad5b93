package domain

import "github.com/shopspring/decimal"

// Service описывает услугу (груминг, вакцинация и т.п.).
type Service struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}
