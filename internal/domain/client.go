package domain

import "time"

// Client описывает клиента магазина (справочные данные).
type Client struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
