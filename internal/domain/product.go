package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Colors      []string  `json:"colors"`
	Sizes       []string  `json:"sizes"`
	CreatedAt   time.Time `json:"created_at"`
}
