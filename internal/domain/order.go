package domain

import (
	"encoding/json"
	"time"
)

// Order is the single persisted record behind both the cart and the
// placed-orders views. IsCart distinguishes the two: true means the
// record still sits in the shopping cart, false means it has been
// checked out. The flag only ever flips true -> false.
type Order struct {
	ID              string     `json:"id"`
	Owner           string     `json:"user"`
	Product         ProductRef `json:"product"`
	IsCart          bool       `json:"isCart"`
	Status          Status     `json:"status,omitempty"`
	DeliveryAddress string     `json:"location,omitempty"`
	TotalAmount     float64    `json:"totalAmount,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// ProductRef is the order's product field. The store returns it either
// as a bare product id or as an inlined product object, depending on
// whether the read was denormalized.
type ProductRef struct {
	ID      string
	Inlined *Product
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		r.Inlined = nil
		return nil
	}
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	r.ID = p.ID
	r.Inlined = &p
	return nil
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	if r.Inlined != nil {
		return json.Marshal(r.Inlined)
	}
	return json.Marshal(r.ID)
}

// Name returns the denormalized product name, if present.
func (r ProductRef) Name() string {
	if r.Inlined != nil {
		return r.Inlined.Name
	}
	return ""
}

func (r ProductRef) Price() float64 {
	if r.Inlined != nil {
		return r.Inlined.Price
	}
	return 0
}

type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
