// Package model defines domain records exchanged with the storefront backend.
package model

import "time"

// User is the identity record returned by login and cached alongside the token.
type User struct {
	ID       int64    `json:"id"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// Session couples the cached user with the bearer credential.
// Presence of a non-empty Token means the client is authenticated.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time // parsed from the JWT exp claim (diagnostics only)
}

// Product is a catalog record. Discount is a percentage (0 means full price).
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Price       float64  `json:"price"`
	Discount    float64  `json:"discount,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// CartItem is a cached cart line. The backend returns bare products; quantity
// is a client-side field defaulted to 1 (no quantity endpoint in the contract).
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Address is an opaque shipping address selected by ID at checkout.
type Address struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Street      string `json:"street"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	ZipCode     string `json:"zipCode"`
	Country     string `json:"country"`
	Phone       string `json:"phone"`
}

// NewAddress is the creation payload for POST /user/addresses.
type NewAddress struct {
	Title       string `json:"title"`
	Street      string `json:"street"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	ZipCode     string `json:"zipCode"`
	Country     string `json:"country"`
	Phone       string `json:"phone"`
}

// PaymentMethod is a stored card reference. The backend returns the number
// masked; raw card data never lives outside NewPayment.
type PaymentMethod struct {
	ID             int64  `json:"id"`
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
	ExpiryMonth    string `json:"expiryMonth"`
	ExpiryYear     string `json:"expiryYear"`
	CardBrand      string `json:"cardBrand,omitempty"`
}

// NewPayment is the creation payload for POST /user/payments. CVC is sent
// once and never cached.
type NewPayment struct {
	CardholderName string `json:"cardholderName"`
	CardNumber     string `json:"cardNumber"`
	ExpiryMonth    string `json:"expiryMonth"`
	ExpiryYear     string `json:"expiryYear"`
	CVC            string `json:"cvc"`
	CardBrand      string `json:"cardBrand,omitempty"`
}

// Order is the backend's confirmation record. Immutable once placed.
type Order struct {
	ID          int64       `json:"id"`
	Items       []OrderItem `json:"orderItems,omitempty"`
	TotalAmount float64     `json:"totalAmount,omitempty"`
	CreatedAt   time.Time   `json:"createdAt,omitempty"`
}

// OrderItem is a single confirmed order line.
type OrderItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// OrderSummary is the client-built confirmation view: the backend may omit a
// line-item echo, so the lines come from the cart cached at submission time.
type OrderSummary struct {
	OrderID  int64
	Items    []OrderItem
	Subtotal float64
	Shipping float64
	Total    float64
}
