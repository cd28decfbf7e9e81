package catalog

import "io"

// Attachment carries the bytes of an uploaded image along with the
// metadata needed to key and serve it. A nil *Attachment means the
// request carries no image.
type Attachment struct {
	FileName    string
	ContentType string
	Data        io.Reader
}

// CreateItemRequest contains parameters for creating a catalog item
type CreateItemRequest struct {
	Name       string
	Calorie    float64
	Price      int
	Status     string
	Attachment *Attachment
}

// UpdateItemRequest contains parameters for editing a catalog item.
// A nil Attachment leaves the stored attachment untouched.
type UpdateItemRequest struct {
	Name       string
	Calorie    float64
	Price      int
	Status     string
	Attachment *Attachment
}

// CreateStoreRequest contains parameters for creating a store
type CreateStoreRequest struct {
	Name      string
	Address   string
	Postcode  string
	Latitude  float64
	Longitude float64
	Status    string
}

// UpdateStoreRequest contains parameters for editing a store
type UpdateStoreRequest struct {
	Name      string
	Address   string
	Postcode  string
	Latitude  float64
	Longitude float64
	Status    string
}
