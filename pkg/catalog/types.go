package catalog

import "time"

// ItemStatus is the domain type for catalog item lifecycle states.
type ItemStatus string

// Item status constants (typed).
const (
	ItemStatusActive  ItemStatus = "ACTIVE"
	ItemStatusSoldOut ItemStatus = "SOLD_OUT"
	ItemStatusDeleted ItemStatus = "DELETED"
)

// StoreStatus is the domain type for store lifecycle states.
type StoreStatus string

// Store status constants (typed).
const (
	StoreStatusOpen   StoreStatus = "OPEN"
	StoreStatusClosed StoreStatus = "CLOSED"
)

// Kind describes one catalog item kind and its event capabilities.
// Materials and vegetables share the same row shape; they differ only
// in whether mutations emit downstream events and on which topics.
type Kind struct {
	Name          string
	PublishEvents bool
	Topics        EventTopics
}

// EventTopics names the destination topic per mutation.
type EventTopics struct {
	Add    string
	Update string
	Delete string
}

// Built-in kinds. Topic names are fixed by the downstream menu
// consumers and must not be changed independently of them.
var (
	KindMaterial = Kind{
		Name:          "material",
		PublishEvents: true,
		Topics: EventTopics{
			Add:    "ingredient-add-menu-service",
			Update: "ingredient-update-menu-service",
			Delete: "ingredient-delete-menu-service",
		},
	}

	KindVegetable = Kind{
		Name: "vegetable",
	}
)

// Item represents one catalog item row (a material or a vegetable).
//
// UID is assigned by the repository on first persist and never reused.
// AttachmentRef, when non-nil, is an opaque key into the blob store;
// the referenced blob exists for the lifetime of the item. Version is
// bumped by the repository on every successful update.
type Item struct {
	UID           int64      `json:"uid"`
	Kind          string     `json:"kind"`
	Name          string     `json:"name"`
	Calorie       float64    `json:"calorie"`
	Price         int        `json:"price"`
	AttachmentRef *string    `json:"img,omitempty"`
	Status        ItemStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Version       int        `json:"version"`
}

// Store represents one store row. Stores carry no attachment and emit
// no events; they share the cursor-pagination contract with items.
type Store struct {
	UID       int64       `json:"uid"`
	Name      string      `json:"store_name"`
	Address   string      `json:"store_address"`
	Postcode  string      `json:"store_postcode"`
	Latitude  float64     `json:"store_latitude"`
	Longitude float64     `json:"store_longitude"`
	Status    StoreStatus `json:"store_status"`
	CreatedAt time.Time   `json:"store_created_date"`
	UpdatedAt time.Time   `json:"store_updated_date"`
	Version   int         `json:"version"`
}
