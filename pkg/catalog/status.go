package catalog

import (
	"fmt"
	"strings"
)

// ParseItemStatus normalizes a request status to the item status set.
func ParseItemStatus(s string) (ItemStatus, error) {
	switch status := ItemStatus(strings.ToUpper(s)); status {
	case ItemStatusActive, ItemStatusSoldOut, ItemStatusDeleted:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// ParseStoreStatus normalizes a request status to the store status set.
func ParseStoreStatus(s string) (StoreStatus, error) {
	switch status := StoreStatus(strings.ToUpper(s)); status {
	case StoreStatusOpen, StoreStatusClosed:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}
