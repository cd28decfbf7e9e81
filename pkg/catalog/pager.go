package catalog

// Cursor pagination walks a table in ascending uid order. Because uids
// are unique and immutable once assigned, the ordering is total and a
// page boundary is reproducible across calls. Pagination is not
// snapshot-isolated: rows inserted after the cursor show up in later
// pages and deleted rows simply vanish.

// PageRequest is a cursor-pagination request. LastUID nil means start
// from the beginning. Limit must be positive; callers at the HTTP
// boundary default it, the core only validates it.
type PageRequest struct {
	Limit   int
	LastUID *int64
}

// ItemPage is one page of catalog items in ascending uid order.
// NextCursor is the uid to feed back as LastUID for the following
// page; it is nil once a short (or empty) page signals the end.
type ItemPage struct {
	Items      []*Item `json:"items"`
	NextCursor *int64  `json:"next_cursor,omitempty"`
}

// StorePage is one page of stores in ascending uid order.
type StorePage struct {
	Stores     []*Store `json:"stores"`
	NextCursor *int64   `json:"next_cursor,omitempty"`
}

func (r PageRequest) validate() error {
	if r.Limit <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

func newItemPage(items []*Item, limit int) *ItemPage {
	page := &ItemPage{Items: items}
	if len(items) == limit {
		last := items[len(items)-1].UID
		page.NextCursor = &last
	}
	return page
}

func newStorePage(stores []*Store, limit int) *StorePage {
	page := &StorePage{Stores: stores}
	if len(stores) == limit {
		last := stores[len(stores)-1].UID
		page.NextCursor = &last
	}
	return page
}
