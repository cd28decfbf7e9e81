package catalog

import "encoding/json"

// ItemEvent is the change-event payload consumed by the downstream
// menu services. Field names are part of the wire contract.
type ItemEvent struct {
	Type    string  `json:"type"`
	ID      int64   `json:"id,omitempty"`
	Name    string  `json:"name"`
	Calorie float64 `json:"calorie"`
	Price   int     `json:"price"`
	Status  string  `json:"status"`
	Img     *string `json:"img,omitempty"`
}

func newItemEvent(item *Item) ItemEvent {
	return ItemEvent{
		Type:    item.Kind,
		ID:      item.UID,
		Name:    item.Name,
		Calorie: item.Calorie,
		Price:   item.Price,
		Status:  string(item.Status),
		Img:     item.AttachmentRef,
	}
}

func (e ItemEvent) encode() ([]byte, error) {
	return json.Marshal(e)
}
