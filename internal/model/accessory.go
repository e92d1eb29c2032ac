package model

// Accessory is a rentable item from the catalog (cue, rack, chalk...).
// Price is the current catalog price; it is only a default that gets
// snapshotted onto RentalAccessory lines at creation time.
type Accessory struct {
	ID    uint64  `json:"id"`    // accessories.id
	Name  string  `json:"name"`  // accessories.name
	Price float64 `json:"price"` // accessories.price
}
