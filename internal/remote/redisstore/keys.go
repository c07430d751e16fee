package redisstore

const (
	// KeyPrefixItem is the prefix for calendar item documents
	KeyPrefixItem = "courtside:item:"
	// KeyAllItems is the key for the set of all item IDs
	KeyAllItems = "courtside:items:all"
)

// ItemKey returns the Redis key for an item document by ID
func ItemKey(id string) string {
	return KeyPrefixItem + id
}

// AllItemsKey returns the key for the set of all item IDs
func AllItemsKey() string {
	return KeyAllItems
}
