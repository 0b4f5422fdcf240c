package models

// Field names written by the gateway's semantic cache policy.
const (
	FieldVector     = "Vector"
	FieldCacheEntry = "CacheEntry"
)

// TTL sentinels returned by the store.
const (
	TTLNoExpiry int64 = -1
	TTLMissing  int64 = -2
)

// KeyTypeHash is the store type name for field-mapping values.
const KeyTypeHash = "hash"

// CacheEntry is one cached request as read from the store.
type CacheEntry struct {
	Key    string            `json:"key"`
	Type   string            `json:"type"`
	TTL    int64             `json:"ttl"`
	Fields map[string][]byte `json:"fields,omitempty"`
}

// IsHash reports whether the entry holds a field mapping.
func (e CacheEntry) IsHash() bool {
	return e.Type == KeyTypeHash
}

// Field returns a field value and whether it was present.
func (e CacheEntry) Field(name string) ([]byte, bool) {
	v, ok := e.Fields[name]
	return v, ok
}
