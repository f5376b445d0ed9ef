// Package codec centralizes encoding of self-describing metadata such as
// snapshot manifests.
//
// Persisted metadata records the codec name so a reader can select the
// matching codec with ByName. Every built-in codec writes JSON.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
