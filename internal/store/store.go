package store

// Storage is the key-value persistence capability injected into the session
// service: synchronous, process-local, no expiry. Mirrors web local-storage
// semantics so any thin UI can substitute its own backend.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}
