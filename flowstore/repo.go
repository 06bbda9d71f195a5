package flowstore

import "errors"

// ErrNotFound is returned by Get when a slot holds no value.
var ErrNotFound = errors.New("flow value not found")

// Repo is the single-slot key/value storage that carries flow secrets across
// the navigation to the authorization server and back. One value per key;
// Set overwrites.
type Repo interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
