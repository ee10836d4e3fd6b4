package graphql

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Error the api answered, but the response carries an errors field
type Error struct {
	// raw entries of the errors field
	Errors []jsoniter.RawMessage
}

func (e *Error) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, raw := range e.Errors {
		messages = append(messages, string(raw))
	}
	return "graphql api returned errors: [" + strings.Join(messages, ", ") + "]"
}

// StatusError the api answered with a non 2xx status
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graphql api returned status %q: %s", e.Status, e.Body)
}
