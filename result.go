package offerdoc

// Result is the outcome of processing one URL of a batch. Exactly one of
// Data and Error is set.
type Result[T any] struct {
	URL   string `json:"url"`
	Data  *T     `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the URL was processed successfully.
func (r Result[T]) OK() bool {
	return r.Error == "" && r.Data != nil
}
