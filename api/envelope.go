package api

// Response is the envelope every remote call resolves to. Exactly one of
// Data and Error is populated: Data on a 2xx response, Error otherwise.
// Errors optionally carries per-field validation detail when the backend
// (or the client-side pre-flight validator) rejected individual fields.
// Remote calls never panic or return a raw error across the package
// boundary; every outcome, including transport failures, arrives here.
type Response[T any] struct {
	Data   *T                  `json:"data,omitempty"`
	Error  string              `json:"error,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// Ok reports whether the call succeeded.
func (r Response[T]) Ok() bool {
	return r.Error == ""
}

func success[T any](data *T) Response[T] {
	return Response[T]{Data: data}
}

func failure[T any](message string) Response[T] {
	return Response[T]{Error: message}
}

func fieldFailure[T any](message string, fields map[string][]string) Response[T] {
	return Response[T]{Error: message, Errors: fields}
}
