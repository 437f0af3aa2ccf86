package main

// UsageError reports a malformed invocation. It is printed with the usage text.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }
