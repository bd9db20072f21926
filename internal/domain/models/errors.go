package models

import "errors"

// Error kinds surfaced by the fetch, write and plot paths.
// Callers wrap them with context and match with errors.Is.
var (
	// ErrNetwork covers transport failures and non-success HTTP statuses.
	ErrNetwork = errors.New("network error")
	// ErrStructure means the expected table or row is absent from the page.
	ErrStructure = errors.New("page structure error")
	// ErrParse means the rate cell is not a decimal number.
	ErrParse = errors.New("parse error")
	// ErrNotFound means the log file does not exist.
	ErrNotFound = errors.New("not found")
)
