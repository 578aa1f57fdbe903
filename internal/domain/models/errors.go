package models

import "errors"

// ErrInvalidInput marks rejected caller input: empty series, malformed
// bars, or window sizes that do not fit the data. Wrap it with context via
// fmt.Errorf("%w: ...") and test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
