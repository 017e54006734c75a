package predict

import "fmt"

// RequestFailedError reports a prediction call that did not produce a result.
// Status is the HTTP status, or 0 when no usable response arrived (transport
// failure or a body that is not JSON).
type RequestFailedError struct {
	Status int
	Err    error
}

func (e *RequestFailedError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("Prediction failed (%d)", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("Prediction failed: %v", e.Err)
	default:
		return "Failed to predict"
	}
}

func (e *RequestFailedError) Unwrap() error { return e.Err }
