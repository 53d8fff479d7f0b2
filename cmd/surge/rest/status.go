package rest

import (
	"fmt"
	"net/http"
)

// StatusCodeRange classifies a HTTP status code by its hundreds digit.
type StatusCodeRange int

const (
	StatusUnknown StatusCodeRange = iota
	Status1xx
	Status2xx
	Status3xx
	Status4xx
	Status5xx
)

func StatusCodeRangeOf(resp *http.Response) StatusCodeRange {
	switch h := resp.StatusCode / 100; h {
	case 1, 2, 3, 4, 5:
		return StatusCodeRange(h)
	default:
		return StatusUnknown
	}
}

func (sc StatusCodeRange) String() string {
	switch sc {
	case Status1xx:
		return "informational response"
	case Status2xx:
		return "success"
	case Status3xx:
		return "redirect"
	case Status4xx:
		return "client error"
	case Status5xx:
		return "server error"
	}
	return fmt.Sprintf("unknown (%d)", sc)
}
