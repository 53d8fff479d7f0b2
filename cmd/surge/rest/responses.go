package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	cerr "github.com/surgegrid/surge/cmd/surge/errors"
	apierr "github.com/surgegrid/surge/pkg/api/types/errors"
)

type MessageFor map[StatusCodeRange]string

// unmarshal http response which has json content.
//
// args:
//   - resp: http response to be processed.
//   - v: value which response should be.
//   - messageFor: title of error message for HTTP status code range,
//     used when the body carries no {"error": ...} of its own.
//
// return:
//
//	error if...
//	- can not read response body
//	- response body is not shaped of v
//	- status code is in 4xx or 5xx
//
// When the platform sends {"error": "..."} the error's message is that
// text, verbatim. It is what the user should read.
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			message := fmt.Sprintf("unexpected error: %s (status code = %d)", err.Error(), resp.StatusCode)
			return cerr.NewCuiError(message, cerr.WithCause(err))
		}
		return nil
	}

	message, ok := messageFor[scr]
	if !ok {
		message = scr.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cerr.NewCuiError(
			fmt.Sprintf(
				"%s\ncannot read server message: %s",
				message, err.Error(),
			),
			cerr.WithCause(err),
		)
	}

	if apimsg, ok := parseErrorMessage(body); ok {
		return cerr.NewCuiError(apimsg)
	}

	return cerr.NewCuiError(
		message,
		cerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + string(body), nil
		}),
	)
}

func unmarshalStreamResponse(resp *http.Response, messageFor MessageFor) (io.ReadCloser, error) {
	scr := StatusCodeRangeOf(resp)
	if scr <= Status2xx {
		return resp.Body, nil
	}

	message, ok := messageFor[scr]
	if !ok {
		message = scr.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, cerr.NewCuiError(
			fmt.Sprintf(
				"%s\ncannot read server message: %s",
				message, err.Error(),
			),
			cerr.WithCause(err),
		)
	}

	if apimsg, ok := parseErrorMessage(body); ok {
		return nil, cerr.NewCuiError(apimsg)
	}

	return nil, cerr.NewCuiError(
		message,
		cerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + string(body), nil
		}),
	)
}

// unmarshalActionResponse is unmarshalJsonResponse for mutating actions.
//
// Some action endpoints report application-level failures as
// {"error": ...} inside a 200 body. Such a response is a failure, not a
// success, and must not pass as one.
func unmarshalActionResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	scr := StatusCodeRangeOf(resp)
	if Status2xx < scr {
		return unmarshalJsonResponse(resp, v, messageFor)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return cerr.NewCuiError(
			fmt.Sprintf("cannot read server response: %s", err.Error()),
			cerr.WithCause(err),
		)
	}

	if apimsg, ok := parseErrorMessage(body); ok {
		return cerr.NewCuiError(apimsg)
	}

	if err := json.Unmarshal(body, v); err != nil {
		message := fmt.Sprintf("unexpected error: %s (status code = %d)", err.Error(), resp.StatusCode)
		return cerr.NewCuiError(message, cerr.WithCause(err))
	}
	return nil
}

// parseErrorMessage digs the platform's {"error": "..."} out of body.
func parseErrorMessage(body []byte) (string, bool) {
	eresp := new(apierr.ErrorResponse)
	if err := json.Unmarshal(body, eresp); err == nil && eresp.Message != "" {
		return eresp.Message, true
	}
	return "", false
}
