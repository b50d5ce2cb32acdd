package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	poisonedSnippetLen  = 200
	malformedSnippetLen = 100
)

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

func (r *rawResponse) ok() bool {
	return r.status >= 200 && r.status < 300
}

// parse turns a response into a case-converted JSON value. HTML bodies,
// undecodable bodies and non-2xx statuses become *Error.
func parse(resp *rawResponse) (any, error) {
	contentType := strings.ToLower(resp.header.Get("Content-Type"))
	if strings.Contains(contentType, "text/html") {
		return nil, &Error{
			Kind:    KindPoisoned,
			Status:  resp.status,
			Snippet: snippet(resp.body, poisonedSnippetLen),
			Message: poisonedGuidance,
		}
	}

	value, err := decodeJSON(resp.body)
	if err != nil {
		return nil, &Error{
			Kind:    KindMalformed,
			Status:  resp.status,
			Snippet: snippet(resp.body, malformedSnippetLen),
			Message: fmt.Sprintf("invalid JSON in response body: %q", snippet(resp.body, malformedSnippetLen)),
			Err:     err,
		}
	}
	value = KeysToCamel(value)

	if !resp.ok() {
		return nil, &Error{
			Kind:    KindHTTPStatus,
			Status:  resp.status,
			Payload: value,
			Message: backendMessage(value),
		}
	}
	return value, nil
}

// decodeJSON reads a single JSON value. An empty body decodes to nil. Numbers
// are kept as json.Number so large ids survive the round trip.
func decodeJSON(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return value, nil
}

// decodeInto copies a parsed value into a typed destination.
func decodeInto(value any, dst any) error {
	if dst == nil || value == nil {
		return nil
	}
	if err := remarshal(value, dst); err != nil {
		return &Error{Kind: KindMalformed, Message: "response does not match the expected shape", Err: err}
	}
	return nil
}

func snippet(body []byte, n int) string {
	return truncate(string(body), n)
}
