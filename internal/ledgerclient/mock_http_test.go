package ledgerclient

import (
	"net/http"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripFunc) *Client {
	return &Client{
		baseURL: "http://ledger.test",
		inner:   &http.Client{Transport: fn},
		timeout: time.Second,
	}
}
