package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	mg "github.com/mailgun/mailgun-go/v4"
	"github.com/stretchr/testify/assert"
)

func TestShouldRequeue(t *testing.T) {
	rejected := &mg.UnexpectedResponseError{Expected: []int{http.StatusOK}, Actual: http.StatusBadRequest}
	throttled := &mg.UnexpectedResponseError{Expected: []int{http.StatusOK}, Actual: http.StatusTooManyRequests}
	unavailable := &mg.UnexpectedResponseError{Expected: []int{http.StatusOK}, Actual: http.StatusServiceUnavailable}
	network := errors.New("dial tcp: connection refused")

	cases := []struct {
		name        string
		err         error
		redelivered bool
		want        bool
	}{
		{"rejected recipient is dropped", rejected, false, false},
		{"wrapped rejection is dropped", fmt.Errorf("send: %w", rejected), false, false},
		{"throttling retries once", throttled, false, true},
		{"server error retries once", unavailable, false, true},
		{"network error retries once", network, false, true},
		{"second failure is dropped", network, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shouldRequeue(tc.err, tc.redelivered))
		})
	}
}
