package mocks

import "errors"

var errNotConfigured = errors.New("mock: behavior not configured")
