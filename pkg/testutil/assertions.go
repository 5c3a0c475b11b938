// Package testutil holds shared fixtures and helpers for package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaksend/credit-score/pkg/events"
)

// RequireEnvelope decodes a bus message value and checks its event type.
func RequireEnvelope(t *testing.T, value []byte, wantType string) events.Envelope {
	t.Helper()
	env, err := events.DecodeEnvelope(value)
	require.NoError(t, err)
	require.Equal(t, wantType, env.Type)
	return env
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}
