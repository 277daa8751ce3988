package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "zonegate/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid uuid", input: uuid.NewString()},
		{name: "empty", input: "", wantErr: true},
		{name: "nil uuid", input: uuid.Nil.String(), wantErr: true},
		{name: "not a uuid", input: "chief-of-station", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 65), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				assert.True(t, got.IsNil())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseSessionID(t *testing.T) {
	valid := uuid.NewString()
	got, err := ParseSessionID(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, got.String())

	_, err = ParseSessionID("nope")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNewIDs(t *testing.T) {
	assert.False(t, NewUserID().IsNil())
	assert.False(t, NewSessionID().IsNil())
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}

func TestUserID_TextRoundTrip(t *testing.T) {
	original := NewUserID()

	b, err := original.MarshalText()
	require.NoError(t, err)

	var parsed UserID
	require.NoError(t, parsed.UnmarshalText(b))
	assert.Equal(t, original, parsed)
}

func TestSessionID_UnmarshalRejectsNil(t *testing.T) {
	var parsed SessionID
	err := parsed.UnmarshalText([]byte(uuid.Nil.String()))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
