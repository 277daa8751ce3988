package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "zonegate/pkg/domain-errors"
)

func TestSecurityZone_Ordering(t *testing.T) {
	assert.True(t, UltraClassified.StricterThan(Classified))
	assert.True(t, Classified.StricterThan(Restricted))
	assert.True(t, Restricted.StricterThan(Public))
	assert.False(t, Public.StricterThan(Public))
	assert.False(t, Public.StricterThan(UltraClassified))
}

func TestSecurityZone_Levels(t *testing.T) {
	assert.Equal(t, 0, Public.Level())
	assert.Equal(t, 1, Restricted.Level())
	assert.Equal(t, 2, Classified.Level())
	assert.Equal(t, 3, UltraClassified.Level())
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SecurityZone
		wantErr bool
	}{
		{name: "public", input: "public", want: Public},
		{name: "restricted", input: "restricted", want: Restricted},
		{name: "classified", input: "classified", want: Classified},
		{name: "ultra classified", input: "ultra_classified", want: UltraClassified},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown", input: "top_secret", wantErr: true},
		{name: "wrong case", input: "Public", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseZone(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecurityZone_TextRoundTrip(t *testing.T) {
	for _, z := range Zones() {
		b, err := z.MarshalText()
		require.NoError(t, err)

		var parsed SecurityZone
		require.NoError(t, parsed.UnmarshalText(b))
		assert.Equal(t, z, parsed)
	}
}

func TestSecurityZone_IsValid(t *testing.T) {
	for _, z := range Zones() {
		assert.True(t, z.IsValid(), z.String())
	}
	assert.False(t, SecurityZone(-1).IsValid())
	assert.False(t, SecurityZone(4).IsValid())
}

func TestParseCredentialType(t *testing.T) {
	for _, valid := range []string{
		"basic_id", "nda", "government_clearance", "military_clearance",
		"quantum_clearance", "biometric", "hardware_token",
	} {
		got, err := ParseCredentialType(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, CredentialType(valid), got)
	}

	_, err := ParseCredentialType("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = ParseCredentialType("retinal_scan")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
