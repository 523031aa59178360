package solana

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "wrapped SOL mint", input: "So11111111111111111111111111111111111111112"},
		{name: "token program", input: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"},
		{name: "system program", input: "11111111111111111111111111111111"},
		{name: "invalid alphabet", input: "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl", wantErr: true},
		{name: "too short", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pk, err := ParsePublicKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, pk.String())
		})
	}
}

func TestPublicKey_SystemProgramIsZero(t *testing.T) {
	assert.True(t, SystemProgramID.IsZero())
	assert.False(t, TokenProgramID.IsZero())
}

func TestPublicKey_TextRoundTrip(t *testing.T) {
	type wrapper struct {
		Key PublicKey `json:"key"`
	}

	in := wrapper{Key: TokenProgramID}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"}`, string(data))

	var out wrapper
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.Key, out.Key)

	assert.Error(t, json.Unmarshal([]byte(`{"key":"not-a-key"}`), &out))
}

func TestPublicKeyFromBytes(t *testing.T) {
	pk, err := PublicKeyFromBytes(TokenProgramID[:])
	require.NoError(t, err)
	assert.Equal(t, TokenProgramID, pk)

	_, err = PublicKeyFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestMustPublicKey_Panics(t *testing.T) {
	assert.Panics(t, func() { MustPublicKey("bad") })
}

func TestIsTokenProgram(t *testing.T) {
	assert.True(t, IsTokenProgram(TokenProgramID))
	assert.True(t, IsTokenProgram(Token2022ProgramID))
	assert.False(t, IsTokenProgram(SystemProgramID))
}
