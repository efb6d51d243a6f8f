package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libcodabar "github.com/ericlevine/libcodabar"
)

func TestParsePatron(t *testing.T) {
	id, err := Parse("21234000123453")
	require.NoError(t, err)
	assert.Equal(t, KindPatron, id.Kind)
	assert.Equal(t, "1234", id.Institution)
	assert.Equal(t, "00012345", id.Serial)
	assert.Equal(t, byte('3'), id.CheckDigit)
	assert.Equal(t, "21234000123453", id.Payload())
	assert.Equal(t, "patron 1234/00012345", id.String())
}

func TestParseItem(t *testing.T) {
	id, err := Parse("30001000000079")
	require.NoError(t, err)
	assert.Equal(t, KindItem, id.Kind)
	assert.Equal(t, "0001", id.Institution)
	assert.Equal(t, "00000007", id.Serial)
	assert.Equal(t, "30001000000079", id.Payload())
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"short":        "2123400012345",
		"long":         "212340001234533",
		"bad check":    "21234000123454",
		"unknown kind": "12345678901235",
		"non-digit":    "2123400012345$",
		"empty":        "",
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(payload)
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	}
}

func TestFromResult(t *testing.T) {
	r := libcodabar.NewResult("21234000123453", nil, libcodabar.FormatCodabar)
	id, err := FromResult(r)
	require.NoError(t, err)
	assert.Equal(t, KindPatron, id.Kind)

	_, err = FromResult(nil)
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = FromResult(libcodabar.NewResult("21234000123453", nil, libcodabar.FormatUnknown))
	assert.ErrorIs(t, err, ErrInvalidID)
}
