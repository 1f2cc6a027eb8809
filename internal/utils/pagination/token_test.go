package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeLedgerToken(t *testing.T) {
	token := EncodeLedgerToken(20, "7f0c7d1e-1b1a-4bb5-9e58-5a3f1c3b2d10")
	assert.NotEmpty(t, token, "Token should not be empty")

	offset, prevID, err := DecodeLedgerToken(token)
	assert.NoError(t, err)
	assert.Equal(t, 20, offset)
	assert.Equal(t, "7f0c7d1e-1b1a-4bb5-9e58-5a3f1c3b2d10", prevID)

	// Zero offset with no previous entry
	offset, prevID, err = DecodeLedgerToken(EncodeLedgerToken(0, ""))
	assert.NoError(t, err)
	assert.Equal(t, 0, offset)
	assert.Empty(t, prevID)
}

func TestDecodeLedgerTokenError(t *testing.T) {
	_, _, err := DecodeLedgerToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	_, _, err = DecodeLedgerToken(EncodeMultiFieldToken("12"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, _, err = DecodeLedgerToken(EncodeMultiFieldToken("abc", "id"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "offset parse")

	_, _, err = DecodeLedgerToken(EncodeMultiFieldToken("-3", "id"))
	assert.Error(t, err)
}

func TestMultiFieldToken(t *testing.T) {
	fields := []string{"a", "b", "c"}

	decoded, err := DecodeMultiFieldToken(EncodeMultiFieldToken(fields...))
	assert.NoError(t, err)
	assert.Equal(t, fields, decoded)
}
