package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBlobID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "personal"},
		{name: "all allowed characters", id: "Work_vault-2.bak"},
		{name: "max length", id: strings.Repeat("a", MaxBlobIDLen)},
		{name: "empty", id: "", wantErr: true},
		{name: "too long", id: strings.Repeat("a", MaxBlobIDLen+1), wantErr: true},
		{name: "dot", id: ".", wantErr: true},
		{name: "dot dot", id: "..", wantErr: true},
		{name: "hidden", id: ".vault", wantErr: true},
		{name: "slash", id: "a/b", wantErr: true},
		{name: "backslash", id: `a\b`, wantErr: true},
		{name: "space", id: "my vault", wantErr: true},
		{name: "non ascii", id: "vaülts", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlobID(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBlobID)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateNamespace(t *testing.T) {
	assert.NoError(t, ValidateNamespace("alice"))
	assert.NoError(t, ValidateNamespace("team-42"))
	assert.ErrorIs(t, ValidateNamespace(""), ErrInvalidBlobID)
	assert.ErrorIs(t, ValidateNamespace("a.b"), ErrInvalidBlobID)
	assert.ErrorIs(t, ValidateNamespace("a_b"), ErrInvalidBlobID)
	assert.ErrorIs(t, ValidateNamespace(strings.Repeat("n", maxNamespaceLen+1)), ErrInvalidBlobID)
}

func TestValidatePrefix(t *testing.T) {
	assert.NoError(t, validatePrefix(""))
	assert.NoError(t, validatePrefix("al"))
	assert.ErrorIs(t, validatePrefix("../"), ErrInvalidBlobID)
}

func TestErrorLabel(t *testing.T) {
	assert.Equal(t, "ok", ErrorLabel(nil))
	assert.Equal(t, "not_found", ErrorLabel(ErrNotFound))
	assert.Equal(t, "permission_denied", ErrorLabel(ErrPermissionDenied))
	assert.Equal(t, "invalid_id", ErrorLabel(ErrInvalidBlobID))
	assert.Equal(t, "io", ErrorLabel(ioError("read", assert.AnError)))
}
