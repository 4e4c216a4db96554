package crypto

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: "ok"},
		{err: ErrInvalidPassword, want: "invalid_password"},
		{err: fmt.Errorf("%w: 2", ErrUnsupportedVersion), want: "unsupported_version"},
		{err: ErrUnsupportedCipher, want: "unsupported_cipher"},
		{err: fmt.Errorf("%w: %w", ErrMalformedEnvelope, ErrInvalidParameters), want: "malformed_envelope"},
		{err: ErrInvalidParameters, want: "invalid_parameters"},
		{err: ErrDerivationFailed, want: "derivation_failed"},
		{err: fmt.Errorf("open vault: %w", ErrAuthenticationFailed), want: "authentication_failed"},
		{err: ErrCorruptPayload, want: "corrupt_payload"},
		{err: errors.New("disk on fire"), want: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
