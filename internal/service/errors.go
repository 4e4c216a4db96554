package service

import "errors"

var (
	ErrVaultExists     = errors.New("vault already exists")
	ErrInvalidEntryKey = errors.New("invalid entry key")
	ErrInvalidEnvelope = errors.New("blob is not a valid envelope")

	ErrInvalidAPIKey           = errors.New("invalid api key")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
