package session

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBusy            = errors.New("a generation is already in progress")
	ErrNoImage         = errors.New("no image uploaded")
	ErrNoResult        = errors.New("no stylized image to download")
	ErrUnknownStyle    = errors.New("unknown style")
	// ErrStale is returned to a generate call whose session was reset while it ran.
	ErrStale = errors.New("session was reset while generating")
)

const (
	uploadFailedMessage = "Failed to load image. Please try another file."
	credentialMessage   = "HD generation failed. Please select a valid API key from a paid project and try again."
)

// UploadError - 업로드된 파일을 읽거나 분리하지 못한 경우
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return uploadFailedMessage }
func (e *UploadError) Unwrap() error { return e.Err }

// CredentialError - HD 호출에 쓸 수 있는 키가 없는 경우
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string { return credentialMessage }
func (e *CredentialError) Unwrap() error { return e.Err }

func styleError(id string) error {
	return fmt.Errorf("%w: %q", ErrUnknownStyle, id)
}
