package chat

import "errors"

var (
	// ErrEmptyMessage rejects blank input before anything is stored.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong rejects oversized input before anything is stored.
	ErrMessageTooLong = errors.New("message exceeds the allowed length")
)
