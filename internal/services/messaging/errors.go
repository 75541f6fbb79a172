package messaging

import "errors"

var (
	ErrReceiverRequired = errors.New("receiverId or doctorId is required")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrEmptyContent     = errors.New("message content is empty")
	ErrSelfMessage      = errors.New("cannot send a message to yourself")
	ErrNotFound         = errors.New("message not found")
	ErrForbidden        = errors.New("only the receiver can mark a message as read")
)
