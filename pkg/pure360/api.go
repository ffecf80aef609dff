package pure360

import (
	"context"
	"io"
)

// ListUploader defines the list upload surface of the Pure360 API.
type ListUploader interface {
	// CreateList creates a new contact list from a CSV file.
	CreateList(ctx context.Context, req ListUploadRequest, filePath string) (string, error)

	// ReplaceList replaces a contact list with a CSV file.
	ReplaceList(ctx context.Context, req ListUploadRequest, filePath string) (string, error)

	// AppendList appends a CSV file to a contact list.
	AppendList(ctx context.Context, req ListUploadRequest, filePath string) (string, error)

	// UploadList uploads CSV content from a reader.
	UploadList(ctx context.Context, req ListUploadRequest, tx TransactionType, r io.ReadSeeker) (string, error)
}

// ListManager defines the signup and optout surface of the Pure360 API.
type ListManager interface {
	// Signup adds a recipient to a list.
	Signup(ctx context.Context, req SignupRequest) (string, error)

	// Optout removes a recipient from the whole profile.
	Optout(ctx context.Context, accountName, recipient string) (string, error)
}

// MessageSender defines the one-to-one surface of the Pure360 API.
type MessageSender interface {
	// Send delivers a single EMAIL or SMS message.
	Send(ctx context.Context, req SendRequest) (string, error)
}

var (
	_ ListUploader  = (*ListUploadClient)(nil)
	_ ListManager   = (*ListClient)(nil)
	_ MessageSender = (*OneToOneClient)(nil)
)
