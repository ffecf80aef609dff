package pure360

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// ListUploadRequest holds the metadata sent with a list upload.
type ListUploadRequest struct {
	// ProfileName is the Pure360 profile receiving the list.
	ProfileName string
	// Token is the security token securing list uploads for the profile.
	Token string
	// ResponseType selects how the upload outcome is reported.
	ResponseType ResponseType
	// ResponseURI is where the upload outcome is reported.
	ResponseURI string
	// ListName is the name of the list in the platform.
	ListName string
}

func (r ListUploadRequest) validate() error {
	var missing []string
	if r.ProfileName == "" {
		missing = append(missing, "profileName")
	}
	if r.Token == "" {
		missing = append(missing, "token")
	}
	if r.ListName == "" {
		missing = append(missing, "listName")
	}
	if r.ResponseType == 0 {
		missing = append(missing, "responseType")
	}
	if len(missing) > 0 {
		return fmt.Errorf("list upload request is missing %s", strings.Join(missing, ", "))
	}
	if !r.ResponseType.valid() {
		return fmt.Errorf("invalid list upload response type %s", r.ResponseType)
	}
	return nil
}

// ListUploadClient creates, replaces and appends contact lists from CSV
// files.
type ListUploadClient struct {
	c *client
}

// NewListUploadClient creates a new list upload client.
func NewListUploadClient(opts ...ClientOption) (*ListUploadClient, error) {
	c, err := newClient(opts...)
	if err != nil {
		return nil, err
	}
	return &ListUploadClient{c: c}, nil
}

// CreateList creates a new contact list in the profile from the CSV file
// at filePath.
func (l *ListUploadClient) CreateList(ctx context.Context, req ListUploadRequest, filePath string) (string, error) {
	return l.uploadFile(ctx, req, Create, filePath)
}

// ReplaceList replaces an existing contact list with the CSV file at
// filePath.
func (l *ListUploadClient) ReplaceList(ctx context.Context, req ListUploadRequest, filePath string) (string, error) {
	return l.uploadFile(ctx, req, Replace, filePath)
}

// AppendList updates and inserts the rows of the CSV file at filePath into
// an existing contact list.
func (l *ListUploadClient) AppendList(ctx context.Context, req ListUploadRequest, filePath string) (string, error) {
	return l.uploadFile(ctx, req, Append, filePath)
}

func (l *ListUploadClient) uploadFile(ctx context.Context, req ListUploadRequest, tx TransactionType, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open list file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return l.UploadList(ctx, req, tx, f)
}

// UploadList runs the two-phase upload for CSV content read from r. The
// header line is read first; r is then rewound and sent whole as the
// upload.csv attachment.
//
// API: POST /list_upload_meta.php, then POST /list_upload_data.php
//
// Idempotency: Not idempotent
//
// A failure of the data phase leaves the transaction registered by the
// metadata phase pending on the remote side.
func (l *ListUploadClient) UploadList(ctx context.Context, req ListUploadRequest, tx TransactionType, r io.ReadSeeker) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues(
		"operation", "UploadList",
		"operationID", uuid.NewString(),
		"profile", req.ProfileName,
		"list", req.ListName,
		"transactionType", tx.String(),
	)

	if !tx.valid() {
		return "", fmt.Errorf("invalid list upload transaction type %s", tx)
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	line, err := readHeaderLine(r)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("list file has no header line")
	}

	params := url.Values{}
	params.Set("profileName", req.ProfileName)
	params.Set("token", req.Token)
	params.Set("responseType", req.ResponseType.String())
	params.Set("responseUri", req.ResponseURI)
	params.Set("listName", req.ListName)
	params.Set("transactionType", tx.String())
	for k, v := range headerValues(HeaderIndex(line, l.c.delimiter, l.c.quote)) {
		params.Set(k, v)
	}

	log.Info("Uploading list metadata")
	meta, err := l.c.postForm(logr.NewContext(ctx, log), listUploadMetaPath, params)
	if err != nil {
		log.Error(err, "Failed to upload list metadata")
		return "", fmt.Errorf("failed to upload list metadata: %w", err)
	}

	transactionID := ParseTransactionID(meta)
	if transactionID == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedTransactionResponse, meta)
	}
	log = log.WithValues("transactionID", transactionID)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind list content: %w", err)
	}

	data := url.Values{}
	data.Set("profileName", req.ProfileName)
	data.Set("transactionId", transactionID)

	log.Info("Uploading list data")
	resp, err := l.c.postMultipart(logr.NewContext(ctx, log), listUploadDataPath, data, Attachment{
		FieldName:   "file",
		FileName:    "upload.csv",
		ContentType: "text/csv",
		Header:      map[string]string{"Expires": "0"},
		Content:     r,
	})
	if err != nil {
		log.Error(err, "Failed to upload list data")
		return "", fmt.Errorf("failed to upload list data: %w", err)
	}

	log.Info("List uploaded")
	return resp, nil
}

// ParseTransactionID extracts the transaction id from a metadata upload
// response: the text after the last colon, trimmed.
func ParseTransactionID(resp string) string {
	parts := strings.Split(resp, ":")
	return strings.TrimSpace(parts[len(parts)-1])
}
