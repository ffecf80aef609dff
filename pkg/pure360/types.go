package pure360

import (
	"fmt"
	"strings"
)

// TransactionType selects how an uploaded list is applied to the profile.
type TransactionType int

const (
	Create TransactionType = iota + 1
	Replace
	Append
)

func (t TransactionType) String() string {
	switch t {
	case Create:
		return "CREATE"
	case Replace:
		return "REPLACE"
	case Append:
		return "APPEND"
	}
	return fmt.Sprintf("TransactionType(%d)", int(t))
}

func (t TransactionType) valid() bool {
	return t >= Create && t <= Append
}

// ResponseType selects how Pure360 reports the outcome of a list upload.
type ResponseType int

const (
	ResponseHTTP ResponseType = iota + 1
	ResponseEmail
	ResponseREST
)

func (r ResponseType) String() string {
	switch r {
	case ResponseHTTP:
		return "HTTP"
	case ResponseEmail:
		return "EMAIL"
	case ResponseREST:
		return "REST"
	}
	return fmt.Sprintf("ResponseType(%d)", int(r))
}

func (r ResponseType) valid() bool {
	return r >= ResponseHTTP && r <= ResponseREST
}

// ParseResponseType parses HTTP, EMAIL or REST, case-insensitively.
func ParseResponseType(s string) (ResponseType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HTTP":
		return ResponseHTTP, nil
	case "EMAIL":
		return ResponseEmail, nil
	case "REST":
		return ResponseREST, nil
	}
	return 0, fmt.Errorf("response type must be one of HTTP, EMAIL or REST, got %q", s)
}

// Channel is the delivery channel of a one-to-one message.
type Channel int

const (
	ChannelEmail Channel = iota + 1
	ChannelSMS
)

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "EMAIL"
	case ChannelSMS:
		return "SMS"
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

func (c Channel) valid() bool {
	return c == ChannelEmail || c == ChannelSMS
}

// ParseChannel parses EMAIL or SMS. The match is exact, as on the wire.
func ParseChannel(s string) (Channel, error) {
	switch s {
	case "EMAIL":
		return ChannelEmail, nil
	case "SMS":
		return ChannelSMS, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrUnsupportedChannel, s)
}

// RecipientKind is the contact detail type a recipient string resolves to.
type RecipientKind int

const (
	RecipientEmail RecipientKind = iota + 1
	RecipientMobile
)

// field returns the payload key carrying a recipient of this kind.
func (k RecipientKind) field() string {
	if k == RecipientMobile {
		return "mobile"
	}
	return "email"
}

func (k RecipientKind) String() string {
	switch k {
	case RecipientEmail:
		return "email"
	case RecipientMobile:
		return "mobile"
	}
	return fmt.Sprintf("RecipientKind(%d)", int(k))
}

func upperBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func lowerBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func indicator(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
