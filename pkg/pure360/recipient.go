package pure360

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	mobilePattern = regexp.MustCompile(`^[+-]?[0-9]+$`)
	emailPattern  = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// ClassifyRecipient decides whether a recipient is a mobile number or an
// email address. A signed or unsigned run of digits is a mobile number;
// anything else must look like local@domain.tld.
func ClassifyRecipient(recipient string) (RecipientKind, error) {
	if mobilePattern.MatchString(strings.TrimSpace(recipient)) {
		return RecipientMobile, nil
	}
	if emailPattern.MatchString(recipient) {
		return RecipientEmail, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRecipient, recipient)
}
