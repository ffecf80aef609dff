package pure360

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// MessageContent is the body of a one-to-one message: either a reference
// to a message stored in the platform (TemplateContent) or inline content
// for one channel (EmailContent, SMSContent).
type MessageContent interface {
	// fields returns the message_* payload fields of the content.
	fields() map[string]string
	// validate checks the content against the channel it is sent on.
	validate(ch Channel) error
}

// requiredFields lists the payload fields inline content must carry per
// channel.
var requiredFields = map[Channel]sets.Set[string]{
	ChannelEmail: sets.New(
		"message_bodyPlain",
		"message_bodyHtml",
		"message_subject",
		"message_trackHtmlInd",
		"message_trackPlainInd",
	),
	ChannelSMS: sets.New("message_bodySms"),
}

// checkRequired returns ErrMissingMessageFields naming every field of
// the channel's required set that is empty in fields.
func checkRequired(ch Channel, fields map[string]string) error {
	present := sets.New[string]()
	for k, v := range fields {
		if v != "" {
			present.Insert(k)
		}
	}
	missing := requiredFields[ch].Difference(present)
	if missing.Len() > 0 {
		return fmt.Errorf("%w: %s", ErrMissingMessageFields, strings.Join(sets.List(missing), ", "))
	}
	return nil
}

// TemplateContent sends a message already stored in the platform.
type TemplateContent struct {
	Name string
}

func (t TemplateContent) fields() map[string]string {
	return map[string]string{"message_messageName": t.Name}
}

func (t TemplateContent) validate(Channel) error {
	if t.Name == "" {
		return fmt.Errorf("%w: message_messageName", ErrMissingMessageFields)
	}
	return nil
}

// EmailContent is inline content for an EMAIL message.
type EmailContent struct {
	Subject   string
	BodyPlain string
	BodyHTML  string
	// TrackHTML tracks clicks and opens of the HTML part.
	TrackHTML bool
	// TrackPlain tracks clicks and opens of the plain part.
	TrackPlain bool
}

// NewEmailContent builds inline email content, failing if the subject or
// either body is empty.
func NewEmailContent(subject, bodyPlain, bodyHTML string, trackHTML, trackPlain bool) (EmailContent, error) {
	c := EmailContent{
		Subject:    subject,
		BodyPlain:  bodyPlain,
		BodyHTML:   bodyHTML,
		TrackHTML:  trackHTML,
		TrackPlain: trackPlain,
	}
	if err := checkRequired(ChannelEmail, c.fields()); err != nil {
		return EmailContent{}, err
	}
	return c, nil
}

func (e EmailContent) fields() map[string]string {
	return map[string]string{
		"message_subject":       e.Subject,
		"message_bodyPlain":     e.BodyPlain,
		"message_bodyHtml":      e.BodyHTML,
		"message_trackHtmlInd":  indicator(e.TrackHTML),
		"message_trackPlainInd": indicator(e.TrackPlain),
	}
}

func (e EmailContent) validate(ch Channel) error {
	if ch != ChannelEmail {
		return fmt.Errorf("%w: email content cannot be sent as %s", ErrChannelMismatch, ch)
	}
	return checkRequired(ChannelEmail, e.fields())
}

// SMSContent is inline content for an SMS message.
type SMSContent struct {
	Body string
}

// NewSMSContent builds inline SMS content, failing if body is empty.
func NewSMSContent(body string) (SMSContent, error) {
	c := SMSContent{Body: body}
	if err := checkRequired(ChannelSMS, c.fields()); err != nil {
		return SMSContent{}, err
	}
	return c, nil
}

func (s SMSContent) fields() map[string]string {
	return map[string]string{"message_bodySms": s.Body}
}

func (s SMSContent) validate(ch Channel) error {
	if ch != ChannelSMS {
		return fmt.Errorf("%w: sms content cannot be sent as %s", ErrChannelMismatch, ch)
	}
	return checkRequired(ChannelSMS, s.fields())
}
