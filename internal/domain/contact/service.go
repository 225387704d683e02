package contact

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

const whatsAppBase = "https://wa.me/"

type Service struct {
	number string
	logger zerolog.Logger
}

// NewService returns a service composing links to number, given with country
// code and digits only.
func NewService(number string, logger zerolog.Logger) *Service {
	return &Service{
		number: number,
		logger: logger.With().Str("component", "contact").Logger(),
	}
}

// Number returns the WhatsApp number enquiries go to.
func (s *Service) Number() string {
	return s.number
}

// Compose renders the enquiry as the message text the visitor sends.
func Compose(e Enquiry) string {
	var b strings.Builder
	b.WriteString("New Enquiry 🏥\n\n")
	b.WriteString("Name: " + e.Name + "\n")
	b.WriteString("Email: " + e.Email + "\n")
	b.WriteString("Phone: " + e.Phone + "\n\n")
	b.WriteString("Message:\n")
	b.WriteString(e.Message)
	return b.String()
}

// Link validates e and returns the WhatsApp deep link with the composed
// message prefilled.
func (s *Service) Link(e *Enquiry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	link := whatsAppBase + s.number + "?text=" + strings.ReplaceAll(url.QueryEscape(Compose(*e)), "+", "%20")

	// Contents stay out of the log.
	s.logger.Info().Int("message_len", len(e.Message)).Msg("enquiry composed")
	return link, nil
}
