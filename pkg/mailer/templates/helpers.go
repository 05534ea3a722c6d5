package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithSupportURL(url string) Option { return func(d *EmailData) { d.SupportURL = url } }

func WithExpiresIn(ttl time.Duration) Option {
	return func(d *EmailData) {
		exp := time.Now().Add(ttl).UTC()
		d.ExpiresAt = exp
		d.ExpiresText = exp.Format("02 January 2006, 15:04 MST")
	}
}

// NewConfirmEmailData builds the data map of a confirm_email job.
func NewConfirmEmailData(appName, username, email, confirmURL string, opts ...Option) map[string]any {
	d := EmailData{
		Username:   username,
		Email:      email,
		AppName:    appName,
		ConfirmURL: confirmURL,
	}
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}
