package helpers

import (
	"fmt"
	"strings"

	"github.com/Vadim-3/b2-hm14/pkg/mailer"
	mailtpl "github.com/Vadim-3/b2-hm14/pkg/mailer/templates"
)

// SubjectFor returns the subject line used when a templated job has none.
func SubjectFor(job mailer.EmailJob) string {
	if job.Subject != "" {
		return job.Subject
	}
	switch strings.ToLower(job.Template) {
	case mailtpl.ConfirmEmail:
		return "Confirm your email address"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
}
