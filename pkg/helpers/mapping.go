package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/job-portal/pkg/mailer"
)

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// NormalizeTemplate lower-cases the template name and falls back to Data["Type"].
func NormalizeTemplate(job *mailer.EmailJob) {
	name := strings.ToLower(strings.TrimSpace(job.Template))
	if name == "" && job.Data != nil {
		if t, ok := job.Data["Type"]; ok {
			name = strings.ToLower(fmt.Sprintf("%v", t))
		}
	}
	job.Template = name
}
