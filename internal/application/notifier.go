package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/config"
	"github.com/oksasatya/job-portal/internal/domain/entity"
	"github.com/oksasatya/job-portal/pkg/mailer"
	tpl "github.com/oksasatya/job-portal/pkg/mailer/templates"
)

const publishTimeout = 3 * time.Second

// Notifier enqueues templated email jobs. Delivery is best effort: failures
// are logged and never reach the caller. A nil Notifier is a no-op.
type Notifier struct {
	pub    EmailPublisher
	cfg    *config.Config
	logger *logrus.Logger
}

func NewNotifier(pub EmailPublisher, cfg *config.Config, logger *logrus.Logger) *Notifier {
	if pub == nil || cfg == nil || !cfg.MailSendEnabled {
		return nil
	}
	return &Notifier{pub: pub, cfg: cfg, logger: logger}
}

func (n *Notifier) publish(ctx context.Context, to, template string, data map[string]any) {
	if n == nil || to == "" {
		return
	}
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	job := mailer.EmailJob{To: to, Template: template, Data: data}
	if err := n.pub.PublishJSON(c, job); err != nil && n.logger != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{"template": template}).Warn("failed to publish email job")
	}
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if n == nil {
		return
	}
	n.publish(ctx, u.Email, tpl.Welcome, tpl.NewWelcomeData(n.cfg, u.Fullname, u.Email, u.Role.String(), tpl.WithTime(time.Now())))
}

func (n *Notifier) ProfileUpdated(ctx context.Context, u *entity.User, changes map[string]string) {
	if n == nil {
		return
	}
	n.publish(ctx, u.Email, tpl.ProfileUpdated, tpl.NewProfileUpdatedData(n.cfg, u.Fullname, u.Email, changes, tpl.WithTime(time.Now())))
}

func (n *Notifier) ApplicationReceived(ctx context.Context, recruiter, applicant *entity.User, job *entity.Job) {
	if n == nil {
		return
	}
	data := tpl.NewApplicationReceivedData(n.cfg, recruiter.Fullname, recruiter.Email, applicant.Fullname, job.Title, job.CompanyName, tpl.WithTime(time.Now()))
	n.publish(ctx, recruiter.Email, tpl.ApplicationReceived, data)
}

func (n *Notifier) ApplicationStatus(ctx context.Context, applicant *entity.User, job *entity.Job, status entity.ApplicationStatus) {
	if n == nil {
		return
	}
	data := tpl.NewApplicationStatusData(n.cfg, applicant.Fullname, applicant.Email, job.Title, job.CompanyName, string(status), tpl.WithTime(time.Now()))
	n.publish(ctx, applicant.Email, tpl.ApplicationStatus, data)
}
