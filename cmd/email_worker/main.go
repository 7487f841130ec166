package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/job-portal/config"
	"github.com/oksasatya/job-portal/pkg/helpers"
	"github.com/oksasatya/job-portal/pkg/mailer"
	mailtpl "github.com/oksasatya/job-portal/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch keeps dispatch fair across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			handle(ctx, mg, msg, logger)
		}
		close(done)
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func handle(ctx context.Context, mg *mailer.Mailgun, msg amqp.Delivery, logger *logrus.Logger) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}

	helpers.EnsureRecipientAndEmail(&job)
	helpers.NormalizeTemplate(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		if !mailtpl.Known(job.Template) {
			logger.WithField("template", job.Template).Warn("unknown template, dropping")
			_ = msg.Nack(false, false)
			return
		}
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			logger.WithError(err).WithField("template", job.Template).Warn("render failed")
			_ = msg.Nack(false, false)
			return
		}
		subject, text, html = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	err := mg.Send(c, job.To, subject, text, html)
	if err == nil {
		_ = msg.Ack(false)
		return
	}
	requeue := shouldRequeue(err, msg.Redelivered)
	helpers.LogError(logger, "send failed", err, logrus.Fields{
		"to": job.To, "template": job.Template, "requeue": requeue,
	})
	if requeue {
		// back off so a failing provider is not hammered by the redelivery
		select {
		case <-time.After(requeueDelay):
		case <-ctx.Done():
		}
	}
	_ = msg.Nack(false, requeue)
}

const requeueDelay = 2 * time.Second

// shouldRequeue gives a transient failure one more delivery. Rejected
// messages and repeat failures are dropped, or dead-lettered when the queue
// has a dead-letter exchange policy.
func shouldRequeue(err error, redelivered bool) bool {
	return !mailer.Permanent(err) && !redelivered
}
