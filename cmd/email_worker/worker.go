package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/pkg/mailer"
)

type outcome int

const (
	ack     outcome = iota
	requeue         // transient send failure
	drop            // malformed or unrenderable; retrying cannot help
)

type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

type worker struct {
	sender      sender
	logger      logrus.FieldLogger
	sendTimeout time.Duration
}

// handle decodes one queued job, renders it and sends it.
func (w *worker) handle(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		return drop
	}
	log := w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html, err := mailer.Compose(job)
	if err != nil {
		log.WithError(err).Warn("render failed")
		return drop
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()
	if err := w.sender.Send(sendCtx, job.To, subject, text, html); err != nil {
		log.WithError(err).Error("send failed")
		return requeue
	}
	log.Info("email sent")
	return ack
}
