package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gigs-work/backend/internal/config"
	"github.com/gigs-work/backend/internal/repository"
	emailProvider "github.com/gigs-work/backend/pkg/email"
	"github.com/gigs-work/backend/pkg/logger"
	"github.com/gigs-work/backend/pkg/pdf"
)

type emailSender struct {
	sender emailProvider.Sender
	config config.EmailConfig
	jobs   repository.Jobs
}

func newEmailSender(
	sender emailProvider.Sender,
	config config.EmailConfig,
	jobs repository.Jobs,
) *emailSender {
	return &emailSender{
		sender: sender,
		config: config,
		jobs:   jobs,
	}
}

type jobPublishedEmailInput struct {
	JobTitle string
	JobID    string
}

// SendJobPublishedEmail шлёт автору письмо о публикации. К письму
// прикладывается PDF-листовка объявления; если собрать её не вышло,
// письмо уходит без вложения.
func (s *emailSender) SendJobPublishedEmail(ctx context.Context, jobID string, email string, jobTitle string) error {
	if !s.config.Enabled {
		return nil
	}

	subject := "Ваше объявление опубликовано"

	templateInput := jobPublishedEmailInput{JobTitle: jobTitle, JobID: jobID}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: email}

	if err := sendInput.GenerateBodyFromHTML(s.config.Templates.JobPublished, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if flyer := s.buildFlyer(ctx, jobID); flyer != nil {
		sendInput.Attachments = append(sendInput.Attachments, *flyer)
	}

	if err := s.sender.Send(sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}

func (s *emailSender) buildFlyer(ctx context.Context, jobID string) *emailProvider.Attachment {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		logger.Warn("fetch job for flyer failed", zap.Error(err), zap.String("job_id", jobID))
		return nil
	}

	data, err := pdf.NewGenerator().GenerateJobPDF(job)
	if err != nil {
		logger.Warn("generate job flyer failed", zap.Error(err), zap.String("job_id", jobID))
		return nil
	}

	return &emailProvider.Attachment{
		Filename:    "job.pdf",
		ContentType: "application/pdf",
		Data:        data,
	}
}
