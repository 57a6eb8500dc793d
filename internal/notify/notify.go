package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/BuzzLyutic/taskflow-api/internal/model"
)

// Notifier отправляет письмо о созданной задаче
type Notifier interface {
	TaskCreated(ctx context.Context, recipient string, task model.Task) error
}

// SMTPNotifier - простой клиент без аутентификации; релей настраивается снаружи
type SMTPNotifier struct {
	addr   string
	sender string
}

func NewSMTPNotifier(addr, sender string) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, sender: sender}
}

func (n *SMTPNotifier) TaskCreated(ctx context.Context, recipient string, task model.Task) error {
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Your task has been created successfully with the following details:\n"+
			"Title: %s\n"+
			"Task ID: %s\n\n"+
			"Best regards,\nTaskflow Team",
		task.Title, task.TaskID,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Task Created Successfully\r\n\r\n%s\r\n",
		n.sender, recipient, body)

	if err := smtp.SendMail(n.addr, nil, n.sender, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email notification: %w", err)
	}
	return nil
}
