// Package mailer - тонкая обертка над SMTP для уведомлений системы прогнозов
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Client struct {
	dialer *gomail.Dialer
	from   string
	appURL string
}

func NewClient(host string, port int, username, password, from, appURL string) *Client {
	// Отправка не должна зависать: транспорт ограничен таймаутом
	// (gomail.v2 жестко ограничивает установку соединения 10 секундами)
	dialer := gomail.NewDialer(host, port, username, password)

	return &Client{
		dialer: dialer,
		from:   from,
		appURL: appURL,
	}
}

func (c *Client) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := c.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

// SendForecastReminder напоминает о неподанном прогнозе
func (c *Client) SendForecastReminder(email, name, department, quarterYear string) error {
	subject := fmt.Sprintf("Manpower Forecast Submission Reminder - %s", quarterYear)
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"This is a friendly reminder that your %s department's manpower forecast for %s is pending submission.\n\n"+
			"Please log in to the Manpower Forecast System to complete and submit your forecast.\n\n"+
			"System URL: %s/forecasts\n\n"+
			"If you have any questions, please contact the system administrator.\n\n"+
			"Manpower Forecast System - Automated Reminder\n",
		name, department, quarterYear, c.appURL)

	return c.send(email, subject, body)
}

// SendDeadlineWarning предупреждает о приближающемся дедлайне
func (c *Client) SendDeadlineWarning(email, name, department, quarterYear string, daysLeft int) error {
	var subject, due string
	if daysLeft >= 0 {
		subject = fmt.Sprintf("URGENT: Forecast Deadline Approaching - %d Day(s) Left", daysLeft)
		due = fmt.Sprintf("is due in %d day(s)", daysLeft)
	} else {
		// Дедлайн уже прошел - не пугаем отрицательными днями
		subject = "URGENT: Forecast Submission Overdue"
		due = "is overdue"
	}

	body := fmt.Sprintf(
		"URGENT: %s\n\n"+
			"Your %s department's manpower forecast for %s %s.\n\n"+
			"Please submit your forecast immediately to avoid delays in the planning process.\n\n"+
			"System URL: %s/forecasts\n\n"+
			"Manpower Forecast System - Deadline Warning\n",
		name, department, quarterYear, due, c.appURL)

	return c.send(email, subject, body)
}

// SendApprovalNotification сообщает автору результат проверки прогноза
func (c *Client) SendApprovalNotification(email, name, department, quarterYear, status, comments string) error {
	var verdict string
	if status == "approved" {
		verdict = "Approved"
	} else {
		verdict = "Rejected"
	}

	subject := fmt.Sprintf("Forecast %s - %s", verdict, quarterYear)

	commentBlock := ""
	if comments != "" {
		commentBlock = fmt.Sprintf("Reviewer Comments: %s\n\n", comments)
	}

	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your %s department's manpower forecast for %s has been %s.\n\n"+
			"%s"+
			"System URL: %s/forecasts\n\n"+
			"Manpower Forecast System\n",
		name, department, quarterYear, verdict, commentBlock, c.appURL)

	return c.send(email, subject, body)
}
