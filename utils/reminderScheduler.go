package utils

import (
	"fmt"
	"log"
	"time"

	"fixdesk/config"
	"fixdesk/database"
	"fixdesk/models"

	"github.com/robfig/cron/v3"
)

// logReminder logs reminder sweep events with timestamp
func logReminder(message string) {
	log.Printf("[REMINDER-SWEEP %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartReminderScheduler runs a periodic sweep that emails users about chat
// messages left unread past the configured threshold. Returns nil when
// reminders are disabled.
func StartReminderScheduler() *cron.Cron {
	if !config.AppConfig.RemindersEnabled {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(config.AppConfig.ReminderCron, sweepUnreadMessages); err != nil {
		log.Printf("Failed to schedule reminder sweep: %v", err)
		return nil
	}
	c.Start()
	logReminder("Scheduler started with spec " + config.AppConfig.ReminderCron)
	return c
}

// sweepUnreadMessages finds tickets with stale unread messages and emails the
// counterpart once per ticket.
func sweepUnreadMessages() {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.ReminderAfterMin) * time.Minute)

	var stale []models.Message
	if err := db.Where("read = ? AND created_at < ?", false, cutoff).Find(&stale).Error; err != nil {
		logReminder("Error fetching unread messages: " + err.Error())
		return
	}
	if len(stale) == 0 {
		return
	}

	// Group stale messages per ticket and per sender; each side of the thread
	// gets its own reminder when it has messages waiting.
	byTicket := make(map[uint]map[uint]int)
	for _, msg := range stale {
		senders := byTicket[msg.TicketID]
		if senders == nil {
			senders = make(map[uint]int)
			byTicket[msg.TicketID] = senders
		}
		senders[msg.SenderID]++
	}

	for ticketID, senders := range byTicket {
		var ticket models.Ticket
		if err := db.Preload("Reporter").Preload("AssignedTo").First(&ticket, ticketID).Error; err != nil {
			logReminder(fmt.Sprintf("Error fetching ticket %d: %v", ticketID, err))
			continue
		}
		if ticket.Status == models.StatusClosed {
			continue
		}

		for _, target := range reminderTargets(&ticket, senders) {
			if target.recipient.Email == "" {
				continue
			}

			subject := fmt.Sprintf("Unread messages on ticket #%d", ticket.ID)
			body := getEmailTemplate("Unread ticket messages", fmt.Sprintf(
				`<p>Hi %s,</p>
				<p>You have <strong>%d unread message(s)</strong> on ticket <strong>#%d — %s</strong>.</p>
				<p>Open the ticket chat to catch up.</p>`,
				target.recipient.Name, target.unread, ticket.ID, ticket.Title,
			))

			if err := SendEmail([]string{target.recipient.Email}, subject, body); err != nil {
				logReminder(fmt.Sprintf("Error emailing reminder for ticket %d: %v", ticketID, err))
				continue
			}
			logReminder(fmt.Sprintf("Reminder sent for ticket %d (%d unread for %s)", ticketID, target.unread, target.recipient.Email))
		}
	}
}

type reminderTarget struct {
	recipient *models.User
	unread    int
}

// reminderTargets resolves which sides of a ticket's thread are owed a
// reminder. Messages the reporter wrote are waiting on the assignee and vice
// versa, so a ticket where both parties went quiet yields two targets.
func reminderTargets(ticket *models.Ticket, bySender map[uint]int) []reminderTarget {
	fromReporter, fromCounterpart := 0, 0
	for senderID, n := range bySender {
		if senderID == ticket.ReporterID {
			fromReporter += n
		} else {
			fromCounterpart += n
		}
	}

	var targets []reminderTarget
	if fromReporter > 0 && ticket.AssignedTo != nil {
		targets = append(targets, reminderTarget{recipient: ticket.AssignedTo, unread: fromReporter})
	}
	if fromCounterpart > 0 {
		targets = append(targets, reminderTarget{recipient: &ticket.Reporter, unread: fromCounterpart})
	}
	return targets
}
