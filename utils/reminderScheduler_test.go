package utils

import (
	"testing"

	"fixdesk/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func reminderTicket(reporterID uint, assigneeID *uint) *models.Ticket {
	ticket := &models.Ticket{
		Model:      gorm.Model{ID: 1},
		Title:      "Broken monitor",
		ReporterID: reporterID,
		Reporter:   models.User{Model: gorm.Model{ID: reporterID}, Name: "Rita", Email: "rita@example.com"},
	}
	if assigneeID != nil {
		ticket.AssignedToID = assigneeID
		ticket.AssignedTo = &models.User{Model: gorm.Model{ID: *assigneeID}, Name: "Sam", Email: "sam@example.com"}
	}
	return ticket
}

func TestReminderTargetsBothSides(t *testing.T) {
	req := require.New(t)

	assigneeID := uint(2)
	ticket := reminderTicket(1, &assigneeID)

	// Reporter left 2 unread, assignee left 3: both sides get a reminder.
	targets := reminderTargets(ticket, map[uint]int{1: 2, 2: 3})
	req.Len(targets, 2)

	byEmail := make(map[string]int)
	for _, target := range targets {
		byEmail[target.recipient.Email] = target.unread
	}
	req.Equal(2, byEmail["sam@example.com"])
	req.Equal(3, byEmail["rita@example.com"])
}

func TestReminderTargetsSingleSide(t *testing.T) {
	req := require.New(t)

	assigneeID := uint(2)
	ticket := reminderTicket(1, &assigneeID)

	targets := reminderTargets(ticket, map[uint]int{2: 4})
	req.Len(targets, 1)
	req.Equal("rita@example.com", targets[0].recipient.Email)
	req.Equal(4, targets[0].unread)
}

func TestReminderTargetsSkipsMissingAssignee(t *testing.T) {
	req := require.New(t)

	ticket := reminderTicket(1, nil)

	// Reporter wrote into an unassigned ticket: nobody to remind.
	targets := reminderTargets(ticket, map[uint]int{1: 5})
	req.Empty(targets)
}
