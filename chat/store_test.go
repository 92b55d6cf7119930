package chat

import (
	"testing"

	"fixdesk/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Office{}, &models.Ticket{}, &models.Message{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", Password: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTicket(t *testing.T, db *gorm.DB, reporterID uint, assignedToID *uint) *models.Ticket {
	t.Helper()
	office := &models.Office{Name: "HQ-" + t.Name()}
	require.NoError(t, db.Create(office).Error)
	status := models.StatusOpen
	if assignedToID != nil {
		status = models.StatusAssigned
	}
	ticket := &models.Ticket{
		Title:        "Broken chair",
		Description:  "The chair in the corner is broken",
		ReporterID:   reporterID,
		AssignedToID: assignedToID,
		OfficeID:     office.ID,
		Status:       status,
	}
	require.NoError(t, db.Create(ticket).Error)
	return ticket
}

func TestAppendRoundTrip(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	store := NewMessageStore(db)

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	stored, err := store.Append(ticket.ID, reporter.ID, "  hello  ")
	req.NoError(err)
	req.Equal("hello", stored.Content)
	req.Equal(reporter.ID, stored.SenderID)
	req.Equal(ticket.ID, stored.TicketID)
	req.False(stored.Read)

	// Sender fields come back populated for immediate echo
	req.Equal("rita", stored.Sender.Name)
	req.Equal(models.RoleStandard, stored.Sender.Role)

	listed, err := store.ListByTicket(ticket.ID)
	req.NoError(err)
	req.Len(listed, 1)
	req.Equal("hello", listed[0].Content)
	req.Equal(reporter.ID, listed[0].SenderID)
	req.Equal(ticket.ID, listed[0].TicketID)
}

func TestAppendRejectsEmptyContent(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	store := NewMessageStore(db)

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	ticket := seedTicket(t, db, reporter.ID, nil)

	_, err := store.Append(ticket.ID, reporter.ID, "   \t  ")
	var validationErr *ValidationError
	req.ErrorAs(err, &validationErr)
}

func TestListByTicketOrdering(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	store := NewMessageStore(db)

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	_, err := store.Append(ticket.ID, reporter.ID, "first")
	req.NoError(err)
	_, err = store.Append(ticket.ID, desk.ID, "second")
	req.NoError(err)
	_, err = store.Append(ticket.ID, reporter.ID, "third")
	req.NoError(err)

	listed, err := store.ListByTicket(ticket.ID)
	req.NoError(err)
	req.Len(listed, 3)
	req.Equal("first", listed[0].Content)
	req.Equal("second", listed[1].Content)
	req.Equal("third", listed[2].Content)
}

func TestMarkReadExcept(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	store := NewMessageStore(db)

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	_, err := store.Append(ticket.ID, reporter.ID, "from reporter")
	req.NoError(err)
	_, err = store.Append(ticket.ID, desk.ID, "from desk")
	req.NoError(err)

	// Desk opens the thread: only the reporter's message flips
	updated, err := store.MarkReadExcept(ticket.ID, desk.ID)
	req.NoError(err)
	req.EqualValues(1, updated)

	listed, err := store.ListByTicket(ticket.ID)
	req.NoError(err)
	for _, msg := range listed {
		if msg.SenderID == reporter.ID {
			req.True(msg.Read)
			req.NotNil(msg.ReadAt)
		} else {
			req.False(msg.Read)
			req.Nil(msg.ReadAt)
		}
	}
}

func TestMarkReadExceptIdempotent(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	store := NewMessageStore(db)

	reporter := seedUser(t, db, "rita", models.RoleStandard)
	desk := seedUser(t, db, "sam", models.RoleServiceDesk)
	ticket := seedTicket(t, db, reporter.ID, &desk.ID)

	_, err := store.Append(ticket.ID, reporter.ID, "unread")
	req.NoError(err)

	first, err := store.MarkReadExcept(ticket.ID, desk.ID)
	req.NoError(err)
	req.EqualValues(1, first)

	afterFirst, err := store.ListByTicket(ticket.ID)
	req.NoError(err)

	// Re-applying is a no-op
	second, err := store.MarkReadExcept(ticket.ID, desk.ID)
	req.NoError(err)
	req.EqualValues(0, second)

	afterSecond, err := store.ListByTicket(ticket.ID)
	req.NoError(err)
	req.Equal(afterFirst[0].Read, afterSecond[0].Read)
	req.WithinDuration(*afterFirst[0].ReadAt, *afterSecond[0].ReadAt, 0)
}
