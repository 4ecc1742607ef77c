package emailService

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	to      string
	subject string
	body    string
}

type recordingDeliverer struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (d *recordingDeliverer) deliver(to, subject string, body []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMessage{to: to, subject: subject, body: string(body)})
	return nil
}

func TestRender_DebtReminder(t *testing.T) {
	s, err := NewLogEmailService()
	require.NoError(t, err)

	body, err := s.render(DebtReminderData{
		UserName: "ana",
		Debts: []DebtReminderLine{
			{Name: "Visa", Lender: "Bancolombia", MinimumPayment: "150000.00", Currency: "COP", DueDay: 15},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), "Hi ana")
	assert.Contains(t, string(body), "Bancolombia")
	assert.Contains(t, string(body), "150000.00 COP")
}

func TestQueueEmail_DeliveredByWorker(t *testing.T) {
	rec := &recordingDeliverer{}
	s, err := newEmailService(rec.deliver)
	require.NoError(t, err)

	s.Start(context.Background())
	s.QueueEmail("ana@example.com", WelcomeData{UserName: "ana"})
	s.Close()

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "ana@example.com", rec.sent[0].to)
	assert.Equal(t, subjectWelcome, rec.sent[0].subject)
	assert.True(t, strings.Contains(rec.sent[0].body, "Welcome to FinanceLedger, ana!"))
}
