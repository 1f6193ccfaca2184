package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/report"
	"fintrack/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	to       string
	username string
	report   report.Report
	pdf      []byte
	err      error
}

func (m *fakeMailer) SendReport(to, username string, r report.Report, pdf []byte) error {
	m.to, m.username, m.report, m.pdf = to, username, r, pdf
	return m.err
}

func newReportService(st store.Store, mailer ReportMailer) *ReportService {
	svc := NewReportService(st, NewProfileService(st, nil, "£", zap.NewNop()), mailer, zap.NewNop())
	svc.SetClock(fixedClock(testNow))
	return svc
}

func TestReportService_BuildDefaultsToCurrentMonth(t *testing.T) {
	st := store.NewMemoryStore()
	addTx(t, st, 1, "2024-02-29", "10", "Expense", "Rent")
	addTx(t, st, 1, "2024-03-01", "100", "Income", "Salary")
	addTx(t, st, 1, "2024-03-31", "40", "Expense", "Rent")
	addTx(t, st, 1, "2024-03-20", "25", "Loan", "Other")

	r, err := newReportService(st, &fakeMailer{}).Build(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 to 2024-03-31", r.Period())
	assert.Len(t, r.Transactions, 3)
	assert.Equal(t, "100", r.Totals.Income.String())
	assert.Equal(t, "40", r.Totals.Expense.String())
	assert.Equal(t, "60", r.Totals.Net.String())
	assert.Equal(t, "£", r.Currency)
}

func TestReportService_BuildDefaultsToCurrentMonth_LocalClock(t *testing.T) {
	tests := []struct {
		name string
		zone *time.Location
	}{
		{"东八区", time.FixedZone("UTC+8", 8*3600)},
		{"西五区", time.FixedZone("UTC-5", -5*3600)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			addTx(t, st, 1, "2024-03-01", "100", "Income", "Salary")
			addTx(t, st, 1, "2024-03-31", "40", "Expense", "Rent")

			svc := newReportService(st, &fakeMailer{})
			svc.SetClock(fixedClock(time.Date(2024, 3, 15, 10, 0, 0, 0, tt.zone)))
			r, err := svc.Build(context.Background(), 1, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, "2024-03-01 to 2024-03-31", r.Period())
			assert.Len(t, r.Transactions, 2)
			assert.Equal(t, "40", r.Totals.Expense.String())
		})
	}
}

func TestReportService_BuildRange(t *testing.T) {
	st := store.NewMemoryStore()
	addTx(t, st, 1, "2024-02-29", "10", "Expense", "Rent")
	svc := newReportService(st, &fakeMailer{})

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	r, err := svc.Build(context.Background(), 1, &start, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01 to 2024-03-31", r.Period())
	assert.Len(t, r.Transactions, 1)

	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Build(context.Background(), 1, &start, &end)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestReportService_Email(t *testing.T) {
	st := store.NewMemoryStore()
	u := mustRegister(t, st, "gina")
	addTx(t, st, u.ID, "2024-03-05", "12", "Expense", "Transport")

	mailer := &fakeMailer{}
	to, err := newReportService(st, mailer).Email(context.Background(), u.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "gina@example.com", to)
	assert.Equal(t, "gina", mailer.username)
	assert.True(t, bytes.HasPrefix(mailer.pdf, []byte("%PDF-")))
	assert.Len(t, mailer.report.Transactions, 1)
}

func TestReportService_EmailErrors(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	noMail, err := NewAuthService(st, nil, zap.NewNop()).Register(ctx, RegisterInput{Username: "hank", Password: "secret123"})
	require.NoError(t, err)
	_, err = newReportService(st, &fakeMailer{}).Email(ctx, noMail.ID, nil, nil)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	u := mustRegister(t, st, "ida")
	boom := errors.New("smtp down")
	_, err = newReportService(st, &fakeMailer{err: boom}).Email(ctx, u.ID, nil, nil)
	assert.ErrorIs(t, err, boom)

	_, err = newReportService(st, &fakeMailer{}).Email(ctx, 999, nil, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
