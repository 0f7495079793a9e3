package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DebtPending is the only status a live debt carries; settling removes the
// record entirely.
const DebtPending = "pending"

type (
	TransactionType string

	// Date is a calendar date (UTC midnight). Time-of-day is never meaningful.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded income or expense event. Immutable
	// once created except for deletion.
	Transaction struct {
		ID          string          `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
		IsRecurring bool            `json:"isRecurring"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// Goal is a savings goal. Current only ever grows through deposits.
	Goal struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Target    Money     `json:"target"`
		Current   Money     `json:"current"`
		CreatedAt time.Time `json:"createdAt"`
	}

	// Debt is the share of a split expense owed by another person, tracked
	// until settled.
	Debt struct {
		ID          string    `json:"id"`
		Person      string    `json:"person"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		Status      string    `json:"status"`
		CreatedAt   time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyPerson      = errors.New("empty person")
)

// DefaultCategories seeds the catalog for a fresh install. The user can
// extend the list; order is preserved and names are case-sensitive.
var DefaultCategories = []string{
	"Food", "Transport", "Housing", "Utilities",
	"Entertainment", "Health", "Shopping", "Other",
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// MonthKey returns the fully qualified year-month identifier (YYYY-MM).
// Monthly bucketing keys on this, never on display labels, so that months
// with the same name in different years stay distinct.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// MarshalJSON renders the date as an ISO string rather than an RFC 3339
// timestamp; time-of-day would be noise on the wire.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.ISO() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Title)) == 0 {
		return ErrEmptyTitle
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (d Debt) Validate() error {
	if strings.TrimSpace(d.Person) == "" {
		return ErrEmptyPerson
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	return d.Date.Validate()
}
