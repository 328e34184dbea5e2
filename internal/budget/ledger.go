package budget

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger reserves spend against a cap. Reserve checks and records in one step,
// so concurrent callers can never jointly exceed the cap.
type Ledger interface {
	Reserve(amount float64) bool
	Release(amount float64)
	Remaining() float64
}

// DailyLedger is the process-wide daily spend cap. Spend resets when the
// calendar day (in the ledger's location) changes, or on ResetDaily.
type DailyLedger struct {
	mu       sync.Mutex
	state    *State
	filePath string
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

// LedgerOption configures a DailyLedger.
type LedgerOption func(*DailyLedger)

// WithClock overrides time.Now for day rollover.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *DailyLedger) { l.now = now }
}

// WithLocation sets the timezone whose midnight starts a new budget day.
func WithLocation(loc *time.Location) LedgerOption {
	return func(l *DailyLedger) { l.loc = loc }
}

// WithLogger sets the ledger's logger.
func WithLogger(log zerolog.Logger) LedgerOption {
	return func(l *DailyLedger) { l.log = log }
}

// NewDailyLedger creates a ledger, loading state from filePath when it exists.
// An empty filePath keeps state in memory.
func NewDailyLedger(filePath string, dailyLimit float64, opts ...LedgerOption) (*DailyLedger, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	l := &DailyLedger{
		state:    state,
		filePath: filePath,
		loc:      time.UTC,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.DailyLimit = decimal.NewFromFloat(dailyLimit)
	l.rollover()
	if err := l.save(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reserve records amount against today's spend if it fits under the limit.
func (l *DailyLedger) Reserve(amount float64) bool {
	if amount < 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()
	amt := decimal.NewFromFloat(amount)
	if l.state.Spent.Add(amt).GreaterThan(l.state.DailyLimit) {
		l.state.Rejections++
		l.log.Warn().
			Str("amount", amt.StringFixed(2)).
			Str("remaining", l.state.Remaining().StringFixed(2)).
			Msg("daily budget reservation rejected")
		l.persist()
		return false
	}
	l.state.Spent = l.state.Spent.Add(amt)
	l.state.Reservations++
	l.persist()
	return true
}

// Release returns a previously reserved amount, e.g. after a failed call.
func (l *DailyLedger) Release(amount float64) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rollover()
	l.state.Spent = decimal.Max(decimal.Zero, l.state.Spent.Sub(decimal.NewFromFloat(amount)))
	l.state.Releases++
	l.persist()
}

// Remaining returns what is left of today's limit.
func (l *DailyLedger) Remaining() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollover()
	return l.state.Remaining().InexactFloat64()
}

// GetState returns a copy of the current ledger state.
func (l *DailyLedger) GetState() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollover()
	return *l.state
}

// ResetDaily clears today's spend. Called by the scheduler at midnight.
func (l *DailyLedger) ResetDaily() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.Day = l.today()
	l.resetCounters()
	l.log.Info().Str("day", l.state.Day).Msg("daily budget reset")
	l.persist()
}

// rollover starts a new day when the calendar date has moved on. Callers hold mu.
func (l *DailyLedger) rollover() {
	today := l.today()
	if l.state.Day == today {
		return
	}
	if l.state.Day != "" {
		l.log.Info().
			Str("previous_day", l.state.Day).
			Str("spent", l.state.Spent.StringFixed(2)).
			Msg("budget day rolled over")
	}
	l.state.Day = today
	l.resetCounters()
}

func (l *DailyLedger) resetCounters() {
	l.state.Spent = decimal.Zero
	l.state.Reservations = 0
	l.state.Releases = 0
	l.state.Rejections = 0
}

func (l *DailyLedger) today() string {
	return l.now().In(l.loc).Format("2006-01-02")
}

func (l *DailyLedger) persist() {
	if err := l.save(); err != nil {
		l.log.Error().Err(err).Msg("failed to save budget state")
	}
}

func (l *DailyLedger) save() error {
	return SaveState(l.filePath, l.state)
}
