package cli

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mileage-logbook/internal/config"
	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/ledger"
	"mileage-logbook/internal/logging"
	"mileage-logbook/internal/storage"
)

// harness runs lb invocations against one in-memory store. Every run builds
// a fresh root command, the same way each shell invocation is a new process.
type harness struct {
	t      *testing.T
	store  *storage.MemoryStore
	clock  *ledger.FixedClock
	config *config.Config
	opened int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Report.Locale = "en"
	return &harness{
		t:      t,
		store:  storage.NewMemoryStore(),
		clock:  ledger.NewFixedClock(time.Date(2026, 10, 19, 8, 0, 0, 0, time.Local)),
		config: cfg,
	}
}

func (h *harness) runWithInput(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	cfg := *h.config
	root := NewRootCommand(Deps{
		Config: &cfg,
		Open: func(*config.Config) (storage.Store, error) {
			h.opened++
			return h.store, nil
		},
		Clock:  h.clock,
		In:     strings.NewReader(stdin),
		Out:    &out,
		Err:    &errOut,
		Logger: logging.Discard(),
	})
	defer root.Close()

	err := root.ExecuteContext(context.Background(), args)
	return out.String(), err
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	return h.runWithInput("", args...)
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "lb %s", strings.Join(args, " "))
	return out
}

// drive records a closed trip and returns its id
func (h *harness) drive(tripType string, km int, d time.Duration, note ...string) int64 {
	h.t.Helper()
	args := append([]string{"start", "--type", tripType}, note...)
	h.mustRun(args...)
	h.clock.Advance(d)

	l := ledger.New(h.store)
	_, err := l.Initialize(context.Background())
	require.NoError(h.t, err)
	end := l.CurrentKm() + km

	h.mustRun("end", strconv.Itoa(end))
	return h.clock.Now().UnixMilli()
}

func (h *harness) trips() []domain.Trip {
	h.t.Helper()
	l := ledger.New(h.store)
	_, err := l.Initialize(context.Background())
	require.NoError(h.t, err)
	return l.Trips()
}
