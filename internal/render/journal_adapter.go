package render

import (
	"context"
	"fmt"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"

	"github.com/shopspring/decimal"
)

const defaultSeenCapacity = 1024

// JournalAdapter records every applied signal once, regardless of the active
// view filter. Keyed signals are tracked in a bounded seen set; the oldest
// keys are forgotten first. Signals without a source timestamp have no stable
// key, so a pull records only the occurrences its predecessor did not hold.
type JournalAdapter struct {
	journal domrepo.SignalJournal
	d       submitter

	seen  map[models.SignalKey]struct{}
	order []models.SignalKey
	cap   int

	// unkeyed occurrences per fingerprint in the last pull plus later pushes
	prevPull map[string]int
}

func NewJournalAdapter(journal domrepo.SignalJournal, d submitter) *JournalAdapter {
	return &JournalAdapter{
		journal:  journal,
		d:        d,
		seen:     make(map[models.SignalKey]struct{}, defaultSeenCapacity),
		cap:      defaultSeenCapacity,
		prevPull: map[string]int{},
	}
}

func (a *JournalAdapter) OnSignalsAdded(source string, added []models.Signal) {
	var fresh []models.Signal
	pullCounts := map[string]int{}
	// oldest first so the journal preserves arrival order
	for i := len(added) - 1; i >= 0; i-- {
		s := added[i]
		if s.Keyed() {
			k := s.Key()
			if _, ok := a.seen[k]; ok {
				continue
			}
			a.remember(k)
			fresh = append(fresh, s)
			continue
		}
		fp := fingerprint(s)
		if source == models.SourcePush {
			a.prevPull[fp]++
			fresh = append(fresh, s)
			continue
		}
		pullCounts[fp]++
		if pullCounts[fp] > a.prevPull[fp] {
			fresh = append(fresh, s)
		}
	}
	if source != models.SourcePush {
		a.prevPull = pullCounts
	}
	if len(fresh) == 0 {
		return
	}
	a.d.Submit(Job{
		Name: "journal",
		Run: func(ctx context.Context) error {
			return a.journal.Record(ctx, source, fresh)
		},
	})
}

func fingerprint(s models.Signal) string {
	return fmt.Sprintf("%s|%s|%s|%s", s.Asset, s.Direction, s.Timeframe, s.ConfidenceText())
}

func (a *JournalAdapter) remember(k models.SignalKey) {
	a.seen[k] = struct{}{}
	a.order = append(a.order, k)
	if len(a.order) > a.cap {
		delete(a.seen, a.order[0])
		a.order = a.order[1:]
	}
}

func (a *JournalAdapter) OnSignalsChanged([]models.Signal)                             {}
func (a *JournalAdapter) OnPullCompleted(error)                                        {}
func (a *JournalAdapter) OnMetricsChanged(models.PerformanceSnapshot, decimal.Decimal) {}
func (a *JournalAdapter) OnChartChanged([]models.ChartPoint)                           {}
func (a *JournalAdapter) OnConnectionChanged(models.ConnectionStatus)                  {}
func (a *JournalAdapter) OnClientsChanged(int)                                         {}
func (a *JournalAdapter) OnError(string)                                               {}
func (a *JournalAdapter) OnNotification(string)                                        {}
