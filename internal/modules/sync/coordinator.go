package sync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"farmavisitas/internal/domain"
	"farmavisitas/internal/pkg/sheets"
)

var (
	ErrUnknownKind = errors.New("unknown record kind")
	ErrNotFound    = errors.New("record not found")
)

// Collection kinds accepted by SyncOne.
const (
	KindClient      = "client"
	KindMedicine    = "medicine"
	KindVisit       = "visit"
	KindSale        = "sale"
	KindAppointment = "appointment"
	KindPlan        = "plan"
)

// CollectionReport counts one collection's run.
type CollectionReport struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// Report aggregates a full SyncAll run. SuccessRate is a percentage
// rounded to one decimal; a run that attempted nothing reports 0.0
// rather than dividing by zero.
type Report struct {
	Collections map[string]CollectionReport `json:"collections"`
	Success     int                         `json:"success"`
	Failed      int                         `json:"failed"`
	SuccessRate float64                     `json:"success_rate"`
	StartedAt   time.Time                   `json:"started_at"`
	FinishedAt  time.Time                   `json:"finished_at"`
}

func (r *Report) finish(now time.Time) {
	r.FinishedAt = now
	total := r.Success + r.Failed
	if total == 0 {
		r.SuccessRate = 0.0
		return
	}
	r.SuccessRate = math.Round(float64(r.Success)/float64(total)*1000) / 10
}

// ProgressSink receives per-collection progress while a run advances.
// The websocket hub implements it; a nil sink is fine.
type ProgressSink interface {
	Progress(collection string, done, total, failed int)
}

// Coordinator mirrors the six local collections into the remote tabular
// store. Every record is attempted once per run: a failed record is
// counted and dropped from the run, never retried automatically, and
// never aborts the batch. The one exception is an expired token, which
// would fail every remaining record the same way, so the run stops and
// surfaces the auth condition.
type Coordinator struct {
	tables       TableClient
	clients      ClientSource
	medicines    MedicineSource
	visits       VisitSource
	appointments AppointmentSource
	plans        PlanSource
	statuses     StatusRecorder
	progress     ProgressSink
	now          func() time.Time
}

func NewCoordinator(
	tables TableClient,
	clients ClientSource,
	medicines MedicineSource,
	visits VisitSource,
	appointments AppointmentSource,
	plans PlanSource,
	statuses StatusRecorder,
	progress ProgressSink,
) *Coordinator {
	return &Coordinator{
		tables:       tables,
		clients:      clients,
		medicines:    medicines,
		visits:       visits,
		appointments: appointments,
		plans:        plans,
		statuses:     statuses,
		progress:     progress,
		now:          time.Now,
	}
}

type record struct {
	id  string
	row []string
}

// appendOrUpdate scans column A of the sheet for the record id: a hit
// updates that row in place, a miss appends. The scan is fresh on every
// call; fine at the row counts this system sees, documented as the
// thing to replace with an id->offset index if it ever is not.
func (c *Coordinator) appendOrUpdate(ctx context.Context, sheet string, rec record) error {
	colA, err := c.tables.GetValues(ctx, sheet+"!A:A")
	if err != nil {
		return err
	}

	for i, row := range colA {
		if len(row) > 0 && row[0] == rec.id {
			// Rows are 1-based in range specs.
			target := fmt.Sprintf("%s!A%d", sheet, i+1)
			return c.tables.UpdateValues(ctx, target, [][]string{rec.row})
		}
	}
	return c.tables.AppendValues(ctx, sheet+"!A1", [][]string{rec.row})
}

func (c *Coordinator) recordStatus(ctx context.Context, collection, id string, err error) {
	if c.statuses == nil {
		return
	}
	s := domain.SyncStatus{
		Collection:  collection,
		EntityID:    id,
		Outcome:     domain.SyncOK,
		AttemptedAt: c.now(),
	}
	if err != nil {
		s.Outcome = domain.SyncFailed
		s.Detail = err.Error()
	}
	if rerr := c.statuses.Record(ctx, s); rerr != nil {
		log.Printf("sync: recording status for %s/%s failed: %v", collection, id, rerr)
	}
}

func (c *Coordinator) syncCollection(ctx context.Context, report *Report, sheet string, recs []record) error {
	var cr CollectionReport
	for i, rec := range recs {
		err := c.appendOrUpdate(ctx, sheet, rec)
		c.recordStatus(ctx, sheet, rec.id, err)
		if err != nil {
			if errors.Is(err, sheets.ErrAuthExpired) {
				cr.Failed++
				report.Collections[sheet] = cr
				report.Failed += cr.Failed
				report.Success += cr.Success
				return err
			}
			log.Printf("sync: %s record %s failed: %v", sheet, rec.id, err)
			cr.Failed++
		} else {
			cr.Success++
		}
		if c.progress != nil {
			c.progress.Progress(sheet, i+1, len(recs), cr.Failed)
		}
	}
	report.Collections[sheet] = cr
	report.Success += cr.Success
	report.Failed += cr.Failed
	return nil
}

// SyncAll mirrors every collection and reports per-collection counts.
func (c *Coordinator) SyncAll(ctx context.Context) (*Report, error) {
	report := &Report{
		Collections: make(map[string]CollectionReport),
		StartedAt:   c.now(),
	}

	clients, err := c.clients.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	meds, err := c.medicines.List(ctx, "")
	if err != nil {
		return nil, err
	}
	visits, err := c.visits.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := c.visits.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	appts, err := c.appointments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := c.plans.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	batches := []struct {
		sheet string
		recs  []record
	}{
		{sheets.SheetClientes, clientRecords(clients)},
		{sheets.SheetMedicamentos, medicineRecords(meds)},
		{sheets.SheetVisitas, visitRecords(visits)},
		{sheets.SheetVentas, saleRecords(sales)},
		{sheets.SheetCitas, appointmentRecords(appts)},
		{sheets.SheetPlanificaciones, planRecords(plans)},
	}

	for _, b := range batches {
		if err := c.syncCollection(ctx, report, b.sheet, b.recs); err != nil {
			report.finish(c.now())
			return report, err
		}
	}

	report.finish(c.now())
	log.Printf("sync: all collections done success=%d failed=%d rate=%.1f%%",
		report.Success, report.Failed, report.SuccessRate)
	return report, nil
}

func clientRecords(in []domain.Client) []record {
	out := make([]record, 0, len(in))
	for _, c := range in {
		out = append(out, record{id: c.ID, row: clientRow(c)})
	}
	return out
}

func medicineRecords(in []domain.Medicine) []record {
	out := make([]record, 0, len(in))
	for _, m := range in {
		out = append(out, record{id: m.ID, row: medicineRow(m)})
	}
	return out
}

func visitRecords(in []domain.Visit) []record {
	out := make([]record, 0, len(in))
	for _, v := range in {
		out = append(out, record{id: v.ID, row: visitRow(v)})
	}
	return out
}

func saleRecords(in []domain.Sale) []record {
	out := make([]record, 0, len(in))
	for _, s := range in {
		out = append(out, record{id: s.ID, row: saleRow(s)})
	}
	return out
}

func appointmentRecords(in []domain.Appointment) []record {
	out := make([]record, 0, len(in))
	for _, a := range in {
		out = append(out, record{id: a.ID, row: appointmentRow(a)})
	}
	return out
}

func planRecords(in []domain.PlanEntry) []record {
	out := make([]record, 0, len(in))
	for _, p := range in {
		out = append(out, record{id: p.ID, row: planRow(p)})
	}
	return out
}

// SyncOne mirrors a single record by kind and id, resolving it fresh
// from the local store.
func (c *Coordinator) SyncOne(ctx context.Context, kind, id string) error {
	var (
		sheet string
		rec   record
	)

	switch kind {
	case KindClient:
		cl, err := c.clients.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		sheet, rec = sheets.SheetClientes, record{id: cl.ID, row: clientRow(*cl)}
	case KindMedicine:
		m, err := c.medicines.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		sheet, rec = sheets.SheetMedicamentos, record{id: m.ID, row: medicineRow(*m)}
	case KindVisit:
		v, err := c.visits.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		sheet, rec = sheets.SheetVisitas, record{id: v.ID, row: visitRow(*v)}
	case KindSale:
		s, err := c.visits.GetSaleByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		sheet, rec = sheets.SheetVentas, record{id: s.ID, row: saleRow(*s)}
	case KindAppointment:
		a, err := c.appointments.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		sheet, rec = sheets.SheetCitas, record{id: a.ID, row: appointmentRow(*a)}
	case KindPlan:
		p, err := c.plans.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		sheet, rec = sheets.SheetPlanificaciones, record{id: p.ID, row: planRow(*p)}
	default:
		return ErrUnknownKind
	}

	err := c.appendOrUpdate(ctx, sheet, rec)
	c.recordStatus(ctx, sheet, rec.id, err)
	return err
}

// MirrorPlan satisfies the planning board's mirror: one append-or-update.
func (c *Coordinator) MirrorPlan(ctx context.Context, entry domain.PlanEntry) error {
	err := c.appendOrUpdate(ctx, sheets.SheetPlanificaciones, record{id: entry.ID, row: planRow(entry)})
	c.recordStatus(ctx, sheets.SheetPlanificaciones, entry.ID, err)
	return err
}

// RewritePlans clears the plan range below the header and rewrites the
// surviving collection, so a removal leaves neither orphan rows nor
// duplicate ids behind.
func (c *Coordinator) RewritePlans(ctx context.Context, entries []domain.PlanEntry) error {
	if err := c.tables.ClearValues(ctx, sheets.SheetPlanificaciones+"!A2:I"); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, planRow(e))
	}
	return c.tables.UpdateValues(ctx, sheets.SheetPlanificaciones+"!A2", rows)
}

// MirrorVisit pushes a finalized visit and, when present, its sale.
func (c *Coordinator) MirrorVisit(ctx context.Context, v domain.Visit) error {
	err := c.appendOrUpdate(ctx, sheets.SheetVisitas, record{id: v.ID, row: visitRow(v)})
	c.recordStatus(ctx, sheets.SheetVisitas, v.ID, err)
	if err != nil {
		return err
	}

	if v.Venta != nil {
		err = c.appendOrUpdate(ctx, sheets.SheetVentas, record{id: v.Venta.ID, row: saleRow(*v.Venta)})
		c.recordStatus(ctx, sheets.SheetVentas, v.Venta.ID, err)
		if err != nil {
			return err
		}
	}
	return nil
}

// FailedStatuses lists entities whose last mirror attempt failed.
func (c *Coordinator) FailedStatuses(ctx context.Context) ([]domain.SyncStatus, error) {
	if c.statuses == nil {
		return nil, nil
	}
	return c.statuses.ListFailed(ctx)
}
