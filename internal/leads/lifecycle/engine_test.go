package lifecycle

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.EventName() == name {
			n++
		}
	}
	return n
}

// steppingClock advances one second per reading so events get distinct times.
type steppingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *steppingClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type thresholdConfig int

func (t thresholdConfig) GetEscalationFailedCalls() int { return int(t) }

type fixture struct {
	engine *Engine
	store  *repository.Memory
	bus    *recordingBus
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	store := repository.NewMemory()
	if err := SeedDefaultStatuses(context.Background(), store); err != nil {
		t.Fatalf("SeedDefaultStatuses() error = %v", err)
	}
	bus := &recordingBus{}
	clock := &steppingClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.now)}, opts...)
	return fixture{
		engine: New(store, store, bus, nil, logger.Discard(), opts...),
		store:  store,
		bus:    bus,
	}
}

func (f fixture) lead(t *testing.T) domain.Lead {
	t.Helper()
	lead, err := f.engine.CreateLead(context.Background(), NewLead{Name: "Ayşe Kaya", Phone: "0532 123 45 67"})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	return lead
}

func (f fixture) events(t *testing.T, id uuid.UUID) []domain.ContactEvent {
	t.Helper()
	evs, err := f.store.ListEvents(context.Background(), id)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	return evs
}

func (f fixture) call(t *testing.T, id uuid.UUID, disposition string) CallOutcome {
	t.Helper()
	out, err := f.engine.LogCall(context.Background(), id, CallInput{Disposition: disposition})
	if err != nil {
		t.Fatalf("LogCall(%s) error = %v", disposition, err)
	}
	return out
}

func countType(evs []domain.ContactEvent, typ string) int {
	n := 0
	for _, e := range evs {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestCreateLeadDefaults(t *testing.T) {
	f := newFixture(t)
	lead, err := f.engine.CreateLead(context.Background(), NewLead{
		Name:  "  Mehmet   Demir ",
		Phone: "+90 555 123 45 67",
	})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	if lead.Name != "Mehmet Demir" {
		t.Errorf("Name = %q", lead.Name)
	}
	if lead.Phone != "05551234567" {
		t.Errorf("Phone = %q, want storage form", lead.Phone)
	}
	if lead.StatusCode != domain.StatusNew || lead.CallCount != 0 || lead.Source != domain.SourceWhatsApp {
		t.Errorf("unexpected defaults: %+v", lead)
	}

	evs := f.events(t, lead.ID)
	if len(evs) != 1 || evs[0].Type != domain.EventNote || evs[0].Note != "Aday oluşturuldu" {
		t.Fatalf("creation history = %+v", evs)
	}
	if f.bus.count(events.LeadCreated{}.EventName()) != 1 {
		t.Fatal("LeadCreated not published")
	}
}

func TestCreateLeadValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		in   NewLead
	}{
		{"blank name", NewLead{Name: "  ", Phone: "05321234567"}},
		{"short name", NewLead{Name: "A", Phone: "05321234567"}},
		{"landline", NewLead{Name: "Ali Veli", Phone: "0444 123 45 67"}},
		{"unknown source", NewLead{Name: "Ali Veli", Phone: "05321234567", Source: "billboard"}},
		{"long notes", NewLead{Name: "Ali Veli", Phone: "05321234567", Notes: strings.Repeat("x", 1001)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.engine.CreateLead(context.Background(), tc.in)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("CreateLead() error = %v, want validation", err)
			}
		})
	}
	if f.bus.count(events.LeadCreated{}.EventName()) != 0 {
		t.Fatal("invalid leads must not be announced")
	}
}

func TestCreateLeadFromText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lead, parsed, err := f.engine.CreateLeadFromText(ctx,
		"Merhaba, ben Ahmet Yılmaz. Telefon numaram: 0532 123 45 67. İstanbul Kadıköy'de yaşıyorum.",
		NewLead{Source: domain.SourceReferral})
	if err != nil {
		t.Fatalf("CreateLeadFromText() error = %v", err)
	}
	if lead.Name != "Ahmet Yılmaz" || lead.Phone != "05321234567" || lead.City != "İstanbul" {
		t.Errorf("lead = %+v", lead)
	}
	if lead.Source != domain.SourceReferral {
		t.Errorf("Source = %q, override should win", lead.Source)
	}
	if parsed.Confidence < 90 {
		t.Errorf("Confidence = %d", parsed.Confidence)
	}

	if _, _, err := f.engine.CreateLeadFromText(ctx, "sadece bir mesaj", NewLead{}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("missing fields error = %v, want validation", err)
	}
	if _, _, err := f.engine.CreateLeadFromText(ctx, "   ", NewLead{}); !apperr.Is(err, apperr.KindParseFailure) {
		t.Errorf("blank text error = %v, want parse failure", err)
	}
}

func TestThirdUnreachableCallClosesLead(t *testing.T) {
	f := newFixture(t)
	lead := f.lead(t)

	f.call(t, lead.ID, domain.DispositionUnreachable)
	out := f.call(t, lead.ID, domain.DispositionUnreachable)
	if out.Lead.CallCount != 2 || out.Lead.StatusCode != domain.StatusNew || out.Escalated {
		t.Fatalf("after two calls: %+v", out)
	}
	before := len(f.events(t, lead.ID))

	out = f.call(t, lead.ID, domain.DispositionUnreachable)
	if out.Lead.CallCount != 3 {
		t.Errorf("CallCount = %d, want 3", out.Lead.CallCount)
	}
	if out.Lead.StatusCode != domain.StatusClosed || !out.Escalated {
		t.Fatalf("status = %s escalated = %v, want CLOSED", out.Lead.StatusCode, out.Escalated)
	}

	evs := f.events(t, lead.ID)
	appended := evs[before:]
	if len(appended) != 2 || appended[0].Type != domain.EventCall || appended[1].Type != domain.EventStatusChange {
		t.Fatalf("appended events = %+v, want call then status_change", appended)
	}
	change := appended[1]
	if change.ToStatus != domain.StatusClosed || change.FromStatus != domain.StatusNew {
		t.Errorf("status_change = %s -> %s", change.FromStatus, change.ToStatus)
	}
	if change.Note != "Otomatik: 3 başarısız arama denemesi" {
		t.Errorf("escalation note = %q", change.Note)
	}
	if countType(evs, domain.EventStatusChange) != 1 {
		t.Errorf("want exactly one status_change event")
	}

	stored, _ := f.store.GetLead(context.Background(), lead.ID)
	if stored.StatusCode != domain.StatusClosed {
		t.Errorf("stored status = %s", stored.StatusCode)
	}
	if f.bus.count(events.LeadEscalated{}.EventName()) != 1 {
		t.Error("LeadEscalated not published")
	}

	// a closed lead keeps recording calls without re-escalating
	out = f.call(t, lead.ID, domain.DispositionUnreachable)
	if out.Escalated || out.Lead.CallCount != 4 {
		t.Errorf("fourth call: %+v", out)
	}
	if countType(f.events(t, lead.ID), domain.EventStatusChange) != 1 {
		t.Error("escalation must fire once")
	}
}

func TestBrokenStreakDoesNotClose(t *testing.T) {
	tests := []struct {
		name  string
		calls []string
	}{
		{"two unreachable", []string{domain.DispositionUnreachable, domain.DispositionUnreachable}},
		{"answered in between", []string{
			domain.DispositionUnreachable, domain.DispositionAnswered,
			domain.DispositionUnreachable, domain.DispositionUnreachable,
		}},
		{"other failures", []string{
			domain.DispositionNoAnswer, domain.DispositionBusy, domain.DispositionWrongNumber,
		}},
		{"last call busy", []string{
			domain.DispositionUnreachable, domain.DispositionUnreachable, domain.DispositionBusy,
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			lead := f.lead(t)
			var out CallOutcome
			for _, d := range tc.calls {
				out = f.call(t, lead.ID, d)
			}
			if out.Lead.StatusCode == domain.StatusClosed || out.Escalated {
				t.Fatalf("lead closed after %v", tc.calls)
			}
			if out.Lead.CallCount != len(tc.calls) {
				t.Fatalf("CallCount = %d, want %d", out.Lead.CallCount, len(tc.calls))
			}
		})
	}
}

func TestNonCallEventsKeepTheStreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)

	f.call(t, lead.ID, domain.DispositionUnreachable)
	if _, err := f.engine.AddNote(ctx, lead.ID, "tekrar denenecek"); err != nil {
		t.Fatalf("AddNote() error = %v", err)
	}
	f.call(t, lead.ID, domain.DispositionUnreachable)
	out := f.call(t, lead.ID, domain.DispositionUnreachable)

	if out.Lead.StatusCode != domain.StatusClosed {
		t.Fatalf("status = %s, want CLOSED", out.Lead.StatusCode)
	}
}

func TestConfiguredThreshold(t *testing.T) {
	store := repository.NewMemory()
	_ = SeedDefaultStatuses(context.Background(), store)
	engine := New(store, store, nil, thresholdConfig(2), logger.Discard())
	if engine.EscalationThreshold() != 2 {
		t.Fatalf("threshold = %d", engine.EscalationThreshold())
	}

	lead, _ := engine.CreateLead(context.Background(), NewLead{Name: "Ali Veli", Phone: "5321234567"})
	_, _ = engine.LogCall(context.Background(), lead.ID, CallInput{Disposition: domain.DispositionUnreachable})
	out, err := engine.LogCall(context.Background(), lead.ID, CallInput{Disposition: domain.DispositionUnreachable})
	if err != nil {
		t.Fatalf("LogCall() error = %v", err)
	}
	if !out.Escalated {
		t.Fatal("second unreachable call should close with threshold 2")
	}
}

func TestConcurrentUnreachableCallsEscalateOnce(t *testing.T) {
	f := newFixture(t)
	lead := f.lead(t)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.engine.LogCall(context.Background(), lead.ID, CallInput{Disposition: domain.DispositionUnreachable})
		}()
	}
	wg.Wait()

	stored, _ := f.store.GetLead(context.Background(), lead.ID)
	if stored.CallCount != 3 || stored.StatusCode != domain.StatusClosed {
		t.Fatalf("stored lead = %+v, want 3 calls and CLOSED", stored)
	}
	if n := countType(f.events(t, lead.ID), domain.EventStatusChange); n != 1 {
		t.Fatalf("status_change events = %d, want 1", n)
	}
}

func TestCallCountIsMonotonic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)

	const calls = 5
	for i := 0; i < calls; i++ {
		f.call(t, lead.ID, domain.DispositionAnswered)
		if _, err := f.engine.LogWhatsAppSent(ctx, lead.ID, domain.TemplateFollowUp, "Merhaba"); err != nil {
			t.Fatalf("LogWhatsAppSent() error = %v", err)
		}
		if _, err := f.engine.SetStatus(ctx, lead.ID, domain.StatusFollowUp, ""); err != nil {
			t.Fatalf("SetStatus() error = %v", err)
		}
	}

	stored, _ := f.store.GetLead(ctx, lead.ID)
	if stored.CallCount != calls {
		t.Fatalf("CallCount = %d, want %d", stored.CallCount, calls)
	}
}

func TestLogCallDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)
	callback := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)

	out, err := f.engine.LogCall(ctx, lead.ID, CallInput{
		Disposition:     domain.DispositionCallbackRequested,
		Notes:           "Akşam aranmak istiyor",
		DurationSeconds: 45,
		CallbackAt:      &callback,
	})
	if err != nil {
		t.Fatalf("LogCall() error = %v", err)
	}
	if out.Lead.NextAction != domain.NextActionCallback || !out.Lead.NextActionAt.Equal(callback) {
		t.Errorf("next action = %q at %v", out.Lead.NextAction, out.Lead.NextActionAt)
	}
	if out.Lead.LastContactAt == nil {
		t.Error("LastContactAt not set")
	}

	evs := f.events(t, lead.ID)
	last := evs[len(evs)-1]
	if last.Note != "Akşam aranmak istiyor (Süre: 45s, Toplam arama: 1)" {
		t.Errorf("call note = %q", last.Note)
	}

	f.call(t, lead.ID, domain.DispositionBusy)
	evs = f.events(t, lead.ID)
	if got := evs[len(evs)-1].Note; got != "Arama yapıldı (Süre: 0s, Toplam: 2)" {
		t.Errorf("default call note = %q", got)
	}

	invalid := []CallInput{
		{Disposition: "voicemail"},
		{Disposition: domain.DispositionAnswered, DurationSeconds: 3601},
		{Disposition: domain.DispositionAnswered, DurationSeconds: -1},
		{Disposition: domain.DispositionAnswered, Notes: strings.Repeat("a", 501)},
		{Disposition: domain.DispositionAnswered, CallbackAt: &callback},
	}
	for _, in := range invalid {
		if _, err := f.engine.LogCall(ctx, lead.ID, in); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("LogCall(%+v) error = %v, want validation", in, err)
		}
	}
	stored, _ := f.store.GetLead(ctx, lead.ID)
	if stored.CallCount != 2 {
		t.Errorf("rejected calls must not count, CallCount = %d", stored.CallCount)
	}
}

func TestWhatsAppSendOverridesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	message := strings.Repeat("ç", 150)

	fresh := f.lead(t)
	got, err := f.engine.LogWhatsAppSent(ctx, fresh.ID, domain.TemplateFirstContact, message)
	if err != nil {
		t.Fatalf("LogWhatsAppSent() error = %v", err)
	}
	if got.StatusCode != domain.StatusWASent || got.LastContactAt == nil {
		t.Fatalf("NEW lead after send = %+v", got)
	}

	evs := f.events(t, fresh.ID)
	msg := evs[len(evs)-2]
	if msg.Type != domain.EventWhatsApp {
		t.Fatalf("event = %s, want whatsapp", msg.Type)
	}
	want := "WhatsApp mesajı gönderildi: FIRST_CONTACT - " + strings.Repeat("ç", 100) + "..."
	if msg.Note != want {
		t.Errorf("note = %q", msg.Note)
	}
	if evs[len(evs)-1].Type != domain.EventStatusChange {
		t.Error("status change must trail the message event")
	}

	booked := f.lead(t)
	if _, err := f.engine.ScheduleAppointment(ctx, booked.ID, time.Now().Add(48*time.Hour), ""); err != nil {
		t.Fatalf("ScheduleAppointment() error = %v", err)
	}
	got, err = f.engine.LogWhatsAppSent(ctx, booked.ID, domain.TemplateAppointmentReminder, "Yarın görüşürüz")
	if err != nil {
		t.Fatalf("LogWhatsAppSent() error = %v", err)
	}
	if got.StatusCode != domain.StatusWASent {
		t.Fatalf("APPT_SET lead after send = %s, want WA_SENT", got.StatusCode)
	}

	if _, err := f.engine.LogWhatsAppSent(ctx, booked.ID, "", "x"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("empty template error = %v", err)
	}
}

func TestScheduleAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)
	at := time.Date(2026, 3, 20, 21, 30, 0, 0, time.UTC)

	got, err := f.engine.ScheduleAppointment(ctx, lead.ID, at, "")
	if err != nil {
		t.Fatalf("ScheduleAppointment() error = %v", err)
	}
	if got.StatusCode != domain.StatusApptSet || got.NextAction != "Randevu" {
		t.Errorf("lead = %+v", got)
	}
	if !got.AppointmentDate.Equal(at) || !got.NextActionAt.Equal(at) {
		t.Errorf("appointment = %v next = %v", got.AppointmentDate, got.NextActionAt)
	}

	evs := f.events(t, lead.ID)
	appt, change := evs[len(evs)-2], evs[len(evs)-1]
	if appt.Type != domain.EventAppointment || appt.Note != "Randevu planlandı - 21.03.2026" {
		t.Errorf("appointment event = %+v", appt)
	}
	if change.Type != domain.EventStatusChange || change.ToStatus != domain.StatusApptSet {
		t.Errorf("status event = %+v", change)
	}
	if f.bus.count(events.AppointmentScheduled{}.EventName()) != 1 {
		t.Error("AppointmentScheduled not published")
	}

	if _, err := f.engine.ScheduleAppointment(ctx, lead.ID, time.Time{}, ""); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("zero time error = %v", err)
	}

	if _, err := f.engine.SetStatus(ctx, lead.ID, domain.StatusClosed, ""); err != nil {
		t.Fatalf("SetStatus(CLOSED) error = %v", err)
	}
	if _, err := f.engine.ScheduleAppointment(ctx, lead.ID, at, ""); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("closed lead error = %v, want invalid transition", err)
	}
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)

	got, err := f.engine.SetStatus(ctx, lead.ID, domain.StatusQualified, "")
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if got.StatusCode != domain.StatusQualified {
		t.Fatalf("status = %s", got.StatusCode)
	}
	evs := f.events(t, lead.ID)
	if last := evs[len(evs)-1]; last.Note != "Durum değişti: Nitelikli" || last.FromStatus != domain.StatusNew {
		t.Errorf("status event = %+v", last)
	}

	// same stage still leaves a trace
	before := len(evs)
	if _, err := f.engine.SetStatus(ctx, lead.ID, domain.StatusQualified, "tekrar"); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if len(f.events(t, lead.ID)) != before+1 {
		t.Error("SetStatus must always append a status_change event")
	}
}

func TestUnknownStatusLeavesLeadUnmodified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)
	before := f.events(t, lead.ID)

	for _, code := range []string{"ARCHIVED", "qualified", ""} {
		_, err := f.engine.SetStatus(ctx, lead.ID, code, "")
		if !apperr.Is(err, apperr.KindInvalidTransition) {
			t.Fatalf("SetStatus(%q) error = %v, want invalid transition", code, err)
		}
	}

	stored, _ := f.store.GetLead(ctx, lead.ID)
	if stored != lead {
		t.Errorf("lead changed: %+v", stored)
	}
	if len(f.events(t, lead.ID)) != len(before) {
		t.Error("no event may be appended for a rejected transition")
	}
}

func TestClosedIsTerminalForSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)
	_, _ = f.engine.SetStatus(ctx, lead.ID, domain.StatusClosed, "")

	if _, err := f.engine.SetStatus(ctx, lead.ID, domain.StatusFollowUp, ""); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("reopen error = %v, want invalid transition", err)
	}
}

func TestMissingLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.New()

	checks := map[string]error{}
	_, checks["LogCall"] = f.engine.LogCall(ctx, id, CallInput{Disposition: domain.DispositionAnswered})
	_, checks["LogWhatsAppSent"] = f.engine.LogWhatsAppSent(ctx, id, domain.TemplateFollowUp, "x")
	_, checks["ScheduleAppointment"] = f.engine.ScheduleAppointment(ctx, id, time.Now(), "")
	_, checks["SetStatus"] = f.engine.SetStatus(ctx, id, domain.StatusFollowUp, "")
	_, checks["AddNote"] = f.engine.AddNote(ctx, id, "x")
	_, checks["GetLead"] = f.engine.GetLead(ctx, id)
	_, checks["History"] = f.engine.History(ctx, id)

	for op, err := range checks {
		if !apperr.Is(err, apperr.KindNotFound) {
			t.Errorf("%s error = %v, want not found", op, err)
		}
	}
}

func TestBulkSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.lead(t), f.lead(t)
	missing := uuid.New()

	results, err := f.engine.BulkSetStatus(ctx, []uuid.UUID{a.ID, missing, b.ID}, domain.StatusToCall, "")
	if err != nil {
		t.Fatalf("BulkSetStatus() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Lead == nil || results[0].Lead.StatusCode != domain.StatusToCall {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].Lead != nil || results[1].Kind != apperr.KindNotFound.String() {
		t.Errorf("results[1] = %+v", results[1])
	}
	if results[2].LeadID != b.ID || results[2].Lead == nil {
		t.Errorf("results[2] = %+v", results[2])
	}

	if _, err := f.engine.BulkSetStatus(ctx, nil, domain.StatusToCall, ""); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("empty ids error = %v", err)
	}
	if _, err := f.engine.BulkSetStatus(ctx, []uuid.UUID{a.ID}, "NOPE", ""); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Errorf("unknown code error = %v", err)
	}
}

func TestHistoryIsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)
	f.call(t, lead.ID, domain.DispositionAnswered)
	_, _ = f.engine.AddNote(ctx, lead.ID, "son not")

	history, err := f.engine.History(ctx, lead.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 3 || history[0].Note != "son not" || history[2].Note != "Aday oluşturuldu" {
		t.Fatalf("history = %+v", history)
	}

	summary, err := f.engine.Summary(ctx, lead.ID)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Total != 3 || summary.ByType[domain.EventCall] != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestRecordAppointmentReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lead := f.lead(t)
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	_, _ = f.engine.ScheduleAppointment(ctx, lead.ID, at, "")

	ok, err := f.engine.RecordAppointmentReminder(ctx, lead.ID, at)
	if err != nil || !ok {
		t.Fatalf("RecordAppointmentReminder() = %v, %v", ok, err)
	}
	evs := f.events(t, lead.ID)
	if evs[len(evs)-1].Note != "Randevu hatırlatması" {
		t.Errorf("reminder note = %q", evs[len(evs)-1].Note)
	}

	ok, err = f.engine.RecordAppointmentReminder(ctx, lead.ID, at.Add(time.Hour))
	if err != nil || ok {
		t.Fatalf("stale reminder = %v, %v, want skipped", ok, err)
	}
}

func TestAddNoteValidation(t *testing.T) {
	f := newFixture(t)
	lead := f.lead(t)
	for _, body := range []string{"", "   ", strings.Repeat("n", 2001)} {
		if _, err := f.engine.AddNote(context.Background(), lead.ID, body); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("AddNote(len=%d) error = %v", len(body), err)
		}
	}
}

func TestAddNoteStripsMarkup(t *testing.T) {
	f := newFixture(t)
	lead := f.lead(t)

	note, err := f.engine.AddNote(context.Background(), lead.ID, "  <b>Fiyat</b> bilgisi istedi ")
	if err != nil {
		t.Fatalf("AddNote() error = %v", err)
	}
	if note.Note != "Fiyat bilgisi istedi" {
		t.Fatalf("note = %q", note.Note)
	}

	if _, err := f.engine.AddNote(context.Background(), lead.ID, "<br/>"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("markup-only note error = %v, want validation", err)
	}
}
