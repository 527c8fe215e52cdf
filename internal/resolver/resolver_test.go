package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeHub serves a canned profile/days/exercises chain.
type fakeHub struct {
	profileStatus int
	profileBody   string
	daysBody      string
	exercisesBody string
	profileHits   int
	daysHits      int
	exercisesHits int
}

func (f *fakeHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/profiles/", func(w http.ResponseWriter, r *http.Request) {
		f.profileHits++
		if f.profileStatus != 0 {
			w.WriteHeader(f.profileStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.profileBody))
	})
	mux.HandleFunc("/api/v1/days", func(w http.ResponseWriter, r *http.Request) {
		f.daysHits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.daysBody))
	})
	mux.HandleFunc("/api/v1/exercises", func(w http.ResponseWriter, r *http.Request) {
		f.exercisesHits++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.exercisesBody))
	})
	return mux
}

func newResolver(t *testing.T, hub *fakeHub) *Resolver {
	t.Helper()
	srv := httptest.NewServer(hub.handler())
	t.Cleanup(srv.Close)
	return New(NewClient(srv.URL), testLogger())
}

const packID = "3e2c46ae-11f1-4f9a-8a3e-000000000001"

func TestResolveToday(t *testing.T) {
	dayID := uuid.NewString()
	hub := &fakeHub{
		profileBody: `{"user_id":"u1","current_pack_id":"` + packID + `"}`,
		daysBody:    `[{"id":"` + dayID + `","pack_id":"` + packID + `","day_name":"Push Day","day_order":0}]`,
		exercisesBody: `[
			{"id":"` + uuid.NewString() + `","day_id":"` + dayID + `","chosen_exercise":"Bench","sets":3,"reps":8},
			{"id":"` + uuid.NewString() + `","day_id":"` + dayID + `","chosen_exercise":"Treadmill","sets":0,"time":20}
		]`,
	}
	r := newResolver(t, hub)

	got, err := r.ResolveToday(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.DayName != "Push Day" {
		t.Errorf("day name = %q, want Push Day", got.DayName)
	}
	if len(got.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(got.Exercises))
	}
	if got.Exercises[0].Name != "Bench" || got.Exercises[0].NumberOfSets != 3 || got.Exercises[0].RepsPerSet != 8 {
		t.Errorf("first exercise = %+v", got.Exercises[0])
	}
	if !got.Exercises[1].Timed() || got.Exercises[1].DurationMin != 20 {
		t.Errorf("second exercise = %+v", got.Exercises[1])
	}
}

func TestResolveProfileNotFound(t *testing.T) {
	hub := &fakeHub{profileStatus: http.StatusNotFound}
	r := newResolver(t, hub)

	_, err := r.ResolveToday(context.Background(), "nobody")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
	if hub.daysHits != 0 {
		t.Error("days queried after profile lookup failed")
	}
}

func TestResolveNoActivePack(t *testing.T) {
	hub := &fakeHub{profileBody: `{"user_id":"u1"}`}
	r := newResolver(t, hub)

	_, err := r.ResolveToday(context.Background(), "u1")
	if !errors.Is(err, ErrNoActivePack) {
		t.Fatalf("err = %v, want ErrNoActivePack", err)
	}
	if hub.daysHits != 0 {
		t.Error("days queried without an active pack")
	}
}

func TestResolveNoDaysInPack(t *testing.T) {
	hub := &fakeHub{
		profileBody: `{"user_id":"u1","current_pack_id":"` + packID + `"}`,
		daysBody:    `[]`,
	}
	r := newResolver(t, hub)

	_, err := r.ResolveToday(context.Background(), "u1")
	if !errors.Is(err, ErrNoDaysInPack) {
		t.Fatalf("err = %v, want ErrNoDaysInPack", err)
	}
	if hub.exercisesHits != 0 {
		t.Error("exercises queried for a pack with no days")
	}
}

func TestResolveNoExercisesForDay(t *testing.T) {
	dayID := uuid.NewString()
	hub := &fakeHub{
		profileBody:   `{"user_id":"u1","current_pack_id":"` + packID + `"}`,
		daysBody:      `[{"id":"` + dayID + `","pack_id":"` + packID + `","day_name":"Rest","day_order":0}]`,
		exercisesBody: `[]`,
	}
	r := newResolver(t, hub)

	_, err := r.ResolveToday(context.Background(), "u1")
	if !errors.Is(err, ErrNoExercisesForDay) {
		t.Fatalf("err = %v, want ErrNoExercisesForDay", err)
	}
}

func TestResolveMalformedRecord(t *testing.T) {
	dayID := uuid.NewString()
	hub := &fakeHub{
		profileBody:   `{"user_id":"u1","current_pack_id":"` + packID + `"}`,
		daysBody:      `[{"id":"` + dayID + `","pack_id":"` + packID + `","day_name":"Push Day","day_order":0}]`,
		exercisesBody: `[{"id":"` + uuid.NewString() + `","day_id":"` + dayID + `","chosen_exercise":"","sets":3}]`,
	}
	r := newResolver(t, hub)

	_, err := r.ResolveToday(context.Background(), "u1")
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
}

func TestResolveHubUnreachable(t *testing.T) {
	r := New(NewClient("http://127.0.0.1:1"), testLogger())

	_, err := r.ResolveToday(context.Background(), "u1")
	if !errors.Is(err, ErrRemoteFetchFailed) {
		t.Fatalf("err = %v, want ErrRemoteFetchFailed", err)
	}
}

func TestSelectDayWeekdayMatch(t *testing.T) {
	// Fix the clock to a Wednesday so the weekday match is deterministic.
	wednesday := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	r := New(nil, testLogger())
	r.now = func() time.Time { return wednesday }

	days := []DayRecord{
		{ID: uuid.New(), DayName: "Leg Day", DayOrder: 0},
		{ID: uuid.New(), DayName: "Wednesday", DayOrder: 5},
	}
	if got := r.selectDay(days); got.DayName != "Wednesday" {
		t.Errorf("selected %q, want the weekday match", got.DayName)
	}
}

func TestSelectDayFallsBackToLowestOrder(t *testing.T) {
	r := New(nil, testLogger())

	days := []DayRecord{
		{ID: uuid.New(), DayName: "Day B", DayOrder: 2},
		{ID: uuid.New(), DayName: "Day A", DayOrder: 1},
		{ID: uuid.New(), DayName: "Day C", DayOrder: 3},
	}
	if got := r.selectDay(days); got.DayName != "Day A" {
		t.Errorf("selected %q, want the lowest-ordered day", got.DayName)
	}
}

func TestNoPlanReason(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{ErrProfileNotFound, true},
		{ErrNoActivePack, true},
		{ErrNoDaysInPack, true},
		{ErrNoExercisesForDay, true},
		{ErrRemoteFetchFailed, true},
		{ErrMalformedRecord, true},
		{errors.New("unrelated"), false},
	}
	for _, tc := range cases {
		reason, ok := NoPlanReason(tc.err)
		if ok != tc.want {
			t.Errorf("NoPlanReason(%v) ok = %v, want %v", tc.err, ok, tc.want)
		}
		if ok && reason == "" {
			t.Errorf("NoPlanReason(%v) returned empty reason", tc.err)
		}
	}
}
