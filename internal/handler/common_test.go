package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hazem7575/alamiya-sub001/internal/scheduling"
	"github.com/Hazem7575/alamiya-sub001/internal/travel"
)

func TestCombineDateTime(t *testing.T) {
	cases := []struct {
		name    string
		date    string
		clock   string
		want    time.Time
		wantErr bool
	}{
		{name: "valid", date: "2026-03-15", clock: "18:30", want: time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)},
		{name: "midnight", date: "2026-03-15", clock: "00:00", want: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "whitespace tolerated", date: " 2026-03-15 ", clock: " 09:05 ", want: time.Date(2026, 3, 15, 9, 5, 0, 0, time.UTC)},
		{name: "bad date", date: "15-03-2026", clock: "18:30", wantErr: true},
		{name: "bad time", date: "2026-03-15", clock: "6pm", wantErr: true},
		{name: "empty", date: "", clock: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := combineDateTime(tc.date, tc.clock)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestInfeasibleResponsePromotesWorstViolation(t *testing.T) {
	conflict := &travel.Assignment{EventID: 9, CityID: 2, CityName: "Jeddah", StartsAt: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
	res := &scheduling.Result{
		Feasible: false,
		Violations: []scheduling.Violation{
			{Kind: scheduling.KindObserver, ResourceID: 7, Verdict: travel.Verdict{RequiredHours: 1.5, AvailableHours: 1}},
			{Kind: scheduling.KindUnit, ResourceID: 40, Verdict: travel.Verdict{RequiredHours: 5, AvailableHours: 2, Conflict: conflict}},
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := infeasibleResponse(c, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	var body struct {
		ErrorType  string                 `json:"error_type"`
		Required   float64                `json:"required_travel_hours"`
		Available  float64                `json:"available_hours"`
		Conflict   *travel.Assignment     `json:"conflicting_assignment"`
		Violations []scheduling.Violation `json:"violations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ErrorType != "travel_time_insufficient" {
		t.Fatalf("error_type = %q", body.ErrorType)
	}
	// The unit with the 3h shortfall outranks the observer's 0.5h gap.
	if body.Required != 5 || body.Available != 2 {
		t.Fatalf("promoted hours = %v/%v, want 5/2", body.Required, body.Available)
	}
	if body.Conflict == nil || body.Conflict.EventID != 9 {
		t.Fatalf("conflicting_assignment = %+v", body.Conflict)
	}
	if len(body.Violations) != 2 {
		t.Fatalf("violations len = %d, want 2", len(body.Violations))
	}
}
