// Package baseline exposes the calculator over HTTP.
package baseline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	core "github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
)

// Calculator is the part of core/baseline.Calculator used by the handlers.
type Calculator interface {
	Calculate(ctx context.Context, req core.Request) (core.Result, error)
	Settings() core.Settings
	Filters() []core.Filter
	SetFilters(filters []core.Filter) error
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// NewHandler serves GET /api/baseline?site=<hash>[&base_time=][&sleep_start=][&sleep_end=][&ratio=].
// base_time is RFC3339 or epoch milliseconds. The remaining parameters
// override the calculator settings for this request only.
func NewHandler(calc Calculator, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		req, err := parseRequest(r, calc.Settings())
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := calc.Calculate(ctx, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
}

func parseRequest(r *http.Request, defaults core.Settings) (core.Request, error) {
	q := r.URL.Query()
	req := core.Request{SiteHash: q.Get("site")}
	if v := q.Get("base_time"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return req, fmt.Errorf("%w: base_time: %w", core.ErrValidation, err)
		}
		req.BaseTime = &t
	}
	if !q.Has("sleep_start") && !q.Has("sleep_end") && !q.Has("ratio") {
		return req, nil
	}
	s := defaults
	var err error
	if v := q.Get("sleep_start"); v != "" {
		if s.SleepStart, err = core.ParseClock(v); err != nil {
			return req, fmt.Errorf("%w: sleep_start: %w", core.ErrValidation, err)
		}
	}
	if v := q.Get("sleep_end"); v != "" {
		if s.SleepEnd, err = core.ParseClock(v); err != nil {
			return req, fmt.Errorf("%w: sleep_end: %w", core.ErrValidation, err)
		}
	}
	if v := q.Get("ratio"); v != "" {
		if s.ConsistencyRatio, err = strconv.ParseFloat(v, 64); err != nil {
			return req, fmt.Errorf("%w: ratio: %w", core.ErrValidation, err)
		}
	}
	req.Settings = &s
	return req, nil
}

func parseTime(v string) (time.Time, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Parse(time.RFC3339, v)
}

// NewFiltersHandler serves the stage list: GET returns the stage names, PUT
// replaces the list with the module configs in the body.
func NewFiltersHandler(calc Calculator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, names(calc.Filters()))
		case http.MethodPut:
			var cfgs []factory.ModuleConfig
			if err := json.NewDecoder(r.Body).Decode(&cfgs); err != nil {
				writeError(w, fmt.Errorf("%w: decode body: %w", core.ErrValidation, err))
				return
			}
			filters, err := core.NewFilters(cfgs)
			if err != nil {
				writeError(w, err)
				return
			}
			if err := calc.SetFilters(filters); err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, names(calc.Filters()))
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func names(filters []core.Filter) []string {
	out := make([]string, len(filters))
	for i, f := range filters {
		out[i] = core.FilterName(f)
	}
	return out
}

// StatusCode maps a calculation error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, core.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusCode(err), errorBody{Error: err.Error(), Kind: core.FailureKind(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
