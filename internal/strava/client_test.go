package strava_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/tazhibayda/hop-service/internal/domain"
	"github.com/tazhibayda/hop-service/internal/strava"
)

func newClient(srvURL string) *strava.Client {
	c := strava.NewClient("cid", "secret")
	c.TokenURL = srvURL + "/oauth/token"
	c.APIBase = srvURL + "/api/v3"
	return c
}

func TestAuthCodeURL(t *testing.T) {
	c := strava.NewClient("cid", "secret")
	raw := c.AuthCodeURL("http://localhost:8080", "st@te")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("client_id") != "cid" {
		t.Fatalf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "http://localhost:8080/api/exchange_token" {
		t.Fatalf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if q.Get("state") != "st@te" {
		t.Fatalf("state = %q", q.Get("state"))
	}
	if !strings.Contains(q.Get("scope"), "activity:read_all") {
		t.Fatalf("scope = %q", q.Get("scope"))
	}
}

func TestExchange_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != "abc" {
			t.Errorf("bad form: %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token":"at","refresh_token":"rt","expires_at":1768000000,
			"athlete":{"id":117,"username":"flash","firstname":"Barry","lastname":"Allen"}
		}`))
	}))
	defer srv.Close()

	tr, err := newClient(srv.URL).Exchange(context.Background(), "abc")
	if err != nil {
		t.Fatal(err)
	}
	if tr.AccessToken != "at" || tr.RefreshToken != "rt" || tr.ExpiresAt != 1768000000 {
		t.Fatalf("token fields: %+v", tr)
	}
	if tr.Athlete.ID != 117 || tr.Athlete.Firstname != "Barry" {
		t.Fatalf("athlete fields: %+v", tr.Athlete)
	}
}

func TestExchange_ProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Bad Request","errors":[{"field":"code","code":"invalid"}]}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Exchange(context.Background(), "expired-code")
	if !errors.Is(err, domain.ErrUpstreamAuth) {
		t.Fatalf("want ErrUpstreamAuth, got %v", err)
	}
	if !strings.Contains(err.Error(), "Bad Request") {
		t.Fatalf("provider payload missing from error: %v", err)
	}
}

func TestExchange_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Exchange(context.Background(), "abc")
	if !errors.Is(err, domain.ErrUpstreamAuth) {
		t.Fatalf("want ErrUpstreamAuth, got %v", err)
	}
}

func TestSegmentEfforts_FiltersAndScopes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		q := r.URL.Query()
		if q.Get("segment_id") != "42" {
			t.Errorf("segment_id = %q", q.Get("segment_id"))
		}
		if q.Get("start_date_local") == "" || q.Get("end_date_local") == "" {
			t.Error("date scope params missing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"elapsed_time":120,"start_date_local":"2024-06-08T08:00:00Z","segment":{"id":42},"activity":{"id":9},"athlete":{"id":117}},
			{"id":2,"elapsed_time":50,"start_date_local":"2024-06-08T09:00:00Z","segment":{"id":7},"activity":{"id":10},"athlete":{"id":117}}
		]`))
	}))
	defer srv.Close()

	day := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)
	got, err := newClient(srv.URL).SegmentEfforts(context.Background(), "tok", 42, &day)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SegmentID != 42 || got[0].ElapsedSecs != 120 {
		t.Fatalf("want the single segment-42 effort, got %+v", got)
	}
	if got[0].AthleteID != "117" {
		t.Fatalf("athlete id = %q", got[0].AthleteID)
	}
}

func TestSegmentEfforts_AuthRejectedIsQueryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Authorization Error"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).SegmentEfforts(context.Background(), "dead", 42, nil)
	if !errors.Is(err, domain.ErrUpstreamQuery) {
		t.Fatalf("want ErrUpstreamQuery, got %v", err)
	}
}
