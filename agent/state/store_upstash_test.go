package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

func newUpstashTestStore(t *testing.T, handler http.HandlerFunc, opts ...StoreOption) *UpstashRedisStore {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewUpstashRedisStore(
		UpstashRedisConfig{URL: server.URL, Token: "token"},
		append([]StoreOption{WithHTTPClient(server.Client())}, opts...)...,
	)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore() error = %v", err)
	}
	return store
}

func TestSessionKey(t *testing.T) {
	t.Parallel()

	got, err := sessionKey("abc")
	if err != nil {
		t.Fatalf("sessionKey() error = %v", err)
	}
	if got != "conv:abc:parts:session" {
		t.Fatalf("sessionKey() = %q, want %q", got, "conv:abc:parts:session")
	}
	if _, err := sessionKey("   "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("sessionKey(blank) error = %v, want ErrInvalidSession", err)
	}
}

func TestNewUpstashRedisStoreValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashRedisStore(UpstashRedisConfig{Token: "token"}); err == nil {
		t.Fatal("NewUpstashRedisStore(no url) error = nil")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io"}); err == nil {
		t.Fatal("NewUpstashRedisStore(no token) error = nil")
	}
	if _, err := NewUpstashRedisStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("NewUpstashRedisStore(negative ttl) error = nil")
	}
}

func TestUpstashRedisStoreSaveSendsSetWithTTL(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	var gotAuth string
	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":"OK"}`)
	}, WithTTL(90*time.Minute))

	sess := NewSession("session-1", time.Now())
	sess.Context = contractx.ConversationContext{ApplianceType: contractx.ApplianceDishwasher, ModelNumber: "WDT780SAEM1"}
	if err := store.Save(context.Background(), sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if gotAuth != "Bearer token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if len(gotCommand) != 5 || gotCommand[0] != "SET" || gotCommand[1] != "conv:session-1:parts:session" {
		t.Fatalf("command = %#v", gotCommand)
	}
	if gotCommand[3] != "EX" || gotCommand[4] != float64(5400) {
		t.Fatalf("ttl args = %#v", gotCommand[3:])
	}

	var saved Session
	if err := json.Unmarshal([]byte(gotCommand[2].(string)), &saved); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if saved.Context.ModelNumber != "WDT780SAEM1" || saved.Version != 1 {
		t.Fatalf("payload = %#v", saved)
	}
}

func TestUpstashRedisStoreSaveRejectsInvalidSession(t *testing.T) {
	t.Parallel()

	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request for invalid session")
	})

	if err := store.Save(context.Background(), nil); !errors.Is(err, ErrNilSession) {
		t.Fatalf("Save(nil) error = %v, want ErrNilSession", err)
	}
	bad := NewSession("s", time.Now())
	bad.Context.ApplianceType = "oven"
	if err := store.Save(context.Background(), bad); !errors.Is(err, ErrInvalidApplianceType) {
		t.Fatalf("Save(oven) error = %v, want ErrInvalidApplianceType", err)
	}
}

func TestUpstashRedisStoreLoad(t *testing.T) {
	t.Parallel()

	seed := NewSession("session-2", time.Now())
	seed.Context.SelectedPsNumber = "PS11752778"
	payload, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	encoded, err := json.Marshal(string(payload))
	if err != nil {
		t.Fatalf("marshal encoded seed: %v", err)
	}

	var gotCommand []any
	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprintf(w, `{"result":%s}`, encoded)
	})

	sess, err := store.Load(context.Background(), "session-2")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sess.SessionID != "session-2" || sess.Context.SelectedPsNumber != "PS11752778" {
		t.Fatalf("Load() = %#v", sess)
	}
	if len(gotCommand) != 2 || gotCommand[0] != "GET" || gotCommand[1] != "conv:session-2:parts:session" {
		t.Fatalf("command = %#v", gotCommand)
	}
}

func TestUpstashRedisStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":null}`)
	})
	if _, err := store.Load(context.Background(), "nobody"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Load() error = %v, want ErrSessionNotFound", err)
	}
}

func TestUpstashRedisStoreSurfacesErrors(t *testing.T) {
	t.Parallel()

	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"WRONGPASS"}`)
	})
	_, err := store.Load(context.Background(), "s")
	var upErr *UpstashError
	if !errors.As(err, &upErr) || upErr.Status != http.StatusUnauthorized || upErr.Message != "WRONGPASS" {
		t.Fatalf("Load() error = %v, want 401 WRONGPASS", err)
	}
	if !errors.Is(err, contractx.ErrStoreUnavailable) {
		t.Fatalf("Load() error = %v, want ErrStoreUnavailable", err)
	}

	store = newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"ERR syntax"}`)
	})
	err = store.Delete(context.Background(), "s")
	if !errors.As(err, &upErr) || upErr.Message != "ERR syntax" {
		t.Fatalf("Delete() error = %v, want ERR syntax", err)
	}
	if errors.Is(err, contractx.ErrStoreUnavailable) {
		t.Fatal("command error reported as ErrStoreUnavailable")
	}
}

func TestUpstashRedisStoreDelete(t *testing.T) {
	t.Parallel()

	var gotCommand []any
	store := newUpstashTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&gotCommand); err != nil {
			t.Errorf("decode command: %v", err)
		}
		fmt.Fprint(w, `{"result":1}`)
	})

	if err := store.Delete(context.Background(), "session-3"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(gotCommand) != 2 || gotCommand[0] != "DEL" || gotCommand[1] != "conv:session-3:parts:session" {
		t.Fatalf("command = %#v", gotCommand)
	}
}

func TestExpirySecondsRoundsUp(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]int64{
		time.Millisecond:        1,
		time.Second:             1,
		1500 * time.Millisecond: 2,
		24 * time.Hour:          86400,
	}
	for ttl, want := range cases {
		if got := expirySeconds(ttl); got != want {
			t.Fatalf("expirySeconds(%v) = %d, want %d", ttl, got, want)
		}
	}
}
