package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/matryer/is"

	"farm-service/internal/form"
)

func TestLoginStoresTokensAndAuthorizesRequests(t *testing.T) {
	is := is.New(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access":"a1","refresh":"r1"}`))
	})
	mux.HandleFunc("/api/pivots/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer a1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		is.Equal(r.URL.Query().Get("sector_id"), "3")
		w.Write([]byte(`[{"id":7,"logical_name":"P07","sector":"S3","center":"SRID=4326;POINT(1 2)","radius_m":100}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := FileStore{Path: filepath.Join(t.TempDir(), "session.json")}
	c := New(srv.URL+"/", NewSession(store))
	is.NoErr(c.Login(context.Background(), "farmer", "secret"))
	is.Equal(c.Session().Token(), "a1")

	restored := NewSession(store)
	is.Equal(restored.Username(), "farmer")
	is.Equal(restored.RefreshToken(), "r1")

	pivots, err := c.Pivots().List(context.Background(), url.Values{"sector_id": {"3"}})
	is.NoErr(err)
	is.Equal(len(pivots), 1)
	is.Equal(pivots[0].LogicalName, "P07")
	is.Equal(pivots[0].SectorName, "S3")

	is.NoErr(c.Logout())
	is.True(!NewSession(store).LoggedIn())
}

func TestErrorsAreTypedAndNotRetried(t *testing.T) {
	is := is.New(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid input: crop 3 cannot be selected before crop 2"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Fields().Create(context.Background(), form.Payload{LogicalName: "F1"})

	var apiErr *APIError
	is.True(errors.As(err, &apiErr))
	is.Equal(apiErr.Status, http.StatusBadRequest)
	is.Equal(apiErr.Message, "invalid input: crop 3 cannot be selected before crop 2")
	is.Equal(atomic.LoadInt32(&calls), int32(1))
}

func TestCreateSendsPayload(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.Method, http.MethodPost)
		is.Equal(r.URL.Path, "/api/pivots/")
		var body map[string]interface{}
		is.NoErr(json.NewDecoder(r.Body).Decode(&body))
		is.Equal(body["center"], "SRID=4326;POINT(49.8 40.4)")
		is.Equal(body["sector_id"], 3.0)
		_, hasShape := body["shape"]
		is.True(!hasShape)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":11,"center":"SRID=4326;POINT(49.8 40.4)","area":78.54}`))
	}))
	defer srv.Close()

	center := "SRID=4326;POINT(49.8 40.4)"
	sector := uint(3)
	p, err := New(srv.URL, nil).Pivots().Create(context.Background(), form.Payload{Center: &center, SectorID: &sector})
	is.NoErr(err)
	is.Equal(p.ID, uint(11))
	is.Equal(p.Area, 78.54)
}

func TestDeleteAndRefresh(t *testing.T) {
	is := is.New(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/fields/5/", func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.Method, http.MethodDelete)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		is.NoErr(json.NewDecoder(r.Body).Decode(&body))
		is.Equal(body["refresh"], "r1")
		w.Write([]byte(`{"access":"a2"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	session := NewSession(nil)
	is.NoErr(session.Set(Tokens{Access: "a1", Refresh: "r1"}))
	c := New(srv.URL, session)

	is.NoErr(c.Fields().Delete(context.Background(), 5))
	is.NoErr(c.Refresh(context.Background()))
	is.Equal(session.Token(), "a2")
	is.Equal(session.RefreshToken(), "r1")
}

func TestCancelledContext(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, nil).Companies().List(ctx, nil)
	is.True(errors.Is(err, context.Canceled))
}
