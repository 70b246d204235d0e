package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"farm-service/internal/auth"
	"farm-service/internal/form"
	"farm-service/internal/geometry"
	"farm-service/internal/http/middleware"
	"farm-service/internal/repository"
	"farm-service/internal/service"
	"farm-service/internal/testutil"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	log := zerolog.Nop()

	users := repository.NewUserRepository(db)
	companies := repository.NewCompanyRepository(db)
	regions := repository.NewRegionRepository(db)
	sectors := repository.NewSectorRepository(db)
	pivots := repository.NewPivotRepository(db)
	fields := repository.NewFieldRepository(db)
	rotations := repository.NewCropRotationRepository(db)

	issuer := auth.NewIssuer("access", "refresh", time.Minute, time.Hour)
	handler := NewHandler(
		service.NewAuthService(users, auth.NewPasswordHasher(bcrypt.MinCost), issuer, log),
		service.NewCompanyService(companies),
		service.NewRegionService(regions, companies),
		service.NewSectorService(sectors, regions),
		service.NewPivotService(pivots, sectors),
		service.NewFieldService(fields, sectors),
		service.NewCropRotationService(rotations, pivots, fields),
		log,
	)

	limiter, err := middleware.RateLimit("1000-M", log)
	if err != nil {
		t.Fatalf("rate limiter: %v", err)
	}
	router := NewRouter(handler, middleware.Auth(auth.NewParser("access")), limiter, "test")
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(username string) string {
	s.t.Helper()

	creds := map[string]string{"username": username, "password": "long enough"}
	if w := s.do(http.MethodPost, "/api/user/register/", "", creds); w.Code != http.StatusCreated {
		s.t.Fatalf("register: %d %s", w.Code, w.Body)
	}
	w := s.do(http.MethodPost, "/api/token/", "", creds)
	var pair auth.TokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil || pair.Access == "" {
		s.t.Fatalf("login: %d %s", w.Code, w.Body)
	}
	return pair.Access
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body, err)
	}
	return v
}

type created struct {
	ID uint `json:"id"`
}

func TestHealthz(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/healthz", "", nil)
	is.Equal(w.Code, http.StatusOK)
}

func TestResourcesRequireToken(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/pivots/", "", nil)
	is.Equal(w.Code, http.StatusUnauthorized)

	w = s.do(http.MethodPost, "/api/token/", "", map[string]string{"username": "ghost", "password": "whatever1"})
	is.Equal(w.Code, http.StatusUnauthorized)
}

func TestHierarchyLifecycle(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	token := s.login("farmer")

	w := s.do(http.MethodPost, "/api/companies/", token, map[string]string{"name": "Karabakh Crops LLC"})
	is.Equal(w.Code, http.StatusCreated)
	company := decode[created](t, w)

	w = s.do(http.MethodPost, "/api/companies/", token, map[string]string{"name": "karabakh crops llc"})
	is.Equal(w.Code, http.StatusConflict)

	w = s.do(http.MethodPost, "/api/regions/", token, map[string]interface{}{
		"company_id": company.ID, "name": "Beylagan", "center": "SRID=4326;POINT (47.5 39.82)",
	})
	is.Equal(w.Code, http.StatusCreated)
	region := decode[map[string]interface{}](t, w)
	is.Equal(region["center"], "SRID=4326;POINT(47.5 39.82)")
	is.Equal(region["company"], "Karabakh Crops LLC")

	w = s.do(http.MethodPost, "/api/sectors/", token, map[string]interface{}{
		"region_id": region["id"], "name": "S1", "shape": testutil.SquareShape, "total_water_requirement": 1200,
	})
	is.Equal(w.Code, http.StatusCreated)
	sector := decode[created](t, w)

	// The pivot form builds the request body.
	ctl, err := form.New(form.EntityPivot)
	is.NoErr(err)
	is.NoErr(ctl.ShapeCreated(form.Shape{Kind: geometry.KindPoint, Points: []geometry.LatLng{{Lat: 40.4, Lng: 49.8}}, RadiusM: 500}))
	ctl.SetName("P01")
	ctl.Select(sector.ID)
	is.NoErr(ctl.SetCrop(1, "corn"))

	var pivotID uint
	is.NoErr(ctl.Submit(context.Background(), func(_ context.Context, p form.Payload) error {
		w := s.do(http.MethodPost, "/api/pivots/", token, p)
		if w.Code != http.StatusCreated {
			return fmt.Errorf("create pivot: %d %s", w.Code, w.Body)
		}
		pivotID = decode[created](t, w).ID
		return nil
	}))

	w = s.do(http.MethodGet, fmt.Sprintf("/api/pivots/%d/", pivotID), token, nil)
	is.Equal(w.Code, http.StatusOK)
	pivot := decode[map[string]interface{}](t, w)
	is.Equal(pivot["center"], "SRID=4326;POINT(49.8 40.4)")
	is.Equal(pivot["radius_m"], 500.0)
	is.Equal(pivot["area"], 78.54)
	is.Equal(pivot["crop_1"], "corn")
	is.Equal(pivot["crop_2"], "none")
	is.Equal(pivot["sector"], "S1")

	w = s.do(http.MethodGet, "/api/sectors/", token, nil)
	is.Equal(w.Code, http.StatusOK)
	sectors := decode[[]map[string]interface{}](t, w)
	is.Equal(len(sectors), 1)
	is.Equal(sectors[0]["pivot_count"], 1.0)
	is.Equal(sectors[0]["total_pivot_area"], 78.54)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/pivots/%d/", pivotID), token, map[string]string{"crop_3": "wheat"})
	is.Equal(w.Code, http.StatusBadRequest)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/pivots/%d/", pivotID), token, nil)
	is.Equal(w.Code, http.StatusNoContent)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/pivots/%d/", pivotID), token, nil)
	is.Equal(w.Code, http.StatusNotFound)
}

func TestOwnersAreIsolated(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	alice := s.login("alice")
	bob := s.login("bob")

	w := s.do(http.MethodPost, "/api/companies/", alice, map[string]string{"name": "Alice Farms"})
	is.Equal(w.Code, http.StatusCreated)
	company := decode[created](t, w)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/companies/%d/", company.ID), bob, nil)
	is.Equal(w.Code, http.StatusNotFound)

	w = s.do(http.MethodPost, "/api/regions/", bob, map[string]interface{}{"company_id": company.ID, "name": "Mine"})
	is.Equal(w.Code, http.StatusBadRequest)

	w = s.do(http.MethodGet, "/api/companies/", bob, nil)
	is.Equal(w.Code, http.StatusOK)
	is.Equal(len(decode[[]map[string]interface{}](t, w)), 0)
}

func TestBadRequests(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	token := s.login("carol")

	is.Equal(s.do(http.MethodGet, "/api/fields/abc/", token, nil).Code, http.StatusBadRequest)
	is.Equal(s.do(http.MethodGet, "/api/fields/?sector_id=x", token, nil).Code, http.StatusBadRequest)
	is.Equal(s.do(http.MethodGet, "/api/crop-rotations/?year=soon", token, nil).Code, http.StatusBadRequest)
	is.Equal(s.do(http.MethodPost, "/api/companies/", token, map[string]string{"name": "X", "center": "garbage"}).Code, http.StatusBadRequest)
}
