package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"farm-service/internal/auth"
	farmhttp "farm-service/internal/http"
	"farm-service/internal/http/middleware"
	"farm-service/internal/repository"
	"farm-service/internal/service"
	"farm-service/internal/testutil"
)

func startBackend(t *testing.T) string {
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
	handler := farmhttp.NewHandler(
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
		t.Fatal(err)
	}
	router := farmhttp.NewRouter(handler, middleware.Auth(auth.NewParser("access")), limiter, "test")

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

type farmctl struct {
	t       *testing.T
	url     string
	session string
}

func newFarmctl(t *testing.T) *farmctl {
	return &farmctl{
		t:       t,
		url:     startBackend(t),
		session: filepath.Join(t.TempDir(), "session.json"),
	}
}

// run executes one farmctl invocation with stdin and returns stdout.
func (f *farmctl) run(stdin string, args ...string) (string, error) {
	f.t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append([]string{"--api-url", f.url, "--session-file", f.session}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (f *farmctl) mustRun(args ...string) string {
	f.t.Helper()
	out, err := f.run("", args...)
	if err != nil {
		f.t.Fatalf("farmctl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (f *farmctl) createdID(args ...string) uint {
	f.t.Helper()
	var v struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal([]byte(f.mustRun(args...)), &v); err != nil {
		f.t.Fatalf("decode: %v", err)
	}
	return v.ID
}

func (f *farmctl) seed() (sectorID uint) {
	f.t.Helper()
	f.mustRun("register", "-u", "farmer", "-p", "long enough")
	f.mustRun("login", "-u", "farmer", "-p", "long enough")

	companyID := f.createdID("company", "create", "--name", "Karabakh Crops LLC")
	f.mustRun("region", "create", "--name", "Beylagan", "--company", itoa(companyID), "--lat", "39.82", "--lng", "47.5")

	// The only region is preselected by the lookup.
	return f.createdID("sector", "create", "--name", "S1", "--water", "1200",
		"--vertex", "39.8,47.4", "--vertex", "39.8,47.41", "--vertex", "39.81,47.41", "--vertex", "39.81,47.4")
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestCreatePivotThroughForm(t *testing.T) {
	is := is.New(t)
	f := newFarmctl(t)
	f.seed()

	// The only sector is preselected by the lookup.
	out := f.mustRun("pivot", "create", "--name", "P01", "--lat", "40.4", "--lng", "49.8", "--radius", "500", "--crop", "corn,wheat")

	var pivot map[string]interface{}
	is.NoErr(json.Unmarshal([]byte(out), &pivot))
	is.Equal(pivot["center"], "SRID=4326;POINT(49.8 40.4)")
	is.Equal(pivot["area"], 78.54)
	is.Equal(pivot["crop_2"], "wheat")
	is.Equal(pivot["sector"], "S1")
}

func TestCropGapIsRejectedBeforeSending(t *testing.T) {
	is := is.New(t)
	f := newFarmctl(t)
	f.seed()

	_, err := f.run("", "field", "create", "--name", "F1",
		"--vertex", "39.8,47.4", "--vertex", "39.8,47.401", "--vertex", "39.801,47.401",
		"--crop", "corn,none,wheat")
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "crop 3 cannot be selected before crop 2"))

	out := f.mustRun("list", "fields")
	is.True(!strings.Contains(out, "F1"))
}

func TestEditKeepsUntouchedValues(t *testing.T) {
	is := is.New(t)
	f := newFarmctl(t)
	f.seed()

	id := f.createdID("pivot", "create", "--name", "P02", "--lat", "40", "--lng", "49", "--radius", "1000", "--seeding", "2024-04-01")
	out := f.mustRun("pivot", "edit", itoa(id), "--radius", "500", "--harvest", "2024-09-30")

	var pivot map[string]interface{}
	is.NoErr(json.Unmarshal([]byte(out), &pivot))
	is.Equal(pivot["logical_name"], "P02")
	is.Equal(pivot["center"], "SRID=4326;POINT(49 40)")
	is.Equal(pivot["area"], 78.54)
	is.Equal(pivot["seeding_date"], "2024-04-01")
	is.Equal(pivot["harvest_date"], "2024-09-30")
}

func TestListSearchAndGroup(t *testing.T) {
	is := is.New(t)
	f := newFarmctl(t)
	f.seed()

	f.mustRun("pivot", "create", "--name", "North 1", "--lat", "40", "--lng", "49")
	f.mustRun("pivot", "create", "--name", "South 1", "--lat", "40.1", "--lng", "49.1")

	out := f.mustRun("list", "pivots", "--search", "north")
	is.True(strings.Contains(out, "North 1"))
	is.True(!strings.Contains(out, "South 1"))

	out = f.mustRun("list", "pivots", "--group", "--collapse", "S1")
	is.True(strings.Contains(out, "+ S1 (2)"))
	is.True(!strings.Contains(out, "North 1"))

	out = f.mustRun("list", "pivots", "--sort", "name", "--desc")
	is.True(strings.Index(out, "South 1") < strings.Index(out, "North 1"))
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	is := is.New(t)
	f := newFarmctl(t)
	f.seed()

	id := f.createdID("pivot", "create", "--name", "P09", "--lat", "40", "--lng", "49")

	out, err := f.run("n\n", "delete", "pivots", itoa(id))
	is.NoErr(err)
	is.True(strings.Contains(out, "cancelled"))
	is.True(strings.Contains(f.mustRun("list", "pivots"), "P09"))

	out, err = f.run("y\n", "delete", "pivots", itoa(id))
	is.NoErr(err)
	is.True(strings.Contains(out, "deleted pivots"))
	is.True(!strings.Contains(f.mustRun("list", "pivots"), "P09"))
}

func TestMapAndRotations(t *testing.T) {
	is := is.New(t)
	f := newFarmctl(t)
	f.seed()

	f.mustRun("pivot", "create", "--name", "P01", "--lat", "40.4", "--lng", "49.8", "--radius", "500")

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	is.NoErr(json.Unmarshal([]byte(f.mustRun("map", "pivots")), &fc))
	is.Equal(fc.Type, "FeatureCollection")
	is.Equal(len(fc.Features), 1)
	is.Equal(fc.Features[0].Properties["radius_m"], 500.0)

	out := f.mustRun("rotations", "--last", "2025", "--years", "2")
	is.True(strings.Contains(out, "2024"))
	is.True(strings.Contains(out, "P01"))
}

func TestLogoutForgetsSession(t *testing.T) {
	is := is.New(t)
	f := newFarmctl(t)
	f.seed()

	f.mustRun("logout")
	_, err := f.run("", "list", "companies")
	is.True(err != nil)
}
