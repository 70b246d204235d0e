package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"farm-service/internal/auth"
	"farm-service/internal/model"
)

func newEngine(parser *auth.Parser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(parser), func(c *gin.Context) {
		p, ok := MustPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "username": p.Username})
	})
	return r
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	is := is.New(t)

	pair, err := auth.NewIssuer("s", "r", time.Minute, time.Hour).IssuePair(4, "farmer")
	is.NoErr(err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	w := httptest.NewRecorder()
	newEngine(auth.NewParser("s")).ServeHTTP(w, req)

	is.Equal(w.Code, http.StatusOK)
	is.Equal(w.Body.String(), `{"user_id":4,"username":"farmer"}`)
}

func TestAuthRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Token abc"},
		{"bad token", "Bearer abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newEngine(auth.NewParser("s")).ServeHTTP(w, req)
			is.Equal(w.Code, http.StatusUnauthorized)
		})
	}
}

func TestAuthReportsExpiredToken(t *testing.T) {
	is := is.New(t)

	pair, err := auth.NewIssuer("s", "r", -time.Minute, time.Hour).IssuePair(4, "farmer")
	is.NoErr(err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	w := httptest.NewRecorder()
	newEngine(auth.NewParser("s")).ServeHTTP(w, req)

	is.Equal(w.Code, http.StatusUnauthorized)
	is.Equal(w.Body.String(), `{"error":"token expired"}`)
}

func TestRequestLogIncludesCaller(t *testing.T) {
	is := is.New(t)

	var buf bytes.Buffer
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLog(zerolog.New(&buf)))
	r.GET("/pivots/:id/", func(c *gin.Context) {
		c.Set(principalContextKey, model.Principal{UserID: 7})
		c.Status(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pivots/3/", nil))

	out := buf.String()
	is.True(strings.Contains(out, `"level":"warn"`))
	is.True(strings.Contains(out, `"user_id":7`))
	is.True(strings.Contains(out, `"path":"/pivots/:id/"`))
}
