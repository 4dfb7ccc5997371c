package ginmw_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	ts "github.com/reoring/tinyskema"
	"github.com/reoring/tinyskema/middleware"
	ginmw "github.com/reoring/tinyskema/middleware/gin"
)

func TestValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := ts.MustBuild("User", ts.Col("name", ts.Text(ts.Length(1, 10))))

	r := gin.New()
	r.POST("/users", ginmw.Validate(user, nil), func(c *gin.Context) {
		rec, ok := ginmw.GetRecord(c)
		if !ok {
			t.Fatalf("record missing")
		}
		if v, _ := c.Get(middleware.RecordKey); v != rec {
			t.Fatalf("record not stored under RecordKey")
		}
		c.String(http.StatusOK, rec.Get("name").(string))
	})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"gopher"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "gopher" {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity || !strings.Contains(rr.Body.String(), `"required"`) {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}
