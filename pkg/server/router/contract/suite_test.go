package contract

import (
	"net/http"
	"testing"

	"github.com/nimburion/hrportal/pkg/server/router"
	nethttpadapter "github.com/nimburion/hrportal/pkg/server/router/nethttp"
)

func TestVerify_SendsJSONAccept(t *testing.T) {
	r := nethttpadapter.NewRouter()
	r.GET("/echo", func(c router.Context) error {
		return c.String(http.StatusOK, c.Request().Header.Get("Accept"))
	})
	verify(t, r, expectation{method: http.MethodGet, path: "/echo?x=1", code: http.StatusOK, body: "application/json"})
}
