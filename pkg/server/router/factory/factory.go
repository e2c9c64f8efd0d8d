// Package factory picks the router adapter named by the router_type setting.
package factory

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nimburion/hrportal/pkg/server/router"
	ginadapter "github.com/nimburion/hrportal/pkg/server/router/gin"
	gorillaadapter "github.com/nimburion/hrportal/pkg/server/router/gorilla"
	nethttpadapter "github.com/nimburion/hrportal/pkg/server/router/nethttp"
)

// Router types accepted by NewRouter.
const (
	TypeNetHTTP = "nethttp"
	TypeGin     = "gin"
	TypeGorilla = "gorilla"
)

// ErrUnsupportedRouter is returned for an unknown router type.
var ErrUnsupportedRouter = errors.New("unsupported router type")

var constructors = map[string]func() router.Router{
	TypeNetHTTP: func() router.Router { return nethttpadapter.NewRouter() },
	TypeGin:     func() router.Router { return ginadapter.NewRouter() },
	TypeGorilla: func() router.Router { return gorillaadapter.NewRouter() },
}

// NewRouter returns a fresh router of the given type. Matching ignores case and surrounding
// space; an empty type selects the net/http adapter.
func NewRouter(routerType string) (router.Router, error) {
	name := strings.ToLower(strings.TrimSpace(routerType))
	if name == "" {
		name = TypeNetHTTP
	}
	create, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedRouter, routerType, strings.Join(SupportedTypes(), ", "))
	}
	return create(), nil
}

// SupportedTypes lists the router types in sorted order.
func SupportedTypes() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
