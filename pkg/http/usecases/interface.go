package usecases

import (
	"github.com/lintang-b-s/wayfinder/pkg/engine/routing"
	"github.com/lintang-b-s/wayfinder/pkg/spatialindex"
)

// GraphEngine is the startup-published engine: Ready reports whether the
// graph index finished building. until then RouteEngine and Locator return
// ok=false and the service answers data-unavailable.
type GraphEngine interface {
	Ready() bool
	RouteEngine() (*routing.RouteEngine, bool)
	Locator() (*spatialindex.Rtree, bool)
}
