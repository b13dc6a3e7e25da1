package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lintang-b-s/wayfinder/pkg/datastructure"
	"github.com/lintang-b-s/wayfinder/pkg/engine"
	"github.com/lintang-b-s/wayfinder/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildReadyEngine(t *testing.T, nodes []datastructure.RawNode,
	adjacency map[string][]datastructure.RawArc) *engine.Engine {
	e := engine.NewEngine(zap.NewNop())
	require.NoError(t, e.Build(nodes, adjacency))
	require.True(t, e.Ready())
	return e
}

func assertCode(t *testing.T, err error, code error) {
	t.Helper()
	var domainErr *util.Error
	require.True(t, errors.As(err, &domainErr), "expected a coded error, got %v", err)
	assert.Equal(t, code, domainErr.Code())
}

func TestComputeRouteDataUnavailable(t *testing.T) {
	// engine created but the graph never finished building
	e := engine.NewEngine(zap.NewNop())
	rs := NewRoutingService(zap.NewNop(), e, 5*time.Second)

	_, err := rs.ComputeRoute(context.Background(), -7.77, 110.37, -7.78, 110.38)
	require.Error(t, err)
	assertCode(t, err, util.ErrDataUnavailable)
}

func TestComputeRouteSuccess(t *testing.T) {
	/*
		a --- b --- c   along one street, ~1.1km per hop
	*/
	nodes := []datastructure.RawNode{
		datastructure.NewRawNode("a", -7.770, 110.370),
		datastructure.NewRawNode("b", -7.770, 110.380),
		datastructure.NewRawNode("c", -7.770, 110.390),
	}
	adjacency := map[string][]datastructure.RawArc{
		"a": {datastructure.NewRawArc("b", 1.1)},
		"b": {datastructure.NewRawArc("a", 1.1), datastructure.NewRawArc("c", 1.1)},
		"c": {datastructure.NewRawArc("b", 1.1)},
	}
	e := buildReadyEngine(t, nodes, adjacency)
	rs := NewRoutingService(zap.NewNop(), e, 5*time.Second)

	res, err := rs.ComputeRoute(context.Background(), -7.7701, 110.3701, -7.7701, 110.3899)
	require.NoError(t, err)

	require.Len(t, res.Route, 3)
	assert.Equal(t, -7.770, res.Route[0].Lat)
	assert.Equal(t, 110.370, res.Route[0].Lon)
	assert.Equal(t, 110.390, res.Route[2].Lon)
	assert.InEpsilon(t, 2.2, res.DistanceKM, 1e-9)
	assert.NotEmpty(t, res.Polyline)
	assert.GreaterOrEqual(t, res.OriginSnapMeters, 0.0)
	assert.GreaterOrEqual(t, res.DestinationSnapMeters, 0.0)
}

func TestComputeRouteTooClose(t *testing.T) {
	// one locatable node only: both endpoints snap to it and the re-snap
	// excluding it finds nothing.
	nodes := []datastructure.RawNode{
		datastructure.NewRawNode("only", -7.770, 110.370),
	}
	adjacency := map[string][]datastructure.RawArc{
		"only":  {datastructure.NewRawArc("ghost", 1.0)},
		"ghost": {datastructure.NewRawArc("only", 1.0)},
	}
	e := buildReadyEngine(t, nodes, adjacency)
	rs := NewRoutingService(zap.NewNop(), e, 5*time.Second)

	_, err := rs.ComputeRoute(context.Background(), -7.7700, 110.3700, -7.77001, 110.37001)
	require.Error(t, err)
	assertCode(t, err, util.ErrTooClose)
}

func TestComputeRouteResnapsWhenEndpointsCollide(t *testing.T) {
	// both query coordinates are nearest to "a"; the destination re-snaps to
	// "b" and a real route comes back instead of a TooClose failure.
	nodes := []datastructure.RawNode{
		datastructure.NewRawNode("a", -7.770, 110.370),
		datastructure.NewRawNode("b", -7.770, 110.380),
	}
	adjacency := map[string][]datastructure.RawArc{
		"a": {datastructure.NewRawArc("b", 1.1)},
		"b": {datastructure.NewRawArc("a", 1.1)},
	}
	e := buildReadyEngine(t, nodes, adjacency)
	rs := NewRoutingService(zap.NewNop(), e, 5*time.Second)

	res, err := rs.ComputeRoute(context.Background(), -7.7700, 110.3700, -7.77001, 110.37001)
	require.NoError(t, err)
	require.Len(t, res.Route, 2)
	assert.InEpsilon(t, 1.1, res.DistanceKM, 1e-9)
}

func TestComputeRouteNoRoute(t *testing.T) {
	// the only edge runs b -> a, so a -> b has no directed path.
	nodes := []datastructure.RawNode{
		datastructure.NewRawNode("a", -7.770, 110.370),
		datastructure.NewRawNode("b", -7.770, 110.380),
	}
	adjacency := map[string][]datastructure.RawArc{
		"b": {datastructure.NewRawArc("a", 1.1)},
	}
	e := buildReadyEngine(t, nodes, adjacency)
	rs := NewRoutingService(zap.NewNop(), e, 5*time.Second)

	_, err := rs.ComputeRoute(context.Background(), -7.770, 110.370, -7.770, 110.380)
	require.Error(t, err)
	assertCode(t, err, util.ErrNoRoute)
}
