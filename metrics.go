package beam

import (
	"reflect"
	"sync/atomic"
)

// User metrics are exported struct fields on a DoFn, discovered when the
// transform executes and surfaced in [PipelineResult.Counters] under
// "<transform>.<Field>".

// CounterInt64 is a cumulative, increment only user metric.
type CounterInt64 struct {
	beamMixin

	agg *atomic.Int64
}

// Inc adds diff to the counter. The dfc ties the increment to the currently
// executing transform.
func (c *CounterInt64) Inc(dfc processor, diff int64) {
	if c.agg == nil {
		panic("CounterInt64 incremented outside a pipeline run")
	}
	c.agg.Add(diff)
}

type counterIface interface {
	bindCounter(agg *atomic.Int64)
}

func (c *CounterInt64) bindCounter(agg *atomic.Int64) {
	c.agg = agg
}

var _ counterIface = (*CounterInt64)(nil)

// bindCounters attaches the DoFn's exported metric fields to this run's
// counter registry, keyed by the transform's name.
func (p *plan) bindCounters(dofn any, transform string) {
	rv := reflect.ValueOf(dofn)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return
	}
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		fv := rv.Field(i)
		sf := rt.Field(i)
		if !fv.CanAddr() || !sf.IsExported() || sf.Type.Kind() != reflect.Struct {
			continue
		}
		if ct, ok := fv.Addr().Interface().(counterIface); ok {
			ct.bindCounter(p.counterFor(transform + "." + sf.Name))
		}
	}
}
