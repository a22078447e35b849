// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package beam

import (
	"fmt"
	"reflect"

	"beamlet.dev/beam/internal/beamopts"
)

// ParDo takes the user's DoFn and returns the same type for downstream
// pipeline construction.
//
// The returned DoFn's emitter fields can then be used as inputs into other
// DoFns.
func ParDo[E Element, DF Transform[E]](s *Scope, input PCol[E], dofn DF, opts ...Options) DF {
	var opt beamopts.Struct
	opt.Join(opts...)

	edgeID := s.g.curEdgeIndex()
	ins, outs, order := s.g.deferDoFn(dofn, input.globalIndex, edgeID)

	s.g.edges = append(s.g.edges, &edgeDoFn[E]{index: edgeID, dofn: dofn, ins: ins, outs: outs, outOrder: order, parallelIn: input.globalIndex, opts: opt})

	return dofn
}

// deferDoFn walks the DoFn's exported fields, initializing emitters and
// registering the output nodes they produce. Emitter fields may be single
// PCols, or slices and arrays of them.
func (g *graph) deferDoFn(dofn any, input nodeIndex, global edgeIndex) (ins, outs map[string]nodeIndex, order []nodeIndex) {
	g.addConsumer(input, global)

	rv := reflect.ValueOf(dofn)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	ins = map[string]nodeIndex{
		"parallel": input,
	}
	outs = map[string]nodeIndex{}
	efaceRT := reflect.TypeOf((*emitIface)(nil)).Elem()
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		fv := rv.Field(i)
		sf := rt.Field(i)
		if !fv.CanAddr() || !sf.IsExported() {
			continue
		}
		switch sf.Type.Kind() {
		case reflect.Array, reflect.Slice:
			ptrEt := reflect.PointerTo(sf.Type.Elem())
			if !ptrEt.Implements(efaceRT) {
				continue
			}
			for j := 0; j < fv.Len(); j++ {
				fvj := fv.Index(j).Addr()
				order = g.initEmitter(fvj.Interface().(emitIface), global, fmt.Sprintf("%s%%%d", sf.Name, j), outs, order)
			}
		case reflect.Struct:
			fv = fv.Addr()
			if emt, ok := fv.Interface().(emitIface); ok {
				order = g.initEmitter(emt, global, sf.Name, outs, order)
			}
		case reflect.Chan:
			panic(fmt.Sprintf("field %v is a channel", fv))
		default:
			// Don't do anything with pointers, or other types.
		}
	}
	return ins, outs, order
}

func (g *graph) initEmitter(emt emitIface, global edgeIndex, name string, outs map[string]nodeIndex, order []nodeIndex) []nodeIndex {
	localIndex := len(order)
	globalIndex := g.curNodeIndex()
	emt.setPColKey(globalIndex, localIndex)
	node := emt.newNode(globalIndex.String(), globalIndex, global)
	g.nodes = append(g.nodes, node)
	outs[name] = globalIndex
	return append(order, globalIndex)
}

type edgeDoFn[E Element] struct {
	index edgeIndex

	dofn      Transform[E]
	ins, outs map[string]nodeIndex // local field names to global collection ids.
	// outOrder records output nodes by their emitter's local index, the
	// order Emit uses to find its downstream processor.
	outOrder   []nodeIndex
	parallelIn nodeIndex

	opts beamopts.Struct
}

func (e *edgeDoFn[E]) edgeID() edgeIndex {
	return e.index
}

func (e *edgeDoFn[E]) inputs() map[string]nodeIndex {
	return e.ins
}

func (e *edgeDoFn[E]) outputs() map[string]nodeIndex {
	return e.outs
}

func (e *edgeDoFn[E]) name() string {
	if e.opts.Name != "" {
		return e.opts.Name
	}
	rt := reflect.TypeOf(e.dofn)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.PkgPath() + "." + rt.Name()
}

// execute runs the DoFn over the materialized input buffer. The registered
// bundle finisher runs on every exit path, including element failures.
func (e *edgeDoFn[E]) execute(p *plan) (err error) {
	p.bindCounters(e.dofn, e.name())

	procs := make([]processor, len(e.outOrder))
	for i, ni := range e.outOrder {
		procs[i] = p.g.nodes[ni].collector()
	}
	dfc := &DFC[E]{id: e.parallelIn, transform: e.name(), dofn: e.dofn, downstream: procs}
	defer func() {
		if dfc.finishBundle == nil {
			return
		}
		if ferr := dfc.finishBundle(); ferr != nil && err == nil {
			err = ferr
		}
	}()

	if err := e.dofn.ProcessBundle(dfc); err != nil {
		return err
	}
	if dfc.perElm == nil {
		// A DoFn that never calls Process observes no elements.
		return nil
	}
	in := p.g.nodes[e.parallelIn].(*typedNode[E])
	for _, elm := range in.elems {
		ec := ElmC{elmContext{eventTime: elm.eventTime}, dfc.downstream}
		if err := dfc.perElm(ec, elm.value); err != nil {
			return err
		}
	}
	return nil
}

var _ multiEdge = (*edgeDoFn[int])(nil)
