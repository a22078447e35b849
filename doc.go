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

// Package beam is a generics based, Beam flavored pipeline API backed by a
// local, single pass evaluator. It exists so the core transform vocabulary,
// Create, ParDo, GroupByKey, CombinePerKey, and timestamp assignment, can be
// learned and exercised without a distributed runner.
//
// Pipelines are built with an opinionated, typechecked construction method:
// DoFns are structs whose exported [PCol] fields are their outputs, so Go
// typechecks the pipeline instead of reflection heavy SDK side code doing so
// at execution time.
//
// Execution is deliberately small. A pipeline is a strictly linear chain of
// transforms over finite, in memory collections, evaluated synchronously on
// a single goroutine by [LaunchAndWait]. Element wise transforms preserve
// input order, grouped transforms guarantee no key order, and the first per
// element failure aborts the run with no partial emission downstream of the
// failing element.
//
// Out of scope, permanently: distributed execution, windowing and triggers,
// watermarks, persistent state, and any network or storage I/O.
package beam
