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

// Package katas holds short, self contained pipelines that each
// demonstrate a single transform: construct a small in memory dataset,
// apply one or two stages, log the results.
package katas

import (
	"context"
	"io"
)

// Kata is a runnable exercise. Run writes its rendered output to w, one
// line per final element.
type Kata struct {
	Name        string
	Description string
	Run         func(ctx context.Context, w io.Writer) error
}

// All lists the available katas.
func All() []Kata {
	return []Kata{
		{
			Name:        "combine-per-key",
			Description: "Sum scores per player with CombinePerKey.",
			Run:         SumScoresPerPlayer,
		},
		{
			Name:        "adding-timestamp",
			Description: "Assign each event its own creation time as its event time.",
			Run:         AttachEventTimestamps,
		},
	}
}
