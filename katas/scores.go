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

package katas

import (
	"context"
	"io"

	"beamlet.dev/beam"
)

const (
	player1 = "Player 1"
	player2 = "Player 2"
	player3 = "Player 3"
)

// SumScoresPerPlayer sums each player's scores with a keyed combine.
// One output per player, in no particular order.
func SumScoresPerPlayer(ctx context.Context, w io.Writer) error {
	_, err := beam.LaunchAndWait(ctx, func(s *beam.Scope) error {
		scores := beam.Create(s,
			beam.Pair(player1, 15),
			beam.Pair(player2, 10),
			beam.Pair(player1, 100),
			beam.Pair(player3, 25),
			beam.Pair(player2, 75),
		)
		sums := beam.CombinePerKey(s, scores, beam.SimpleMerge(beam.SumFn[int]{}))
		beam.LogElements(s, sums, beam.ToWriter(w))
		return nil
	}, beam.Name("combine-per-key"))
	return err
}
