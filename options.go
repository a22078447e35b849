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
	"io"

	"beamlet.dev/beam/internal/beamopts"
)

// Options configure LaunchAndWait, ParDo, and the other transform builders
// with specific features. Each function takes a variadic list of options,
// where properties set in later options override the value of previously
// set properties.
type Options = beamopts.Options

// Name sets the name of the pipeline or transform in question, typically
// to make it easier to refer to. Transform names key user counters in
// [PipelineResult.Counters].
func Name(name string) Options {
	return &beamopts.Struct{
		Name: name,
	}
}

// ToWriter directs a [LogElements] sink's rendered output to w instead of
// standard output.
func ToWriter(w io.Writer) Options {
	return &beamopts.Struct{
		Writer: w,
	}
}

// WithLoggedTimestamps has a [LogElements] sink render each element's
// event time alongside the element itself.
func WithLoggedTimestamps() Options {
	return &beamopts.Struct{
		LogTimestamps: true,
	}
}
