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

// beamlet is a convenience launcher for the kata pipelines.
//
// Run a single kata by name, or list what's available:
//
//	beamlet -kata combine-per-key
//	beamlet -list
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"beamlet.dev/beam/katas"
)

// Config handles configuring the launcher.
type Config struct {
	// Kata names the kata to run.
	Kata string
	// List prints the available katas instead of running one.
	List bool
}

func initFlags() *Config {
	var cfg Config
	flag.StringVar(&cfg.Kata, "kata", "", "name of the kata to run")
	flag.BoolVar(&cfg.List, "list", false, "list available katas")
	return &cfg
}

func main() {
	cfg := initFlags()
	flag.Parse()

	all := katas.All()
	if cfg.List || cfg.Kata == "" {
		for _, k := range all {
			fmt.Printf("%-20s %s\n", k.Name, k.Description)
		}
		return
	}

	ctx := context.Background()
	for _, k := range all {
		if k.Name != cfg.Kata {
			continue
		}
		if err := k.Run(ctx, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "unknown kata %q, try -list\n", cfg.Kata)
	os.Exit(1)
}
