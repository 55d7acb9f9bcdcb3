// Copyright (c) 2014, Kevin Walsh.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/cli"
)

const version = "0.1.0"

func main() {
	ui := &cli.ColoredUi{
		Ui: &cli.BasicUi{
			Reader:      os.Stdin,
			Writer:      os.Stdout,
			ErrorWriter: os.Stderr,
		},
		ErrorColor: cli.UiColorRed,
		WarnColor:  cli.UiColorYellow,
	}

	c := cli.NewCLI("rete", version)
	c.Args = os.Args[1:]
	c.Commands = map[string]cli.CommandFactory{
		"repl": func() (cli.Command, error) { return &ReplCommand{ui: ui}, nil },
		"run":  func() (cli.Command, error) { return &RunCommand{ui: ui}, nil },
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode)
}
