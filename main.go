/*
Copyright (C) 2023  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dc0d/onexit"
	"github.com/spf13/cobra"

	"github.com/sdevlin-contrib/yoshi/yoshi"
)

const startupLibraryPath = "lib/yoshi/stdlib.scm"

func main() {
	var interactive, debug, silent bool
	var listen string

	root := &cobra.Command{
		Use:   "yoshi [files...]",
		Short: "yoshi is a small Scheme-family Lisp interpreter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, interactive, debug, silent, listen)
		},
	}
	root.Flags().BoolVarP(&interactive, "interactive", "i", false, "force interactive mode after processing files")
	root.Flags().BoolVarP(&debug, "debug", "d", false, "print each top-level form with a trace id before evaluating it (nested sub-expressions are not printed)")
	root.Flags().BoolVarP(&silent, "silent", "s", false, "suppress printing of top-level results")
	root.Flags().StringVarP(&listen, "listen", "l", "", "serve a networked REPL over websocket at this host:port instead of reading stdin")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(files []string, interactive, debug, silent bool, listen string) error {
	env := yoshi.NewTopLevelEnv()
	yoshi.InstallBuiltins(env)

	repl := yoshi.NewREPL(env)
	repl.Debug = debug
	repl.Silent = silent

	if debug {
		if tracedir := os.Getenv("YOSHI_TRACEDIR"); tracedir != "" {
			name := filepath.Join(tracedir, fmt.Sprintf("yoshi_trace_%d.json", time.Now().Unix()))
			if f, err := os.Create(name); err == nil {
				repl.Trace = yoshi.NewTracefile(f)
				onexit.Register(func() { repl.Trace.Close() })
				defer repl.Trace.Close()
			} else {
				fmt.Fprintf(os.Stderr, "warning: could not open trace file %s: %v\n", name, err)
			}
		}
	}

	if err := repl.LoadStartupLibrary(startupLibraryPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load startup library %s: %v\n", startupLibraryPath, err)
	} else if watcher, err := yoshi.NewWatcher(startupLibraryPath); err == nil {
		repl.Watcher = watcher
		onexit.Register(func() { watcher.Close() })
		defer watcher.Close()
	}

	for _, path := range files {
		if err := repl.RunFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}

	if listen != "" {
		network := yoshi.NewNetworkREPL(env)
		network.Debug = debug
		server := &http.Server{Addr: listen, Handler: network}
		onexit.Register(func() { server.Close() })
		fmt.Fprintf(os.Stderr, "yoshi: serving networked REPL on %s\n", listen)
		return server.ListenAndServe()
	}

	if interactive || len(files) == 0 {
		return repl.RunInteractive()
	}
	return nil
}
