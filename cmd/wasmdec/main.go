package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pgavlin/wasmdec/cmd/wasmdec/dump"
	"github.com/pgavlin/wasmdec/cmd/wasmdec/resolve"
	"github.com/pgavlin/wasmdec/wasm/binary"
)

var version = "<unknown>"

func configureCLI() *cobra.Command {
	var cpuProfile string
	var memProfile string
	var debug bool

	rootCommand := &cobra.Command{
		Use:           "wasmdec",
		Short:         "WebAssembly binary decoder",
		Long:          "wasmdec - decode and inspect WebAssembly binary modules",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				binary.SetLogger(logger)
			}

			if cpuProfile != "" {
				f, err := os.Create(cpuProfile)
				if err != nil {
					return err
				}
				if err := pprof.StartCPUProfile(f); err != nil {
					return err
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cpuProfile != "" {
				pprof.StopCPUProfile()
			}

			if memProfile != "" {
				f, err := os.Create(memProfile)
				if err != nil {
					return err
				}
				defer f.Close()
				runtime.GC()
				if err := pprof.WriteHeapProfile(f); err != nil {
					return err
				}
			}

			_ = binary.Logger().Sync()
			return nil
		},
	}

	rootCommand.AddCommand(dump.Command())
	rootCommand.AddCommand(resolve.Command())

	rootCommand.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "log decoder progress to stderr")
	rootCommand.PersistentFlags().StringVar(&cpuProfile, "cpu", "", "emit Go CPU profile data to this path")
	rootCommand.PersistentFlags().StringVar(&memProfile, "mem", "", "emit Go memory profile data to this path")

	rootCommand.PersistentFlags().MarkHidden("cpu")
	rootCommand.PersistentFlags().MarkHidden("mem")

	return rootCommand
}

func main() {
	rootCommand := configureCLI()

	if err := rootCommand.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
