// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// vmlift is a thin demo CLI around package lift: it decodes a
// hex-encoded instruction-bytes argument with golang.org/x/arch/x86/x86asm,
// lifts the resulting trace, and prints the lifted IR function.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/r3bb1t/bin-lift/arch"
	"github.com/r3bb1t/bin-lift/decode"
	"github.com/r3bb1t/bin-lift/lift"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	var (
		cfgFile    string
		mode32     bool
		entry      uint64
		verbose    bool
		stopOnFail bool
	)

	rootCmd := &cobra.Command{
		Use:   "vmlift",
		Short: "lift a raw x86 instruction trace into typed SSA IR",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config %s: %w", cfgFile, err)
				}
			}
			viper.BindPFlag("mode32", cmd.Flags().Lookup("mode32"))
			viper.BindPFlag("entry", cmd.Flags().Lookup("entry"))
			viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
			viper.BindPFlag("stop-on-unsupported", cmd.Flags().Lookup("stop-on-unsupported"))

			if len(args) != 1 {
				return fmt.Errorf("expected exactly one argument: a hex-encoded byte trace")
			}
			return run(args[0], liftCLIConfig{
				mode32:     viper.GetBool("mode32"),
				entry:      viper.GetUint64("entry"),
				verbose:    viper.GetBool("verbose"),
				stopOnFail: viper.GetBool("stop-on-unsupported"),
			})
		},
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (YAML/JSON/env)")
	rootCmd.Flags().BoolVar(&mode32, "mode32", false, "decode/lift in 32-bit (legacy) mode instead of 64-bit")
	rootCmd.Flags().Uint64Var(&entry, "entry", 0, "simulated entry instruction pointer")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "emit debug markers and per-instruction logging")
	rootCmd.Flags().BoolVar(&stopOnFail, "stop-on-unsupported", true, "abort on the first unsupported mnemonic")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vmlift:", err)
		os.Exit(1)
	}
}

type liftCLIConfig struct {
	mode32     bool
	entry      uint64
	verbose    bool
	stopOnFail bool
}

func run(hexTrace string, cliCfg liftCLIConfig) error {
	raw, err := hex.DecodeString(strings.TrimSpace(hexTrace))
	if err != nil {
		return fmt.Errorf("decoding hex argument: %w", err)
	}

	mode := arch.Long64
	if cliCfg.mode32 {
		mode = arch.Legacy32
	}

	var trace []decode.Instruction
	for len(raw) > 0 {
		inst, err := decode.Decode(raw, mode)
		if err != nil {
			return fmt.Errorf("decoding trace: %w", err)
		}
		converted, err := decode.FromX86Asm(inst, mode)
		if err != nil {
			return fmt.Errorf("converting instruction: %w", err)
		}
		trace = append(trace, converted)
		raw = raw[inst.Len:]
	}

	cfg := lift.DefaultConfig()
	cfg.Mode = mode
	cfg.EntryAddress = cliCfg.entry
	cfg.Verbose = cliCfg.verbose
	cfg.StopOnUnsupported = cliCfg.stopOnFail

	fn, c, err := lift.Lift(trace, cfg)
	if err != nil {
		return err
	}
	fmt.Print(fn.String())
	if len(c.Unsupported) > 0 {
		fmt.Fprintln(os.Stderr, "unsupported mnemonics encountered:")
		for m, n := range c.Unsupported {
			fmt.Fprintf(os.Stderr, "  %s: %d\n", m, n)
		}
	}
	return nil
}
