// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/loader"
)

//go:embed demo.star
var demoManifest string

// options shared by the run and demo commands.
type options struct {
	verbose bool
	limit   int
	dump    bool
}

func (opt *options) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&opt.verbose, "verbose", "v", false, "Trace every instruction")
	cmd.Flags().IntVar(&opt.limit, "limit", 0, "Maximum instructions to execute (0 = unlimited)")
	cmd.Flags().BoolVar(&opt.dump, "dump", false, "Pretty print the final machine state")
}

// execute runs prog to completion and reports the final state.
func (opt *options) execute(prog *cpu.Program) (emu *emulator.Emulator, err error) {
	emu = emulator.NewEmulator()
	emu.Verbose = opt.verbose
	emu.TickLimit = opt.limit
	emu.Program = prog

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run()
	if err != nil {
		fmt.Fprint(os.Stderr, emu.Cpu.String())
		return
	}

	if opt.dump {
		pp.Println(emu.Cpu.State())
	} else {
		fmt.Print(emu.Cpu.String())
	}

	return
}

// parseUint parses a 0x/0o/0b prefixed or decimal value up to bits wide.
func parseUint(text string, bits int) (value uint64, err error) {
	return strconv.ParseUint(strings.TrimSpace(text), 0, bits)
}

// parseRegister parses a register name, v0 through vF, to its index.
func parseRegister(name string) (index uint8, err error) {
	hex := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "v")
	value, err := strconv.ParseUint(hex, 16, 4)
	if err != nil {
		return
	}

	index = uint8(value)
	return
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "chip8",
		Short:         "CHIP-8 style register machine emulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var opts options
	var base string
	var entry string
	var regs map[string]string

	runCmd := &cobra.Command{
		Use:   "run PROGRAM",
		Short: "Run a .star manifest or a raw big-endian image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseUint(base, 12)
			if err != nil {
				return fmt.Errorf("--base %v: %w", base, err)
			}

			prog, err := loader.Open(args[0], uint16(at))
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("entry") {
				pc, err := parseUint(entry, 12)
				if err != nil {
					return fmt.Errorf("--entry %v: %w", entry, err)
				}
				prog.Entry = uint16(pc)
			}

			for key, val := range regs {
				index, err := parseRegister(key)
				if err != nil {
					return fmt.Errorf("--reg %v: %w", key, err)
				}
				value, err := parseUint(val, 8)
				if err != nil {
					return fmt.Errorf("--reg %v=%v: %w", key, val, err)
				}
				prog.Registers[index] = uint8(value)
			}

			_, err = opts.execute(prog)
			return err
		},
	}
	opts.register(runCmd)
	runCmd.Flags().StringVar(&base, "base", "0x000", "Load address for raw images")
	runCmd.Flags().StringVar(&entry, "entry", "", "Override the initial program counter")
	runCmd.Flags().StringToStringVar(&regs, "reg", nil, "Initial register values, e.g. --reg v0=5,v1=0x0a")

	var demoOpts options
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in add/subtract subroutine program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loader.ParseManifest("demo.star", strings.NewReader(demoManifest))
			if err != nil {
				return err
			}

			x, y := prog.Registers[0], prog.Registers[1]

			emu, err := demoOpts.execute(prog)
			if err != nil {
				return err
			}

			mid := x + y
			fmt.Printf("%d + %d = %d\n", x, y, mid)
			fmt.Printf("%d - %d = %d\n", mid, y, emu.Cpu.Register[0])
			return nil
		},
	}
	demoOpts.register(demoCmd)

	rootCmd.AddCommand(runCmd, demoCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}
