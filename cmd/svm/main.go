package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/stackvm/svm/config"
	"github.com/stackvm/svm/emulator"
	"github.com/stackvm/svm/script"
	"github.com/stackvm/svm/translate"
)

func main() {
	var compile string
	var binary string
	var save string
	var list bool
	var scriptFile string
	var configFile string
	var maxTicks int
	var memorySize int
	var protect bool
	var input string
	var output string
	var snapshot string
	var resume string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&binary, "b", "", ".bin file to load")
	flag.StringVar(&save, "o", "", "Save binary image, do not execute")
	flag.BoolVar(&list, "l", false, "List program")
	flag.StringVar(&scriptFile, "x", "", ".star file with signal handlers")
	flag.StringVar(&configFile, "config", "", ".toml configuration file")
	flag.IntVar(&maxTicks, "n", 0, "Maximum ticks, 0 for unlimited")
	flag.IntVar(&memorySize, "m", 0, "Memory size in bytes")
	flag.BoolVar(&protect, "p", false, "Write protect program text")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "O", "-", "Tape output")
	flag.StringVar(&snapshot, "s", "", "Save snapshot at exit")
	flag.StringVar(&resume, "r", "", "Resume from snapshot")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(binary) != 0 {
		log.Fatalf("%v: -c and -b are exclusive", os.Args[0])
	}

	cfg := config.Default()
	if len(configFile) != 0 {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	// Flags override the configuration file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "x":
			cfg.Script = scriptFile
		case "n":
			cfg.MaxTicks = maxTicks
		case "m":
			cfg.MemorySize = memorySize
		case "p":
			cfg.ProtectText = protect
		case "v":
			cfg.Verbose = verbose
		}
	})

	err := cfg.Validate()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	emu := emulator.NewEmulator(cfg.MemorySize)
	emu.Verbose = cfg.Verbose
	emu.MaxTicks = cfg.MaxTicks
	emu.ProtectText = cfg.ProtectText
	for key, value := range cfg.Defines {
		emu.Predefine(key, value)
	}

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(binary) != 0:
		image, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}

		err = emu.LoadBinary(image)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	}

	if list {
		err = emu.Program.Listing(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
	}

	if len(save) != 0 {
		err = os.WriteFile(save, emu.Image, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if list {
		return
	}

	if len(cfg.Script) != 0 {
		src, err := os.ReadFile(cfg.Script)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Script, err)
		}

		handlers, err := script.Load(cfg.Script, src, os.Stderr)
		if err != nil {
			log.Fatalf("%v: %v", cfg.Script, err)
		}
		handlers.Verbose = cfg.Verbose
		handlers.Install(emu.Machine)
	}

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	if output == "-" {
		emu.Tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	if len(resume) != 0 {
		data, err := os.ReadFile(resume)
		if err != nil {
			log.Fatalf("%v: %v", resume, err)
		}
		err = emu.UnmarshalSnapshot(data)
		if err != nil {
			log.Fatalf("%v: %v", resume, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)

	if len(snapshot) != 0 {
		data, serr := emu.MarshalSnapshot()
		if serr == nil {
			serr = os.WriteFile(snapshot, data, 0o644)
		}
		if serr != nil {
			log.Fatalf("%v: %v", snapshot, serr)
		}
	}

	if err != nil {
		log.Fatal(err)
	}

	if cfg.Verbose {
		translate.Log("svm: halted after %d ticks", emu.Machine.Ticks)
	}

	err = emu.Report(os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}
