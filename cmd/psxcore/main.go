// Command psxcore loads a BIOS image and steps the interpreter,
// optionally one instruction at a time under an interactive
// keyboard-driven debugger. Grounded on cmd/mipsvm/main.go's
// flag/log/signal-driven runner shape, with the single-step mode
// adapted from main.go's keyboard.GetSingleKey()-based input loop.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eiannone/keyboard"
	"golang.org/x/term"

	"psxcore/internal/bus"
	"psxcore/internal/cpu"
)

func main() {
	biosPath := flag.String("bios", "", "path to a PSX BIOS image (required)")
	verbose := flag.Bool("v", false, "enable verbose bus/cpu logging")
	step := flag.Bool("step", false, "single-step interactively, printing PC before each instruction")
	maxSteps := flag.Uint64("max-steps", 0, "stop after this many instructions (0 = unbounded)")
	flag.Parse()

	if *biosPath == "" {
		log.Fatal("psxcore: -bios is required")
	}

	image, err := os.ReadFile(*biosPath)
	if err != nil {
		log.Fatalf("psxcore: reading bios: %v", err)
	}

	b, err := bus.New(image, *verbose)
	if err != nil {
		log.Fatalf("psxcore: %v", err)
	}
	b.OnBootProgress(func(code byte) {
		if *verbose {
			log.Printf("psxcore: boot progress 0x%02X", code)
		}
	})

	c := cpu.New(b, *verbose)

	done := make(chan struct{})
	go func() {
		defer close(done)
		runLoop(c, *step, *maxSteps)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	start := time.Now()
	select {
	case <-sigCh:
		log.Print("psxcore: signal received, stopping")
	case <-done:
	}
	log.Printf("psxcore: ran for %s", time.Since(start))
}

// runLoop steps the CPU either freely (bounded only by maxSteps, 0
// meaning unbounded) or one instruction at a time, waiting for a
// keypress between steps when step is set.
func runLoop(c *cpu.CPU, step bool, maxSteps uint64) {
	if step {
		runInteractive(c, maxSteps)
		return
	}
	var n uint64
	for maxSteps == 0 || n < maxSteps {
		c.Step()
		n++
	}
}

// runInteractive puts the terminal in raw mode so single keystrokes
// advance the interpreter, printing the PC about to be fetched before
// every step; Ctrl-C exits the debugger.
func runInteractive(c *cpu.CPU, maxSteps uint64) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		log.Fatalf("psxcore: entering raw mode: %v", err)
	}
	defer term.Restore(fd, oldState)

	if err := keyboard.Open(); err != nil {
		log.Fatalf("psxcore: opening keyboard: %v", err)
	}
	defer keyboard.Close()

	var n uint64
	for maxSteps == 0 || n < maxSteps {
		fmt.Printf("\r\npc=0x%08X > ", c.PC())
		_, key, err := keyboard.GetSingleKey()
		if err != nil {
			log.Fatalf("psxcore: reading key: %v", err)
		}
		if key == keyboard.KeyCtrlC {
			return
		}
		c.Step()
		n++
	}
}
