package main

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/five82/balloon/internal/app"
)

type globalFlags struct {
	configPath     string
	prefsPath      string
	endpoint       string
	pollSeconds    int
	timeoutSeconds int
	logLevel       string
}

type commandContext struct {
	flags *globalFlags

	runtimeOnce sync.Once
	runtime     *app.Runtime
	runtimeErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) options(headless bool) app.Options {
	return app.Options{
		ConfigPath: c.flags.configPath,
		PrefsPath:  c.flags.prefsPath,
		Endpoint:   c.flags.endpoint,
		PollEvery:  c.flags.pollSeconds,
		Timeout:    c.flags.timeoutSeconds,
		LogLevel:   c.flags.logLevel,
		Headless:   headless,
	}
}

// ensureRuntime bootstraps the headless runtime once per process.
func (c *commandContext) ensureRuntime() (*app.Runtime, error) {
	c.runtimeOnce.Do(func() {
		c.runtime, c.runtimeErr = app.Bootstrap(c.options(true))
	})
	return c.runtime, c.runtimeErr
}

func (c *commandContext) closeRuntime() {
	if c.runtime != nil {
		c.runtime.Close()
	}
}

func isInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
