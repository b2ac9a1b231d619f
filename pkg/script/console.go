package script

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// consoleAPI implements console.log, console.warn, and console.error on top
// of the engine's logger.
type consoleAPI struct {
	log *zap.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.logFn(c.log.Info))
	console.Set("info", c.logFn(c.log.Info))
	console.Set("debug", c.logFn(c.log.Debug))
	console.Set("warn", c.logFn(c.log.Warn))
	console.Set("error", c.logFn(c.log.Error))
	vm.Set("console", console)
}

func (c *consoleAPI) logFn(emit func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		emit(formatArgs(call.Arguments), zap.String("source", "console"))
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
