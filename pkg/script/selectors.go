package script

import (
	"github.com/dop251/goja"

	"wren/pkg/css"
	"wren/pkg/html"
)

// compile parses a selector argument, throwing a SyntaxError into the script
// when it is invalid or unsupported.
func compile(ctx *domContext, call goja.FunctionCall, method string) *css.SelectorList {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '" + method + "': 1 argument required"))
	}
	list, err := css.ParseSelectorList(call.Arguments[0].String())
	if err != nil {
		ctor := ctx.vm.Get("SyntaxError").ToObject(ctx.vm)
		obj, _ := ctx.vm.New(ctor, ctx.vm.ToValue("Failed to execute '"+method+"': "+err.Error()))
		panic(obj)
	}
	return list
}

// querySelectorFn returns a JS function implementing querySelector. Element
// scopes search descendants only; the document scope includes its root.
func querySelectorFn(ctx *domContext, root *html.Node, includeRoot bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		list := compile(ctx, call, "querySelector")
		var result *html.Node
		root.Walk(func(n *html.Node) bool {
			if result == nil && n.IsElement() && (includeRoot || n != root) && list.Matches(n) {
				result = n
			}
			return result == nil
		})
		return ctx.nodeOrNull(result)
	}
}

// querySelectorAllFn returns a JS function implementing querySelectorAll.
func querySelectorAllFn(ctx *domContext, root *html.Node, includeRoot bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		list := compile(ctx, call, "querySelectorAll")
		return ctx.elementArray(collect(root, includeRoot, list.Matches))
	}
}

// matchesFn returns a JS function implementing element.matches(selector).
func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		list := compile(ctx, call, "matches")
		return ctx.vm.ToValue(node.IsElement() && list.Matches(node))
	}
}

// closestFn returns a JS function implementing element.closest(selector).
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		list := compile(ctx, call, "closest")
		for current := node; current != nil; current = current.Parent {
			if current.IsElement() && list.Matches(current) {
				return ctx.elementProxy(current)
			}
		}
		return goja.Null()
	}
}
