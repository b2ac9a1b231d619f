package script

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"wren/pkg/html"
)

// domContext holds shared state for DOM bindings within a single execution.
// It maintains a node-to-proxy cache so the same JS object is returned for
// the same underlying *html.Node (needed for === identity checks).
type domContext struct {
	vm    *goja.Runtime
	doc   *html.Document
	cache map[*html.Node]*goja.Object
	nodes map[*goja.Object]*html.Node
}

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := &domContext{
		vm:    vm,
		doc:   doc,
		cache: make(map[*html.Node]*goja.Object),
		nodes: make(map[*goja.Object]*html.Node),
	}

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		return ctx.nodeOrNull(getElementById(doc.Root, call.Arguments[0].String()))
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		tag := strings.ToLower(call.Arguments[0].String())
		return ctx.elementArray(collect(doc.Root, true, func(n *html.Node) bool { return n.TagName == tag }))
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		cls := call.Arguments[0].String()
		return ctx.elementArray(collect(doc.Root, true, func(n *html.Node) bool { return n.HasClass(cls) }))
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(html.NewElement(call.Arguments[0].String(), make(map[string]string)))
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.elementProxy(&html.Node{Type: html.TextNode, Text: text})
	})
	docObj.Set("querySelector", querySelectorFn(ctx, doc.Root, true))
	docObj.Set("querySelectorAll", querySelectorAllFn(ctx, doc.Root, true))

	docObj.Set("documentElement", ctx.elementProxy(doc.Root))
	for _, c := range doc.Root.ElementChildren() {
		if c.TagName == "head" || c.TagName == "body" {
			docObj.Set(c.TagName, ctx.elementProxy(c))
		}
	}

	vm.Set("document", docObj)
	return ctx
}

// getElementById walks the tree and returns the first node with matching id.
func getElementById(root *html.Node, id string) *html.Node {
	var found *html.Node
	root.Walk(func(n *html.Node) bool {
		if found == nil && n.IsElement() && n.ID() == id {
			found = n
		}
		return found == nil
	})
	return found
}

// collect returns the elements under root, in document order, that keep
// says to keep.
func collect(root *html.Node, includeRoot bool, keep func(*html.Node) bool) []*html.Node {
	var result []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n.IsElement() && (includeRoot || n != root) && keep(n) {
			result = append(result, n)
		}
		return true
	})
	return result
}

func (ctx *domContext) nodeOrNull(n *html.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	return ctx.elementProxy(n)
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	items := make([]any, len(nodes))
	for i, n := range nodes {
		items[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(items...)
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject wrapping an html.Node.
func (ctx *domContext) elementProxy(node *html.Node) *goja.Object {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	ctx.nodes[v] = node
	return v
}

// unwrapNode extracts the *html.Node behind a proxy, nil for anything else.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	return ctx.nodes[obj]
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"nodeType", "nodeName", "nodeValue", "tagName", "id", "className",
	"textContent", "innerHTML", "outerHTML",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "childNodes", "parentElement", "parentNode", "style",
	"appendChild", "removeChild", "insertBefore", "remove",
	"previousElementSibling", "nextElementSibling",
	"querySelector", "querySelectorAll", "matches", "closest",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	n := e.node

	switch key {
	case "nodeType":
		if n.Type == html.TextNode {
			return vm.ToValue(3) // Node.TEXT_NODE
		}
		return vm.ToValue(1) // Node.ELEMENT_NODE
	case "nodeName":
		if n.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "nodeValue":
		if n.Type == html.TextNode {
			return vm.ToValue(n.Text)
		}
		return goja.Null()
	case "tagName":
		if n.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "id":
		return vm.ToValue(n.ID())
	case "className":
		cls, _ := n.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "innerHTML":
		return vm.ToValue(n.Serialize())
	case "outerHTML":
		return vm.ToValue(n.SerializeOuter())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := n.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'setAttribute' on 'Element': 2 arguments required"))
			}
			n.SetAttribute(strings.ToLower(call.Arguments[0].String()), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := n.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) > 0 && n.Attributes != nil {
				delete(n.Attributes, strings.ToLower(call.Arguments[0].String()))
			}
			return goja.Undefined()
		})
	case "children":
		return e.ctx.elementArray(n.ElementChildren())
	case "childNodes":
		return e.ctx.elementArray(n.Children)
	case "parentElement", "parentNode":
		return e.ctx.nodeOrNull(n.Parent)
	case "previousElementSibling":
		return e.ctx.nodeOrNull(n.PreviousElementSibling())
	case "nextElementSibling":
		return e.ctx.nodeOrNull(n.NextElementSibling())
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: n})
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.argNode(call, "appendChild")
			if child.Parent != nil {
				child.Parent.RemoveChild(child)
			}
			n.AddChild(child)
			return call.Arguments[0]
		})
	case "removeChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if n.RemoveChild(e.argNode(call, "removeChild")) == nil {
				panic(vm.NewTypeError("Failed to execute 'removeChild' on 'Node': not a child of this node"))
			}
			return call.Arguments[0]
		})
	case "insertBefore":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.argNode(call, "insertBefore")
			var ref *html.Node
			if len(call.Arguments) > 1 {
				ref = e.ctx.unwrapNode(call.Arguments[1])
			}
			n.InsertBefore(child, ref)
			return call.Arguments[0]
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
			return goja.Undefined()
		})
	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, n, false))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, n, false))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, n))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, n))
	}
	return goja.Undefined()
}

// argNode returns the node behind the first argument or throws a TypeError.
func (e *elementAccessor) argNode(call goja.FunctionCall, method string) *html.Node {
	var n *html.Node
	if len(call.Arguments) > 0 {
		n = e.ctx.unwrapNode(call.Arguments[0])
	}
	if n == nil {
		panic(e.ctx.vm.NewTypeError("Failed to execute '" + method + "' on 'Node': parameter 1 is not of type 'Node'"))
	}
	return n
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.Children = nil
		if s := val.String(); s != "" {
			e.node.AppendText(s)
		}
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	case "nodeValue":
		if e.node.Type == html.TextNode {
			e.node.Text = val.String()
		}
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementKeys
}

// styleAccessor maps JS camelCase property access to CSS kebab-case on the
// node's style attribute. The cascade picks changes up on the next styling
// pass.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	if key == "cssText" {
		v, _ := s.node.GetAttribute("style")
		return s.vm.ToValue(v)
	}
	styles := parseInlineStyle(s.attr())
	return s.vm.ToValue(styles[camelToKebab(key)])
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	if key == "cssText" {
		s.node.SetAttribute("style", val.String())
		return true
	}
	styles := parseInlineStyle(s.attr())
	if v := val.String(); v == "" {
		delete(styles, camelToKebab(key))
	} else {
		styles[camelToKebab(key)] = v
	}
	s.node.SetAttribute("style", serializeInlineStyle(styles))
	return true
}

func (s *styleAccessor) Has(key string) bool {
	return true
}

func (s *styleAccessor) Delete(key string) bool {
	styles := parseInlineStyle(s.attr())
	delete(styles, camelToKebab(key))
	s.node.SetAttribute("style", serializeInlineStyle(styles))
	return true
}

func (s *styleAccessor) Keys() []string {
	styles := parseInlineStyle(s.attr())
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *styleAccessor) attr() string {
	v, _ := s.node.GetAttribute("style")
	return v
}

// parseInlineStyle splits a style attribute into property/value pairs.
// Values are kept as text; the CSS parser validates them during the cascade.
func parseInlineStyle(s string) map[string]string {
	result := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop != "" {
			result[prop] = strings.TrimSpace(val)
		}
	}
	return result
}

// serializeInlineStyle converts the map back to a style attribute, sorted by
// property so the output is stable.
func serializeInlineStyle(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m[k]
	}
	return strings.Join(parts, "; ")
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
