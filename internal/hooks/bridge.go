// internal/hooks/bridge.go
package hooks

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/dragsort/internal/dom"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
)

// bridge exposes document elements to hook scripts. Each attached node maps
// to one JS object, so scripts can compare items with ===. Entries for nodes
// that left the document are pruned before every hook call.
type bridge struct {
	vm       *goja.Runtime
	logger   *zap.Logger
	elements map[*html.Node]*goja.Object
}

func newBridge(vm *goja.Runtime, logger *zap.Logger) *bridge {
	return &bridge{
		vm:       vm,
		logger:   logger,
		elements: make(map[*html.Node]*goja.Object),
	}
}

// prune forgets nodes no longer attached to a document, such as placeholders
// of finished sessions.
func (b *bridge) prune() {
	for n := range b.elements {
		if !attached(n) {
			delete(b.elements, n)
		}
	}
}

func attached(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n.Type == html.DocumentNode {
			return true
		}
	}
	return false
}

// wrapNode returns the JS view of an element, or null.
func (b *bridge) wrapNode(n *html.Node) goja.Value {
	if !dom.IsElement(n) {
		return goja.Null()
	}
	if obj, ok := b.elements[n]; ok {
		return obj
	}

	obj := b.vm.NewObject()
	b.elements[n] = obj

	_ = obj.Set("tagName", strings.ToUpper(n.Data))
	b.defineGetter(obj, "id", func() goja.Value { return b.vm.ToValue(dom.Attr(n, "id")) })
	b.defineGetter(obj, "className", func() goja.Value { return b.vm.ToValue(dom.Attr(n, "class")) })
	b.defineGetter(obj, "textContent", func() goja.Value { return b.vm.ToValue(dom.Text(n)) })
	b.defineGetter(obj, "xpath", func() goja.Value { return b.vm.ToValue(dom.GenerateUniqueXPath(n)) })
	b.defineGetter(obj, "parentElement", func() goja.Value { return b.wrapNode(n.Parent) })
	b.defineGetter(obj, "previousElementSibling", func() goja.Value { return b.wrapNode(dom.PrevElementSibling(n)) })
	b.defineGetter(obj, "nextElementSibling", func() goja.Value { return b.wrapNode(dom.NextElementSibling(n)) })
	b.defineGetter(obj, "disabled", func() goja.Value { return b.vm.ToValue(dragdrop.IsDisabled(n)) })

	_ = obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		key := call.Argument(0).String()
		if !dom.HasAttr(n, key) {
			return goja.Null()
		}
		return b.vm.ToValue(dom.Attr(n, key))
	})
	_ = obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(dom.HasAttr(n, call.Argument(0).String()))
	})
	_ = obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		dom.SetAttr(n, call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	_ = obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		dom.RemoveAttr(n, call.Argument(0).String())
		return goja.Undefined()
	})
	_ = obj.Set("classList", b.classList(n))
	return obj
}

// classList mirrors DOMTokenList's add/remove/contains.
func (b *bridge) classList(n *html.Node) *goja.Object {
	list := b.vm.NewObject()
	_ = list.Set("add", func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			dom.AddClass(n, arg.String())
		}
		return goja.Undefined()
	})
	_ = list.Set("remove", func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			dom.RemoveClass(n, arg.String())
		}
		return goja.Undefined()
	})
	_ = list.Set("contains", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(dom.HasClass(n, call.Argument(0).String()))
	})
	return list
}

func (b *bridge) defineGetter(obj *goja.Object, name string, getter func() goja.Value) {
	fn := b.vm.ToValue(func(goja.FunctionCall) goja.Value { return getter() })
	if err := obj.DefineAccessorProperty(name, fn, goja.Undefined(), goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		b.logger.Error("Failed to define getter", zap.String("property", name), zap.Error(err))
	}
}

// wrapEvent builds the event object scripts receive.
func (b *bridge) wrapEvent(ev dragdrop.PointerEvent) *goja.Object {
	obj := b.vm.NewObject()
	_ = obj.Set("type", string(ev.Type))
	_ = obj.Set("source", string(ev.Source))
	_ = obj.Set("clientX", ev.X)
	_ = obj.Set("clientY", ev.Y)
	_ = obj.Set("target", b.wrapNode(ev.Target))

	touches := make([]interface{}, 0, len(ev.Touches))
	for _, t := range ev.Touches {
		touch := b.vm.NewObject()
		_ = touch.Set("clientX", t.X)
		_ = touch.Set("clientY", t.Y)
		touches = append(touches, touch)
	}
	_ = obj.Set("touches", b.vm.NewArray(touches...))
	return obj
}

// payload is the single argument every hook receives: {item, event}.
func (b *bridge) payload(ev dragdrop.HookEvent) *goja.Object {
	b.prune()
	obj := b.vm.NewObject()
	_ = obj.Set("item", b.wrapNode(ev.Item))
	_ = obj.Set("event", b.wrapEvent(ev.Event))
	return obj
}

// installConsole routes console.log and friends to the logger.
func (b *bridge) installConsole() error {
	console := b.vm.NewObject()
	logAt := func(level string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, 0, len(call.Arguments))
			for _, a := range call.Arguments {
				parts = append(parts, a.String())
			}
			msg := strings.Join(parts, " ")
			switch level {
			case "error":
				b.logger.Error(msg, zap.String("source", "console"))
			case "warn":
				b.logger.Warn(msg, zap.String("source", "console"))
			case "debug":
				b.logger.Debug(msg, zap.String("source", "console"))
			default:
				b.logger.Info(msg, zap.String("source", "console"))
			}
			return goja.Undefined()
		}
	}
	for _, level := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(level, logAt(level)); err != nil {
			return fmt.Errorf("failed to install console.%s: %w", level, err)
		}
	}
	return b.vm.Set("console", console)
}
