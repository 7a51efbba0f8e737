package meta_test

import (
	"fmt"

	"github.com/ava12/meta"
	"github.com/ava12/meta/langdef"
	"github.com/ava12/meta/parser"
	"github.com/ava12/meta/tree"
)

func Example() {
	syntax, e := langdef.ParseString("greeting.meta", `1 "greeting" ["say" w! t?"foo"]`)
	if e != nil {
		fmt.Println(e)
		return
	}

	events, e := parser.Parse(syntax, `say "Hello world!"`)
	if e != nil {
		fmt.Println(e)
		return
	}

	for _, ev := range events {
		fmt.Println(ev)
	}
	// Output:
	// 4+14 string(foo, "Hello world!")
}

func Example_tree() {
	syntax, e := langdef.ParseString("pairs.meta", `
1 "pair" [t!"key" w? "=" w? {$_"value" "true":"value" "false":!"value" t?"value"}]
2 "config" l?(@"pair""pair")
`)
	if e != nil {
		fmt.Println(e)
		return
	}

	events, e := parser.Parse(syntax, `
"name" = "meta"
"debug" = false

"depth" = 10_000
"width" = 80
`)
	if e != nil {
		fmt.Println(e)
		return
	}

	root, e := tree.Build(events)
	if e != nil {
		fmt.Println(e)
		return
	}

	key, value := meta.NewName("key"), meta.NewName("value")
	for _, n := range tree.Children(root) {
		d, _ := n.Prop(value)
		fmt.Printf("%s: %v\n", n.String(key), d.Value())
	}
	// Output:
	// name: meta
	// debug: false
	// depth: 10000
	// width: 80
}
