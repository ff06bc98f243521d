package vfs

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/philjestin/pathresolver/internal/resolver"
)

// ScriptOffset finds where the body of the first top-level <script> block
// starts in a single-file component. ok is false when there is none.
func ScriptOffset(ctx context.Context, src []byte) (off resolver.Offset, ok bool, err error) {
	parser := sitter.NewParser()
	parser.SetLanguage(html.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return resolver.Offset{}, false, fmt.Errorf("parse component: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() != "script_element" {
			continue
		}
		body := findChild(n, "raw_text")
		if body == nil {
			// empty <script></script>
			body = findChild(n, "end_tag")
		}
		if body == nil {
			return resolver.Offset{}, false, nil
		}
		p := body.StartPoint()
		return resolver.Offset{Line: int(p.Row), Column: int(p.Column)}, true, nil
	}
	return resolver.Offset{}, false, nil
}

func findChild(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == typ {
			return c
		}
	}
	return nil
}
