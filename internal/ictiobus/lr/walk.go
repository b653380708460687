package lr

import (
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
)

// CallActions is spec §4.4's "tree-then-walk" second pass: it walks tree
// bottom-up, invoking the bound action for every non-leaf node and storing
// the result on that node's Value, then returns the root's Value. Grounded
// on the same action-dispatch logic Parser.Parse uses in-line, factored out
// so tree-then-walk mode (the recommended mode for GLR, to avoid running
// actions on pruned branches) can defer to it after a single tree has been
// chosen from a forest.
func (p *Parser) CallActions(input string, tree *runtime.Tree) (any, error) {
	if tree.IsLeaf() {
		return tree.Token.Value, nil
	}

	children := make([]any, len(tree.Children))
	for i, c := range tree.Children {
		v, err := p.CallActions(input, c)
		if err != nil {
			return nil, err
		}
		children[i] = v
	}

	var prod grammar.Production
	ok := false
	if tree.Production != nil {
		prod, ok = *tree.Production, true
	} else {
		prod, ok = findProductionFor(p.gram, tree.Symbol, tree.Children)
	}
	actionName := ""
	if ok {
		actionName = actionNameFor(prod)
	}

	a, found := p.actions.Get(actionName)
	if !found {
		if len(children) == 1 {
			a = runtime.NoChange
		} else {
			a = runtime.None
		}
	}

	ctx := runtime.Context{
		Input:  input,
		Symbol: tree.Symbol,
		Node:   tree,
		Extra:  make(map[string]any),
	}
	if ok {
		ctx.Production = &prod
	}

	v, err := a(ctx, children, nil)
	if err != nil {
		return nil, err
	}
	tree.Value = v
	return v, nil
}

// findProductionFor locates the production of nt whose right-hand side
// matches the symbols of children, so CallActions can resolve the bound
// action identifier for a tree node built without an Action reference
// attached (Tree carries only Symbol/Children, not the Production that
// produced it).
func findProductionFor(g grammar.Grammar, nt string, children []*runtime.Tree) (grammar.Production, bool) {
	r := g.Rule(nt)
	if len(children) == 0 {
		for _, p := range r.Productions {
			if grammar.IsEpsilon(p.Symbols) {
				return p, true
			}
		}
		return grammar.Production{}, false
	}

	for _, p := range r.Productions {
		if len(p.Symbols) != len(children) {
			continue
		}
		match := true
		for i, sym := range p.Symbols {
			if children[i].Symbol != sym {
				match = false
				break
			}
		}
		if match {
			return p, true
		}
	}
	return grammar.Production{}, false
}
