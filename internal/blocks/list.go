package blocks

import (
	"context"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/numbering"
)

// List menu item names.
const (
	MenuIncreaseIndent = "Increase Indentation"
	MenuDecreaseIndent = "Decrease Indentation"
	MenuSetNumbering   = "Set Numbering"
)

// listInit starts a list item one level deep, or at the level of the list
// item it follows.
func listInit(typ string, depth int, extra block.Data) blocktype.InitFunc {
	return func(prev *block.Block) block.Data {
		d := textData()
		indent := 1
		if prev != nil && prev.Type() == typ {
			indent = numbering.Indentation(*prev, depth)
		}
		d[numbering.FieldIndentation] = float64(indent)
		for k, v := range extra {
			d[k] = v
		}
		return d.Clone()
	}
}

// indentItems are the Tab and Shift+Tab items shared by both list types.
// Manually numbered items keep their level.
func indentItems(depth int) []blocktype.MenuItem {
	shift := func(delta int) blocktype.MenuFunc {
		return func(_ context.Context, args blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
			cur := args.Current
			if numbering.IsManual(cur) {
				return nil
			}
			level := numbering.Indentation(cur, depth)
			next := numbering.ClampIndent(level+delta, depth)
			if next == level && cur.Data().Has(numbering.FieldIndentation) {
				return nil
			}
			obj := cur.Object()
			obj.Data[numbering.FieldIndentation] = float64(next)
			if err := cb.ModifyBlock(obj); err != nil {
				return err
			}
			cb.FocusOnCurrentBlock()
			return nil
		}
	}
	return []blocktype.MenuItem{
		{Name: MenuIncreaseIndent, Shortcut: "Tab", Action: shift(1)},
		{Name: MenuDecreaseIndent, Shortcut: "Shift+Tab", Action: shift(-1)},
	}
}

func orderedList() blocktype.Definition {
	depth := numbering.DefaultMaxIndent
	renumberAt := func(start func(blocktype.HookArgs) int) blocktype.Hook {
		return func(_ context.Context, args blocktype.HookArgs, cb blocktype.Callbacks) error {
			return numbering.Renumber(args.Sequence, start(args), OrderedList, depth, cb.ModifyBlock)
		}
	}
	fromIndex := func(args blocktype.HookArgs) int { return args.Index }

	items := append(indentItems(depth), blocktype.MenuItem{
		Name: MenuSetNumbering,
		Action: func(_ context.Context, args blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
			return cb.OpenEditor(EditorSetNumbering, map[string]any{
				"depth":     depth,
				"numbering": numbering.Of(args.Current, depth).String(),
				"manual":    numbering.IsManual(args.Current),
			})
		},
	})

	return blocktype.Definition{
		Type:           OrderedList,
		Label:          "Ordered List",
		Icon:           "OL",
		Shortcut:       "Cmd+O",
		FollowingBlock: OrderedList,
		MenuItems:      items,
		Init: listInit(OrderedList, depth, block.Data{
			numbering.FieldNumbering: block.EncodeInts(numbering.Zero(depth)),
			numbering.FieldManual:    false,
		}),

		OnCreateNewBlock: renumberAt(fromIndex),
		OnDeleteBlock:    renumberAt(fromIndex),
		OnModifyRawBlock: renumberAt(fromIndex),
		OnMoveBlock: renumberAt(func(args blocktype.HookArgs) int {
			return max(0, args.Index-1)
		}),
		OnConvertBlockType: func(ctx context.Context, args blocktype.HookArgs, cb blocktype.Callbacks) error {
			conv, _ := args.Action.(blocktype.ConvertBlockType)
			if conv.OldType != OrderedList && args.Current.Type() != OrderedList {
				return nil
			}
			return renumberAt(fromIndex)(ctx, args, cb)
		},
		OnMenuItem: func(ctx context.Context, args blocktype.HookArgs, cb blocktype.Callbacks) error {
			menu, _ := args.Action.(blocktype.ExecuteMenu)
			if menu.Name != MenuIncreaseIndent && menu.Name != MenuDecreaseIndent {
				return nil
			}
			return renumberAt(fromIndex)(ctx, args, cb)
		},
	}
}

func unorderedList() blocktype.Definition {
	return blocktype.Definition{
		Type:           UnorderedList,
		Label:          "Unordered List",
		Icon:           "UL",
		Shortcut:       "Cmd+U",
		FollowingBlock: UnorderedList,
		MenuItems:      indentItems(UnorderedMaxIndent),
		Init:           listInit(UnorderedList, UnorderedMaxIndent, nil),
	}
}
