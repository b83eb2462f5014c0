package blocks

import (
	"context"
	"errors"

	"github.com/bethropolis/notebook/internal/block"
	"github.com/bethropolis/notebook/internal/blocktype"
	"github.com/bethropolis/notebook/internal/highlighter"
	"github.com/bethropolis/notebook/internal/logger"
)

// DefaultLanguage is the language a new code block is highlighted as.
const DefaultLanguage = "go"

const MenuSetLanguage = "Set Language"

// code keeps its syntax styles in step with its text. User styles such as
// BOLD are left alone; only CODE_* ranges are recomputed.
func code(hl *highlighter.Highlighter) blocktype.Definition {
	restyle := func(ctx context.Context, args blocktype.HookArgs, cb blocktype.Callbacks) error {
		cur := args.Current
		if hl == nil || cur.Type() != Code {
			return nil
		}
		data := cur.Data()
		fresh, err := hl.Highlight(ctx, data.String("language"), cur.Text())
		if errors.Is(err, highlighter.ErrUnknownLanguage) {
			logger.DebugTagf("blocks", "code %s: %v", cur.ID(), err)
			fresh = nil
		} else if err != nil {
			return err
		}
		styles := highlighter.Restyle(data.InlineStyles(), fresh)
		next := data.With("inlineStyles", block.EncodeInlineStyles(styles))
		if block.Equal(next, data) {
			return nil
		}
		obj := cur.Object()
		obj.Data = next
		return cb.ModifyBlock(obj)
	}

	return blocktype.Definition{
		Type:           Code,
		Label:          "Code",
		Icon:           "{}",
		Shortcut:       "Cmd+E",
		FollowingBlock: Paragraph,
		MenuItems: []blocktype.MenuItem{{
			Name: MenuSetLanguage,
			Action: func(_ context.Context, args blocktype.MenuArgs, cb blocktype.MenuCallbacks) error {
				return cb.OpenEditor(EditorLanguage, map[string]any{
					"language": args.Current.Data().String("language"),
				})
			},
		}},
		Init: withText(block.Data{"language": DefaultLanguage}),

		OnBaseTextUpdate:   restyle,
		OnConvertBlockType: restyle,
		OnModifyRawBlock:   restyle,
	}
}
