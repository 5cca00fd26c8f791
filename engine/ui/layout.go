package ui

import "github.com/emberforge/ember/engine/colors"

// ===== Sizing & layout props =====

type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

type Align int

const (
	Start Align = iota
	Center
	End
	Stretch
)

type SizeMode int

const (
	SizeFit SizeMode = iota
	SizeFixed
	SizeExpand
)

type Sizing struct {
	WMode SizeMode
	HMode SizeMode
	WVal  float32 // for SizeFixed
	HVal  float32
}

func Fit() Sizing            { return Sizing{WMode: SizeFit, HMode: SizeFit} }
func Expand() Sizing         { return Sizing{WMode: SizeExpand, HMode: SizeExpand} }
func Px(w, h float32) Sizing { return Sizing{WMode: SizeFixed, HMode: SizeFixed, WVal: w, HVal: h} }

type Insets4 struct{ L, T, R, B float32 }

func Insets(l, t, r, b float32) Insets4 { return Insets4{l, t, r, b} }

// Props configures one view container.
type Props struct {
	ID         int
	Axis       Axis
	MainAlign  Align
	CrossAlign Align
	Sizing     Sizing
	Gap        float32
	Padding    Insets4
	Bg         colors.Color // optional background quad

	// Placement box. The root view defaults to the frame viewport;
	// nested views are placed by their parent.
	BoundsX float32
	BoundsY float32
	BoundsW float32
	BoundsH float32
}

// ===== Internal structs =====

type viewScope struct {
	props    Props
	firstCmd int // index in ctx.cmds where this view's commands begin
	bgCmd    int // optional background command index, -1 if none

	firstItem int // index in ctx.items
}

type itemKind uint8

const (
	itemWidget itemKind = iota
	itemView
)

type item struct {
	kind itemKind
	iCmd int // widget: index into ctx.cmds
	// view: command range plus recorded origin, so the parent can
	// shift the whole subtree when placing it.
	firstCmd, nCmds int
	ox, oy          float32
	w, h            float32
}

type cmdKind uint8

const (
	cmdQuad cmdKind = iota
	cmdLabel
	cmdButton
	cmdCheckbox
)

type cmd struct {
	kind cmdKind
	id   int

	// geometry, resolved at EndView
	x, y, w, h float32

	text     string
	fontSize float32
	color    colors.Color
	bg       colors.Color
	checked  *bool
}

// ===== Begin/End view =====

// BeginView opens a layout scope. Widgets and nested views recorded
// until the matching EndView are measured and placed along the axis.
func BeginView(p Props) {
	ctx := current
	if len(ctx.viewStack) == cap(ctx.viewStack) {
		return
	}
	if len(ctx.viewStack) == 0 && p.BoundsW == 0 && p.BoundsH == 0 {
		p.BoundsW, p.BoundsH = ctx.vpW, ctx.vpH
	}
	scope := viewScope{
		props:     p,
		firstCmd:  len(ctx.cmds),
		firstItem: len(ctx.items),
		bgCmd:     -1,
	}
	if p.Bg[3] > 0 {
		idx := emit(ctx, cmd{kind: cmdQuad, bg: p.Bg})
		if idx >= 0 {
			scope.bgCmd = idx
		}
	}
	ctx.viewStack = append(ctx.viewStack, scope)
}

// EndView closes the innermost scope: measures children, resolves the
// view's own size, then places every child (widgets directly, nested
// views by shifting their recorded command range).
func EndView() {
	ctx := current
	if len(ctx.viewStack) == 0 {
		return
	}

	scope := ctx.viewStack[len(ctx.viewStack)-1]
	ctx.viewStack = ctx.viewStack[:len(ctx.viewStack)-1]
	nCmds := len(ctx.cmds) - scope.firstCmd
	nItems := len(ctx.items) - scope.firstItem

	gap := scope.props.Gap
	mainIsX := scope.props.Axis == Horizontal

	// Measure total main/cross span.
	var totalMain, maxCross float32
	for i := 0; i < nItems; i++ {
		it := ctx.items[scope.firstItem+i]
		if mainIsX {
			totalMain += it.w
			maxCross = maxf(maxCross, it.h)
		} else {
			totalMain += it.h
			maxCross = maxf(maxCross, it.w)
		}
	}
	if nItems > 1 {
		totalMain += gap * float32(nItems-1)
	}

	// Resolve self size.
	var availW, availH float32
	switch scope.props.Sizing.WMode {
	case SizeFixed:
		availW = scope.props.Sizing.WVal
	case SizeExpand:
		availW = scope.props.BoundsW
	default:
		if mainIsX {
			availW = totalMain
		} else {
			availW = maxCross
		}
	}
	switch scope.props.Sizing.HMode {
	case SizeFixed:
		availH = scope.props.Sizing.HVal
	case SizeExpand:
		availH = scope.props.BoundsH
	default:
		if mainIsX {
			availH = maxCross
		} else {
			availH = totalMain
		}
	}
	availW += scope.props.Padding.L + scope.props.Padding.R
	availH += scope.props.Padding.T + scope.props.Padding.B

	// Content box.
	x := scope.props.BoundsX + scope.props.Padding.L
	y := scope.props.BoundsY + scope.props.Padding.T
	w := maxf(0, availW-scope.props.Padding.L-scope.props.Padding.R)
	h := maxf(0, availH-scope.props.Padding.T-scope.props.Padding.B)

	if scope.bgCmd >= 0 {
		c := &ctx.cmds[scope.bgCmd]
		c.x = scope.props.BoundsX
		c.y = scope.props.BoundsY
		c.w = availW
		c.h = availH
	}

	// Starting offset for main alignment.
	var free float32
	if mainIsX {
		free = w - totalMain
	} else {
		free = h - totalMain
	}
	free = maxf(free, 0)
	var start float32
	switch scope.props.MainAlign {
	case Center:
		start = free * 0.5
	case End:
		start = free
	}

	// Place children.
	cursor := start
	for i := 0; i < nItems; i++ {
		it := ctx.items[scope.firstItem+i]

		var crossPos float32
		switch scope.props.CrossAlign {
		case Center:
			if mainIsX {
				crossPos = (h - it.h) * 0.5
			} else {
				crossPos = (w - it.w) * 0.5
			}
		case End:
			if mainIsX {
				crossPos = h - it.h
			} else {
				crossPos = w - it.w
			}
		case Stretch:
			if mainIsX {
				it.h = h
			} else {
				it.w = w
			}
		}

		var fx, fy float32
		if mainIsX {
			fx, fy = x+cursor, y+crossPos
			cursor += it.w
		} else {
			fx, fy = x+crossPos, y+cursor
			cursor += it.h
		}

		switch it.kind {
		case itemWidget:
			c := &ctx.cmds[it.iCmd]
			c.x, c.y, c.w, c.h = fx, fy, it.w, it.h
		case itemView:
			dx, dy := fx-it.ox, fy-it.oy
			for j := it.firstCmd; j < it.firstCmd+it.nCmds; j++ {
				ctx.cmds[j].x += dx
				ctx.cmds[j].y += dy
			}
		}
		if i != nItems-1 {
			cursor += gap
		}
	}

	// Clear the transient item segment and register this view as an
	// item in its parent, if any.
	ctx.items = ctx.items[:scope.firstItem]
	if len(ctx.viewStack) > 0 {
		addItem(ctx, item{
			kind:     itemView,
			firstCmd: scope.firstCmd,
			nCmds:    nCmds,
			ox:       scope.props.BoundsX,
			oy:       scope.props.BoundsY,
			w:        availW,
			h:        availH,
		})
	}
}

func addItem(ctx *Ctx, it item) {
	if len(ctx.items) == cap(ctx.items) {
		return
	}
	ctx.items = append(ctx.items, it)
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
