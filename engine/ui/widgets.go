package ui

import (
	"github.com/emberforge/ember/engine/colors"
	"github.com/emberforge/ember/engine/core"
)

const defaultFontSize = 16

// ===== Label =====

type LabelProps struct {
	Text     string
	FontSize float32
	Color    colors.Color
	Sizing   Sizing
}

func Label(p LabelProps) {
	ctx := current
	if p.FontSize <= 0 {
		p.FontSize = defaultFontSize
	}
	w, h := ctx.font.Measure(p.Text, p.FontSize)
	if p.Sizing.WMode == SizeFixed {
		w = p.Sizing.WVal
	}
	if p.Sizing.HMode == SizeFixed {
		h = p.Sizing.HVal
	}
	if p.Color == colors.Transparent {
		p.Color = colors.White
	}

	iCmd := emit(ctx, cmd{
		kind:     cmdLabel,
		text:     p.Text,
		fontSize: p.FontSize,
		color:    p.Color,
	})
	if iCmd >= 0 {
		addItem(ctx, item{kind: itemWidget, iCmd: iCmd, w: w, h: h})
	}
}

// ===== Button =====

type ButtonProps struct {
	ID       int
	Text     string
	FontSize float32
	TextCol  colors.Color
	Bg       colors.Color
	Padding  Insets4
	Sizing   *Sizing
}

// Button records a push button and reports whether it was clicked.
// Interaction resolves at EndFrame when geometry is known, so a click is
// reported on the frame after the release: standard one-frame latency
// for deferred immediate-mode hit testing.
func Button(p ButtonProps) (clicked bool) {
	ctx := current
	if p.FontSize <= 0 {
		p.FontSize = defaultFontSize
	}
	tw, th := ctx.font.Measure(p.Text, p.FontSize)
	w := tw + p.Padding.L + p.Padding.R
	h := th + p.Padding.T + p.Padding.B

	if p.Sizing != nil {
		if p.Sizing.WMode == SizeFixed {
			w = p.Sizing.WVal
		}
		if p.Sizing.HMode == SizeFixed {
			h = p.Sizing.HVal
		}
	}
	if p.TextCol == colors.Transparent {
		p.TextCol = colors.White
	}

	iCmd := emit(ctx, cmd{
		kind:     cmdButton,
		id:       p.ID,
		text:     p.Text,
		fontSize: p.FontSize,
		color:    p.TextCol,
		bg:       p.Bg,
	})
	if iCmd >= 0 {
		addItem(ctx, item{kind: itemWidget, iCmd: iCmd, w: w, h: h})
	}

	st := ctx.state[p.ID]
	if st.clicked {
		st.clicked = false
		ctx.state[p.ID] = st
		return true
	}
	return false
}

// ===== Checkbox =====

type CheckboxProps struct {
	ID       int
	Text     string
	FontSize float32
	Color    colors.Color
	Checked  *bool
}

// Checkbox records a toggle bound to *p.Checked; the value flips during
// EndFrame when a click resolves on it.
func Checkbox(p CheckboxProps) {
	ctx := current
	if p.FontSize <= 0 {
		p.FontSize = defaultFontSize
	}
	if p.Color == colors.Transparent {
		p.Color = colors.White
	}
	tw, th := ctx.font.Measure(p.Text, p.FontSize)
	box := th
	w := box + checkboxGap + tw
	h := th

	iCmd := emit(ctx, cmd{
		kind:     cmdCheckbox,
		id:       p.ID,
		text:     p.Text,
		fontSize: p.FontSize,
		color:    p.Color,
		checked:  p.Checked,
	})
	if iCmd >= 0 {
		addItem(ctx, item{kind: itemWidget, iCmd: iCmd, w: w, h: h})
	}
}

const checkboxGap = 8

// ===== Spacer =====

// Spacer inserts fixed empty space along the parent's axis.
func Spacer(w, h float32) {
	ctx := current
	iCmd := emit(ctx, cmd{kind: cmdQuad})
	if iCmd >= 0 {
		addItem(ctx, item{kind: itemWidget, iCmd: iCmd, w: w, h: h})
	}
}

// ===== Internal: record & resolve =====

func emit(ctx *Ctx, c cmd) int {
	if len(ctx.cmds) == cap(ctx.cmds) {
		return -1
	}
	ctx.cmds = append(ctx.cmds, c)
	return len(ctx.cmds) - 1
}

// resolveWidget runs interaction against the final geometry and
// tessellates the widget. Called in recording order by EndFrame.
func resolveWidget(ctx *Ctx, c *cmd) {
	switch c.kind {
	case cmdQuad:
		if c.bg[3] > 0 {
			ctx.tess.quad(c.x, c.y, c.w, c.h, c.bg, nil, 0, 0, 1, 1)
		}
	case cmdLabel:
		ctx.tess.text(ctx.font, c.x, c.y, c.text, c.fontSize, c.color)
	case cmdButton:
		resolveButton(ctx, c)
	case cmdCheckbox:
		resolveCheckbox(ctx, c)
	}
}

// interact updates the per-widget hot/active/clicked state against the
// resolved rect. Returns the new state.
func interact(ctx *Ctx, id int, x, y, w, h float32) widgetState {
	hot := pointIn(x, y, w, h, ctx.in.MouseX, ctx.in.MouseY)
	st := ctx.state[id]
	if ctx.in.MousePressed && hot {
		st.active = true
	}
	if ctx.in.MouseReleased {
		if st.active && hot {
			st.clicked = true
		}
		st.active = false
	}
	st.hot = hot
	ctx.state[id] = st
	if hot {
		ctx.output.Cursor = core.CursorHand
	}
	return st
}

func resolveButton(ctx *Ctx, c *cmd) {
	st := interact(ctx, c.id, c.x, c.y, c.w, c.h)

	bg := c.bg
	if st.active {
		bg = bg.Scale(0.85)
	} else if st.hot {
		bg = bg.Scale(1.05)
	}
	if bg[3] > 0 {
		ctx.tess.quad(c.x, c.y, c.w, c.h, bg, nil, 0, 0, 1, 1)
	}

	tw, th := ctx.font.Measure(c.text, c.fontSize)
	tx := c.x + (c.w-tw)*0.5
	ty := c.y + (c.h-th)*0.5
	ctx.tess.text(ctx.font, tx, ty, c.text, c.fontSize, c.color)
}

func resolveCheckbox(ctx *Ctx, c *cmd) {
	st := interact(ctx, c.id, c.x, c.y, c.w, c.h)
	if st.clicked && c.checked != nil {
		*c.checked = !*c.checked
		st.clicked = false
		ctx.state[c.id] = st
	}

	box := c.h
	frame := colors.Gray
	if st.hot {
		frame = frame.Scale(1.2)
	}
	ctx.tess.quad(c.x, c.y, box, box, frame, nil, 0, 0, 1, 1)
	if c.checked != nil && *c.checked {
		inset := box * 0.25
		ctx.tess.quad(c.x+inset, c.y+inset, box-2*inset, box-2*inset, c.color, nil, 0, 0, 1, 1)
	}
	ctx.tess.text(ctx.font, c.x+box+checkboxGap, c.y, c.text, c.fontSize, c.color)
}

func pointIn(x, y, w, h, px, py float32) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}
