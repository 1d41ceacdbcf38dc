package chart

// Frame is an immutable snapshot of the scene at one instant. Sinks render
// frames; they never see the live scene.
type Frame struct {
	Width, Height float64 // plot area
	Margin        Margin
	ValueMax      float64 // upper bound of the value scale

	Bars         []BarFrame
	CategoryAxis AxisFrame
	ValueAxis    AxisFrame
	Labels       []LabelFrame
	Tooltip      TooltipFrame
}

// TotalWidth is the drawing surface width including margins.
func (f Frame) TotalWidth() float64 { return f.Width + f.Margin.Left + f.Margin.Right }

// TotalHeight is the drawing surface height including margins.
func (f Frame) TotalHeight() float64 { return f.Height + f.Margin.Top + f.Margin.Bottom }

// BarFrame is one bar in plot coordinates. Y grows downward.
type BarFrame struct {
	Key                 string
	Value               float64
	X, Y, Width, Height float64
	Fill                string
}

// Orient is the side of the plot an axis is drawn on.
type Orient string

const (
	OrientBottom Orient = "bottom"
	OrientLeft   Orient = "left"
)

// AxisFrame is an axis and its ticks. Pos is x for the bottom axis and y for
// the left axis.
type AxisFrame struct {
	Orient Orient
	Ticks  []TickFrame
}

// TickFrame is a single axis tick.
type TickFrame struct {
	Label   string
	Pos     float64
	Opacity float64
}

// LabelFrame is static text such as an axis title.
type LabelFrame struct {
	Text   string
	X, Y   float64
	Anchor string
}

// TooltipFrame is the shared hover tooltip. It is drawn only when Opacity > 0.
type TooltipFrame struct {
	Text    string
	X, Y    float64
	Opacity float64
}

// Visible reports whether the tooltip shows at all.
func (t TooltipFrame) Visible() bool { return t.Opacity > 0 }
