package core

// Input tracks the current key, button and cursor state from events.
type Input struct {
	keys           map[Key]bool
	buttons        map[int]bool
	mouseX, mouseY float64
	scrollX        float64
	scrollY        float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}, buttons: map[int]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventMouseButton:
		in.buttons[e.Button] = e.Down
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	case EventScroll:
		in.scrollX += e.Xoff
		in.scrollY += e.Yoff
	}
}

func (in *Input) IsKeyDown(k Key) bool         { return in.keys[k] }
func (in *Input) IsButtonDown(button int) bool { return in.buttons[button] }
func (in *Input) Mouse() (float64, float64)    { return in.mouseX, in.mouseY }

// TakeScroll returns the scroll offset accumulated since the last call.
func (in *Input) TakeScroll() (float64, float64) {
	x, y := in.scrollX, in.scrollY
	in.scrollX, in.scrollY = 0, 0
	return x, y
}
