package query

const (
	DefaultCount = 20
	MaxCount     = 100
)

// State holds one view's client-side query parameters: the search text,
// the filter and sort attributes, and the fetch window. Count is always
// positive and Offset never goes below zero.
type State struct {
	Search      string
	FilterField Field
	SortField   Field
	Count       int
	Offset      int
}

func NewState() State {
	return State{Count: DefaultCount}
}

// SetCount updates the page size, clamping to a sane window.
func (s *State) SetCount(n int) {
	if n <= 0 {
		n = DefaultCount
	}
	if n > MaxCount {
		n = MaxCount
	}
	s.Count = n
}

// SetOffset moves the fetch window; negative offsets reset to zero.
func (s *State) SetOffset(n int) {
	if n < 0 {
		n = 0
	}
	s.Offset = n
}

// NextPage advances the window by one page.
func (s *State) NextPage() {
	s.Offset += s.Count
}

// PrevPage moves the window back by one page, clamping at the start.
func (s *State) PrevPage() {
	s.SetOffset(s.Offset - s.Count)
}
