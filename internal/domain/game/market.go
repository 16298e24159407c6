package game

// Coordinate addresses a cell of the price lattice.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// StockSlot is one tradable good's live market state: how many of its
// tokens sit in the market and where its marker stands on the lattice.
type StockSlot struct {
	Count int        `json:"count"`
	Coord Coordinate `json:"coord"`
}

// Price returns the slot's current chart price.
func (s *StockSlot) Price() int {
	return PriceAt(s.Coord)
}

// Level returns the slot's current price level.
func (s *StockSlot) Level() int {
	return LevelAt(s.Coord)
}

// StepUp moves the marker one row toward the expensive end of the chart.
// Clamped at the top row.
func (s *StockSlot) StepUp() {
	s.Coord.Row = clampRow(s.Coord.Row - 1)
}

// StepDown moves the marker one row toward the cheap end of the chart.
// Clamped at the bottom row.
func (s *StockSlot) StepDown() {
	s.Coord.Row = clampRow(s.Coord.Row + 1)
}

// Shift applies a row/column delta, clamped to the lattice.
func (s *StockSlot) Shift(dr, dc int) {
	s.Coord.Row = clampRow(s.Coord.Row + dr)
	s.Coord.Col = clampCol(s.Coord.Col + dc)
}
