package game

// The price lattice is the static chart every market slot's coordinate
// indexes into. Row 0 is the top of the chart (most expensive region),
// row 12 the bottom. Columns shade the price within a row; the market
// opens with every tradable good at (12, 3).
const (
	LatticeRows = 13
	LatticeCols = 8
)

// priceTable maps a lattice coordinate to a price in coins.
var priceTable = [LatticeRows][LatticeCols]int{
	{120, 126, 132, 138, 144, 150, 156, 162},
	{100, 106, 112, 118, 124, 130, 136, 142},
	{82, 86, 90, 94, 98, 102, 106, 110},
	{66, 70, 74, 78, 82, 86, 90, 94},
	{52, 56, 60, 64, 68, 72, 76, 80},
	{40, 42, 44, 46, 48, 50, 52, 54},
	{30, 32, 34, 36, 38, 40, 42, 44},
	{22, 24, 26, 28, 30, 32, 34, 36},
	{16, 18, 20, 22, 24, 26, 28, 30},
	{12, 13, 14, 15, 16, 17, 18, 19},
	{8, 9, 10, 11, 12, 13, 14, 15},
	{6, 7, 8, 9, 10, 11, 12, 13},
	{4, 5, 6, 7, 8, 9, 10, 11},
}

// rowLevel classifies each row into one of the ten price levels that
// drive trade caps and loan tiers.
var rowLevel = [LatticeRows]int{9, 9, 8, 8, 7, 6, 5, 4, 3, 2, 1, 0, 0}

// levelCards holds, per price level, the per-transaction trade cap and
// the number of pocket tokens drawn during a fluctuation round.
var levelCards = [10][2]int{
	{5, 4}, {5, 4}, {5, 5},
	{4, 5}, {4, 5}, {4, 6},
	{3, 6}, {3, 6}, {3, 7},
	{2, 7},
}

// diffRowDelta/diffColDelta give the coordinate shift for a fluctuation
// draw difference of 0..6. Differences of 7..12 apply the entry for 6
// and then climb one row per excess unit.
var (
	diffRowDelta = [7]int{1, 0, 0, -1, -1, -2, -2}
	diffColDelta = [7]int{0, -1, 1, 0, 1, 0, 1}
)

// PriceAt returns the chart price for a coordinate.
func PriceAt(c Coordinate) int {
	return priceTable[c.Row][c.Col]
}

// LevelAt returns the price level for a coordinate.
func LevelAt(c Coordinate) int {
	return rowLevel[c.Row]
}

// TradeCap returns the maximum number of tokens a single buy or sell may
// move at the given price level.
func TradeCap(level int) int {
	return levelCards[level][0]
}

// FluctuationDraws returns how many pocket tokens a fluctuation round
// draws at the given price level.
func FluctuationDraws(level int) int {
	return levelCards[level][1]
}

// DiffDelta returns the coordinate delta for a draw difference in 0..6.
func DiffDelta(diff int) (dr, dc int) {
	return diffRowDelta[diff], diffColDelta[diff]
}

func clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= LatticeRows {
		return LatticeRows - 1
	}
	return r
}

func clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= LatticeCols {
		return LatticeCols - 1
	}
	return c
}
